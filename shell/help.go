package shell

import (
	_ "embed"
)

//go:embed helptext/usage.txt
var usageText string

func usage() (*Response, error) {
	return msg(usageText), nil
}
