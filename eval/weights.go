package eval

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Weights holds the per-pair values of the canonical pipeline. A
// reserved pair outweighs an open one because the opponent can never
// take it away.
type Weights struct {
	Reserved int `yaml:"reserved"`
	Open     int `yaml:"open"`
}

// DefaultWeights returns the standard 2/1 weighting.
func DefaultWeights() Weights {
	return Weights{Reserved: 2, Open: 1}
}

// LoadWeights reads a Weights yaml file, for example:
//
//	reserved: 2
//	open: 1
func LoadWeights(path string) (Weights, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Weights{}, fmt.Errorf("reading weights file: %w", err)
	}
	var w Weights
	if err := yaml.Unmarshal(data, &w); err != nil {
		return Weights{}, fmt.Errorf("parsing weights file %s: %w", path, err)
	}
	if w.Reserved < 0 || w.Open < 0 {
		return Weights{}, fmt.Errorf("weights in %s must not be negative", path)
	}
	return w, nil
}
