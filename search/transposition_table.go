package search

import (
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"os"
	"sort"

	"github.com/cespare/xxhash"
	"github.com/rs/zerolog/log"

	"github.com/crosscram/crosscram/board"
)

const (
	TTExact = 0x01
	TTLower = 0x02
	TTUpper = 0x03
)

// A TableEntry memoizes one resolved position. Score is an int32 so
// the ±Infinity outcome values fit.
type TableEntry struct {
	Score int32
	Depth uint8
	Flag  uint8
}

func (t TableEntry) Valid() bool {
	// a table flag is 1, 2, or 3.
	return t.Flag != 0
}

// A Table stores position values across searches and sessions, keyed
// by board fingerprint and bound to one board size. It complements
// the engine's move-order cache, which remembers orderings rather
// than values; the recursion itself never consults the table. Callers
// record resolved root values here and can persist them with Save, so
// a later session on the same board size starts with known positions
// instead of a blank slate.
type Table struct {
	rows, cols int
	entries    map[uint64]TableEntry

	created uint64
	lookups uint64
	hits    uint64
}

// NewTable returns an empty table for rows x cols boards.
func NewTable(rows, cols int) *Table {
	return &Table{
		rows:    rows,
		cols:    cols,
		entries: make(map[uint64]TableEntry),
	}
}

func (t *Table) Rows() int { return t.rows }
func (t *Table) Cols() int { return t.cols }
func (t *Table) Len() int  { return len(t.entries) }

// Fits reports whether the table was built for positions shaped like
// p. Fingerprints from differently sized boards come from different
// key tables, so a mismatched lookup would be garbage.
func (t *Table) Fits(p *board.Position) bool {
	return t.rows == p.Rows() && t.cols == p.Cols()
}

// Store records an entry for the fingerprint.
func (t *Table) Store(fp uint64, entry TableEntry) {
	// just overwrite whatever is there for now.
	t.entries[fp] = entry
	t.created++
}

// Lookup returns the entry recorded for the fingerprint, if any.
func (t *Table) Lookup(fp uint64) (TableEntry, bool) {
	t.lookups++
	entry, ok := t.entries[fp]
	if ok {
		t.hits++
	}
	return entry, ok
}

// Stats returns the lifetime store, lookup, and hit counts.
func (t *Table) Stats() (created, lookups, hits uint64) {
	return t.created, t.lookups, t.hits
}

// tableSnapshot is the gob wire form of a Table. Sum guards against
// torn or hand-edited files.
type tableSnapshot struct {
	Rows, Cols int
	Entries    map[uint64]TableEntry
	Sum        uint64
}

// checksum hashes the table deterministically: dimensions first, then
// every entry in ascending fingerprint order.
func (t *Table) checksum() uint64 {
	keys := make([]uint64, 0, len(t.entries))
	for k := range t.entries {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	h := xxhash.New()
	var buf [8]byte
	write := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:], v)
		h.Write(buf[:])
	}
	write(uint64(t.rows))
	write(uint64(t.cols))
	for _, k := range keys {
		entry := t.entries[k]
		write(k)
		write(uint64(uint32(entry.Score)))
		write(uint64(entry.Depth))
		write(uint64(entry.Flag))
	}
	return h.Sum64()
}

// Save writes the table to path as a checksummed gob snapshot.
func (t *Table) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating table file: %w", err)
	}
	defer f.Close()

	snapshot := tableSnapshot{
		Rows:    t.rows,
		Cols:    t.cols,
		Entries: t.entries,
		Sum:     t.checksum(),
	}
	if err := gob.NewEncoder(f).Encode(&snapshot); err != nil {
		return fmt.Errorf("encoding table file %s: %w", path, err)
	}
	log.Debug().Msgf("Saved %d table entries to %v", len(t.entries), path)
	return nil
}

// LoadTable reads a snapshot written by Save. It refuses files whose
// checksum does not match their contents and files with nonsensical
// dimensions.
func LoadTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening table file: %w", err)
	}
	defer f.Close()

	var snapshot tableSnapshot
	if err := gob.NewDecoder(f).Decode(&snapshot); err != nil {
		return nil, fmt.Errorf("decoding table file %s: %w", path, err)
	}
	t := &Table{
		rows:    snapshot.Rows,
		cols:    snapshot.Cols,
		entries: snapshot.Entries,
	}
	if t.entries == nil {
		t.entries = make(map[uint64]TableEntry)
	}
	if t.rows < 1 || t.cols < 1 || t.rows > board.MaxDim || t.cols > board.MaxDim {
		return nil, fmt.Errorf("table file %s has impossible dimensions %dx%d",
			path, t.rows, t.cols)
	}
	if snapshot.Sum != t.checksum() {
		return nil, fmt.Errorf("table file %s failed its checksum", path)
	}
	log.Debug().Msgf("Loaded %d table entries from %v", len(t.entries), path)
	return t, nil
}
