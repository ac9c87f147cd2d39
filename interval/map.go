package interval

import (
	"github.com/biogo/store/llrb"
	"github.com/strandbio/overlay/variant"
)

// entry is the llrb element type: one stored range and its record.
// Ordering is by range start under the variant.Position total order, so a
// tree never holds two entries whose starts compare equal.
type entry struct {
	rng variant.Range
	rec variant.Record
}

// Compare compares two entries for use in llrb.
func (e entry) Compare(c llrb.Comparable) int {
	return e.rng.StartPosition().Compare(c.(entry).rng.StartPosition())
}

// Map is an ordered collection of disjoint closed ranges, each bound to
// exactly one variant.Record.  All contigs share one tree; iteration
// order is contig order first, offset second.
type Map struct {
	tree llrb.Tree
}

// NewMap returns an empty Map.
func NewMap() *Map {
	return &Map{}
}

// Len returns the number of stored ranges.
func (m *Map) Len() int {
	return m.tree.Len()
}

// Put binds rec to exactly the range r, overwriting an entry stored under
// an equal start.  Behavior is undefined if r overlaps a stored range
// without being identical to it; callers must Remove the affected entries
// first.
func (m *Map) Put(r variant.Range, rec variant.Record) {
	m.tree.Insert(entry{rng: r, rec: rec})
}

// Remove deletes the entry stored for exactly the range r.  It is a no-op
// when no entry starts at r's start, or when the entry there covers a
// different range.
func (m *Map) Remove(r variant.Range) {
	got := m.tree.Get(entry{rng: r})
	if got == nil {
		return
	}
	if got.(entry).rng != r {
		return
	}
	m.tree.Delete(entry{rng: r})
}

// probe builds a query entry for a point position.
func probe(p variant.Position) entry {
	return entry{rng: variant.Range{Contig: p.Contig, Start: p.Pos, End: p.Pos}}
}

// GetEntry returns the stored range containing p, along with its record.
// The range is what a caller needs to delete-then-resplit.
func (m *Map) GetEntry(p variant.Position) (variant.Range, variant.Record, bool) {
	// Floor finds the last range starting at or before p; it contains p
	// unless it ends short of it.
	got := m.tree.Floor(probe(p))
	if got == nil {
		return variant.Range{}, variant.Record{}, false
	}
	e := got.(entry)
	if !e.rng.Contains(p) {
		return variant.Range{}, variant.Record{}, false
	}
	return e.rng, e.rec, true
}

// Get returns the record whose stored range contains p.
func (m *Map) Get(p variant.Position) (variant.Record, bool) {
	_, rec, ok := m.GetEntry(p)
	return rec, ok
}

// Do calls fn on every entry in ascending start order, stopping early if
// fn returns true.  It reports whether the traversal stopped early.  The
// map must not be mutated during the traversal.
func (m *Map) Do(fn func(variant.Range, variant.Record) bool) bool {
	return m.tree.Do(func(c llrb.Comparable) bool {
		e := c.(entry)
		return fn(e.rng, e.rec)
	})
}
