// Package variant defines the core value types of the overlay pipeline:
// 1-based genomic positions with a total order, closed coordinate ranges,
// and variant records distinguishing gVCF reference blocks from called
// variants.
package variant

import (
	"fmt"
	"strconv"
	"strings"
)

// PosType is the integer type used to represent 1-based genomic offsets.
// It is int64 rather than int32 since VCF POS/END values are not subject
// to the 2^31 limit BAM coordinates have.
type PosType int64

// trimContig strips surrounding whitespace and a case-insensitive leading
// "chr" from a contig name, for numeric comparison.
func trimContig(contig string) string {
	s := strings.TrimSpace(contig)
	if len(s) >= 3 && (s[0]|0x20) == 'c' && (s[1]|0x20) == 'h' && (s[2]|0x20) == 'r' {
		s = s[3:]
	}
	return s
}

// CompareContigs orders two contig names.  Names compare numerically when
// both parse as integers after "chr"-stripping (so "chr10" sorts after
// "chr2", and "chr3" and "3" are equivalent), and lexicographically
// otherwise.  This order decides map iteration only; ranges never cross
// contigs.
func CompareContigs(a, b string) int {
	if a == b {
		return 0
	}
	na, aerr := strconv.ParseInt(trimContig(a), 10, 64)
	nb, berr := strconv.ParseInt(trimContig(b), 10, 64)
	if aerr == nil && berr == nil {
		switch {
		case na < nb:
			return -1
		case na > nb:
			return 1
		}
		return 0
	}
	return strings.Compare(a, b)
}

// Position identifies a single 1-based coordinate on a contig.
type Position struct {
	Contig string
	Pos    PosType
}

// Compare returns -1, 0, or 1 depending on whether p is before, at, or
// after q.  Positions on the same contig compare by offset; positions on
// different contigs compare per CompareContigs.
func (p Position) Compare(q Position) int {
	if c := CompareContigs(p.Contig, q.Contig); c != 0 {
		return c
	}
	switch {
	case p.Pos < q.Pos:
		return -1
	case p.Pos > q.Pos:
		return 1
	}
	return 0
}

// String returns the conventional contig:pos form.
func (p Position) String() string {
	return fmt.Sprintf("%s:%d", p.Contig, p.Pos)
}

// Range is a closed 1-based interval [Start, End] on a single contig.
type Range struct {
	Contig     string
	Start, End PosType
}

// StartPosition returns the position of the range's first base.
func (r Range) StartPosition() Position {
	return Position{Contig: r.Contig, Pos: r.Start}
}

// Contains reports whether p falls inside r.
func (r Range) Contains(p Position) bool {
	return CompareContigs(r.Contig, p.Contig) == 0 && p.Pos >= r.Start && p.Pos <= r.End
}

// String returns the conventional contig:start-end form.
func (r Range) String() string {
	return fmt.Sprintf("%s:%d-%d", r.Contig, r.Start, r.End)
}
