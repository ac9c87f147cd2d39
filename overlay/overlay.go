// Package overlay folds a donor sample's variant calls into a base
// sample's calls, producing one consistent, non-overlapping interval map
// of the mutated genome.
package overlay

import (
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/strandbio/overlay/interval"
	"github.com/strandbio/overlay/variant"
)

// Source is a sequential stream of variant records for a single sample,
// in stream order.  encoding/gvcf.Reader implements it.
type Source interface {
	// Scan advances to the next record.  It returns false at end of stream
	// or on error; Err distinguishes the two.
	Scan() bool
	// Record returns the record read by the last successful Scan.
	Record() variant.Record
	// Err returns the first error encountered while reading, if any.
	Err() error
	// SampleNames returns the sample names declared by the stream header.
	SampleNames() []string
}

// Stats counts the outcomes of one overlay run.  UnhandledSkips in
// particular is the signal for donor/base overlap shapes the engine
// deliberately leaves unresolved; a nonzero count means donor variants
// were dropped.
type Stats struct {
	BaseRecords    int
	DonorRecords   int
	Inserted       int // donor records placed into previously uncovered space
	Replaced       int // base SNPs superseded by a donor record
	Splits         int // reference blocks split around a donor record
	Unchanged      int // donor records identical to the base record they hit
	DonorRefBlocks int // donor reference blocks discarded
	IndelSkips     int // indel-over-indel overlaps skipped
	UnhandledSkips int // overlap shapes with no defined resolution
}

// Overlay reads the base stream to completion into a fresh interval map,
// then folds the donor stream into it record by record.  It returns the
// base stream's sample name and the finished map.
//
// Donor records are applied in stream order, never re-sorted: resolution
// of a later donor record can depend on a split produced by an earlier
// one within the same run.
func Overlay(base, donor Source) (string, *interval.Map, Stats, error) {
	var stats Stats
	samples := base.SampleNames()
	if len(samples) == 0 {
		return "", nil, stats, errors.E("overlay: base stream declares no sample")
	}
	if len(samples) > 1 {
		return "", nil, stats, errors.E("overlay: base stream declares", len(samples), "samples; a single-sample stream is required")
	}
	sample := samples[0]

	m := interval.NewMap()
	for base.Scan() {
		// The base stream is trusted to be non-overlapping and fully
		// covering, so records go in unconditionally.
		rec := base.Record()
		m.Put(rec.Span(), rec)
		stats.BaseRecords++
	}
	if err := base.Err(); err != nil {
		return "", nil, stats, err
	}

	for donor.Scan() {
		rec := donor.Record()
		rec.Donor = true
		stats.DonorRecords++
		if err := overlayRecord(m, rec, &stats); err != nil {
			return "", nil, stats, err
		}
	}
	if err := donor.Err(); err != nil {
		return "", nil, stats, err
	}

	log.Printf("overlay: sample %s: %d base, %d donor record(s); %d inserted, %d replaced, %d split, %d unchanged; dropped %d donor ref block(s), %d indel-over-indel, %d unhandled overlap(s)",
		sample, stats.BaseRecords, stats.DonorRecords, stats.Inserted, stats.Replaced,
		stats.Splits, stats.Unchanged, stats.DonorRefBlocks, stats.IndelSkips, stats.UnhandledSkips)
	return sample, m, stats, nil
}

// overlayRecord folds one donor record into the map.
func overlayRecord(m *interval.Map, rec variant.Record, stats *Stats) error {
	if rec.IsRefBlock() {
		// Donor reference blocks convey no mutation and never need
		// representation, regardless of what they overlap.
		stats.DonorRefBlocks++
		return nil
	}
	existingRange, existing, ok := m.GetEntry(variant.Position{Contig: rec.Chrom, Pos: rec.Start})
	if !ok {
		// Previously uncovered space.  Should not occur when the base
		// stream fully covers the genome, but is well-defined.
		m.Put(rec.Span(), rec)
		stats.Inserted++
		return nil
	}
	if existing.IsIndel() && rec.IsIndel() {
		// Overlaying an indel onto an overlapping indel would require
		// resolving the coordinate shift between the two alleles, which
		// cannot be inferred safely from the records alone.  The donor
		// record is dropped instead.
		// TODO: revisit if upstream ever provides anchored allele
		// coordinates for both records.
		stats.IndelSkips++
		log.Debug.Printf("overlay: skipping indel-over-indel overlap: donor %s %s>%s over base %s %s>%s",
			rec.Span(), rec.Ref, rec.Alt, existingRange, existing.Ref, existing.Alt)
		return nil
	}
	return resolveOverlap(m, existingRange, existing, rec, stats)
}

// resolveOverlap applies the fixed donor-over-base rule set to the record
// stored at the donor record's start position.
func resolveOverlap(m *interval.Map, existingRange variant.Range, existing, incoming variant.Record, stats *Stats) error {
	switch {
	case existing.Equal(incoming):
		// The mutation is already represented.
		stats.Unchanged++
	case existing.Start == existing.End:
		// A called single-position record is always fully superseded by
		// the donor record overlapping it.
		m.Remove(existingRange)
		m.Put(incoming.Span(), incoming)
		stats.Replaced++
	case existing.IsRefBlock() && len(incoming.Ref) == 1:
		// A SNP or single-base-anchored insertion lands inside a
		// reference block: split the block around it.
		pieces, err := splitRefBlock(existing, incoming)
		if err != nil {
			return err
		}
		m.Remove(existingRange)
		for _, p := range pieces {
			m.Put(p.Span(), p)
		}
		stats.Splits++
	default:
		// No defined resolution for this overlap shape.  The base record
		// stays; the skip is counted so downstream users can see how often
		// this triggers.
		stats.UnhandledSkips++
		log.Debug.Printf("overlay: no resolution for donor %s %s>%s over base %s %s>%s",
			incoming.Span(), incoming.Ref, incoming.Alt, existingRange, existing.Ref, existing.Alt)
	}
	return nil
}

// splitRefBlock breaks the reference block existing around incoming,
// returning 1-3 disjoint contiguous pieces whose union equals the
// original block: an optional left remainder, incoming itself, and an
// optional right remainder.  The remainders reuse the block's reference
// allele and stay tagged as base-origin.
//
// incoming must be fully contained in the block; a violation means an
// upstream invariant was already broken, and is returned as an error
// rather than silently truncated.
func splitRefBlock(existing, incoming variant.Record) ([]variant.Record, error) {
	if incoming.Start < existing.Start || incoming.End > existing.End {
		return nil, errors.E("overlay: donor record", incoming.Span().String(),
			"extends beyond the reference block", existing.Span().String(), "it overlaps")
	}
	pieces := make([]variant.Record, 0, 3)
	if incoming.Start > existing.Start {
		pieces = append(pieces, variant.Record{
			Chrom: existing.Chrom,
			Start: existing.Start,
			End:   incoming.Start - 1,
			Ref:   existing.Ref,
			Alt:   variant.NonRef,
		})
	}
	pieces = append(pieces, incoming)
	if incoming.End < existing.End {
		pieces = append(pieces, variant.Record{
			Chrom: existing.Chrom,
			Start: incoming.End + 1,
			End:   existing.End,
			Ref:   existing.Ref,
			Alt:   variant.NonRef,
		})
	}
	return pieces, nil
}
