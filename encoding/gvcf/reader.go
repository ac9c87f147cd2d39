// Package gvcf reads and writes single-sample gVCF variant streams,
// converting between the VCF wire format and variant.Record values.
//
// Reading is deliberately lenient about per-record typing problems (the
// alternate allele list and INFO values are carried opaquely); a
// malformed header is an error.
package gvcf

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/brentp/vcfgo"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/grailbio/base/vcontext"
	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
	"github.com/strandbio/overlay/variant"
)

// Reader streams variant.Records from gVCF data.  It implements
// overlay.Source.
type Reader struct {
	vr    *vcfgo.Reader
	rec   variant.Record
	close func() error
}

// NewReader wraps r, which must begin with a VCF header.
func NewReader(r io.Reader) (*Reader, error) {
	vr, err := vcfgo.NewReader(r, true)
	if err != nil {
		return nil, errors.Wrap(err, "gvcf: reading header")
	}
	return &Reader{vr: vr}, nil
}

// Open opens the gVCF file at path, transparently decompressing gzipped
// input.  The caller must Close the returned Reader.
func Open(path string) (*Reader, error) {
	ctx := vcontext.Background()
	infile, err := file.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	reader := io.Reader(infile.Reader(ctx))
	switch fileio.DetermineType(path) {
	case fileio.Gzip:
		if reader, err = gzip.NewReader(reader); err != nil {
			_ = infile.Close(ctx)
			return nil, err
		}
	}
	r, err := NewReader(reader)
	if err != nil {
		_ = infile.Close(ctx)
		return nil, err
	}
	r.close = func() error { return infile.Close(ctx) }
	return r, nil
}

// Close releases the underlying file, if Open created one.
func (r *Reader) Close() error {
	if r.close == nil {
		return nil
	}
	return r.close()
}

// SampleNames returns the sample names declared by the stream header.
func (r *Reader) SampleNames() []string {
	return r.vr.Header.SampleNames
}

// Scan advances to the next record, returning false at end of stream.
func (r *Reader) Scan() bool {
	v := r.vr.Read()
	if v == nil {
		return false
	}
	r.rec = convert(v)
	// Drop accumulated per-record parse complaints; a nil Read result is
	// the end-of-stream signal.
	r.vr.Clear()
	return true
}

// Record returns the record read by the last successful Scan.
func (r *Reader) Record() variant.Record {
	return r.rec
}

// Err reports errors accumulated since the last successful Scan.  Per-record
// parse complaints are dropped as the stream advances, so after Scan returns
// false this is nil on a clean end of stream and non-nil when the final read
// failed.
func (r *Reader) Err() error {
	return r.vr.Error()
}

// convert maps one parsed VCF line onto a Record.  End comes from the END
// INFO value when declared (gVCF reference blocks), and spans the
// reference allele otherwise.
func convert(v *vcfgo.Variant) variant.Record {
	rec := variant.Record{
		Chrom: v.Chromosome,
		Start: variant.PosType(v.Pos),
		Ref:   v.Reference,
		Alt:   strings.Join(v.Alternate, ","),
	}
	rec.End = rec.Start + variant.PosType(len(v.Reference)) - 1
	if raw, err := v.Info().Get("END"); err == nil && raw != nil {
		if end, ok := asInt(raw); ok {
			rec.End = variant.PosType(end)
		}
	}
	rec.Asm = asmCoords(v)
	return rec
}

// asmCoords extracts the assembly annotation INFO values, when present.
func asmCoords(v *vcfgo.Variant) *variant.AsmCoords {
	var (
		asm   variant.AsmCoords
		found bool
	)
	for _, f := range []struct {
		key string
		dst *string
	}{
		{"ASM_Chr", &asm.Chr},
		{"ASM_Start", &asm.Start},
		{"ASM_End", &asm.End},
		{"ASM_Strand", &asm.Strand},
	} {
		if raw, err := v.Info().Get(f.key); err == nil && raw != nil {
			*f.dst = asString(raw)
			found = true
		}
	}
	if !found {
		return nil
	}
	return &asm
}

// asInt coerces the dynamically-typed INFO values vcfgo returns.
func asInt(raw interface{}) (int64, bool) {
	switch x := raw.(type) {
	case int:
		return int64(x), true
	case int64:
		return x, true
	case float32:
		return int64(x), true
	case float64:
		return int64(x), true
	case string:
		n, err := strconv.ParseInt(x, 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

func asString(raw interface{}) string {
	switch x := raw.(type) {
	case string:
		return x
	case []byte:
		return string(x)
	}
	return fmt.Sprintf("%v", raw)
}
