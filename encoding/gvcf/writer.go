package gvcf

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/brentp/vcfgo"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/vcontext"
	"github.com/pkg/errors"
	"github.com/strandbio/overlay/interval"
	"github.com/strandbio/overlay/variant"
)

// header constructs the output VCF header.  Every per-sample and per-site
// field the writer can emit is declared up front, whether or not a given
// record populates it; downstream consumers rely on the declarations
// being present.
func header(sample string) *vcfgo.Header {
	hdr := &vcfgo.Header{
		FileFormat:    "4.2",
		SampleNames:   []string{sample},
		Infos:         make(map[string]*vcfgo.Info),
		SampleFormats: make(map[string]*vcfgo.SampleFormat),
		Filters:       make(map[string]string),
	}

	hdr.SampleFormats["AD"] = &vcfgo.SampleFormat{Id: "AD", Number: "3", Type: "Integer",
		Description: "Allelic depths for the ref and alt alleles in the order listed"}
	hdr.SampleFormats["DP"] = &vcfgo.SampleFormat{Id: "DP", Number: "1", Type: "Integer",
		Description: "Read depth"}
	hdr.SampleFormats["GQ"] = &vcfgo.SampleFormat{Id: "GQ", Number: "1", Type: "Integer",
		Description: "Genotype quality"}
	hdr.SampleFormats["GT"] = &vcfgo.SampleFormat{Id: "GT", Number: "1", Type: "String",
		Description: "Genotype"}
	hdr.SampleFormats["PL"] = &vcfgo.SampleFormat{Id: "PL", Number: "G", Type: "Integer",
		Description: "Phred-scaled genotype likelihoods"}

	hdr.Infos["DP"] = &vcfgo.Info{Id: "DP", Number: "1", Type: "Integer",
		Description: "Combined read depth"}
	hdr.Infos["NS"] = &vcfgo.Info{Id: "NS", Number: "1", Type: "Integer",
		Description: "Number of samples with data"}
	hdr.Infos["AF"] = &vcfgo.Info{Id: "AF", Number: "A", Type: "Float",
		Description: "Allele frequency"}
	hdr.Infos["END"] = &vcfgo.Info{Id: "END", Number: "1", Type: "Integer",
		Description: "Stop position of the interval"}
	hdr.Infos["ASM_Chr"] = &vcfgo.Info{Id: "ASM_Chr", Number: "1", Type: "String",
		Description: "Assembly chromosome"}
	hdr.Infos["ASM_Start"] = &vcfgo.Info{Id: "ASM_Start", Number: "1", Type: "Integer",
		Description: "Assembly start position"}
	hdr.Infos["ASM_End"] = &vcfgo.Info{Id: "ASM_End", Number: "1", Type: "Integer",
		Description: "Assembly end position"}
	hdr.Infos["ASM_Strand"] = &vcfgo.Info{Id: "ASM_Strand", Number: "1", Type: "String",
		Description: "Assembly strand"}
	return hdr
}

// stickyWriter remembers the first write error so one check at the end of
// a serialization pass suffices.
type stickyWriter struct {
	w   io.Writer
	err error
}

func (sw *stickyWriter) Write(p []byte) (int, error) {
	if sw.err != nil {
		return 0, sw.err
	}
	n, err := sw.w.Write(p)
	sw.err = err
	return n, err
}

// Write serializes m to w as a single-sample VCF: the header, then one
// record per stored range, in map order (ascending contig/position).
func Write(w io.Writer, sample string, m *interval.Map) error {
	sw := &stickyWriter{w: w}
	vw, err := vcfgo.NewWriter(sw, header(sample))
	if err != nil {
		return errors.Wrap(err, "gvcf: writing header")
	}
	m.Do(func(rng variant.Range, rec variant.Record) bool {
		vw.WriteVariant(toVariant(rng, rec, vw.Header))
		return sw.err != nil
	})
	if sw.err != nil {
		return errors.Wrap(sw.err, "gvcf: writing records")
	}
	return nil
}

// toVariant builds the wire form of one map entry.  Genotypes follow the
// sentinel rule: reference blocks are emitted homozygous-reference and
// every called variant homozygous-alternate; this writer never produces a
// heterozygous call.
func toVariant(rng variant.Range, rec variant.Record, hdr *vcfgo.Header) *vcfgo.Variant {
	v := &vcfgo.Variant{
		Chromosome: rng.Contig,
		Pos:        uint64(rng.Start),
		Id_:        ".",
		Reference:  rec.Ref,
		Alternate:  strings.Split(rec.Alt, ","),
		Quality:    vcfgo.MISSING_VAL,
		Filter:     ".",
	}

	var info []string
	if rec.Alt == variant.NonRef {
		// The end of a reference block is not derivable from its alleles.
		info = append(info, fmt.Sprintf("END=%d", rng.End))
	}
	if rec.Asm != nil {
		for _, f := range []struct{ key, value string }{
			{"ASM_Chr", rec.Asm.Chr},
			{"ASM_Start", rec.Asm.Start},
			{"ASM_End", rec.Asm.End},
			{"ASM_Strand", rec.Asm.Strand},
		} {
			if f.value != "" {
				info = append(info, f.key+"="+f.value)
			}
		}
	}
	joined := "."
	if len(info) > 0 {
		joined = strings.Join(info, ";")
	}
	v.Info_ = vcfgo.NewInfoByte([]byte(joined), hdr)

	v.Format = []string{"GT"}
	// Serialization reads the raw Fields map, not the parsed GT slice;
	// populate both so the variant round-trips.
	gt := vcfgo.NewSampleGenotype()
	if rec.Alt == variant.NonRef {
		gt.GT = []int{0, 0}
		gt.Fields["GT"] = "0/0"
	} else {
		gt.GT = []int{1, 1}
		gt.Fields["GT"] = "1/1"
	}
	v.Samples = []*vcfgo.SampleGenotype{gt}
	return v
}

// WriteFile writes m to <sample>_mutated.vcf under dir, creating dir if
// needed.  The output handle is closed on every exit path, so a failed
// run never leaves an open partial file.
func WriteFile(dir, sample string, m *interval.Map) (path string, err error) {
	if err = os.MkdirAll(dir, 0775); err != nil {
		return "", err
	}
	path = filepath.Join(dir, sample+"_mutated.vcf")
	ctx := vcontext.Background()
	var out file.File
	if out, err = file.Create(ctx, path); err != nil {
		return "", err
	}
	defer func() {
		if cerr := out.Close(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}()
	if err = Write(out.Writer(ctx), sample, m); err != nil {
		return "", err
	}
	return path, nil
}
