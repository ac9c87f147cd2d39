package gvcf_test

import (
	"io"
	"strings"
	"testing"

	"github.com/strandbio/overlay/encoding/gvcf"
	"github.com/strandbio/overlay/variant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testHeader = `##fileformat=VCFv4.2
##INFO=<ID=END,Number=1,Type=Integer,Description="Stop position of the interval">
##INFO=<ID=ASM_Chr,Number=1,Type=String,Description="Assembly chromosome">
##INFO=<ID=ASM_Start,Number=1,Type=Integer,Description="Assembly start position">
##INFO=<ID=ASM_End,Number=1,Type=Integer,Description="Assembly end position">
##INFO=<ID=ASM_Strand,Number=1,Type=String,Description="Assembly strand">
##FORMAT=<ID=GT,Number=1,Type=String,Description="Genotype">
`

func readAll(t *testing.T, data string) (*gvcf.Reader, []variant.Record) {
	r, err := gvcf.NewReader(strings.NewReader(data))
	require.NoError(t, err)
	var recs []variant.Record
	for r.Scan() {
		recs = append(recs, r.Record())
	}
	require.NoError(t, r.Err())
	return r, recs
}

func TestReader(t *testing.T) {
	data := testHeader +
		"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\tFORMAT\tsample1\n" +
		"chr1\t1\t.\tG\t<NON_REF>\t.\t.\tEND=99\tGT\t0/0\n" +
		"chr1\t100\t.\tA\tT\t30\tPASS\tASM_Chr=1;ASM_Start=100;ASM_End=100;ASM_Strand=+\tGT\t1/1\n" +
		"chr1\t200\t.\tACGT\tA\t30\tPASS\t.\tGT\t1/1\n" +
		"chr1\t300\t.\tA\tG,T\t30\tPASS\t.\tGT\t1/2\n"
	r, recs := readAll(t, data)

	assert.Equal(t, []string{"sample1"}, r.SampleNames())
	require.Equal(t, 4, len(recs))

	// Reference block: end from INFO END.
	assert.Equal(t, "chr1", recs[0].Chrom)
	assert.Equal(t, variant.PosType(1), recs[0].Start)
	assert.Equal(t, variant.PosType(99), recs[0].End)
	assert.Equal(t, "G", recs[0].Ref)
	assert.Equal(t, variant.NonRef, recs[0].Alt)
	assert.True(t, recs[0].IsRefBlock())
	assert.Nil(t, recs[0].Asm)

	// SNP with assembly annotations preserved opaquely.
	assert.Equal(t, variant.PosType(100), recs[1].Start)
	assert.Equal(t, variant.PosType(100), recs[1].End)
	require.NotNil(t, recs[1].Asm)
	assert.Equal(t, "1", recs[1].Asm.Chr)
	assert.Equal(t, "100", recs[1].Asm.Start)
	assert.Equal(t, "100", recs[1].Asm.End)
	assert.Equal(t, "+", recs[1].Asm.Strand)

	// Deletion: end spans the reference allele.
	assert.Equal(t, variant.PosType(200), recs[2].Start)
	assert.Equal(t, variant.PosType(203), recs[2].End)

	// Multi-allelic site: alternates joined into one opaque string.
	assert.Equal(t, "G,T", recs[3].Alt)
}

func TestReaderNoSamples(t *testing.T) {
	data := testHeader +
		"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\n" +
		"chr1\t100\t.\tA\tT\t30\tPASS\t.\n"
	r, recs := readAll(t, data)
	assert.Equal(t, 0, len(r.SampleNames()))
	assert.Equal(t, 1, len(recs))
}

func TestReaderBadHeader(t *testing.T) {
	_, err := gvcf.NewReader(strings.NewReader("not a vcf\n"))
	require.Error(t, err)
}

// failingReader yields its wrapped content and then an I/O error in
// place of the usual EOF.
type failingReader struct {
	r io.Reader
}

func (f *failingReader) Read(p []byte) (int, error) {
	n, err := f.r.Read(p)
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return n, err
}

func TestReaderStreamError(t *testing.T) {
	data := testHeader +
		"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\tFORMAT\tsample1\n" +
		"chr1\t100\t.\tA\tT\t30\tPASS\t.\tGT\t1/1\n"
	r, err := gvcf.NewReader(&failingReader{r: strings.NewReader(data)})
	require.NoError(t, err)

	require.True(t, r.Scan())
	assert.Equal(t, variant.PosType(100), r.Record().Start)
	// A failed read mid-stream must not masquerade as a clean end of
	// stream.
	assert.False(t, r.Scan())
	require.Error(t, r.Err())
}
