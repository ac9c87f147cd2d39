package variant

// NonRef is the symbolic alternate allele gVCF reference blocks carry.
const NonRef = "<NON_REF>"

// Kind classifies a Record for overlap resolution.
type Kind int

const (
	// RefBlock is a gVCF reference-coverage block: a single reference base
	// with the <NON_REF> symbolic alternate, asserting that [Start, End]
	// matches the reference.
	RefBlock Kind = iota
	// SNP is a single-base substitution.
	SNP
	// Indel covers everything else: insertions, deletions, multi-allelic
	// sites and other complex blocks.
	Indel
)

// AsmCoords carries the four assembly-coordinate annotations (ASM_Chr,
// ASM_Start, ASM_End, ASM_Strand) of a source record.  The values are
// preserved opaquely; nothing in this module recomputes them.
type AsmCoords struct {
	Chr    string
	Start  string
	End    string
	Strand string
}

// Record is one interval-tagged variant call: either a reference block or
// a called variant, per Kind.  Alt may be a comma-joined list of alternate
// alleles at a multi-allelic site, preserved as an opaque string.  Records
// are treated as immutable values once constructed.
type Record struct {
	Chrom string
	Start PosType
	End   PosType
	Ref   string
	Alt   string
	// Donor marks records originating from the donor stream rather than
	// the base stream.
	Donor bool
	// Asm is nil when the source record carried no assembly annotations.
	Asm *AsmCoords
}

// Span returns the closed range the record covers.
func (r Record) Span() Range {
	return Range{Contig: r.Chrom, Start: r.Start, End: r.End}
}

// IsRefBlock reports whether the record is a reference block.
func (r Record) IsRefBlock() bool {
	return len(r.Ref) == 1 && r.Alt == NonRef
}

// IsIndel reports whether the record is indel-shaped: a multi-base
// reference or alternate allele on a record that is not a reference
// block.  Note that this is an allele-length test, so an opaque
// multi-allelic Alt also qualifies.
func (r Record) IsIndel() bool {
	return !r.IsRefBlock() && (len(r.Ref) > 1 || len(r.Alt) > 1)
}

// Kind returns the record's classification.
func (r Record) Kind() Kind {
	switch {
	case r.IsRefBlock():
		return RefBlock
	case r.Start == r.End && len(r.Ref) == 1 && len(r.Alt) == 1:
		return SNP
	}
	return Indel
}

// Equal reports whether two records describe the same interval and
// alleles.  Origin (Donor) and annotations are deliberately ignored.
func (r Record) Equal(o Record) bool {
	return CompareContigs(r.Chrom, o.Chrom) == 0 && r.Start == o.Start && r.End == o.End &&
		r.Ref == o.Ref && r.Alt == o.Alt
}
