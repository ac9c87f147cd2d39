/*
Given a base gVCF and a donor gVCF for single samples, gvcf-overlay folds
the donor's variants into the base call set and writes one non-overlapping
variant map of the mutated genome, named <sample>_mutated.vcf.

The base stream must already be non-overlapping and fully covering; donor
records are applied in file order.  Overlaps between indel-shaped records
are intentionally left unresolved (the donor record is dropped and
counted).

Sample usage:
gvcf-overlay \
    --out outdir \
    base.g.vcf.gz \
    donor.g.vcf.gz
*/
package main
