package sumstats

import (
	"fmt"

	"github.com/pvtodorov/ldsc"
	"gopkg.in/guregu/null.v3"
)

// MergeList is the --merge-alleles reference: an ordered SNP list with
// the allele pair each SNP must match.
type MergeList struct {
	SNPs  map[string]int // SNP -> position in Order
	Order []string
	A1    map[string]Allele
	A2    map[string]Allele
}

// Contains reports whether snp is in the merge list.
func (ml *MergeList) Contains(snp string) bool {
	_, ok := ml.SNPs[snp]
	return ok
}

// ReadMergeList reads a three-column (SNP, A1, A2) reference file,
// uppercasing the alleles.
func ReadMergeList(path string, lg *ldsc.Logger) (*MergeList, error) {
	lg.Printf("Reading list of SNPs for allele merge from %s", path)

	r, err := OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	headers := r.Headers()
	if len(headers) != 3 ||
		CleanHeader(headers[0]) != ColSNP ||
		CleanHeader(headers[1]) != ColA1 ||
		CleanHeader(headers[2]) != ColA2 {
		return nil, fmt.Errorf("--merge-alleles must have columns SNP, A1, A2")
	}

	ml := &MergeList{
		SNPs: make(map[string]int),
		A1:   make(map[string]Allele),
		A2:   make(map[string]Allele),
	}
	for {
		row, err := r.Next()
		if err != nil {
			break
		}
		if len(row) < 3 {
			return nil, fmt.Errorf("--merge-alleles row for %v has fewer than 3 columns", row)
		}
		snp := row[0]
		if _, dup := ml.SNPs[snp]; dup {
			continue
		}
		ml.SNPs[snp] = len(ml.Order)
		ml.Order = append(ml.Order, snp)
		ml.A1[snp] = Allele(row[1]).Upper()
		ml.A2[snp] = Allele(row[2]).Upper()
	}

	lg.Printf("Read %d SNPs for allele merge.", len(ml.Order))
	return ml, nil
}

// ApplyMergeAlleles reorders the output to exactly the merge list's
// SNPs. SNPs absent from the summary statistics appear with null
// statistics; SNPs whose alleles cannot be reconciled with the
// reference pair (allowing reference and strand flips) are nulled as
// well. An indel or strand-ambiguous pair in the reference file is an
// error.
func ApplyMergeAlleles(recs []Record, ml *MergeList, lg *ldsc.Logger) ([]Record, error) {
	bySNP := make(map[string]Record, len(recs))
	for _, rec := range recs {
		bySNP[rec.SNP] = rec
	}

	out := make([]Record, 0, len(ml.Order))
	present, matched := 0, 0
	for _, snp := range ml.Order {
		refA1, refA2 := ml.A1[snp], ml.A2[snp]

		rec, ok := bySNP[snp]
		if !ok {
			out = append(out, Record{SNP: snp})
			continue
		}
		present++

		if !refA1.Valid() || !refA2.Valid() || StrandAmbiguous(refA1, refA2) {
			return nil, fmt.Errorf("could not match alleles between --sumstats and --merge-alleles: does your --merge-alleles file contain indels or strand ambiguous SNPs?")
		}

		if !MatchAlleles(Allele(rec.IncAllele.String), Allele(rec.DecAllele.String), refA1, refA2) {
			rec.N = null.Float{}
			rec.ChiSq = null.Float{}
			rec.IncAllele = null.String{}
			rec.DecAllele = null.String{}
		} else {
			matched++
		}
		out = append(out, rec)
	}

	if matched == 0 {
		return nil, fmt.Errorf("all remaining SNPs have alleles that are discordant between --sumstats and --merge-alleles")
	}
	lg.Printf("Removed %d SNPs whose alleles did not match --merge-alleles (%d SNPs remain).", present-matched, matched)

	return out, nil
}
