package sumstats

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
	"github.com/pvtodorov/ldsc"
	"gopkg.in/guregu/null.v3"
)

// signedStatNames maps the canonical directional statistic columns to
// the name used in log messages.
var signedStatNames = map[string]string{
	ColOR:      "OR (odds ratio)",
	ColZ:       "Z (Z-score)",
	ColBeta:    "BETA",
	ColLogOdds: "Log odds",
	ColSigned:  "the --signed-sumstats column",
}

// FilterACGT removes variants whose alleles are not single A/C/G/T
// bases (indels, structural codes).
func FilterACGT(recs []Record, lg *ldsc.Logger) ([]Record, error) {
	oldLen := len(recs)
	kept := recs[:0]
	for _, rec := range recs {
		rec.A1 = rec.A1.Upper()
		rec.A2 = rec.A2.Upper()
		if !rec.A1.Valid() || !rec.A2.Valid() {
			continue
		}
		kept = append(kept, rec)
	}

	if len(kept) == 0 {
		return nil, fmt.Errorf("every SNP was not coded A/C/T/G. Something is wrong")
	}
	lg.Printf("Removed %d variants not coded A/C/T/G (%d SNPs remain).", oldLen-len(kept), len(kept))

	return kept, nil
}

// FilterStrandAmbiguous removes SNPs whose allele pair reads the same
// on both strands.
func FilterStrandAmbiguous(recs []Record, lg *ldsc.Logger) ([]Record, error) {
	oldLen := len(recs)
	kept := recs[:0]
	for _, rec := range recs {
		if StrandAmbiguous(rec.A1, rec.A2) {
			continue
		}
		kept = append(kept, rec)
	}

	if len(kept) == 0 {
		return nil, fmt.Errorf("all remaining SNPs are strand ambiguous")
	}
	lg.Printf("Removed %d strand ambiguous SNPs (%d SNPs remain).", oldLen-len(kept), len(kept))

	return kept, nil
}

// OrientAlleles converts A1/A2 into trait-increasing and -decreasing
// alleles using the sign of the directional statistic: when the value
// falls below its null (1 for odds ratios, 0 otherwise) the alleles are
// swapped. A median far from the null value suggests a mislabeled
// column and is warned about.
func OrientAlleles(recs []Record, cm *ColumnMap, lg *ldsc.Logger) []Record {
	lg.Printf("Using %s as the directional summary statistic.", signedStatNames[cm.Signed])

	var vals []float64
	for _, rec := range recs {
		if rec.Signed.Valid {
			vals = append(vals, rec.Signed.Float64)
		}
	}
	if med, err := stats.Median(vals); err == nil && math.Abs(med-cm.SignedNull) > 0.1 {
		lg.Printf("WARNING: median value of the %s column is %.2f (should be close to %v). This column may be mislabeled.", cm.Signed, med, cm.SignedNull)
	}

	for i := range recs {
		inc, dec := recs[i].A1, recs[i].A2
		if recs[i].Signed.Valid && recs[i].Signed.Float64 < cm.SignedNull {
			inc, dec = dec, inc
		}
		recs[i].IncAllele = null.StringFrom(string(inc))
		recs[i].DecAllele = null.StringFrom(string(dec))
		recs[i].Signed = null.Float{}
	}

	return recs
}
