package sumstats

import (
	"gonum.org/v1/gonum/stat/distuv"
	"gopkg.in/guregu/null.v3"
)

// ChiSqFromP converts a two-sided p-value to a 1-df chi-square
// statistic. A 1-df chi-square is the square of a standard normal, so
// the inverse survival function is computed through the normal quantile
// at p/2, which stays accurate for genome-wide-significance-scale
// p-values where a direct chi-square quantile at 1-p loses precision.
func ChiSqFromP(p float64) float64 {
	z := distuv.UnitNormal.Quantile(p / 2)
	return z * z
}

// ConvertPToChiSq replaces the P column with CHISQ for every record.
func ConvertPToChiSq(recs []Record) {
	for i := range recs {
		recs[i].ChiSq = null.FloatFrom(ChiSqFromP(recs[i].P))
	}
}
