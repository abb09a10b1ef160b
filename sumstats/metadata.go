package sumstats

import (
	"github.com/montanaflynn/stats"
	"github.com/pvtodorov/ldsc"
)

// medianChiSqNull is the median of a 1-df chi-square distribution; the
// ratio of the observed median to it is the genomic inflation factor
// lambda GC.
const medianChiSqNull = 0.4549

// genomeWideSigChiSq is the chi-square value corresponding to the
// conventional genome-wide significance threshold of p = 5e-8.
const genomeWideSigChiSq = 29

// Metadata summarizes the distribution of the converted chi-square
// statistics.
type Metadata struct {
	MeanChiSq float64
	LambdaGC  float64
	MaxChiSq  float64

	// GenomeWideSig holds the SNPs with chi-square above the
	// genome-wide significance threshold.
	GenomeWideSig []Record
}

// Summarize computes the metadata report over the nonmissing
// chi-square statistics.
func Summarize(recs []Record) (Metadata, error) {
	var chis []float64
	var sig []Record
	for _, rec := range recs {
		if !rec.ChiSq.Valid {
			continue
		}
		chis = append(chis, rec.ChiSq.Float64)
		if rec.ChiSq.Float64 > genomeWideSigChiSq {
			sig = append(sig, rec)
		}
	}

	m := Metadata{GenomeWideSig: sig}
	if len(chis) == 0 {
		return m, nil
	}

	var err error
	if m.MeanChiSq, err = stats.Mean(chis); err != nil {
		return m, err
	}

	med, err := stats.Median(chis)
	if err != nil {
		return m, err
	}
	m.LambdaGC = med / medianChiSqNull

	if m.MaxChiSq, err = stats.Max(chis); err != nil {
		return m, err
	}

	return m, nil
}

// Report logs the chi-square summary and any genome-wide significant
// SNPs that survived filtering.
func (m Metadata) Report(lg *ldsc.Logger) {
	lg.Printf("Mean chi^2 = %.3f", m.MeanChiSq)
	if m.MeanChiSq < 1.02 {
		lg.Println("WARNING: mean chi^2 may be too small.")
	}
	lg.Printf("Lambda GC = %.3f", m.LambdaGC)
	lg.Printf("Max chi^2 = %.4g", m.MaxChiSq)

	if n := len(m.GenomeWideSig); n > 0 {
		lg.Printf("%d Genome-wide significant SNPs:", n)
		for _, rec := range m.GenomeWideSig {
			lg.Printf("%s\tCHISQ=%.4g\tN=%v", rec.SNP, rec.ChiSq.Float64, rec.N.Float64)
		}
	} else {
		lg.Println("No genome-wide significant SNPs.")
		lg.Println("NB some gwsig SNPs may have been removed after various filtering steps.")
	}
}
