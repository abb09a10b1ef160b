package sumstats

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
	"github.com/pvtodorov/ldsc"
	"gopkg.in/guregu/null.v3"
)

// SampleSizeOptions carries the command-line sample size settings.
type SampleSizeOptions struct {
	N     float64 // --N; 0 means unset
	NCas  float64 // --N-cas
	NCon  float64 // --N-con
	Daner bool
}

// ResolveSampleSize fills in the N column for every record. Precedence:
// daner header inference, then the --N flag, then --N-cas/--N-con, then
// per-SNP case/control columns (scaled by sample prevalence), then an
// existing N column.
func ResolveSampleSize(recs []Record, cm *ColumnMap, opt SampleSizeOptions, lg *ldsc.Logger) ([]Record, error) {
	switch {
	case opt.Daner:
		lg.Println("Note that the --daner flag takes precedence over all other sample size and frequency flags and columns.")
		n := cm.DanerNCas + cm.DanerNCon
		for i := range recs {
			recs[i].N = null.FloatFrom(n)
		}
		lg.Printf("Inferred that N_cas = %v from the FRQ_A column.", cm.DanerNCas)
		lg.Printf("Inferred that N_con = %v from the FRQ_U column.", cm.DanerNCon)

	case opt.N > 0:
		for i := range recs {
			recs[i].N = null.FloatFrom(opt.N)
		}
		lg.Printf("Using N = %v", opt.N)

	case opt.NCas > 0 && opt.NCon > 0:
		for i := range recs {
			recs[i].N = null.FloatFrom(opt.NCas + opt.NCon)
		}
		lg.Printf("Using N_cas = %v; N_con = %v", opt.NCas, opt.NCon)

	case cm.Has(ColNCas) && cm.Has(ColNCon):
		lg.Println("Reading sample size from the N_cas and N_con columns.")
		if err := prevalenceScaledN(recs, lg); err != nil {
			return nil, err
		}

	case cm.Has(ColN):
		med, err := medianN(recs)
		if err != nil {
			return nil, err
		}
		lg.Printf("Reading sample size from the N column. Median N = %v", math.Round(med))

	default:
		return nil, fmt.Errorf("no N specified")
	}

	return recs, nil
}

// prevalenceScaledN converts per-SNP case/control counts into an
// effective N: total N scaled by the SNP's case fraction relative to
// the case fraction among the SNPs with the largest total N.
func prevalenceScaledN(recs []Record, lg *ldsc.Logger) error {
	var cas, con []float64
	maxN := math.Inf(-1)
	for _, rec := range recs {
		if !rec.NCas.Valid || !rec.NCon.Valid {
			continue
		}
		cas = append(cas, rec.NCas.Float64)
		con = append(con, rec.NCon.Float64)
		if n := rec.NCas.Float64 + rec.NCon.Float64; n > maxN {
			maxN = n
		}
	}
	if len(cas) == 0 {
		return fmt.Errorf("the N_cas and N_con columns contain no usable values")
	}

	medCas, err := stats.Median(cas)
	if err != nil {
		return err
	}
	medCon, err := stats.Median(con)
	if err != nil {
		return err
	}
	lg.Printf("Median N_cas = %v; Median N_con = %v", math.Round(medCas), math.Round(medCon))

	// Mean prevalence among the max-N SNPs
	var pSum float64
	var pCount int
	for _, rec := range recs {
		if !rec.NCas.Valid || !rec.NCon.Valid {
			continue
		}
		if n := rec.NCas.Float64 + rec.NCon.Float64; n == maxN {
			pSum += rec.NCas.Float64 / n
			pCount++
		}
	}
	pMax := pSum / float64(pCount)
	lg.Printf("Using max sample prevalence = %.2f.", pMax)

	for i := range recs {
		if !recs[i].NCas.Valid || !recs[i].NCon.Valid {
			continue
		}
		n := recs[i].NCas.Float64 + recs[i].NCon.Float64
		p := recs[i].NCas.Float64 / n
		recs[i].N = null.FloatFrom(n * p / pMax)
		recs[i].NCas = null.Float{}
		recs[i].NCon = null.Float{}
	}

	return nil
}

// FilterLowN removes SNPs whose sample size falls at or below the
// threshold: --n-min when given, otherwise half the 90th percentile of
// N. Small-N SNPs bias LD Score regression estimates downward.
func FilterLowN(recs []Record, nMin float64, lg *ldsc.Logger) ([]Record, error) {
	thresh := nMin
	if thresh == 0 {
		var ns []float64
		for _, rec := range recs {
			if rec.N.Valid {
				ns = append(ns, rec.N.Float64)
			}
		}
		if len(ns) == 0 {
			return recs, nil
		}
		p90, err := stats.Percentile(ns, 90)
		if err != nil {
			return nil, err
		}
		thresh = p90 / 2
	}

	oldLen := len(recs)
	kept := recs[:0]
	for _, rec := range recs {
		if rec.N.Valid && rec.N.Float64 <= thresh {
			continue
		}
		kept = append(kept, rec)
	}
	lg.Printf("Removed %d SNPs with N below %v (%d SNPs remain).", oldLen-len(kept), math.Round(thresh), len(kept))

	if len(kept) == 0 {
		return nil, fmt.Errorf("no SNPs remain")
	}
	return kept, nil
}

func medianN(recs []Record) (float64, error) {
	var ns []float64
	for _, rec := range recs {
		if rec.N.Valid {
			ns = append(ns, rec.N.Float64)
		}
	}
	if len(ns) == 0 {
		return 0, fmt.Errorf("the N column contains no usable values")
	}
	return stats.Median(ns)
}
