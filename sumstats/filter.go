package sumstats

import (
	"fmt"

	"github.com/pvtodorov/ldsc"
)

// DropCounts tallies how many SNPs each filter removed.
type DropCounts struct {
	Duplicates int
	Missing    int
	PValue     int
	Info       int
	Frq        int
}

// Filterer applies the standard munging filters: duplicate rs numbers,
// missing values, out-of-range p-values, low imputation quality, and
// low minor allele frequency. It keeps state across chunks so that
// duplicates spanning a chunk boundary are still caught.
type Filterer struct {
	InfoMin float64
	MafMin  float64

	// HasInfo / HasFrq mirror whether the input had those columns;
	// their filters only run when the data carried them.
	HasInfo bool
	HasFrq  bool

	Counts DropCounts

	seen map[string]struct{}
}

// NewFilterer builds a Filterer for a resolved column map.
func NewFilterer(cm *ColumnMap, infoMin, mafMin float64) *Filterer {
	return &Filterer{
		InfoMin: infoMin,
		MafMin:  mafMin,
		HasInfo: cm.Has(ColInfo),
		HasFrq:  cm.Has(ColFrq),
		seen:    make(map[string]struct{}),
	}
}

// Apply filters recs in order. When verbose, each stage logs a
// removal line and an empty result is an error; chunked callers pass
// verbose=false and report the accumulated Counts at the end.
func (f *Filterer) Apply(recs []Record, lg *ldsc.Logger, verbose bool) ([]Record, error) {
	oldLen := len(recs)
	kept := recs[:0]
	for _, rec := range recs {
		if _, dup := f.seen[rec.SNP]; dup || rec.SNP == "" {
			continue
		}
		f.seen[rec.SNP] = struct{}{}
		kept = append(kept, rec)
	}
	recs = kept
	f.Counts.Duplicates += oldLen - len(recs)
	if err := f.report(lg, verbose, oldLen, len(recs), "duplicated rs numbers"); err != nil {
		return nil, err
	}

	oldLen = len(recs)
	kept = recs[:0]
	for _, rec := range recs {
		if rec.missing {
			continue
		}
		kept = append(kept, rec)
	}
	recs = kept
	f.Counts.Missing += oldLen - len(recs)
	if err := f.report(lg, verbose, oldLen, len(recs), "missing values in columns other than INFO"); err != nil {
		return nil, err
	}

	oldLen = len(recs)
	kept = recs[:0]
	badP := 0
	for _, rec := range recs {
		if rec.P > 1 {
			badP++
		}
		if rec.P <= 0 || rec.P > 1 {
			continue
		}
		kept = append(kept, rec)
	}
	recs = kept
	if badP > 0 {
		lg.Printf("WARNING: %d SNPs had P > 1. The P column may be mislabeled.", badP)
	}
	f.Counts.PValue += oldLen - len(recs)
	if err := f.report(lg, verbose, oldLen, len(recs), "p-values outside of (0,1]"); err != nil {
		return nil, err
	}

	if f.HasInfo {
		oldLen = len(recs)
		kept = recs[:0]
		badInfo := 0
		for _, rec := range recs {
			if rec.Info.Valid && (rec.Info.Float64 > 1.5 || rec.Info.Float64 < 0) {
				badInfo++
			}
			if !rec.Info.Valid || rec.Info.Float64 <= f.InfoMin {
				continue
			}
			kept = append(kept, rec)
		}
		recs = kept
		if badInfo > 0 {
			lg.Printf("WARNING: %d SNPs had INFO outside of [0,1.5]. The INFO column may be mislabeled.", badInfo)
		}
		f.Counts.Info += oldLen - len(recs)
		if err := f.report(lg, verbose, oldLen, len(recs), fmt.Sprintf("INFO <= %v", f.InfoMin)); err != nil {
			return nil, err
		}
	}

	if f.HasFrq {
		oldLen = len(recs)
		kept = recs[:0]
		badFrq := 0
		for _, rec := range recs {
			if rec.Frq.Valid && (rec.Frq.Float64 < 0 || rec.Frq.Float64 > 1) {
				badFrq++
			}
			if !rec.Frq.Valid {
				continue
			}
			// fold to minor allele frequency
			maf := rec.Frq.Float64
			if maf > 0.5 {
				maf = 1 - maf
			}
			if maf <= f.MafMin {
				continue
			}
			kept = append(kept, rec)
		}
		recs = kept
		if badFrq > 0 {
			lg.Printf("WARNING: %d SNPs had FRQ outside of [0,1]. The FRQ column may be mislabeled.", badFrq)
		}
		f.Counts.Frq += oldLen - len(recs)
		if err := f.report(lg, verbose, oldLen, len(recs), fmt.Sprintf("MAF <= %v", f.MafMin)); err != nil {
			return nil, err
		}
	}

	return recs, nil
}

// Summary logs the accumulated drop counts in one block, for the
// chunked path where per-stage lines would interleave meaninglessly.
func (f *Filterer) Summary(lg *ldsc.Logger, remaining int) {
	lg.Printf("Removed %d SNPs with duplicated rs numbers.", f.Counts.Duplicates)
	lg.Printf("Removed %d SNPs with missing values.", f.Counts.Missing)
	lg.Printf("Removed %d SNPs with out-of-bounds p-values.", f.Counts.PValue)
	if f.HasInfo {
		lg.Printf("Removed %d SNPs with INFO <= %v.", f.Counts.Info, f.InfoMin)
	}
	if f.HasFrq {
		lg.Printf("Removed %d SNPs with MAF <= %v.", f.Counts.Frq, f.MafMin)
	}
	lg.Printf("At this point, %d SNPs remain.", remaining)
}

func (f *Filterer) report(lg *ldsc.Logger, verbose bool, oldLen, newLen int, phrase string) error {
	if !verbose {
		return nil
	}
	lg.Printf("Removed %d SNPs with %s (%d SNPs remain).", oldLen-newLen, phrase, newLen)
	if newLen == 0 {
		return fmt.Errorf("no SNPs remain")
	}
	return nil
}
