package cts

import (
	"fmt"
	"os"

	"github.com/pvtodorov/ldsc"
	"github.com/pvtodorov/ldsc/ldscore"
)

// Runner regresses chi-square statistics on cell-type LD scores, one
// cell type at a time, checkpointing after every regression.
type Runner struct {
	// Out is the output prefix; results land in
	// Out+".cell_type_results.txt" with the checkpoint at
	// Out+".cell_type_results.tmp.txt".
	Out string

	// SNPs and ChiSq are the munged summary statistics, parallel
	// slices.
	SNPs  []string
	ChiSq []float64

	// Baseline LD scores enter every regression; Weights supply the
	// regression weights (1/max(w,1)).
	Baseline *ldscore.Scores
	Weights  *ldscore.Scores

	CellTypes []ldscore.CellType

	Log *ldsc.Logger
}

// Run executes every cell type's regression. A single regression's
// failure is logged and does not abort the remaining cell types. If a
// checkpoint from an interrupted run exists, its completed regressions
// are reused rather than repeated.
func (r *Runner) Run() ([]Result, error) {
	checkpointPath := r.Out + CheckpointSuffix

	completed, err := ReadResults(checkpointPath)
	if err != nil {
		return nil, err
	}
	done := make(map[string]Result, len(completed))
	for _, res := range completed {
		done[res.Name] = res
	}
	if len(done) > 0 {
		r.Log.Printf("Recovered %d completed regressions from %s", len(done), checkpointPath)
	}

	var results []Result
	failures := 0
	for i, ct := range r.CellTypes {
		r.Log.Printf("Running regression %d of %d: %s", i+1, len(r.CellTypes), ct.Name)

		if res, ok := done[ct.Name]; ok {
			r.Log.Printf("%s is already in the checkpoint; skipping.", ct.Name)
			results = append(results, res)
			continue
		}

		res, err := r.runOne(ct)
		if err != nil {
			failures++
			r.Log.Printf("WARNING: regression for %s failed: %v. Continuing with the remaining cell types.", ct.Name, err)
			continue
		}
		results = append(results, res)

		if err := WriteResults(checkpointPath, results); err != nil {
			return nil, err
		}
	}

	if len(results) == 0 {
		return nil, fmt.Errorf("every cell type regression failed")
	}
	if failures > 0 {
		r.Log.Printf("%d of %d regressions failed; their cell types are absent from the results.", failures, len(r.CellTypes))
	}

	SortByPValue(results)
	resultsPath := r.Out + ResultsSuffix
	if err := WriteResults(resultsPath, results); err != nil {
		return nil, err
	}
	r.Log.Printf("Results for %d cell types written to %s", len(results), resultsPath)

	if err := os.Remove(checkpointPath); err != nil && !os.IsNotExist(err) {
		r.Log.Printf("WARNING: could not remove checkpoint %s: %v", checkpointPath, err)
	}

	return results, nil
}

// runOne fits one cell type: chi-square on [cell-type scores, baseline
// scores, intercept], weighted by the inverse weight-LD score, over the
// SNPs shared by all inputs.
func (r *Runner) runOne(ct ldscore.CellType) (Result, error) {
	var ctScores []*ldscore.Scores
	ctCols := 0
	for _, prefix := range ct.Prefixes {
		s, err := ldscore.ReadPrefix(prefix)
		if err != nil {
			return Result{}, err
		}
		ctScores = append(ctScores, s)
		ctCols += s.NumColumns()
	}

	var y []float64
	var x [][]float64
	var w []float64

	for i, snp := range r.SNPs {
		base, ok := r.Baseline.Lookup(snp)
		if !ok {
			continue
		}
		weight, ok := r.Weights.Lookup(snp)
		if !ok {
			continue
		}

		row := make([]float64, 0, ctCols+len(base)+1)
		complete := true
		for _, s := range ctScores {
			v, ok := s.Lookup(snp)
			if !ok {
				complete = false
				break
			}
			row = append(row, v...)
		}
		if !complete {
			continue
		}
		row = append(row, base...)
		row = append(row, 1)

		wv := weight[0]
		if wv < 1 {
			wv = 1
		}

		x = append(x, row)
		y = append(y, r.ChiSq[i])
		w = append(w, 1/wv)
	}

	if len(y) == 0 {
		return Result{}, fmt.Errorf("no SNPs shared between the summary statistics and the LD scores for %s", ct.Name)
	}

	coefs, ses, err := wls(y, x, w)
	if err != nil {
		return Result{}, err
	}

	// The cell type's own annotation is the leading coefficient.
	return Result{
		Name:                ct.Name,
		Coefficient:         coefs[0],
		CoefficientStdError: ses[0],
		CoefficientPValue:   coefficientPValue(coefs[0], ses[0]),
	}, nil
}
