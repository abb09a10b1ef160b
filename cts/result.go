// Package cts runs cell-type-specific LD Score regressions with
// per-iteration checkpointing, so that a run killed by a cluster
// scheduler can be resumed without repeating completed regressions.
package cts

import (
	"encoding/csv"
	"io"
	"os"
	"sort"

	"github.com/carbocation/pfx"
	"github.com/gocarina/gocsv"
)

// CheckpointSuffix names the intermediate results file written after
// every regression.
const CheckpointSuffix = ".cell_type_results.tmp.txt"

// ResultsSuffix names the final, p-value-sorted results file.
const ResultsSuffix = ".cell_type_results.txt"

// Result is one cell type's regression outcome.
type Result struct {
	Name                string  `csv:"Name"`
	Coefficient         float64 `csv:"Coefficient"`
	CoefficientStdError float64 `csv:"Coefficient_std_error"`
	CoefficientPValue   float64 `csv:"Coefficient_P_value"`
}

func init() {
	// Results files are tab-delimited
	gocsv.SetCSVWriter(func(out io.Writer) *gocsv.SafeCSVWriter {
		w := csv.NewWriter(out)
		w.Comma = '\t'
		return gocsv.NewSafeCSVWriter(w)
	})
	gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader {
		r := csv.NewReader(in)
		r.Comma = '\t'
		r.LazyQuotes = true
		return r
	})
}

// WriteResults writes the results table to path, creating or replacing
// it.
func WriteResults(path string, results []Result) error {
	f, err := os.Create(path)
	if err != nil {
		return pfx.Err(err)
	}

	if err := gocsv.MarshalFile(&results, f); err != nil {
		f.Close()
		return pfx.Err(err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return pfx.Err(err)
	}
	return f.Close()
}

// ReadResults loads a results (or checkpoint) table. A missing file is
// not an error: it yields no results, which is the state of a fresh
// run.
func ReadResults(path string) ([]Result, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	} else if err != nil {
		return nil, pfx.Err(err)
	}
	defer f.Close()

	var results []Result
	if err := gocsv.UnmarshalFile(f, &results); err != nil {
		return nil, pfx.Err(err)
	}
	return results, nil
}

// SortByPValue orders results by ascending coefficient p-value, the
// convention of the final results file.
func SortByPValue(results []Result) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].CoefficientPValue < results[j].CoefficientPValue
	})
}
