package cts

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/pvtodorov/ldsc"
	"github.com/pvtodorov/ldsc/ldscore"
)

func writeScoreFile(t *testing.T, dir, prefix string, snps []string, l2 []float64) string {
	t.Helper()

	body := "CHR SNP BP L2\n"
	for i, snp := range snps {
		body += fmt.Sprintf("1 %s %d %g\n", snp, 100*(i+1), l2[i])
	}

	path := filepath.Join(dir, prefix)
	if err := os.WriteFile(path+".l2.ldscore", []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func testRunner(t *testing.T, dir string) (*Runner, []float64) {
	t.Helper()

	snps := make([]string, 12)
	for i := range snps {
		snps[i] = fmt.Sprintf("rs%d", i+1)
	}

	a := []float64{1, 2, 3, 4, 5, 6, 1, 3, 5, 7, 9, 11}
	b := []float64{2, 1, 4, 3, 6, 5, 8, 7, 10, 9, 12, 11}
	ones := make([]float64, 12)
	chisq := make([]float64, 12)
	for i := range snps {
		ones[i] = 1
		chisq[i] = 0.5*a[i] + 0.2*b[i] + 1
	}

	neuron := writeScoreFile(t, dir, "Neuron", snps, a)
	writeScoreFile(t, dir, "Astrocyte", snps, []float64{5, 3, 8, 1, 9, 2, 7, 4, 10, 6, 12, 11})
	basePath := writeScoreFile(t, dir, "baseline", snps, b)
	weightPath := writeScoreFile(t, dir, "weights", snps, ones)

	baseline, err := ldscore.ReadPrefix(basePath)
	if err != nil {
		t.Fatal(err)
	}
	weights, err := ldscore.ReadPrefix(weightPath)
	if err != nil {
		t.Fatal(err)
	}

	return &Runner{
		Out:      filepath.Join(dir, "run"),
		SNPs:     snps,
		ChiSq:    chisq,
		Baseline: baseline,
		Weights:  weights,
		CellTypes: []ldscore.CellType{
			{Name: "Neuron", Prefixes: []string{neuron}},
			{Name: "Astrocyte", Prefixes: []string{filepath.Join(dir, "Astrocyte")}},
		},
		Log: &ldsc.Logger{},
	}, chisq
}

func TestRunnerEndToEnd(t *testing.T) {
	dir := t.TempDir()
	r, _ := testRunner(t, dir)

	results, err := r.Run()
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, expected 2", len(results))
	}

	// Neuron's scores exactly explain chi^2 with coefficient 0.5
	var neuron *Result
	for i := range results {
		if results[i].Name == "Neuron" {
			neuron = &results[i]
		}
	}
	if neuron == nil {
		t.Fatal("Neuron missing from results")
	}
	if math.Abs(neuron.Coefficient-0.5) > 1e-6 {
		t.Errorf("Neuron coefficient: got %v, expected 0.5", neuron.Coefficient)
	}
	if neuron.CoefficientPValue != 0 {
		t.Errorf("Neuron p-value of an exact fit: got %v, expected 0", neuron.CoefficientPValue)
	}

	// results are sorted by ascending p-value
	for i := 1; i < len(results); i++ {
		if results[i-1].CoefficientPValue > results[i].CoefficientPValue {
			t.Error("results are not sorted by p-value")
		}
	}

	// final file exists, checkpoint is gone
	if _, err := os.Stat(r.Out + ResultsSuffix); err != nil {
		t.Errorf("final results file missing: %v", err)
	}
	if _, err := os.Stat(r.Out + CheckpointSuffix); !os.IsNotExist(err) {
		t.Error("checkpoint should be removed after a successful run")
	}

	// the final file round-trips
	reread, err := ReadResults(r.Out + ResultsSuffix)
	if err != nil {
		t.Fatal(err)
	}
	if len(reread) != 2 || reread[0].Name != results[0].Name {
		t.Errorf("reread results differ: %+v vs %+v", reread, results)
	}
}

func TestRunnerToleratesFailures(t *testing.T) {
	dir := t.TempDir()
	r, _ := testRunner(t, dir)

	// an unreadable cell type must not abort the others
	r.CellTypes = append([]ldscore.CellType{
		{Name: "Broken", Prefixes: []string{filepath.Join(dir, "no-such-prefix")}},
	}, r.CellTypes...)

	results, err := r.Run()
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, expected 2", len(results))
	}
	for _, res := range results {
		if res.Name == "Broken" {
			t.Error("the failed regression should not appear in the results")
		}
	}
}

func TestRunnerResumesFromCheckpoint(t *testing.T) {
	dir := t.TempDir()
	r, _ := testRunner(t, dir)

	// Pretend a previous run already finished Neuron, then lost its
	// score files. The checkpoint alone must carry it through.
	sentinel := Result{Name: "Neuron", Coefficient: 42, CoefficientStdError: 1, CoefficientPValue: 0.25}
	if err := WriteResults(r.Out+CheckpointSuffix, []Result{sentinel}); err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(filepath.Join(dir, "Neuron.l2.ldscore")); err != nil {
		t.Fatal(err)
	}

	results, err := r.Run()
	if err != nil {
		t.Fatal(err)
	}

	var neuron *Result
	for i := range results {
		if results[i].Name == "Neuron" {
			neuron = &results[i]
		}
	}
	if neuron == nil {
		t.Fatal("Neuron missing from results")
	}
	if neuron.Coefficient != 42 {
		t.Errorf("Neuron should come from the checkpoint, got %+v", neuron)
	}
}

func TestRunnerAllFailuresIsError(t *testing.T) {
	dir := t.TempDir()
	r, _ := testRunner(t, dir)
	r.CellTypes = []ldscore.CellType{
		{Name: "Broken", Prefixes: []string{filepath.Join(dir, "no-such-prefix")}},
	}

	if _, err := r.Run(); err == nil {
		t.Error("expected an error when every regression fails")
	}
}
