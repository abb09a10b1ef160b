package sumstats

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pvtodorov/ldsc"
	"gopkg.in/guregu/null.v3"
)

func chiRecord(snp string, chi float64) Record {
	return Record{SNP: snp, N: null.FloatFrom(10000), ChiSq: null.FloatFrom(chi)}
}

func TestSummarize(t *testing.T) {
	recs := []Record{
		chiRecord("rs1", 0.2),
		chiRecord("rs2", 0.4549),
		chiRecord("rs3", 0.9098),
		chiRecord("rs4", 2.0),
		chiRecord("rs5", 35.0),
		{SNP: "rs6"}, // nulled by the allele merge; excluded
	}

	m, err := Summarize(recs)
	if err != nil {
		t.Fatal(err)
	}

	wantMean := (0.2 + 0.4549 + 0.9098 + 2.0 + 35.0) / 5
	if math.Abs(m.MeanChiSq-wantMean) > 1e-12 {
		t.Errorf("mean chi^2: got %v, expected %v", m.MeanChiSq, wantMean)
	}

	// median 0.9098 over the null median 0.4549
	if math.Abs(m.LambdaGC-2.0) > 1e-12 {
		t.Errorf("lambda GC: got %v, expected 2", m.LambdaGC)
	}
	if m.MaxChiSq != 35.0 {
		t.Errorf("max chi^2: got %v, expected 35", m.MaxChiSq)
	}

	if len(m.GenomeWideSig) != 1 || m.GenomeWideSig[0].SNP != "rs5" {
		t.Errorf("genome-wide significant SNPs: got %+v, expected only rs5", m.GenomeWideSig)
	}
}

func TestSummarizeAllNull(t *testing.T) {
	m, err := Summarize([]Record{{SNP: "rs1"}, {SNP: "rs2"}})
	if err != nil {
		t.Fatal(err)
	}
	if m.MeanChiSq != 0 || m.LambdaGC != 0 || m.MaxChiSq != 0 || len(m.GenomeWideSig) != 0 {
		t.Errorf("expected an empty report, got %+v", m)
	}
}

func TestReportWarnsOnLowMeanChiSq(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "meta.log")
	lg, err := ldsc.NewLogger(logPath)
	if err != nil {
		t.Fatal(err)
	}
	defer lg.Close()

	m, err := Summarize([]Record{chiRecord("rs1", 0.9), chiRecord("rs2", 1.1)})
	if err != nil {
		t.Fatal(err)
	}
	m.Report(lg)

	contents, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(contents), "mean chi^2 may be too small") {
		t.Errorf("expected a low mean chi^2 warning in the log, got:\n%s", contents)
	}
	if !strings.Contains(string(contents), "No genome-wide significant SNPs") {
		t.Errorf("expected a no-gwsig line in the log, got:\n%s", contents)
	}
}
