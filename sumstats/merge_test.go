package sumstats

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pvtodorov/ldsc"
	"gopkg.in/guregu/null.v3"
)

func writeMergeFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "w_hm3.snplist")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadMergeList(t *testing.T) {
	lg := &ldsc.Logger{}
	path := writeMergeFile(t, "SNP\tA1\tA2\nrs1\ta\tg\nrs2\tC\tT\n")

	ml, err := ReadMergeList(path, lg)
	if err != nil {
		t.Fatal(err)
	}
	if len(ml.Order) != 2 || ml.Order[0] != "rs1" || ml.Order[1] != "rs2" {
		t.Fatalf("unexpected order: %v", ml.Order)
	}
	if ml.A1["rs1"] != "A" || ml.A2["rs1"] != "G" {
		t.Errorf("alleles should be uppercased: %s/%s", ml.A1["rs1"], ml.A2["rs1"])
	}
}

func TestReadMergeListBadHeader(t *testing.T) {
	lg := &ldsc.Logger{}
	path := writeMergeFile(t, "SNP\tOTHER\nrs1\tA\n")

	if _, err := ReadMergeList(path, lg); err == nil {
		t.Error("expected an error for a malformed header")
	}
}

func mergedRecord(snp string, inc, dec string) Record {
	return Record{
		SNP:       snp,
		N:         null.FloatFrom(1000),
		ChiSq:     null.FloatFrom(5),
		IncAllele: null.StringFrom(inc),
		DecAllele: null.StringFrom(dec),
	}
}

func TestApplyMergeAlleles(t *testing.T) {
	lg := &ldsc.Logger{}
	ml := &MergeList{
		SNPs:  map[string]int{"rs1": 0, "rs2": 1, "rs3": 2, "rs4": 3},
		Order: []string{"rs1", "rs2", "rs3", "rs4"},
		A1:    map[string]Allele{"rs1": "A", "rs2": "C", "rs3": "A", "rs4": "A"},
		A2:    map[string]Allele{"rs1": "G", "rs2": "T", "rs3": "G", "rs4": "G"},
	}

	recs := []Record{
		mergedRecord("rs1", "A", "G"), // exact match
		mergedRecord("rs2", "A", "G"), // discordant with C/T
		mergedRecord("rs4", "T", "C"), // strand flip of A/G
		// rs3 absent from sumstats
	}

	out, err := ApplyMergeAlleles(recs, ml, lg)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 4 {
		t.Fatalf("got %d records, expected the merge list's 4", len(out))
	}

	// order follows the merge list
	for i, snp := range ml.Order {
		if out[i].SNP != snp {
			t.Errorf("position %d: got %s, expected %s", i, out[i].SNP, snp)
		}
	}

	if !out[0].ChiSq.Valid {
		t.Error("rs1 matched and should keep its statistics")
	}
	if out[1].ChiSq.Valid || out[1].N.Valid || out[1].IncAllele.Valid {
		t.Error("rs2 is discordant and should be nulled")
	}
	if out[2].ChiSq.Valid {
		t.Error("rs3 is absent from the sumstats and should be null")
	}
	if !out[3].ChiSq.Valid {
		t.Error("rs4 is a strand flip and should keep its statistics")
	}
}

func TestApplyMergeAllelesAmbiguousReference(t *testing.T) {
	lg := &ldsc.Logger{}
	ml := &MergeList{
		SNPs:  map[string]int{"rs1": 0},
		Order: []string{"rs1"},
		A1:    map[string]Allele{"rs1": "A"},
		A2:    map[string]Allele{"rs1": "T"}, // strand ambiguous
	}

	if _, err := ApplyMergeAlleles([]Record{mergedRecord("rs1", "A", "T")}, ml, lg); err == nil {
		t.Error("expected an error for a strand-ambiguous reference pair")
	}
}

func TestApplyMergeAllelesAllDiscordant(t *testing.T) {
	lg := &ldsc.Logger{}
	ml := &MergeList{
		SNPs:  map[string]int{"rs1": 0},
		Order: []string{"rs1"},
		A1:    map[string]Allele{"rs1": "C"},
		A2:    map[string]Allele{"rs1": "T"},
	}

	if _, err := ApplyMergeAlleles([]Record{mergedRecord("rs1", "A", "G")}, ml, lg); err == nil {
		t.Error("expected an error when every SNP is discordant")
	}
}
