package sumstats

import (
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pvtodorov/ldsc"
)

const testSumstats = `SNP A1 A2 P N Z INFO
rs1 A G 0.05 10000 2.5 0.99
rs2 C T 0.5 10000 -1.2 0.98
rs3 A T 0.01 10000 3.0 0.99
rs4 AT G 0.2 10000 0.5 0.97
rs5 A G 0.3 10000 0.8 0.2
rs6 G A 1e-9 10000 6.1 0.95
rs1 A G 0.05 10000 2.5 0.99
`

func runMunge(t *testing.T, opts MungeOptions) []string {
	t.Helper()
	return runMungeFile(t, testSumstats, opts)
}

func runMungeFile(t *testing.T, contents string, opts MungeOptions) []string {
	t.Helper()

	dir := t.TempDir()
	in := filepath.Join(dir, "gwas.txt")
	if err := os.WriteFile(in, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}

	opts.Sumstats = in
	opts.Out = filepath.Join(dir, "out")

	lg := &ldsc.Logger{}
	if _, err := Munge(opts, lg); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(opts.Out + ".chisq.gz")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	gr, err := gzip.NewReader(f)
	if err != nil {
		t.Fatal(err)
	}
	var sb strings.Builder
	buf := make([]byte, 4096)
	for {
		n, err := gr.Read(buf)
		sb.Write(buf[:n])
		if err != nil {
			break
		}
	}

	lines := strings.Split(strings.TrimSpace(sb.String()), "\n")
	return lines
}

func TestMungeEndToEnd(t *testing.T) {
	lines := runMunge(t, MungeOptions{InfoMin: 0.9, MafMin: 0.01, NoFilterN: true, ChunkSize: 2})

	if lines[0] != "SNP\tN\tCHISQ\tINC_ALLELE\tDEC_ALLELE" {
		t.Fatalf("unexpected header: %q", lines[0])
	}

	rows := make(map[string][]string)
	for _, line := range lines[1:] {
		fields := strings.Split(line, "\t")
		rows[fields[0]] = fields
	}

	// rs3 is strand ambiguous, rs4 is an indel, rs5 fails the INFO
	// filter, and the duplicate rs1 is dropped.
	if len(rows) != 3 {
		t.Fatalf("got %d SNPs (%v), expected 3", len(rows), rows)
	}
	for _, snp := range []string{"rs1", "rs2", "rs6"} {
		if _, ok := rows[snp]; !ok {
			t.Errorf("expected %s in the output", snp)
		}
	}

	// rs2 has Z < 0, so its alleles flip
	if rs2 := rows["rs2"]; rs2[3] != "T" || rs2[4] != "C" {
		t.Errorf("rs2 alleles should be flipped to T/C, got %s/%s", rs2[3], rs2[4])
	}
	// rs1 has Z > 0, so A1 is the increasing allele
	if rs1 := rows["rs1"]; rs1[3] != "A" || rs1[4] != "G" {
		t.Errorf("rs1 alleles should be A/G, got %s/%s", rs1[3], rs1[4])
	}
}

func TestMungeWithMergeAlleles(t *testing.T) {
	dir := t.TempDir()
	mergePath := filepath.Join(dir, "merge.txt")
	if err := os.WriteFile(mergePath, []byte("SNP A1 A2\nrs1 A G\nrs2 C T\nrs99 A C\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	lines := runMunge(t, MungeOptions{InfoMin: 0.9, MafMin: 0.01, NoFilterN: true, MergeAlleles: mergePath})

	// output order and membership follow the merge list
	if len(lines) != 4 {
		t.Fatalf("got %d data rows, expected 3", len(lines)-1)
	}
	for i, snp := range []string{"rs1", "rs2", "rs99"} {
		fields := strings.Split(lines[i+1], "\t")
		if fields[0] != snp {
			t.Errorf("row %d: got %s, expected %s", i, fields[0], snp)
		}
		if snp == "rs99" && fields[2] != "NA" {
			t.Errorf("rs99 should have NA chi^2, got %s", fields[2])
		}
	}
}

func TestMungeDaner(t *testing.T) {
	daner := `SNP A1 A2 P FRQ_A_1000 FRQ_U_3000 OR
rs1 A G 0.05 0.30 0.32 1.2
rs2 C T 0.5 0.10 0.12 0.8
rs3 G A 0.2 0.40 0.005 1.1
`
	lines := runMungeFile(t, daner, MungeOptions{InfoMin: 0.9, MafMin: 0.01, Daner: true})

	rows := make(map[string][]string)
	for _, line := range lines[1:] {
		fields := strings.Split(line, "\t")
		rows[fields[0]] = fields
	}

	// rs3 fails the MAF filter on its control frequency
	if len(rows) != 2 {
		t.Fatalf("got %d SNPs (%v), expected 2", len(rows), rows)
	}

	// N_cas and N_con come from the FRQ_A_/FRQ_U_ headers
	for _, snp := range []string{"rs1", "rs2"} {
		if n := rows[snp][1]; n != "4000" {
			t.Errorf("%s: got N = %s, expected 4000", snp, n)
		}
	}

	// rs2 has OR < 1, so its alleles flip
	if rs2 := rows["rs2"]; rs2[3] != "T" || rs2[4] != "C" {
		t.Errorf("rs2 alleles should be flipped to T/C, got %s/%s", rs2[3], rs2[4])
	}
}

func TestMungeRequiresArguments(t *testing.T) {
	lg := &ldsc.Logger{}
	if _, err := Munge(MungeOptions{}, lg); err == nil {
		t.Error("expected an error without --sumstats and --out")
	}
}
