// Run cell-type-specific LD Score regressions over munged summary
// statistics, checkpointing after every cell type so that an
// externally terminated run can be resumed.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/pvtodorov/ldsc"
	"github.com/pvtodorov/ldsc/compileinfo"
	"github.com/pvtodorov/ldsc/cts"
	"github.com/pvtodorov/ldsc/ldscore"
	"github.com/pvtodorov/ldsc/sumstats"
)

func main() {
	var (
		h2cts   string
		ctsFile string
		refLd   string
		wLd     string
		out     string
	)

	flag.StringVar(&h2cts, "h2-cts", "", "Path to munged summary statistics (SNP plus CHISQ or Z columns).")
	flag.StringVar(&ctsFile, "ref-ld-chr-cts", "", "Path to a manifest of cell type names and @-templated LD score prefixes.")
	flag.StringVar(&refLd, "ref-ld-chr", "", "Baseline LD score prefix (@ is replaced with the chromosome number).")
	flag.StringVar(&wLd, "w-ld-chr", "", "Regression weight LD score prefix (@ is replaced with the chromosome number).")
	flag.StringVar(&out, "out", "", "Output filename prefix.")
	flag.Parse()

	if h2cts == "" || ctsFile == "" || refLd == "" || wLd == "" || out == "" {
		flag.Usage()
		log.Fatalln("Please provide --h2-cts, --ref-ld-chr-cts, --ref-ld-chr, --w-ld-chr, and --out")
	}

	lg, err := ldsc.NewLogger(out + ".log")
	if err != nil {
		log.Fatalln(err)
	}
	defer lg.Close()
	fmt.Fprintf(os.Stderr, "Writing log to %s\n", lg.Path)

	var invoked []string
	flag.Visit(func(f *flag.Flag) {
		invoked = append(invoked, "--"+f.Name+" "+f.Value.String())
	})
	lg.Println(compileinfo.Get().Masthead("ctsregression", invoked))

	start := time.Now()
	if err := run(h2cts, ctsFile, refLd, wLd, out, lg); err != nil {
		lg.Printf("FATAL: %v", err)
		os.Exit(1)
	}
	lg.Printf("Total time elapsed: %s", ldsc.SecondsToText(time.Since(start)))
}

func run(h2cts, ctsFile, refLd, wLd, out string, lg *ldsc.Logger) error {
	snps, chisq, err := loadSumstats(h2cts)
	if err != nil {
		return err
	}
	lg.Printf("Read chi^2 statistics for %d SNPs from %s.", len(snps), h2cts)

	cellTypes, err := ldscore.ReadManifest(ctsFile)
	if err != nil {
		return err
	}
	lg.Printf("Read %d cell types from %s.", len(cellTypes), ctsFile)

	baseline, err := ldscore.ReadPrefix(refLd)
	if err != nil {
		return err
	}
	lg.Printf("Read baseline LD scores for %d SNPs.", baseline.Len())

	if m, err := ldscore.ReadM(refLd, ".l2.M_5_50"); err == nil {
		var total float64
		for _, v := range m {
			total += v
		}
		lg.Printf("Baseline M_5_50 = %v SNPs across %d annotations.", total, len(m))
	} else {
		lg.Printf("WARNING: could not read the baseline .l2.M_5_50 counts: %v", err)
	}

	weights, err := ldscore.ReadPrefix(wLd)
	if err != nil {
		return err
	}
	lg.Printf("Read regression weight LD scores for %d SNPs.", weights.Len())

	runner := &cts.Runner{
		Out:       out,
		SNPs:      snps,
		ChiSq:     chisq,
		Baseline:  baseline,
		Weights:   weights,
		CellTypes: cellTypes,
		Log:       lg,
	}

	_, err = runner.Run()
	return err
}

// loadSumstats reads a munged summary statistics file, accepting either
// a CHISQ column or a Z column (in which case chi^2 = Z^2).
func loadSumstats(path string) ([]string, []float64, error) {
	r, err := sumstats.OpenReader(path)
	if err != nil {
		return nil, nil, err
	}
	defer r.Close()

	snpCol, chisqCol, zCol := -1, -1, -1
	for i, h := range r.Headers() {
		switch sumstats.CleanHeader(h) {
		case "SNP", "SNPID":
			snpCol = i
		case "CHISQ":
			chisqCol = i
		case "Z", "ZSCORE":
			zCol = i
		}
	}
	if snpCol < 0 {
		return nil, nil, fmt.Errorf("%s: no SNP column", path)
	}
	if chisqCol < 0 && zCol < 0 {
		return nil, nil, fmt.Errorf("%s: no CHISQ or Z column", path)
	}

	var snps []string
	var chisq []float64
	seen := make(map[string]struct{})
	for {
		row, err := r.Next()
		if err != nil {
			break
		}

		statCol := chisqCol
		if statCol < 0 {
			statCol = zCol
		}
		if snpCol >= len(row) || statCol >= len(row) {
			continue
		}

		v, perr := strconv.ParseFloat(row[statCol], 64)
		if perr != nil {
			// NA chi^2 from an allele merge
			continue
		}
		if chisqCol < 0 {
			v = v * v
		}

		snp := row[snpCol]
		if _, dup := seen[snp]; dup {
			continue
		}
		seen[snp] = struct{}{}

		snps = append(snps, snp)
		chisq = append(chisq, v)
	}

	if len(snps) == 0 {
		return nil, nil, fmt.Errorf("%s: no usable SNPs", path)
	}
	return snps, chisq, nil
}
