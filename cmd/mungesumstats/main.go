// Convert GWAS summary statistics into the chi-square format consumed
// by LD Score regression.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/pvtodorov/ldsc"
	"github.com/pvtodorov/ldsc/compileinfo"
	"github.com/pvtodorov/ldsc/sumstats"
)

func main() {
	var (
		opts      sumstats.MungeOptions
		signedArg string

		snpCol, nCol, nCasCol, nConCol string
		a1Col, a2Col, pCol, frqCol     string
		infoCol, infoList              string
	)

	flag.StringVar(&opts.Sumstats, "sumstats", "", "Input filename.")
	flag.StringVar(&opts.Out, "out", "", "Output filename prefix.")
	flag.Float64Var(&opts.N, "N", 0, "Sample size. If this option is not set, will try to infer the sample size from the input file. If the input file contains a sample size column, and this flag is set, the argument to this flag has priority.")
	flag.Float64Var(&opts.NCas, "N-cas", 0, "Number of cases. If this option is not set, will try to infer the number of cases from the input file.")
	flag.Float64Var(&opts.NCon, "N-con", 0, "Number of controls. If this option is not set, will try to infer the number of controls from the input file.")
	flag.Float64Var(&opts.InfoMin, "info-min", 0.9, "Minimum INFO score.")
	flag.Float64Var(&opts.MafMin, "maf-min", 0.01, "Minimum MAF.")
	flag.BoolVar(&opts.Daner, "daner", false, "Use this flag to parse daner* files, inferring sample sizes from the FRQ_A_*/FRQ_U_* headers.")
	flag.StringVar(&opts.MergeAlleles, "merge-alleles", "", "Path to a file with columns SNP, A1, A2. The output will contain exactly these SNPs in this order, with alleles matched to this file.")
	flag.BoolVar(&opts.NoAlleles, "no-alleles", false, "Don't require alleles. Useful if only unsigned summary statistics are available and the goal is h2 estimation rather than rg estimation.")
	flag.BoolVar(&opts.NoFilterN, "no-filter-n", false, "Don't filter SNPs with low N.")
	flag.Float64Var(&opts.NMin, "n-min", 0, "Minimum N (sample size). Default is (90th percentile N) / 2.")
	flag.IntVar(&opts.ChunkSize, "chunksize", 5e6, "Number of SNPs to read into memory at a time.")

	flag.StringVar(&snpCol, "snp", "", "Name of the SNP column (if not a name that this tool understands). NB: case insensitive.")
	flag.StringVar(&nCol, "N-col", "", "Name of the N column. NB: case insensitive.")
	flag.StringVar(&nCasCol, "N-cas-col", "", "Name of the N_cas column. NB: case insensitive.")
	flag.StringVar(&nConCol, "N-con-col", "", "Name of the N_con column. NB: case insensitive.")
	flag.StringVar(&a1Col, "a1", "", "Name of the A1 column. NB: case insensitive.")
	flag.StringVar(&a2Col, "a2", "", "Name of the A2 column. NB: case insensitive.")
	flag.StringVar(&pCol, "p", "", "Name of the p-value column. NB: case insensitive.")
	flag.StringVar(&frqCol, "frq", "", "Name of the FRQ or MAF column. NB: case insensitive.")
	flag.StringVar(&infoCol, "info", "", "Name of the INFO column. NB: case insensitive.")
	flag.StringVar(&infoList, "info-list", "", "Comma-separated list of INFO columns. Will filter on the mean. NB: case insensitive.")
	flag.StringVar(&signedArg, "signed-sumstats", "", "Name of the signed sumstat column, comma null value (e.g., Z,0 or OR,1). NB: case insensitive.")
	flag.Parse()

	if opts.Sumstats == "" || opts.Out == "" {
		flag.Usage()
		log.Fatalln("Please provide --sumstats and --out")
	}

	opts.Overrides = sumstats.Overrides{}
	for _, v := range []struct {
		flagName  string
		header    string
		canonical string
	}{
		{"snp", snpCol, sumstats.ColSNP},
		{"N-col", nCol, sumstats.ColN},
		{"N-cas-col", nCasCol, sumstats.ColNCas},
		{"N-con-col", nConCol, sumstats.ColNCon},
		{"a1", a1Col, sumstats.ColA1},
		{"a2", a2Col, sumstats.ColA2},
		{"p", pCol, sumstats.ColP},
		{"frq", frqCol, sumstats.ColFrq},
		{"info", infoCol, sumstats.ColInfo},
	} {
		if v.header == "" {
			continue
		}
		if err := opts.Overrides.Add(v.flagName, v.header, v.canonical); err != nil {
			log.Fatalln(err)
		}
	}
	if infoList != "" {
		for _, header := range strings.Split(infoList, ",") {
			if err := opts.Overrides.Add("info-list", header, sumstats.ColInfo); err != nil {
				log.Fatalln(err)
			}
		}
	}
	if signedArg != "" {
		signed, err := sumstats.ParseSignedStat(signedArg)
		if err != nil {
			log.Fatalln(err)
		}
		if err := opts.Overrides.Add("signed-sumstats", signed.Column, sumstats.ColSigned); err != nil {
			log.Fatalln(err)
		}
		opts.Signed = &signed
	}

	lg, err := ldsc.NewLogger(opts.Out + ".log")
	if err != nil {
		log.Fatalln(err)
	}
	defer lg.Close()
	fmt.Fprintf(os.Stderr, "Writing log to %s\n", lg.Path)

	var invoked []string
	flag.Visit(func(f *flag.Flag) {
		invoked = append(invoked, "--"+f.Name+" "+f.Value.String())
	})
	lg.Println(compileinfo.Get().Masthead("mungesumstats", invoked))

	start := time.Now()
	lg.Printf("Beginning conversion at %s", start.Format(time.UnixDate))

	if _, err := sumstats.Munge(opts, lg); err != nil {
		lg.Printf("FATAL: %v", err)
		os.Exit(1)
	}

	lg.Printf("Conversion finished at %s", time.Now().Format(time.UnixDate))
	lg.Printf("Total time elapsed: %s", ldsc.SecondsToText(time.Since(start)))
}
