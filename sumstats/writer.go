package sumstats

import (
	"bufio"
	"compress/gzip"
	"os"
	"strconv"
	"strings"

	"github.com/carbocation/pfx"
	"github.com/pvtodorov/ldsc"
	"gopkg.in/guregu/null.v3"
)

// WriteChiSq writes the converted statistics as a gzipped, tab-
// separated table. Null fields are written as NA, which downstream LD
// Score regression treats as missing.
func WriteChiSq(path string, recs []Record, includeAlleles bool, lg *ldsc.Logger) error {
	expanded, err := ldsc.ExpandHome(path)
	if err != nil {
		return err
	}

	f, err := os.Create(expanded)
	if err != nil {
		return pfx.Err(err)
	}
	defer f.Close()

	gw := gzip.NewWriter(f)
	bw := bufio.NewWriter(gw)

	cols := []string{"SNP", "N", "CHISQ"}
	if includeAlleles {
		cols = append(cols, "INC_ALLELE", "DEC_ALLELE")
	}
	if _, err := bw.WriteString(strings.Join(cols, "\t") + "\n"); err != nil {
		return pfx.Err(err)
	}

	nonmissing := 0
	for _, rec := range recs {
		fields := []string{rec.SNP, formatNullFloat(rec.N), formatNullFloat(rec.ChiSq)}
		if includeAlleles {
			fields = append(fields, formatNullString(rec.IncAllele.Ptr()), formatNullString(rec.DecAllele.Ptr()))
		}
		if rec.ChiSq.Valid {
			nonmissing++
		}
		if _, err := bw.WriteString(strings.Join(fields, "\t") + "\n"); err != nil {
			return pfx.Err(err)
		}
	}

	if err := bw.Flush(); err != nil {
		return pfx.Err(err)
	}
	if err := gw.Close(); err != nil {
		return pfx.Err(err)
	}

	lg.Printf("Writing chi^2 statistics for %d SNPs (%d of which have nonmissing chi^2) to %s.", len(recs), nonmissing, expanded)
	return f.Close()
}

func formatNullFloat(v null.Float) string {
	if !v.Valid {
		return "NA"
	}
	return strconv.FormatFloat(v.Float64, 'G', -1, 64)
}

func formatNullString(s *string) string {
	if s == nil {
		return "NA"
	}
	return *s
}
