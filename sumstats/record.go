package sumstats

import (
	"strconv"

	"gopkg.in/guregu/null.v3"
)

// Record is a single SNP's summary statistics after header resolution.
// Nullable fields cover columns the input lacks and SNPs nulled by the
// allele merge.
type Record struct {
	SNP string
	A1  Allele
	A2  Allele
	P   float64

	N    null.Float
	NCas null.Float
	NCon null.Float

	// Signed holds whichever directional statistic the column map
	// selected (OR, Z, BETA, LOG_ODDS, or an explicit column).
	Signed null.Float

	Info null.Float
	Frq  null.Float

	ChiSq     null.Float
	IncAllele null.String
	DecAllele null.String

	// missing marks a record with a missing value in a required column;
	// such records are removed by the filter pass.
	missing bool
}

// isMissing reports whether a field uses one of the codes GWAS files
// use for absent data.
func isMissing(s string) bool {
	switch s {
	case "", ".", "NA", "N/A", "NaN", "nan", "NAN":
		return true
	}
	return false
}

// ParseRecord interprets one data row under the column map. Missing or
// unparseable values in required (non-INFO) columns mark the record for
// removal rather than failing the whole run.
func ParseRecord(cm *ColumnMap, row []string) Record {
	rec := Record{}

	var infoSum float64
	var infoCols int

	for i, canonical := range cm.Columns {
		if i >= len(row) {
			rec.missing = true
			continue
		}
		val := row[i]

		switch canonical {
		case ColSNP:
			if isMissing(val) {
				rec.missing = true
				continue
			}
			rec.SNP = val
		case ColA1:
			if isMissing(val) {
				rec.missing = true
				continue
			}
			rec.A1 = Allele(val)
		case ColA2:
			if isMissing(val) {
				rec.missing = true
				continue
			}
			rec.A2 = Allele(val)
		case ColInfo:
			// INFO is exempt from the missingness filter. Missing values
			// count as zero in the average, dragging low-quality rows
			// under the --info-min cutoff.
			infoCols++
			if f, err := strconv.ParseFloat(val, 64); err == nil {
				infoSum += f
			}
		default:
			// Unparseable numeric fields are as fatal to a row as
			// missing ones.
			f, err := strconv.ParseFloat(val, 64)
			if err != nil {
				rec.missing = true
				continue
			}

			switch canonical {
			case ColP:
				rec.P = f
			case ColN:
				rec.N = null.FloatFrom(f)
			case ColNCas:
				rec.NCas = null.FloatFrom(f)
			case ColNCon:
				rec.NCon = null.FloatFrom(f)
			case ColFrq:
				rec.Frq = null.FloatFrom(f)
			case ColOR, ColZ, ColBeta, ColLogOdds, ColSigned:
				rec.Signed = null.FloatFrom(f)
			}
		}
	}

	if infoCols > 0 {
		rec.Info = null.FloatFrom(infoSum / float64(infoCols))
	}

	return rec
}
