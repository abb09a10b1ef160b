package sumstats

import (
	"fmt"
	"strconv"
	"strings"
)

// Canonical column names.
const (
	ColSNP     = "SNP"
	ColP       = "P"
	ColA1      = "A1"
	ColA2      = "A2"
	ColN       = "N"
	ColNCas    = "N_CAS"
	ColNCon    = "N_CON"
	ColZ       = "Z"
	ColOR      = "OR"
	ColBeta    = "BETA"
	ColLogOdds = "LOG_ODDS"
	ColInfo    = "INFO"
	ColFrq     = "FRQ"
	ColSigned  = "SIGNED_SUMSTAT"
)

// ColumnDescriptions maps canonical column names to the human-readable
// description printed when the header is interpreted.
var ColumnDescriptions = map[string]string{
	ColSNP:     "Variant ID (e.g., rs number)",
	ColP:       "p-Value",
	ColA1:      "Allele 1",
	ColA2:      "Allele 2",
	ColN:       "Sample size",
	ColNCas:    "Number of cases",
	ColNCon:    "Number of controls",
	ColZ:       "Z-score (0 --> no effect; above 0 --> trait/risk increasing)",
	ColOR:      "Odds ratio (1 --> no effect; above 1 --> trait/risk increasing)",
	ColBeta:    "[linear/logistic] regression coefficient (0 --> no effect; above 0 --> trait/risk increasing)",
	ColLogOdds: "Log odds ratio (0 --> no effect; above 0 --> trait/risk increasing)",
	ColInfo:    "INFO score (imputation quality; assumed between 0 and 1, with 1 indicating perfect imputation)",
	ColFrq:     "Allele frequency",
	ColSigned:  "Directional summary statistic as specified by --signed-sumstats.",
}

// ColumnAliases maps cleaned source headers to canonical column names.
// The alias set follows the naming conventions observed across
// published GWAS summary statistics.
var ColumnAliases = map[string]string{
	// rs number
	"SNP":        ColSNP,
	"MARKERNAME": ColSNP,
	"SNPID":      ColSNP,
	"RS":         ColSNP,
	"RSID":       ColSNP,
	"RS_NUMBER":  ColSNP,
	"RS_NUMBERS": ColSNP,

	// p-value
	"P":         ColP,
	"PVALUE":    ColP,
	"P_VALUE":   ColP,
	"PVAL":      ColP,
	"P_VAL":     ColP,
	"GC_PVALUE": ColP,

	// allele 1
	"A1":               ColA1,
	"ALLELE1":          ColA1,
	"ALLELE_1":         ColA1,
	"EFFECT_ALLELE":    ColA1,
	"RISK_ALLELE":      ColA1,
	"REFERENCE_ALLELE": ColA1,
	"INC_ALLELE":       ColA1,
	"EA":               ColA1,

	// allele 2
	"A2":                ColA2,
	"ALLELE2":           ColA2,
	"ALLELE_2":          ColA2,
	"OTHER_ALLELE":      ColA2,
	"NON_EFFECT_ALLELE": ColA2,
	"DEC_ALLELE":        ColA2,
	"NEA":               ColA2,

	// sample size
	"N":          ColN,
	"NCASE":      ColNCas,
	"N_CASE":     ColNCas,
	"N_CASES":    ColNCas,
	"N_CAS":      ColNCas,
	"NCONTROL":   ColNCon,
	"N_CONTROL":  ColNCon,
	"N_CONTROLS": ColNCon,
	"N_CON":      ColNCon,
	"WEIGHT":     ColN, // metal emits this. possibly risky.

	// signed statistics
	"ZSCORE":         ColZ,
	"GC_ZSCORE":      ColZ,
	"Z":              ColZ,
	"OR":             ColOR,
	"BETA":           ColBeta,
	"LOG_ODDS":       ColLogOdds,
	"EFFECT":         ColBeta,
	"EFFECTS":        ColBeta,
	"SIGNED_SUMSTAT": ColSigned,

	// imputation quality
	"INFO": ColInfo,

	// allele frequency
	"FRQ":    ColFrq,
	"MAF":    ColFrq,
	"FRQ_U":  ColFrq,
	"F_U":    ColFrq,
	"CEUAF":  ColFrq,
	"CEU_AF": ColFrq,
}

// signedColumns are the canonical names that can carry the directional
// statistic, in priority order.
var signedColumns = []string{ColOR, ColZ, ColBeta, ColLogOdds}

// CleanHeader normalizes a source file header: uppercase, with dashes
// and R-style dots replaced by underscores.
func CleanHeader(header string) string {
	return strings.NewReplacer("-", "_", ".", "_").Replace(strings.ToUpper(header))
}

// Overrides maps cleaned source headers to canonical column names, as
// set by the column-name flags.
type Overrides map[string]string

// Add registers a flag-supplied column name for a canonical column,
// rejecting overloads of headers claimed by other flags and conflicts
// with protected alias names.
func (o Overrides) Add(flagName, header, canonical string) error {
	clean := CleanHeader(header)
	if _, exists := o[clean]; exists {
		return fmt.Errorf("the --%s flag has overloaded a column name set by another flag", flagName)
	}

	if known, exists := ColumnAliases[clean]; exists && !compatibleAlias(known, canonical) {
		return fmt.Errorf("the --%s flag conflicts with a protected column name, usually taken to mean %s", flagName, known)
	}

	o[clean] = canonical
	return nil
}

// compatibleAlias reports whether a flag may claim a header whose alias
// already maps to the canonical name known. The signed-sumstats flag
// may claim any of the directional statistic columns.
func compatibleAlias(known, requested string) bool {
	if known == requested {
		return true
	}
	if requested == ColSigned {
		switch known {
		case ColBeta, ColZ, ColOR, ColSigned, ColLogOdds:
			return true
		}
	}
	return false
}

// claims reports whether any override targets the canonical column.
func (o Overrides) claims(canonical string) bool {
	for _, c := range o {
		if c == canonical {
			return true
		}
	}
	return false
}

// SignedStat is the parsed --signed-sumstats argument: the column that
// carries the directional statistic and its null value (e.g., Z,0 or
// OR,1).
type SignedStat struct {
	Column    string
	NullValue float64
}

// ParseSignedStat parses a "column,null" specification.
func ParseSignedStat(arg string) (SignedStat, error) {
	parts := strings.Split(arg, ",")
	if len(parts) != 2 {
		return SignedStat{}, fmt.Errorf("the argument to --signed-sumstats should be formatted as column header comma number")
	}

	null, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return SignedStat{}, fmt.Errorf("the argument to --signed-sumstats should be formatted as column header comma number: %v", err)
	}

	return SignedStat{Column: CleanHeader(parts[0]), NullValue: null}, nil
}
