package sumstats

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/pvtodorov/ldsc"
)

// ColumnMap records how the columns of a summary statistics header are
// interpreted.
type ColumnMap struct {
	// Columns maps header position to canonical column name for every
	// column that will be read.
	Columns map[int]string

	// Headers is the original header row.
	Headers []string

	// Signed is the canonical column carrying the directional summary
	// statistic, with its null value (1 for odds ratios, 0 otherwise).
	Signed     string
	SignedNull float64

	// DanerNCas and DanerNCon are the case/control counts inferred from
	// FRQ_A_*/FRQ_U_* headers when daner mode is active.
	DanerNCas float64
	DanerNCon float64
}

// Has reports whether any header column maps to the canonical name.
func (cm *ColumnMap) Has(canonical string) bool {
	for _, c := range cm.Columns {
		if c == canonical {
			return true
		}
	}
	return false
}

// InfoCols returns the header positions interpreted as INFO columns.
// Several INFO columns may be present (--info-list); they are averaged.
func (cm *ColumnMap) InfoCols() []int {
	var cols []int
	for i, c := range cm.Columns {
		if c == ColInfo {
			cols = append(cols, i)
		}
	}
	sort.Ints(cols)
	return cols
}

// ResolveOptions controls header interpretation.
type ResolveOptions struct {
	Overrides Overrides
	Signed    *SignedStat
	Daner     bool
	NoAlleles bool

	// HaveNFlag / HaveCaseControlFlags indicate that sample sizes were
	// supplied on the command line, relaxing the N-column requirement.
	HaveNFlag            bool
	HaveCaseControlFlags bool
}

// ResolveColumns interprets a summary statistics header, applying
// flag-set overrides first and the alias table second, selecting a
// single directional statistic, and validating that all required
// columns are present.
func ResolveColumns(headers []string, opt ResolveOptions, lg *ldsc.Logger) (*ColumnMap, error) {
	cm := &ColumnMap{
		Columns: make(map[int]string),
		Headers: headers,
	}
	if opt.Overrides == nil {
		opt.Overrides = Overrides{}
	}

	danerFrqCol := -1
	if opt.Daner {
		ncas, ncon, frqCol, err := danerSampleSizes(headers)
		if err != nil {
			return nil, err
		}
		cm.DanerNCas, cm.DanerNCon = ncas, ncon
		danerFrqCol = frqCol
	}

	for i, h := range headers {
		clean := CleanHeader(h)

		var canonical string
		switch {
		case opt.Overrides[clean] != "":
			canonical = opt.Overrides[clean]
		case i == danerFrqCol:
			canonical = ColFrq
		default:
			alias, known := ColumnAliases[clean]
			if !known || opt.Overrides.claims(alias) {
				continue
			}
			canonical = alias
		}

		if canonical != ColInfo && cm.Has(canonical) {
			return nil, fmt.Errorf("multiple columns interpreted as %s; use the column-name flags to disambiguate", canonical)
		}
		cm.Columns[i] = canonical
	}

	// Every flag-named column must exist in the header.
	for clean := range opt.Overrides {
		found := false
		for _, h := range headers {
			if CleanHeader(h) == clean {
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("could not find a column labeled %s (case-insensitive)", clean)
		}
	}

	if err := cm.chooseSigned(opt.Signed, lg); err != nil {
		return nil, err
	}

	lg.Println("Interpreting column names as follows:")
	var cols []int
	for i := range cm.Columns {
		cols = append(cols, i)
	}
	sort.Ints(cols)
	for _, i := range cols {
		canonical := cm.Columns[i]
		lg.Printf("%s: %s --> %s", headers[i], canonical, ColumnDescriptions[canonical])
	}

	return cm, cm.validate(opt, lg)
}

// chooseSigned selects the directional statistic. An explicit
// --signed-sumstats column wins; otherwise, when several candidates are
// present, the priority is OR, Z, BETA, LOG_ODDS.
func (cm *ColumnMap) chooseSigned(signed *SignedStat, lg *ldsc.Logger) error {
	if signed != nil {
		for i, c := range cm.Columns {
			switch c {
			case ColSigned:
				// keep
			case ColOR, ColZ, ColBeta, ColLogOdds:
				delete(cm.Columns, i)
			}
		}
		if !cm.Has(ColSigned) {
			return fmt.Errorf("could not find the --signed-sumstats column %s", signed.Column)
		}
		cm.Signed = ColSigned
		cm.SignedNull = signed.NullValue
		return nil
	}

	var present []string
	for _, c := range signedColumns {
		if cm.Has(c) {
			present = append(present, c)
		}
	}
	if len(present) == 0 {
		return nil
	}
	if len(present) > 1 {
		lg.Println("Multiple signed summary stats found: priority is OR, Z, BETA, LOG_ODDS. This can be adjusted with the --signed-sumstats flag.")
	}

	chosen := present[0]
	for i, c := range cm.Columns {
		if c != chosen {
			switch c {
			case ColOR, ColZ, ColBeta, ColLogOdds:
				delete(cm.Columns, i)
			}
		}
	}

	cm.Signed = chosen
	if chosen == ColOR {
		cm.SignedNull = 1
	}
	return nil
}

func (cm *ColumnMap) validate(opt ResolveOptions, lg *ldsc.Logger) error {
	haveN := cm.Has(ColN) ||
		opt.HaveNFlag ||
		opt.HaveCaseControlFlags ||
		(cm.Has(ColNCas) && cm.Has(ColNCon)) ||
		opt.Daner
	if !haveN {
		return fmt.Errorf("could not find an N / N_cas / N_con column and --N / --N-cas / --N-con are not set")
	}
	if !cm.Has(ColP) {
		return fmt.Errorf("could not find a p-value column")
	}
	if cm.Signed == "" {
		return fmt.Errorf("could not find a signed summary statistic column (Z, BETA, OR, LOG_ODDS)")
	}
	if !cm.Has(ColSNP) {
		return fmt.Errorf("could not find a SNP column")
	}
	if !opt.NoAlleles && (!cm.Has(ColA1) || !cm.Has(ColA2)) {
		return fmt.Errorf("could not find allele columns")
	}
	if !cm.Has(ColInfo) {
		lg.Println("WARNING: Could not find an INFO column. Note that imputation quality is a confounder for LD Score regression, and we recommend filtering on INFO > 0.9")
	}
	if !cm.Has(ColFrq) {
		lg.Println("Could not find a FRQ column. Note that we recommend filtering on MAF > 0.01")
	}
	return nil
}

// danerSampleSizes infers case and control counts from the FRQ_A_* and
// FRQ_U_* headers of a daner-format file, returning also the position
// of the FRQ_U column (which doubles as the allele frequency column).
func danerSampleSizes(headers []string) (ncas, ncon float64, frqUCol int, err error) {
	frqUCol = -1
	ncasFound, nconFound := false, false

	for i, h := range headers {
		if strings.HasPrefix(h, "FRQ_U_") && !nconFound {
			n, perr := strconv.ParseFloat(strings.TrimPrefix(h, "FRQ_U_"), 64)
			if perr != nil {
				return 0, 0, -1, fmt.Errorf("could not infer N_con from daner column %s", h)
			}
			ncon, frqUCol, nconFound = n, i, true
		}
		if strings.HasPrefix(h, "FRQ_A_") && !ncasFound {
			n, perr := strconv.ParseFloat(strings.TrimPrefix(h, "FRQ_A_"), 64)
			if perr != nil {
				return 0, 0, -1, fmt.Errorf("could not infer N_cas from daner column %s", h)
			}
			ncas, ncasFound = n, true
		}
	}

	if !ncasFound || !nconFound {
		return 0, 0, -1, fmt.Errorf("--daner requires FRQ_A_* and FRQ_U_* columns")
	}
	return ncas, ncon, frqUCol, nil
}
