// Package ldscore reads LD score files and the manifests that point at
// them. LD scores are distributed as per-chromosome whitespace tables
// (<prefix><chr>.l2.ldscore.gz) alongside .l2.M_5_50 normalization
// counts; a prefix containing @ stands for all 22 autosomes.
package ldscore

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/carbocation/pfx"
	"github.com/pvtodorov/ldsc"
	"github.com/pvtodorov/ldsc/sumstats"
)

// autosomes is the number of chromosomes an @-templated prefix expands
// to.
const autosomes = 22

// Scores holds LD scores for a set of SNPs across one or more
// annotation columns.
type Scores struct {
	// ColumnNames are the annotation column names, in file order.
	ColumnNames []string

	// Order preserves the SNP order of the source files.
	Order []string

	values map[string][]float64
}

// Lookup returns the score vector for a SNP.
func (s *Scores) Lookup(snp string) ([]float64, bool) {
	v, ok := s.values[snp]
	return v, ok
}

// NumColumns returns the number of annotation columns.
func (s *Scores) NumColumns() int {
	return len(s.ColumnNames)
}

// Len returns the number of SNPs with scores.
func (s *Scores) Len() int {
	return len(s.Order)
}

// ExpandPrefix resolves an @-templated LD score prefix into the
// concrete per-chromosome prefixes, or returns it unchanged when it is
// not templated.
func ExpandPrefix(prefix string) []string {
	if !strings.Contains(prefix, "@") {
		return []string{prefix}
	}

	out := make([]string, 0, autosomes)
	for chr := 1; chr <= autosomes; chr++ {
		out = append(out, strings.ReplaceAll(prefix, "@", strconv.Itoa(chr)))
	}
	return out
}

// ReadPrefix reads the LD score table(s) for a prefix, concatenating
// chromosomes. Both gzipped and plain files are accepted; the gzipped
// name is tried first.
func ReadPrefix(prefix string) (*Scores, error) {
	s := &Scores{values: make(map[string][]float64)}

	for _, p := range ExpandPrefix(prefix) {
		if err := s.readFile(p + ".l2.ldscore"); err != nil {
			return nil, fmt.Errorf("reading LD scores for %s: %w", prefix, err)
		}
	}

	if s.Len() == 0 {
		return nil, fmt.Errorf("no SNPs found in LD scores for %s", prefix)
	}
	return s, nil
}

func (s *Scores) readFile(base string) error {
	r, err := sumstats.OpenReader(base + ".gz")
	if err != nil {
		if r, err = sumstats.OpenReader(base); err != nil {
			return pfx.Err(err)
		}
	}
	defer r.Close()

	headers := r.Headers()
	snpCol := -1
	var scoreCols []int
	var names []string
	for i, h := range headers {
		clean := sumstats.CleanHeader(h)
		switch {
		case clean == "SNP":
			snpCol = i
		case strings.HasSuffix(clean, "L2"):
			scoreCols = append(scoreCols, i)
			names = append(names, h)
		}
	}
	if snpCol < 0 {
		return fmt.Errorf("%s: no SNP column", base)
	}
	if len(scoreCols) == 0 {
		return fmt.Errorf("%s: no L2 columns", base)
	}

	if s.ColumnNames == nil {
		s.ColumnNames = names
	} else if len(names) != len(s.ColumnNames) {
		return fmt.Errorf("%s: %d L2 columns, but earlier chromosomes had %d", base, len(names), len(s.ColumnNames))
	}

	for {
		row, err := r.Next()
		if err != nil {
			break
		}

		snp := row[snpCol]
		vals := make([]float64, len(scoreCols))
		ok := true
		for j, col := range scoreCols {
			if col >= len(row) {
				ok = false
				break
			}
			v, perr := strconv.ParseFloat(row[col], 64)
			if perr != nil {
				ok = false
				break
			}
			vals[j] = v
		}
		if !ok {
			continue
		}

		if _, dup := s.values[snp]; dup {
			continue
		}
		s.values[snp] = vals
		s.Order = append(s.Order, snp)
	}

	return nil
}

// ReadM reads the per-annotation SNP counts (.l2.M_5_50 by default)
// alongside an LD score prefix, summing across chromosomes.
func ReadM(prefix, suffix string) ([]float64, error) {
	var total []float64

	for _, p := range ExpandPrefix(prefix) {
		rc, err := ldsc.OpenMaybeCompressed(p + suffix)
		if err != nil {
			return nil, pfx.Err(err)
		}

		contents, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, pfx.Err(err)
		}

		fields := strings.Fields(string(contents))
		if total == nil {
			total = make([]float64, len(fields))
		} else if len(fields) != len(total) {
			return nil, fmt.Errorf("%s%s: %d annotations, but earlier chromosomes had %d", p, suffix, len(fields), len(total))
		}

		for i, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("%s%s: %v", p, suffix, err)
			}
			total[i] += v
		}
	}

	return total, nil
}
