package ldscore

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/carbocation/pfx"
	"github.com/pvtodorov/ldsc"
)

// CellType is one entry of a cell-type LD score manifest: a name and
// the LD score prefix(es) whose annotation columns are regressed
// together.
type CellType struct {
	Name     string
	Prefixes []string
}

// ReadManifest parses a --ref-ld-chr-cts manifest: one cell type per
// line, name first, then a comma-separated list of @-templated LD score
// prefixes.
func ReadManifest(path string) ([]CellType, error) {
	expanded, err := ldsc.ExpandHome(path)
	if err != nil {
		return nil, err
	}

	rc, err := ldsc.OpenMaybeCompressed(expanded)
	if err != nil {
		return nil, pfx.Err(err)
	}
	defer rc.Close()

	var out []CellType
	seen := make(map[string]struct{})

	scanner := bufio.NewScanner(rc)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 2 {
			return nil, fmt.Errorf("%s: each line must be a cell type name and a comma-separated prefix list, got %q", path, scanner.Text())
		}

		name := fields[0]
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("%s: duplicate cell type %s", path, name)
		}
		seen[name] = struct{}{}

		out = append(out, CellType{Name: name, Prefixes: strings.Split(fields[1], ",")})
	}
	if err := scanner.Err(); err != nil {
		return nil, pfx.Err(err)
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("%s: no cell types found", path)
	}
	return out, nil
}
