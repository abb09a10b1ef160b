package sumstats

import "strings"

// Allele is a single-base allele call (A, C, G, or T once validated).
type Allele string

// Valid reports whether the allele is a single A/C/G/T base. Anything
// else (indels, multi-base variants, missing codes) is excluded from
// LD Score regression input.
func (a Allele) Valid() bool {
	switch a {
	case "A", "C", "G", "T":
		return true
	}
	return false
}

// Complement returns the reverse-strand base.
func (a Allele) Complement() Allele {
	switch a {
	case "A":
		return "T"
	case "T":
		return "A"
	case "C":
		return "G"
	case "G":
		return "C"
	}
	return a
}

// Upper normalizes the allele to uppercase.
func (a Allele) Upper() Allele {
	return Allele(strings.ToUpper(string(a)))
}

// StrandAmbiguous reports whether the allele pair reads the same on
// both strands (A/T or C/G). Such SNPs cannot be reliably matched
// across studies and are removed.
func StrandAmbiguous(a1, a2 Allele) bool {
	return a1 == a2.Complement()
}

// MatchAlleles reports whether the allele pair (inc, dec) from one
// dataset describes the same variant as the pair (a1, a2) from another,
// allowing for a reference flip, a strand flip, or both.
func MatchAlleles(inc, dec, a1, a2 Allele) bool {
	if !inc.Valid() || !dec.Valid() || !a1.Valid() || !a2.Valid() {
		return false
	}
	if StrandAmbiguous(inc, dec) || StrandAmbiguous(a1, a2) {
		return false
	}

	// Same pair, or reference flip
	if (inc == a1 && dec == a2) || (inc == a2 && dec == a1) {
		return true
	}

	// Strand flip, with or without reference flip
	fi, fd := inc.Complement(), dec.Complement()
	return (fi == a1 && fd == a2) || (fi == a2 && fd == a1)
}
