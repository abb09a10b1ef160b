package ldsc

import (
	"io"

	"github.com/csimplestring/go-csv/detector"
)

// DetermineDelimiter returns the single most likely rune that would
// delimit the values in the reader, assuming a CSV-like file. Summary
// statistics files that fail detection are treated as
// whitespace-delimited, which the zero value signals.
func DetermineDelimiter(r io.Reader) rune {
	d := detector.New()
	delimiters := d.DetectDelimiter(r, '"')

	if len(delimiters) > 0 {
		return rune(delimiters[0][0])
	}

	return 0
}
