package sumstats

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"io"
	"strings"

	"github.com/carbocation/pfx"
	"github.com/pvtodorov/ldsc"
)

// Reader streams rows from a (possibly compressed) summary statistics
// file. Comma- and semicolon-delimited files are parsed as CSV; tab-
// and space-delimited files are split on runs of whitespace, which is
// how most GWAS consortia format their output.
type Reader struct {
	rc      io.ReadCloser
	br      *bufio.Reader
	csvr    *csv.Reader
	headers []string
}

// OpenReader opens path, sniffs compression and delimiter, and consumes
// the header row.
func OpenReader(path string) (*Reader, error) {
	rc, err := ldsc.OpenMaybeCompressed(path)
	if err != nil {
		return nil, pfx.Err(err)
	}

	br := bufio.NewReaderSize(rc, 1<<20)

	sample, err := br.Peek(64 << 10)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		rc.Close()
		return nil, pfx.Err(err)
	}

	r := &Reader{rc: rc, br: br}

	switch delim := ldsc.DetermineDelimiter(bytes.NewReader(sample)); delim {
	case ',', ';':
		r.csvr = csv.NewReader(br)
		r.csvr.Comma = delim
		r.csvr.LazyQuotes = true
		r.csvr.FieldsPerRecord = -1
	}

	headers, err := r.Next()
	if err != nil {
		rc.Close()
		return nil, pfx.Err(err)
	}
	r.headers = headers

	return r, nil
}

// Headers returns the header row.
func (r *Reader) Headers() []string {
	return r.headers
}

// Next returns the fields of the next data row, or io.EOF.
func (r *Reader) Next() ([]string, error) {
	if r.csvr != nil {
		return r.csvr.Read()
	}

	for {
		line, err := r.br.ReadString('\n')
		if err == io.EOF && len(strings.TrimSpace(line)) > 0 {
			return strings.Fields(line), nil
		} else if err != nil {
			return nil, err
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			// skip blank lines
			continue
		}
		return fields, nil
	}
}

// ReadChunk reads up to n rows, parsing each under the column map. A
// short (or empty) chunk signals the end of the file via io.EOF.
func (r *Reader) ReadChunk(cm *ColumnMap, n int) ([]Record, error) {
	capHint := n
	if capHint > 4096 {
		capHint = 4096
	}
	recs := make([]Record, 0, capHint)
	for len(recs) < n {
		row, err := r.Next()
		if err == io.EOF {
			return recs, io.EOF
		} else if err != nil {
			return recs, err
		}
		recs = append(recs, ParseRecord(cm, row))
	}
	return recs, nil
}

func (r *Reader) Close() error {
	return r.rc.Close()
}
