package ldsc

import (
	"compress/bzip2"
	"compress/gzip"
	"compress/zlib"
	"io"
	"os"

	"github.com/krolaw/zipstream"
	"github.com/xi2/xz"
)

type DataType byte

const (
	DataTypeInvalid DataType = iota
	DataTypeNoCompression
	DataTypeGzip
	DataTypeZip
	DataTypeXZ
	DataTypeZ
	DataTypeBZip2
)

var byteCodeSigs = map[DataType][]byte{
	DataTypeGzip:  {0x1f, 0x8b, 0x08},
	DataTypeZip:   {0x50, 0x4b, 0x03, 0x04},
	DataTypeXZ:    {0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00},
	DataTypeZ:     {0x1f, 0x9d},
	DataTypeBZip2: {0x42, 0x5a, 0x68},
}

// DetectDataType attempts to detect the compression format of a stream
// by checking its leading bytes against a set of known signatures. GWAS
// summary statistics are distributed in a zoo of formats; relying on
// file suffixes alone misidentifies too many of them.
func DetectDataType(r io.Reader) (DataType, error) {
	buff := make([]byte, 6)
	if _, err := r.Read(buff); err != nil {
		return DataTypeInvalid, err
	}

	// Match known signatures
Outer:
	for dt, sig := range byteCodeSigs {
		for position := range sig {
			if buff[position] != sig[position] {
				continue Outer
			}
		}
		return dt, nil
	}

	return DataTypeNoCompression, nil
}

// MaybeDecompressReadCloserFromFile wraps f in the appropriate
// decompressor, if any is needed. If no known compression signature is
// found, the file itself is returned and is assumed to be plain text.
func MaybeDecompressReadCloserFromFile(f *os.File) (io.ReadCloser, error) {
	dt, err := DetectDataType(f)
	if err != nil {
		return nil, err
	}
	// Reset your original reader
	if _, err := f.Seek(0, 0); err != nil {
		return nil, err
	}

	switch dt {
	case DataTypeGzip:
		return gzip.NewReader(f)
	case DataTypeZip:
		return &readCloserFaker{zipstream.NewReader(f)}, nil
	case DataTypeBZip2:
		return &readCloserFaker{bzip2.NewReader(f)}, nil
	case DataTypeXZ:
		reader, err := xz.NewReader(f, 0)
		if err != nil {
			return nil, err
		}
		return &readCloserFaker{reader}, nil
	case DataTypeZ:
		return zlib.NewReader(f)
	}

	return f, nil
}

// OpenMaybeCompressed opens path (with ~ expansion) and transparently
// decompresses it. Closing the returned ReadCloser closes the
// underlying file as well.
func OpenMaybeCompressed(path string) (io.ReadCloser, error) {
	expanded, err := ExpandHome(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(expanded)
	if err != nil {
		return nil, err
	}

	rc, err := MaybeDecompressReadCloserFromFile(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	if rc == io.ReadCloser(f) {
		return f, nil
	}

	return &fileBackedReadCloser{ReadCloser: rc, file: f}, nil
}

// readCloserFaker "upgrades" readers that don't need to be closed
type readCloserFaker struct {
	io.Reader
}

func (c *readCloserFaker) Close() error {
	return nil
}

// fileBackedReadCloser closes both the decompressor and the file that
// backs it.
type fileBackedReadCloser struct {
	io.ReadCloser
	file *os.File
}

func (c *fileBackedReadCloser) Close() error {
	err := c.ReadCloser.Close()
	if ferr := c.file.Close(); err == nil {
		err = ferr
	}
	return err
}
