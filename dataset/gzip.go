package dataset

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/gzip"
	"gonum.org/v1/gonum/mat"

	scierrors "github.com/YuminosukeSato/winequality/pkg/errors"
)

var gzipMagic = []byte{0x1f, 0x8b}

// IsGzip reports whether b starts with the gzip magic number.
func IsGzip(b []byte) bool {
	return bytes.HasPrefix(b, gzipMagic)
}

// ReadCSVGzip decodes a gzip-compressed CSV table. It has the same contract
// as ReadCSV; any failure of the compressed framing, at open time or while
// streaming, is reported as a DecompressionError.
func ReadCSVGzip(r io.Reader, hasHeaders bool, delimiter byte) (*mat.Dense, error) {
	const op = "ReadCSVGzip"

	zr, err := gzip.NewReader(r)
	if err != nil {
		return nil, scierrors.NewDecompressionError(op, err)
	}
	defer zr.Close()

	return ReadCSV(&decompressReader{r: zr, op: op}, hasHeaders, delimiter)
}

// decompressReader tags every non-EOF read error as a DecompressionError so
// ReadCSV can tell transport corruption from content corruption.
type decompressReader struct {
	r  io.Reader
	op string
}

func (d *decompressReader) Read(p []byte) (int, error) {
	n, err := d.r.Read(p)
	if err != nil && err != io.EOF {
		err = scierrors.NewDecompressionError(d.op, err)
	}
	return n, err
}
