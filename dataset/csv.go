// Package dataset decodes numeric CSV tables into gonum matrices and turns
// them into labelled datasets that can be shuffled and split.
package dataset

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	scierrors "github.com/YuminosukeSato/winequality/pkg/errors"
)

// ReadCSV decodes a delimited numeric table from r.
//
// When hasHeaders is true the first record is skipped and its field count
// fixes the expected width. Every data row must have the same number of
// fields and every field must parse as a float64.
func ReadCSV(r io.Reader, hasHeaders bool, delimiter byte) (*mat.Dense, error) {
	cr := csv.NewReader(r)
	cr.Comma = rune(delimiter)
	// Widths are checked below so the error carries expected/got counts.
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	width := -1
	rows := 0
	var data []float64

	if hasHeaders {
		header, err := cr.Read()
		if err == io.EOF {
			return nil, scierrors.NewEmptyInputError("ReadCSV")
		}
		if err != nil {
			return nil, readError(err)
		}
		width = len(header)
	}

	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, readError(err)
		}

		line, _ := cr.FieldPos(0)
		if width < 0 {
			width = len(record)
		}
		if len(record) != width {
			return nil, scierrors.NewFormatError(line, width, len(record))
		}

		for col, field := range record {
			text := strings.TrimSpace(field)
			v, err := parseDecimal(text)
			if err != nil {
				return nil, scierrors.NewParseError(line, col+1, text, err)
			}
			data = append(data, v)
		}
		rows++
	}

	if rows == 0 || width == 0 {
		return nil, scierrors.NewEmptyInputError("ReadCSV")
	}
	return mat.NewDense(rows, width, data), nil
}

// parseDecimal parses a field in plain decimal notation. strconv also
// accepts Go literal forms such as 0x1p3 and 1_000, which are rejected here.
func parseDecimal(text string) (float64, error) {
	if i := strings.IndexAny(text, "xX_"); i >= 0 {
		return 0, scierrors.Newf("invalid character %q in decimal number", text[i])
	}
	return strconv.ParseFloat(text, 64)
}

// readError classifies an error returned by csv.Reader. Decompression
// failures from the underlying stream pass through untouched.
func readError(err error) error {
	var de *scierrors.DecompressionError
	if scierrors.As(err, &de) {
		return err
	}
	var pe *csv.ParseError
	if scierrors.As(err, &pe) {
		return scierrors.NewFormatErrorf(pe.Line, "%v", pe.Err)
	}
	return scierrors.Wrap(err, "ReadCSV")
}
