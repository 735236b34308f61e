package dataset

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	scierrors "github.com/YuminosukeSato/winequality/pkg/errors"
)

const sampleCSV = "x1,x2,label\n1.0,2.0,0\n3.5, 4 ,1\n-1,0,2\n"

func gzipBytes(t *testing.T, s string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(s))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestReadCSV(t *testing.T) {
	m, err := ReadCSV(strings.NewReader(sampleCSV), true, ',')
	require.NoError(t, err)

	r, c := m.Dims()
	assert.Equal(t, 3, r, "rows = input rows - header")
	assert.Equal(t, 3, c, "cols = header field count")

	want := mat.NewDense(3, 3, []float64{
		1, 2, 0,
		3.5, 4, 1,
		-1, 0, 2,
	})
	assert.True(t, mat.Equal(want, m))
}

func TestReadCSVWithoutHeader(t *testing.T) {
	m, err := ReadCSV(strings.NewReader("1;2\n3;4\n"), false, ';')
	require.NoError(t, err)

	r, c := m.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 2, c)
	assert.Equal(t, 4.0, m.At(1, 1))
}

func TestReadCSVDecimalForms(t *testing.T) {
	m, err := ReadCSV(strings.NewReader("a,b,c,d\n+1.5e2,.5,-3.,1E-2\n"), true, ',')
	require.NoError(t, err)
	assert.Equal(t, []float64{150, 0.5, -3, 0.01}, mat.Row(nil, 0, m))
}

func TestReadCSVErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		check func(t *testing.T, err error)
	}{
		{
			name:  "ragged row",
			input: "a,b,c\n1,2,3\n4,5\n",
			check: func(t *testing.T, err error) {
				var fe *scierrors.FormatError
				require.True(t, scierrors.As(err, &fe))
				assert.Equal(t, 3, fe.Line)
				assert.Equal(t, 3, fe.Expected)
				assert.Equal(t, 2, fe.Got)
			},
		},
		{
			name:  "row wider than header",
			input: "a,b\n1,2,3\n",
			check: func(t *testing.T, err error) {
				var fe *scierrors.FormatError
				require.True(t, scierrors.As(err, &fe))
				assert.Equal(t, 2, fe.Line)
			},
		},
		{
			name:  "bare quote",
			input: "a,b\n1,2\"x\n",
			check: func(t *testing.T, err error) {
				var fe *scierrors.FormatError
				require.True(t, scierrors.As(err, &fe))
				assert.Equal(t, 2, fe.Line)
			},
		},
		{
			name:  "non-numeric field",
			input: "a,b,c\n1,2,3\n4,five,6\n",
			check: func(t *testing.T, err error) {
				var pe *scierrors.ParseError
				require.True(t, scierrors.As(err, &pe))
				assert.Equal(t, 3, pe.Line)
				assert.Equal(t, 2, pe.Column)
				assert.Equal(t, "five", pe.Field)
			},
		},
		{
			name:  "hex float",
			input: "a,b\n0x1p3,1\n",
			check: func(t *testing.T, err error) {
				var pe *scierrors.ParseError
				require.True(t, scierrors.As(err, &pe))
				assert.Equal(t, 2, pe.Line)
				assert.Equal(t, 1, pe.Column)
				assert.Equal(t, "0x1p3", pe.Field)
			},
		},
		{
			name:  "digit separator",
			input: "a,b\n1,1_0\n",
			check: func(t *testing.T, err error) {
				var pe *scierrors.ParseError
				require.True(t, scierrors.As(err, &pe))
				assert.Equal(t, 2, pe.Column)
				assert.Equal(t, "1_0", pe.Field)
			},
		},
		{
			name:  "empty input",
			input: "",
			check: func(t *testing.T, err error) {
				assert.True(t, scierrors.Is(err, scierrors.ErrEmptyData))
			},
		},
		{
			name:  "header only",
			input: "a,b,c\n",
			check: func(t *testing.T, err error) {
				var ee *scierrors.EmptyInputError
				assert.True(t, scierrors.As(err, &ee))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ReadCSV(strings.NewReader(tt.input), true, ',')
			require.Error(t, err)
			assert.Nil(t, m)
			tt.check(t, err)
		})
	}
}

func TestReadCSVGzipMatchesPlain(t *testing.T) {
	plain, err := ReadCSV(strings.NewReader(sampleCSV), true, ',')
	require.NoError(t, err)

	compressed, err := ReadCSVGzip(bytes.NewReader(gzipBytes(t, sampleCSV)), true, ',')
	require.NoError(t, err)

	assert.True(t, mat.Equal(plain, compressed))
}

func TestReadCSVGzipContentErrors(t *testing.T) {
	_, err := ReadCSVGzip(bytes.NewReader(gzipBytes(t, "a,b\n1,x\n")), true, ',')
	var pe *scierrors.ParseError
	require.True(t, scierrors.As(err, &pe), "content corruption stays a ParseError: %v", err)

	var de *scierrors.DecompressionError
	assert.False(t, scierrors.As(err, &de))
}

func TestReadCSVGzipCorruption(t *testing.T) {
	// Enough rows that the stream spans several reads.
	var sb strings.Builder
	sb.WriteString("a,b,c\n")
	for i := 0; i < 2000; i++ {
		sb.WriteString("1.25,2.5,3\n")
	}
	good := gzipBytes(t, sb.String())

	badChecksum := append([]byte(nil), good...)
	badChecksum[len(badChecksum)-8] ^= 0xff

	tests := []struct {
		name  string
		input []byte
	}{
		{name: "not gzip", input: []byte("a,b\n1,2\n")},
		{name: "empty stream", input: nil},
		{name: "truncated", input: good[:len(good)/2]},
		{name: "checksum mismatch", input: badChecksum},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSVGzip(bytes.NewReader(tt.input), true, ',')
			require.Error(t, err)

			var de *scierrors.DecompressionError
			assert.True(t, scierrors.As(err, &de), "want DecompressionError, got %v", err)
		})
	}
}

func TestReadCSVGzipTruncatedIsUnexpectedEOF(t *testing.T) {
	good := gzipBytes(t, sampleCSV)
	_, err := ReadCSVGzip(bytes.NewReader(good[:len(good)-4]), true, ',')
	require.Error(t, err)
	assert.True(t, scierrors.Is(err, io.ErrUnexpectedEOF), "got %v", err)
}

func TestIsGzip(t *testing.T) {
	assert.True(t, IsGzip(gzipBytes(t, sampleCSV)))
	assert.False(t, IsGzip([]byte(sampleCSV)))
	assert.False(t, IsGzip(nil))
}
