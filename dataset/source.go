package dataset

import (
	_ "embed"
	"os"

	scierrors "github.com/YuminosukeSato/winequality/pkg/errors"
)

//go:embed data/winequality-red.csv.gz
var embeddedWineQuality []byte

// DataSource supplies the raw bytes of a table, plain or gzip-compressed.
type DataSource interface {
	Bytes() ([]byte, error)
	// Name identifies the source in logs.
	Name() string
}

type embeddedSource struct{}

// Embedded returns the red wine quality table bundled with the binary.
func Embedded() DataSource { return embeddedSource{} }

func (embeddedSource) Bytes() ([]byte, error) { return embeddedWineQuality, nil }
func (embeddedSource) Name() string           { return "embedded:winequality-red.csv.gz" }

// IsEmbedded reports whether src is the bundled table.
func IsEmbedded(src DataSource) bool {
	_, ok := src.(embeddedSource)
	return ok
}

type fileSource struct{ path string }

// FileSource reads the table from path on every call to Bytes.
func FileSource(path string) DataSource { return fileSource{path: path} }

func (f fileSource) Bytes() ([]byte, error) {
	b, err := os.ReadFile(f.path)
	if err != nil {
		return nil, scierrors.NewIOError("read", f.path, err)
	}
	return b, nil
}

func (f fileSource) Name() string { return f.path }

type bytesSource []byte

// BytesSource serves b as-is.
func BytesSource(b []byte) DataSource { return bytesSource(b) }

func (b bytesSource) Bytes() ([]byte, error) { return b, nil }
func (b bytesSource) Name() string           { return "bytes" }
