// Package report writes rendered model reports to disk.
package report

import (
	"bufio"
	"io"
	"os"
	"path/filepath"

	"github.com/YuminosukeSato/winequality/pkg/errors"
	"github.com/YuminosukeSato/winequality/pkg/log"
)

// DefaultPath is where the decision tree report lands when no path is configured.
const DefaultPath = "decision_tree_example.tex"

// Exporter renders a report body.
type Exporter interface {
	Export(w io.Writer) error
}

// ExporterFunc adapts a function to Exporter.
type ExporterFunc func(w io.Writer) error

// Export calls f(w).
func (f ExporterFunc) Export(w io.Writer) error { return f(w) }

type options struct {
	perm   os.FileMode
	logger log.Logger
}

// Option configures WriteFile.
type Option func(*options)

// WithPerm sets the mode of the written file. The default is 0644.
func WithPerm(perm os.FileMode) Option {
	return func(o *options) { o.perm = perm }
}

// WithLogger sets the logger used for the completion record.
func WithLogger(l log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WriteFile renders e into path. The body goes to a temporary file in the
// same directory which is synced and renamed over path, so path holds either
// its previous content or the complete new report.
func WriteFile(path string, e Exporter, opts ...Option) (err error) {
	o := options{perm: 0o644, logger: log.GetLogger()}
	for _, opt := range opts {
		opt(&o)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.NewIOError("create", path, err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	bw := bufio.NewWriter(tmp)
	if err = e.Export(bw); err != nil {
		return errors.NewIOError("render", path, err)
	}
	if err = bw.Flush(); err != nil {
		return errors.NewIOError("write", path, err)
	}
	if err = tmp.Chmod(o.perm); err != nil {
		return errors.NewIOError("chmod", path, err)
	}
	if err = tmp.Sync(); err != nil {
		return errors.NewIOError("sync", path, err)
	}
	if err = tmp.Close(); err != nil {
		return errors.NewIOError("close", path, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return errors.NewIOError("rename", path, err)
	}

	o.logger.Info("Report written",
		log.OperationKey, log.OperationReport,
		log.PathKey, path,
	)
	return nil
}
