package source

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/randalmurphal/catalog/pkg/catalog/config"
)

// FileSource reads declarations from a YAML or JSON file. The file is read
// on every Load, so edits take effect at the next population.
type FileSource struct {
	path   string
	closed atomic.Bool
}

// NewFileSource creates a source for path. The file is not read until Load.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Path returns the file path.
func (f *FileSource) Path() string {
	return f.path
}

// Load implements Source.
func (f *FileSource) Load(ctx context.Context) ([]Declaration, error) {
	if f.closed.Load() {
		return nil, ErrSourceClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cfg, err := config.FromFile(f.path)
	if err != nil {
		return nil, err
	}
	decls, err := ParseDeclarations(cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.path, err)
	}
	return decls, nil
}

// Close implements Source.
func (f *FileSource) Close() error {
	f.closed.Store(true)
	return nil
}
