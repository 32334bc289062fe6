// Package source provides item declarations that feed registry population.
package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/randalmurphal/catalog/pkg/catalog/config"
)

// Source yields item declarations. Load is called once per population, so a
// registry that is reset picks up changes made to the source since.
// Implementations must be safe for concurrent use.
type Source interface {
	// Load returns every declaration in a stable order.
	Load(ctx context.Context) ([]Declaration, error)

	// Close releases any resources (connections, files).
	Close() error
}

// Declaration describes one item to build.
type Declaration struct {
	// Name is the primary lookup key.
	Name string
	// Aliases are additional lookup keys.
	Aliases []string
	// Kind selects the builder that turns the declaration into an item.
	Kind string
	// Attrs holds builder-specific settings.
	Attrs config.Config
}

// Keys returns Name followed by Aliases.
func (d Declaration) Keys() []string {
	keys := make([]string, 0, 1+len(d.Aliases))
	keys = append(keys, d.Name)
	return append(keys, d.Aliases...)
}

// Validate checks that the declaration can be built and registered.
func (d Declaration) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidDeclaration)
	}
	if d.Kind == "" {
		return fmt.Errorf("%w: kind is required for %s", ErrInvalidDeclaration, d.Name)
	}
	return nil
}

// Sentinel errors for source operations.
var (
	// ErrInvalidDeclaration indicates a declaration is missing required fields.
	ErrInvalidDeclaration = errors.New("invalid declaration")

	// ErrSourceClosed indicates the source has been closed.
	ErrSourceClosed = errors.New("source closed")
)

// ParseDeclarations reads the "items" list of a decoded configuration:
//
//	items:
//	  - name: memory
//	    aliases: [mem]
//	    kind: memory
//	    attrs:
//	      capacity: 128
func ParseDeclarations(cfg config.Config) ([]Declaration, error) {
	items := cfg.List("items")
	decls := make([]Declaration, 0, len(items))
	for i, item := range items {
		d := Declaration{
			Name:    item.String("name", ""),
			Aliases: item.StringSlice("aliases", nil),
			Kind:    item.String("kind", ""),
			Attrs:   item.Sub("attrs"),
		}
		if err := d.Validate(); err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		decls = append(decls, d)
	}
	return decls, nil
}
