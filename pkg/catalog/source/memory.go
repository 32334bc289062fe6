package source

import (
	"context"
	"slices"
	"sync"
)

// MemorySource holds declarations added in code.
type MemorySource struct {
	mu     sync.RWMutex
	decls  []Declaration
	closed bool
}

// NewMemorySource creates a source holding decls.
func NewMemorySource(decls ...Declaration) (*MemorySource, error) {
	m := &MemorySource{}
	if err := m.Put(decls...); err != nil {
		return nil, err
	}
	return m, nil
}

// Put adds declarations. A declaration whose Name is already present
// replaces the existing one in place.
func (m *MemorySource) Put(decls ...Declaration) error {
	for _, d := range decls {
		if err := d.Validate(); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrSourceClosed
	}

	for _, d := range decls {
		d.Aliases = slices.Clone(d.Aliases)
		i := slices.IndexFunc(m.decls, func(e Declaration) bool { return e.Name == d.Name })
		if i >= 0 {
			m.decls[i] = d
			continue
		}
		m.decls = append(m.decls, d)
	}
	return nil
}

// Delete removes the declaration with the given name.
// Returns nil if it doesn't exist.
func (m *MemorySource) Delete(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrSourceClosed
	}
	m.decls = slices.DeleteFunc(m.decls, func(d Declaration) bool { return d.Name == name })
	return nil
}

// Load implements Source.
func (m *MemorySource) Load(_ context.Context) ([]Declaration, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrSourceClosed
	}

	out := make([]Declaration, len(m.decls))
	for i, d := range m.decls {
		d.Aliases = slices.Clone(d.Aliases)
		out[i] = d
	}
	return out, nil
}

// Len returns the number of declarations.
func (m *MemorySource) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.decls)
}

// Close implements Source.
func (m *MemorySource) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.decls = nil
	return nil
}
