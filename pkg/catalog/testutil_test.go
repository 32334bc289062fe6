package catalog_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/randalmurphal/catalog/pkg/catalog"
)

// backend is the item type used throughout the tests.
type backend struct {
	id   string
	name string
}

// countingPopulator yields a fresh item per key on every call so tests can
// tell populations apart.
type countingPopulator struct {
	calls atomic.Int32
	keys  []string
}

func newCountingPopulator(keys ...string) *countingPopulator {
	return &countingPopulator{keys: keys}
}

func (p *countingPopulator) populate(_ context.Context) ([]catalog.Entry[string, *backend], error) {
	n := p.calls.Add(1)
	entries := make([]catalog.Entry[string, *backend], 0, len(p.keys))
	for _, k := range p.keys {
		entries = append(entries, catalog.Entry[string, *backend]{
			Item: &backend{id: k, name: fmt.Sprintf("%s#%d", k, n)},
			Keys: []string{k},
		})
	}
	return entries, nil
}

// recordingHooks records every hook call in order.
type recordingHooks struct {
	mu     sync.Mutex
	events []string

	// fail maps a hook name to the error it returns.
	fail map[string]error
}

func (h *recordingHooks) record(event, hook string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event)
	return h.fail[hook]
}

func (h *recordingHooks) Events() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.events))
	copy(out, h.events)
	return out
}

func (h *recordingHooks) OnPopulating(context.Context) error {
	return h.record("populating", "OnPopulating")
}

func (h *recordingHooks) OnPopulated(context.Context) error {
	return h.record("populated", "OnPopulated")
}

func (h *recordingHooks) OnItemRegistering(b *backend, _ []string) error {
	return h.record("registering:"+b.id, "OnItemRegistering")
}

func (h *recordingHooks) OnItemRegistered(b *backend, _ []string) error {
	return h.record("registered:"+b.id, "OnItemRegistered")
}

func (h *recordingHooks) OnItemUnregistering(b *backend, _ []string) error {
	return h.record("unregistering:"+b.id, "OnItemUnregistering")
}

func (h *recordingHooks) OnItemUnregistered(b *backend, _ []string) error {
	return h.record("unregistered:"+b.id, "OnItemUnregistered")
}

func (h *recordingHooks) OnResetting() error {
	return h.record("resetting", "OnResetting")
}

func (h *recordingHooks) OnReset() error {
	return h.record("reset", "OnReset")
}

var _ catalog.Hooks[string, *backend] = (*recordingHooks)(nil)

func (h *recordingHooks) setFail(hook string, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.fail == nil {
		h.fail = make(map[string]error)
	}
	h.fail[hook] = err
}

func (h *recordingHooks) reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = nil
}
