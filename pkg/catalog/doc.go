/*
Package catalog provides lazily populated, concurrency-safe registries of
named extension points such as "available backends" or "available field
types".

# Overview

A Registry maps one or more lookup keys to each registered item. It starts
empty and unpopulated; the first access runs a caller-supplied Populator
exactly once and commits the yielded items. Items can be registered and
unregistered afterwards, and Reset empties the registry so the next access
populates it again.

All mutating operations on one registry (Populate, Register, Unregister,
Reset) are serialized by a single gate. Reads of a populated registry are
lock-free: the contents are an immutable snapshot replaced atomically on
every change, so a reader sees either the state before a mutation or the
state after it, never a mix.

# Basic Usage

	type Backend struct {
	    ID   string
	    Name string
	}

	memory := &Backend{ID: "memory", Name: "In-memory"}
	disk := &Backend{ID: "disk", Name: "Local disk"}

	backends := catalog.New(catalog.Static(
	    catalog.Entry[string, *Backend]{Item: memory, Keys: []string{memory.ID, memory.Name}},
	    catalog.Entry[string, *Backend]{Item: disk, Keys: []string{disk.ID, disk.Name}},
	), catalog.WithName("backends"))

	b, err := backends.Get(ctx, "disk") // populates on first use
	if errors.Is(err, catalog.ErrItemLookup) {
	    // fall back to a default
	}

Construct each registry once at startup and pass it to the code that needs
it. Call Prewarm during startup so the first request does not pay for
population.

# Population

Populate is idempotent. When several goroutines call it on an unpopulated
registry, one runs the Populator and the rest wait for it. If the Populator
fails, the registry goes back to unpopulated, the goroutine that ran it gets
a *PopulateError, and the waiting goroutines retry population themselves.

Populators can be written by hand, built with Static, or loaded from data
with FromSource, which reads declarations from a source.Source (memory,
YAML/JSON file, SQLite) and builds items with a factory.Table.

# Hooks

Hooks observe every mutation: OnPopulating, OnPopulated, OnItemRegistering,
OnItemRegistered, OnItemUnregistering, OnItemUnregistered, OnResetting and
OnReset. Embed NopHooks and override what you need, then install them with
WithHooks. A hook that returns an error (or panics) aborts the operation and
the registry is restored to its prior contents.

Hooks run while the gate is owned. Calling Register, Unregister, Reset or
Populate on the same registry from a hook blocks forever, as does calling
Get from a populate or reset hook. Hooks read with Peek and PeekItems, which
return the committed contents without populating.

# Concurrent Registration

Registering the same item under exactly the same keys twice succeeds both
times, so goroutines racing to make the same registration all succeed.
Conflicting registrations fail with *DuplicateKeyError, and unregistering an
item that another goroutine already removed fails with
*ItemNotRegisteredError.

# Errors

Every error kind unwraps to a sentinel so callers can branch on it:

	ErrDuplicateKey      *DuplicateKeyError
	ErrAlreadyRegistered *AlreadyRegisteredError
	ErrItemNotRegistered *ItemNotRegisteredError
	ErrItemLookup        *ItemLookupError
	ErrPopulate          *PopulateError (also unwraps to the populator's error)
	ErrNoKeys

# Observability

WithLogger enables slog logging of populations and mutations. WithMetrics and
WithTracing enable OpenTelemetry metrics (catalog.populate.count,
catalog.populate.latency_ms, catalog.mutations, catalog.lookups, ...) and a
catalog.populate span using the global providers.
*/
package catalog
