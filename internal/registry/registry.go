package registry

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync/atomic"
)

// ErrFrozen is returned when Init is called on a registry that is already
// populated.
var ErrFrozen = errors.New("node type registry is already initialized")

// Registry holds the kind -> NodeType table for a compiler.
type Registry struct {
	kinds map[string]NodeType
	// frozen is set once Init has populated kinds. Readers load it before
	// touching the map, which orders their reads after the single write.
	frozen atomic.Bool
}

// New creates an empty, uninitialized Registry.
func New() *Registry {
	return &Registry{}
}

// NewDefault creates a Registry initialized with DefaultKinds.
func NewDefault() *Registry {
	r := New()
	if err := r.Init(DefaultKinds()); err != nil {
		// The default table is static, so this is a programmer error.
		panic(err)
	}
	return r
}

// Init populates the table. It may be called only once, and only from a
// single goroutine before the registry is shared.
func (r *Registry) Init(kinds map[string]NodeType) error {
	if r.frozen.Load() {
		return ErrFrozen
	}

	table := make(map[string]NodeType, len(kinds))
	for kind, t := range kinds {
		if kind == "" {
			return fmt.Errorf("node kind must not be empty")
		}
		if t == Unknown {
			return fmt.Errorf("node kind %q cannot be mapped to %s", kind, Unknown)
		}
		slog.Debug("Registering node kind.", "kind", kind, "type", t.String())
		table[kind] = t
	}

	r.kinds = table
	r.frozen.Store(true)
	return nil
}

// Initialized reports whether Init has completed.
func (r *Registry) Initialized() bool {
	return r.frozen.Load()
}

// Get returns the NodeType mapped to kind, or Unknown.
func (r *Registry) Get(kind string) NodeType {
	if !r.frozen.Load() {
		return Unknown
	}
	if t, ok := r.kinds[kind]; ok {
		return t
	}
	return Unknown
}

// Entry is a single row of the kind table.
type Entry struct {
	Kind string
	Type NodeType
}

// Kinds returns the table sorted by kind.
func (r *Registry) Kinds() []Entry {
	if !r.frozen.Load() {
		return nil
	}
	entries := make([]Entry, 0, len(r.kinds))
	for kind, t := range r.kinds {
		entries = append(entries, Entry{Kind: kind, Type: t})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Kind < entries[j].Kind })
	return entries
}
