// Package alloc issues storage identities for values produced during code
// emission.
//
// Two storage classes exist. Temporaries are reusable slots whose lifetime is
// bounded by the construct being compiled: they are handed out by AllocTemp
// and returned by FreeTemp. Globals live as long as the compiled program and
// are never reclaimed; AllocGlobal hands out strictly increasing identifiers.
//
// Slots are fungible. The allocator does not know how large a slot is or what
// type it holds; that is decided by the emission backend.
package alloc

import (
	"errors"
	"fmt"
	"sync/atomic"
)

// ErrTempNotLive is returned when a handle that is not currently allocated is
// released. This covers double frees and handles that were never issued.
var ErrTempNotLive = errors.New("temporary is not live")

// TempVar is a handle to a reusable storage slot. The zero value is never
// issued.
type TempVar int

// String renders the handle as it appears in emitted code and logs.
func (t TempVar) String() string {
	return fmt.Sprintf("t%d", int(t))
}

// GlobalID identifies a program-lifetime storage slot. NoGlobal is reserved.
type GlobalID uint64

// NoGlobal means "no global".
const NoGlobal GlobalID = 0

// String renders the identifier as it appears in emitted code and logs.
func (g GlobalID) String() string {
	return fmt.Sprintf("g%d", uint64(g))
}

// Allocator hands out temporaries and globals for one compiler instance. It is
// not safe for concurrent use apart from AllocGlobal.
type Allocator struct {
	// free is a LIFO stack of released slots, so the most recently freed slot
	// is reused first.
	free []TempVar
	// live records every handle between AllocTemp and FreeTemp.
	live map[TempVar]struct{}
	// slots is the number of distinct slots ever created.
	slots int
	// globals holds the last issued global identifier.
	globals atomic.Uint64
}

// New creates an empty Allocator.
func New() *Allocator {
	return &Allocator{
		live: make(map[TempVar]struct{}),
	}
}

// AllocTemp returns a free slot, creating one if the pool is empty.
func (a *Allocator) AllocTemp() TempVar {
	var t TempVar
	if n := len(a.free); n > 0 {
		t = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		a.slots++
		t = TempVar(a.slots)
	}
	a.live[t] = struct{}{}
	return t
}

// FreeTemp returns t to the pool. Releasing a handle that is not live is a
// contract violation; it is reported as ErrTempNotLive and leaves the pool
// untouched.
func (a *Allocator) FreeTemp(t TempVar) error {
	if _, ok := a.live[t]; !ok {
		return fmt.Errorf("free %s: %w", t, ErrTempNotLive)
	}
	delete(a.live, t)
	a.free = append(a.free, t)
	return nil
}

// IsLive reports whether t is currently allocated.
func (a *Allocator) IsLive(t TempVar) bool {
	_, ok := a.live[t]
	return ok
}

// Live returns the number of allocated temporaries.
func (a *Allocator) Live() int {
	return len(a.live)
}

// Slots returns the number of distinct temporary slots created so far.
func (a *Allocator) Slots() int {
	return a.slots
}

// AllocGlobal returns the next global identifier. The first call returns 1.
func (a *Allocator) AllocGlobal() GlobalID {
	return GlobalID(a.globals.Add(1))
}

// Globals returns the last issued global identifier, or NoGlobal.
func (a *Allocator) Globals() GlobalID {
	return GlobalID(a.globals.Load())
}

// Reset forgets every temporary and restarts global numbering.
func (a *Allocator) Reset() {
	a.free = nil
	a.live = make(map[TempVar]struct{})
	a.slots = 0
	a.globals.Store(0)
}
