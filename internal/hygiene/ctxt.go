package hygiene

import (
	"fmt"
	"sync"
	"sync/atomic"

	"fortio.org/safecast"
)

// Ctxt is an opaque, totally ordered lexical context.
type Ctxt uint32

// Root is the context of unresolved (global) names and the root of the tree.
const Root Ctxt = 0

// IsRoot reports whether c is the root context.
func (c Ctxt) IsRoot() bool { return c == Root }

func (c Ctxt) String() string {
	return fmt.Sprintf("#%d", uint32(c))
}

// Allocator mints contexts. The zero value is not usable; call NewAllocator.
type Allocator struct {
	next atomic.Uint32

	mu      sync.RWMutex
	parents map[Ctxt]Ctxt
}

// NewAllocator returns an allocator whose first minted context is 1.
func NewAllocator() *Allocator {
	return &Allocator{parents: make(map[Ctxt]Ctxt, 64)}
}

// Fresh mints a new context below parent.
func (a *Allocator) Fresh(parent Ctxt) Ctxt {
	n := a.next.Add(1)
	if n == 0 {
		panic("hygiene: context counter overflow")
	}
	c := Ctxt(n)
	a.mu.Lock()
	a.parents[c] = parent
	a.mu.Unlock()
	return c
}

// Parent returns the parent of c. The parent of Root is Root.
func (a *Allocator) Parent(c Ctxt) Ctxt {
	if c == Root {
		return Root
	}
	a.mu.RLock()
	p, ok := a.parents[c]
	a.mu.RUnlock()
	if !ok {
		panic(fmt.Errorf("hygiene: context %v was not minted by this allocator", c))
	}
	return p
}

// IsDescendant reports whether c equals ancestor or lies below it.
func (a *Allocator) IsDescendant(c, ancestor Ctxt) bool {
	for {
		if c == ancestor {
			return true
		}
		if c == Root {
			return false
		}
		c = a.Parent(c)
	}
}

// Len reports how many contexts have been minted so far.
func (a *Allocator) Len() int {
	n, err := safecast.Conv[int](a.next.Load())
	if err != nil {
		panic(fmt.Errorf("hygiene: %w", err))
	}
	return n
}
