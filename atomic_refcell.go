package shipyard

import "sync/atomic"

// AtomicRefCell provides runtime-checked shared/exclusive borrow arbitration over a value of type
// T, the same safety surface as a thread-safe RefCell with optional affinity flags. A single
// atomic word encodes the borrow state: 0 means unborrowed, a positive value N means N live
// shared borrows, -1 means one live exclusive borrow. There is no spinning anywhere in this type;
// every denial is an immediate error.
//
// Go has no portable, public notion of "current OS thread" the way the source project's
// thread-affinity flags assume, so affinity here is approximated with a caller-supplied opaque
// token compared for equality rather than true thread identity (see SPEC_FULL.md §4.6).
type AtomicRefCell[T any] struct {
	value    T
	borrows  atomic.Int32
	affinity any
	sync     bool
}

// NewAtomicRefCell wraps value in a borrow cell. A nil affinity means the cell has no
// goroutine-affinity restriction at all (the common case for ordinary component storages). When
// affinity is non-nil, exclusive borrows are only granted to that exact token; sync additionally
// controls whether shared borrows from a different token are allowed.
func NewAtomicRefCell[T any](value T, affinity any, sync bool) *AtomicRefCell[T] {
	return &AtomicRefCell[T]{value: value, affinity: affinity, sync: sync}
}

func (c *AtomicRefCell[T]) affinityOK(caller any, forExclusive bool) bool {
	if c.affinity == nil {
		return true
	}
	if caller == c.affinity {
		return true
	}
	if !forExclusive && c.sync {
		return true
	}
	return false
}

// TryBorrow attempts a shared borrow on behalf of caller (an opaque affinity token; pass nil if
// the cell has no affinity restriction). It never blocks.
func (c *AtomicRefCell[T]) TryBorrow(caller any) (*Ref[T], error) {
	if !c.affinityOK(caller, false) {
		return nil, BorrowError{Kind: WrongGoroutine}
	}
	for {
		cur := c.borrows.Load()
		if cur < 0 {
			return nil, BorrowError{Kind: Shared}
		}
		if c.borrows.CompareAndSwap(cur, cur+1) {
			return &Ref[T]{cell: c}, nil
		}
	}
}

// TryBorrowMut attempts an exclusive borrow on behalf of caller. It never blocks.
func (c *AtomicRefCell[T]) TryBorrowMut(caller any) (*RefMut[T], error) {
	if !c.affinityOK(caller, true) {
		return nil, BorrowError{Kind: WrongGoroutine}
	}
	if !c.borrows.CompareAndSwap(0, -1) {
		return nil, BorrowError{Kind: Exclusive}
	}
	return &RefMut[T]{cell: c}, nil
}

func (c *AtomicRefCell[T]) releaseShared() {
	c.borrows.Add(-1)
}

func (c *AtomicRefCell[T]) releaseExclusive() {
	c.borrows.Store(0)
}

// Ref is a live shared borrow. Release must be called exactly once, when the caller is done
// reading through it.
type Ref[T any] struct {
	cell     *AtomicRefCell[T]
	released bool
}

// Get returns a pointer to the borrowed value, valid until Release is called.
func (r *Ref[T]) Get() *T {
	return &r.cell.value
}

// Release ends the shared borrow. Calling it more than once is a no-op.
func (r *Ref[T]) Release() {
	if r.released {
		return
	}
	r.released = true
	r.cell.releaseShared()
}

// RefMut is a live exclusive borrow. Release must be called exactly once, when the caller is done
// mutating through it.
type RefMut[T any] struct {
	cell     *AtomicRefCell[T]
	released bool
}

// Get returns a pointer to the borrowed value, valid until Release is called.
func (r *RefMut[T]) Get() *T {
	return &r.cell.value
}

// Release ends the exclusive borrow. Calling it more than once is a no-op.
func (r *RefMut[T]) Release() {
	if r.released {
		return
	}
	r.released = true
	r.cell.releaseExclusive()
}
