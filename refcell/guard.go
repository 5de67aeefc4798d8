package refcell

import (
	"github.com/on-the-ground/interior_go/internal/invariant"
)

// Ref is a read guard. It holds a non-owning back-reference to its cell for
// the duration of the borrow.
type Ref[T any] struct {
	_    noCopy
	cell *RefCell[T]
}

func (g *Ref[T]) live() *RefCell[T] {
	if g.cell == nil {
		panic(ErrReleasedGuard)
	}
	return g.cell
}

// Get returns a copy of the borrowed value.
func (g *Ref[T]) Get() T {
	return g.live().value
}

// Clone returns another read guard on the same cell.
func (g *Ref[T]) Clone() *Ref[T] {
	c := g.live()
	s := c.state.Get()
	if s.kind != Shared || s.readers < 1 {
		invariant.Violated("read guard cloned while %s", s)
	}
	c.state.Set(sharedBy(s.readers + 1))
	return &Ref[T]{cell: c}
}

// Release ends the borrow: Shared(1) becomes Unshared, Shared(n) becomes
// Shared(n-1).
func (g *Ref[T]) Release() {
	c := g.live()
	g.cell = nil

	switch s := c.state.Get(); s.kind {
	case Shared:
		switch {
		case s.readers == 1:
			c.state.Set(state{})
		case s.readers > 1:
			c.state.Set(sharedBy(s.readers - 1))
		default:
			invariant.Violated("read guard released while %s", s)
		}
	case Unshared, Exclusive:
		invariant.Violated("read guard released while %s", s)
	default:
		panic("exhaustive match")
	}
}

// Released reports whether Release has been called.
func (g *Ref[T]) Released() bool {
	return g.cell == nil
}

// RefMut is the write guard.
type RefMut[T any] struct {
	_    noCopy
	cell *RefCell[T]
}

func (g *RefMut[T]) live() *RefCell[T] {
	if g.cell == nil {
		panic(ErrReleasedGuard)
	}
	return g.cell
}

// Get returns a copy of the borrowed value.
func (g *RefMut[T]) Get() T {
	return g.live().value
}

// Set replaces the borrowed value.
func (g *RefMut[T]) Set(value T) {
	g.live().value = value
}

// Update gives fn in-place access to the value. fn must not retain v.
func (g *RefMut[T]) Update(fn func(v *T)) {
	fn(&g.live().value)
}

// Release ends the borrow: Exclusive becomes Unshared.
func (g *RefMut[T]) Release() {
	c := g.live()
	g.cell = nil

	switch s := c.state.Get(); s.kind {
	case Exclusive:
		c.state.Set(state{})
	case Unshared, Shared:
		invariant.Violated("write guard released while %s", s)
	default:
		panic("exhaustive match")
	}
}

func (g *RefMut[T]) Released() bool {
	return g.cell == nil
}
