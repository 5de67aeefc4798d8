package refcell

import (
	"errors"
	"fmt"

	"github.com/on-the-ground/interior_go/cell"
	"github.com/on-the-ground/interior_go/shared/helper"
	"github.com/on-the-ground/interior_go/shared/log"
	"go.uber.org/zap"
)

var (
	ErrBorrowConflict = errors.New("refcell: borrow conflict")

	// ErrAlreadyBorrowed is returned by TryBorrowMut while any guard exists.
	ErrAlreadyBorrowed = fmt.Errorf("%w: already borrowed", ErrBorrowConflict)

	// ErrAlreadyMutablyBorrowed is returned by TryBorrow while a write guard
	// exists.
	ErrAlreadyMutablyBorrowed = fmt.Errorf("%w: already mutably borrowed", ErrBorrowConflict)

	ErrReleasedGuard = errors.New("refcell: use of released guard")
)

type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// RefCell owns a value of type T and tracks the guards borrowed from it.
type RefCell[T any] struct {
	_     noCopy
	value T
	state cell.Cell[state]
}

// New returns an Unshared cell holding value.
func New[T any](value T) *RefCell[T] {
	return &RefCell[T]{value: value}
}

// Borrow returns a read guard, or false while a write guard exists.
func (c *RefCell[T]) Borrow() (*Ref[T], bool) {
	switch s := c.state.Get(); s.kind {
	case Unshared:
		c.state.Set(sharedBy(1))
	case Shared:
		c.state.Set(sharedBy(s.readers + 1))
	case Exclusive:
		log.Debug("refcell borrow refused", zap.Stringer("state", s))
		return nil, false
	default:
		panic("exhaustive match")
	}
	return &Ref[T]{cell: c}, true
}

// BorrowMut returns a write guard, or false while any guard exists.
func (c *RefCell[T]) BorrowMut() (*RefMut[T], bool) {
	if s := c.state.Get(); s.kind != Unshared {
		log.Debug("refcell mutable borrow refused", zap.Stringer("state", s))
		return nil, false
	}
	c.state.Set(state{kind: Exclusive})
	return &RefMut[T]{cell: c}, true
}

// TryBorrow is Borrow with the refusal reported as ErrAlreadyMutablyBorrowed.
func (c *RefCell[T]) TryBorrow() (*Ref[T], error) {
	if g, ok := c.Borrow(); ok {
		return g, nil
	}
	return nil, ErrAlreadyMutablyBorrowed
}

// TryBorrowMut is BorrowMut with the refusal reported as ErrAlreadyBorrowed.
func (c *RefCell[T]) TryBorrowMut() (*RefMut[T], error) {
	if g, ok := c.BorrowMut(); ok {
		return g, nil
	}
	return nil, ErrAlreadyBorrowed
}

// MustBorrow panics where Borrow would refuse.
func (c *RefCell[T]) MustBorrow() *Ref[T] {
	return helper.Must(c.TryBorrow())
}

// MustBorrowMut panics where BorrowMut would refuse.
func (c *RefCell[T]) MustBorrowMut() *RefMut[T] {
	return helper.Must(c.TryBorrowMut())
}

// State reports the current borrow state and, for Shared, the reader count.
func (c *RefCell[T]) State() (Kind, int) {
	s := c.state.Get()
	return s.kind, s.readers
}

// With runs fn with a read guard's copy of the value.
func (c *RefCell[T]) With(fn func(T)) error {
	g, err := c.TryBorrow()
	if err != nil {
		return err
	}
	defer g.Release()
	fn(g.Get())
	return nil
}

// WithMut runs fn with write access to the value. fn must not retain v.
func (c *RefCell[T]) WithMut(fn func(v *T)) error {
	g, err := c.TryBorrowMut()
	if err != nil {
		return err
	}
	defer g.Release()
	g.Update(fn)
	return nil
}

// Replace stores value and returns the previous one. It panics if the cell
// is borrowed.
func (c *RefCell[T]) Replace(value T) T {
	g := c.MustBorrowMut()
	defer g.Release()
	old := g.Get()
	g.Set(value)
	return old
}

func (c *RefCell[T]) String() string {
	if c.state.Get().kind == Exclusive {
		return "RefCell{<borrowed>}"
	}
	return fmt.Sprintf("RefCell{%v}", c.value)
}
