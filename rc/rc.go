package rc

import (
	"errors"

	"github.com/google/uuid"
	"github.com/on-the-ground/interior_go/cell"
	"github.com/on-the-ground/interior_go/internal/invariant"
	"github.com/on-the-ground/interior_go/leak"
	"github.com/on-the-ground/interior_go/shared/helper"
	"github.com/on-the-ground/interior_go/shared/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var ErrReleased = errors.New("rc: use of released handle")

// Dropper is implemented by payloads that want to observe deallocation.
type Dropper interface {
	Drop()
}

type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// inner is the allocation shared by all handles. It is owned collectively:
// no single handle frees it except the one that takes the count to zero.
type inner[T any] struct {
	value    T
	refcount cell.Cell[uint]
	id       uuid.UUID
	tracker  *leak.Tracker
}

// Rc is one handle to a shared allocation. Always use it through a pointer;
// copying the struct does not create a new handle.
type Rc[T any] struct {
	_     noCopy
	inner *inner[T]
}

// New allocates value with a count of one and returns the first handle.
func New[T any](value T) *Rc[T] {
	return newRc(value, 1)
}

// skip counts frames between newRc and the caller to attribute the
// allocation site to.
func newRc[T any](value T, skip int) *Rc[T] {
	in := &inner[T]{value: value, id: uuid.New()}
	in.refcount.Set(1)

	if tracker := leak.Active(); tracker != nil {
		if err := tracker.Track(in.id, value, skip+1); err != nil {
			log.Error("failed to track allocation", zap.Error(err))
		} else {
			in.tracker = tracker
		}
	}
	in.debug("rc allocated", 1)
	return &Rc[T]{inner: in}
}

func (r *Rc[T]) live() *inner[T] {
	if r.inner == nil {
		panic(ErrReleased)
	}
	return r.inner
}

// Clone increments the count and returns a new handle to the same allocation.
func (r *Rc[T]) Clone() *Rc[T] {
	in := r.live()
	c := in.refcount.Get()
	in.refcount.Set(c + 1)
	in.debug("rc cloned", c+1)
	return &Rc[T]{inner: in}
}

// Deref returns the payload. The result is only meaningful while r is live;
// callers must not keep pointers reachable from it past r's Release.
func (r *Rc[T]) Deref() T {
	return r.live().value
}

// Release destroys this handle. The last handle frees the allocation.
func (r *Rc[T]) Release() {
	in := r.live()
	r.inner = nil

	switch c := in.refcount.Get(); c {
	case 0:
		invariant.Violated("rc %s released with a zero count", in.id)
	case 1:
		in.refcount.Set(0)
		value := in.detach()
		in.debug("rc freed", 0)
		drop(value)
	default:
		in.refcount.Set(c - 1)
		in.debug("rc released", c-1)
	}
}

// Released reports whether Release or IntoInner has been called on r.
func (r *Rc[T]) Released() bool {
	return r.inner == nil
}

// StrongCount returns the number of live handles to r's allocation.
func (r *Rc[T]) StrongCount() uint {
	return r.live().refcount.Get()
}

// ID identifies r's allocation. All clones share it.
func (r *Rc[T]) ID() uuid.UUID {
	return r.live().id
}

// IntoInner returns the payload if r is the only handle, releasing r without
// running Drop. Otherwise nothing changes and ok is false.
func (r *Rc[T]) IntoInner() (value T, ok bool) {
	in := r.live()
	if in.refcount.Get() != 1 {
		return value, false
	}
	r.inner = nil
	in.refcount.Set(0)
	in.debug("rc unwrapped", 0)
	return in.detach(), true
}

// PtrEq reports whether a and b are handles to the same allocation.
func PtrEq[T any](a, b *Rc[T]) bool {
	return a.live() == b.live()
}

// Scoped allocates value, passes the handle to fn and releases it when fn
// returns or panics, unless fn already consumed it.
func Scoped[T any](value T, fn func(*Rc[T])) {
	r := newRc(value, 1)
	defer func() {
		if !r.Released() {
			r.Release()
		}
	}()
	fn(r)
}

// detach moves the payload out of the allocation and forgets it.
func (in *inner[T]) detach() T {
	value := in.value
	var zero T
	in.value = zero

	if in.tracker != nil {
		if _, err := in.tracker.Untrack(in.id); err != nil {
			log.Error("failed to untrack allocation", zap.Error(err))
		}
		in.tracker = nil
	}
	return value
}

func (in *inner[T]) debug(msg string, count uint) {
	if !log.Enabled(zapcore.DebugLevel) {
		return
	}
	log.Debug(msg, zap.Stringer("id", in.id), zap.Uint("count", count))
}

func drop[T any](value T) {
	if d, ok := helper.As[Dropper](any(value)); ok {
		d.Drop()
	} else if d, ok := helper.As[Dropper](any(&value)); ok {
		d.Drop()
	}
}
