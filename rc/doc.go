// Package rc provides Rc, a non-atomic reference-counted pointer.
//
// Every handle to one allocation shares a single inner block holding the
// payload and a count kept in a cell.Cell. Clone bumps the count and returns a
// new handle; Release is the handle's destructor. The release that observes a
// count of one frees the block: the payload is detached from all handles and,
// if it implements Dropper, its Drop method runs exactly once.
//
// Go has no destructors, so Release must be called explicitly, typically
// with defer. A tracing collector does not stand in for it: the count is the
// contract. Using a handle after its Release panics with ErrReleased.
//
// IMPORTANT: Rc is intentionally NOT safe for concurrent use. All handles of
// one allocation must be driven from a single goroutine at a time; the count
// is updated with a plain read-modify-write. Use separate allocations per
// goroutine or synchronise externally.
//
// Rc exposes its payload read-only. To share a mutable value, wrap a
// refcell.RefCell:
//
//	shared := rc.New(refcell.New(0))
//	defer shared.Release()
//	other := shared.Clone()
//	defer other.Release()
//	_ = other.Deref().WithMut(func(v *int) { *v++ })
package rc
