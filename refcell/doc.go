// Package refcell provides RefCell, a value whose borrows are checked at run
// time instead of compile time.
//
// A RefCell is always in one of three borrow states:
//
//   - Unshared: no guards exist.
//   - Shared(n): n read guards (Ref) exist and no write guard.
//   - Exclusive: exactly one write guard (RefMut) exists.
//
// Borrow and BorrowMut attempt a transition and return a guard on success.
// A conflicting request is not a failure of the cell: the caller gets no
// guard and must handle that. Releasing a guard performs the inverse
// transition. A guard that finds the cell in a state inconsistent with its
// own existence panics, because the bookkeeping every access relies on is
// then corrupt.
//
// Guards are the only way to reach the value. They must be released, usually
// with defer, and must not be used after Release or outlive the cell.
//
// IMPORTANT: RefCell is intentionally NOT safe for concurrent use. It is an
// advisory single-goroutine read-write lock; the state is a plain value held
// in a cell.Cell. For cross-goroutine sharing use sync.RWMutex.
//
// Example:
//
//	c := refcell.New(5)
//	w, ok := c.BorrowMut()
//	if ok {
//	    w.Set(10)
//	    w.Release()
//	}
package refcell
