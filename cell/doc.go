// Package cell provides Cell, a value that can be mutated through a shared
// pointer.
//
// Soundness rests on one rule: a Cell never hands out the address of its
// contents. Reads copy the value out and writes replace it whole, so there is
// never an outstanding reference for a write to invalidate.
//
// IMPORTANT: a Cell is intentionally NOT safe for concurrent use. It is meant
// to be owned by a single goroutine; there are no locks and no atomics. Share
// it across goroutines only behind your own synchronisation.
//
// Get copies with Go assignment semantics, which is a shallow copy. Store
// plain data (numbers, small structs of plain data, enums) to keep copy-out
// meaningful.
//
// Example:
//
//	c := cell.New(1)
//	c.Set(c.Get() + 1)
package cell
