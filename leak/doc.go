// Package leak tracks live rc allocations so that tests and programs can
// check that every allocation was released exactly once.
//
// Tracking is off by default. Enable installs a process-wide Tracker; from
// then on every rc.New registers its allocation and the release that frees it
// unregisters it. Allocations made while tracking was off are never reported.
//
// Unlike the primitives it watches, a Tracker is safe for concurrent use:
// independent allocations may live on different goroutines.
//
// Example:
//
//	func TestNoLeaks(t *testing.T) {
//	    defer leak.Enable(leak.NewConfig(true, 0))()
//	    // ... exercise code ...
//	    leak.VerifyNone(t, leak.Active())
//	}
package leak
