package helper

import (
	"fmt"
)

// As asserts v to T without panicking.
func As[T any](v any) (res T, ok bool) {
	if v == nil {
		return
	}
	res, ok = v.(T)
	return
}

// MustAs is the panic-on-failure variant of As.
func MustAs[T any](v any) T {
	res, ok := As[T](v)
	if !ok {
		panic(fmt.Errorf("unexpected type: %T", v))
	}
	return res
}

// Must returns v, or panics with err if it is non-nil.
// Use when failure should be fatal (e.g., a borrow the caller knows is free).
func Must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
