// Package invariant reports broken internal invariants.
//
// A violation means the bookkeeping of a primitive is corrupt. Nothing that
// relied on that bookkeeping can be trusted afterwards, so the only response
// is to log and panic.
package invariant

import (
	"errors"
	"fmt"

	"github.com/on-the-ground/interior_go/shared/log"
	"go.uber.org/zap"
)

var ErrViolation = errors.New("invariant violation")

// Violated logs the violation and panics with an error wrapping ErrViolation.
func Violated(format string, args ...any) {
	err := fmt.Errorf("%w: %s", ErrViolation, fmt.Sprintf(format, args...))
	log.Error("invariant violated", zap.Error(err), zap.Stack("stack"))
	panic(err)
}
