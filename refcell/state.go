package refcell

import "fmt"

// Kind is the variant of a borrow state.
type Kind uint8

const (
	Unshared Kind = iota
	Shared
	Exclusive
)

func (k Kind) String() string {
	switch k {
	case Unshared:
		return "Unshared"
	case Shared:
		return "Shared"
	case Exclusive:
		return "Exclusive"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// state is the runtime borrow record. readers is only meaningful for Shared
// and is always at least one there. The zero value is Unshared.
type state struct {
	kind    Kind
	readers int
}

func sharedBy(n int) state {
	return state{kind: Shared, readers: n}
}

func (s state) String() string {
	if s.kind == Shared {
		return fmt.Sprintf("Shared(%d)", s.readers)
	}
	return s.kind.String()
}
