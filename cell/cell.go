package cell

// noCopy makes go vet's copylocks check flag copies of the embedding type.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Cell holds a single value of type T.
type Cell[T any] struct {
	_     noCopy
	value T
}

// New returns a cell holding value.
func New[T any](value T) *Cell[T] {
	return &Cell[T]{value: value}
}

// Set replaces the stored value.
func (c *Cell[T]) Set(value T) {
	c.value = value
}

// Get returns a copy of the stored value.
func (c *Cell[T]) Get() T {
	return c.value
}

// Replace stores value and returns the previous one.
func (c *Cell[T]) Replace(value T) T {
	old := c.value
	c.value = value
	return old
}

// Take returns the stored value and leaves the zero value in its place.
func (c *Cell[T]) Take() T {
	var zero T
	return c.Replace(zero)
}

// Update copies the value out, applies fn and stores the result, which is
// also returned. fn only ever sees a copy.
func (c *Cell[T]) Update(fn func(T) T) T {
	next := fn(c.value)
	c.value = next
	return next
}

// Swap exchanges the values of c and other. Swapping a cell with itself is a
// no-op.
func (c *Cell[T]) Swap(other *Cell[T]) {
	if c == other {
		return
	}
	c.value, other.value = other.value, c.value
}
