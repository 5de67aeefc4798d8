package cell_test

import (
	"testing"

	"github.com/on-the-ground/interior_go/cell"
	"github.com/stretchr/testify/require"
)

func TestCell_SetThroughSharedPointer(t *testing.T) {
	c := cell.New(5)
	alias := c

	alias.Set(7)
	require.Equal(t, 7, c.Get())

	c.Set(c.Get() + 1)
	require.Equal(t, 8, alias.Get())
}

func TestCell_GetReturnsCopy(t *testing.T) {
	type point struct{ X, Y int }
	c := cell.New(point{1, 2})

	p := c.Get()
	p.X = 100
	require.Equal(t, point{1, 2}, c.Get(), "mutating a copy must not reach the cell")
}

func TestCell_ReplaceAndTake(t *testing.T) {
	c := cell.New("a")

	require.Equal(t, "a", c.Replace("b"))
	require.Equal(t, "b", c.Get())

	require.Equal(t, "b", c.Take())
	require.Equal(t, "", c.Get())
}

func TestCell_Update(t *testing.T) {
	c := cell.New(uint(1))

	got := c.Update(func(n uint) uint { return n * 10 })
	require.Equal(t, uint(10), got)
	require.Equal(t, uint(10), c.Get())
}

func TestCell_Swap(t *testing.T) {
	a, b := cell.New(1), cell.New(2)

	a.Swap(b)
	require.Equal(t, 2, a.Get())
	require.Equal(t, 1, b.Get())

	a.Swap(a)
	require.Equal(t, 2, a.Get())
}
