package refcell_test

import (
	"fmt"

	"github.com/on-the-ground/interior_go/refcell"
)

func ExampleRefCell() {
	c := refcell.New(5)

	g1, _ := c.Borrow()
	g2, _ := c.Borrow()
	_, ok := c.BorrowMut()
	fmt.Println("writer while reading:", ok)
	g1.Release()
	g2.Release()

	g3, ok := c.BorrowMut()
	fmt.Println("writer when idle:", ok)
	g3.Set(10)
	g3.Release()

	g4 := c.MustBorrow()
	defer g4.Release()
	fmt.Println(g4.Get())
	// Output:
	// writer while reading: false
	// writer when idle: true
	// 10
}
