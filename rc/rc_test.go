package rc_test

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/on-the-ground/interior_go/leak"
	"github.com/on-the-ground/interior_go/rc"
	"github.com/on-the-ground/interior_go/refcell"
	"github.com/on-the-ground/interior_go/shared/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// dropCounter counts how many times the payload was freed.
type dropCounter struct {
	value int
	drops *int
}

func (d dropCounter) Drop() {
	*d.drops++
}

type byPointer struct {
	drops int
}

func (b *byPointer) Drop() {
	b.drops++
}

func requireReleasedPanic(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected panic")
		err, ok := r.(error)
		require.True(t, ok)
		require.True(t, errors.Is(err, rc.ErrReleased))
	}()
	fn()
}

func TestRc_CloneAndReleaseScenario(t *testing.T) {
	drops := 0
	rc1 := rc.New(dropCounter{value: 42, drops: &drops})
	rc2 := rc1.Clone()

	assert.Equal(t, 42, rc1.Deref().value)
	assert.Equal(t, 42, rc2.Deref().value)
	assert.Equal(t, uint(2), rc2.StrongCount())
	assert.True(t, rc.PtrEq(rc1, rc2))

	rc1.Release()
	require.Equal(t, 0, drops, "payload must survive while rc2 is live")
	require.Equal(t, 42, rc2.Deref().value)
	require.Equal(t, uint(1), rc2.StrongCount())

	rc2.Release()
	require.Equal(t, 1, drops)
}

func TestRc_DropsExactlyOnceAfterLastRelease(t *testing.T) {
	const n = 10
	drops := 0
	first := rc.New(dropCounter{value: 7, drops: &drops})

	handles := []*rc.Rc[dropCounter]{first}
	for i := 1; i < n; i++ {
		handles = append(handles, handles[i-1].Clone())
	}
	require.Equal(t, uint(n), first.StrongCount())

	for i, h := range handles {
		require.Equal(t, 0, drops, "dropped before release %d", i)
		require.Equal(t, 7, h.Deref().value)
		h.Release()
	}
	require.Equal(t, 1, drops)
}

func TestRc_RandomCloneReleaseSequences(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))

	for round := 0; round < 200; round++ {
		drops := 0
		live := []*rc.Rc[dropCounter]{rc.New(dropCounter{value: round, drops: &drops})}

		for len(live) > 0 {
			require.Equal(t, 0, drops)
			require.Equal(t, uint(len(live)), live[0].StrongCount())

			i := rnd.Intn(len(live))
			if rnd.Intn(2) == 0 && len(live) < 16 {
				live = append(live, live[i].Clone())
				continue
			}
			require.Equal(t, round, live[i].Deref().value)
			live[i].Release()
			live = append(live[:i], live[i+1:]...)
		}
		require.Equal(t, 1, drops, "round %d", round)
	}
}

func TestRc_PointerReceiverDropper(t *testing.T) {
	payload := &byPointer{}
	r := rc.New(payload)
	r.Clone().Release()
	require.Zero(t, payload.drops)

	r.Release()
	require.Equal(t, 1, payload.drops)
}

func TestRc_UseAfterRelease(t *testing.T) {
	r := rc.New(1)
	other := r.Clone()
	r.Release()

	require.True(t, r.Released())
	require.False(t, other.Released())

	requireReleasedPanic(t, func() { r.Deref() })
	requireReleasedPanic(t, func() { r.Clone() })
	requireReleasedPanic(t, func() { r.Release() })
	requireReleasedPanic(t, func() { r.StrongCount() })
	requireReleasedPanic(t, func() { rc.PtrEq(r, other) })

	require.Equal(t, uint(1), other.StrongCount(), "misuse must not touch the count")
	other.Release()
}

func TestRc_IDSharedByClones(t *testing.T) {
	a := rc.New("x")
	b := a.Clone()
	c := rc.New("x")
	defer a.Release()
	defer b.Release()
	defer c.Release()

	require.Equal(t, a.ID(), b.ID())
	require.NotEqual(t, a.ID(), c.ID())
	require.False(t, rc.PtrEq(a, c))
}

func TestRc_IntoInner(t *testing.T) {
	drops := 0
	r := rc.New(dropCounter{value: 3, drops: &drops})
	other := r.Clone()

	_, ok := r.IntoInner()
	require.False(t, ok, "shared allocation cannot be unwrapped")
	require.False(t, r.Released())

	other.Release()
	v, ok := r.IntoInner()
	require.True(t, ok)
	require.Equal(t, 3, v.value)
	require.True(t, r.Released())
	require.Zero(t, drops, "unwrapping hands the payload back instead of dropping it")
}

func TestScoped(t *testing.T) {
	drops := 0
	rc.Scoped(dropCounter{value: 1, drops: &drops}, func(r *rc.Rc[dropCounter]) {
		c := r.Clone()
		defer c.Release()
		require.Equal(t, uint(2), r.StrongCount())
	})
	require.Equal(t, 1, drops)

	rc.Scoped(dropCounter{value: 1, drops: &drops}, func(r *rc.Rc[dropCounter]) {
		r.Release()
	})
	require.Equal(t, 2, drops, "scope must not release a consumed handle twice")

	require.Panics(t, func() {
		rc.Scoped(dropCounter{value: 1, drops: &drops}, func(*rc.Rc[dropCounter]) {
			panic("boom")
		})
	})
	require.Equal(t, 3, drops)
}

func TestRc_SharedRefCell(t *testing.T) {
	owner := rc.New(refcell.New(5))
	other := owner.Clone()

	require.NoError(t, other.Deref().WithMut(func(v *int) { *v = 10 }))

	g, ok := owner.Deref().Borrow()
	require.True(t, ok)
	require.Equal(t, 10, g.Get())

	_, ok = other.Deref().BorrowMut()
	require.False(t, ok, "borrow state is shared through every handle")
	g.Release()

	owner.Release()
	other.Release()
}

func TestRc_LeakTracking(t *testing.T) {
	defer leak.Enable(leak.NewConfig(true, 0))()
	tracker := leak.Active()

	a := rc.New(1)
	b := a.Clone()
	c := rc.New("s")
	require.Equal(t, 2, tracker.Count(), "clones share one allocation")

	live, err := tracker.Live()
	require.NoError(t, err)
	for _, rec := range live {
		require.Contains(t, rec.Location, "rc_test.go")
	}

	a.Release()
	b.Release()
	require.Equal(t, 1, tracker.Count())

	_, ok := c.IntoInner()
	require.True(t, ok)
	leak.VerifyNone(t, tracker)

	var site string
	rc.Scoped(2.5, func(*rc.Rc[float64]) {
		recs, err := tracker.LiveByType("float64")
		require.NoError(t, err)
		require.Len(t, recs, 1)
		site = recs[0].Location
	})
	require.Contains(t, site, "rc_test.go")
	leak.VerifyNone(t, tracker)
}

func TestRc_DebugLogging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	defer log.SetLogger(zap.New(core))()

	r := rc.New(1)
	r.Clone().Release()
	r.Release()

	messages := make([]string, 0, logs.Len())
	for _, e := range logs.All() {
		messages = append(messages, e.Message)
	}
	require.Equal(t, []string{"rc allocated", "rc cloned", "rc released", "rc freed"}, messages)
	require.Equal(t, uint64(0), logs.FilterMessage("rc freed").All()[0].ContextMap()["count"])
}
