package leak

import (
	"fmt"
	"runtime"
	"sort"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"github.com/on-the-ground/interior_go/shared/helper"
	"github.com/on-the-ground/interior_go/shared/log"
	"github.com/rickb777/date/v2/timespan"
	"go.uber.org/zap"
)

// Record describes one live allocation.
type Record struct {
	ID       string
	Site     uint64 // xxhash of Location; 0 when sites are not captured
	Location string
	TypeName string
	Since    time.Time
}

// Lifetime is the span from allocation to now.
func (r Record) Lifetime(now time.Time) timespan.TimeSpan {
	return timespan.BetweenTimes(r.Since, now)
}

// Tracker records live allocations.
type Tracker struct {
	cfg   Config
	store recordStore
	count atomic.Int64
}

func NewTracker(cfg Config) (*Tracker, error) {
	store, err := newRecordStore()
	if err != nil {
		return nil, fmt.Errorf("failed to create record store: %w", err)
	}
	return &Tracker{cfg: cfg, store: store}, nil
}

// SiteKey hashes an allocation location the same way Track does.
func SiteKey(location string) uint64 {
	if location == "" {
		return 0
	}
	return xxhash.Sum64String(location)
}

// Track registers the allocation id holding value. skip is the number of
// frames between Track and the allocating caller, not counting Track itself.
func (t *Tracker) Track(id uuid.UUID, value any, skip int) error {
	rec := &Record{
		ID:       id.String(),
		TypeName: fmt.Sprintf("%T", value),
		Since:    time.Now(),
	}
	if t.cfg.CaptureSite {
		if _, file, line, ok := runtime.Caller(1 + skip + t.cfg.SkipFrames); ok {
			rec.Location = fmt.Sprintf("%s:%d", file, line)
			rec.Site = SiteKey(rec.Location)
		}
	}
	if err := t.store.insert(rec); err != nil {
		return fmt.Errorf("failed to track allocation %s: %w", rec.ID, err)
	}
	t.count.Add(1)
	return nil
}

// Untrack forgets id. It reports false for ids that were never tracked.
func (t *Tracker) Untrack(id uuid.UUID) (bool, error) {
	deleted, err := t.store.delete(id.String())
	if err != nil {
		return false, fmt.Errorf("failed to untrack allocation %s: %w", id, err)
	}
	if deleted {
		t.count.Add(-1)
	}
	return deleted, nil
}

// Count returns the number of live tracked allocations.
func (t *Tracker) Count() int {
	return int(t.count.Load())
}

// Live returns every live record, oldest first.
func (t *Tracker) Live() ([]Record, error) {
	return t.sorted(t.store.list(idIndex))
}

func (t *Tracker) LiveBySite(site uint64) ([]Record, error) {
	return t.sorted(t.store.list(siteIndex, site))
}

func (t *Tracker) LiveByType(typeName string) ([]Record, error) {
	return t.sorted(t.store.list(typeIndex, typeName))
}

func (t *Tracker) sorted(recs []Record, err error) ([]Record, error) {
	if err != nil {
		return nil, err
	}
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Since.Before(recs[j].Since)
	})
	return recs, nil
}

var active atomic.Pointer[Tracker]

// Active returns the installed tracker, or nil when tracking is off.
func Active() *Tracker {
	return active.Load()
}

// Enable installs a fresh tracker and returns a function that reinstalls the
// previous one.
func Enable(cfg Config) (disable func()) {
	tracker := helper.Must(NewTracker(cfg))
	prev := active.Swap(tracker)
	log.Debug("leak tracking enabled", zap.Bool("captureSite", cfg.CaptureSite))

	return func() {
		active.Store(prev)
		log.Debug("leak tracking disabled", zap.Int("live", tracker.Count()))
	}
}
