package leak

import (
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

var ErrLeaked = errors.New("allocation still live")

type Leak struct {
	ID       string        `yaml:"id"`
	TypeName string        `yaml:"type"`
	Location string        `yaml:"location,omitempty"`
	Site     uint64        `yaml:"site,omitempty"`
	Since    time.Time     `yaml:"since"`
	Age      time.Duration `yaml:"age"`
}

type Report struct {
	TakenAt time.Time `yaml:"takenAt"`
	Leaks   []Leak    `yaml:"leaks"`
}

// Snapshot reports every live allocation at the time of the call.
func (t *Tracker) Snapshot() (Report, error) {
	recs, err := t.Live()
	if err != nil {
		return Report{}, err
	}
	now := time.Now()
	report := Report{TakenAt: now, Leaks: make([]Leak, 0, len(recs))}
	for _, rec := range recs {
		report.Leaks = append(report.Leaks, Leak{
			ID:       rec.ID,
			TypeName: rec.TypeName,
			Location: rec.Location,
			Site:     rec.Site,
			Since:    rec.Since,
			Age:      rec.Lifetime(now).Duration(),
		})
	}
	return report, nil
}

// Err folds every leak into one error, nil when there are none.
func (r Report) Err() error {
	var err error
	for _, l := range r.Leaks {
		where := l.Location
		if where == "" {
			where = "unknown site"
		}
		err = multierr.Append(err, fmt.Errorf("%w: %s %s allocated at %s", ErrLeaked, l.TypeName, l.ID, where))
	}
	return err
}

func (r Report) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("failed to encode leak report: %w", err)
	}
	return enc.Close()
}

// TestingT is the subset of testing.TB used by VerifyNone.
type TestingT interface {
	Helper()
	Errorf(format string, args ...any)
}

// VerifyNone fails t for every allocation tracker still holds. A nil tracker
// passes.
func VerifyNone(t TestingT, tracker *Tracker) {
	t.Helper()
	if tracker == nil {
		return
	}
	report, err := tracker.Snapshot()
	if err != nil {
		t.Errorf("leak snapshot failed: %v", err)
		return
	}
	for _, err := range multierr.Errors(report.Err()) {
		t.Errorf("%v", err)
	}
}
