// Package schedule computes the weekly deep dive rotation from a cron spec.
package schedule

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"ddfmt/internal/model"
)

// lookback bounds the search for the previous reset. It covers any cadence
// up to monthly.
const lookback = 35 * 24 * time.Hour

// Reset is a rotation cadence such as "every Thursday at 11:00 UTC".
type Reset struct {
	spec  string
	sched cron.Schedule
	loc   *time.Location
}

// ParseReset parses a standard 5-field cron spec (or a descriptor like
// "@weekly") evaluated in the named IANA timezone. An empty timezone means UTC.
func ParseReset(spec, timezone string) (*Reset, error) {
	loc := time.UTC
	if timezone != "" {
		var err error
		if loc, err = time.LoadLocation(timezone); err != nil {
			return nil, fmt.Errorf("schedule: timezone %q: %w", timezone, err)
		}
	}

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	sched, err := parser.Parse(spec)
	if err != nil {
		return nil, fmt.Errorf("schedule: reset spec %q: %w", spec, err)
	}
	return &Reset{spec: spec, sched: sched, loc: loc}, nil
}

func (r *Reset) String() string { return r.spec + " (" + r.loc.String() + ")" }

// Next returns the first reset strictly after t, in UTC.
func (r *Reset) Next(t time.Time) time.Time {
	return r.sched.Next(t.In(r.loc)).UTC()
}

// Prev returns the last reset at or before t, or the zero time when none
// happened within the lookback.
func (r *Reset) Prev(t time.Time) time.Time {
	var prev time.Time
	for n := r.Next(t.Add(-lookback)); !n.IsZero() && !n.After(t); n = r.Next(n) {
		prev = n
	}
	return prev
}

// WindowAt returns the rotation window containing t.
func (r *Reset) WindowAt(t time.Time) model.DateRange {
	return model.DateRange{Start: r.Prev(t), End: r.Next(t)}
}

// Upcoming returns n consecutive windows, starting with the one containing t.
func (r *Reset) Upcoming(t time.Time, n int) []model.DateRange {
	out := make([]model.DateRange, 0, n)
	w := r.WindowAt(t)
	for i := 0; i < n; i++ {
		out = append(out, w)
		w = model.DateRange{Start: w.End, End: r.Next(w.End)}
	}
	return out
}

// Stale reports whether the window has already ended at now.
func Stale(w model.DateRange, now time.Time) bool {
	return !now.Before(w.End)
}

// Aligned reports whether w spans exactly one rotation of r.
func (r *Reset) Aligned(w model.DateRange) bool {
	return r.Prev(w.Start).Equal(w.Start) && r.Next(w.Start).Equal(w.End)
}
