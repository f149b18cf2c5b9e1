package calendar

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"

	appLog "ddfmt/internal/log"
)

// Resets parses an iCalendar document and expands every recurring event into
// its occurrences within [from, to]. Non-recurring events are skipped.
func Resets(body []byte, from, to time.Time) ([]time.Time, error) {
	if len(body) == 0 {
		return nil, errors.New("calendar: empty body")
	}
	if to.Before(from) {
		return nil, errors.New("calendar: range ends before it starts")
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("calendar: parse: %w", err)
	}

	out := make([]time.Time, 0)
	for _, ev := range cal.Events() {
		prop := ev.GetProperty(ical.ComponentPropertyRrule)
		if prop == nil || prop.Value == "" {
			continue
		}
		start, err := ev.GetStartAt()
		if err != nil {
			appLog.Error("calendar: event without start", err, "uid", ev.Id())
			continue
		}

		r, err := rrule.StrToRRule(prop.Value)
		if err != nil {
			appLog.Error("calendar: failed to parse RRULE", err, "uid", ev.Id(), "rrule", prop.Value)
			continue
		}
		r.DTStart(start)

		for _, t := range r.Between(from, to, true) {
			out = append(out, t.UTC())
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out, nil
}
