// Package calendar exports a week of deep dives as an iCalendar file and
// reads reset recurrences back from one.
package calendar

import (
	"errors"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"
	"github.com/teambition/rrule-go"

	"ddfmt/internal/model"
	"ddfmt/internal/report"
)

const productID = "-//ddfmt//Deep Dive schedule//EN"

// ExportOptions controls calendar generation.
type ExportOptions struct {
	// Stamp is written as DTSTAMP. Defaults to the window start so that the
	// same input always produces the same file.
	Stamp time.Time
}

// Export renders info as an iCalendar document with one event per deep dive
// spanning the window, plus a weekly recurring reset event.
func Export(info model.DeepDivesInfo, opts ExportOptions) ([]byte, error) {
	if info.End.Before(info.Start) {
		return nil, errors.New("calendar: window ends before it starts")
	}
	stamp := opts.Stamp
	if stamp.IsZero() {
		stamp = info.Start
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)

	addDive(cal, "deep-dive", "Deep Dive", info.DeepDive, info.DateRange, stamp)
	addDive(cal, "elite-deep-dive", "Elite Deep Dive", info.EliteDeepDive, info.DateRange, stamp)

	reset := cal.AddEvent(eventID("reset", info.End))
	reset.SetDtStampTime(stamp)
	reset.SetSummary("Deep Dive reset")
	reset.SetStartAt(info.End)
	reset.SetEndAt(info.End)
	reset.AddProperty(ical.ComponentPropertyRrule, WeeklyRule(info.End))

	return []byte(cal.Serialize()), nil
}

// WeeklyRule returns the RRULE value repeating every week on t's weekday.
func WeeklyRule(t time.Time) string {
	opt := rrule.ROption{
		Freq:      rrule.WEEKLY,
		Byweekday: []rrule.Weekday{weekdays[t.Weekday()]},
	}
	return opt.RRuleString()
}

var weekdays = [...]rrule.Weekday{
	time.Sunday:    rrule.SU,
	time.Monday:    rrule.MO,
	time.Tuesday:   rrule.TU,
	time.Wednesday: rrule.WE,
	time.Thursday:  rrule.TH,
	time.Friday:    rrule.FR,
	time.Saturday:  rrule.SA,
}

func addDive(cal *ical.Calendar, kind, title string, dive model.DeepDive, w model.DateRange, stamp time.Time) {
	ev := cal.AddEvent(eventID(kind, w.Start))
	ev.SetDtStampTime(stamp)
	ev.SetStartAt(w.Start)
	ev.SetEndAt(w.End)
	ev.SetSummary(title + ": " + dive.Codename)
	ev.SetLocation(dive.Biome.String())
	ev.SetDescription(report.Region(dive) + "\n" + strings.Join(report.StageLines(dive), "\n"))
}

// uidSpace namespaces event UIDs. UIDs are name-based: the same kind and
// day always yield the same UID.
var uidSpace = uuid.NewSHA1(uuid.NameSpaceDNS, []byte("ddfmt.invalid"))

func eventID(kind string, t time.Time) string {
	name := kind + "/" + t.UTC().Format("20060102")
	return uuid.NewSHA1(uidSpace, []byte(name)).String() + "@ddfmt"
}
