// Package model defines the weekly deep dive schedule and its document
// encoding. Documents are JSON, YAML or TOML with snake_case keys and the
// in-game display strings as enumeration tags.
package model

import "time"

// ResetHour is the UTC hour at which the weekly deep dives rotate. Dates read
// from a document are pinned to this hour.
const ResetHour = 11

// DeepDivesInfo is one week of deep dives: the date range plus the regular and
// the elite deep dive.
type DeepDivesInfo struct {
	DateRange

	DeepDive      DeepDive
	EliteDeepDive DeepDive
}

// DateRange is the week a schedule is valid for. Start is expected to be
// before End but this is not checked.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// DeepDive describes a single deep dive. Seed is opaque and only carried along.
type DeepDive struct {
	Codename string
	Biome    Biome
	Seed     uint64

	// Stages are ordered; index 0 is stage 1.
	Stages [3]Stage
}

// Stage is one mission of a deep dive. Anomaly and Warning are optional;
// NoAnomaly / NoWarning mark them absent.
type Stage struct {
	PrimaryObjective   PrimaryObjective
	SecondaryObjective SecondaryObjective
	Anomaly            Anomaly
	Warning            Warning
}

// AtResetHour returns the calendar date of t at ResetHour UTC.
func AtResetHour(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, ResetHour, 0, 0, 0, time.UTC)
}

// Date builds a reset-hour timestamp from a calendar date.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, ResetHour, 0, 0, 0, time.UTC)
}
