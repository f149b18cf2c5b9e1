// Package report renders a week of deep dives into the chat post.
package report

import (
	"fmt"
	"strings"
	"time"

	"ddfmt/internal/model"
)

const banner = ":Deep_Dive:"

// Render returns the full post for info. It is deterministic: the only
// time-dependent part is the reset marker, computed from info.End.
func Render(info model.DeepDivesInfo) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Weekly schedule information for **%s to %s**.\n",
		info.Start.Format(time.DateOnly), info.End.Format(time.DateOnly))
	fmt.Fprintf(&b, "Deep Dives will reset in **%s**\n\n", ResetMarker(info.End))

	writeDive(&b, "DEEP DIVE", info.DeepDive)
	b.WriteString("\n")
	writeDive(&b, "ELITE DEEP DIVE", info.EliteDeepDive)
	b.WriteString("\n")

	return b.String()
}

// ResetMarker is a Discord relative timestamp, shown to each reader as
// "in 3 days" and so on.
func ResetMarker(t time.Time) string {
	return fmt.Sprintf("<t:%d:R>", t.Unix())
}

func writeDive(b *strings.Builder, title string, dive model.DeepDive) {
	fmt.Fprintf(b, "%s **%s** %s\n", banner, title, banner)
	b.WriteString(Region(dive))
	b.WriteString("\n")
	for _, line := range StageLines(dive) {
		b.WriteString(line)
		b.WriteString("\n")
	}
}

// Region is the "Region: ... | Code Name: ..." line of a deep dive.
func Region(dive model.DeepDive) string {
	return fmt.Sprintf("Region: **%s** | Code Name: **%s**", dive.Biome, dive.Codename)
}

// StageLines returns one line per stage, numbered from 1.
func StageLines(dive model.DeepDive) []string {
	lines := make([]string, len(dive.Stages))
	for i, s := range dive.Stages {
		lines[i] = fmt.Sprintf("Stage %d: %s | %s", i+1, Objectives(s), Mutators(s))
	}
	return lines
}

// Objectives renders "**primary** + **secondary**".
func Objectives(s model.Stage) string {
	return fmt.Sprintf("**%s** + **%s**", s.PrimaryObjective.Emoji(), s.SecondaryObjective.Emoji())
}

// Mutators renders the anomaly and warning of a stage, anomaly first, or
// "**No Mutator**" when the stage has neither.
func Mutators(s model.Stage) string {
	switch {
	case s.Anomaly != model.NoAnomaly && s.Warning != model.NoWarning:
		return fmt.Sprintf("**%s** **%s**", s.Anomaly.Emoji(), s.Warning.Emoji())
	case s.Anomaly != model.NoAnomaly:
		return "**" + s.Anomaly.Emoji() + "**"
	case s.Warning != model.NoWarning:
		return "**" + s.Warning.Emoji() + "**"
	default:
		return "**No Mutator**"
	}
}
