package model

import "time"

// Example returns the week of 2023-07-06 as a sample document for users to
// copy and edit.
func Example() DeepDivesInfo {
	return DeepDivesInfo{
		DateRange: DateRange{
			Start: Date(2023, time.July, 6),
			End:   Date(2023, time.July, 13),
		},
		DeepDive: DeepDive{
			Codename: "High Contact",
			Biome:    GlacialStrata,
			Seed:     3116029769,
			Stages: [3]Stage{
				{
					PrimaryObjective:   Primary(OnSiteRefining),
					SecondaryObjective: Secondary(SecondaryMorkite),
				},
				{
					PrimaryObjective:   Primary(MiningExpedition200),
					SecondaryObjective: Secondary(SecondaryEggs),
					Warning:            RegenerativeBugs,
				},
				{
					PrimaryObjective:   Primary(IndustrialSabotage),
					SecondaryObjective: Secondary(SecondaryMiniMules),
					Warning:            ExploderInfestation,
				},
			},
		},
		EliteDeepDive: DeepDive{
			Codename: "Uncovered Arm",
			Biome:    MagmaCore,
			Seed:     1688014532,
			Stages: [3]Stage{
				{
					PrimaryObjective:   Primary(MiningExpedition200),
					SecondaryObjective: Secondary(SecondaryBlackBox),
				},
				{
					PrimaryObjective:   Primary(PointExtraction10),
					SecondaryObjective: Secondary(SecondaryBlackBox),
					Warning:            ShieldDisruption,
				},
				{
					PrimaryObjective:   Primary(MiniMules3),
					SecondaryObjective: SecondaryDreadnoughtOf(DreadnoughtHiveguard),
					Warning:            MacteraPlague,
				},
			},
		},
	}
}

// EncodeExample encodes Example in the given format.
func EncodeExample(f Format) ([]byte, error) {
	return EncodeFormat(Example(), f)
}
