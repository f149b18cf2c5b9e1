package model

import "fmt"

// Biome is the region a deep dive takes place in.
type Biome uint8

const (
	SandblastedCorridors Biome = iota + 1
	CrystallineCaverns
	SaltPits
	FungusBogs
	RadioactiveExclusionZone
	DenseBiozone
	GlacialStrata
	HollowBough
	AzureWeald
	MagmaCore
)

var biomeNames = [...]string{
	SandblastedCorridors:     "Sandblasted Corridors",
	CrystallineCaverns:       "Crystalline Caverns",
	SaltPits:                 "Salt Pits",
	FungusBogs:               "Fungus Bogs",
	RadioactiveExclusionZone: "Radioactive Exclusion Zone",
	DenseBiozone:             "Dense Biozone",
	GlacialStrata:            "Glacial Strata",
	HollowBough:              "Hollow Bough",
	AzureWeald:               "Azure Weald",
	MagmaCore:                "Magma Core",
}

func (b Biome) String() string { return lookupName(biomeNames[:], int(b), "Biome") }

// Valid reports whether b is one of the known biomes.
func (b Biome) Valid() bool { return validIndex(biomeNames[:], int(b)) }

// ParseBiome maps a display name such as "Magma Core" to its Biome.
func ParseBiome(s string) (Biome, bool) {
	i, ok := lookupIndex(biomeNames[:], s)
	return Biome(i), ok
}

// Dreadnought is the kind of dreadnought carried by dreadnought objectives.
type Dreadnought uint8

const (
	DreadnoughtClassic Dreadnought = iota + 1
	DreadnoughtTwins
	DreadnoughtHiveguard
)

var dreadnoughtNames = [...]string{
	DreadnoughtClassic:   "Classic",
	DreadnoughtTwins:     "Twins",
	DreadnoughtHiveguard: "Hiveguard",
}

func (d Dreadnought) String() string { return lookupName(dreadnoughtNames[:], int(d), "Dreadnought") }

func (d Dreadnought) Valid() bool { return validIndex(dreadnoughtNames[:], int(d)) }

func ParseDreadnought(s string) (Dreadnought, bool) {
	i, ok := lookupIndex(dreadnoughtNames[:], s)
	return Dreadnought(i), ok
}

// Anomaly is a positive stage modifier. The zero value means no anomaly.
type Anomaly uint8

const (
	NoAnomaly Anomaly = iota
	CriticalWeakness
	LowGravity
	RichAtmosphere
	VolatileGuts
)

var anomalyNames = [...]string{
	CriticalWeakness: "Critical Weakness",
	LowGravity:       "Low Gravity",
	RichAtmosphere:   "Rich Atmosphere",
	VolatileGuts:     "Volatile Guts",
}

func (a Anomaly) String() string {
	if a == NoAnomaly {
		return "None"
	}
	return lookupName(anomalyNames[:], int(a), "Anomaly")
}

func (a Anomaly) Valid() bool { return validIndex(anomalyNames[:], int(a)) }

// Emoji is the chat label of the anomaly.
func (a Anomaly) Emoji() string { return ":rocknstone: " + a.String() }

func ParseAnomaly(s string) (Anomaly, bool) {
	i, ok := lookupIndex(anomalyNames[:], s)
	return Anomaly(i), ok
}

// Warning is a negative stage modifier. The zero value means no warning.
type Warning uint8

const (
	NoWarning Warning = iota
	CaveLeechCluster
	EliteThreat
	ExploderInfestation
	HauntedCave
	LethalEnemies
	LowOxygen
	MacteraPlague
	Parasites
	RegenerativeBugs
	RivalPresence
	ShieldDisruption
	Swarmageddon
)

var warningNames = [...]string{
	CaveLeechCluster:    "Cave Leech Cluster",
	EliteThreat:         "Elite Threat",
	ExploderInfestation: "Exploder Infestation",
	HauntedCave:         "Haunted Cave",
	LethalEnemies:       "Lethal Enemies",
	LowOxygen:           "Low Oxygen",
	MacteraPlague:       "Mactera Plague",
	Parasites:           "Parasites",
	RegenerativeBugs:    "Regenerative Bugs",
	RivalPresence:       "Rival Presence",
	ShieldDisruption:    "Shield Disruption",
	Swarmageddon:        "Swarmageddon",
}

func (w Warning) String() string {
	if w == NoWarning {
		return "None"
	}
	return lookupName(warningNames[:], int(w), "Warning")
}

func (w Warning) Valid() bool { return validIndex(warningNames[:], int(w)) }

// Emoji is the chat label of the warning.
func (w Warning) Emoji() string { return ":tothebone: " + w.String() }

func ParseWarning(s string) (Warning, bool) {
	i, ok := lookupIndex(warningNames[:], s)
	return Warning(i), ok
}

// Name tables are indexed by value; index 0 is unused and stays empty.

func validIndex(names []string, i int) bool {
	return i > 0 && i < len(names) && names[i] != ""
}

func lookupName(names []string, i int, typ string) string {
	if !validIndex(names, i) {
		return fmt.Sprintf("%s(%d)", typ, i)
	}
	return names[i]
}

func lookupIndex(names []string, s string) (int, bool) {
	for i := 1; i < len(names); i++ {
		if names[i] == s {
			return i, true
		}
	}
	return 0, false
}
