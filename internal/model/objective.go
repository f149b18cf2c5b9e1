package model

import (
	"fmt"
	"strings"
)

// PrimaryKind selects a primary objective variant.
type PrimaryKind uint8

const (
	MiningExpedition200 PrimaryKind = iota + 1
	MiningExpedition225
	MiningExpedition250
	Egg4
	Egg6
	OnSiteRefining
	MiniMules2
	MiniMules3
	PointExtraction7
	PointExtraction10
	EscortDuty
	Dreadnought2
	Dreadnought3
	IndustrialSabotage
)

// primaryTags are the document tags, matching the in-game UI.
var primaryTags = [...]string{
	MiningExpedition200: "200 Morkite",
	MiningExpedition225: "225 Morkite",
	MiningExpedition250: "250 Morkite",
	Egg4:                "4 Eggs",
	Egg6:                "6 Eggs",
	OnSiteRefining:      "On-Site Refining",
	MiniMules2:          "2 Mini-mules",
	MiniMules3:          "3 Mini-mules",
	PointExtraction7:    "7 Aquarqs",
	PointExtraction10:   "10 Aquarqs",
	EscortDuty:          "Escort Duty",
	Dreadnought2:        "2 Dreadnoughts",
	Dreadnought3:        "3 Dreadnoughts",
	IndustrialSabotage:  "Industrial Sabotage",
}

func (k PrimaryKind) String() string { return lookupName(primaryTags[:], int(k), "PrimaryKind") }

func (k PrimaryKind) Valid() bool { return validIndex(primaryTags[:], int(k)) }

// Arity is the number of dreadnoughts the variant carries.
func (k PrimaryKind) Arity() int {
	switch k {
	case Dreadnought2:
		return 2
	case Dreadnought3:
		return 3
	default:
		return 0
	}
}

func ParsePrimaryKind(s string) (PrimaryKind, bool) {
	i, ok := lookupIndex(primaryTags[:], s)
	return PrimaryKind(i), ok
}

// PrimaryObjective is the main goal of a stage. Dreadnoughts holds exactly
// Kind.Arity() entries and is nil for every other variant.
type PrimaryObjective struct {
	Kind         PrimaryKind
	Dreadnoughts []Dreadnought
}

// Primary returns a primary objective without payload. Use TwoDreadnoughts or
// ThreeDreadnoughts for the dreadnought variants.
func Primary(k PrimaryKind) PrimaryObjective {
	return PrimaryObjective{Kind: k}
}

func TwoDreadnoughts(a, b Dreadnought) PrimaryObjective {
	return PrimaryObjective{Kind: Dreadnought2, Dreadnoughts: []Dreadnought{a, b}}
}

func ThreeDreadnoughts(a, b, c Dreadnought) PrimaryObjective {
	return PrimaryObjective{Kind: Dreadnought3, Dreadnoughts: []Dreadnought{a, b, c}}
}

// Emoji is the chat label of the objective, e.g.
// ":dreadegg: 2 Dreadnoughts (Classic + Twins)".
func (o PrimaryObjective) Emoji() string {
	switch o.Kind {
	case MiningExpedition200, MiningExpedition225, MiningExpedition250:
		return ":morkite: " + o.Kind.String()
	case Egg4, Egg6:
		return ":gegg: " + o.Kind.String()
	case OnSiteRefining:
		return ":refinerywell: On-Site Refinery"
	case MiniMules2, MiniMules3:
		return ":molly: " + o.Kind.String()
	case PointExtraction7, PointExtraction10:
		return ":aquarq: " + o.Kind.String()
	case EscortDuty:
		return ":drill: Escort Duty"
	case Dreadnought2, Dreadnought3:
		names := make([]string, len(o.Dreadnoughts))
		for i, d := range o.Dreadnoughts {
			names[i] = d.String()
		}
		return fmt.Sprintf(":dreadegg: %s (%s)", o.Kind, strings.Join(names, " + "))
	case IndustrialSabotage:
		return ":caretaker: Industrial Sabotage"
	default:
		return o.Kind.String()
	}
}

// SecondaryKind selects a secondary objective variant.
type SecondaryKind uint8

const (
	SecondaryMorkite SecondaryKind = iota + 1
	SecondaryEggs
	SecondaryMiniMules
	SecondaryDreadnought
	SecondaryBlackBox
)

var secondaryTags = [...]string{
	SecondaryMorkite:     "150 Morkite",
	SecondaryEggs:        "2 Eggs",
	SecondaryMiniMules:   "2 Mini-mules",
	SecondaryDreadnought: "Dreadnought",
	SecondaryBlackBox:    "Black Box",
}

func (k SecondaryKind) String() string {
	return lookupName(secondaryTags[:], int(k), "SecondaryKind")
}

func (k SecondaryKind) Valid() bool { return validIndex(secondaryTags[:], int(k)) }

// HasPayload reports whether the variant carries a Dreadnought.
func (k SecondaryKind) HasPayload() bool { return k == SecondaryDreadnought }

func ParseSecondaryKind(s string) (SecondaryKind, bool) {
	i, ok := lookupIndex(secondaryTags[:], s)
	return SecondaryKind(i), ok
}

// SecondaryObjective is the bonus goal of a stage. Dreadnought is only set
// for SecondaryDreadnought.
type SecondaryObjective struct {
	Kind        SecondaryKind
	Dreadnought Dreadnought
}

func Secondary(k SecondaryKind) SecondaryObjective {
	return SecondaryObjective{Kind: k}
}

func SecondaryDreadnoughtOf(d Dreadnought) SecondaryObjective {
	return SecondaryObjective{Kind: SecondaryDreadnought, Dreadnought: d}
}

func (o SecondaryObjective) Emoji() string {
	switch o.Kind {
	case SecondaryMorkite:
		return ":morkite: 150 Morkite"
	case SecondaryEggs:
		return ":gegg: 2 Eggs"
	case SecondaryMiniMules:
		return ":molly: 2 Mini-mules"
	case SecondaryDreadnought:
		return ":dreadegg: " + o.Dreadnought.String()
	case SecondaryBlackBox:
		return ":uplink: Black Box"
	default:
		return o.Kind.String()
	}
}
