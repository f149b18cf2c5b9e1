package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDisplayNames(t *testing.T) {
	t.Parallel()

	for b := SandblastedCorridors; b <= MagmaCore; b++ {
		got, ok := ParseBiome(b.String())
		assert.True(t, ok, b.String())
		assert.Equal(t, b, got)
	}
	for w := CaveLeechCluster; w <= Swarmageddon; w++ {
		got, ok := ParseWarning(w.String())
		assert.True(t, ok, w.String())
		assert.Equal(t, w, got)
	}
	for k := MiningExpedition200; k <= IndustrialSabotage; k++ {
		got, ok := ParsePrimaryKind(k.String())
		assert.True(t, ok, k.String())
		assert.Equal(t, k, got)
	}

	_, ok := ParseBiome("Nonexistent Place")
	assert.False(t, ok)
	_, ok = ParseAnomaly("critical weakness")
	assert.False(t, ok, "tags are case sensitive")
}

func TestOutOfRangeValues(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Biome(0)", Biome(0).String())
	assert.Equal(t, "Warning(42)", Warning(42).String())
	assert.False(t, Biome(0).Valid())
	assert.False(t, NoAnomaly.Valid())
	assert.True(t, Swarmageddon.Valid())
	assert.Equal(t, "None", NoWarning.String())
}

func TestObjectiveEmoji(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"refinery", Primary(OnSiteRefining).Emoji(), ":refinerywell: On-Site Refinery"},
		{"morkite", Primary(MiningExpedition250).Emoji(), ":morkite: 250 Morkite"},
		{"aquarqs", Primary(PointExtraction7).Emoji(), ":aquarq: 7 Aquarqs"},
		{"escort", Primary(EscortDuty).Emoji(), ":drill: Escort Duty"},
		{"sabotage", Primary(IndustrialSabotage).Emoji(), ":caretaker: Industrial Sabotage"},
		{
			"two dreadnoughts",
			TwoDreadnoughts(DreadnoughtTwins, DreadnoughtClassic).Emoji(),
			":dreadegg: 2 Dreadnoughts (Twins + Classic)",
		},
		{
			"three dreadnoughts",
			ThreeDreadnoughts(DreadnoughtClassic, DreadnoughtTwins, DreadnoughtHiveguard).Emoji(),
			":dreadegg: 3 Dreadnoughts (Classic + Twins + Hiveguard)",
		},
		{"secondary dreadnought", SecondaryDreadnoughtOf(DreadnoughtHiveguard).Emoji(), ":dreadegg: Hiveguard"},
		{"black box", Secondary(SecondaryBlackBox).Emoji(), ":uplink: Black Box"},
		{"eggs", Secondary(SecondaryEggs).Emoji(), ":gegg: 2 Eggs"},
		{"anomaly", CriticalWeakness.Emoji(), ":rocknstone: Critical Weakness"},
		{"warning", LowOxygen.Emoji(), ":tothebone: Low Oxygen"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.got, tt.name)
	}
}

func TestArity(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 2, Dreadnought2.Arity())
	assert.Equal(t, 3, Dreadnought3.Arity())
	assert.Equal(t, 0, EscortDuty.Arity())
	assert.True(t, SecondaryDreadnought.HasPayload())
	assert.False(t, SecondaryBlackBox.HasPayload())
}
