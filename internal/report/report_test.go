package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"ddfmt/internal/model"
)

const examplePost = `Weekly schedule information for **2023-07-06 to 2023-07-13**.
Deep Dives will reset in **<t:1689246000:R>**

:Deep_Dive: **DEEP DIVE** :Deep_Dive:
Region: **Glacial Strata** | Code Name: **High Contact**
Stage 1: **:refinerywell: On-Site Refinery** + **:morkite: 150 Morkite** | **No Mutator**
Stage 2: **:morkite: 200 Morkite** + **:gegg: 2 Eggs** | **:tothebone: Regenerative Bugs**
Stage 3: **:caretaker: Industrial Sabotage** + **:molly: 2 Mini-mules** | **:tothebone: Exploder Infestation**

:Deep_Dive: **ELITE DEEP DIVE** :Deep_Dive:
Region: **Magma Core** | Code Name: **Uncovered Arm**
Stage 1: **:morkite: 200 Morkite** + **:uplink: Black Box** | **No Mutator**
Stage 2: **:aquarq: 10 Aquarqs** + **:uplink: Black Box** | **:tothebone: Shield Disruption**
Stage 3: **:molly: 3 Mini-mules** + **:dreadegg: Hiveguard** | **:tothebone: Mactera Plague**

`

func TestRenderExample(t *testing.T) {
	t.Parallel()

	info := model.Example()
	got := Render(info)
	assert.Equal(t, examplePost, got)
	assert.Equal(t, got, Render(info), "render must be stable")
}

func TestRenderStageOne(t *testing.T) {
	t.Parallel()

	lines := StageLines(model.Example().DeepDive)
	assert.Len(t, lines, 3)
	assert.Equal(t,
		"Stage 1: **:refinerywell: On-Site Refinery** + **:morkite: 150 Morkite** | **No Mutator**",
		lines[0])
}

func TestMutators(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		stage model.Stage
		want  string
	}{
		{"none", model.Stage{}, "**No Mutator**"},
		{"anomaly only", model.Stage{Anomaly: model.CriticalWeakness}, "**:rocknstone: Critical Weakness**"},
		{"warning only", model.Stage{Warning: model.HauntedCave}, "**:tothebone: Haunted Cave**"},
		{
			"both",
			model.Stage{Anomaly: model.LowGravity, Warning: model.LethalEnemies},
			"**:rocknstone: Low Gravity** **:tothebone: Lethal Enemies**",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Mutators(tt.stage))
		})
	}
}

func TestObjectivesWithPayload(t *testing.T) {
	t.Parallel()

	s := model.Stage{
		PrimaryObjective:   model.ThreeDreadnoughts(model.DreadnoughtClassic, model.DreadnoughtTwins, model.DreadnoughtHiveguard),
		SecondaryObjective: model.SecondaryDreadnoughtOf(model.DreadnoughtHiveguard),
	}
	assert.Equal(t,
		"**:dreadegg: 3 Dreadnoughts (Classic + Twins + Hiveguard)** + **:dreadegg: Hiveguard**",
		Objectives(s))
}

func TestRenderLayout(t *testing.T) {
	t.Parallel()

	info := model.Example()
	info.EliteDeepDive.Codename = "Pale Wake"
	info.EliteDeepDive.Biome = model.AzureWeald

	lines := strings.Split(Render(info), "\n")
	// header, reset, blank, 5 regular, blank, 5 elite, blank, then the empty
	// remainder after the final newline
	assert.Len(t, lines, 16)
	assert.Equal(t, "", lines[2])
	assert.Equal(t, ":Deep_Dive: **DEEP DIVE** :Deep_Dive:", lines[3])
	assert.Equal(t, "", lines[8])
	assert.Equal(t, ":Deep_Dive: **ELITE DEEP DIVE** :Deep_Dive:", lines[9])
	assert.Equal(t, "Region: **Azure Weald** | Code Name: **Pale Wake**", lines[10])
}

func TestResetMarker(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "<t:1689246000:R>", ResetMarker(model.Date(2023, 7, 13)))
}
