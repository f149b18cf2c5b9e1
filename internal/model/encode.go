package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// The *Doc types mirror the document layout. Objectives are either a tag
// string or a single-key map from tag to payload.

type infoDoc struct {
	Start         string      `json:"start" yaml:"start" toml:"start"`
	End           string      `json:"end" yaml:"end" toml:"end"`
	DeepDive      deepDiveDoc `json:"deep_dive" yaml:"deep_dive" toml:"deep_dive"`
	EliteDeepDive deepDiveDoc `json:"elite_deep_dive" yaml:"elite_deep_dive" toml:"elite_deep_dive"`
}

type deepDiveDoc struct {
	Codename string     `json:"codename" yaml:"codename" toml:"codename"`
	Biome    string     `json:"biome" yaml:"biome" toml:"biome"`
	Seed     uint64     `json:"seed" yaml:"seed" toml:"seed"`
	Stages   []stageDoc `json:"stages" yaml:"stages" toml:"stages"`
}

type stageDoc struct {
	PrimaryObjective   any    `json:"primary_objective" yaml:"primary_objective" toml:"primary_objective"`
	SecondaryObjective any    `json:"secondary_objective" yaml:"secondary_objective" toml:"secondary_objective"`
	Anomaly            string `json:"anomaly,omitempty" yaml:"anomaly,omitempty" toml:"anomaly,omitempty"`
	Warning            string `json:"warning,omitempty" yaml:"warning,omitempty" toml:"warning,omitempty"`
}

// Encode writes the canonical JSON form, indented by four spaces.
func Encode(info DeepDivesInfo) ([]byte, error) {
	return EncodeFormat(info, FormatJSON)
}

// EncodeFormat writes info in the given format. Only the calendar date of
// the date range is kept.
func EncodeFormat(info DeepDivesInfo, f Format) ([]byte, error) {
	if err := validate(info); err != nil {
		return nil, fmt.Errorf("model: encode: %w", err)
	}
	doc := infoDoc{
		Start:         info.Start.Format(time.DateOnly),
		End:           info.End.Format(time.DateOnly),
		DeepDive:      deepDiveToDoc(info.DeepDive),
		EliteDeepDive: deepDiveToDoc(info.EliteDeepDive),
	}

	var buf bytes.Buffer
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "    ")
		if err := enc.Encode(doc); err != nil {
			return nil, fmt.Errorf("model: encode json: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return nil, fmt.Errorf("model: encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("model: encode yaml: %w", err)
		}
	case FormatTOML:
		if err := toml.NewEncoder(&buf).Encode(doc); err != nil {
			return nil, fmt.Errorf("model: encode toml: %w", err)
		}
	default:
		return nil, fmt.Errorf("model: unsupported format %q", f)
	}
	return buf.Bytes(), nil
}

func deepDiveToDoc(d DeepDive) deepDiveDoc {
	out := deepDiveDoc{
		Codename: d.Codename,
		Biome:    d.Biome.String(),
		Seed:     d.Seed,
		Stages:   make([]stageDoc, len(d.Stages)),
	}
	for i, s := range d.Stages {
		out.Stages[i] = stageDoc{
			PrimaryObjective:   primaryToDoc(s.PrimaryObjective),
			SecondaryObjective: secondaryToDoc(s.SecondaryObjective),
		}
		if s.Anomaly != NoAnomaly {
			out.Stages[i].Anomaly = s.Anomaly.String()
		}
		if s.Warning != NoWarning {
			out.Stages[i].Warning = s.Warning.String()
		}
	}
	return out
}

func primaryToDoc(o PrimaryObjective) any {
	if o.Kind.Arity() == 0 {
		return o.Kind.String()
	}
	names := make([]string, len(o.Dreadnoughts))
	for i, d := range o.Dreadnoughts {
		names[i] = d.String()
	}
	return map[string][]string{o.Kind.String(): names}
}

func secondaryToDoc(o SecondaryObjective) any {
	if !o.Kind.HasPayload() {
		return o.Kind.String()
	}
	return map[string]string{o.Kind.String(): o.Dreadnought.String()}
}

// validate rejects values that would encode into a document Decode refuses,
// such as a zero Biome. Errors carry the same paths as decode errors.
func validate(info DeepDivesInfo) error {
	for _, d := range []struct {
		key  string
		dive DeepDive
	}{
		{"deep_dive", info.DeepDive},
		{"elite_deep_dive", info.EliteDeepDive},
	} {
		if !d.dive.Biome.Valid() {
			return unknownVariant(join(d.key, "biome"), d.dive.Biome.String())
		}
		for i, st := range d.dive.Stages {
			if err := validateStage(st, index(join(d.key, "stages"), i)); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateStage(st Stage, path string) error {
	p := st.PrimaryObjective
	ppath := join(path, "primary_objective")
	if !p.Kind.Valid() {
		return unknownVariant(ppath, p.Kind.String())
	}
	if len(p.Dreadnoughts) != p.Kind.Arity() {
		return arityMismatch(join(ppath, p.Kind.String()), p.Kind.Arity(), len(p.Dreadnoughts))
	}
	for i, d := range p.Dreadnoughts {
		if !d.Valid() {
			return unknownVariant(index(join(ppath, p.Kind.String()), i), d.String())
		}
	}

	sec := st.SecondaryObjective
	spath := join(path, "secondary_objective")
	if !sec.Kind.Valid() {
		return unknownVariant(spath, sec.Kind.String())
	}
	if sec.Kind.HasPayload() && !sec.Dreadnought.Valid() {
		return unknownVariant(join(spath, sec.Kind.String()), sec.Dreadnought.String())
	}

	if st.Anomaly != NoAnomaly && !st.Anomaly.Valid() {
		return unknownVariant(join(path, "anomaly"), st.Anomaly.String())
	}
	if st.Warning != NoWarning && !st.Warning.Valid() {
		return unknownVariant(join(path, "warning"), st.Warning.String())
	}
	return nil
}
