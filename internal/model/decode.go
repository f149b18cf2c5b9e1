package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is a document encoding understood by Decode and Encode.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// ParseFormat accepts a format name ("json", "yaml", "yml", "toml").
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("unknown document format: %q", s)
	}
}

// FormatFromPath picks the format from a file extension, defaulting to JSON.
func FormatFromPath(path string) Format {
	if f, err := ParseFormat(filepath.Ext(path)); err == nil {
		return f
	}
	return FormatJSON
}

// Decode parses a JSON document.
func Decode(data []byte) (DeepDivesInfo, error) {
	return DecodeFormat(data, FormatJSON)
}

// DecodeFormat parses a document in the given format. Syntax errors are
// returned wrapped; schema violations are returned as *SchemaError.
func DecodeFormat(data []byte, f Format) (DeepDivesInfo, error) {
	tree, err := parseTree(data, f)
	if err != nil {
		return DeepDivesInfo{}, fmt.Errorf("model: parse %s: %w", f, err)
	}
	return decodeInfo(tree)
}

// parseTree reads the document into generic maps, slices and scalars so that
// every format goes through the same decoder.
func parseTree(data []byte, f Format) (any, error) {
	var v any
	switch f {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&v); err != nil {
			return nil, err
		}
		if err := dec.Decode(new(any)); !errors.Is(err, io.EOF) {
			return nil, errors.New("unexpected data after top-level value")
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &v); err != nil {
			return nil, err
		}
	case FormatTOML:
		var m map[string]any
		if err := toml.Unmarshal(data, &m); err != nil {
			return nil, err
		}
		v = m
	default:
		return nil, fmt.Errorf("unsupported format %q", f)
	}
	return v, nil
}

func decodeInfo(root any) (DeepDivesInfo, error) {
	var out DeepDivesInfo

	obj, err := asObject(root, "$")
	if err != nil {
		return out, err
	}
	if out.Start, err = decodeDate(obj, "", "start"); err != nil {
		return out, err
	}
	if out.End, err = decodeDate(obj, "", "end"); err != nil {
		return out, err
	}
	if out.DeepDive, err = decodeDeepDive(obj, "deep_dive"); err != nil {
		return out, err
	}
	if out.EliteDeepDive, err = decodeDeepDive(obj, "elite_deep_dive"); err != nil {
		return out, err
	}
	return out, nil
}

func decodeDeepDive(parent map[string]any, key string) (DeepDive, error) {
	var out DeepDive

	v, err := required(parent, "", key)
	if err != nil {
		return out, err
	}
	obj, err := asObject(v, key)
	if err != nil {
		return out, err
	}

	v, err = required(obj, key, "codename")
	if err != nil {
		return out, err
	}
	codename, ok := v.(string)
	if !ok {
		return out, invalidType(join(key, "codename"), v, "string")
	}
	out.Codename = codename

	v, err = required(obj, key, "biome")
	if err != nil {
		return out, err
	}
	if out.Biome, err = decodeEnum(v, join(key, "biome"), ParseBiome); err != nil {
		return out, err
	}

	v, err = required(obj, key, "seed")
	if err != nil {
		return out, err
	}
	if out.Seed, err = decodeSeed(v, join(key, "seed")); err != nil {
		return out, err
	}

	path := join(key, "stages")
	v, err = required(obj, key, "stages")
	if err != nil {
		return out, err
	}
	list, ok := v.([]any)
	if !ok {
		return out, invalidType(path, v, "list")
	}
	if len(list) != len(out.Stages) {
		return out, arityMismatch(path, len(out.Stages), len(list))
	}
	for i, item := range list {
		if out.Stages[i], err = decodeStage(item, index(path, i)); err != nil {
			return out, err
		}
	}
	return out, nil
}

func decodeStage(v any, path string) (Stage, error) {
	var out Stage

	obj, err := asObject(v, path)
	if err != nil {
		return out, err
	}

	v, err = required(obj, path, "primary_objective")
	if err != nil {
		return out, err
	}
	if out.PrimaryObjective, err = decodePrimary(v, join(path, "primary_objective")); err != nil {
		return out, err
	}

	v, err = required(obj, path, "secondary_objective")
	if err != nil {
		return out, err
	}
	if out.SecondaryObjective, err = decodeSecondary(v, join(path, "secondary_objective")); err != nil {
		return out, err
	}

	// Modifiers are optional: an absent key or null means none.
	if v := obj["anomaly"]; v != nil {
		if out.Anomaly, err = decodeEnum(v, join(path, "anomaly"), ParseAnomaly); err != nil {
			return out, err
		}
	}
	if v := obj["warning"]; v != nil {
		if out.Warning, err = decodeEnum(v, join(path, "warning"), ParseWarning); err != nil {
			return out, err
		}
	}
	return out, nil
}

func decodePrimary(v any, path string) (PrimaryObjective, error) {
	tag, payload, err := variant(v, path)
	if err != nil {
		return PrimaryObjective{}, err
	}
	kind, ok := ParsePrimaryKind(tag)
	if !ok {
		return PrimaryObjective{}, unknownVariant(path, tag)
	}

	arity := kind.Arity()
	if payload == nil {
		if arity > 0 {
			return PrimaryObjective{}, arityMismatch(join(path, tag), arity, 0)
		}
		return Primary(kind), nil
	}
	if arity == 0 {
		return PrimaryObjective{}, invalidType(join(path, tag), payload, "no payload")
	}

	list, ok := payload.([]any)
	if !ok {
		return PrimaryObjective{}, invalidType(join(path, tag), payload, "list")
	}
	if len(list) != arity {
		return PrimaryObjective{}, arityMismatch(join(path, tag), arity, len(list))
	}
	out := PrimaryObjective{Kind: kind, Dreadnoughts: make([]Dreadnought, arity)}
	for i, item := range list {
		if out.Dreadnoughts[i], err = decodeEnum(item, index(join(path, tag), i), ParseDreadnought); err != nil {
			return PrimaryObjective{}, err
		}
	}
	return out, nil
}

func decodeSecondary(v any, path string) (SecondaryObjective, error) {
	tag, payload, err := variant(v, path)
	if err != nil {
		return SecondaryObjective{}, err
	}
	kind, ok := ParseSecondaryKind(tag)
	if !ok {
		return SecondaryObjective{}, unknownVariant(path, tag)
	}

	switch {
	case payload == nil && kind.HasPayload():
		return SecondaryObjective{}, arityMismatch(join(path, tag), 1, 0)
	case payload == nil:
		return Secondary(kind), nil
	case !kind.HasPayload():
		return SecondaryObjective{}, invalidType(join(path, tag), payload, "no payload")
	}

	d, err := decodeEnum(payload, join(path, tag), ParseDreadnought)
	if err != nil {
		return SecondaryObjective{}, err
	}
	return SecondaryDreadnoughtOf(d), nil
}

// variant splits an externally tagged value: a bare tag string, or a single
// key object mapping the tag to its payload.
func variant(v any, path string) (string, any, error) {
	if s, ok := v.(string); ok {
		return s, nil, nil
	}
	obj, err := asObject(v, path)
	if err != nil {
		return "", nil, invalidType(path, v, "tag or single-key object")
	}
	if len(obj) != 1 {
		return "", nil, invalidType(path, v, "single-key object")
	}
	for tag, payload := range obj {
		if payload == nil {
			return "", nil, invalidType(join(path, tag), payload, "payload")
		}
		return tag, payload, nil
	}
	return "", nil, nil
}

func decodeEnum[T any](v any, path string, parse func(string) (T, bool)) (T, error) {
	var zero T
	s, ok := v.(string)
	if !ok {
		return zero, invalidType(path, v, "string")
	}
	out, ok := parse(s)
	if !ok {
		return zero, unknownVariant(path, s)
	}
	return out, nil
}

func decodeDate(obj map[string]any, parent, key string) (time.Time, error) {
	path := join(parent, key)
	v, err := required(obj, parent, key)
	if err != nil {
		return time.Time{}, err
	}

	var s string
	switch t := v.(type) {
	case string:
		s = t
	case time.Time:
		// TOML offset datetimes carry a time of day; only plain dates are valid.
		return time.Time{}, malformedDate(path, t.Format(time.RFC3339))
	case fmt.Stringer:
		// TOML local dates.
		s = t.String()
	default:
		return time.Time{}, malformedDate(path, describe(v))
	}

	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, malformedDate(path, s)
	}
	return AtResetHour(d), nil
}

func decodeSeed(v any, path string) (uint64, error) {
	switch n := v.(type) {
	case json.Number:
		u, err := strconv.ParseUint(n.String(), 10, 64)
		if err != nil {
			return 0, invalidType(path, v, "unsigned 64-bit integer")
		}
		return u, nil
	case int:
		if n >= 0 {
			return uint64(n), nil
		}
	case int64:
		if n >= 0 {
			return uint64(n), nil
		}
	case uint64:
		return n, nil
	}
	return 0, invalidType(path, v, "unsigned 64-bit integer")
}

func required(obj map[string]any, parent, key string) (any, error) {
	v, ok := obj[key]
	if !ok {
		return nil, missingField(join(parent, key))
	}
	return v, nil
}

func asObject(v any, path string) (map[string]any, error) {
	switch m := v.(type) {
	case map[string]any:
		return m, nil
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out, nil
	default:
		return nil, invalidType(path, v, "object")
	}
}

func join(parent, key string) string {
	if parent == "" {
		return key
	}
	return parent + "." + key
}

func index(path string, i int) string {
	return path + "[" + strconv.Itoa(i) + "]"
}

// describe renders a decoded value for error messages.
func describe(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return strconv.Quote(t)
	case map[string]any, map[any]any:
		return "object"
	case []any:
		return "list of " + strconv.Itoa(len(t))
	default:
		return fmt.Sprint(t)
	}
}
