// Package dataexport loads the JSON data export embedded in every page
// and answers the lookups components need from it.
package dataexport

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
)

// ErrInvalidExport indicates the export is not a JSON object.
var ErrInvalidExport = errors.New("invalid data export")

// Export is a parsed data export. It is immutable after loading and may
// be shared by every worker of a run.
type Export struct {
	raw   []byte
	value map[string]any
}

// Recipe is one crafting recipe of the export.
// Each input slot lists the item ids it accepts; an empty slot has none.
type Recipe struct {
	Inputs [][]string
	Output string
	Count  int
}

// Empty returns an export with no data, serialized as "{}".
func Empty() *Export {
	return &Export{raw: []byte("{}"), value: map[string]any{}}
}

// Load reads and parses the export at path.
func Load(path string) (*Export, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from user configuration
	if err != nil {
		return nil, fmt.Errorf("reading data export %s: %w", path, err)
	}
	exp, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return exp, nil
}

// Parse decodes data, which must hold a single JSON object.
func Parse(data []byte) (*Export, error) {
	v, err := oj.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidExport, err)
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: top-level value is %T, want object", ErrInvalidExport, v)
	}
	return &Export{raw: bytes.TrimSpace(bytes.Clone(data)), value: obj}, nil
}

// Raw returns the export as it was read, without surrounding whitespace.
func (e *Export) Raw() []byte {
	return bytes.Clone(e.raw)
}

// Len returns the number of top-level keys.
func (e *Export) Len() int {
	return len(e.value)
}

// ItemName returns the display name of an item id.
func (e *Export) ItemName(id string) (string, bool) {
	name, ok := jp.C("itemNames").C(id).First(e.value).(string)
	return name, ok
}

// Recipe returns the named recipe. A recipe present but malformed is
// reported as ErrInvalidExport.
func (e *Export) Recipe(name string) (Recipe, bool, error) {
	raw, ok := jp.C("recipes").C(name).First(e.value).(map[string]any)
	if !ok {
		return Recipe{}, false, nil
	}

	var r Recipe
	output, ok := raw["output"].(string)
	if !ok || output == "" {
		return Recipe{}, true, fmt.Errorf("%w: recipe %q has no output", ErrInvalidExport, name)
	}
	r.Output = output

	r.Count = 1
	switch c := raw["count"].(type) {
	case nil:
	case int64:
		r.Count = int(c)
	case float64:
		r.Count = int(c)
	default:
		return Recipe{}, true, fmt.Errorf("%w: recipe %q has count of type %T", ErrInvalidExport, name, c)
	}

	inputs, _ := raw["inputs"].([]any)
	for i, slot := range inputs {
		items, err := slotItems(slot)
		if err != nil {
			return Recipe{}, true, fmt.Errorf("%w: recipe %q slot %d: %v", ErrInvalidExport, name, i, err)
		}
		r.Inputs = append(r.Inputs, items)
	}
	return r, true, nil
}

// slotItems accepts null, a single id or a list of alternative ids.
func slotItems(v any) ([]string, error) {
	switch s := v.(type) {
	case nil:
		return nil, nil
	case string:
		if s == "" {
			return nil, nil
		}
		return []string{s}, nil
	case []any:
		items := make([]string, 0, len(s))
		for _, item := range s {
			id, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("item of type %T", item)
			}
			items = append(items, id)
		}
		return items, nil
	default:
		return nil, fmt.Errorf("slot of type %T", v)
	}
}
