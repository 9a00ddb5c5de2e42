package table

import (
	"errors"
	"fmt"

	"github.com/zoobzio/formz"
)

// ColumnSpec is the serialized form of a Column.
type ColumnSpec struct {
	Key   string `json:"key" yaml:"key"`
	Label string `json:"label" yaml:"label"`
	Type  string `json:"type" yaml:"type"`
	Hide  bool   `json:"hide" yaml:"hide"`

	// Enum settings.
	Options        []EnumOption `json:"options" yaml:"options"`
	Palettes       []string     `json:"palettes" yaml:"palettes"`
	Display        Display      `json:"display" yaml:"display"`
	Filterable     bool         `json:"filterable" yaml:"filterable"`
	FilterMultiple *bool        `json:"filter_multiple" yaml:"filter_multiple"`
	EmptyText      string       `json:"empty_text" yaml:"empty_text"`
	ShowUnlisted   bool         `json:"show_unlisted" yaml:"show_unlisted"`

	Props map[string]any `json:"props" yaml:"props"`
}

// TypeFactory builds the ColumnType named by a ColumnSpec.
type TypeFactory func(spec ColumnSpec) (ColumnType, error)

// Registry maps type names to factories.
type Registry map[string]TypeFactory

// DefaultRegistry returns the built-in column types: text, date, datetime,
// unixtime, enum and a read-only switch.
func DefaultRegistry() Registry {
	return Registry{
		"":         static(Text),
		"text":     static(Text),
		"date":     static(Date),
		"datetime": static(DateTime),
		"unixtime": static(UnixTime),
		"switch":   static(Switch(SwitchOptions{})),
		"enum": func(spec ColumnSpec) (ColumnType, error) {
			if len(spec.Options) == 0 {
				return nil, errors.New("enum column requires options")
			}
			return Enum(StaticOptions(spec.Options...), EnumConfig{
				Palettes:       spec.Palettes,
				Display:        spec.Display,
				Filterable:     spec.Filterable,
				FilterMultiple: spec.FilterMultiple,
				EmptyText:      spec.EmptyText,
				ShowUnlisted:   spec.ShowUnlisted,
			}), nil
		},
	}
}

func static(t ColumnType) TypeFactory {
	return func(ColumnSpec) (ColumnType, error) { return t, nil }
}

// LoadSchema decodes a list of ColumnSpec with codec and builds a Schema.
// Types are looked up in registry, falling back to DefaultRegistry.
func LoadSchema(codec formz.Codec, data []byte, registry Registry) (*Schema, error) {
	var specs []ColumnSpec
	if err := codec.Unmarshal(data, &specs); err != nil {
		return nil, fmt.Errorf("failed to decode schema: %w", err)
	}
	return BuildSchema(specs, registry)
}

// BuildSchema converts specs into a Schema.
func BuildSchema(specs []ColumnSpec, registry Registry) (*Schema, error) {
	defaults := DefaultRegistry()
	schema := &Schema{Columns: make([]Column, 0, len(specs))}
	seen := make(map[string]bool, len(specs))

	for i, spec := range specs {
		if spec.Key == "" {
			return nil, fmt.Errorf("column %d: missing key", i)
		}
		if seen[spec.Key] {
			return nil, fmt.Errorf("column %q: duplicate key", spec.Key)
		}
		seen[spec.Key] = true

		factory, ok := registry[spec.Type]
		if !ok {
			factory, ok = defaults[spec.Type]
		}
		if !ok {
			return nil, fmt.Errorf("column %q: unknown type %q", spec.Key, spec.Type)
		}
		typ, err := factory(spec)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", spec.Key, err)
		}

		schema.Columns = append(schema.Columns, Column{
			Key:   spec.Key,
			Label: spec.Label,
			Type:  typ,
			Hide:  spec.Hide,
			Props: spec.Props,
		})
	}
	return schema, nil
}
