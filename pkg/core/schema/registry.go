// Package schema describes the editable content types and section settings
// as configuration data. Shared editing logic reads field kinds from here and
// never switches on a type name.
package schema

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wadjakorntonsri/portfolio-admin/pkg/core/domain"
	"github.com/wadjakorntonsri/portfolio-admin/pkg/core/fields"
)

//go:embed default.yaml
var defaultYAML []byte

// Kind is the storage shape of a form field.
type Kind string

const (
	KindString Kind = "string"
	KindText   Kind = "text"
	KindURL    Kind = "url"
	KindList   Kind = "list"
	KindInt    Kind = "int"
	KindBool   Kind = "bool"
)

type Field struct {
	Name     string `yaml:"name" json:"name"`
	Label    string `yaml:"label" json:"label"`
	Kind     Kind   `yaml:"kind" json:"kind"`
	Required bool   `yaml:"required" json:"required"`
}

// ContentType is one editable list section. Collection names the storage
// collection; Section names the settings document heading the section. Group
// only labels related types (achievements and certifications, the three
// contribution kinds) for display.
type ContentType struct {
	Name       string  `yaml:"name" json:"name"`
	Label      string  `yaml:"label" json:"label"`
	Collection string  `yaml:"collection" json:"collection"`
	Section    string  `yaml:"section" json:"section"`
	Group      string  `yaml:"group,omitempty" json:"group,omitempty"`
	Fields     []Field `yaml:"fields" json:"fields"`
}

// Section is a single settings document and its fallback values.
type Section struct {
	Key      string         `yaml:"key" json:"key"`
	Label    string         `yaml:"label" json:"label"`
	Defaults map[string]any `yaml:"defaults" json:"defaults"`
}

type Registry struct {
	types    []ContentType
	sections []Section
	byName   map[string]int
	byKey    map[string]int
}

type document struct {
	ContentTypes []ContentType `yaml:"contentTypes"`
	Sections     []Section     `yaml:"sections"`
}

// Default returns the registry built into the binary.
func Default() *Registry {
	reg, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("schema: embedded default.yaml: %v", err))
	}
	return reg
}

// LoadFile reads a registry from path. An empty path yields Default.
func LoadFile(path string) (*Registry, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read content types: %w", err)
	}
	return Parse(data)
}

// Parse decodes a registry document and checks it for duplicate or
// incomplete entries.
func Parse(data []byte) (*Registry, error) {
	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse content types: %w", err)
	}

	reg := &Registry{
		types:    doc.ContentTypes,
		sections: doc.Sections,
		byName:   make(map[string]int, len(doc.ContentTypes)),
		byKey:    make(map[string]int, len(doc.Sections)),
	}

	for i, s := range reg.sections {
		if s.Key == "" {
			return nil, fmt.Errorf("section %d: key is required", i)
		}
		if _, dup := reg.byKey[s.Key]; dup {
			return nil, fmt.Errorf("section %q defined twice", s.Key)
		}
		if s.Defaults == nil {
			reg.sections[i].Defaults = map[string]any{}
		}
		reg.byKey[s.Key] = i
	}

	for i, ct := range reg.types {
		if ct.Name == "" {
			return nil, fmt.Errorf("content type %d: name is required", i)
		}
		if _, dup := reg.byName[ct.Name]; dup {
			return nil, fmt.Errorf("content type %q defined twice", ct.Name)
		}
		if ct.Collection == "" {
			reg.types[i].Collection = ct.Name
		}
		if ct.Section != "" {
			if _, ok := reg.byKey[ct.Section]; !ok {
				return nil, fmt.Errorf("content type %q: unknown section %q", ct.Name, ct.Section)
			}
		}
		for _, f := range ct.Fields {
			switch f.Kind {
			case KindString, KindText, KindURL, KindList, KindInt, KindBool:
			case "":
				return nil, fmt.Errorf("content type %q: field %q has no kind", ct.Name, f.Name)
			default:
				return nil, fmt.Errorf("content type %q: field %q: unknown kind %q", ct.Name, f.Name, f.Kind)
			}
		}
		reg.byName[ct.Name] = i
	}

	return reg, nil
}

func (r *Registry) ContentTypes() []ContentType {
	out := make([]ContentType, len(r.types))
	copy(out, r.types)
	return out
}

func (r *Registry) ContentType(name string) (ContentType, error) {
	i, ok := r.byName[name]
	if !ok {
		return ContentType{}, fmt.Errorf("%w: %q", domain.ErrUnknownContentType, name)
	}
	return r.types[i], nil
}

func (r *Registry) Sections() []Section {
	out := make([]Section, len(r.sections))
	for i, s := range r.sections {
		s.Defaults = domain.CloneFields(s.Defaults)
		out[i] = s
	}
	return out
}

// Section returns the named section with a private copy of its defaults.
func (r *Registry) Section(key string) (Section, error) {
	i, ok := r.byKey[key]
	if !ok {
		return Section{}, fmt.Errorf("%w: %q", domain.ErrUnknownSection, key)
	}
	s := r.sections[i]
	s.Defaults = domain.CloneFields(s.Defaults)
	return s, nil
}

func (ct ContentType) field(name string) (Field, bool) {
	for _, f := range ct.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Normalize converts raw form values to their stored shapes. Keys without a
// schema entry pass through unchanged; nil values are dropped so they never
// overwrite stored data.
func (ct ContentType) Normalize(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		if v == nil {
			continue
		}
		f, ok := ct.field(k)
		if !ok {
			out[k] = v
			continue
		}
		switch f.Kind {
		case KindList:
			out[k] = fields.ToArrayValue(v)
		case KindInt:
			out[k] = fields.ToInt(v)
		case KindBool:
			out[k] = fields.ToBool(v)
		default:
			out[k] = v
		}
	}
	return out
}

// EditForm renders a record's fields for an editor form. List fields become
// comma-joined strings; everything else is copied.
func (ct ContentType) EditForm(rec domain.Record) map[string]any {
	out := make(map[string]any, len(rec.Fields)+2)
	for k, v := range rec.Fields {
		out[k] = v
	}
	for _, f := range ct.Fields {
		if f.Kind == KindList {
			out[f.Name] = fields.ToEditValue(rec.Fields[f.Name])
		}
	}
	if rec.ID != "" {
		out[domain.KeyID] = rec.ID
	}
	out[domain.KeyOrder] = rec.Order
	return out
}

// Validate reports required fields that are empty. When creating, every
// required field must be present; otherwise only the supplied ones are
// checked, since an update merges over stored values.
func (ct ContentType) Validate(in map[string]any, creating bool) error {
	var missing []string
	for _, f := range ct.Fields {
		if !f.Required {
			continue
		}
		v, supplied := in[f.Name]
		if !supplied && !creating {
			continue
		}
		if isEmpty(f.Kind, v) {
			missing = append(missing, f.Name)
		}
	}
	if len(missing) > 0 {
		return &domain.ValidationError{ContentType: ct.Name, Missing: missing}
	}
	return nil
}

func isEmpty(kind Kind, v any) bool {
	if v == nil {
		return true
	}
	switch kind {
	case KindList:
		return len(fields.ToArrayValue(v)) == 0
	case KindInt, KindBool:
		return false
	}
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) == ""
}
