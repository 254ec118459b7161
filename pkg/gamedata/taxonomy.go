package gamedata

import (
	_ "embed"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/goccy/go-yaml"
)

//go:embed attributes.yaml
var taxonomyYAML []byte

// Categories in display order.
var Categories = []string{CategoryBasic, CategoryAdvanced, CategoryElemental, CategoryHidden}

type taxonomy struct {
	Basic     []string `yaml:"basic"`
	Advanced  []string `yaml:"advanced"`
	Elemental []string `yaml:"elemental"`
	Hidden    []string `yaml:"hidden"`
}

var (
	taxonomyOnce sync.Once
	taxonomyReg  AttributeRegistry
	taxonomyErr  error
)

// Attributes returns the built-in attribute taxonomy.
func Attributes() (AttributeRegistry, error) {
	taxonomyOnce.Do(func() {
		taxonomyReg, taxonomyErr = ParseAttributes(taxonomyYAML)
	})
	return taxonomyReg, taxonomyErr
}

// ParseAttributes decodes a taxonomy document. Labels must be unique.
func ParseAttributes(data []byte) (AttributeRegistry, error) {
	var t taxonomy
	if err := yaml.UnmarshalWithOptions(data, &t, yaml.DisallowUnknownField()); err != nil {
		return nil, fmt.Errorf("parse attribute taxonomy: %w", err)
	}
	r := &attributeRegistry{byName: map[string]Attribute{}}
	groups := map[string][]string{
		CategoryBasic:     t.Basic,
		CategoryAdvanced:  t.Advanced,
		CategoryElemental: t.Elemental,
		CategoryHidden:    t.Hidden,
	}
	for _, cat := range Categories {
		for _, name := range groups[cat] {
			key := strings.ToLower(name)
			if _, dup := r.byName[key]; dup {
				return nil, fmt.Errorf("duplicate attribute %q", name)
			}
			a := Attribute{Name: name, Category: cat}
			r.byName[key] = a
			r.all = append(r.all, a)
		}
	}
	return r, nil
}

type attributeRegistry struct {
	byName map[string]Attribute
	all    []Attribute
}

func (r *attributeRegistry) ByName(name string) (Attribute, bool) {
	a, ok := r.byName[strings.ToLower(name)]
	return a, ok
}

func (r *attributeRegistry) ByCategory(category string) []Attribute {
	var out []Attribute
	for _, a := range r.all {
		if a.Category == category {
			out = append(out, a)
		}
	}
	return out
}

func (r *attributeRegistry) All() []Attribute {
	return slices.Clone(r.all)
}
