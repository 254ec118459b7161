package gamedata

import (
	"cmp"
	"slices"
	"strconv"
	"strings"
)

type CharacterRegistry interface {
	ByID(id string) (Character, bool)
	ByName(name string) (Character, bool)
	All() []Character
}

type AttributeRegistry interface {
	ByName(name string) (Attribute, bool)
	ByCategory(category string) []Attribute
	All() []Attribute
}

// GameData bundles the registries a consumer reads.
type GameData struct {
	Characters CharacterRegistry
	Attributes AttributeRegistry
}

type characterRegistry struct {
	byID   map[string]Character
	byName map[string]Character
	all    []Character
}

// NewCharacterRegistry indexes chars by id and case-insensitive name.
// All returns them ordered by numeric id.
func NewCharacterRegistry(chars []Character) CharacterRegistry {
	r := &characterRegistry{
		byID:   make(map[string]Character, len(chars)),
		byName: make(map[string]Character, len(chars)),
		all:    slices.Clone(chars),
	}
	slices.SortFunc(r.all, func(a, b Character) int {
		ai, aerr := strconv.Atoi(a.ID)
		bi, berr := strconv.Atoi(b.ID)
		if aerr == nil && berr == nil {
			return cmp.Compare(ai, bi)
		}
		return cmp.Compare(a.ID, b.ID)
	})
	for _, c := range r.all {
		r.byID[c.ID] = c
		r.byName[strings.ToLower(c.Name)] = c
	}
	return r
}

func (r *characterRegistry) ByID(id string) (Character, bool) {
	c, ok := r.byID[id]
	return c, ok
}

func (r *characterRegistry) ByName(name string) (Character, bool) {
	c, ok := r.byName[strings.ToLower(name)]
	return c, ok
}

func (r *characterRegistry) All() []Character {
	return slices.Clone(r.all)
}
