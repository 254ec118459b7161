package gamedata

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"
)

var sources = map[string]func(path string) (*GameData, error){}

func init() {
	Register("json", LoadJSON)
}

// Register makes a source format available to Load under name.
func Register(name string, factory func(path string) (*GameData, error)) {
	sources[name] = factory
}

// Load opens path with the source registered under name.
func Load(name, path string) (*GameData, error) {
	f, ok := sources[name]
	if !ok {
		return nil, fmt.Errorf("unknown source: %s", name)
	}
	return f(path)
}

func RegisteredSources() []string {
	names := make([]string, 0, len(sources))
	for name := range sources {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// LoadJSON reads a character database written by the generator: an object
// keyed by character id.
func LoadJSON(path string) (*GameData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var byID map[string]Character
	if err := json.Unmarshal(data, &byID); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	chars := make([]Character, 0, len(byID))
	for id, c := range byID {
		c.ID = id
		chars = append(chars, c)
	}
	attrs, err := Attributes()
	if err != nil {
		return nil, err
	}
	return &GameData{
		Characters: NewCharacterRegistry(chars),
		Attributes: attrs,
	}, nil
}
