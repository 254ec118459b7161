// Package storage persists the character database.
package storage

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/OCharnyshevich/paimon/pkg/gamedata"
)

// record is a character as stored in the JSON file. Fields are declared in
// key order so the output has sorted keys at every level.
type record struct {
	Description string `json:"description"`
	Element     string `json:"element"`
	Name        string `json:"name"`
	Rarity      string `json:"rarity"`
	Weapon      string `json:"weapon"`
}

// WriteCharacters writes chars to path as a JSON object keyed by character
// id, creating parent directories as needed. Keys are sorted.
func WriteCharacters(path string, chars []gamedata.Character, log *slog.Logger) error {
	byID := make(map[string]record, len(chars))
	for _, c := range chars {
		byID[c.ID] = record{
			Description: c.Description,
			Element:     c.Element,
			Name:        c.Name,
			Rarity:      c.Rarity,
			Weapon:      c.Weapon,
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", filepath.Dir(path), err)
	}
	log.Info("write data", "path", path, "characters", len(byID))
	if err := atomicWriteJSON(path, byID); err != nil {
		log.Error("write data failed", "path", path, "error", err)
		return err
	}
	log.Info("write data done", "path", path)
	return nil
}

// atomicWriteJSON marshals v to JSON and writes it atomically using a temp file + rename.
func atomicWriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	data = append(data, '\n')

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
