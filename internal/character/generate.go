// Package character builds the playable character database from the
// upstream tables.
package character

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/OCharnyshevich/paimon/internal/gamedata"
	pkggamedata "github.com/OCharnyshevich/paimon/pkg/gamedata"
)

// ErrUnknownTravelerBody is returned for a traveler avatar whose body type
// does not map to one of the twins.
var ErrUnknownTravelerBody = errors.New("unknown traveler body type")

var rarities = map[string]string{
	"QUALITY_PURPLE":    "4",
	"QUALITY_ORANGE":    "5",
	"QUALITY_ORANGE_SP": "5",
}

var travelers = map[string]string{
	"BODY_BOY":  "Aether",
	"BODY_GIRL": "Lumine",
}

// Source is the subset of gamedata.Lookup the generator reads.
type Source interface {
	Avatars() []gamedata.Avatar
	Fetters() []gamedata.Fetter
	Avatar(id int) (gamedata.Avatar, error)
	ManualTextMap(id string) (gamedata.Hash, error)
	TextMap(hash gamedata.Hash) (string, error)
}

// Database maps character ids to characters.
type Database map[string]*pkggamedata.Character

// stage fills one field of every character. Stages run in order.
type stage struct {
	name string
	fn   func(src Source, db Database, log *slog.Logger) error
}

var stages = []stage{
	{"setup", setup},
	{"description", addDescription},
	{"rarity", addRarity},
	{"element", addElement},
	{"weapon", addWeapon},
}

// Generate runs every stage over src and returns the finished database.
func Generate(src Source, log *slog.Logger) (Database, error) {
	db := Database{}
	for _, s := range stages {
		if err := s.fn(src, db, log); err != nil {
			return nil, fmt.Errorf("stage %s: %w", s.name, err)
		}
		log.Debug("stage done", "stage", s.name, "characters", len(db))
	}
	return db, nil
}

// List returns the database as a slice, in no particular order.
func (db Database) List() []pkggamedata.Character {
	out := make([]pkggamedata.Character, 0, len(db))
	for _, c := range db {
		out = append(out, *c)
	}
	return out
}

func setup(src Source, db Database, log *slog.Logger) error {
	for _, a := range src.Avatars() {
		if !gamedata.IsPlayable(a) {
			continue
		}
		name, err := src.TextMap(a.NameTextMapHash)
		if err != nil {
			return err
		}
		if strings.EqualFold(name, "traveler") {
			twin, ok := travelers[a.BodyType]
			if !ok {
				return fmt.Errorf("%w: avatar %d has %q", ErrUnknownTravelerBody, a.ID, a.BodyType)
			}
			name = twin
		}
		id := strconv.Itoa(a.ID)
		log.Debug("character", "name", name, "id", id)
		db[id] = &pkggamedata.Character{ID: id, Name: name}
	}
	return nil
}

func addDescription(src Source, db Database, log *slog.Logger) error {
	for id, c := range db {
		a, err := avatar(src, id)
		if err != nil {
			return err
		}
		desc, err := src.TextMap(a.DescTextMapHash)
		if err != nil {
			return err
		}
		log.Debug("description", "name", c.Name, "description", desc)
		c.Description = desc
	}
	return nil
}

func addRarity(src Source, db Database, log *slog.Logger) error {
	for id, c := range db {
		a, err := avatar(src, id)
		if err != nil {
			return err
		}
		c.Rarity = rarities[a.QualityType]
		log.Debug("rarity", "name", c.Name, "rarity", c.Rarity)
	}
	return nil
}

// addElement reads the vision from the fetter table. Archons have the same
// text before and after their vision reveal; the "before" text is used.
func addElement(src Source, db Database, log *slog.Logger) error {
	for _, f := range src.Fetters() {
		c, ok := db[strconv.Itoa(f.AvatarID)]
		if !ok {
			log.Debug("skip fetter of unknown character", "avatarId", f.AvatarID)
			continue
		}
		before, err := src.TextMap(f.VisionBeforeTextMapHash)
		if err != nil {
			return err
		}
		after, err := src.TextMap(f.VisionAfterTextMapHash)
		if err != nil {
			return err
		}
		log.Debug("element", "name", c.Name, "visionBefore", before, "visionAfter", after)
		c.Element = before
	}
	return nil
}

func addWeapon(src Source, db Database, log *slog.Logger) error {
	for id, c := range db {
		a, err := avatar(src, id)
		if err != nil {
			return err
		}
		hash, err := src.ManualTextMap(a.WeaponType)
		if err != nil {
			return err
		}
		weapon, err := src.TextMap(hash)
		if err != nil {
			return err
		}
		log.Debug("weapon", "name", c.Name, "weapon", weapon)
		c.Weapon = weapon
	}
	return nil
}

func avatar(src Source, id string) (gamedata.Avatar, error) {
	n, err := strconv.Atoi(id)
	if err != nil {
		return gamedata.Avatar{}, fmt.Errorf("invalid character id %q: %w", id, err)
	}
	return src.Avatar(n)
}
