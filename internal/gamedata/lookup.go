// Package gamedata reads the downloaded upstream tables and answers lookups
// across them.
package gamedata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"
)

const formalUseType = "AVATAR_FORMAL"

var (
	ErrAvatarNotFound        = errors.New("avatar not found")
	ErrManualTextMapNotFound = errors.New("manual text map entry not found")
	ErrTextMapHashNotFound   = errors.New("text map hash not found")
)

// Files lists the tables Open reads, relative to the download directory.
var Files = struct {
	Avatars, Fetters, ManualTextMap, TextMap string
}{
	Avatars:       filepath.Join("ExcelBinOutput", "AvatarExcelConfigData.json"),
	Fetters:       filepath.Join("ExcelBinOutput", "FetterInfoExcelConfigData.json"),
	ManualTextMap: filepath.Join("ExcelBinOutput", "ManualTextMapConfigData.json"),
	TextMap:       filepath.Join("TextMap", "TextMapEN.json"),
}

// Lookup holds the loaded tables.
type Lookup struct {
	avatars []Avatar
	fetters []Fetter
	manual  []ManualTextMap
	textMap TextMap

	playable map[int]*Avatar
	manualID map[string]Hash
	log      *slog.Logger
}

// Open loads the four tables below dir concurrently.
func Open(ctx context.Context, dir string, log *slog.Logger) (*Lookup, error) {
	l := &Lookup{log: log}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return readJSON(ctx, filepath.Join(dir, Files.Avatars), &l.avatars, log) })
	g.Go(func() error { return readJSON(ctx, filepath.Join(dir, Files.Fetters), &l.fetters, log) })
	g.Go(func() error { return readJSON(ctx, filepath.Join(dir, Files.ManualTextMap), &l.manual, log) })
	g.Go(func() error { return readJSON(ctx, filepath.Join(dir, Files.TextMap), &l.textMap, log) })
	if err := g.Wait(); err != nil {
		return nil, err
	}

	l.index()
	return l, nil
}

// New builds a Lookup from already decoded tables.
func New(avatars []Avatar, fetters []Fetter, manual []ManualTextMap, textMap TextMap, log *slog.Logger) *Lookup {
	l := &Lookup{
		avatars: avatars,
		fetters: fetters,
		manual:  manual,
		textMap: textMap,
		log:     log,
	}
	l.index()
	return l
}

func (l *Lookup) index() {
	l.playable = make(map[int]*Avatar)
	for i := range l.avatars {
		a := &l.avatars[i]
		if IsPlayable(*a) {
			l.playable[a.ID] = a
		}
	}
	l.manualID = make(map[string]Hash, len(l.manual))
	for _, m := range l.manual {
		if _, dup := l.manualID[m.TextMapID]; !dup {
			l.manualID[m.TextMapID] = m.ContentHash
		}
	}
}

func readJSON(ctx context.Context, path string, v any, log *slog.Logger) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	log.Info("read", "path", path)
	data, err := os.ReadFile(path)
	if err != nil {
		log.Error("read failed", "path", path, "error", err)
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	log.Info("read done", "path", path)
	return nil
}

// IsPlayable reports whether a is a released playable character.
func IsPlayable(a Avatar) bool {
	return a.UseType == formalUseType
}

// Avatars returns every avatar record in file order.
func (l *Lookup) Avatars() []Avatar {
	return l.avatars
}

// Fetters returns every fetter record in file order.
func (l *Lookup) Fetters() []Fetter {
	return l.fetters
}

// Avatar returns the playable avatar with the given id.
func (l *Lookup) Avatar(id int) (Avatar, error) {
	a, ok := l.playable[id]
	if !ok {
		l.log.Error("unable to find avatar", "id", id)
		return Avatar{}, fmt.Errorf("%w: %d", ErrAvatarNotFound, id)
	}
	return *a, nil
}

// ManualTextMap resolves a manual text map id (e.g. WEAPON_SWORD_ONE_HAND)
// to a text map hash.
func (l *Lookup) ManualTextMap(id string) (Hash, error) {
	h, ok := l.manualID[id]
	if !ok {
		l.log.Error("unable to find manual text map entry", "id", id)
		return 0, fmt.Errorf("%w: %s", ErrManualTextMapNotFound, id)
	}
	return h, nil
}

// TextMap returns the display text for hash.
func (l *Lookup) TextMap(hash Hash) (string, error) {
	v, ok := l.textMap[hash.String()]
	if !ok {
		l.log.Error("invalid text map hash", "hash", hash)
		return "", fmt.Errorf("%w: %s", ErrTextMapHashNotFound, hash)
	}
	return v, nil
}
