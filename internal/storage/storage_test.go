package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OCharnyshevich/paimon/internal/logging"
	"github.com/OCharnyshevich/paimon/pkg/gamedata"
)

var sample = []gamedata.Character{
	{ID: "10000021", Name: "Amber", Description: "Outrider", Rarity: "4", Element: "Pyro", Weapon: "Bow"},
	{ID: "10000003", Name: "Jean", Description: "Acting Grand Master", Rarity: "5", Element: "Anemo", Weapon: "Sword"},
}

func TestWriteCharacters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc", "avatar_sample.json")

	require.NoError(t, WriteCharacters(path, sample, logging.Discard()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.True(t, strings.HasSuffix(text, "}\n"))
	assert.Less(t, strings.Index(text, `"10000003"`), strings.Index(text, `"10000021"`))
	assert.Contains(t, text, "\n    \"10000003\": {\n        \"description\"")
	assert.NoFileExists(t, path+".tmp")

	gd, err := gamedata.LoadJSON(path)
	require.NoError(t, err)
	assert.Equal(t, []gamedata.Character{sample[1], sample[0]}, gd.Characters.All())
}

func TestDB_ReplaceAndList(t *testing.T) {
	ctx := context.Background()
	db, err := OpenDB(filepath.Join(t.TempDir(), "paimon.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.ReplaceCharacters(ctx, sample))
	got, err := db.ListCharacters(ctx)
	require.NoError(t, err)
	assert.Equal(t, []gamedata.Character{sample[1], sample[0]}, got)

	require.NoError(t, db.ReplaceCharacters(ctx, sample[:1]))
	got, err = db.ListCharacters(ctx)
	require.NoError(t, err)
	assert.Equal(t, sample[:1], got)

	c, ok, err := db.CharacterByName(ctx, "AMBER")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, sample[0], c)

	_, ok, err = db.CharacterByName(ctx, "Jean")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDB_DuplicateIDRollsBack(t *testing.T) {
	ctx := context.Background()
	db, err := OpenDB(filepath.Join(t.TempDir(), "paimon.db"))
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.ReplaceCharacters(ctx, sample))

	err = db.ReplaceCharacters(ctx, []gamedata.Character{sample[0], sample[0]})
	assert.Error(t, err)

	got, err := db.ListCharacters(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestOpenDB_EmptyPath(t *testing.T) {
	_, err := OpenDB("  ")
	assert.Error(t, err)
}
