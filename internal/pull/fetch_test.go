package pull

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gitRepo creates a local repository with one commit holding files.
func gitRepo(t *testing.T, files map[string]string) string {
	t.Helper()
	repo := t.TempDir()
	for name, content := range files {
		path := filepath.Join(repo, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	for _, args := range [][]string{
		{"init", "-q"},
		{"add", "."},
		{"-c", "user.email=paimon@example.com", "-c", "user.name=paimon", "-c", "commit.gpgsign=false", "commit", "-q", "-m", "init"},
	} {
		cmd := exec.Command("git", args...)
		cmd.Dir = repo
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, string(out))
	}
	return repo
}

func TestGetterFetcher_GitSubdir(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	repo := gitRepo(t, map[string]string{
		"ExcelBinOutput/AvatarExcelConfigData.json": `[{"Id": 10000021}]`,
		"TextMap/TextMapEN.json":                    `{}`,
	})
	// Run creates the destination before fetching into it.
	dst := filepath.Join(t.TempDir(), "download", ExcelDir)
	require.NoError(t, os.MkdirAll(dst, 0o755))

	err := GetterFetcher{}.Fetch(context.Background(), dst, "git::file://"+repo+"//ExcelBinOutput?depth=1")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dst, "AvatarExcelConfigData.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `[{"Id": 10000021}]`, string(data))
	assert.NoFileExists(t, filepath.Join(dst, "TextMapEN.json"))
	assert.NoDirExists(t, filepath.Join(dst, "TextMap"))
}

func TestGetterFetcher_MissingRepo(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	dst := t.TempDir()
	err := GetterFetcher{}.Fetch(context.Background(), dst, "git::file://"+filepath.Join(t.TempDir(), "nothing")+"//ExcelBinOutput")
	assert.Error(t, err)
}
