package pull

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OCharnyshevich/paimon/internal/logging"
)

const textMapURL = "https://example.com/TextMap/TextMapEN.json"

type fakeFetcher struct {
	calls int
	err   error
}

func (f *fakeFetcher) Fetch(_ context.Context, dst, src string) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	return os.WriteFile(filepath.Join(dst, "AvatarExcelConfigData.json"), []byte(`[]`), 0o644)
}

func newTestPuller(t *testing.T, f Fetcher) *Puller {
	t.Helper()
	log := logging.Discard()
	client := NewHTTPClient(1, log)
	client.RetryWaitMin = time.Millisecond
	client.RetryWaitMax = time.Millisecond
	httpmock.ActivateNonDefault(client.HTTPClient)
	t.Cleanup(httpmock.DeactivateAndReset)
	dir := filepath.Join(t.TempDir(), "download")
	return New(dir, "git::https://example.com/data.git//ExcelBinOutput", textMapURL, f, client, log)
}

func TestRun_BuildsLayout(t *testing.T) {
	f := &fakeFetcher{}
	p := newTestPuller(t, f)
	httpmock.RegisterResponder("GET", textMapURL, httpmock.NewStringResponder(http.StatusOK, `{"1":"Amber"}`))

	require.NoError(t, p.Run(context.Background()))

	assert.Equal(t, 1, f.calls)
	assert.FileExists(t, filepath.Join(p.ExcelPath(), "AvatarExcelConfigData.json"))
	data, err := os.ReadFile(p.TextMapPath())
	require.NoError(t, err)
	assert.JSONEq(t, `{"1":"Amber"}`, string(data))

	leftovers, err := filepath.Glob(filepath.Join(p.Dir, TextMapDir, "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestRun_WipesPreviousTree(t *testing.T) {
	p := newTestPuller(t, &fakeFetcher{})
	httpmock.RegisterResponder("GET", textMapURL, httpmock.NewStringResponder(http.StatusOK, `{}`))

	stale := filepath.Join(p.Dir, "stale.txt")
	require.NoError(t, os.MkdirAll(p.Dir, 0o755))
	require.NoError(t, os.WriteFile(stale, []byte("old"), 0o644))

	require.NoError(t, p.Run(context.Background()))
	assert.NoFileExists(t, stale)

	// a second run rebuilds the same tree
	require.NoError(t, p.Run(context.Background()))
	assert.FileExists(t, p.TextMapPath())
	assert.DirExists(t, p.ExcelPath())
}

func TestRun_FetchFailureStopsBeforeDownload(t *testing.T) {
	boom := errors.New("boom")
	p := newTestPuller(t, &fakeFetcher{err: boom})
	httpmock.RegisterResponder("GET", textMapURL, httpmock.NewStringResponder(http.StatusOK, `{}`))

	err := p.Run(context.Background())

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, httpmock.GetTotalCallCount())
	assert.NoFileExists(t, p.TextMapPath())
}

func TestRun_BadStatus(t *testing.T) {
	p := newTestPuller(t, &fakeFetcher{})
	httpmock.RegisterResponder("GET", textMapURL, httpmock.NewStringResponder(http.StatusNotFound, "missing"))

	err := p.Run(context.Background())

	assert.ErrorIs(t, err, ErrBadStatus)
	assert.NoFileExists(t, p.TextMapPath())
}

func TestRun_RetriesServerErrors(t *testing.T) {
	p := newTestPuller(t, &fakeFetcher{})
	httpmock.RegisterResponder("GET", textMapURL,
		httpmock.NewStringResponder(http.StatusServiceUnavailable, "busy").
			Then(httpmock.NewStringResponder(http.StatusOK, `{"2":"Kaeya"}`)))

	require.NoError(t, p.Run(context.Background()))
	assert.Equal(t, 2, httpmock.GetTotalCallCount())
}

func TestRun_CancelledContext(t *testing.T) {
	p := newTestPuller(t, &fakeFetcher{})
	httpmock.RegisterResponder("GET", textMapURL, httpmock.NewStringResponder(http.StatusOK, `{}`))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, p.Run(ctx))
	assert.NoFileExists(t, p.TextMapPath())
}

func TestLogResponse_WarnsOnHTTPError(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	client := NewHTTPClient(0, log)
	httpmock.ActivateNonDefault(client.HTTPClient)
	defer httpmock.DeactivateAndReset()
	httpmock.RegisterResponder("GET", textMapURL, httpmock.NewStringResponder(http.StatusForbidden, "no"))

	resp, err := client.Get(textMapURL)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Contains(t, buf.String(), "level=WARN msg=\"HTTP response\"")
	assert.Contains(t, buf.String(), "403 Forbidden")
}
