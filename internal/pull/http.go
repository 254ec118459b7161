package pull

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/hashicorp/go-retryablehttp"
)

// ErrBadStatus is returned when the server answers with a non-2xx status.
var ErrBadStatus = errors.New("unexpected HTTP status")

// NewHTTPClient returns a retrying client which logs through log.
func NewHTTPClient(retries int, log *slog.Logger) *retryablehttp.Client {
	c := retryablehttp.NewClient()
	c.RetryMax = retries
	c.Logger = log
	c.ResponseLogHook = logResponse(log)
	return c
}

// logResponse logs HTTP errors as warnings and everything else at debug level.
func logResponse(log *slog.Logger) retryablehttp.ResponseLogHook {
	return func(_ retryablehttp.Logger, r *http.Response) {
		level := slog.LevelDebug
		if r.StatusCode >= 400 {
			level = slog.LevelWarn
		}
		log.Log(context.Background(), level, "HTTP response",
			"method", r.Request.Method,
			"url", r.Request.URL,
			"status", fmt.Sprintf("%d %s", r.StatusCode, http.StatusText(r.StatusCode)),
			"contentLength", r.ContentLength,
		)
	}
}

// download writes the body of url to path. The file only appears once the
// body was received completely.
func download(ctx context.Context, client *retryablehttp.Client, url, path string) (int64, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("get %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, fmt.Errorf("get %s: %w: %s", url, ErrBadStatus, resp.Status)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	n, err := io.Copy(tmp, resp.Body)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp.Name())
		return 0, fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return 0, fmt.Errorf("rename temp file: %w", err)
	}
	return n, nil
}

func formatSize(n int64) string {
	if n < 0 {
		return "unknown"
	}
	return humanize.Bytes(uint64(n))
}
