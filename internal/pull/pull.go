// Package pull rebuilds the local download tree from the upstream game data.
package pull

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-retryablehttp"
)

// Layout of the download tree.
const (
	ExcelDir    = "ExcelBinOutput"
	TextMapDir  = "TextMap"
	TextMapFile = "TextMapEN.json"
)

// Puller wipes and repopulates a download directory.
type Puller struct {
	Dir         string
	ExcelSource string
	TextMapURL  string

	fetcher Fetcher
	client  *retryablehttp.Client
	log     *slog.Logger
}

// New creates a Puller. A nil fetcher defaults to GetterFetcher.
func New(dir, excelSource, textMapURL string, fetcher Fetcher, client *retryablehttp.Client, log *slog.Logger) *Puller {
	if fetcher == nil {
		fetcher = GetterFetcher{}
	}
	return &Puller{
		Dir:         dir,
		ExcelSource: excelSource,
		TextMapURL:  textMapURL,
		fetcher:     fetcher,
		client:      client,
		log:         log,
	}
}

// ExcelPath is where the checked out subtree lives.
func (p *Puller) ExcelPath() string {
	return filepath.Join(p.Dir, ExcelDir)
}

// TextMapPath is where the downloaded text map lives.
func (p *Puller) TextMapPath() string {
	return filepath.Join(p.Dir, TextMapDir, TextMapFile)
}

// Run removes the download directory, recreates its layout, checks out the
// excel subtree and downloads the text map. It stops at the first failure.
func (p *Puller) Run(ctx context.Context) error {
	if err := os.RemoveAll(p.Dir); err != nil {
		return fmt.Errorf("remove %s: %w", p.Dir, err)
	}
	for _, d := range []string{p.ExcelPath(), filepath.Dir(p.TextMapPath())} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", d, err)
		}
	}

	p.log.Info("checking out", "source", p.ExcelSource, "dst", p.ExcelPath())
	if err := p.fetcher.Fetch(ctx, p.ExcelPath(), p.ExcelSource); err != nil {
		return fmt.Errorf("check out %s: %w", ExcelDir, err)
	}
	p.log.Info("checked out", "dst", p.ExcelPath())

	p.log.Info("downloading", "url", p.TextMapURL, "dst", p.TextMapPath())
	n, err := download(ctx, p.client, p.TextMapURL, p.TextMapPath())
	if err != nil {
		return fmt.Errorf("download %s: %w", TextMapFile, err)
	}
	p.log.Info("downloaded", "dst", p.TextMapPath(), "size", formatSize(n))
	return nil
}
