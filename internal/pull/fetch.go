package pull

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	get "github.com/hashicorp/go-getter"
)

// Fetcher materialises the directory tree addressed by src into dst.
type Fetcher interface {
	Fetch(ctx context.Context, dst, src string) error
}

// GetterFetcher fetches with go-getter, so src may be any go-getter address,
// e.g. git::https://github.com/owner/repo.git//subdir?depth=1.
type GetterFetcher struct{}

func (GetterFetcher) Fetch(ctx context.Context, dst, src string) error {
	abs, err := filepath.Abs(dst)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", dst, err)
	}
	pwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	client := &get.Client{
		Ctx:  ctx,
		Src:  src,
		Dst:  abs,
		Pwd:  pwd,
		Mode: get.ClientModeDir,
	}
	if err := client.Get(); err != nil {
		return fmt.Errorf("get %s: %w", src, err)
	}
	return nil
}
