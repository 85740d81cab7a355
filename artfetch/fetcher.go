// Package artfetch acquires story artwork (backgrounds, character sprites)
// over HTTP with a local disk cache and a polite request rate.
package artfetch

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

type Fetcher struct {
	Client     *http.Client
	Limiter    *rate.Limiter
	CacheDir   string
	UserAgent  string
	MaxRetries int
}

func NewFetcher(cacheDir string, rps float64, burst int, timeout time.Duration) (*Fetcher, error) {
	if cacheDir == "" {
		cacheDir = ".art-cache"
	}
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return nil, err
	}
	return &Fetcher{
		Client: &http.Client{
			Timeout: timeout,
		},
		Limiter:    rate.NewLimiter(rate.Limit(rps), burst),
		CacheDir:   cacheDir,
		UserAgent:  "storygif/1.0 (story art fetcher)",
		MaxRetries: 3,
	}, nil
}

func (f *Fetcher) cachePath(u string) string {
	sum := sha1.Sum([]byte(u))
	hexid := hex.EncodeToString(sum[:])
	ext := ".art"
	if i := strings.IndexByte(u, '?'); i >= 0 {
		u = u[:i]
	}
	if j := strings.LastIndexByte(u, '.'); j >= 0 && j > len(u)-6 {
		ext = u[j:]
		if len(ext) > 5 {
			ext = ".art"
		}
	}
	return filepath.Join(f.CacheDir, hexid[:2], hexid+ext)
}

// Get returns the raw bytes for one art URL, preferring the disk cache.
// Cache writes go through a temp file and rename so a crashed run never
// leaves a truncated entry.
func (f *Fetcher) Get(ctx context.Context, url string) ([]byte, error) {
	cp := f.cachePath(url)
	if b, err := os.ReadFile(cp); err == nil {
		return b, nil
	}
	if err := os.MkdirAll(filepath.Dir(cp), 0o755); err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 0; attempt < f.MaxRetries; attempt++ {
		if err := f.Limiter.Wait(ctx); err != nil {
			return nil, err
		}
		body, err := f.fetchOnce(ctx, url)
		if err != nil {
			lastErr = err
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(200+attempt*250) * time.Millisecond):
			}
			continue
		}
		tmp := cp + ".tmp"
		if err := os.WriteFile(tmp, body, 0o644); err != nil {
			return nil, err
		}
		if err := os.Rename(tmp, cp); err != nil {
			return nil, err
		}
		return body, nil
	}
	return nil, fmt.Errorf("fetch %s: %w", url, lastErr)
}

func (f *Fetcher) fetchOnce(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", f.UserAgent)

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 2<<10))
		return nil, fmt.Errorf("art HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
	return io.ReadAll(resp.Body)
}
