package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/tverron/storygif/artfetch"
	"github.com/tverron/storygif/gifenc"
	"github.com/tverron/storygif/story"
)

var (
	manifestPath = flag.String("manifest", "story.toml", "path to the story manifest (TOML)")
	outGIF       = flag.String("out", "story.gif", "where to write the animated GIF")
	cacheDir     = flag.String("cache", "", "art cache dir (overrides manifest fetch.cache_dir)")
	pprofAddr    = flag.String("pprof", "", "enable pprof on this address (e.g. 127.0.0.1:6060), empty = off")
	timeout      = flag.Duration("timeout", 10*time.Minute, "hard timeout for the whole run")
)

func main() {
	flag.Parse()

	if *pprofAddr != "" {
		enablePPROF(*pprofAddr)
	}

	ctx, cancel := withTimeout(context.Background(), *timeout)
	defer cancel()

	if err := run(ctx, *manifestPath, *outGIF, *cacheDir); err != nil {
		log.Fatalf("error: %v", err)
	}
	log.Printf("done: %s", *outGIF)
}

func run(ctx context.Context, manifestPath, outPath, cacheOverride string) error {
	m, err := story.LoadManifest(manifestPath)
	if err != nil {
		return fmt.Errorf("manifest %s: %w", manifestPath, err)
	}

	cache := m.Fetch.CacheDir
	if cacheOverride != "" {
		cache = cacheOverride
	}
	fetcher, err := artfetch.NewFetcher(cache, m.Fetch.RPS, m.Fetch.Burst, m.Fetch.Timeout())
	if err != nil {
		return fmt.Errorf("art fetcher: %w", err)
	}

	total := m.FrameCount()
	bars := NewBars(total, total)
	defer bars.Done()

	r := &story.Renderer{
		Manifest: m,
		Assets:   &fileAssets{fetcher: fetcher},
		OnFrame:  func(int) { bars.IncRender() },
	}
	frames, err := r.Frames(ctx)
	if err != nil {
		return fmt.Errorf("render frames: %w", err)
	}

	enc := gifenc.Encoder{
		Width:   m.Width,
		Height:  m.Height,
		Loop:    m.Loop,
		OnFrame: func(int) { bars.IncEncode() },
	}
	buf, err := enc.EncodeAll(frames)
	if err != nil {
		return fmt.Errorf("encode gif: %w", err)
	}

	// Write to a temp name first so a failed run never leaves a half-written
	// GIF at the target path.
	tmp := outPath + ".part"
	if err := os.WriteFile(tmp, buf, 0o644); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, outPath); err != nil {
		if err := copyFile(tmp, outPath); err != nil {
			return fmt.Errorf("rename/copy gif: %w", err)
		}
		_ = os.Remove(tmp)
	}
	return nil
}

func copyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() { _ = out.Close() }()
	if _, err := out.ReadFrom(in); err != nil {
		return err
	}
	return out.Sync()
}
