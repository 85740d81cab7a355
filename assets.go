package main

import (
	"context"
	"fmt"
	"image"
	"os"
	"strings"

	xdraw "golang.org/x/image/draw"

	"github.com/tverron/storygif/artfetch"
	"github.com/tverron/storygif/story"
)

// fileAssets resolves manifest art references in order: named preset, http(s)
// URL, local file path.
type fileAssets struct {
	fetcher *artfetch.Fetcher
}

func (a *fileAssets) Background(ctx context.Context, ref string, width, height int) (image.Image, error) {
	img, err := a.load(ctx, ref, width, height)
	if err != nil {
		return nil, err
	}
	if b := img.Bounds(); b.Dx() == width && b.Dy() == height {
		return img, nil
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return dst, nil
}

func (a *fileAssets) Sprite(ctx context.Context, ref string, cells int) (*story.Sprite, error) {
	img, err := a.load(ctx, ref, 0, 0)
	if err != nil {
		return nil, err
	}
	if cells > 1 {
		cut, err := artfetch.Cut(img, cells)
		if err != nil {
			return nil, err
		}
		return &story.Sprite{Cells: cut}, nil
	}
	return &story.Sprite{Cells: []image.Image{img}}, nil
}

func (a *fileAssets) load(ctx context.Context, ref string, width, height int) (image.Image, error) {
	var (
		raw []byte
		err error
	)
	switch {
	case width > 0 && isPreset(ref):
		p := artfetch.Presets[ref]
		u, uerr := p.FillURL(width, height)
		if uerr != nil {
			return nil, uerr
		}
		raw, err = a.fetcher.Get(ctx, u)
	case strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://"):
		raw, err = a.fetcher.Get(ctx, ref)
	default:
		raw, err = os.ReadFile(ref)
	}
	if err != nil {
		return nil, err
	}
	img, _, err := artfetch.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", ref, err)
	}
	return img, nil
}

func isPreset(ref string) bool {
	_, ok := artfetch.Presets[ref]
	return ok
}
