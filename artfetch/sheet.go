package artfetch

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
)

// Decode decodes fetched art bytes. PNG and JPEG are sniffed by magic bytes
// first; anything else falls through to the registered decoders.
func Decode(b []byte) (image.Image, string, error) {
	if len(b) >= 8 && bytes.Equal(b[:8], []byte{137, 80, 78, 71, 13, 10, 26, 10}) {
		img, err := png.Decode(bytes.NewReader(b))
		return img, "image/png", err
	}
	if len(b) >= 3 && b[0] == 0xFF && b[1] == 0xD8 && b[2] == 0xFF {
		img, err := jpeg.Decode(bytes.NewReader(b))
		return img, "image/jpeg", err
	}
	img, format, err := image.Decode(bytes.NewReader(b))
	return img, format, err
}

// Cut slices a horizontal sprite strip into n equally wide cells. The strip
// width must divide evenly.
func Cut(sheet image.Image, n int) ([]image.Image, error) {
	if n < 1 {
		return nil, fmt.Errorf("cut: need at least 1 cell, got %d", n)
	}
	b := sheet.Bounds()
	if b.Dx()%n != 0 {
		return nil, fmt.Errorf("cut: sheet width %d does not divide into %d cells", b.Dx(), n)
	}
	cw, ch := b.Dx()/n, b.Dy()
	cells := make([]image.Image, n)
	for i := 0; i < n; i++ {
		cell := image.NewRGBA(image.Rect(0, 0, cw, ch))
		Paste(cell, sheet, -i*cw, 0)
		cells[i] = cell
	}
	return cells, nil
}

// Paste copies src into dst at (x,y), clipping to dst's bounds.
func Paste(dst *image.RGBA, src image.Image, x, y int) {
	db := dst.Bounds()
	for sy := 0; sy < src.Bounds().Dy(); sy++ {
		dy := y + sy
		if dy < db.Min.Y || dy >= db.Max.Y {
			continue
		}
		for sx := 0; sx < src.Bounds().Dx(); sx++ {
			dx := x + sx
			if dx < db.Min.X || dx >= db.Max.X {
				continue
			}
			dst.Set(dx, dy, src.At(src.Bounds().Min.X+sx, src.Bounds().Min.Y+sy))
		}
	}
}
