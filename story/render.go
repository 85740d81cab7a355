package story

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/tverron/storygif/gifenc"
)

// Sprite is a character's artwork: one image, or a strip of equally sized
// cells cycled while the character is on screen.
type Sprite struct {
	Cells []image.Image
}

// cell picks the strip cell showing at elapsedMS given the cycle rate.
func (s *Sprite) cell(elapsedMS, rateMS int) image.Image {
	if len(s.Cells) == 1 {
		return s.Cells[0]
	}
	if rateMS < 1 {
		rateMS = 1
	}
	return s.Cells[(elapsedMS/rateMS)%len(s.Cells)]
}

// Assets resolves manifest art references to decoded images. Hex-color
// backdrops are handled by the renderer itself and never reach Assets.
type Assets interface {
	Background(ctx context.Context, ref string, width, height int) (image.Image, error)
	Sprite(ctx context.Context, ref string, cells int) (*Sprite, error)
}

// Renderer turns a manifest into the frame sequence the encoder consumes.
type Renderer struct {
	Manifest *Manifest
	Assets   Assets

	// OnFrame, when set, is called after each rendered frame.
	OnFrame func(i int)
}

// Frames renders every scene in manifest order. Each frame owns its pixel
// buffer; nothing is shared with the canvas of another frame.
func (r *Renderer) Frames(ctx context.Context) ([]gifenc.Frame, error) {
	m := r.Manifest
	delayMS := m.FrameDelayMS()
	captionColor, err := ParseHexColor(m.CaptionColor)
	if err != nil {
		return nil, fmt.Errorf("caption_color: %w", err)
	}

	frames := make([]gifenc.Frame, 0, m.FrameCount())
	frameIdx := 0
	for si, sc := range m.Scenes {
		bg, err := r.backdrop(ctx, sc)
		if err != nil {
			return nil, fmt.Errorf("scene %d backdrop: %w", si, err)
		}
		sprites := make([]*Sprite, len(sc.Characters))
		for ci, ch := range sc.Characters {
			sp, err := r.Assets.Sprite(ctx, ch.Sprite, ch.SheetCells)
			if err != nil {
				return nil, fmt.Errorf("scene %d sprite %q: %w", si, ch.Sprite, err)
			}
			sprites[ci] = sp
		}

		n := m.sceneFrames(sc)
		for f := 0; f < n; f++ {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			elapsed := f * delayMS

			canvas := image.NewRGBA(image.Rect(0, 0, m.Width, m.Height))
			draw.Draw(canvas, canvas.Bounds(), bg, image.Point{}, draw.Src)
			for ci, ch := range sc.Characters {
				r.drawCharacter(canvas, sprites[ci], ch, elapsed)
			}
			if sc.Caption != "" {
				drawCaption(canvas, sc.Caption, captionColor)
			}

			frames = append(frames, gifenc.Frame{Pix: canvas.Pix, DelayMS: delayMS})
			if r.OnFrame != nil {
				r.OnFrame(frameIdx)
			}
			frameIdx++
		}
	}
	return frames, nil
}

// backdrop resolves the scene background: a solid hex color is synthesized
// locally, anything else goes through Assets.
func (r *Renderer) backdrop(ctx context.Context, sc Scene) (image.Image, error) {
	ref := sc.Background
	if ref == "" {
		ref = r.Manifest.Background
	}
	if strings.HasPrefix(ref, "#") {
		c, err := ParseHexColor(ref)
		if err != nil {
			return nil, err
		}
		return image.NewUniform(c), nil
	}
	return r.Assets.Background(ctx, ref, r.Manifest.Width, r.Manifest.Height)
}

func (r *Renderer) drawCharacter(canvas *image.RGBA, sp *Sprite, ch Character, elapsedMS int) {
	if sp == nil || len(sp.Cells) == 0 {
		return
	}
	p := poseAt(ch.Keyframes, elapsedMS)
	if p.Scale <= 0 {
		return
	}
	img := sp.cell(elapsedMS, ch.CellRateMS)
	sb := img.Bounds()
	w := int(float64(sb.Dx()) * p.Scale)
	h := int(float64(sb.Dy()) * p.Scale)
	if w < 1 || h < 1 {
		return
	}
	dst := image.Rect(int(p.X), int(p.Y), int(p.X)+w, int(p.Y)+h)
	xdraw.ApproxBiLinear.Scale(canvas, dst, img, sb, xdraw.Over, nil)
}

// drawCaption draws centered text near the bottom edge with a 1px shadow so
// it stays readable on light backdrops.
func drawCaption(canvas *image.RGBA, text string, c color.Color) {
	face := basicfont.Face7x13
	d := font.Drawer{Dst: canvas, Face: face}
	textW := d.MeasureString(text).Ceil()

	b := canvas.Bounds()
	x := (b.Dx() - textW) / 2
	if x < 2 {
		x = 2
	}
	y := b.Dy() - 8

	d.Src = image.NewUniform(color.Black)
	d.Dot = fixed.P(x+1, y+1)
	d.DrawString(text)

	d.Src = image.NewUniform(c)
	d.Dot = fixed.P(x, y)
	d.DrawString(text)
}
