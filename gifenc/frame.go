package gifenc

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput marks inputs the encoder cannot work with: an empty
	// pixel buffer, a buffer whose length does not match width*height*4,
	// or an empty frame list. Not retriable; the call itself is wrong.
	ErrInvalidInput = errors.New("gifenc: invalid input")

	// ErrEncodingOverflow marks an LZW code escaping the 12-bit ceiling.
	// The capped-growth logic makes this unreachable; it exists so a bug
	// surfaces as an error instead of a corrupt byte stream.
	ErrEncodingOverflow = errors.New("gifenc: lzw code overflow")
)

// Frame is one input unit: an RGBA pixel buffer in row-major order plus the
// time the frame stays on screen. Pix is borrowed from the caller and never
// mutated.
type Frame struct {
	Pix     []byte // 4 bytes per pixel, length must be width*height*4
	DelayMS int
}

func (f Frame) validate(width, height int) error {
	if len(f.Pix) == 0 {
		return fmt.Errorf("empty pixel buffer: %w", ErrInvalidInput)
	}
	if want := width * height * 4; len(f.Pix) != want {
		return fmt.Errorf("pixel buffer is %d bytes, want %d for %dx%d RGBA: %w",
			len(f.Pix), want, width, height, ErrInvalidInput)
	}
	return nil
}
