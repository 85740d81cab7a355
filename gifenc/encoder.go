// Package gifenc encodes a sequence of RGBA frames into an animated GIF89a
// byte stream built from first principles: a histogram color quantizer, an
// LZW compressor and the container block grammar, with no platform codec
// underneath.
package gifenc

import (
	"fmt"
	"runtime"
	"sync"
)

// Encoder holds the per-call encoding parameters. It keeps no state across
// calls, so distinct encodes may run concurrently on independent inputs.
type Encoder struct {
	Width  int
	Height int
	Loop   bool

	// OnFrame, when set, is called after each frame's blocks are assembled,
	// in input order. Used for progress reporting.
	OnFrame func(i int)
}

// EncodeAll encodes frames into a complete GIF with the given dimensions and
// loop flag. It is shorthand for configuring an Encoder.
func EncodeAll(frames []Frame, width, height int, loop bool) ([]byte, error) {
	e := Encoder{Width: width, Height: height, Loop: loop}
	return e.EncodeAll(frames)
}

type quantized struct {
	pal     Palette
	indexed []byte
	err     error
}

// EncodeAll runs the full pipeline: every frame is quantized to its own
// local palette, LZW-compressed, and serialized as a graphic control
// extension, image descriptor, local color table and sub-blocked image data,
// between the header blocks and the trailer.
//
// Quantization has no cross-frame dependency and runs on a bounded worker
// pool; compression and block assembly then run strictly in input order, so
// the output is byte-identical to a serial encode. On any per-frame error
// the whole call fails and no bytes are returned.
func (e *Encoder) EncodeAll(frames []Frame) ([]byte, error) {
	if len(frames) == 0 {
		return nil, fmt.Errorf("gifenc: no frames: %w", ErrInvalidInput)
	}
	if e.Width <= 0 || e.Height <= 0 || e.Width >= 1<<16 || e.Height >= 1<<16 {
		return nil, fmt.Errorf("gifenc: bad dimensions %dx%d: %w", e.Width, e.Height, ErrInvalidInput)
	}
	for i, f := range frames {
		if err := f.validate(e.Width, e.Height); err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
	}

	results := e.quantizeAll(frames)

	blocks := make([]block, 0, 2+4*len(frames)+2)
	blocks = append(blocks,
		header{},
		logicalScreenDescriptor{width: e.Width, height: e.Height},
	)
	if e.Loop {
		blocks = append(blocks, loopExtension{count: 0})
	}
	total := 13 // header + logical screen descriptor
	for i, f := range frames {
		q := results[i]
		if q.err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, q.err)
		}
		mcs := q.pal.MinCodeSize()
		data, err := compress(q.indexed, mcs)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		blocks = append(blocks,
			graphicControl{delayCS: delayCentiseconds(f.DelayMS)},
			imageDescriptor{width: e.Width, height: e.Height, sizeField: q.pal.sizeField()},
			colorTable{palette: q.pal},
			imageData{minCodeSize: byte(mcs), compressed: data},
		)
		total += 8 + 10 + 3*len(q.pal) + 2 + len(data) + len(data)/255 + 1
		if e.OnFrame != nil {
			e.OnFrame(i)
		}
	}
	blocks = append(blocks, trailer{})

	out := make([]byte, 0, total+32)
	for _, blk := range blocks {
		out = blk.appendTo(out)
	}
	return out, nil
}

// quantizeAll maps frames to palettes and indexed buffers on a small worker
// pool. Results land in input order; errors ride along per frame.
func (e *Encoder) quantizeAll(frames []Frame) []quantized {
	results := make([]quantized, len(frames))
	workers := runtime.GOMAXPROCS(0)
	if workers > len(frames) {
		workers = len(frames)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				pal, indexed, err := Quantize(frames[i].Pix, maxPaletteSize)
				results[i] = quantized{pal: pal, indexed: indexed, err: err}
			}
		}()
	}
	for i := range frames {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return results
}

// delayCentiseconds converts a millisecond delay to the hundredths of a
// second the wire format stores, clamping to a minimum of 1 so no decoder
// sees a zero delay and treats the frame as "as fast as possible".
func delayCentiseconds(ms int) uint16 {
	cs := (ms + 5) / 10
	if cs < 1 {
		cs = 1
	}
	if cs > 0xFFFF {
		cs = 0xFFFF
	}
	return uint16(cs)
}
