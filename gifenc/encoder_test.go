package gifenc

import (
	"bytes"
	"image/gif"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// decodeAll runs the stdlib GIF decoder over encoder output, which is the
// conformance bar: anything a standard decoder accepts and reconstructs is a
// valid stream.
func decodeAll(t *testing.T, data []byte) *gif.GIF {
	t.Helper()
	g, err := gif.DecodeAll(bytes.NewReader(data))
	require.NoError(t, err)
	return g
}

func TestEncodeAllNoFrames(t *testing.T) {
	out, err := EncodeAll(nil, 2, 2, false)
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Nil(t, out)
}

func TestEncodeAllBadBufferLength(t *testing.T) {
	// 3 bytes can never be width*height*4.
	out, err := EncodeAll([]Frame{{Pix: []byte{1, 2, 3}, DelayMS: 100}}, 2, 2, false)
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Nil(t, out)
}

func TestEncodeAllBadDimensions(t *testing.T) {
	frame := Frame{Pix: make([]byte, 4), DelayMS: 100}
	for _, dims := range [][2]int{{0, 1}, {1, 0}, {-1, 1}, {1 << 16, 1}} {
		_, err := EncodeAll([]Frame{frame}, dims[0], dims[1], false)
		require.ErrorIs(t, err, ErrInvalidInput, "dims %v", dims)
	}
}

// One 2x2 frame with four saturated colors, no loop: four-entry local table,
// delay of 10 centiseconds, no NETSCAPE extension.
func TestEncodeSingleFrame(t *testing.T) {
	pix := []byte{
		255, 0, 0, 255,
		0, 255, 0, 255,
		0, 0, 255, 255,
		255, 255, 255, 255,
	}
	out, err := EncodeAll([]Frame{{Pix: pix, DelayMS: 100}}, 2, 2, false)
	require.NoError(t, err)

	assert.Equal(t, []byte("GIF89a"), out[:6])
	assert.Equal(t, byte(0x3B), out[len(out)-1])
	assert.NotContains(t, string(out), "NETSCAPE2.0")

	// Header and logical screen descriptor take 13 bytes; the graphic
	// control extension follows immediately with the delay at offset +4.
	require.Equal(t, []byte{0x21, 0xF9, 0x04, 0x00}, out[13:17])
	assert.Equal(t, []byte{10, 0}, out[17:19])

	g := decodeAll(t, out)
	require.Len(t, g.Image, 1)
	assert.Equal(t, []int{10}, g.Delay)

	m := g.Image[0]
	assert.Equal(t, 2, m.Bounds().Dx())
	assert.Equal(t, 2, m.Bounds().Dy())
	require.Len(t, m.Palette, 4)

	// Distinct pixels keep distinct indices.
	seen := map[uint8]bool{}
	for _, idx := range m.Pix {
		assert.False(t, seen[idx])
		seen[idx] = true
	}
}

// Three identical 1x1 frames with loop: one NETSCAPE extension with count 0,
// three graphic controls with delay 5, three 2-entry local tables.
func TestEncodeLoopingAnimation(t *testing.T) {
	pix := []byte{10, 200, 30, 255}
	frames := []Frame{
		{Pix: pix, DelayMS: 50},
		{Pix: pix, DelayMS: 50},
		{Pix: pix, DelayMS: 50},
	}
	out, err := EncodeAll(frames, 1, 1, true)
	require.NoError(t, err)

	assert.Equal(t, 1, bytes.Count(out, []byte("NETSCAPE2.0")))

	g := decodeAll(t, out)
	require.Len(t, g.Image, 3)
	assert.Equal(t, 0, g.LoopCount)
	assert.Equal(t, []int{5, 5, 5}, g.Delay)
	for _, m := range g.Image {
		assert.Len(t, m.Palette, 2)
	}
}

func TestEncodeDelayClamping(t *testing.T) {
	tests := []struct {
		ms   int
		want int
	}{
		{0, 1},   // zero-delay frames are ambiguous; clamp up
		{4, 1},   // rounds to 0, clamped
		{14, 1},  // rounds down to 1
		{15, 2},  // rounds up
		{100, 10},
		{1000, 100},
	}
	pix := []byte{1, 2, 3, 255}
	for _, tt := range tests {
		out, err := EncodeAll([]Frame{{Pix: pix, DelayMS: tt.ms}}, 1, 1, false)
		require.NoError(t, err)
		g := decodeAll(t, out)
		assert.Equal(t, tt.want, g.Delay[0], "delay %dms", tt.ms)
	}
}

// Every decoded pixel must match the source within the quantization bound.
// With fewer than 256 coarse colors in play the only loss is the 3-bit
// channel mask.
func TestEncodeRoundTripPixels(t *testing.T) {
	const w, h = 17, 9
	rng := rand.New(rand.NewSource(3))
	pix := make([]byte, w*h*4)
	rng.Read(pix)
	// Coarsen to at most 8 distinct colors so nearest-match error stays
	// within the mask loss.
	for i := 0; i < len(pix); i += 4 {
		pix[i] &= 0x80
		pix[i+1] &= 0x80
		pix[i+2] &= 0x80
	}

	out, err := EncodeAll([]Frame{{Pix: pix, DelayMS: 100}}, w, h, false)
	require.NoError(t, err)

	g := decodeAll(t, out)
	require.Len(t, g.Image, 1)
	m := g.Image[0]
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, gg, b, _ := m.At(x, y).RGBA()
			i := (y*w + x) * 4
			assert.Equal(t, int(pix[i])&channelMask, int(r>>8), "red at %d,%d", x, y)
			assert.Equal(t, int(pix[i+1])&channelMask, int(gg>>8), "green at %d,%d", x, y)
			assert.Equal(t, int(pix[i+2])&channelMask, int(b>>8), "blue at %d,%d", x, y)
		}
	}
}

func TestEncodeDeterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	frames := make([]Frame, 4)
	for i := range frames {
		pix := make([]byte, 32*24*4)
		rng.Read(pix)
		frames[i] = Frame{Pix: pix, DelayMS: 40}
	}

	a, err := EncodeAll(frames, 32, 24, true)
	require.NoError(t, err)
	b, err := EncodeAll(frames, 32, 24, true)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(a, b))
}

// A large noisy frame drives the LZW dictionary past code 4095 inside a
// single image; the stream must still decode.
func TestEncodeHighEntropyFrame(t *testing.T) {
	const w, h = 200, 200
	rng := rand.New(rand.NewSource(17))
	pix := make([]byte, w*h*4)
	rng.Read(pix)

	out, err := EncodeAll([]Frame{{Pix: pix, DelayMS: 100}}, w, h, false)
	require.NoError(t, err)

	g := decodeAll(t, out)
	require.Len(t, g.Image, 1)
	assert.Equal(t, w, g.Image[0].Bounds().Dx())
	assert.Equal(t, h, g.Image[0].Bounds().Dy())
}

func TestEncodeOnFrameCallback(t *testing.T) {
	pix := []byte{5, 5, 5, 255}
	frames := []Frame{{Pix: pix, DelayMS: 30}, {Pix: pix, DelayMS: 30}}

	var got []int
	e := Encoder{Width: 1, Height: 1, OnFrame: func(i int) { got = append(got, i) }}
	_, err := e.EncodeAll(frames)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, got)
}

func TestEncodeDoesNotMutateFrames(t *testing.T) {
	pix := []byte{250, 100, 7, 255, 3, 9, 27, 255}
	orig := append([]byte(nil), pix...)
	_, err := EncodeAll([]Frame{{Pix: pix, DelayMS: 10}}, 2, 1, false)
	require.NoError(t, err)
	assert.Equal(t, orig, pix)
}
