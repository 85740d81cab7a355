package gifenc

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuantizeEmptyBuffer(t *testing.T) {
	_, _, err := Quantize(nil, 256)
	require.ErrorIs(t, err, ErrInvalidInput)

	_, _, err = Quantize([]byte{}, 256)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestQuantizeRaggedBuffer(t *testing.T) {
	_, _, err := Quantize([]byte{1, 2, 3}, 256)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestQuantizeFourDistinctColors(t *testing.T) {
	// 2x2: red, green, blue, white.
	pix := []byte{
		255, 0, 0, 255,
		0, 255, 0, 255,
		0, 0, 255, 255,
		255, 255, 255, 255,
	}
	pal, indexed, err := Quantize(pix, 256)
	require.NoError(t, err)

	// Four distinct colors is already a power of two; no padding.
	require.Len(t, pal, 4)
	require.Len(t, indexed, 4)

	// Every pixel gets its own index and maps back to its own (coarsened)
	// color: each channel may only lose the three masked low bits.
	seen := map[byte]bool{}
	for i := 0; i < 4; i++ {
		idx := indexed[i]
		require.Less(t, int(idx), len(pal))
		assert.False(t, seen[idx], "pixel %d reuses index %d", i, idx)
		seen[idx] = true

		e := pal[idx]
		assert.Equal(t, pix[i*4]&channelMask, e.R)
		assert.Equal(t, pix[i*4+1]&channelMask, e.G)
		assert.Equal(t, pix[i*4+2]&channelMask, e.B)
	}
}

func TestQuantizeSolidColorPadsToTwo(t *testing.T) {
	pix := []byte{200, 100, 50, 255}
	pal, indexed, err := Quantize(pix, 256)
	require.NoError(t, err)
	require.Len(t, pal, 2)
	assert.Equal(t, RGB{R: 200 & channelMask, G: 100 & channelMask, B: 50 & channelMask}, pal[0])
	assert.Equal(t, RGB{}, pal[1])
	assert.Equal(t, []byte{0}, indexed)
}

func TestQuantizePaletteIsPowerOfTwo(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for _, pixels := range []int{1, 3, 5, 17, 100, 1000} {
		pix := make([]byte, pixels*4)
		rng.Read(pix)
		pal, indexed, err := Quantize(pix, 256)
		require.NoError(t, err)

		require.GreaterOrEqual(t, len(pal), 2)
		require.LessOrEqual(t, len(pal), 256)
		assert.Zero(t, len(pal)&(len(pal)-1), "palette length %d not a power of two", len(pal))
		for _, idx := range indexed {
			assert.Less(t, int(idx), len(pal))
		}
	}
}

func TestQuantizeCapsPalette(t *testing.T) {
	// Far more than 256 distinct coarse colors.
	const n = 4096
	pix := make([]byte, 0, n*4)
	for i := 0; i < n; i++ {
		pix = append(pix, byte(i), byte(i>>4), byte(i>>8), 255)
	}
	pal, indexed, err := Quantize(pix, 256)
	require.NoError(t, err)
	require.Len(t, pal, 256)
	for _, idx := range indexed {
		require.Less(t, int(idx), 256)
	}
}

func TestQuantizeDeterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	pix := make([]byte, 64*64*4)
	rng.Read(pix)

	pal1, idx1, err := Quantize(pix, 256)
	require.NoError(t, err)
	pal2, idx2, err := Quantize(pix, 256)
	require.NoError(t, err)

	assert.Equal(t, pal1, pal2)
	assert.Equal(t, idx1, idx2)
}

func TestQuantizeDoesNotMutateInput(t *testing.T) {
	pix := []byte{255, 0, 0, 255, 0, 255, 0, 255}
	orig := append([]byte(nil), pix...)
	_, _, err := Quantize(pix, 256)
	require.NoError(t, err)
	assert.Equal(t, orig, pix)
}

func TestPaletteMinCodeSize(t *testing.T) {
	tests := []struct {
		entries int
		want    int
	}{
		{2, 2},
		{4, 2},
		{8, 3},
		{16, 4},
		{128, 7},
		{256, 8},
	}
	for _, tt := range tests {
		pal := make(Palette, tt.entries)
		assert.Equal(t, tt.want, pal.MinCodeSize(), "entries=%d", tt.entries)
	}
}

func TestPaletteSizeField(t *testing.T) {
	for entries, want := range map[int]byte{2: 0, 4: 1, 8: 2, 64: 5, 256: 7} {
		pal := make(Palette, entries)
		assert.Equal(t, want, pal.sizeField(), "entries=%d", entries)
	}
}
