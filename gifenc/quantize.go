package gifenc

import (
	"fmt"
	"sort"
)

// channelMask drops the three low bits of each channel before counting, so
// visually close colors land in the same histogram bucket.
const channelMask = 0xF8

// maxPaletteSize is the GIF ceiling on local color table entries.
const maxPaletteSize = 256

// RGB is one palette entry. Alpha is ignored throughout; GIF color tables
// carry plain triples.
type RGB struct {
	R, G, B uint8
}

// Palette is an ordered color table. Quantize always returns one whose length
// is a power of two in [2, 256], the only sizes the container can declare.
type Palette []RGB

// MinCodeSize returns the LZW minimum code size implied by the palette
// length: max(2, log2(len)).
func (p Palette) MinCodeSize() int {
	n := 2
	for 1<<n < len(p) {
		n++
	}
	return n
}

// sizeField is the descriptor's color table size field, log2(len)-1.
func (p Palette) sizeField() byte {
	f := byte(0)
	for n := 2; n < len(p); n <<= 1 {
		f++
	}
	return f
}

// Quantize reduces an RGBA pixel buffer to an indexed buffer plus a palette
// of at most maxColors entries.
//
// The algorithm is a frequency histogram over coarsened colors, not
// median-cut: each channel loses its three low bits, the most frequent coarse
// colors become the palette, and every pixel maps to the nearest entry by
// squared distance over its original, unmasked channels. Simple and fully
// deterministic (count ties break on the packed color key, distance ties on
// the lowest index), which keeps repeated encodes bit-identical.
func Quantize(pix []byte, maxColors int) (Palette, []byte, error) {
	if len(pix) == 0 {
		return nil, nil, fmt.Errorf("quantize: empty pixel buffer: %w", ErrInvalidInput)
	}
	if len(pix)%4 != 0 {
		return nil, nil, fmt.Errorf("quantize: buffer length %d is not a multiple of 4: %w",
			len(pix), ErrInvalidInput)
	}
	if maxColors < 2 {
		maxColors = 2
	}
	if maxColors > maxPaletteSize {
		maxColors = maxPaletteSize
	}

	hist := make(map[uint32]int)
	for i := 0; i < len(pix); i += 4 {
		key := uint32(pix[i]&channelMask)<<16 |
			uint32(pix[i+1]&channelMask)<<8 |
			uint32(pix[i+2]&channelMask)
		hist[key]++
	}

	type bucket struct {
		key   uint32
		count int
	}
	buckets := make([]bucket, 0, len(hist))
	for k, c := range hist {
		buckets = append(buckets, bucket{key: k, count: c})
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].count != buckets[j].count {
			return buckets[i].count > buckets[j].count
		}
		return buckets[i].key < buckets[j].key
	})
	if len(buckets) > maxColors {
		buckets = buckets[:maxColors]
	}

	pal := make(Palette, 0, nextPow2(len(buckets)))
	for _, b := range buckets {
		pal = append(pal, RGB{R: uint8(b.key >> 16), G: uint8(b.key >> 8), B: uint8(b.key)})
	}
	// Pad with black up to at least two entries, then up to a power of two.
	for len(pal) < 2 || len(pal)&(len(pal)-1) != 0 {
		pal = append(pal, RGB{})
	}

	indexed := make([]byte, len(pix)/4)
	for i, j := 0, 0; i < len(pix); i, j = i+4, j+1 {
		indexed[j] = pal.nearest(pix[i], pix[i+1], pix[i+2])
	}
	return pal, indexed, nil
}

// nearest returns the index of the closest entry by squared Euclidean
// distance. The first minimum wins, so padded duplicates never shadow an
// earlier entry.
func (p Palette) nearest(r, g, b uint8) uint8 {
	best := 0
	bestDist := int(^uint(0) >> 1)
	for i, e := range p {
		dr := int(r) - int(e.R)
		dg := int(g) - int(e.G)
		db := int(b) - int(e.B)
		d := dr*dr + dg*dg + db*db
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return uint8(best)
}

func nextPow2(n int) int {
	p := 2
	for p < n {
		p <<= 1
	}
	return p
}
