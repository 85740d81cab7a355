package gifenc

import "fmt"

const (
	maxCodeWidth = 12
	maxLZWCode   = 1<<maxCodeWidth - 1 // 4095
)

// compress LZW-encodes a stream of palette indices the way the GIF image
// data block expects: a Clear-code prologue, codes packed LSB-first into a
// byte stream, code width growing from minCodeSize+1 up to 12 bits, and an
// End-of-Information epilogue.
//
// The dictionary is keyed by (prefix code, next index) packed into a single
// integer rather than by concatenated strings. Once code 4095 is assigned the
// table is frozen for the rest of the frame; no mid-stream Clear codes are
// re-issued. Per-frame images are small enough that the lost compression is
// not worth the extra state machine, and every conformant decoder handles a
// frozen table.
func compress(indexed []byte, minCodeSize int) ([]byte, error) {
	if minCodeSize < 2 {
		minCodeSize = 2
	}
	clearCode := 1 << minCodeSize
	eoiCode := clearCode + 1

	out := make([]byte, 0, len(indexed)/2+16)
	var (
		acc   uint32
		nbits uint
	)
	width := uint(minCodeSize + 1)

	emit := func(code int) error {
		if code > maxLZWCode {
			return fmt.Errorf("lzw: code %d exceeds %d: %w", code, maxLZWCode, ErrEncodingOverflow)
		}
		acc |= uint32(code) << nbits
		nbits += width
		for nbits >= 8 {
			out = append(out, byte(acc))
			acc >>= 8
			nbits -= 8
		}
		return nil
	}

	if err := emit(clearCode); err != nil {
		return nil, err
	}
	if len(indexed) == 0 {
		if err := emit(eoiCode); err != nil {
			return nil, err
		}
		if nbits > 0 {
			out = append(out, byte(acc))
		}
		return out, nil
	}

	table := make(map[uint32]int, 4<<uint(minCodeSize))
	next := clearCode + 2

	prefix := int(indexed[0])
	for _, idx := range indexed[1:] {
		key := uint32(prefix)<<8 | uint32(idx)
		if code, ok := table[key]; ok {
			prefix = code
			continue
		}
		if err := emit(prefix); err != nil {
			return nil, err
		}
		// The width bump happens after the emit and before the insert, which
		// keeps the encoder in step with a decoder that grows its table one
		// code behind.
		if next > 1<<width-1 && width < maxCodeWidth {
			width++
		}
		if next <= maxLZWCode {
			table[key] = next
			next++
		}
		prefix = int(idx)
	}

	if err := emit(prefix); err != nil {
		return nil, err
	}
	if err := emit(eoiCode); err != nil {
		return nil, err
	}
	if nbits > 0 {
		// Trailing partial byte, implicitly zero-padded.
		out = append(out, byte(acc))
	}
	return out, nil
}
