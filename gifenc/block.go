package gifenc

// Section indicators.
const (
	sExtension       = 0x21
	sImageDescriptor = 0x2C
	sTrailer         = 0x3B
)

// Extension labels.
const (
	extGraphicControl = 0xF9
	extApplication    = 0xFF
)

// appendUint16 appends u little-endian, the byte order GIF uses everywhere.
func appendUint16(b []byte, u uint16) []byte {
	return append(b, byte(u), byte(u>>8))
}

// Each block kind knows how to serialize itself onto the output buffer, so
// the container grammar is an explicit list of typed records instead of an
// ordering implied by write calls. Blocks are pure: appendTo has no state
// beyond the record's own fields.
type block interface {
	appendTo(b []byte) []byte
}

// header is the 6-byte GIF89a signature.
type header struct{}

func (header) appendTo(b []byte) []byte {
	return append(b, "GIF89a"...)
}

// logicalScreenDescriptor declares the global canvas. The global color table
// flag stays clear since every frame carries its own local table; the color
// resolution field is fixed at 7 and unused for the same reason.
type logicalScreenDescriptor struct {
	width, height int
}

func (d logicalScreenDescriptor) appendTo(b []byte) []byte {
	b = appendUint16(b, uint16(d.width))
	b = appendUint16(b, uint16(d.height))
	b = append(b, 0x70) // no global table, color resolution 7
	b = append(b, 0x00) // background color index
	return append(b, 0x00) // pixel aspect ratio
}

// loopExtension is the 19-byte NETSCAPE2.0 application extension. A count of
// zero means loop forever.
type loopExtension struct {
	count uint16
}

func (l loopExtension) appendTo(b []byte) []byte {
	b = append(b, sExtension, extApplication, 0x0B)
	b = append(b, "NETSCAPE2.0"...)
	b = append(b, 0x03, 0x01)
	b = appendUint16(b, l.count)
	return append(b, 0x00)
}

// graphicControl carries the frame delay in centiseconds. Disposal is fixed
// at "do not dispose" and transparency is off.
type graphicControl struct {
	delayCS uint16
}

func (g graphicControl) appendTo(b []byte) []byte {
	b = append(b, sExtension, extGraphicControl, 0x04)
	b = append(b, 0x00) // packed: disposal 0, no user input, no transparency
	b = appendUint16(b, g.delayCS)
	b = append(b, 0x00) // transparent color index, unused
	return append(b, 0x00)
}

// imageDescriptor places a frame. Frames always cover the full logical
// screen at (0,0) and always declare a local color table; per-frame cropping
// and interlacing are not supported.
type imageDescriptor struct {
	width, height int
	sizeField     byte // log2(palette length) - 1
}

func (d imageDescriptor) appendTo(b []byte) []byte {
	b = append(b, sImageDescriptor)
	b = appendUint16(b, 0) // left
	b = appendUint16(b, 0) // top
	b = appendUint16(b, uint16(d.width))
	b = appendUint16(b, uint16(d.height))
	return append(b, 0x80|d.sizeField)
}

// colorTable is the local palette in index order. The palette arrives
// already padded to its declared power-of-two length.
type colorTable struct {
	palette Palette
}

func (c colorTable) appendTo(b []byte) []byte {
	for _, e := range c.palette {
		b = append(b, e.R, e.G, e.B)
	}
	return b
}

// imageData is the LZW minimum code size byte followed by the compressed
// stream chunked into length-prefixed sub-blocks of at most 255 bytes and a
// single zero-length terminator.
type imageData struct {
	minCodeSize byte
	compressed  []byte
}

func (d imageData) appendTo(b []byte) []byte {
	b = append(b, d.minCodeSize)
	for rest := d.compressed; len(rest) > 0; {
		n := len(rest)
		if n > 255 {
			n = 255
		}
		b = append(b, byte(n))
		b = append(b, rest[:n]...)
		rest = rest[n:]
	}
	return append(b, 0x00)
}

// trailer is the single 0x3B byte closing the file.
type trailer struct{}

func (trailer) appendTo(b []byte) []byte {
	return append(b, sTrailer)
}
