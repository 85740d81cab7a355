package story

import (
	"errors"
	"image/color"
	"strconv"
	"strings"
)

// ParseHexColor parses #RRGGBB or #AARRGGBB.
func ParseHexColor(s string) (color.Color, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		return nil, errors.New("hex color must start with #")
	}
	h := strings.TrimPrefix(s, "#")
	if len(h) == 6 {
		r, err := strconv.ParseUint(h[0:2], 16, 8)
		if err != nil {
			return nil, err
		}
		g, err := strconv.ParseUint(h[2:4], 16, 8)
		if err != nil {
			return nil, err
		}
		b, err := strconv.ParseUint(h[4:6], 16, 8)
		if err != nil {
			return nil, err
		}
		return color.RGBA{uint8(r), uint8(g), uint8(b), 0xFF}, nil
	}
	if len(h) == 8 {
		a, err := strconv.ParseUint(h[0:2], 16, 8)
		if err != nil {
			return nil, err
		}
		r, err := strconv.ParseUint(h[2:4], 16, 8)
		if err != nil {
			return nil, err
		}
		g, err := strconv.ParseUint(h[4:6], 16, 8)
		if err != nil {
			return nil, err
		}
		b, err := strconv.ParseUint(h[6:8], 16, 8)
		if err != nil {
			return nil, err
		}
		return color.RGBA{uint8(r), uint8(g), uint8(b), uint8(a)}, nil
	}
	return nil, errors.New("hex color format: #RRGGBB or #AARRGGBB")
}
