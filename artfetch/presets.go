package artfetch

import (
	"fmt"
	"net/url"
	"strings"
)

// Preset is a named backdrop source. URL templates carry {w} and {h}
// placeholders filled with the story's canvas size.
type Preset struct {
	Name        string
	URLTmpl     string
	Attribution string
}

var Presets = map[string]Preset{
	"meadow": {
		Name:        "Meadow",
		URLTmpl:     "https://picsum.photos/id/1043/{w}/{h}",
		Attribution: "Photo via picsum.photos (Unsplash contributors)",
	},
	"forest": {
		Name:        "Forest",
		URLTmpl:     "https://picsum.photos/id/1019/{w}/{h}",
		Attribution: "Photo via picsum.photos (Unsplash contributors)",
	},
	"mountains": {
		Name:        "Mountains",
		URLTmpl:     "https://picsum.photos/id/1036/{w}/{h}",
		Attribution: "Photo via picsum.photos (Unsplash contributors)",
	},
	"seaside": {
		Name:        "Seaside",
		URLTmpl:     "https://picsum.photos/id/1053/{w}/{h}",
		Attribution: "Photo via picsum.photos (Unsplash contributors)",
	},
}

func (p Preset) FillURL(w, h int) (string, error) {
	u := strings.ReplaceAll(p.URLTmpl, "{w}", fmt.Sprintf("%d", w))
	u = strings.ReplaceAll(u, "{h}", fmt.Sprintf("%d", h))
	_, err := url.Parse(u)
	return u, err
}
