// Package story loads story manifests and renders them into the RGBA frame
// sequence the GIF encoder consumes: per scene, a backdrop, characters moving
// along keyframes, and an optional caption.
package story

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Manifest struct {
	Width        int     `koanf:"width"`
	Height       int     `koanf:"height"`
	FPS          float64 `koanf:"fps"`
	Loop         bool    `koanf:"loop"`
	Background   string  `koanf:"background"`    // default backdrop: preset name, path, URL or #RRGGBB
	CaptionColor string  `koanf:"caption_color"` // hex, defaults to white
	Scenes       []Scene `koanf:"scenes"`
	Fetch        Fetch   `koanf:"fetch"`
}

type Scene struct {
	DurationMS int         `koanf:"duration_ms"`
	Background string      `koanf:"background"` // overrides the story default
	Caption    string      `koanf:"caption"`
	Characters []Character `koanf:"characters"`
}

type Character struct {
	Sprite     string     `koanf:"sprite"`
	SheetCells int        `koanf:"sheet_cells"`  // >1 slices the sprite into horizontal cells
	CellRateMS int        `koanf:"cell_rate_ms"` // how long each cell stays up
	Keyframes  []Keyframe `koanf:"keyframes"`
}

type Keyframe struct {
	AtMS  int     `koanf:"at_ms"`
	X     float64 `koanf:"x"`
	Y     float64 `koanf:"y"`
	Scale float64 `koanf:"scale"`
}

// Fetch holds art-fetcher settings so a manifest is self-contained.
type Fetch struct {
	CacheDir string  `koanf:"cache_dir"`
	RPS      float64 `koanf:"rps"`
	Burst    int     `koanf:"burst"`
	TimeoutS int     `koanf:"timeout_s"`
}

func (f Fetch) Timeout() time.Duration {
	return time.Duration(f.TimeoutS) * time.Second
}

// LoadManifest reads a TOML manifest, fills defaults and validates it.
func LoadManifest(path string) (*Manifest, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
		return nil, fmt.Errorf("load manifest: %w", err)
	}

	m := &Manifest{
		Width:        320,
		Height:       240,
		FPS:          10,
		Background:   "#000000",
		CaptionColor: "#ffffff",
		Fetch: Fetch{
			RPS:      2,
			Burst:    4,
			TimeoutS: 30,
		},
	}
	if err := k.Unmarshal("", m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	m.normalize()
	if err := m.validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Manifest) normalize() {
	for si := range m.Scenes {
		for ci := range m.Scenes[si].Characters {
			ch := &m.Scenes[si].Characters[ci]
			if ch.SheetCells < 1 {
				ch.SheetCells = 1
			}
			if ch.CellRateMS < 1 {
				ch.CellRateMS = 150
			}
			for ki := range ch.Keyframes {
				if ch.Keyframes[ki].Scale == 0 {
					ch.Keyframes[ki].Scale = 1
				}
			}
			sort.SliceStable(ch.Keyframes, func(a, b int) bool {
				return ch.Keyframes[a].AtMS < ch.Keyframes[b].AtMS
			})
		}
	}
}

func (m *Manifest) validate() error {
	if m.Width < 16 || m.Width > 4096 || m.Height < 16 || m.Height > 4096 {
		return fmt.Errorf("canvas %dx%d out of range (16..4096)", m.Width, m.Height)
	}
	if m.FPS <= 0 || m.FPS > 50 {
		return fmt.Errorf("fps %.2f out of range (0..50]", m.FPS)
	}
	if len(m.Scenes) == 0 {
		return fmt.Errorf("manifest has no scenes")
	}
	for i, sc := range m.Scenes {
		if sc.DurationMS <= 0 {
			return fmt.Errorf("scene %d: duration_ms must be positive", i)
		}
		for j, ch := range sc.Characters {
			if ch.Sprite == "" {
				return fmt.Errorf("scene %d character %d: sprite is required", i, j)
			}
		}
	}
	return nil
}

// FrameDelayMS is the per-frame display time implied by the frame rate.
func (m *Manifest) FrameDelayMS() int {
	return int(math.Round(1000 / m.FPS))
}

// sceneFrames is how many frames a scene contributes.
func (m *Manifest) sceneFrames(sc Scene) int {
	n := int(math.Round(float64(sc.DurationMS) * m.FPS / 1000))
	if n < 1 {
		n = 1
	}
	return n
}

// FrameCount is the total frame count across all scenes, used to size
// progress reporting before rendering starts.
func (m *Manifest) FrameCount() int {
	total := 0
	for _, sc := range m.Scenes {
		total += m.sceneFrames(sc)
	}
	return total
}
