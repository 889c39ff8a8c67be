package dynatlas

import (
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"log"
	"sort"
)

// Sheet is a TexturePacker sprite sheet imported into an Atlas. Every frame
// is copied into its own texture, so the source page images can be dropped
// once the sheet is loaded.
type Sheet struct {
	atlas   *Atlas
	regions map[string]Texture
}

// Region returns the texture for the given frame name. If the name doesn't
// exist, it logs a warning in debug mode and returns the atlas's shared 1×1
// magenta placeholder.
func (s *Sheet) Region(name string) Texture {
	if t, ok := s.regions[name]; ok {
		return t
	}
	if s.atlas.debug {
		log.Printf("dynatlas: sheet region %q not found, using magenta placeholder", name)
	}
	return s.atlas.magenta()
}

// Names returns the frame names in sorted order.
func (s *Sheet) Names() []string {
	names := make([]string, 0, len(s.regions))
	for name := range s.regions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of frames in the sheet.
func (s *Sheet) Len() int { return len(s.regions) }

// Release frees every frame texture.
func (s *Sheet) Release() {
	for _, t := range s.regions {
		t.Release()
	}
	clear(s.regions)
}

// magenta returns the placeholder texture, allocating it on first use.
func (a *Atlas) magenta() Texture {
	if a.placeholder.Valid() {
		return a.placeholder
	}
	t, err := a.Allocate(1, 1)
	if err != nil {
		return Texture{}
	}
	t.SetPixel(0, 0, color.RGBA{R: 255, G: 0, B: 255, A: 255})
	a.placeholder = t
	return t
}

// LoadSheet parses TexturePacker JSON and copies each frame out of pages into
// the atlas. Supports both the hash format (single "frames" object, one page)
// and the array format ("textures" array with per-page frame lists).
// Rotated frames are stored upright; trimmed frames are padded back to their
// source size.
func (a *Atlas) LoadSheet(jsonData []byte, pages []image.Image) (*Sheet, error) {
	// Probe top-level keys to detect format.
	var probe struct {
		Frames   json.RawMessage `json:"frames"`
		Textures json.RawMessage `json:"textures"`
	}
	if err := json.Unmarshal(jsonData, &probe); err != nil {
		return nil, fmt.Errorf("dynatlas: failed to parse sheet JSON: %w", err)
	}

	var perPage []map[string]jsonFrame
	switch {
	case probe.Textures != nil:
		var textures []jsonTexturePage
		if err := json.Unmarshal(probe.Textures, &textures); err != nil {
			return nil, fmt.Errorf("dynatlas: failed to parse sheet textures array: %w", err)
		}
		for _, tex := range textures {
			perPage = append(perPage, tex.Frames)
		}
	case probe.Frames != nil:
		var frames map[string]jsonFrame
		if err := json.Unmarshal(probe.Frames, &frames); err != nil {
			return nil, fmt.Errorf("dynatlas: failed to parse sheet frames: %w", err)
		}
		perPage = append(perPage, frames)
	default:
		return nil, fmt.Errorf("dynatlas: sheet JSON has neither \"frames\" nor \"textures\" key")
	}
	if len(perPage) > len(pages) {
		return nil, fmt.Errorf("dynatlas: sheet references %d pages, got %d images", len(perPage), len(pages))
	}

	sheet := &Sheet{atlas: a, regions: make(map[string]Texture)}
	for i, frames := range perPage {
		// Sorted so that packing is deterministic across runs.
		names := make([]string, 0, len(frames))
		for name := range frames {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			t, err := a.importFrame(frames[name], pages[i])
			if err != nil {
				sheet.Release()
				return nil, fmt.Errorf("dynatlas: sheet frame %q: %w", name, err)
			}
			sheet.regions[name] = t
		}
	}
	return sheet, nil
}

// --- JSON structure types ---

type jsonRect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type jsonSize struct {
	W int `json:"w"`
	H int `json:"h"`
}

type jsonFrame struct {
	Frame            jsonRect `json:"frame"`
	Rotated          bool     `json:"rotated"`
	Trimmed          bool     `json:"trimmed"`
	SpriteSourceSize jsonRect `json:"spriteSourceSize"`
	SourceSize       jsonSize `json:"sourceSize"`
}

type jsonTexturePage struct {
	Image  string               `json:"image"`
	Frames map[string]jsonFrame `json:"frames"`
}

// importFrame allocates a texture at the frame's source size and copies the
// frame in, undoing TexturePacker's 90° clockwise rotation. Frame W and H are
// the upright size; a rotated frame occupies H×W pixels of its page.
func (a *Atlas) importFrame(f jsonFrame, page image.Image) (Texture, error) {
	w, h := f.Frame.W, f.Frame.H
	tw, th := f.SourceSize.W, f.SourceSize.H
	if tw <= 0 || th <= 0 {
		tw, th = w, h
	}
	ox, oy := 0, 0
	if f.Trimmed {
		ox, oy = f.SpriteSourceSize.X, f.SpriteSourceSize.Y
	}

	t, err := a.Allocate(tw, th)
	if err != nil {
		return Texture{}, err
	}
	pb := page.Bounds()
	for y := range h {
		for x := range w {
			px, py := f.Frame.X+x, f.Frame.Y+y
			if f.Rotated {
				// Upright (x, y) is stored at column h-1-y, row x.
				px, py = f.Frame.X+(h-1-y), f.Frame.Y+x
			}
			p := image.Pt(pb.Min.X+px, pb.Min.Y+py)
			if !p.In(pb) {
				continue
			}
			if dx, dy := ox+x, oy+y; dx >= 0 && dy >= 0 && dx < tw && dy < th {
				t.SetPixel(dx, dy, color.RGBAModel.Convert(page.At(p.X, p.Y)).(color.RGBA))
			}
		}
	}
	return t, nil
}
