package icons

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"sync"

	"github.com/disintegration/imaging"
)

// DefaultSize is the edge length in pixels of tray icons.
const DefaultSize = 32

// supersample is the factor glyphs are drawn at before being scaled down.
const supersample = 4

type cacheKey struct {
	theme Theme
	name  string
}

// Renderer draws weather icons and caches the encoded bytes per theme and
// icon name. It is safe for concurrent use.
type Renderer struct {
	size int

	mu      sync.Mutex
	encoded map[cacheKey][]byte
}

// NewRenderer returns a Renderer producing size x size icons. A size of zero
// or less selects DefaultSize.
func NewRenderer(size int) *Renderer {
	if size <= 0 {
		size = DefaultSize
	}
	return &Renderer{size: size, encoded: make(map[cacheKey][]byte)}
}

// Size returns the edge length of rendered icons.
func (r *Renderer) Size() int {
	return r.size
}

// Image draws the icon for name in the given theme. Unknown names produce
// the alert badge.
func (r *Renderer) Image(theme Theme, name string) image.Image {
	if !theme.Valid() {
		theme = DefaultTheme
	}
	big := drawGlyph(parseIcon(name), paletteFor(theme), r.size*supersample)
	return imaging.Resize(big, r.size, r.size, imaging.Lanczos)
}

// Render returns the icon encoded for the platform tray: PNG, wrapped in an
// ICO container on Windows.
func (r *Renderer) Render(theme Theme, name string) ([]byte, error) {
	if !theme.Valid() {
		theme = DefaultTheme
	}
	key := cacheKey{theme: theme, name: name}

	r.mu.Lock()
	if data, ok := r.encoded[key]; ok {
		r.mu.Unlock()
		return data, nil
	}
	r.mu.Unlock()

	data, err := r.PNG(theme, name)
	if err != nil {
		return nil, err
	}
	data = platformIcon(data)

	r.mu.Lock()
	r.encoded[key] = data
	r.mu.Unlock()
	return data, nil
}

// PNG returns the icon as PNG bytes regardless of platform.
func (r *Renderer) PNG(theme Theme, name string) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, r.Image(theme, name)); err != nil {
		return nil, fmt.Errorf("encode icon %q: %w", name, err)
	}
	return buf.Bytes(), nil
}
