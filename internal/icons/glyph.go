package icons

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"strings"

	"golang.org/x/image/vector"
)

// glyph is the set of shapes that make up one weather icon.
type glyph struct {
	sun        bool
	moon       bool
	cloud      bool
	smallCloud bool
	rain       int
	snow       int
	sleet      int
	thunder    bool
	fog        bool
	alert      bool
}

func (g glyph) precipitation() bool {
	return g.rain > 0 || g.snow > 0 || g.sleet > 0
}

// parseIcon decomposes a met.no icon name such as "lightrainandthunder" or
// "partlycloudy_night" into shapes.
func parseIcon(name string) glyph {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || strings.HasPrefix(name, "exclamation") {
		return glyph{alert: true}
	}

	var g glyph
	base, night := strings.CutSuffix(name, "_night")
	base, _ = strings.CutSuffix(base, "_day")
	celestial := func() {
		if night {
			g.moon = true
		} else {
			g.sun = true
		}
	}

	switch {
	case base == "clearsky":
		celestial()
		return g
	case base == "fair":
		celestial()
		g.smallCloud = true
		return g
	case base == "partlycloudy":
		celestial()
		g.cloud = true
		return g
	case base == "cloudy":
		g.cloud = true
		return g
	case base == "fog":
		g.cloud = true
		g.fog = true
		return g
	}

	intensity := 2
	switch {
	case strings.HasPrefix(base, "light"):
		intensity = 1
	case strings.HasPrefix(base, "heavy"):
		intensity = 3
	}
	switch {
	case strings.Contains(base, "sleet"):
		g.sleet = intensity
	case strings.Contains(base, "snow"):
		g.snow = intensity
	case strings.Contains(base, "rain"):
		g.rain = intensity
	}
	g.thunder = strings.Contains(base, "thunder")
	if !g.precipitation() && !g.thunder {
		return glyph{alert: true}
	}
	g.cloud = true
	return g
}

type palette struct {
	sun, moon, cloud, rain, snow, thunder, fog, alert color.NRGBA
	// cutMark punches the alert mark out of the badge instead of painting it.
	cutMark bool
	mark    color.NRGBA
}

func paletteFor(theme Theme) palette {
	if theme == ThemeMonochrome {
		mono := color.NRGBA{0xF0, 0xF0, 0xF0, 0xFF}
		return palette{
			sun: mono, moon: mono, cloud: mono, rain: mono, snow: mono,
			thunder: mono, fog: mono, alert: mono,
			cutMark: true,
		}
	}
	return palette{
		sun:     color.NRGBA{0xF5, 0xB8, 0x00, 0xFF},
		moon:    color.NRGBA{0xE8, 0xE3, 0xC8, 0xFF},
		cloud:   color.NRGBA{0xC9, 0xD1, 0xD9, 0xFF},
		rain:    color.NRGBA{0x2F, 0x81, 0xF7, 0xFF},
		snow:    color.NRGBA{0x9C, 0xD1, 0xFF, 0xFF},
		thunder: color.NRGBA{0xFF, 0xD3, 0x3D, 0xFF},
		fog:     color.NRGBA{0x9A, 0xA4, 0xAD, 0xFF},
		alert:   color.NRGBA{0xD1, 0x24, 0x2F, 0xFF},
		mark:    color.NRGBA{0xFF, 0xFF, 0xFF, 0xFF},
	}
}

// canvas draws filled paths in unit coordinates onto a square image.
type canvas struct {
	img  *image.NRGBA
	r    *vector.Rasterizer
	size float32
}

func newCanvas(size int) *canvas {
	return &canvas{
		img:  image.NewNRGBA(image.Rect(0, 0, size, size)),
		r:    vector.NewRasterizer(size, size),
		size: float32(size),
	}
}

func (c *canvas) fill(col color.NRGBA, path func()) {
	c.paint(image.NewUniform(col), draw.Over, path)
}

func (c *canvas) cut(path func()) {
	c.paint(image.Transparent, draw.Src, path)
}

func (c *canvas) paint(src image.Image, op draw.Op, path func()) {
	c.r.Reset(c.img.Bounds().Dx(), c.img.Bounds().Dy())
	c.r.DrawOp = op
	path()
	c.r.Draw(c.img, c.img.Bounds(), src, image.Point{})
}

func (c *canvas) moveTo(x, y float32) { c.r.MoveTo(x*c.size, y*c.size) }
func (c *canvas) lineTo(x, y float32) { c.r.LineTo(x*c.size, y*c.size) }

func (c *canvas) circle(cx, cy, radius float32) {
	// Four cubic arcs; k places the control points for a quarter circle.
	const k = 0.5522847
	s := c.size
	x, y, r := cx*s, cy*s, radius*s
	c.r.MoveTo(x+r, y)
	c.r.CubeTo(x+r, y+k*r, x+k*r, y+r, x, y+r)
	c.r.CubeTo(x-k*r, y+r, x-r, y+k*r, x-r, y)
	c.r.CubeTo(x-r, y-k*r, x-k*r, y-r, x, y-r)
	c.r.CubeTo(x+k*r, y-r, x+r, y-k*r, x+r, y)
	c.r.ClosePath()
}

func (c *canvas) polygon(points ...[2]float32) {
	if len(points) < 3 {
		return
	}
	c.moveTo(points[0][0], points[0][1])
	for _, p := range points[1:] {
		c.lineTo(p[0], p[1])
	}
	c.r.ClosePath()
}

func (c *canvas) rect(x0, y0, x1, y1 float32) {
	c.polygon([2]float32{x0, y0}, [2]float32{x1, y0}, [2]float32{x1, y1}, [2]float32{x0, y1})
}

// bar draws a stroke of the given width between two points.
func (c *canvas) bar(x0, y0, x1, y1, width float32) {
	dx, dy := x1-x0, y1-y0
	length := float32(math.Hypot(float64(dx), float64(dy)))
	if length == 0 {
		return
	}
	nx, ny := -dy/length*width/2, dx/length*width/2
	c.polygon(
		[2]float32{x0 + nx, y0 + ny},
		[2]float32{x1 + nx, y1 + ny},
		[2]float32{x1 - nx, y1 - ny},
		[2]float32{x0 - nx, y0 - ny},
	)
}

// drawGlyph paints g onto a fresh canvas of the given pixel size.
func drawGlyph(g glyph, pal palette, size int) *image.NRGBA {
	c := newCanvas(size)

	if g.alert {
		c.fill(pal.alert, func() { c.circle(0.5, 0.5, 0.44) })
		mark := func() {
			c.rect(0.44, 0.2, 0.56, 0.62)
			c.circle(0.5, 0.76, 0.07)
		}
		if pal.cutMark {
			c.cut(mark)
		} else {
			c.fill(pal.mark, mark)
		}
		return c.img
	}

	// Celestial body: centred when alone, top-left when clouds are present.
	cx, cy, radius := float32(0.5), float32(0.5), float32(0.22)
	if g.cloud || g.smallCloud {
		cx, cy, radius = 0.36, 0.34, 0.17
	}
	if g.sun {
		c.fill(pal.sun, func() {
			c.circle(cx, cy, radius)
			for i := range 8 {
				a := float64(i) * math.Pi / 4
				sin, cos := float32(math.Sin(a)), float32(math.Cos(a))
				c.bar(cx+cos*radius*1.35, cy+sin*radius*1.35, cx+cos*radius*1.9, cy+sin*radius*1.9, radius*0.28)
			}
		})
	}
	if g.moon {
		c.fill(pal.moon, func() { c.circle(cx, cy, radius*1.2) })
		c.cut(func() { c.circle(cx+radius*0.55, cy-radius*0.35, radius*1.0) })
	}

	// Clouds sit higher when something falls out of them.
	lift := float32(0)
	if g.precipitation() || g.thunder || g.fog {
		lift = 0.14
	}
	if g.cloud {
		c.fill(pal.cloud, func() { cloudShape(c, 0, -lift, 1) })
	}
	if g.smallCloud {
		c.fill(pal.cloud, func() { cloudShape(c, 0.22, 0.12, 0.62) })
	}

	top := float32(0.74) - lift + 0.04
	switch {
	case g.sleet > 0:
		drops(c, pal, g.sleet, top, func(i int) bool { return i%2 == 1 })
	case g.snow > 0:
		drops(c, pal, g.snow, top, func(int) bool { return true })
	case g.rain > 0:
		drops(c, pal, g.rain, top, func(int) bool { return false })
	}
	if g.thunder {
		c.fill(pal.thunder, func() {
			c.polygon(
				[2]float32{0.56, top - 0.02},
				[2]float32{0.42, top + 0.17},
				[2]float32{0.52, top + 0.17},
				[2]float32{0.46, top + 0.3},
				[2]float32{0.64, top + 0.1},
				[2]float32{0.54, top + 0.1},
				[2]float32{0.62, top - 0.02},
			)
		})
	}
	if g.fog {
		c.fill(pal.fog, func() {
			c.bar(0.18, top+0.04, 0.82, top+0.04, 0.06)
			c.bar(0.26, top+0.16, 0.74, top+0.16, 0.06)
		})
	}
	return c.img
}

// cloudShape adds a cloud outline, shifted by (dx, dy) and scaled around the
// canvas centre.
func cloudShape(c *canvas, dx, dy, scale float32) {
	at := func(v float32) float32 { return 0.5 + (v-0.5)*scale }
	c.circle(at(0.34)+dx, at(0.6)+dy, 0.15*scale)
	c.circle(at(0.53)+dx, at(0.5)+dy, 0.2*scale)
	c.circle(at(0.72)+dx, at(0.62)+dy, 0.13*scale)
	c.rect(at(0.2)+dx, at(0.62)+dy, at(0.84)+dx, at(0.75)+dy)
}

// drops draws n slanted rain strokes or snow flakes in a row below a cloud;
// flake decides which one goes in each slot.
func drops(c *canvas, pal palette, n int, top float32, flake func(int) bool) {
	n = min(max(n, 1), 3)
	step := float32(0.18)
	start := 0.5 - step*float32(n-1)/2
	for i := range n {
		x := start + step*float32(i)
		if flake(i) {
			c.fill(pal.snow, func() { c.circle(x, top+0.08, 0.045) })
			continue
		}
		c.fill(pal.rain, func() { c.bar(x+0.04, top, x-0.04, top+0.16, 0.05) })
	}
}
