package icons

import (
	"bytes"
	"image/png"
	"runtime"
	"sync"
	"testing"
)

func TestParseIcon(t *testing.T) {
	tests := []struct {
		name string
		want glyph
	}{
		{"clearsky_day", glyph{sun: true}},
		{"clearsky_night", glyph{moon: true}},
		{"fair_day", glyph{sun: true, smallCloud: true}},
		{"partlycloudy_night", glyph{moon: true, cloud: true}},
		{"cloudy", glyph{cloud: true}},
		{"fog", glyph{cloud: true, fog: true}},
		{"lightrain", glyph{cloud: true, rain: 1}},
		{"rain", glyph{cloud: true, rain: 2}},
		{"heavyrain", glyph{cloud: true, rain: 3}},
		{"lightsnow", glyph{cloud: true, snow: 1}},
		{"heavysleet", glyph{cloud: true, sleet: 3}},
		{"heavyrainandthunder", glyph{cloud: true, rain: 3, thunder: true}},
		{"sleetandthunder", glyph{cloud: true, sleet: 2, thunder: true}},
		{"exclamation-circle", glyph{alert: true}},
		{"", glyph{alert: true}},
		{"sandstorm", glyph{alert: true}},
	}
	for _, tt := range tests {
		if got := parseIcon(tt.name); got != tt.want {
			t.Errorf("parseIcon(%q) = %+v, want %+v", tt.name, got, tt.want)
		}
	}
}

func TestParseTheme(t *testing.T) {
	if got, err := ParseTheme(" Monochrome "); err != nil || got != ThemeMonochrome {
		t.Fatalf("ParseTheme = %q, %v; want monochrome", got, err)
	}
	if _, err := ParseTheme("neon"); err == nil {
		t.Fatal("ParseTheme(neon) returned nil error")
	}
	var th Theme
	if err := th.UnmarshalText([]byte("METNO")); err != nil || th != ThemeMetno {
		t.Fatalf("UnmarshalText = %q, %v; want metno", th, err)
	}
	if _, err := Theme("bogus").MarshalText(); err == nil {
		t.Fatal("MarshalText of invalid theme returned nil error")
	}
}

func TestRendererImageSize(t *testing.T) {
	r := NewRenderer(0)
	if r.Size() != DefaultSize {
		t.Fatalf("Size() = %d, want %d", r.Size(), DefaultSize)
	}
	img := r.Image(ThemeMetno, "rain")
	if b := img.Bounds(); b.Dx() != DefaultSize || b.Dy() != DefaultSize {
		t.Fatalf("bounds = %v, want %dx%d", b, DefaultSize, DefaultSize)
	}
}

func TestRendererDrawsSomething(t *testing.T) {
	r := NewRenderer(24)
	for _, theme := range Themes() {
		for _, name := range []string{"clearsky_day", "clearsky_night", "heavysnow", "fog", "exclamation-circle"} {
			img := r.Image(theme, name)
			opaque := 0
			b := img.Bounds()
			for y := b.Min.Y; y < b.Max.Y; y++ {
				for x := b.Min.X; x < b.Max.X; x++ {
					if _, _, _, a := img.At(x, y).RGBA(); a > 0x8000 {
						opaque++
					}
				}
			}
			if opaque == 0 {
				t.Errorf("%s/%s rendered no visible pixels", theme, name)
			}
			if opaque == b.Dx()*b.Dy() {
				t.Errorf("%s/%s filled the whole icon", theme, name)
			}
		}
	}
}

func TestMonochromeAlertHasCutOutMark(t *testing.T) {
	r := NewRenderer(32)
	img := r.Image(ThemeMonochrome, "exclamation-circle")
	// Centre of the exclamation stroke.
	if _, _, _, a := img.At(16, 12).RGBA(); a > 0x4000 {
		t.Fatalf("alpha at mark = %#x, want transparent", a)
	}
	// Left part of the badge, away from the mark.
	if _, _, _, a := img.At(6, 16).RGBA(); a < 0xC000 {
		t.Fatalf("alpha at badge = %#x, want opaque", a)
	}
}

func TestRenderPNGDecodes(t *testing.T) {
	r := NewRenderer(16)
	data, err := r.PNG(ThemeMetno, "partlycloudy_day")
	if err != nil {
		t.Fatalf("PNG: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != 16 {
		t.Fatalf("width = %d, want 16", img.Bounds().Dx())
	}
}

func TestRenderCachesAndWrapsForPlatform(t *testing.T) {
	r := NewRenderer(16)
	first, err := r.Render(ThemeMetno, "snow")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	second, err := r.Render(ThemeMetno, "snow")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if &first[0] != &second[0] {
		t.Fatal("second Render did not return the cached bytes")
	}

	pngSig := []byte("\x89PNG\r\n\x1a\n")
	if runtime.GOOS == "windows" {
		if !bytes.Equal(first[:4], []byte{0, 0, 1, 0}) {
			t.Fatalf("ICO header = % x", first[:4])
		}
		if !bytes.HasPrefix(first[22:], pngSig) {
			t.Fatal("ICO payload is not PNG")
		}
		return
	}
	if !bytes.HasPrefix(first, pngSig) {
		t.Fatal("Render output is not PNG")
	}
}

func TestRenderInvalidThemeFallsBack(t *testing.T) {
	r := NewRenderer(16)
	a, _ := r.PNG(Theme("bogus"), "cloudy")
	b, _ := r.PNG(DefaultTheme, "cloudy")
	if !bytes.Equal(a, b) {
		t.Fatal("invalid theme did not render with the default theme")
	}
}

func TestRenderConcurrent(t *testing.T) {
	r := NewRenderer(16)
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			name := []string{"rain", "snow"}[i%2]
			if _, err := r.Render(ThemeMonochrome, name); err != nil {
				t.Errorf("Render: %v", err)
			}
		}()
	}
	wg.Wait()
}
