// Package icons draws the tray's weather icons.
//
// Icons are vector glyphs built from met.no icon names ("clearsky_day",
// "lightrainandthunder", "exclamation-circle"). The name is decomposed into
// shapes: sun or moon, a large or small cloud, one to three drops or flakes
// for light, normal and heavy precipitation, a bolt, fog bars, or the alert
// badge for anything that cannot be drawn.
//
// Glyphs are rasterized with golang.org/x/image/vector at four times the
// target size and scaled down with imaging's Lanczos filter. Render caches
// the encoded result per theme and name, since the tray asks for the same
// handful of icons on every update.
//
// Two themes exist: ThemeMetno in colour and ThemeMonochrome in a single
// light tone, where the alert badge has its mark cut out rather than painted.
package icons
