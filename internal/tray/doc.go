// Package tray presents the weather in the operating system's notification
// area using github.com/energye/systray.
//
// The menu has exactly three entries: Update, Settings and Quit. A left
// click on the icon is reported on Clicks, a right click opens the menu.
// Both arrive from native callbacks and are forwarded without blocking.
//
// The controller drives the icon through SetWeather and SetError. Both
// render through icons.Renderer and only fail when an icon cannot be
// rendered.
package tray
