// Package setup implements `weathertray setup`, a terminal alternative to
// the settings window built with bubbletea. It searches places by name,
// lets the user pick one and saves it. The other settings are kept when a
// settings file exists and take their defaults otherwise.
package setup
