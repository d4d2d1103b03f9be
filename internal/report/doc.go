// Package report renders the configured location's forecast for the
// terminal, styled with lipgloss, for the `weathertray report` command.
// It can append the last lines of the tray's log file.
package report
