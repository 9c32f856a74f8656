package ui

import (
	"github.com/charmbracelet/lipgloss"

	"modfinder/mod"
)

// Status values shown for a mod.
const (
	StatusUpToDate        = "up-to-date"
	StatusUpdateAvailable = "update-available"
	StatusNotInstalled    = "not-installed"
	StatusFailed          = "failed"
)

// Status returns the display status of rec.
func Status(rec *mod.Record) string {
	switch {
	case rec.State == mod.Failed:
		return StatusFailed
	case rec.State != mod.Installed:
		return StatusNotInstalled
	case rec.HasUpdate():
		return StatusUpdateAvailable
	default:
		return StatusUpToDate
	}
}

// StatusColor returns the terminal color used for status.
func StatusColor(status string) lipgloss.Color {
	switch status {
	case StatusUpdateAvailable:
		return lipgloss.Color("11") // Yellow
	case StatusUpToDate:
		return lipgloss.Color("10") // Green
	case StatusNotInstalled:
		return lipgloss.Color("8") // Grey
	case StatusFailed:
		return lipgloss.Color("9") // Red
	default:
		return lipgloss.Color("7") // White
	}
}

// Colorize renders text in the color of status.
func Colorize(text, status string) string {
	return lipgloss.NewStyle().Foreground(StatusColor(status)).Render(text)
}
