package ui

import (
	"fmt"

	"planline/internal/models"
)

// ANSI256 color codes
const (
	colorAccent   = 74  // blue
	colorMuted    = 245 // gray
	colorProgress = 39  // bright blue
	colorDone     = 71  // green
	colorDelayed  = 167 // red
)

var noColor bool

func paint(code int, s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", code, s)
}

// RenderAccent returns s in the accent (blue) color.
func RenderAccent(s string) string {
	return paint(colorAccent, s)
}

// RenderMuted returns s in the muted (gray) color.
func RenderMuted(s string) string {
	return paint(colorMuted, s)
}

// StatusColor returns the ANSI256 code used for a task status
func StatusColor(status string) int {
	switch status {
	case models.StatusInProgress:
		return colorProgress
	case models.StatusDone:
		return colorDone
	case models.StatusDelayed:
		return colorDelayed
	default:
		return colorMuted
	}
}

// RenderStatus returns s in the color of the given status
func RenderStatus(status, s string) string {
	return paint(StatusColor(status), s)
}

// ForceNoColor disables color output globally.
func ForceNoColor() {
	noColor = true
}
