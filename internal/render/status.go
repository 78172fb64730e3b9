// Package render turns ledger state into terminal output and report files.
package render

import "giwa/sdk-probe/internal/domain"

// StatusColor returns the display color for s as a hex string.
func StatusColor(s domain.Status) string {
	switch s {
	case domain.StatusPass:
		return "#4CAF50"
	case domain.StatusFail:
		return "#F44336"
	case domain.StatusSkip:
		return "#FF9800"
	case domain.StatusRunning:
		return "#2196F3"
	default:
		return "#9E9E9E"
	}
}

// StatusGlyph returns the single-character marker for s.
func StatusGlyph(s domain.Status) string {
	switch s {
	case domain.StatusPass:
		return "✓"
	case domain.StatusFail:
		return "✗"
	case domain.StatusSkip:
		return "○"
	case domain.StatusRunning:
		return "●"
	default:
		return "—"
	}
}
