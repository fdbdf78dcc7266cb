package components

import (
	"image/color"

	"github.com/abhisek/labprep/internal/session"
	"github.com/abhisek/labprep/internal/ui/theme"
)

// RatingColor returns the theme color for an assessment rating.
func RatingColor(r session.Rating) color.Color {
	switch r {
	case session.RatingStrong:
		return theme.Success
	case session.RatingDeveloping:
		return theme.Secondary
	case session.RatingNeedsWork:
		return theme.Warning
	default:
		return theme.Error
	}
}

// RatingIcon returns a one-cell marker for a rating.
func RatingIcon(r session.Rating) string {
	switch r {
	case session.RatingStrong:
		return "★"
	case session.RatingDeveloping:
		return "↗"
	case session.RatingNeedsWork:
		return "◆"
	default:
		return "!"
	}
}
