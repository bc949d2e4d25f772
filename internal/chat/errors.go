package chat

import (
	"github.com/mnording/kompis/internal/i18n"
	"github.com/mnording/kompis/internal/models"
)

// UserMessage converts a provider failure into the localized message
// shown to the user. Unclassified errors get the generic apology with
// the raw detail appended so the user can report something concrete.
func UserMessage(err error, loc i18n.Locale) string {
	if err == nil {
		return ""
	}

	switch models.Classify(err) {
	case models.ErrorContentFilter:
		return loc.ErrContentFilter
	case models.ErrorFileTooLarge:
		return loc.ErrFileTooLarge
	case models.ErrorRateLimit:
		return loc.ErrRateLimit
	case models.ErrorAuth:
		return loc.ErrAuth
	case models.ErrorContextLength:
		return loc.ErrContextLength
	case models.ErrorConnection:
		return loc.ErrConnection
	default:
		return loc.ErrorOccurred + " (" + err.Error() + ")"
	}
}
