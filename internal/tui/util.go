package tui

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/GregorioSC/Journaling-Companion/internal/api"
)

// humanError turns a backend failure into the message shown to the user:
// the backend-provided detail when available, else a generic fallback.
func humanError(err error) string {
	if err == nil {
		return ""
	}
	var reqErr *api.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Message
	}
	var vErrs validator.ValidationErrors
	if errors.As(err, &vErrs) && len(vErrs) > 0 {
		return "invalid " + strings.ToLower(vErrs[0].Field())
	}
	return "something went wrong, please try again"
}
