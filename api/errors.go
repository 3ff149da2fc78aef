package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"portfolio-api/config"
	"portfolio-api/smartsheet"
)

// statusForError maps a pipeline failure onto the response status and the
// message placed in the error body.
func statusForError(err error) (int, string) {
	var upstream *smartsheet.UpstreamError
	switch {
	case errors.Is(err, smartsheet.ErrTokenMissing), errors.Is(err, config.ErrConfigMissing):
		return http.StatusServiceUnavailable, err.Error()
	case errors.As(err, &upstream):
		return http.StatusBadGateway, upstream.Error()
	default:
		return http.StatusInternalServerError, "Internal error: " + err.Error()
	}
}

func respondError(c echo.Context, err error) error {
	status, msg := statusForError(err)
	return c.JSON(status, errorResponse{Error: msg})
}
