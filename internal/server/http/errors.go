package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dmitrijs2005/vaultkeeper/internal/common"
)

func errorBody(message string) echo.Map {
	return echo.Map{"success": false, "message": message}
}

// writeError maps service errors to HTTP responses. Internal detail never
// reaches the body: unexpected failures are logged server-side and answered
// with a generic message.
func (s *Server) writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, common.ErrorValidation),
		errors.Is(err, common.ErrOtpInvalid),
		errors.Is(err, common.ErrOtpExpired),
		errors.Is(err, common.ErrOtpRequired):
		return c.JSON(http.StatusBadRequest, errorBody(err.Error()))

	case errors.Is(err, common.ErrorUnauthorized), errors.Is(err, common.ErrInvalidToken):
		return c.JSON(http.StatusUnauthorized, errorBody(err.Error()))

	case errors.Is(err, common.ErrorForbidden):
		return c.JSON(http.StatusForbidden, errorBody("unauthorized"))

	case errors.Is(err, common.ErrorNotFound):
		return c.JSON(http.StatusNotFound, errorBody(err.Error()))

	case errors.Is(err, common.ErrorConflict):
		return c.JSON(http.StatusConflict, errorBody(err.Error()))

	default:
		s.logger.Error(c.Request().Context(), "request failed",
			"method", c.Request().Method, "path", c.Path(), "error", err)
		return c.JSON(http.StatusInternalServerError, errorBody("server error"))
	}
}
