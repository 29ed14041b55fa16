package http

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dmitrijs2005/vaultkeeper/internal/server/auth"
)

const userIDKey = "user_id"

// sessionAuth validates the Bearer session token and injects the bound
// account id into the request context. Handlers must take the caller
// identity from here and nowhere else; ids arriving in bodies or query
// strings are untrusted.
func (s *Server) sessionAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			return c.JSON(http.StatusUnauthorized, errorBody("missing bearer token"))
		}

		raw := strings.TrimPrefix(header, "Bearer ")
		userID, err := auth.GetUserIDFromToken(raw, s.jwtSecret)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, errorBody("invalid token"))
		}

		c.Set(userIDKey, userID)
		return next(c)
	}
}

// adminAuth guards the administrative bulk-read surface with the static
// admin token carried in the "token" header. No session binding.
func (s *Server) adminAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := c.Request().Header.Get("token")
		if token == "" {
			token = c.QueryParam("token")
		}
		if token == "" {
			return c.JSON(http.StatusUnauthorized, errorBody("missing admin token"))
		}

		if err := s.users.VerifyAdminToken(token); err != nil {
			return c.JSON(http.StatusUnauthorized, errorBody("invalid admin token"))
		}

		return next(c)
	}
}

func callerID(c echo.Context) string {
	id, _ := c.Get(userIDKey).(string)
	return id
}
