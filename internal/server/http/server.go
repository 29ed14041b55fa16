// Package http exposes the REST surface: account and reset-protocol routes,
// the per-user credential CRUD, and the admin bulk read.
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dmitrijs2005/vaultkeeper/internal/logging"
	"github.com/dmitrijs2005/vaultkeeper/internal/server/services"
)

// Server wires the echo router to the service layer.
type Server struct {
	address     string
	logger      logging.Logger
	users       *services.UserService
	credentials *services.CredentialService
	jwtSecret   []byte
	echo        *echo.Echo
}

// NewServer builds the router. The JWT secret is only used by the session
// middleware; token issuance lives in the service layer.
func NewServer(address string, l logging.Logger, us *services.UserService, cs *services.CredentialService, secretKey string) *Server {
	s := &Server{
		address:     address,
		logger:      l.With("module", "http_server"),
		users:       us,
		credentials: cs,
		jwtSecret:   []byte(secretKey),
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	s.registerRoutes(e)
	s.echo = e

	return s
}

func (s *Server) registerRoutes(e *echo.Echo) {
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "API Working")
	})

	user := e.Group("/api/user")
	user.POST("/register", s.register)
	user.POST("/login", s.login)
	user.POST("/admin", s.adminLogin)
	user.POST("/forgot-password", s.forgotPassword)
	user.POST("/verify-otp", s.verifyOtp)
	user.POST("/reset-password", s.resetPassword)
	user.PUT("/update-profile", s.updateProfile, s.sessionAuth)

	passwords := e.Group("/api/passwords", s.sessionAuth)
	passwords.GET("", s.listCredentials)
	passwords.POST("", s.createCredential)
	passwords.GET("/:id", s.getCredential)
	passwords.PUT("/:id", s.updateCredential)
	passwords.DELETE("/:id", s.deleteCredential)

	admin := e.Group("/api/admin", s.adminAuth)
	admin.GET("/passwords", s.adminListCredentials)
}

// Handler exposes the underlying router. Test hook.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.echo.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := s.echo.Start(s.address); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}
