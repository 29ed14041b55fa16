package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type registerReq struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type forgotPasswordReq struct {
	Email string `json:"email"`
}

type verifyOtpReq struct {
	Email string `json:"email"`
	Otp   string `json:"otp"`
}

type resetPasswordReq struct {
	Email           string `json:"email"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

type updateProfileReq struct {
	FullName string `json:"fullName"`
}

type authResp struct {
	Success      bool   `json:"success"`
	Token        string `json:"token"`
	UserID       string `json:"userId"`
	FullName     string `json:"fullName"`
	Email        string `json:"email"`
	Subscription string `json:"subscription"`
}

func okBody(message string) echo.Map {
	return echo.Map{"success": true, "message": message}
}

func (s *Server) register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid body"))
	}

	res, err := s.users.Register(c.Request().Context(), req.FullName, req.Email, req.Password)
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(http.StatusOK, authResp{
		Success:      true,
		Token:        res.Token,
		UserID:       res.User.ID,
		FullName:     res.User.FullName,
		Email:        res.User.Email,
		Subscription: res.User.Subscription,
	})
}

func (s *Server) login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid body"))
	}

	res, err := s.users.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(http.StatusOK, authResp{
		Success:      true,
		Token:        res.Token,
		UserID:       res.User.ID,
		FullName:     res.User.FullName,
		Email:        res.User.Email,
		Subscription: res.User.Subscription,
	})
}

func (s *Server) adminLogin(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid body"))
	}

	token, err := s.users.AdminLogin(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "token": token})
}

func (s *Server) forgotPassword(c echo.Context) error {
	var req forgotPasswordReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid body"))
	}

	if err := s.users.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(http.StatusOK, okBody("OTP sent to your email"))
}

func (s *Server) verifyOtp(c echo.Context) error {
	var req verifyOtpReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid body"))
	}

	if err := s.users.VerifyOtp(c.Request().Context(), req.Email, req.Otp); err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(http.StatusOK, okBody("OTP verified"))
}

func (s *Server) resetPassword(c echo.Context) error {
	var req resetPasswordReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid body"))
	}

	if err := s.users.ResetPassword(c.Request().Context(), req.Email, req.NewPassword, req.ConfirmPassword); err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(http.StatusOK, okBody("Password reset successfully"))
}

func (s *Server) updateProfile(c echo.Context) error {
	var req updateProfileReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid body"))
	}

	user, err := s.users.UpdateProfile(c.Request().Context(), callerID(c), req.FullName)
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Profile updated", "fullName": user.FullName})
}
