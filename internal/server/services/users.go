// Package services contains server-side business logic. This file implements
// UserService: registration, login, admin login, profile updates, and the
// OTP-based password reset protocol.
package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/vaultkeeper/internal/common"
	"github.com/dmitrijs2005/vaultkeeper/internal/logging"
	"github.com/dmitrijs2005/vaultkeeper/internal/server/auth"
	"github.com/dmitrijs2005/vaultkeeper/internal/server/config"
	mailx "github.com/dmitrijs2005/vaultkeeper/internal/server/mail"
	"github.com/dmitrijs2005/vaultkeeper/internal/server/models"
	"github.com/dmitrijs2005/vaultkeeper/internal/server/otp"
	"github.com/dmitrijs2005/vaultkeeper/internal/server/repositories/users"
)

const minPasswordLength = 8

// AuthResult is what a successful Register or Login yields: the signed
// session token and the account it is bound to.
type AuthResult struct {
	Token string
	User  *models.User
}

// UserService handles authentication and the recovery path. The OTP store is
// the only shared mutable state; everything else is per-request.
type UserService struct {
	users         users.Repository
	otps          *otp.Store
	mailer        mailx.Mailer
	logger        logging.Logger
	jwtSecret     []byte
	tokenValidity time.Duration
	bcryptCost    int
	adminEmail    string
	adminPassword string
	frontendURL   string
}

// NewUserService constructs a UserService from its collaborators and config.
func NewUserService(repo users.Repository, otps *otp.Store, mailer mailx.Mailer, logger logging.Logger, cfg *config.Config) *UserService {
	return &UserService{
		users:         repo,
		otps:          otps,
		mailer:        mailer,
		logger:        logger.With("module", "user_service"),
		jwtSecret:     []byte(cfg.SecretKey),
		tokenValidity: cfg.TokenValidityDuration,
		bcryptCost:    cfg.BcryptCost,
		adminEmail:    cfg.AdminEmail,
		adminPassword: cfg.AdminPassword,
		frontendURL:   cfg.FrontendURL,
	}
}

// Register creates an account, sends the welcome message, and issues a
// session token. Validation failures happen before any mutation.
func (s *UserService) Register(ctx context.Context, fullName, email, password string) (*AuthResult, error) {
	fullName = strings.TrimSpace(fullName)
	email = normalizeEmail(email)

	if fullName == "" || email == "" || password == "" {
		return nil, fmt.Errorf("%w: all fields are required", common.ErrorValidation)
	}
	if !validEmail(email) {
		return nil, fmt.Errorf("%w: invalid email", common.ErrorValidation)
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters long", common.ErrorValidation, minPasswordLength)
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("%w: user already exists", common.ErrorConflict)
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		FullName:     fullName,
		Email:        email,
		PasswordHash: string(hash),
		Subscription: models.SubscriptionBasic,
	}

	user, err = s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	// The welcome message is best-effort: a mail outage must not block
	// registration.
	if err := s.mailer.Send(ctx, email, mailx.WelcomeSubject, mailx.WelcomeBody(fullName, s.frontendURL)); err != nil {
		s.logger.Warn(ctx, "welcome email not sent", "email", email, "error", err)
	}

	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.tokenValidity)
	if err != nil {
		return nil, err
	}

	return &AuthResult{Token: token, User: user}, nil
}

// Login verifies the password against the stored bcrypt hash and issues a
// fresh session token. An unknown email is reported as such; the distinct
// message matches the rest of the API.
func (s *UserService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = normalizeEmail(email)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("%w: user not found", common.ErrorNotFound)
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, common.ErrorUnauthorized
	}

	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.tokenValidity)
	if err != nil {
		return nil, err
	}

	return &AuthResult{Token: token, User: user}, nil
}

// AdminLogin compares the supplied pair against the operator-configured
// static credentials and issues the admin token on match.
func (s *UserService) AdminLogin(ctx context.Context, email, password string) (string, error) {
	if s.adminEmail == "" || s.adminPassword == "" {
		return "", common.ErrorUnauthorized
	}

	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(s.adminEmail)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.adminPassword)) == 1
	if !emailOK || !passOK {
		return "", common.ErrorUnauthorized
	}

	return auth.GenerateAdminToken(email+password, s.jwtSecret)
}

// VerifyAdminToken checks that token is the admin token issued by AdminLogin.
func (s *UserService) VerifyAdminToken(token string) error {
	subject, err := auth.GetSubjectFromToken(token, s.jwtSecret)
	if err != nil {
		return common.ErrInvalidToken
	}
	if subtle.ConstantTimeCompare([]byte(subject), []byte(s.adminEmail+s.adminPassword)) != 1 {
		return common.ErrInvalidToken
	}
	return nil
}

// ForgotPassword issues a fresh challenge for the account's email,
// superseding any prior one, and dispatches the code by mail. The code never
// appears in the return path or the logs.
func (s *UserService) ForgotPassword(ctx context.Context, email string) error {
	email = normalizeEmail(email)

	if email == "" || !validEmail(email) {
		return fmt.Errorf("%w: please enter a valid email", common.ErrorValidation)
	}

	if _, err := s.users.GetByEmail(ctx, email); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("%w: no user found with this email", common.ErrorNotFound)
		}
		return err
	}

	code, err := s.otps.Issue(email, otp.DefaultTTL)
	if err != nil {
		return err
	}

	return s.mailer.Send(ctx, email, mailx.OtpSubject, mailx.OtpBody(code, s.frontendURL))
}

// VerifyOtp checks the submitted code against the live challenge. A wrong or
// missing code is invalid; a correct code past its window purges the
// challenge and reports expiry. Success does NOT consume the challenge;
// only ResetPassword does.
func (s *UserService) VerifyOtp(ctx context.Context, email, code string) error {
	email = normalizeEmail(email)

	challenge, ok := s.otps.Get(email)
	if !ok || challenge.Code != code {
		return common.ErrOtpInvalid
	}

	if challenge.Expired(s.otps.Now()) {
		s.otps.Delete(email)
		return common.ErrOtpExpired
	}

	return nil
}

// ResetPassword replaces the account password and consumes the challenge.
// A live challenge for the email is required regardless of whether VerifyOtp
// was called first.
func (s *UserService) ResetPassword(ctx context.Context, email, newPassword, confirmPassword string) error {
	email = normalizeEmail(email)

	if email == "" || newPassword == "" || confirmPassword == "" {
		return fmt.Errorf("%w: all fields are required", common.ErrorValidation)
	}

	challenge, ok := s.otps.Get(email)
	if !ok {
		return common.ErrOtpRequired
	}
	if challenge.Expired(s.otps.Now()) {
		s.otps.Delete(email)
		return common.ErrOtpExpired
	}

	if len(newPassword) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters long", common.ErrorValidation, minPasswordLength)
	}
	if newPassword != confirmPassword {
		return fmt.Errorf("%w: passwords do not match", common.ErrorValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.bcryptCost)
	if err != nil {
		return err
	}

	if err := s.users.UpdatePasswordHashByEmail(ctx, email, string(hash)); err != nil {
		return err
	}

	s.otps.Delete(email)
	return nil
}

// UpdateProfile sets the account's display name.
func (s *UserService) UpdateProfile(ctx context.Context, userID, fullName string) (*models.User, error) {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return nil, fmt.Errorf("%w: full name is required", common.ErrorValidation)
	}

	if err := s.users.UpdateFullName(ctx, userID, fullName); err != nil {
		return nil, err
	}

	return s.users.GetByID(ctx, userID)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}
