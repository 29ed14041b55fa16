package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/vaultkeeper/internal/common"
	"github.com/dmitrijs2005/vaultkeeper/internal/cryptox"
	"github.com/dmitrijs2005/vaultkeeper/internal/logging"
	"github.com/dmitrijs2005/vaultkeeper/internal/server/config"
	"github.com/dmitrijs2005/vaultkeeper/internal/server/models"
	"github.com/dmitrijs2005/vaultkeeper/internal/server/otp"
	"github.com/dmitrijs2005/vaultkeeper/internal/server/services"
)

// --- in-memory collaborators ---

type memUserRepo struct {
	byEmail map[string]*models.User
}

func (r *memUserRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now()
	r.byEmail[user.Email] = user
	return user, nil
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	for _, u := range r.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *memUserRepo) UpdateFullName(ctx context.Context, id, fullName string) error {
	u, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	u.FullName = fullName
	return nil
}

func (r *memUserRepo) UpdatePasswordHashByEmail(ctx context.Context, email, hash string) error {
	u, ok := r.byEmail[email]
	if !ok {
		return common.ErrorNotFound
	}
	u.PasswordHash = hash
	return nil
}

type memCredRepo struct {
	byID map[string]*models.Credential
	seq  time.Time
}

func (r *memCredRepo) Create(ctx context.Context, cred *models.Credential) (*models.Credential, error) {
	cred.ID = uuid.NewString()
	r.seq = r.seq.Add(time.Second)
	cred.CreatedAt = r.seq
	cred.UpdatedAt = r.seq
	stored := *cred
	r.byID[cred.ID] = &stored
	return cred, nil
}

func (r *memCredRepo) GetByID(ctx context.Context, id string) (*models.Credential, error) {
	cred, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := *cred
	return &out, nil
}

func (r *memCredRepo) ListByUser(ctx context.Context, userID string) ([]*models.Credential, error) {
	var out []*models.Credential
	for _, cred := range r.byID {
		if cred.UserID == userID {
			cp := *cred
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memCredRepo) ListAll(ctx context.Context) ([]*models.Credential, error) {
	var out []*models.Credential
	for _, cred := range r.byID {
		cp := *cred
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memCredRepo) Update(ctx context.Context, cred *models.Credential) error {
	if _, ok := r.byID[cred.ID]; !ok {
		return common.ErrorNotFound
	}
	stored := *cred
	r.byID[cred.ID] = &stored
	return nil
}

func (r *memCredRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.byID, id)
	return nil
}

type memMailer struct{ sent []string }

func (m *memMailer) Send(ctx context.Context, to, subject, body string) error {
	m.sent = append(m.sent, body)
	return nil
}

// --- fixture ---

type serverFixture struct {
	srv      *Server
	credRepo *memCredRepo
	mailer   *memMailer
}

func newServerFixture(t *testing.T) *serverFixture {
	t.Helper()

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.SecretKey = "test-jwt-secret"
	cfg.EncryptionSecret = "test-enc-secret"
	cfg.BcryptCost = bcrypt.MinCost
	cfg.AdminEmail = "admin@example.com"
	cfg.AdminPassword = "hunter2hunter2"

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

	cipher, err := cryptox.NewCipher(cfg.EncryptionSecret)
	require.NoError(t, err)

	userRepo := &memUserRepo{byEmail: make(map[string]*models.User)}
	credRepo := &memCredRepo{byID: make(map[string]*models.Credential), seq: time.Now()}
	mailer := &memMailer{}

	us := services.NewUserService(userRepo, otp.NewStore(), mailer, logger, cfg)
	cs := services.NewCredentialService(credRepo, cipher, logger)

	return &serverFixture{
		srv:      NewServer(":0", logger, us, cs, cfg.SecretKey),
		credRepo: credRepo,
		mailer:   mailer,
	}
}

func (f *serverFixture) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	f.srv.Handler().ServeHTTP(rec, req)
	return rec
}

func (f *serverFixture) registerUser(t *testing.T, name, email string) (token string, userID string) {
	t.Helper()

	rec := f.do(t, http.MethodPost, "/api/user/register", "", map[string]string{
		"fullName": name, "email": email, "password": "password123",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Token  string `json:"token"`
		UserID string `json:"userId"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Token, resp.UserID
}

// --- tests ---

func TestEndToEnd_RegisterCreateList(t *testing.T) {
	f := newServerFixture(t)

	token, _ := f.registerUser(t, "Alice", "alice@example.com")

	rec := f.do(t, http.MethodPost, "/api/passwords", token, map[string]string{
		"website": "example.com", "username": "alice", "password": "s3cr3t!",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created credentialResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "s3cr3t!", created.Password)

	// at rest the record holds the iv:cipher token, never the plaintext
	stored := f.credRepo.byID[created.ID]
	require.NotNil(t, stored)
	assert.NotContains(t, stored.Password, "s3cr3t!")
	assert.Contains(t, stored.Password, ":")

	// the list decrypts on the way out
	rec = f.do(t, http.MethodGet, "/api/passwords", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var listed []credentialResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, "s3cr3t!", listed[0].Password)
}

func TestRegister_Validation(t *testing.T) {
	f := newServerFixture(t)

	rec := f.do(t, http.MethodPost, "/api/user/register", "", map[string]string{
		"fullName": "Alice", "email": "alice@example.com", "password": "1234567",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegister_Conflict(t *testing.T) {
	f := newServerFixture(t)

	f.registerUser(t, "Alice", "alice@example.com")

	rec := f.do(t, http.MethodPost, "/api/user/register", "", map[string]string{
		"fullName": "Alice 2", "email": "alice@example.com", "password": "password456",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestLogin_WrongPassword(t *testing.T) {
	f := newServerFixture(t)

	f.registerUser(t, "Alice", "alice@example.com")

	rec := f.do(t, http.MethodPost, "/api/user/login", "", map[string]string{
		"email": "alice@example.com", "password": "wrongpassword",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NotContains(t, rec.Body.String(), "token\":")
}

func TestCredentials_OwnershipEnforced(t *testing.T) {
	f := newServerFixture(t)

	tokenA, _ := f.registerUser(t, "Alice", "alice@example.com")
	tokenB, _ := f.registerUser(t, "Bob", "bob@example.com")

	rec := f.do(t, http.MethodPost, "/api/passwords", tokenA, map[string]string{
		"website": "example.com", "username": "alice", "password": "s3cr3t!",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created credentialResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	// B cannot fetch, update, or delete A's record
	rec = f.do(t, http.MethodGet, "/api/passwords/"+created.ID, tokenB, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(t, http.MethodPut, "/api/passwords/"+created.ID, tokenB, map[string]string{"notes": "stolen"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(t, http.MethodDelete, "/api/passwords/"+created.ID, tokenB, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// record untouched for A
	rec = f.do(t, http.MethodGet, "/api/passwords/"+created.ID, tokenA, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCredentials_RequireSession(t *testing.T) {
	f := newServerFixture(t)

	rec := f.do(t, http.MethodGet, "/api/passwords", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/passwords", "not.a.jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestResetPasswordFlow_OverHTTP(t *testing.T) {
	f := newServerFixture(t)

	f.registerUser(t, "Alice", "alice@example.com")
	f.mailer.sent = nil

	rec := f.do(t, http.MethodPost, "/api/user/forgot-password", "", map[string]string{"email": "alice@example.com"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, f.mailer.sent, 1)
	// the OTP is only in the mail body, never in the response
	assert.NotContains(t, rec.Body.String(), "otp")

	// resetting without a verified code still requires the live challenge:
	// a bogus verify fails, reset with the challenge present succeeds
	rec = f.do(t, http.MethodPost, "/api/user/verify-otp", "", map[string]string{
		"email": "alice@example.com", "otp": "0000000",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/user/reset-password", "", map[string]string{
		"email": "alice@example.com", "newPassword": "newpassword1", "confirmPassword": "newpassword1",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/user/login", "", map[string]string{
		"email": "alice@example.com", "password": "newpassword1",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUpdateProfile_UsesSessionIdentity(t *testing.T) {
	f := newServerFixture(t)

	token, _ := f.registerUser(t, "Alice", "alice@example.com")

	// a userId smuggled into the body is ignored; the session decides
	rec := f.do(t, http.MethodPut, "/api/user/update-profile", token, map[string]string{
		"fullName": "Alice Cooper", "userId": "someone-else",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Alice Cooper")
}

func TestAdminBulkRead(t *testing.T) {
	f := newServerFixture(t)

	token, _ := f.registerUser(t, "Alice", "alice@example.com")
	rec := f.do(t, http.MethodPost, "/api/passwords", token, map[string]string{
		"website": "example.com", "username": "alice", "password": "s3cr3t!",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	// no admin token
	rec = f.do(t, http.MethodGet, "/api/admin/passwords", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// a user session token is not an admin token
	req := httptest.NewRequest(http.MethodGet, "/api/admin/passwords", nil)
	req.Header.Set("token", token)
	rec2 := httptest.NewRecorder()
	f.srv.Handler().ServeHTTP(rec2, req)
	assert.Equal(t, http.StatusUnauthorized, rec2.Code)

	// the real admin token works and sees opaque ciphertext
	loginRec := f.do(t, http.MethodPost, "/api/user/admin", "", map[string]string{
		"email": "admin@example.com", "password": "hunter2hunter2",
	})
	require.Equal(t, http.StatusOK, loginRec.Code)
	var adminResp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(loginRec.Body.Bytes(), &adminResp))

	req = httptest.NewRequest(http.MethodGet, "/api/admin/passwords", nil)
	req.Header.Set("token", adminResp.Token)
	rec3 := httptest.NewRecorder()
	f.srv.Handler().ServeHTTP(rec3, req)
	require.Equal(t, http.StatusOK, rec3.Code)
	assert.NotContains(t, rec3.Body.String(), "s3cr3t!")
}
