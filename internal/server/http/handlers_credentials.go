package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dmitrijs2005/vaultkeeper/internal/server/models"
	"github.com/dmitrijs2005/vaultkeeper/internal/server/services"
)

type createCredentialReq struct {
	Website  string `json:"website"`
	Username string `json:"username"`
	Password string `json:"password"`
	Category string `json:"category"`
	Notes    string `json:"notes"`
	Strength string `json:"strength"`
}

type updateCredentialReq struct {
	Website  *string    `json:"website"`
	Username *string    `json:"username"`
	Password *string    `json:"password"`
	Category *string    `json:"category"`
	Notes    *string    `json:"notes"`
	Strength *string    `json:"strength"`
	LastUsed *time.Time `json:"lastUsed"`
}

type credentialResp struct {
	ID        string     `json:"id"`
	Website   string     `json:"website"`
	Username  string     `json:"username"`
	Password  string     `json:"password"`
	Category  string     `json:"category"`
	Notes     string     `json:"notes"`
	Strength  string     `json:"strength"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	LastUsed  *time.Time `json:"lastUsed"`
}

func toCredentialResp(cred *models.Credential) credentialResp {
	return credentialResp{
		ID:        cred.ID,
		Website:   cred.Website,
		Username:  cred.Username,
		Password:  cred.Password,
		Category:  cred.Category,
		Notes:     cred.Notes,
		Strength:  cred.Strength,
		CreatedAt: cred.CreatedAt,
		UpdatedAt: cred.UpdatedAt,
		LastUsed:  cred.LastUsed,
	}
}

func toCredentialResps(creds []*models.Credential) []credentialResp {
	out := make([]credentialResp, 0, len(creds))
	for _, cred := range creds {
		out = append(out, toCredentialResp(cred))
	}
	return out
}

func (s *Server) listCredentials(c echo.Context) error {
	creds, err := s.credentials.List(c.Request().Context(), callerID(c))
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(http.StatusOK, toCredentialResps(creds))
}

func (s *Server) getCredential(c echo.Context) error {
	cred, err := s.credentials.Get(c.Request().Context(), callerID(c), c.Param("id"))
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(http.StatusOK, toCredentialResp(cred))
}

func (s *Server) createCredential(c echo.Context) error {
	var req createCredentialReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid body"))
	}

	cred, err := s.credentials.Create(c.Request().Context(), callerID(c), services.CredentialInput{
		Website:  req.Website,
		Username: req.Username,
		Password: req.Password,
		Category: req.Category,
		Notes:    req.Notes,
		Strength: req.Strength,
	})
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(http.StatusCreated, toCredentialResp(cred))
}

func (s *Server) updateCredential(c echo.Context) error {
	var req updateCredentialReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid body"))
	}

	cred, err := s.credentials.Update(c.Request().Context(), callerID(c), c.Param("id"), services.CredentialPatch{
		Website:  req.Website,
		Username: req.Username,
		Password: req.Password,
		Category: req.Category,
		Notes:    req.Notes,
		Strength: req.Strength,
		LastUsed: req.LastUsed,
	})
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(http.StatusOK, toCredentialResp(cred))
}

func (s *Server) deleteCredential(c echo.Context) error {
	if err := s.credentials.Delete(c.Request().Context(), callerID(c), c.Param("id")); err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(http.StatusOK, okBody("Password deleted"))
}

// adminListCredentials is the bulk read behind the static admin token.
// Ciphertext is returned as stored; nothing is decrypted on this path.
func (s *Server) adminListCredentials(c echo.Context) error {
	creds, err := s.credentials.AdminListAll(c.Request().Context())
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(http.StatusOK, toCredentialResps(creds))
}
