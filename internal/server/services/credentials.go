package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/vaultkeeper/internal/common"
	"github.com/dmitrijs2005/vaultkeeper/internal/cryptox"
	"github.com/dmitrijs2005/vaultkeeper/internal/logging"
	"github.com/dmitrijs2005/vaultkeeper/internal/server/models"
	"github.com/dmitrijs2005/vaultkeeper/internal/server/repositories/credentials"
)

// CredentialInput carries the fields of a new credential. Password is the
// plaintext secret; it is encrypted before it reaches the repository.
type CredentialInput struct {
	Website  string
	Username string
	Password string
	Category string
	Notes    string
	Strength string
}

// CredentialPatch is a partial update: nil fields keep their stored value.
type CredentialPatch struct {
	Website  *string
	Username *string
	Password *string
	Category *string
	Notes    *string
	Strength *string
	LastUsed *time.Time
}

// CredentialService owns the encrypted credential store. The caller identity
// always comes from the authenticated session, never from request payloads.
type CredentialService struct {
	creds  credentials.Repository
	cipher *cryptox.Cipher
	logger logging.Logger
}

// NewCredentialService constructs a CredentialService.
func NewCredentialService(repo credentials.Repository, cipher *cryptox.Cipher, logger logging.Logger) *CredentialService {
	return &CredentialService{
		creds:  repo,
		cipher: cipher,
		logger: logger.With("module", "credential_service"),
	}
}

// Create validates and stores a new credential for ownerID. The returned
// record carries the plaintext password, the one intentional echo in the
// immediate response to the mutating request; at rest only the token exists.
func (s *CredentialService) Create(ctx context.Context, ownerID string, in CredentialInput) (*models.Credential, error) {
	in.Website = strings.TrimSpace(in.Website)
	in.Username = strings.TrimSpace(in.Username)

	if in.Website == "" || in.Username == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: website, username and password are required", common.ErrorValidation)
	}

	if in.Category == "" {
		in.Category = models.CategoryPersonal
	}
	if !models.ValidCategory(in.Category) {
		return nil, fmt.Errorf("%w: unknown category %q", common.ErrorValidation, in.Category)
	}

	if in.Strength == "" {
		in.Strength = models.StrengthGood
	}
	if !models.ValidStrength(in.Strength) {
		return nil, fmt.Errorf("%w: unknown strength %q", common.ErrorValidation, in.Strength)
	}

	token, err := s.cipher.Encrypt(in.Password)
	if err != nil {
		return nil, err
	}

	cred := &models.Credential{
		UserID:   ownerID,
		Website:  in.Website,
		Username: in.Username,
		Password: token,
		Category: in.Category,
		Notes:    in.Notes,
		Strength: in.Strength,
	}

	cred, err = s.creds.Create(ctx, cred)
	if err != nil {
		return nil, err
	}

	cred.Password = in.Password
	return cred, nil
}

// List returns the owner's credentials newest first, passwords decrypted.
// A record whose token fails to decrypt is returned with an empty password
// and logged server-side; one bad record never aborts the batch.
func (s *CredentialService) List(ctx context.Context, ownerID string) ([]*models.Credential, error) {
	creds, err := s.creds.ListByUser(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	for _, cred := range creds {
		plaintext, err := s.cipher.Decrypt(cred.Password)
		if err != nil {
			s.logger.Warn(ctx, "credential decryption failed", "credential_id", cred.ID, "website", cred.Website)
			cred.Password = ""
			continue
		}
		cred.Password = plaintext
	}

	return creds, nil
}

// Get returns a single decrypted credential after the ownership check.
// Unlike List, a decryption failure here propagates: the caller asked for
// exactly this record.
func (s *CredentialService) Get(ctx context.Context, ownerID, id string) (*models.Credential, error) {
	cred, err := s.authorize(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	plaintext, err := s.cipher.Decrypt(cred.Password)
	if err != nil {
		return nil, err
	}

	cred.Password = plaintext
	return cred, nil
}

// Update applies a partial field replace after the ownership check. A new
// password is re-encrypted under a fresh IV.
func (s *CredentialService) Update(ctx context.Context, ownerID, id string, patch CredentialPatch) (*models.Credential, error) {
	cred, err := s.authorize(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if patch.Website != nil {
		w := strings.TrimSpace(*patch.Website)
		if w == "" {
			return nil, fmt.Errorf("%w: website must not be empty", common.ErrorValidation)
		}
		cred.Website = w
	}
	if patch.Username != nil {
		u := strings.TrimSpace(*patch.Username)
		if u == "" {
			return nil, fmt.Errorf("%w: username must not be empty", common.ErrorValidation)
		}
		cred.Username = u
	}
	if patch.Category != nil {
		if !models.ValidCategory(*patch.Category) {
			return nil, fmt.Errorf("%w: unknown category %q", common.ErrorValidation, *patch.Category)
		}
		cred.Category = *patch.Category
	}
	if patch.Strength != nil {
		if !models.ValidStrength(*patch.Strength) {
			return nil, fmt.Errorf("%w: unknown strength %q", common.ErrorValidation, *patch.Strength)
		}
		cred.Strength = *patch.Strength
	}
	if patch.Notes != nil {
		cred.Notes = *patch.Notes
	}
	if patch.LastUsed != nil {
		cred.LastUsed = patch.LastUsed
	}

	plaintext := ""
	if patch.Password != nil {
		if *patch.Password == "" {
			return nil, fmt.Errorf("%w: password must not be empty", common.ErrorValidation)
		}
		token, err := s.cipher.Encrypt(*patch.Password)
		if err != nil {
			return nil, err
		}
		cred.Password = token
		plaintext = *patch.Password
	}

	if err := s.creds.Update(ctx, cred); err != nil {
		return nil, err
	}

	if plaintext == "" {
		plaintext, err = s.cipher.Decrypt(cred.Password)
		if err != nil {
			return nil, err
		}
	}
	cred.Password = plaintext
	return cred, nil
}

// Delete removes a credential after the ownership check.
func (s *CredentialService) Delete(ctx context.Context, ownerID, id string) error {
	if _, err := s.authorize(ctx, ownerID, id); err != nil {
		return err
	}
	return s.creds.Delete(ctx, id)
}

// AdminListAll returns every stored credential with the ciphertext left
// opaque. Admin bulk-read surface only; nothing is decrypted here.
func (s *CredentialService) AdminListAll(ctx context.Context) ([]*models.Credential, error) {
	return s.creds.ListAll(ctx)
}

// authorize fetches the credential and enforces that ownerID owns it.
func (s *CredentialService) authorize(ctx context.Context, ownerID, id string) (*models.Credential, error) {
	cred, err := s.creds.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("%w: password not found", common.ErrorNotFound)
		}
		return nil, err
	}

	if cred.UserID != ownerID {
		return nil, common.ErrorForbidden
	}

	return cred, nil
}
