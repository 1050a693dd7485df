package services

import (
	"context"
	"strings"

	"finbase/internal/auth"
	"finbase/internal/domain"
	"finbase/internal/domain/models"
	"finbase/internal/repositories"
	"finbase/internal/utils"

	"golang.org/x/crypto/bcrypt"
)

type APIKeyService struct {
	Keys   repositories.APIKeyRepository
	Access Access
}

// IssuedKey carries the one-time plaintext alongside the stored record.
type IssuedKey struct {
	models.APIKey
	Plaintext string `json:"key"`
}

// Issue creates a key `fb_<prefix>_<secret>`. Only the bcrypt hash of the
// secret is stored; the plaintext is returned exactly once.
func (s APIKeyService) Issue(ctx context.Context, principal auth.Principal, projectID int64, name string) (*IssuedKey, error) {
	if err := s.Access.Authorize(ctx, principal, projectID); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ValidationError{Field: "name", Msg: "is required"}
	}

	taken, err := s.Keys.NameExists(ctx, projectID, name)
	if err != nil {
		return nil, domain.InternalError{Msg: "key name check failed", Err: err}
	}
	if taken {
		return nil, domain.ConflictError{Resource: "api key", Msg: "name already in use"}
	}

	prefix, err := utils.RandomHex(4)
	if err != nil {
		return nil, domain.InternalError{Msg: "key generation failed", Err: err}
	}
	secret, err := utils.RandomHex(16)
	if err != nil {
		return nil, domain.InternalError{Msg: "key generation failed", Err: err}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return nil, domain.InternalError{Msg: "key hashing failed", Err: err}
	}

	id, err := s.Keys.Create(ctx, projectID, name, prefix, string(hash))
	if err != nil {
		return nil, domain.InternalError{Msg: "key create failed", Err: err}
	}

	key, err := s.Keys.FindByID(ctx, id)
	if err != nil || key == nil {
		return nil, domain.InternalError{Msg: "key readback failed", Err: err}
	}

	return &IssuedKey{APIKey: *key, Plaintext: "fb_" + prefix + "_" + secret}, nil
}

// Verify checks a presented plaintext key against a stored record.
func (s APIKeyService) Verify(key models.APIKey, presented string) bool {
	parts := strings.SplitN(presented, "_", 3)
	if len(parts) != 3 || parts[0] != "fb" || parts[1] != key.Prefix {
		return false
	}
	if key.RevokedAt != nil {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(key.Hash), []byte(parts[2])) == nil
}

func (s APIKeyService) List(ctx context.Context, principal auth.Principal, projectID int64) ([]models.APIKey, error) {
	if err := s.Access.Authorize(ctx, principal, projectID); err != nil {
		return nil, err
	}
	keys, err := s.Keys.ListByProject(ctx, projectID)
	if err != nil {
		return nil, domain.InternalError{Msg: "key listing failed", Err: err}
	}
	return keys, nil
}

func (s APIKeyService) Revoke(ctx context.Context, principal auth.Principal, projectID, keyID int64) error {
	if err := s.Access.Authorize(ctx, principal, projectID); err != nil {
		return err
	}
	key, err := s.Keys.FindByID(ctx, keyID)
	if err != nil {
		return domain.InternalError{Msg: "key lookup failed", Err: err}
	}
	if key == nil || key.ProjectID != projectID {
		return domain.NotFoundError{Resource: "api key"}
	}
	if key.RevokedAt != nil {
		return domain.ConflictError{Resource: "api key", Msg: "already revoked"}
	}
	if err := s.Keys.Revoke(ctx, keyID); err != nil {
		return domain.InternalError{Msg: "key revoke failed", Err: err}
	}
	return nil
}
