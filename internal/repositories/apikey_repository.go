package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"finbase/internal/domain/models"
)

type APIKeyRepository struct {
	DB *sql.DB
}

func (r APIKeyRepository) Create(ctx context.Context, projectID int64, name, prefix, hash string) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO api_keys (project_id, name, prefix, secret_hash, created_at)
		VALUES (?, ?, ?, ?, NOW())
	`, projectID, name, prefix, hash)
	if err != nil {
		return 0, fmt.Errorf("insert api key: %w", err)
	}
	return res.LastInsertId()
}

func (r APIKeyRepository) ListByProject(ctx context.Context, projectID int64) ([]models.APIKey, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, project_id, name, prefix, secret_hash, created_at, revoked_at
		FROM api_keys
		WHERE project_id = ?
		ORDER BY created_at DESC
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list api keys: %w", err)
	}
	defer rows.Close()

	out := []models.APIKey{}
	for rows.Next() {
		var k models.APIKey
		if err := rows.Scan(&k.ID, &k.ProjectID, &k.Name, &k.Prefix, &k.Hash, &k.CreatedAt, &k.RevokedAt); err != nil {
			return nil, fmt.Errorf("scan api key: %w", err)
		}
		out = append(out, k)
	}
	return out, rows.Err()
}

func (r APIKeyRepository) FindByID(ctx context.Context, id int64) (*models.APIKey, error) {
	var k models.APIKey
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, project_id, name, prefix, secret_hash, created_at, revoked_at
		FROM api_keys
		WHERE id = ?
	`, id).Scan(&k.ID, &k.ProjectID, &k.Name, &k.Prefix, &k.Hash, &k.CreatedAt, &k.RevokedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find api key %d: %w", id, err)
	}
	return &k, nil
}

func (r APIKeyRepository) NameExists(ctx context.Context, projectID int64, name string) (bool, error) {
	var count int
	err := r.DB.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM api_keys WHERE project_id = ? AND name = ? AND revoked_at IS NULL
	`, projectID, name).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("count api keys: %w", err)
	}
	return count > 0, nil
}

func (r APIKeyRepository) Revoke(ctx context.Context, id int64) error {
	_, err := r.DB.ExecContext(ctx, `
		UPDATE api_keys SET revoked_at = NOW() WHERE id = ? AND revoked_at IS NULL
	`, id)
	if err != nil {
		return fmt.Errorf("revoke api key %d: %w", id, err)
	}
	return nil
}
