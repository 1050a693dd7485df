package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"finbase/internal/domain/models"
)

type WebhookRepository struct {
	DB *sql.DB
}

func (r WebhookRepository) Create(ctx context.Context, projectID int64, url, event, secret string) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO webhooks (project_id, url, event, secret, created_at)
		VALUES (?, ?, ?, ?, NOW())
	`, projectID, url, event, secret)
	if err != nil {
		return 0, fmt.Errorf("insert webhook: %w", err)
	}
	return res.LastInsertId()
}

func (r WebhookRepository) ListByProject(ctx context.Context, projectID int64) ([]models.Webhook, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, project_id, url, event, secret, created_at
		FROM webhooks
		WHERE project_id = ?
		ORDER BY created_at DESC
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list webhooks: %w", err)
	}
	defer rows.Close()

	out := []models.Webhook{}
	for rows.Next() {
		var w models.Webhook
		if err := rows.Scan(&w.ID, &w.ProjectID, &w.URL, &w.Event, &w.Secret, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan webhook: %w", err)
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

func (r WebhookRepository) FindByID(ctx context.Context, id int64) (*models.Webhook, error) {
	var w models.Webhook
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, project_id, url, event, secret, created_at
		FROM webhooks
		WHERE id = ?
	`, id).Scan(&w.ID, &w.ProjectID, &w.URL, &w.Event, &w.Secret, &w.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find webhook %d: %w", id, err)
	}
	return &w, nil
}

func (r WebhookRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM webhooks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete webhook %d: %w", id, err)
	}
	return nil
}
