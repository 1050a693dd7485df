package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"finbase/internal/domain/models"
)

type MemberRepository struct {
	DB *sql.DB
}

func (r MemberRepository) ListByProject(ctx context.Context, projectID int64) ([]models.Member, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, project_id, user_id, role, created_at
		FROM project_members
		WHERE project_id = ?
		ORDER BY created_at
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	out := []models.Member{}
	for rows.Next() {
		var m models.Member
		if err := rows.Scan(&m.ID, &m.ProjectID, &m.UserID, &m.Role, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r MemberRepository) Exists(ctx context.Context, projectID, userID int64) (bool, error) {
	var count int
	err := r.DB.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM project_members WHERE project_id = ? AND user_id = ?
	`, projectID, userID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("count members: %w", err)
	}
	return count > 0, nil
}

func (r MemberRepository) Add(ctx context.Context, projectID, userID int64, role string) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO project_members (project_id, user_id, role, created_at)
		VALUES (?, ?, ?, NOW())
	`, projectID, userID, role)
	if err != nil {
		return 0, fmt.Errorf("insert member: %w", err)
	}
	return res.LastInsertId()
}

func (r MemberRepository) Remove(ctx context.Context, projectID, userID int64) error {
	_, err := r.DB.ExecContext(ctx, `
		DELETE FROM project_members WHERE project_id = ? AND user_id = ?
	`, projectID, userID)
	if err != nil {
		return fmt.Errorf("remove member: %w", err)
	}
	return nil
}
