package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"finbase/internal/domain/models"
)

type ProjectRepository struct {
	DB *sql.DB
}

const projectColumns = "id, name, slug, status, owner_id, created_at, updated_at"

func scanProject(row interface{ Scan(...any) error }) (models.Project, error) {
	var p models.Project
	err := row.Scan(&p.ID, &p.Name, &p.Slug, &p.Status, &p.OwnerID, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// ListForUser returns projects the user owns or is a member of.
func (r ProjectRepository) ListForUser(ctx context.Context, userID int64, limit, offset int) ([]models.Project, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+projectColumns+`
		FROM projects
		WHERE owner_id = ?
		   OR id IN (SELECT project_id FROM project_members WHERE user_id = ?)
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`, userID, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()
	return collectProjects(rows)
}

func (r ProjectRepository) CountForUser(ctx context.Context, userID int64) (int64, error) {
	var total int64
	err := r.DB.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM projects
		WHERE owner_id = ?
		   OR id IN (SELECT project_id FROM project_members WHERE user_id = ?)
	`, userID, userID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count projects: %w", err)
	}
	return total, nil
}

// ListAll is the admin listing across every tenant.
func (r ProjectRepository) ListAll(ctx context.Context, limit, offset int) ([]models.Project, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+projectColumns+`
		FROM projects
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list all projects: %w", err)
	}
	defer rows.Close()
	return collectProjects(rows)
}

func (r ProjectRepository) CountAll(ctx context.Context) (int64, error) {
	var total int64
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM projects`).Scan(&total); err != nil {
		return 0, fmt.Errorf("count all projects: %w", err)
	}
	return total, nil
}

// FindByID returns the project or nil when no row exists.
func (r ProjectRepository) FindByID(ctx context.Context, id int64) (*models.Project, error) {
	p, err := scanProject(r.DB.QueryRowContext(ctx, `
		SELECT `+projectColumns+` FROM projects WHERE id = ?
	`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find project %d: %w", id, err)
	}
	return &p, nil
}

func (r ProjectRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM projects WHERE slug = ?`, slug).Scan(&count); err != nil {
		return false, fmt.Errorf("count slug: %w", err)
	}
	return count > 0, nil
}

func (r ProjectRepository) Create(ctx context.Context, name, slug string, ownerID int64) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO projects (name, slug, status, owner_id, created_at, updated_at)
		VALUES (?, ?, 'active', ?, NOW(), NOW())
	`, name, slug, ownerID)
	if err != nil {
		return 0, fmt.Errorf("insert project: %w", err)
	}
	return res.LastInsertId()
}

func (r ProjectRepository) Update(ctx context.Context, id int64, name, status string) error {
	_, err := r.DB.ExecContext(ctx, `
		UPDATE projects SET name = ?, status = ?, updated_at = NOW() WHERE id = ?
	`, name, status, id)
	if err != nil {
		return fmt.Errorf("update project %d: %w", id, err)
	}
	return nil
}

// IsMember reports whether the user owns or belongs to the project.
func (r ProjectRepository) IsMember(ctx context.Context, projectID, userID int64) (bool, error) {
	var count int
	err := r.DB.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM projects p
		LEFT JOIN project_members m ON m.project_id = p.id AND m.user_id = ?
		WHERE p.id = ? AND (p.owner_id = ? OR m.id IS NOT NULL)
	`, userID, projectID, userID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check membership: %w", err)
	}
	return count > 0, nil
}

func collectProjects(rows *sql.Rows) ([]models.Project, error) {
	out := []models.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
