package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"finbase/internal/domain/models"
)

type ContractRepository struct {
	DB *sql.DB
}

func (r ContractRepository) Create(ctx context.Context, projectID int64, name, address, network string) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO contracts (project_id, name, address, network, created_at)
		VALUES (?, ?, ?, ?, NOW())
	`, projectID, name, address, network)
	if err != nil {
		return 0, fmt.Errorf("insert contract: %w", err)
	}
	return res.LastInsertId()
}

func (r ContractRepository) ListByProject(ctx context.Context, projectID int64) ([]models.Contract, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, project_id, name, address, network, created_at
		FROM contracts
		WHERE project_id = ?
		ORDER BY created_at DESC
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list contracts: %w", err)
	}
	defer rows.Close()

	out := []models.Contract{}
	for rows.Next() {
		var ct models.Contract
		if err := rows.Scan(&ct.ID, &ct.ProjectID, &ct.Name, &ct.Address, &ct.Network, &ct.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan contract: %w", err)
		}
		out = append(out, ct)
	}
	return out, rows.Err()
}

func (r ContractRepository) FindByID(ctx context.Context, id int64) (*models.Contract, error) {
	var ct models.Contract
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, project_id, name, address, network, created_at
		FROM contracts
		WHERE id = ?
	`, id).Scan(&ct.ID, &ct.ProjectID, &ct.Name, &ct.Address, &ct.Network, &ct.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find contract %d: %w", id, err)
	}
	return &ct, nil
}

func (r ContractRepository) AddressExists(ctx context.Context, projectID int64, address string) (bool, error) {
	var count int
	err := r.DB.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM contracts WHERE project_id = ? AND address = ?
	`, projectID, address).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("count contracts: %w", err)
	}
	return count > 0, nil
}
