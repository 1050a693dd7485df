package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"finbase/internal/domain/models"
)

type WalletRepository struct {
	DB *sql.DB
}

func (r WalletRepository) Create(ctx context.Context, projectID int64, chain, address, providerID string) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO wallets (project_id, chain, address, provider_id, created_at)
		VALUES (?, ?, ?, ?, NOW())
	`, projectID, chain, address, providerID)
	if err != nil {
		return 0, fmt.Errorf("insert wallet: %w", err)
	}
	return res.LastInsertId()
}

func (r WalletRepository) ListByProject(ctx context.Context, projectID int64) ([]models.Wallet, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, project_id, chain, address, provider_id, created_at
		FROM wallets
		WHERE project_id = ?
		ORDER BY created_at DESC
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list wallets: %w", err)
	}
	defer rows.Close()

	out := []models.Wallet{}
	for rows.Next() {
		var w models.Wallet
		if err := rows.Scan(&w.ID, &w.ProjectID, &w.Chain, &w.Address, &w.ProviderID, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan wallet: %w", err)
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

func (r WalletRepository) FindByID(ctx context.Context, id int64) (*models.Wallet, error) {
	var w models.Wallet
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, project_id, chain, address, provider_id, created_at
		FROM wallets
		WHERE id = ?
	`, id).Scan(&w.ID, &w.ProjectID, &w.Chain, &w.Address, &w.ProviderID, &w.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find wallet %d: %w", id, err)
	}
	return &w, nil
}

// ExistsForChain enforces one custodial wallet per project per chain.
func (r WalletRepository) ExistsForChain(ctx context.Context, projectID int64, chain string) (bool, error) {
	var count int
	err := r.DB.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM wallets WHERE project_id = ? AND chain = ?
	`, projectID, chain).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("count wallets: %w", err)
	}
	return count > 0, nil
}
