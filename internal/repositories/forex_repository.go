package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"finbase/internal/domain/models"
)

type PoolRepository struct {
	DB *sql.DB
}

func (r PoolRepository) List(ctx context.Context) ([]models.Pool, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, code, currency_pair, total_units, unit_price, lock_days, created_at
		FROM forex_pools
		ORDER BY code
	`)
	if err != nil {
		return nil, fmt.Errorf("list pools: %w", err)
	}
	defer rows.Close()

	out := []models.Pool{}
	for rows.Next() {
		var p models.Pool
		if err := rows.Scan(&p.ID, &p.Code, &p.CurrencyPair, &p.TotalUnits, &p.UnitPrice, &p.LockDays, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan pool: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r PoolRepository) FindByID(ctx context.Context, id int64) (*models.Pool, error) {
	var p models.Pool
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, code, currency_pair, total_units, unit_price, lock_days, created_at
		FROM forex_pools
		WHERE id = ?
	`, id).Scan(&p.ID, &p.Code, &p.CurrencyPair, &p.TotalUnits, &p.UnitPrice, &p.LockDays, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find pool %d: %w", id, err)
	}
	return &p, nil
}

func (r PoolRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	var count int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM forex_pools WHERE code = ?`, code).Scan(&count); err != nil {
		return false, fmt.Errorf("count pools: %w", err)
	}
	return count > 0, nil
}

func (r PoolRepository) Create(ctx context.Context, code, pair string, unitPrice int64, lockDays int) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO forex_pools (code, currency_pair, total_units, unit_price, lock_days, created_at)
		VALUES (?, ?, 0, ?, ?, NOW())
	`, code, pair, unitPrice, lockDays)
	if err != nil {
		return 0, fmt.Errorf("insert pool: %w", err)
	}
	return res.LastInsertId()
}

func (r PoolRepository) AddUnits(ctx context.Context, id, units int64) error {
	_, err := r.DB.ExecContext(ctx, `
		UPDATE forex_pools SET total_units = total_units + ? WHERE id = ?
	`, units, id)
	if err != nil {
		return fmt.Errorf("adjust pool units: %w", err)
	}
	return nil
}

type InvestmentRepository struct {
	DB *sql.DB
}

const investmentColumns = "id, pool_id, project_id, units, status, invested_at, redeemed_at"

func (r InvestmentRepository) Create(ctx context.Context, poolID, projectID, units int64) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO forex_investments (pool_id, project_id, units, status, invested_at)
		VALUES (?, ?, ?, 'active', NOW())
	`, poolID, projectID, units)
	if err != nil {
		return 0, fmt.Errorf("insert investment: %w", err)
	}
	return res.LastInsertId()
}

func (r InvestmentRepository) FindByID(ctx context.Context, id int64) (*models.Investment, error) {
	var inv models.Investment
	err := r.DB.QueryRowContext(ctx, `
		SELECT `+investmentColumns+` FROM forex_investments WHERE id = ?
	`, id).Scan(&inv.ID, &inv.PoolID, &inv.ProjectID, &inv.Units, &inv.Status, &inv.InvestedAt, &inv.RedeemedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find investment %d: %w", id, err)
	}
	return &inv, nil
}

// ListActiveByPool returns active stakes ordered by size, largest first, so
// allocation remainders land deterministically.
func (r InvestmentRepository) ListActiveByPool(ctx context.Context, poolID int64) ([]models.Investment, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+investmentColumns+`
		FROM forex_investments
		WHERE pool_id = ? AND status = 'active'
		ORDER BY units DESC, id ASC
	`, poolID)
	if err != nil {
		return nil, fmt.Errorf("list investments: %w", err)
	}
	defer rows.Close()

	out := []models.Investment{}
	for rows.Next() {
		var inv models.Investment
		if err := rows.Scan(&inv.ID, &inv.PoolID, &inv.ProjectID, &inv.Units, &inv.Status, &inv.InvestedAt, &inv.RedeemedAt); err != nil {
			return nil, fmt.Errorf("scan investment: %w", err)
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

func (r InvestmentRepository) ListByProject(ctx context.Context, projectID int64) ([]models.Investment, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+investmentColumns+`
		FROM forex_investments
		WHERE project_id = ?
		ORDER BY invested_at DESC
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list project investments: %w", err)
	}
	defer rows.Close()

	out := []models.Investment{}
	for rows.Next() {
		var inv models.Investment
		if err := rows.Scan(&inv.ID, &inv.PoolID, &inv.ProjectID, &inv.Units, &inv.Status, &inv.InvestedAt, &inv.RedeemedAt); err != nil {
			return nil, fmt.Errorf("scan investment: %w", err)
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

func (r InvestmentRepository) MarkRedeemed(ctx context.Context, id int64) error {
	_, err := r.DB.ExecContext(ctx, `
		UPDATE forex_investments
		SET status = 'redeemed', redeemed_at = NOW()
		WHERE id = ? AND status = 'active'
	`, id)
	if err != nil {
		return fmt.Errorf("redeem investment %d: %w", id, err)
	}
	return nil
}
