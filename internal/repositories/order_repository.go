package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"finbase/internal/domain/models"
)

type OrderRepository struct {
	DB *sql.DB
}

const orderColumns = "id, project_id, pair, side, amount, status, created_at, updated_at"

func (r OrderRepository) Create(ctx context.Context, projectID int64, pair, side string, amount int64) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO aiquant_orders (project_id, pair, side, amount, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, 'active', NOW(), NOW())
	`, projectID, pair, side, amount)
	if err != nil {
		return 0, fmt.Errorf("insert order: %w", err)
	}
	return res.LastInsertId()
}

func (r OrderRepository) ListByProject(ctx context.Context, projectID int64, limit, offset int) ([]models.Order, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+orderColumns+`
		FROM aiquant_orders
		WHERE project_id = ?
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`, projectID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	out := []models.Order{}
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(&o.ID, &o.ProjectID, &o.Pair, &o.Side, &o.Amount, &o.Status, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r OrderRepository) CountByProject(ctx context.Context, projectID int64) (int64, error) {
	var total int64
	err := r.DB.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM aiquant_orders WHERE project_id = ?
	`, projectID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return total, nil
}

func (r OrderRepository) FindByID(ctx context.Context, id int64) (*models.Order, error) {
	var o models.Order
	err := r.DB.QueryRowContext(ctx, `
		SELECT `+orderColumns+` FROM aiquant_orders WHERE id = ?
	`, id).Scan(&o.ID, &o.ProjectID, &o.Pair, &o.Side, &o.Amount, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find order %d: %w", id, err)
	}
	return &o, nil
}

func (r OrderRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	_, err := r.DB.ExecContext(ctx, `
		UPDATE aiquant_orders SET status = ?, updated_at = NOW() WHERE id = ?
	`, status, id)
	if err != nil {
		return fmt.Errorf("update order %d: %w", id, err)
	}
	return nil
}

// PositionsByProject aggregates net exposure per pair over open orders.
// Buys add, sells subtract.
func (r OrderRepository) PositionsByProject(ctx context.Context, projectID int64) ([]models.Position, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT pair,
		       SUM(CASE WHEN side = 'buy' THEN amount ELSE -amount END) AS net_amount,
		       COUNT(*) AS orders
		FROM aiquant_orders
		WHERE project_id = ? AND status != 'closed'
		GROUP BY pair
		ORDER BY pair
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("aggregate positions: %w", err)
	}
	defer rows.Close()

	out := []models.Position{}
	for rows.Next() {
		var p models.Position
		if err := rows.Scan(&p.Pair, &p.NetAmount, &p.Orders); err != nil {
			return nil, fmt.Errorf("scan position: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
