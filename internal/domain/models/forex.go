package models

import "time"

const (
	InvestmentActive   = "active"
	InvestmentRedeemed = "redeemed"
)

// Pool is a shared liquidity pool for one synthetic currency pair.
// Unit price is in minor units per unit; lock days gate redemption.
type Pool struct {
	ID           int64     `json:"id"`
	Code         string    `json:"code"`
	CurrencyPair string    `json:"currency_pair"`
	TotalUnits   int64     `json:"total_units"`
	UnitPrice    int64     `json:"unit_price"`
	LockDays     int       `json:"lock_days"`
	CreatedAt    time.Time `json:"created_at"`
}

// Investment is a project's stake in a pool.
type Investment struct {
	ID         int64      `json:"id"`
	PoolID     int64      `json:"pool_id"`
	ProjectID  int64      `json:"project_id"`
	Units      int64      `json:"units"`
	Status     string     `json:"status"`
	InvestedAt time.Time  `json:"invested_at"`
	RedeemedAt *time.Time `json:"redeemed_at,omitempty"`
}

// Allocation is one investment's share of a pooled trade result.
type Allocation struct {
	InvestmentID int64 `json:"investment_id"`
	Amount       int64 `json:"amount"`
}
