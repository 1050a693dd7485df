package models

import "time"

const (
	OrderActive = "active"
	OrderPaused = "paused"
	OrderClosed = "closed"

	SideBuy  = "buy"
	SideSell = "sell"
)

// Order is one managed trading order in the AI-quant module. Amounts are
// integer minor units (cents) to keep arithmetic exact.
type Order struct {
	ID        int64     `json:"id"`
	ProjectID int64     `json:"project_id"`
	Pair      string    `json:"pair"`
	Side      string    `json:"side"`
	Amount    int64     `json:"amount"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Position is an aggregated portfolio line: net exposure per pair.
type Position struct {
	Pair      string `json:"pair"`
	NetAmount int64  `json:"net_amount"`
	Orders    int    `json:"orders"`
}
