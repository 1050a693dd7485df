package models

import "time"

// Contract is an on-chain contract registered under a project so its state
// can be queried through the API.
type Contract struct {
	ID        int64     `json:"id"`
	ProjectID int64     `json:"project_id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Network   string    `json:"network"`
	CreatedAt time.Time `json:"created_at"`
}

// Wallet is a custodial wallet provisioned at the MPC provider.
type Wallet struct {
	ID         int64     `json:"id"`
	ProjectID  int64     `json:"project_id"`
	Chain      string    `json:"chain"`
	Address    string    `json:"address"`
	ProviderID string    `json:"provider_id"`
	CreatedAt  time.Time `json:"created_at"`
}
