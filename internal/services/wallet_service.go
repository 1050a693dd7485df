package services

import (
	"context"

	"finbase/internal/auth"
	"finbase/internal/domain"
	"finbase/internal/domain/models"
	"finbase/internal/mpc"
	"finbase/internal/repositories"

	"github.com/rs/zerolog"
)

var supportedChains = map[string]bool{
	"neo":      true,
	"ethereum": true,
	"polygon":  true,
}

type WalletService struct {
	Wallets  repositories.WalletRepository
	Provider *mpc.Client
	Access   Access
	Log      zerolog.Logger
}

// Provision creates a custodial wallet at the MPC provider and records it.
// One wallet per project per chain.
func (s WalletService) Provision(ctx context.Context, principal auth.Principal, projectID int64, chainName string) (*models.Wallet, error) {
	if err := s.Access.Authorize(ctx, principal, projectID); err != nil {
		return nil, err
	}
	if !supportedChains[chainName] {
		return nil, domain.ValidationError{Field: "chain", Msg: "must be one of: neo, ethereum, polygon"}
	}

	exists, err := s.Wallets.ExistsForChain(ctx, projectID, chainName)
	if err != nil {
		return nil, domain.InternalError{Msg: "wallet check failed", Err: err}
	}
	if exists {
		return nil, domain.ConflictError{Resource: "wallet", Msg: "already provisioned for this chain"}
	}

	provisioned, err := s.Provider.CreateWallet(ctx, chainName)
	if err != nil {
		// Provider payloads may carry internal detail; log, never forward.
		s.Log.Error().Err(err).Int64("project_id", projectID).Str("chain", chainName).Msg("wallet provisioning failed")
		return nil, domain.InternalError{Msg: "wallet provisioning failed", Err: err}
	}

	id, err := s.Wallets.Create(ctx, projectID, chainName, provisioned.Address, provisioned.ID)
	if err != nil {
		return nil, domain.InternalError{Msg: "wallet record failed", Err: err}
	}
	return s.find(ctx, projectID, id)
}

func (s WalletService) List(ctx context.Context, principal auth.Principal, projectID int64) ([]models.Wallet, error) {
	if err := s.Access.Authorize(ctx, principal, projectID); err != nil {
		return nil, err
	}
	wallets, err := s.Wallets.ListByProject(ctx, projectID)
	if err != nil {
		return nil, domain.InternalError{Msg: "wallet listing failed", Err: err}
	}
	return wallets, nil
}

func (s WalletService) Balances(ctx context.Context, principal auth.Principal, projectID, walletID int64) ([]mpc.Balance, error) {
	if err := s.Access.Authorize(ctx, principal, projectID); err != nil {
		return nil, err
	}
	wallet, err := s.find(ctx, projectID, walletID)
	if err != nil {
		return nil, err
	}
	balances, err := s.Provider.GetBalances(ctx, wallet.ProviderID)
	if err != nil {
		s.Log.Error().Err(err).Int64("wallet_id", walletID).Msg("balance fetch failed")
		return nil, domain.InternalError{Msg: "balance fetch failed", Err: err}
	}
	return balances, nil
}

func (s WalletService) find(ctx context.Context, projectID, walletID int64) (*models.Wallet, error) {
	wallet, err := s.Wallets.FindByID(ctx, walletID)
	if err != nil {
		return nil, domain.InternalError{Msg: "wallet lookup failed", Err: err}
	}
	if wallet == nil || wallet.ProjectID != projectID {
		return nil, domain.NotFoundError{Resource: "wallet"}
	}
	return wallet, nil
}
