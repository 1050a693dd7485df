package services

import (
	"context"
	"encoding/json"
	"strings"

	"finbase/internal/auth"
	"finbase/internal/cache"
	"finbase/internal/chain"
	"finbase/internal/domain"
	"finbase/internal/domain/models"
	"finbase/internal/repositories"

	"github.com/rs/zerolog"
)

type ContractService struct {
	Contracts repositories.ContractRepository
	Chain     *chain.Client
	Cache     *cache.Cache
	Access    Access
	Log       zerolog.Logger
}

func (s ContractService) Register(ctx context.Context, principal auth.Principal, projectID int64, name, address, network string) (*models.Contract, error) {
	if err := s.Access.Authorize(ctx, principal, projectID); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	address = strings.TrimSpace(address)
	if name == "" {
		return nil, domain.ValidationError{Field: "name", Msg: "is required"}
	}
	if !strings.HasPrefix(address, "0x") || len(address) < 10 {
		return nil, domain.ValidationError{Field: "address", Msg: "must be a 0x-prefixed contract hash"}
	}

	exists, err := s.Contracts.AddressExists(ctx, projectID, address)
	if err != nil {
		return nil, domain.InternalError{Msg: "contract check failed", Err: err}
	}
	if exists {
		return nil, domain.ConflictError{Resource: "contract", Msg: "address already registered"}
	}

	id, err := s.Contracts.Create(ctx, projectID, name, address, network)
	if err != nil {
		return nil, domain.InternalError{Msg: "contract create failed", Err: err}
	}
	return s.find(ctx, projectID, id)
}

func (s ContractService) List(ctx context.Context, principal auth.Principal, projectID int64) ([]models.Contract, error) {
	if err := s.Access.Authorize(ctx, principal, projectID); err != nil {
		return nil, err
	}
	contracts, err := s.Contracts.ListByProject(ctx, projectID)
	if err != nil {
		return nil, domain.InternalError{Msg: "contract listing failed", Err: err}
	}
	return contracts, nil
}

// State fetches the deployed contract state, read-through cached so repeated
// dashboard polling does not hammer the node.
func (s ContractService) State(ctx context.Context, principal auth.Principal, projectID, contractID int64) (json.RawMessage, error) {
	if err := s.Access.Authorize(ctx, principal, projectID); err != nil {
		return nil, err
	}
	contract, err := s.find(ctx, projectID, contractID)
	if err != nil {
		return nil, err
	}

	if raw, err := s.Cache.GetContractState(ctx, contract.Address); err == nil {
		return raw, nil
	} else if err != cache.ErrCacheMiss {
		s.Log.Warn().Err(err).Str("address", contract.Address).Msg("contract state cache read failed")
	}

	state, err := s.Chain.GetContractState(ctx, contract.Address)
	if err != nil {
		return nil, domain.InternalError{Msg: "contract state fetch failed", Err: err}
	}
	raw, err := json.Marshal(state)
	if err != nil {
		return nil, domain.InternalError{Msg: "contract state encode failed", Err: err}
	}
	if err := s.Cache.SetContractState(ctx, contract.Address, raw); err != nil {
		s.Log.Warn().Err(err).Str("address", contract.Address).Msg("contract state cache write failed")
	}
	return raw, nil
}

// Read performs a read-only method invocation against the contract.
func (s ContractService) Read(ctx context.Context, principal auth.Principal, projectID, contractID int64, method string, args []any) (*chain.InvokeResult, error) {
	if err := s.Access.Authorize(ctx, principal, projectID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(method) == "" {
		return nil, domain.ValidationError{Field: "method", Msg: "is required"}
	}
	contract, err := s.find(ctx, projectID, contractID)
	if err != nil {
		return nil, err
	}
	result, err := s.Chain.InvokeRead(ctx, contract.Address, method, args)
	if err != nil {
		return nil, domain.InternalError{Msg: "contract read failed", Err: err}
	}
	return result, nil
}

func (s ContractService) find(ctx context.Context, projectID, contractID int64) (*models.Contract, error) {
	contract, err := s.Contracts.FindByID(ctx, contractID)
	if err != nil {
		return nil, domain.InternalError{Msg: "contract lookup failed", Err: err}
	}
	if contract == nil || contract.ProjectID != projectID {
		return nil, domain.NotFoundError{Resource: "contract"}
	}
	return contract, nil
}
