package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/spec-kit/contracts-service/internal/domain"
	"github.com/spec-kit/contracts-service/internal/repository"
	apperrors "github.com/spec-kit/contracts-service/pkg/util/errorutil"
)

// ContractService serves the read-only contract and job listings. It never
// mutates ledger state.
type ContractService struct {
	store  repository.Store
	logger *zap.Logger
}

// NewContractService constructs the service.
func NewContractService(store repository.Store, logger *zap.Logger) *ContractService {
	return &ContractService{store: store, logger: logger}
}

// GetContract returns a contract by id when the caller is party to it.
func (s *ContractService) GetContract(ctx context.Context, callerID, contractID int64) (*domain.Contract, error) {
	if contractID <= 0 {
		return nil, apperrors.NewInvalidRequest("contract id is required", nil)
	}
	contract, err := s.store.FindContract(ctx, contractID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("contract", nil)
		}
		return nil, mapLedgerError(err)
	}
	if !IsPartyToContract(callerID, contract) {
		return nil, apperrors.NewNotAuthorized("caller is not party to this contract")
	}
	return contract, nil
}

// ListContracts returns the caller's non-terminated contracts. An empty
// result is reported as not found, matching the public API contract.
func (s *ContractService) ListContracts(ctx context.Context, callerID int64) ([]domain.Contract, error) {
	if callerID <= 0 {
		return nil, apperrors.NewInvalidRequest("caller id is required", nil)
	}
	contracts, err := s.store.ListActiveContracts(ctx, callerID)
	if err != nil {
		return nil, mapLedgerError(err)
	}
	if len(contracts) == 0 {
		return nil, apperrors.NewNotFound("contracts", nil)
	}
	return contracts, nil
}

// ListUnpaidJobs returns unpaid jobs under the caller's non-terminated
// contracts, on either side of the contract.
func (s *ContractService) ListUnpaidJobs(ctx context.Context, callerID int64) ([]domain.Job, error) {
	if callerID <= 0 {
		return nil, apperrors.NewInvalidRequest("caller id is required", nil)
	}
	jobs, err := s.store.ListUnpaidJobs(ctx, callerID)
	if err != nil {
		return nil, mapLedgerError(err)
	}
	if len(jobs) == 0 {
		return nil, apperrors.NewNotFound("jobs", nil)
	}
	return jobs, nil
}
