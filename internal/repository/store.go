package repository

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/spec-kit/contracts-service/internal/domain"
)

var (
	// ErrNotFound indicates the referenced profile, contract or job is absent.
	ErrNotFound = errors.New("record not found")
	// ErrUnavailable indicates a lock timeout or transaction conflict.
	// Callers may retry with backoff.
	ErrUnavailable = errors.New("ledger store unavailable")
)

// Store is the ledger persistence collaborator. Reads outside RunTransaction
// see committed state only; every balance or job mutation goes through a Tx.
type Store interface {
	// FindProfile returns the profile by id, or ErrNotFound.
	FindProfile(ctx context.Context, id int64) (*domain.Profile, error)
	// FindContract returns the contract by id, or ErrNotFound.
	FindContract(ctx context.Context, id int64) (*domain.Contract, error)
	// ListActiveContracts returns non-terminated contracts the profile is
	// party to, as client or contractor.
	ListActiveContracts(ctx context.Context, profileID int64) ([]domain.Contract, error)
	// ListUnpaidJobs returns unpaid jobs under the profile's non-terminated
	// contracts.
	ListUnpaidJobs(ctx context.Context, profileID int64) ([]domain.Job, error)
	// SumUnpaidJobPrices returns the client's exposure: the sum of prices of
	// unpaid jobs under the client's non-terminated contracts.
	SumUnpaidJobPrices(ctx context.Context, clientID int64) (decimal.Decimal, error)
	// RunTransaction executes fn with row-level exclusive access to every
	// record it locks, committing all writes atomically or rolling back all
	// of them on any failure inside fn.
	RunTransaction(ctx context.Context, fn func(tx Tx) error) error
}

// Tx is the unit-of-work handle passed to RunTransaction callbacks.
type Tx interface {
	// FindJobWithContract loads a job and its owning contract, holding an
	// exclusive lock on the job row until commit.
	FindJobWithContract(ctx context.Context, jobID int64) (*domain.Job, *domain.Contract, error)
	// LockProfile loads a profile holding an exclusive lock on its row.
	LockProfile(ctx context.Context, id int64) (*domain.Profile, error)
	// SumUnpaidJobPrices computes exposure at the transaction's snapshot.
	SumUnpaidJobPrices(ctx context.Context, clientID int64) (decimal.Decimal, error)
	// UpdateProfileBalance writes a new balance for a previously locked profile.
	UpdateProfileBalance(ctx context.Context, id int64, balance decimal.Decimal) error
	// MarkJobPaid flips the job to paid with the given payment date.
	MarkJobPaid(ctx context.Context, id int64, paidAt time.Time) error
}
