package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/spec-kit/contracts-service/internal/config"
	"github.com/spec-kit/contracts-service/internal/domain"
	"github.com/spec-kit/contracts-service/internal/events"
	"github.com/spec-kit/contracts-service/internal/observability"
	"github.com/spec-kit/contracts-service/internal/repository"
	apperrors "github.com/spec-kit/contracts-service/pkg/util/errorutil"
)

// PaymentStatus distinguishes a fresh payment from an idempotent replay.
type PaymentStatus string

const (
	PaymentApplied        PaymentStatus = "applied"
	PaymentAlreadySettled PaymentStatus = "already_settled"
)

// PaymentResult is the discriminated outcome of a successful PayJob call.
type PaymentResult struct {
	Status PaymentStatus
	Job    *domain.Job
}

// DepositResult reports the balance after an accepted deposit.
type DepositResult struct {
	ProfileID  int64
	NewBalance decimal.Decimal
}

// LedgerService executes job payments and balance deposits. It holds no
// mutable ledger state of its own; every balance read and write happens
// inside a Store transaction.
type LedgerService struct {
	store      repository.Store
	dispatcher events.Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
	capRatio   decimal.Decimal
	now        func() time.Time
}

// NewLedgerService builds the service. An unparseable deposit cap ratio falls
// back to 0.25.
func NewLedgerService(store repository.Store, dispatcher events.Dispatcher, logger *zap.Logger, metrics *observability.Metrics, cfg config.LedgerConfig) *LedgerService {
	capRatio, err := decimal.NewFromString(cfg.DepositCapRatio)
	if err != nil || capRatio.LessThanOrEqual(decimal.Zero) {
		capRatio = decimal.NewFromFloat(0.25)
	}
	return &LedgerService{
		store:      store,
		dispatcher: dispatcher,
		logger:     logger,
		metrics:    metrics,
		capRatio:   capRatio,
		now:        time.Now,
	}
}

// PayJob transfers the job's price from the contract's client to its
// contractor, marks the job paid and stamps the payment date, all in one
// transaction. Paying an already-paid job is a no-op reported as
// PaymentAlreadySettled. Contract status is intentionally not checked here;
// jobs on terminated contracts remain payable.
func (s *LedgerService) PayJob(ctx context.Context, jobID, callerID int64) (*PaymentResult, error) {
	if jobID <= 0 || callerID <= 0 {
		return nil, apperrors.NewInvalidRequest("job id and caller id are required", nil)
	}

	var (
		result       *PaymentResult
		paidContract *domain.Contract
	)
	err := s.store.RunTransaction(ctx, func(tx repository.Tx) error {
		job, contract, err := tx.FindJobWithContract(ctx, jobID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperrors.NewNotFound("job", nil)
			}
			return err
		}

		if !IsClientOfContract(callerID, contract) {
			return apperrors.NewNotAuthorized("caller may not pay this job")
		}

		if job.Paid {
			result = &PaymentResult{Status: PaymentAlreadySettled, Job: job}
			return nil
		}

		client, contractor, err := s.lockParties(ctx, tx, contract)
		if err != nil {
			return err
		}

		if client.Balance.LessThan(job.Price) {
			return apperrors.NewInsufficientFunds("balance too low to pay job")
		}

		paidAt := s.now()
		if err := tx.UpdateProfileBalance(ctx, client.ID, client.Balance.Sub(job.Price)); err != nil {
			return err
		}
		if err := tx.UpdateProfileBalance(ctx, contractor.ID, contractor.Balance.Add(job.Price)); err != nil {
			return err
		}
		if err := tx.MarkJobPaid(ctx, job.ID, paidAt); err != nil {
			return err
		}

		paid := *job
		paid.Paid = true
		paid.PaymentDate = &paidAt
		result = &PaymentResult{Status: PaymentApplied, Job: &paid}
		paidContract = contract
		return nil
	})
	if err != nil {
		return nil, mapLedgerError(err)
	}

	s.metrics.RecordLedgerOutcome("pay", string(result.Status))
	if result.Status == PaymentApplied {
		s.logger.Info("job paid",
			zap.Int64("job_id", result.Job.ID),
			zap.Int64("caller_id", callerID),
			zap.String("price", result.Job.Price.String()),
		)
		s.publishEvent(ctx, events.Event{
			Type: events.EventJobPaid,
			Payload: events.JobPaidPayload{
				JobID:        result.Job.ID,
				ContractID:   result.Job.ContractID,
				ClientID:     paidContract.ClientID,
				ContractorID: paidContract.ContractorID,
				Price:        result.Job.Price,
				PaidAt:       *result.Job.PaymentDate,
			},
		})
	}
	return result, nil
}

// lockParties locks the client and contractor profile rows in ascending id
// order so that concurrent payments sharing a profile never form a lock cycle.
func (s *LedgerService) lockParties(ctx context.Context, tx repository.Tx, contract *domain.Contract) (client, contractor *domain.Profile, err error) {
	first, second := contract.ClientID, contract.ContractorID
	if first > second {
		first, second = second, first
	}
	locked := make(map[int64]*domain.Profile, 2)
	for _, id := range []int64{first, second} {
		p, err := tx.LockProfile(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, nil, apperrors.NewNotFound("profile", nil)
			}
			return nil, nil, err
		}
		locked[id] = p
	}
	return locked[contract.ClientID], locked[contract.ContractorID], nil
}

// Deposit adds amount to the client's balance, capped at the configured
// fraction of the client's unpaid-job exposure. The exposure read and the
// balance write share one transaction, so a racing payment cannot inflate
// the cap. Zero exposure rejects every positive amount.
func (s *LedgerService) Deposit(ctx context.Context, clientID int64, amount decimal.Decimal) (*DepositResult, error) {
	if clientID <= 0 {
		return nil, apperrors.NewInvalidRequest("client id is required", nil)
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, apperrors.NewInvalidRequest("amount must be positive", nil)
	}

	var result *DepositResult
	err := s.store.RunTransaction(ctx, func(tx repository.Tx) error {
		profile, err := tx.LockProfile(ctx, clientID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperrors.NewNotFound("profile", nil)
			}
			return err
		}

		exposure, err := tx.SumUnpaidJobPrices(ctx, clientID)
		if err != nil {
			return err
		}

		limit := exposure.Mul(s.capRatio)
		if amount.GreaterThan(limit) {
			return apperrors.NewExceedsDepositLimit("deposit exceeds allowed limit", map[string]any{
				"limit": limit.String(),
			})
		}

		newBalance := profile.Balance.Add(amount)
		if err := tx.UpdateProfileBalance(ctx, profile.ID, newBalance); err != nil {
			return err
		}
		result = &DepositResult{ProfileID: profile.ID, NewBalance: newBalance}
		return nil
	})
	if err != nil {
		return nil, mapLedgerError(err)
	}

	s.metrics.RecordLedgerOutcome("deposit", "accepted")
	s.logger.Info("deposit accepted",
		zap.Int64("profile_id", result.ProfileID),
		zap.String("amount", amount.String()),
	)
	s.publishEvent(ctx, events.Event{
		Type: events.EventDepositAccepted,
		Payload: events.DepositAcceptedPayload{
			ProfileID:  result.ProfileID,
			Amount:     amount,
			NewBalance: result.NewBalance,
		},
	})
	return result, nil
}

func (s *LedgerService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handlers failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

func mapLedgerError(err error) error {
	if errors.Is(err, repository.ErrUnavailable) {
		return apperrors.NewStoreUnavailable(err)
	}
	return err
}
