package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/contracts-service/internal/domain"
)

func seedMemoryStore() *MemoryStore {
	store := NewMemoryStore()
	store.PutProfile(domain.Profile{ID: 1, Type: domain.ProfileTypeClient, Balance: decimal.NewFromInt(1000)})
	store.PutProfile(domain.Profile{ID: 2, Type: domain.ProfileTypeContractor, Balance: decimal.Zero})
	store.PutContract(domain.Contract{ID: 10, Status: domain.ContractStatusInProgress, ClientID: 1, ContractorID: 2})
	store.PutJob(domain.Job{ID: 100, ContractID: 10, Price: decimal.NewFromInt(200)})
	return store
}

func TestMemoryStore_RunTransaction(t *testing.T) {
	t.Run("commits staged writes on success", func(t *testing.T) {
		store := seedMemoryStore()
		paidAt := time.Now()

		err := store.RunTransaction(context.Background(), func(tx Tx) error {
			if err := tx.UpdateProfileBalance(context.Background(), 1, decimal.NewFromInt(800)); err != nil {
				return err
			}
			return tx.MarkJobPaid(context.Background(), 100, paidAt)
		})
		require.NoError(t, err)

		profile, err := store.FindProfile(context.Background(), 1)
		require.NoError(t, err)
		assert.True(t, profile.Balance.Equal(decimal.NewFromInt(800)))
	})

	t.Run("discards staged writes on failure", func(t *testing.T) {
		store := seedMemoryStore()
		boom := errors.New("boom")

		err := store.RunTransaction(context.Background(), func(tx Tx) error {
			if err := tx.UpdateProfileBalance(context.Background(), 1, decimal.Zero); err != nil {
				return err
			}
			if err := tx.MarkJobPaid(context.Background(), 100, time.Now()); err != nil {
				return err
			}
			return boom
		})
		require.ErrorIs(t, err, boom)

		profile, err := store.FindProfile(context.Background(), 1)
		require.NoError(t, err)
		assert.True(t, profile.Balance.Equal(decimal.NewFromInt(1000)), "balance untouched")

		err = store.RunTransaction(context.Background(), func(tx Tx) error {
			job, _, err := tx.FindJobWithContract(context.Background(), 100)
			if err != nil {
				return err
			}
			assert.False(t, job.Paid, "job still unpaid")
			return nil
		})
		require.NoError(t, err)
	})

	t.Run("staged writes are visible within the transaction", func(t *testing.T) {
		store := seedMemoryStore()

		err := store.RunTransaction(context.Background(), func(tx Tx) error {
			if err := tx.UpdateProfileBalance(context.Background(), 1, decimal.NewFromInt(42)); err != nil {
				return err
			}
			profile, err := tx.LockProfile(context.Background(), 1)
			if err != nil {
				return err
			}
			assert.True(t, profile.Balance.Equal(decimal.NewFromInt(42)))
			return nil
		})
		require.NoError(t, err)
	})

	t.Run("marking a paid job again is not found", func(t *testing.T) {
		store := seedMemoryStore()

		err := store.RunTransaction(context.Background(), func(tx Tx) error {
			return tx.MarkJobPaid(context.Background(), 100, time.Now())
		})
		require.NoError(t, err)

		err = store.RunTransaction(context.Background(), func(tx Tx) error {
			return tx.MarkJobPaid(context.Background(), 100, time.Now())
		})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("cancelled context is unavailable", func(t *testing.T) {
		store := seedMemoryStore()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := store.RunTransaction(ctx, func(tx Tx) error { return nil })
		assert.ErrorIs(t, err, ErrUnavailable)
	})
}

func TestMemoryStore_SumUnpaidJobPrices(t *testing.T) {
	store := seedMemoryStore()
	store.PutJob(domain.Job{ID: 101, ContractID: 10, Price: decimal.NewFromInt(300)})
	paidAt := time.Now()
	store.PutJob(domain.Job{ID: 102, ContractID: 10, Price: decimal.NewFromInt(999), Paid: true, PaymentDate: &paidAt})
	store.PutContract(domain.Contract{ID: 11, Status: domain.ContractStatusTerminated, ClientID: 1, ContractorID: 2})
	store.PutJob(domain.Job{ID: 103, ContractID: 11, Price: decimal.NewFromInt(5000)})

	sum, err := store.SumUnpaidJobPrices(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, sum.Equal(decimal.NewFromInt(500)), "paid and terminated-contract jobs excluded")
}
