package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/contracts-service/internal/domain"
	"github.com/spec-kit/contracts-service/internal/repository"
)

func newContractFixture(t *testing.T) (*ContractService, *repository.MemoryStore) {
	t.Helper()
	store := repository.NewMemoryStore()
	return NewContractService(store, zap.NewNop()), store
}

func seedContracts(store *repository.MemoryStore) {
	store.PutProfile(domain.Profile{ID: 1, Type: domain.ProfileTypeClient, Balance: dec("1000")})
	store.PutProfile(domain.Profile{ID: 2, Type: domain.ProfileTypeContractor})
	store.PutProfile(domain.Profile{ID: 3, Type: domain.ProfileTypeClient, Balance: dec("500")})
	store.PutContract(domain.Contract{ID: 10, Status: domain.ContractStatusInProgress, ClientID: 1, ContractorID: 2})
	store.PutContract(domain.Contract{ID: 11, Status: domain.ContractStatusTerminated, ClientID: 1, ContractorID: 2})
	store.PutContract(domain.Contract{ID: 12, Status: domain.ContractStatusNew, ClientID: 3, ContractorID: 2})
	store.PutJob(domain.Job{ID: 100, ContractID: 10, Price: dec("200")})
	store.PutJob(domain.Job{ID: 101, ContractID: 11, Price: dec("300")})
	store.PutJob(domain.Job{ID: 102, ContractID: 12, Price: dec("50"), Paid: true})
}

func TestContractService_GetContract(t *testing.T) {
	t.Run("returns contract to either party", func(t *testing.T) {
		svc, store := newContractFixture(t)
		seedContracts(store)

		for _, callerID := range []int64{1, 2} {
			contract, err := svc.GetContract(context.Background(), callerID, 10)
			require.NoError(t, err)
			assert.Equal(t, int64(10), contract.ID)
		}
	})

	t.Run("hides contract from non-parties", func(t *testing.T) {
		svc, store := newContractFixture(t)
		seedContracts(store)

		_, err := svc.GetContract(context.Background(), 3, 10)
		assert.Equal(t, "NOT_AUTHORIZED", errorCode(t, err))
	})

	t.Run("unknown contract is not found", func(t *testing.T) {
		svc, store := newContractFixture(t)
		seedContracts(store)

		_, err := svc.GetContract(context.Background(), 1, 999)
		assert.Equal(t, "NOT_FOUND", errorCode(t, err))
	})

	t.Run("rejects malformed contract id", func(t *testing.T) {
		svc, _ := newContractFixture(t)

		_, err := svc.GetContract(context.Background(), 1, 0)
		assert.Equal(t, "INVALID_REQUEST", errorCode(t, err))
	})
}

func TestContractService_ListContracts(t *testing.T) {
	t.Run("lists only non-terminated contracts of the caller", func(t *testing.T) {
		svc, store := newContractFixture(t)
		seedContracts(store)

		contracts, err := svc.ListContracts(context.Background(), 1)
		require.NoError(t, err)
		require.Len(t, contracts, 1)
		assert.Equal(t, int64(10), contracts[0].ID)

		contracts, err = svc.ListContracts(context.Background(), 2)
		require.NoError(t, err)
		require.Len(t, contracts, 2)
		assert.Equal(t, int64(10), contracts[0].ID)
		assert.Equal(t, int64(12), contracts[1].ID)
	})

	t.Run("empty listing is not found", func(t *testing.T) {
		svc, store := newContractFixture(t)
		seedContracts(store)
		store.PutProfile(domain.Profile{ID: 9, Type: domain.ProfileTypeClient})

		_, err := svc.ListContracts(context.Background(), 9)
		assert.Equal(t, "NOT_FOUND", errorCode(t, err))
	})
}

func TestContractService_ListUnpaidJobs(t *testing.T) {
	t.Run("lists unpaid jobs under active contracts only", func(t *testing.T) {
		svc, store := newContractFixture(t)
		seedContracts(store)

		jobs, err := svc.ListUnpaidJobs(context.Background(), 1)
		require.NoError(t, err)
		require.Len(t, jobs, 1)
		assert.Equal(t, int64(100), jobs[0].ID)
	})

	t.Run("paid jobs are excluded", func(t *testing.T) {
		svc, store := newContractFixture(t)
		seedContracts(store)

		// Caller 3 only has the already-paid job under contract 12.
		_, err := svc.ListUnpaidJobs(context.Background(), 3)
		assert.Equal(t, "NOT_FOUND", errorCode(t, err))
	})
}
