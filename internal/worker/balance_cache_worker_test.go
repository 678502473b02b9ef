package worker

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/contracts-service/internal/domain"
	"github.com/spec-kit/contracts-service/internal/events"
	"github.com/spec-kit/contracts-service/internal/persistence"
)

func newCacheFixture(t *testing.T) (*persistence.ProfileCache, events.Dispatcher) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cache := persistence.NewProfileCache(&persistence.Redis{Client: client}, time.Minute)
	dispatcher := events.NewInMemoryDispatcher()
	NewBalanceCacheWorker(cache, zap.NewNop()).RegisterHandlers(dispatcher)
	return cache, dispatcher
}

func cacheProfile(cache *persistence.ProfileCache, id int64) {
	cache.Set(context.Background(), &domain.Profile{ID: id, Type: domain.ProfileTypeClient})
}

func TestBalanceCacheWorker_JobPaid(t *testing.T) {
	cache, dispatcher := newCacheFixture(t)
	ctx := context.Background()

	cacheProfile(cache, 1)
	cacheProfile(cache, 2)
	cacheProfile(cache, 3)

	err := dispatcher.Publish(ctx, events.Event{
		Type: events.EventJobPaid,
		Payload: events.JobPaidPayload{
			JobID:        100,
			ContractID:   10,
			ClientID:     1,
			ContractorID: 2,
			Price:        decimal.NewFromInt(200),
			PaidAt:       time.Now(),
		},
	})
	require.NoError(t, err)

	assert.Nil(t, cache.Get(ctx, 1), "client entry dropped")
	assert.Nil(t, cache.Get(ctx, 2), "contractor entry dropped")
	assert.NotNil(t, cache.Get(ctx, 3), "bystander entry kept")
}

func TestBalanceCacheWorker_DepositAccepted(t *testing.T) {
	cache, dispatcher := newCacheFixture(t)
	ctx := context.Background()

	cacheProfile(cache, 1)
	cacheProfile(cache, 2)

	err := dispatcher.Publish(ctx, events.Event{
		Type: events.EventDepositAccepted,
		Payload: events.DepositAcceptedPayload{
			ProfileID:  1,
			Amount:     decimal.NewFromInt(50),
			NewBalance: decimal.NewFromInt(150),
		},
	})
	require.NoError(t, err)

	assert.Nil(t, cache.Get(ctx, 1))
	assert.NotNil(t, cache.Get(ctx, 2))
}

func TestBalanceCacheWorker_IgnoresForeignPayload(t *testing.T) {
	cache, dispatcher := newCacheFixture(t)
	ctx := context.Background()

	cacheProfile(cache, 1)

	err := dispatcher.Publish(ctx, events.Event{Type: events.EventJobPaid, Payload: "not a payload"})
	require.NoError(t, err)
	assert.NotNil(t, cache.Get(ctx, 1))
}
