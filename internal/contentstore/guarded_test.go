package contentstore

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedClient struct {
	calls   atomic.Int32
	queryFn func(ctx context.Context, attempt int32) ([]Record, error)
	oneFn   func(ctx context.Context, attempt int32) (Record, error)
}

func (c *scriptedClient) Query(ctx context.Context, _ string, _ []Filter, _ []Order) ([]Record, error) {
	return c.queryFn(ctx, c.calls.Add(1))
}

func (c *scriptedClient) QueryOne(ctx context.Context, _ string, _ []Filter) (Record, error) {
	return c.oneFn(ctx, c.calls.Add(1))
}

func TestGuardedRetriesTransientFailures(t *testing.T) {
	client := &scriptedClient{queryFn: func(_ context.Context, attempt int32) ([]Record, error) {
		if attempt == 1 {
			return nil, errors.Join(ErrUnavailable, errors.New("socket reset"))
		}
		return []Record{{"slug": "careers"}}, nil
	}}
	guarded := NewGuarded(client, WithRetries(2, time.Millisecond))

	records, err := guarded.Query(context.Background(), "custom_pages", nil, nil)
	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.EqualValues(t, 2, client.calls.Load())
}

func TestGuardedDoesNotRetryPermanentFailures(t *testing.T) {
	permanent := errors.New("permission denied")
	client := &scriptedClient{queryFn: func(context.Context, int32) ([]Record, error) {
		return nil, permanent
	}}
	guarded := NewGuarded(client, WithRetries(3, time.Millisecond))

	_, err := guarded.Query(context.Background(), "custom_pages", nil, nil)
	assert.ErrorIs(t, err, permanent)
	assert.EqualValues(t, 1, client.calls.Load())
}

func TestGuardedBoundsSlowReads(t *testing.T) {
	client := &scriptedClient{oneFn: func(ctx context.Context, _ int32) (Record, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}}
	guarded := NewGuarded(client, WithReadTimeout(20*time.Millisecond), WithRetries(0, 0))

	start := time.Now()
	record, err := guarded.QueryOne(context.Background(), "custom_pages", []Filter{Eq("slug", "slow")})
	require.Error(t, err)
	assert.Nil(t, record)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestGuardedPassesThroughMisses(t *testing.T) {
	client := &scriptedClient{oneFn: func(context.Context, int32) (Record, error) {
		return nil, nil
	}}
	record, err := NewGuarded(client).QueryOne(context.Background(), "custom_pages", nil)
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestGuardedPingWithoutPinger(t *testing.T) {
	assert.NoError(t, NewGuarded(NewMemory()).Ping(context.Background()))
}
