package transport

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticProvider_Quote(t *testing.T) {
	provider := NewStaticProviderWithDelay(0)

	options, err := provider.Quote(context.Background(), RateRequest{
		RequestID:       "req-1",
		OriginPort:      "Shanghai",
		DestinationPort: "Colón",
		ContainerType:   "40ft",
		Containers:      4,
	})

	require.NoError(t, err)
	require.Len(t, options, 3)

	for _, opt := range options {
		assert.Equal(t, "req-1", opt.RequestID)
		assert.Equal(t, "USD", opt.Currency)
		assert.Positive(t, opt.Cost)
		assert.Positive(t, opt.TransitDays)
		assert.True(t, opt.ValidUntil.After(time.Now()))
	}

	// Cost scales with container count
	single, err := provider.Quote(context.Background(), RateRequest{RequestID: "req-1", Containers: 1})
	require.NoError(t, err)
	assert.Equal(t, single[0].Cost*4, options[0].Cost)
}

func TestStaticProvider_Quote_DistinctOperators(t *testing.T) {
	provider := NewStaticProviderWithDelay(0)

	options, err := provider.Quote(context.Background(), RateRequest{RequestID: "req-2", Containers: 1})
	require.NoError(t, err)

	seen := make(map[string]bool)
	for _, opt := range options {
		assert.False(t, seen[opt.OperatorID], "duplicate operator %s", opt.OperatorID)
		seen[opt.OperatorID] = true
	}
}

func TestStaticProvider_Quote_ContextCancelled(t *testing.T) {
	provider := NewStaticProviderWithDelay(5 * time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := provider.Quote(ctx, RateRequest{RequestID: "req-3", Containers: 1})
	assert.ErrorIs(t, err, context.Canceled)
}
