package listing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/container-market/internal/infrastructure/store/mocks"
)

func newTestListingService() (*Service, *mocks.MockEventStore) {
	eventStore := mocks.NewMockEventStore()
	service := NewService(eventStore)
	return service, eventStore
}

func publishInput() PublishInput {
	return PublishInput{
		SupplierID:        "sup-1",
		SupplierName:      "Yiwu Export Co",
		Title:             "40ft HC mixed electronics lot",
		Description:       "Assorted consumer electronics, factory sealed",
		ContainerType:     "40HC",
		PricePerContainer: 18500,
		Currency:          "USD",
		Incoterm:          "FOB",
		AvailableUnits:    12,
		OriginPort:        "Ningbo",
	}
}

func TestService_Publish(t *testing.T) {
	service, eventStore := newTestListingService()

	l, err := service.Publish(context.Background(), publishInput())

	require.NoError(t, err)
	assert.NotEmpty(t, l.ID)
	assert.Equal(t, "sup-1", l.SupplierID)
	assert.Equal(t, 18500, l.PricePerContainer)
	assert.False(t, l.IsWithdrawn)

	require.Len(t, eventStore.AppendCalls, 1)
	assert.Equal(t, EventListingPublished, eventStore.AppendCalls[0].EventType)
	assert.Equal(t, AggregateType, eventStore.AppendCalls[0].AggregateType)
	assert.Equal(t, l.ID, eventStore.AppendCalls[0].AggregateID)
}

func TestService_Publish_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*PublishInput)
		wantErr error
	}{
		{"missing title", func(in *PublishInput) { in.Title = "" }, ErrInvalidTitle},
		{"missing supplier", func(in *PublishInput) { in.SupplierID = "" }, ErrInvalidSupplier},
		{"zero price", func(in *PublishInput) { in.PricePerContainer = 0 }, ErrInvalidPrice},
		{"negative price", func(in *PublishInput) { in.PricePerContainer = -5 }, ErrInvalidPrice},
		{"negative units", func(in *PublishInput) { in.AvailableUnits = -1 }, ErrInvalidUnits},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, eventStore := newTestListingService()
			in := publishInput()
			tt.mutate(&in)

			_, err := service.Publish(context.Background(), in)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, eventStore.AppendCalls)
		})
	}
}

func TestService_Update(t *testing.T) {
	service, eventStore := newTestListingService()
	ctx := context.Background()

	l, err := service.Publish(ctx, publishInput())
	require.NoError(t, err)

	err = service.Update(ctx, l.ID, "Updated title", "New description", "", 17900, 8)
	require.NoError(t, err)

	require.Len(t, eventStore.AppendCalls, 2)
	assert.Equal(t, EventListingUpdated, eventStore.AppendCalls[1].EventType)

	data := eventStore.AppendCalls[1].Data.(ListingUpdated)
	assert.Equal(t, "Updated title", data.Title)
	assert.Equal(t, 17900, data.PricePerContainer)
	assert.Equal(t, 8, data.AvailableUnits)
}

func TestService_Update_NotFound(t *testing.T) {
	service, _ := newTestListingService()

	err := service.Update(context.Background(), "no-such-listing", "Title", "", "", 100, 1)
	assert.ErrorIs(t, err, ErrListingNotFound)
}

func TestService_Withdraw(t *testing.T) {
	service, eventStore := newTestListingService()
	ctx := context.Background()

	l, err := service.Publish(ctx, publishInput())
	require.NoError(t, err)

	require.NoError(t, service.Withdraw(ctx, l.ID))

	require.Len(t, eventStore.AppendCalls, 2)
	assert.Equal(t, EventListingWithdrawn, eventStore.AppendCalls[1].EventType)
}

func TestService_Withdraw_NotFound(t *testing.T) {
	service, _ := newTestListingService()

	err := service.Withdraw(context.Background(), "no-such-listing")
	assert.ErrorIs(t, err, ErrListingNotFound)
}
