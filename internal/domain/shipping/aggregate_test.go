package shipping

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/container-market/internal/infrastructure/store/mocks"
)

func newTestShippingService() (*Service, *mocks.MockEventStore) {
	eventStore := mocks.NewMockEventStore()
	service := NewService(eventStore)
	return service, eventStore
}

func sampleOptions() []TransportOption {
	return []TransportOption{
		{
			OperatorID:   "op-maersk",
			OperatorName: "Maersk Line",
			Incoterm:     "CIF",
			Cost:         2450,
			Currency:     "USD",
			TransitDays:  28,
			Rating:       4.7,
			Verified:     true,
		},
		{
			OperatorID:   "op-msc",
			OperatorName: "MSC",
			Incoterm:     "CFR",
			Cost:         2180,
			Currency:     "USD",
			TransitDays:  34,
			Rating:       4.4,
			Verified:     true,
		},
	}
}

func createRequest(t *testing.T, service *Service) *Request {
	t.Helper()
	r, err := service.CreateRequest(context.Background(), "quote-1", "40HC", "Ningbo", "Colon Free Zone", time.Now().AddDate(0, 2, 0))
	require.NoError(t, err)
	return r
}

func TestService_CreateRequest(t *testing.T) {
	service, eventStore := newTestShippingService()

	r := createRequest(t, service)

	assert.NotEmpty(t, r.ID)
	assert.Equal(t, "quote-1", r.QuoteID)
	assert.Equal(t, StatusPending, r.Status)
	assert.Equal(t, 1, r.Version)

	require.Len(t, eventStore.AppendCalls, 1)
	assert.Equal(t, EventRequestCreated, eventStore.AppendCalls[0].EventType)
	assert.Equal(t, AggregateType, eventStore.AppendCalls[0].AggregateType)
}

func TestService_CreateRequest_MissingRoute(t *testing.T) {
	service, eventStore := newTestShippingService()

	_, err := service.CreateRequest(context.Background(), "quote-1", "40HC", "", "Colon Free Zone", time.Time{})
	assert.ErrorIs(t, err, ErrInvalidRoute)

	_, err = service.CreateRequest(context.Background(), "quote-1", "40HC", "Ningbo", "", time.Time{})
	assert.ErrorIs(t, err, ErrInvalidRoute)

	assert.Empty(t, eventStore.AppendCalls)
}

func TestService_RecordOptions(t *testing.T) {
	service, _ := newTestShippingService()
	ctx := context.Background()

	r := createRequest(t, service)

	quoted, err := service.RecordOptions(ctx, r.ID, sampleOptions())
	require.NoError(t, err)
	require.Len(t, quoted, 2)
	for _, opt := range quoted {
		assert.NotEmpty(t, opt.ID)
		assert.Equal(t, r.ID, opt.RequestID)
	}

	loaded, err := service.GetRequest(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusQuoted, loaded.Status)
	assert.Len(t, loaded.Options, 2)
}

func TestService_RecordOptions_ReplacesPreviousSet(t *testing.T) {
	service, _ := newTestShippingService()
	ctx := context.Background()

	r := createRequest(t, service)

	first, err := service.RecordOptions(ctx, r.ID, sampleOptions())
	require.NoError(t, err)
	require.NoError(t, service.SelectOption(ctx, r.ID, first[0].ID))

	second, err := service.RecordOptions(ctx, r.ID, sampleOptions()[:1])
	require.NoError(t, err)

	loaded, err := service.GetRequest(ctx, r.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Options, 1)
	assert.Equal(t, second[0].ID, loaded.Options[0].ID)
	assert.Empty(t, loaded.SelectedOptionID)
	_, ok := loaded.SelectedOption()
	assert.False(t, ok)
	// Requoting never moves the request backward from booked.
	assert.Equal(t, StatusBooked, loaded.Status)
}

func TestService_RecordOptions_Empty(t *testing.T) {
	service, _ := newTestShippingService()

	r := createRequest(t, service)

	_, err := service.RecordOptions(context.Background(), r.ID, nil)
	assert.ErrorIs(t, err, ErrNoOptions)
}

func TestService_RecordOptions_RequestNotFound(t *testing.T) {
	service, _ := newTestShippingService()

	_, err := service.RecordOptions(context.Background(), "no-such-request", sampleOptions())
	assert.ErrorIs(t, err, ErrRequestNotFound)
}

func TestService_RecordOptions_AfterConfirm(t *testing.T) {
	service, _ := newTestShippingService()
	ctx := context.Background()

	r := createRequest(t, service)
	quoted, err := service.RecordOptions(ctx, r.ID, sampleOptions())
	require.NoError(t, err)
	require.NoError(t, service.SelectOption(ctx, r.ID, quoted[0].ID))
	require.NoError(t, service.Confirm(ctx, r.ID))

	_, err = service.RecordOptions(ctx, r.ID, sampleOptions())
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestService_SelectOption(t *testing.T) {
	service, _ := newTestShippingService()
	ctx := context.Background()

	r := createRequest(t, service)
	quoted, err := service.RecordOptions(ctx, r.ID, sampleOptions())
	require.NoError(t, err)

	require.NoError(t, service.SelectOption(ctx, r.ID, quoted[1].ID))

	loaded, err := service.GetRequest(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusBooked, loaded.Status)
	assert.Equal(t, quoted[1].ID, loaded.SelectedOptionID)

	selected, ok := loaded.SelectedOption()
	require.True(t, ok)
	assert.Equal(t, "MSC", selected.OperatorName)
}

func TestService_SelectOption_Reselect(t *testing.T) {
	service, _ := newTestShippingService()
	ctx := context.Background()

	r := createRequest(t, service)
	quoted, err := service.RecordOptions(ctx, r.ID, sampleOptions())
	require.NoError(t, err)

	require.NoError(t, service.SelectOption(ctx, r.ID, quoted[0].ID))
	require.NoError(t, service.SelectOption(ctx, r.ID, quoted[1].ID))

	loaded, err := service.GetRequest(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, quoted[1].ID, loaded.SelectedOptionID)
	assert.Equal(t, StatusBooked, loaded.Status)
}

func TestService_SelectOption_NoOptions(t *testing.T) {
	service, _ := newTestShippingService()

	r := createRequest(t, service)

	err := service.SelectOption(context.Background(), r.ID, "opt-1")
	assert.ErrorIs(t, err, ErrNoOptions)
}

func TestService_SelectOption_UnknownOption(t *testing.T) {
	service, _ := newTestShippingService()
	ctx := context.Background()

	r := createRequest(t, service)
	_, err := service.RecordOptions(ctx, r.ID, sampleOptions())
	require.NoError(t, err)

	err = service.SelectOption(ctx, r.ID, "no-such-option")
	assert.ErrorIs(t, err, ErrOptionNotFound)
}

func TestService_Confirm(t *testing.T) {
	service, _ := newTestShippingService()
	ctx := context.Background()

	r := createRequest(t, service)
	quoted, err := service.RecordOptions(ctx, r.ID, sampleOptions())
	require.NoError(t, err)
	require.NoError(t, service.SelectOption(ctx, r.ID, quoted[0].ID))

	require.NoError(t, service.Confirm(ctx, r.ID))

	loaded, err := service.GetRequest(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, loaded.Status)
}

func TestService_Confirm_Twice(t *testing.T) {
	service, _ := newTestShippingService()
	ctx := context.Background()

	r := createRequest(t, service)
	quoted, err := service.RecordOptions(ctx, r.ID, sampleOptions())
	require.NoError(t, err)
	require.NoError(t, service.SelectOption(ctx, r.ID, quoted[0].ID))
	require.NoError(t, service.Confirm(ctx, r.ID))

	err = service.Confirm(ctx, r.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}
