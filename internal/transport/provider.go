// Package transport fetches carrier rate offers for a shipping request.
package transport

import (
	"context"

	"github.com/example/container-market/internal/domain/shipping"
)

// RateRequest describes the lane and cargo a quote is needed for.
type RateRequest struct {
	RequestID       string
	OriginPort      string
	DestinationPort string
	ContainerType   string
	Containers      int
}

// RateProvider returns transport offers for a request. Implementations may
// call external carrier APIs; errors are surfaced to the caller rather than
// swallowed so the request can stay in its previous state.
type RateProvider interface {
	Quote(ctx context.Context, req RateRequest) ([]shipping.TransportOption, error)
}
