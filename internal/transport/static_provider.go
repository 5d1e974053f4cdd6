package transport

import (
	"context"
	"time"

	"github.com/example/container-market/internal/domain/shipping"
)

// DefaultQuoteDelay approximates the latency of a real carrier rate API.
const DefaultQuoteDelay = 2 * time.Second

// StaticProvider serves a fixed set of carrier offers, scaled by container
// count. It stands in for live carrier integrations in demo deployments.
type StaticProvider struct {
	delay time.Duration
}

func NewStaticProvider() *StaticProvider {
	return &StaticProvider{delay: DefaultQuoteDelay}
}

// NewStaticProviderWithDelay allows tests to skip the simulated latency.
func NewStaticProviderWithDelay(delay time.Duration) *StaticProvider {
	return &StaticProvider{delay: delay}
}

type carrierOffer struct {
	operatorID    string
	operatorName  string
	incoterm      string
	costPerUnit   int
	transitDays   int
	rating        float64
	verified      bool
	conditions    shipping.OptionConditions
	departureDays int // days until next sailing
}

var carrierOffers = []carrierOffer{
	{
		operatorID:   "op-maersk",
		operatorName: "Maersk Line",
		incoterm:     "CIF",
		costPerUnit:  2450,
		transitDays:  28,
		rating:       4.7,
		verified:     true,
		conditions: shipping.OptionConditions{
			Insurance:     true,
			Customs:       true,
			Documentation: true,
		},
		departureDays: 5,
	},
	{
		operatorID:   "op-msc",
		operatorName: "MSC Mediterranean",
		incoterm:     "CFR",
		costPerUnit:  2180,
		transitDays:  34,
		rating:       4.4,
		verified:     true,
		conditions: shipping.OptionConditions{
			Customs:       true,
			Documentation: true,
		},
		departureDays: 7,
	},
	{
		operatorID:   "op-evergreen",
		operatorName: "Evergreen Marine",
		incoterm:     "FOB",
		costPerUnit:  1950,
		transitDays:  38,
		rating:       4.1,
		verified:     false,
		conditions: shipping.OptionConditions{
			Documentation:   true,
			SpecialHandling: []string{"transshipment"},
		},
		departureDays: 12,
	},
}

func (p *StaticProvider) Quote(ctx context.Context, req RateRequest) ([]shipping.TransportOption, error) {
	if p.delay > 0 {
		timer := time.NewTimer(p.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	containers := req.Containers
	if containers < 1 {
		containers = 1
	}

	now := time.Now()
	validUntil := now.Add(7 * 24 * time.Hour)
	options := make([]shipping.TransportOption, 0, len(carrierOffers))
	for _, offer := range carrierOffers {
		options = append(options, shipping.TransportOption{
			RequestID:    req.RequestID,
			OperatorID:   offer.operatorID,
			OperatorName: offer.operatorName,
			Incoterm:     offer.incoterm,
			Cost:         offer.costPerUnit * containers,
			Currency:     "USD",
			TransitDays:  offer.transitDays,
			Conditions:   offer.conditions,
			Availability: now.AddDate(0, 0, offer.departureDays),
			ValidUntil:   validUntil,
			Rating:       offer.rating,
			Verified:     offer.verified,
		})
	}
	return options, nil
}
