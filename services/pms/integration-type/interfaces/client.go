package interfaces

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

const (
	DefaultListingsLimit = 20
	MaxListingsLimit     = 100

	DateLayout = "2006-01-02"
)

type ListingStatus string

const (
	ListingStatusActive   ListingStatus = "active"
	ListingStatusInactive ListingStatus = "inactive"
)

// Listing is a rentable unit in provider-neutral form. Pointer fields are nil
// when the provider did not report them.
type Listing struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	Address      string        `json:"address"`
	City         *string       `json:"city,omitempty"`
	Country      *string       `json:"country,omitempty"`
	Bedrooms     *int          `json:"bedrooms,omitempty"`
	Bathrooms    *float64      `json:"bathrooms,omitempty"`
	MaxGuests    *int          `json:"maxGuests,omitempty"`
	PropertyType *string       `json:"propertyType,omitempty"`
	Status       ListingStatus `json:"status"`
	Description  *string       `json:"description,omitempty"`
	Images       []string      `json:"images,omitempty"`
}

// AvailabilityDay is the booking state of one listing on one calendar day.
type AvailabilityDay struct {
	Date        string           `json:"date"`
	Available   bool             `json:"available"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	MinimumStay *int             `json:"minimumStay,omitempty"`
	Currency    *string          `json:"currency,omitempty"`
}

type ListListingsParams struct {
	Limit  int
	Offset int
}

// Normalize applies the default page size, caps it and clamps the offset.
func (p ListListingsParams) Normalize() ListListingsParams {
	if p.Limit <= 0 {
		p.Limit = DefaultListingsLimit
	}
	if p.Limit > MaxListingsLimit {
		p.Limit = MaxListingsLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// AvailabilityParams covers the inclusive range [Start, End].
type AvailabilityParams struct {
	ListingID string
	Start     time.Time
	End       time.Time
}

type Client interface {
	ListListings(ctx context.Context, params ListListingsParams) ([]Listing, error)
	GetAvailability(ctx context.Context, params AvailabilityParams) ([]AvailabilityDay, error)
	// TestConnection returns false, nil when the provider rejects the
	// credentials. Transport failures are returned as errors.
	TestConnection(ctx context.Context) (bool, error)
}
