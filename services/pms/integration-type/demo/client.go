package demo

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand"
	"time"

	pmserrors "github.com/kaytu-io/kaytu-pms/services/pms/errors"
	"github.com/kaytu-io/kaytu-pms/services/pms/integration-type/interfaces"
	"github.com/shopspring/decimal"
)

const (
	maxAvailabilityDays = 366
	currency            = "USD"
)

type Client struct{}

func (c *Client) ListListings(_ context.Context, params interfaces.ListListingsParams) ([]interfaces.Listing, error) {
	params = params.Normalize()

	if params.Offset >= len(catalogue) {
		return []interfaces.Listing{}, nil
	}
	end := params.Offset + params.Limit
	if end > len(catalogue) {
		end = len(catalogue)
	}

	out := make([]interfaces.Listing, 0, end-params.Offset)
	for _, l := range catalogue[params.Offset:end] {
		out = append(out, l.toListing())
	}
	return out, nil
}

// GetAvailability synthesizes one day per date in the range. Values are
// pseudo-random but stable for a given listing and date, for testing only.
func (c *Client) GetAvailability(_ context.Context, params interfaces.AvailabilityParams) ([]interfaces.AvailabilityDay, error) {
	listing, ok := findListing(params.ListingID)
	if !ok {
		return nil, pmserrors.NewValidationError("listingId", "unknown demo listing %q", params.ListingID)
	}

	start := params.Start.UTC().Truncate(24 * time.Hour)
	end := params.End.UTC().Truncate(24 * time.Hour)
	if end.Before(start) {
		return nil, pmserrors.NewValidationError("end", "end date %s is before start date %s",
			end.Format(interfaces.DateLayout), start.Format(interfaces.DateLayout))
	}
	days := int(end.Sub(start)/(24*time.Hour)) + 1
	if days > maxAvailabilityDays {
		return nil, pmserrors.NewValidationError("end", "date range spans %d days, at most %d are allowed", days, maxAvailabilityDays)
	}

	out := make([]interfaces.AvailabilityDay, 0, days)
	for d := 0; d < days; d++ {
		date := start.AddDate(0, 0, d).Format(interfaces.DateLayout)
		rnd := rand.New(rand.NewSource(seed(listing.id, date)))

		price := decimal.NewFromInt(listing.basePrice + int64(rnd.Intn(60)))
		minStay := 1 + rnd.Intn(3)
		cur := currency
		out = append(out, interfaces.AvailabilityDay{
			Date:        date,
			Available:   rnd.Intn(4) != 0,
			Price:       &price,
			MinimumStay: &minStay,
			Currency:    &cur,
		})
	}
	return out, nil
}

func (c *Client) TestConnection(context.Context) (bool, error) {
	return true, nil
}

func seed(listingID, date string) int64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%s", listingID, date)
	return int64(h.Sum64())
}
