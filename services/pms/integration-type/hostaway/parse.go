package hostaway

import (
	"strconv"
	"strings"

	"github.com/kaytu-io/kaytu-pms/services/pms/integration-type/interfaces"
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
)

// Hostaway sends numbers as strings and booleans as 0/1 depending on the
// endpoint, so every accessor below accepts both forms and returns nil when
// the field is absent, null or unparsable.

func present(r gjson.Result) bool {
	return r.Exists() && r.Type != gjson.Null
}

func optString(r gjson.Result, path string) *string {
	v := r.Get(path)
	if !present(v) {
		return nil
	}
	s := strings.TrimSpace(v.String())
	if s == "" {
		return nil
	}
	return &s
}

func optInt(r gjson.Result, path string) *int {
	v := r.Get(path)
	if !present(v) {
		return nil
	}
	switch v.Type {
	case gjson.Number:
		n := int(v.Int())
		return &n
	case gjson.String:
		n, err := strconv.Atoi(strings.TrimSpace(v.String()))
		if err != nil {
			return nil
		}
		return &n
	}
	return nil
}

func optFloat(r gjson.Result, path string) *float64 {
	v := r.Get(path)
	if !present(v) {
		return nil
	}
	switch v.Type {
	case gjson.Number:
		f := v.Float()
		return &f
	case gjson.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.String()), 64)
		if err != nil {
			return nil
		}
		return &f
	}
	return nil
}

func optBool(r gjson.Result, path string) *bool {
	v := r.Get(path)
	if !present(v) {
		return nil
	}
	var b bool
	switch v.Type {
	case gjson.True, gjson.False:
		b = v.Bool()
	case gjson.Number:
		b = v.Int() != 0
	case gjson.String:
		switch strings.ToLower(strings.TrimSpace(v.String())) {
		case "1", "true", "yes":
			b = true
		case "0", "false", "no":
			b = false
		default:
			return nil
		}
	default:
		return nil
	}
	return &b
}

func optDecimal(r gjson.Result, path string) *decimal.Decimal {
	v := r.Get(path)
	if !present(v) {
		return nil
	}
	raw := v.Raw
	if v.Type == gjson.String {
		raw = strings.TrimSpace(v.String())
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil
	}
	return &d
}

func firstString(r gjson.Result, paths ...string) string {
	for _, path := range paths {
		if s := optString(r, path); s != nil {
			return *s
		}
	}
	return ""
}

func parseListing(item gjson.Result) interfaces.Listing {
	listing := interfaces.Listing{
		ID:           item.Get("id").String(),
		Title:        firstString(item, "name", "externalListingName", "internalListingName"),
		Address:      firstString(item, "address", "publicAddress", "street"),
		City:         optString(item, "city"),
		Country:      optString(item, "countryCode"),
		Bedrooms:     optInt(item, "bedroomsNumber"),
		Bathrooms:    optFloat(item, "bathroomsNumber"),
		MaxGuests:    optInt(item, "personCapacity"),
		PropertyType: optString(item, "roomType"),
		Description:  optString(item, "description"),
		Status:       interfaces.ListingStatusActive,
	}
	if listing.Country == nil {
		listing.Country = optString(item, "country")
	}

	if archived := optBool(item, "isArchived"); archived != nil && *archived {
		listing.Status = interfaces.ListingStatusInactive
	}
	if active := optBool(item, "isActive"); active != nil && !*active {
		listing.Status = interfaces.ListingStatusInactive
	}

	for _, img := range item.Get("listingImages").Array() {
		if u := firstString(img, "url"); u != "" {
			listing.Images = append(listing.Images, u)
		}
	}
	return listing
}

func parseAvailabilityDay(item gjson.Result) interfaces.AvailabilityDay {
	day := interfaces.AvailabilityDay{
		Date:        item.Get("date").String(),
		Price:       optDecimal(item, "price"),
		MinimumStay: optInt(item, "minimumStay"),
		Currency:    optString(item, "currency"),
	}
	if available := optBool(item, "isAvailable"); available != nil {
		day.Available = *available
	} else if status := optString(item, "status"); status != nil {
		day.Available = strings.EqualFold(*status, "available")
	}
	return day
}
