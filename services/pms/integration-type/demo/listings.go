package demo

import (
	"fmt"

	"github.com/kaytu-io/kaytu-pms/services/pms/integration-type/interfaces"
)

type demoListing struct {
	id           string
	title        string
	street       string
	city         string
	country      string
	bedrooms     int
	bathrooms    float64
	maxGuests    int
	propertyType string
	active       bool
	description  string
	basePrice    int64
}

var catalogue = []demoListing{
	{"demo-1", "Harbour View Loft", "12 Quay Street", "Lisbon", "PT", 1, 1, 2, "apartment", true, "Top floor loft over the river.", 110},
	{"demo-2", "Old Town Studio", "4 Rua das Flores", "Porto", "PT", 0, 1, 2, "studio", true, "", 75},
	{"demo-3", "Garden Cottage", "88 Elm Lane", "Bath", "GB", 2, 1, 4, "cottage", true, "Quiet cottage with a walled garden.", 140},
	{"demo-4", "Canal House", "21 Prinsengracht", "Amsterdam", "NL", 3, 2, 6, "house", true, "Three floors on the canal ring.", 260},
	{"demo-5", "Ski Chalet Edelweiss", "3 Bergweg", "Zermatt", "CH", 4, 3, 8, "chalet", true, "Ski-in ski-out chalet with sauna.", 390},
	{"demo-6", "Beach Bungalow", "7 Playa Norte", "Tarifa", "ES", 2, 1, 4, "bungalow", true, "", 125},
	{"demo-7", "City Center Suite", "150 Rambla", "Barcelona", "ES", 1, 1.5, 3, "apartment", true, "Suite steps from the Rambla.", 160},
	{"demo-8", "Lakeside Cabin", "Seeweg 9", "Hallstatt", "AT", 2, 1, 5, "cabin", false, "Closed for renovation.", 130},
	{"demo-9", "Vineyard Villa", "Strada del Vino 2", "Montalcino", "IT", 5, 4, 10, "villa", true, "Villa among the vines with pool.", 480},
	{"demo-10", "Artist Attic", "17 Rue Lepic", "Paris", "FR", 1, 1, 2, "apartment", true, "", 150},
	{"demo-11", "Fjord Retreat", "Fjordveien 45", "Bergen", "NO", 3, 2, 6, "house", true, "Panoramic fjord windows.", 220},
	{"demo-12", "Desert Riad", "Derb Sidi 10", "Marrakesh", "MA", 4, 4, 8, "riad", false, "", 170},
}

func findListing(id string) (demoListing, bool) {
	for _, l := range catalogue {
		if l.id == id {
			return l, true
		}
	}
	return demoListing{}, false
}

func (l demoListing) toListing() interfaces.Listing {
	city, country, propertyType := l.city, l.country, l.propertyType
	bedrooms, bathrooms, maxGuests := l.bedrooms, l.bathrooms, l.maxGuests

	out := interfaces.Listing{
		ID:           l.id,
		Title:        l.title,
		Address:      fmt.Sprintf("%s, %s", l.street, l.city),
		City:         &city,
		Country:      &country,
		Bedrooms:     &bedrooms,
		Bathrooms:    &bathrooms,
		MaxGuests:    &maxGuests,
		PropertyType: &propertyType,
		Status:       interfaces.ListingStatusInactive,
		Images:       []string{fmt.Sprintf("https://images.example.com/demo/%s/cover.jpg", l.id)},
	}
	if l.active {
		out.Status = interfaces.ListingStatusActive
	}
	if l.description != "" {
		description := l.description
		out.Description = &description
	}
	return out
}
