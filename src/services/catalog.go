package services

import (
	"github.com/gosimple/slug"

	"pcs/src/types"
)

// Catalog returns the offered service lines. Static for now; slugs are
// derived from the titles so they stay stable if the catalog moves to a
// table later.
func Catalog() []types.CatalogEntry {
	entries := []types.CatalogEntry{
		{Type: types.SERVICE_RESIDENTIAL, Title: "Residential Pest Control", Blurb: "General pest treatment for homes, condos and apartments.", BasePrice: 2500},
		{Type: types.SERVICE_COMMERCIAL, Title: "Commercial Pest Control", Blurb: "Scheduled treatment programs for offices, restaurants and warehouses.", BasePrice: 6000},
		{Type: types.SERVICE_TERMITE, Title: "Termite Treatment", Blurb: "Soil poisoning, baiting systems and post-construction treatment.", BasePrice: 8000},
		{Type: types.SERVICE_RODENT, Title: "Rodent Control", Blurb: "Trapping, baiting and entry-point proofing for rats and mice.", BasePrice: 3500},
		{Type: types.SERVICE_INSECT, Title: "Insect Extermination", Blurb: "Targeted treatment for cockroaches, ants, mosquitoes and bed bugs.", BasePrice: 3000},
		{Type: types.SERVICE_ECO, Title: "Eco-Friendly Treatment", Blurb: "Low-toxicity treatment safe for kids, pets and food-handling areas.", BasePrice: 4000},
	}
	for i := range entries {
		entries[i].Slug = slug.Make(entries[i].Title)
	}
	return entries
}

// CatalogEntryBySlug looks up one catalog entry.
func CatalogEntryBySlug(s string) (types.CatalogEntry, bool) {
	for _, e := range Catalog() {
		if e.Slug == s {
			return e, true
		}
	}
	return types.CatalogEntry{}, false
}
