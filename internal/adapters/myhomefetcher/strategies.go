package myhomefetcher

import (
	"find-a-house/internal/adapters/httpfetch"
	"find-a-house/internal/core/domain"
	"find-a-house/internal/core/extract"

	"github.com/PuerkitoBio/goquery"
)

type strategy struct {
	name  string
	parse func(root *goquery.Selection, baseURL string) []domain.Listing
}

var strategies = []strategy{
	{name: "json_ld", parse: parseJSONLD},
	{name: "app_state", parse: parseAppState},
	{name: "cards", parse: parseCards},
}

var cardSelectors = []string{
	"app-property-card",
	".PropertyListingCard",
	"[data-testid='property-card']",
	".property-card",
}

func parseListings(root *goquery.Selection, baseURL string) ([]domain.Listing, string) {
	for _, s := range strategies {
		if listings := s.parse(root, baseURL); len(listings) > 0 {
			return listings, s.name
		}
	}
	return nil, ""
}

// parseJSONLD разбирает блоки schema.org: ItemList с вложенными ListItem или отдельные объекты жилья
func parseJSONLD(root *goquery.Selection, baseURL string) []domain.Listing {
	var listings []domain.Listing
	for _, block := range httpfetch.ScriptJSON(root, "script[type='application/ld+json']") {
		for _, rec := range extract.FindListingRecords(block, extract.MaxRecordDepth) {
			if l, ok := mapJSONLD(rec, baseURL); ok {
				listings = append(listings, l)
			}
		}
	}
	return listings
}

// parseAppState разбирает состояние, которое сайт передает клиентскому приложению
func parseAppState(root *goquery.Selection, baseURL string) []domain.Listing {
	var listings []domain.Listing
	for _, block := range httpfetch.ScriptJSON(root, "script#serverApp-state, script#__NEXT_DATA__") {
		for _, rec := range extract.FindListingRecords(block, extract.MaxRecordDepth) {
			if l, ok := mapAppState(rec, baseURL); ok {
				listings = append(listings, l)
			}
		}
	}
	return listings
}

func parseCards(root *goquery.Selection, baseURL string) []domain.Listing {
	for _, selector := range cardSelectors {
		cards := root.Find(selector)
		if cards.Length() == 0 {
			continue
		}

		var listings []domain.Listing
		cards.Each(func(_ int, card *goquery.Selection) {
			if l, ok := mapCard(card, baseURL); ok {
				listings = append(listings, l)
			}
		})
		if len(listings) > 0 {
			return listings
		}
	}
	return nil
}
