package daftfetcher

import (
	"find-a-house/internal/adapters/httpfetch"
	"find-a-house/internal/core/domain"
	"find-a-house/internal/core/extract"

	"github.com/PuerkitoBio/goquery"
)

// strategy возвращает nil, если способ разбора к странице не применим
type strategy struct {
	name  string
	parse func(root *goquery.Selection, baseURL string) []domain.Listing
}

// strategies - способы разбора в порядке приоритета: сначала структурированные данные, потом разметка
var strategies = []strategy{
	{name: "next_data", parse: parseNextDataKnownPaths},
	{name: "next_data_walk", parse: parseNextDataWalk},
	{name: "cards", parse: parseCards},
}

// cardSelectors - кандидаты на карточку объявления, пробуются по порядку
var cardSelectors = []string{
	"[data-testid='results'] li",
	".SearchPage__Result",
	"[data-testid='listing-card']",
	".PropertyCardContainer",
	"li[data-testid]",
}

// parseListings возвращает результат первой стратегии, давшей хотя бы одно объявление
func parseListings(root *goquery.Selection, baseURL string) ([]domain.Listing, string) {
	for _, s := range strategies {
		if listings := s.parse(root, baseURL); len(listings) > 0 {
			return listings, s.name
		}
	}
	return nil, ""
}

func nextData(root *goquery.Selection) interface{} {
	blocks := httpfetch.ScriptJSON(root, "script#__NEXT_DATA__")
	if len(blocks) == 0 {
		return nil
	}
	return blocks[0]
}

func parseNextDataKnownPaths(root *goquery.Selection, baseURL string) []domain.Listing {
	data, ok := extract.AsRecord(nextData(root))
	if !ok {
		return nil
	}
	props, ok := data.Record("props")
	if !ok {
		return nil
	}
	pageProps, ok := props.Record("pageProps")
	if !ok {
		return nil
	}

	var items []interface{}
	for _, path := range [][]string{{"listings"}, {"results"}, {"searchResults", "listings"}} {
		if list, ok := pageProps.Path(path...).([]interface{}); ok && len(list) > 0 {
			items = list
			break
		}
	}

	var listings []domain.Listing
	for _, item := range items {
		rec, ok := extract.AsRecord(item)
		if !ok {
			continue
		}
		if l, ok := mapRecord(rec, baseURL); ok {
			listings = append(listings, l)
		}
	}
	return listings
}

// parseNextDataWalk ищет объявления в произвольном месте __NEXT_DATA__, когда известные пути не сработали
func parseNextDataWalk(root *goquery.Selection, baseURL string) []domain.Listing {
	data := nextData(root)
	if data == nil {
		return nil
	}

	var listings []domain.Listing
	for _, rec := range extract.FindListingRecords(data, extract.MaxRecordDepth) {
		if l, ok := mapRecord(rec, baseURL); ok {
			listings = append(listings, l)
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
