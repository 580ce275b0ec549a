package daftfetcher

import (
	"find-a-house/internal/adapters/httpfetch"
	"find-a-house/internal/constants"
	"find-a-house/internal/core/domain"
	"find-a-house/internal/core/extract"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

var (
	numericIDRe  = regexp.MustCompile(`^\d+$`)
	imageSizeKey = []string{"size720x480", "size600x600", "size400x300", "url"}
)

// mapRecord переводит объект из встроенного JSON в Listing.
// Объект без числового идентификатора отбрасывается.
func mapRecord(rec extract.Record, baseURL string) (domain.Listing, bool) {
	if inner, ok := rec.Record("listing"); ok {
		rec = inner
	}

	nativeID := rec.String("id", "listingId")
	if !numericIDRe.MatchString(nativeID) {
		nativeID = extract.IDFromURL(rec.String("seoFriendlyPath", "url"))
	}
	if nativeID == "" {
		return domain.Listing{}, false
	}

	link := rec.String("seoFriendlyPath", "url")
	if link == "" {
		code := rec.String("daftShortcode")
		if code == "" {
			code = nativeID
		}
		link = "/for-rent/property-to-rent/" + code
	}

	title := rec.String("title", "seoTitle")

	return domain.Listing{
		ID:           domain.GenerateID(constants.SourceDaft, nativeID),
		Source:       constants.SourceDaft,
		Title:        title,
		Price:        rec.Price("price", "monthlyPrice"),
		Bedrooms:     rec.Bedrooms("numBedrooms", "bedrooms"),
		Bathrooms:    rec.Count(domain.DefaultBathrooms, "numBathrooms", "bathrooms"),
		PropertyType: rec.String("propertyType"),
		Area:         extract.AreaFromAddress(title),
		Address:      title,
		URL:          httpfetch.AbsoluteURL(baseURL, link),
		ImageURL:     recordImage(rec),
		Description:  extract.HTMLToText(rec.String("description")),
		Features:     rec.Strings("features"),
		PostedAt:     recordPublished(rec),
		Location:     recordLocation(rec),
	}, true
}

// recordLocation читает point.coordinates в порядке GeoJSON: долгота, широта
func recordLocation(rec extract.Record) *domain.GeoPoint {
	coords, ok := rec.Path("point", "coordinates").([]interface{})
	if !ok || len(coords) != 2 {
		return nil
	}
	lon, okLon := coords[0].(float64)
	lat, okLat := coords[1].(float64)
	if !okLon || !okLat {
		return nil
	}
	p := domain.GeoPoint{Lat: lat, Lon: lon}
	if !p.Valid() {
		return nil
	}
	return &p
}

func recordImage(rec extract.Record) string {
	media, ok := rec.Record("media")
	if !ok {
		return ""
	}
	images, ok := media["images"].([]interface{})
	if !ok || len(images) == 0 {
		return ""
	}
	first, ok := extract.AsRecord(images[0])
	if !ok {
		return ""
	}
	return first.String(imageSizeKey...)
}

// recordPublished читает publishDate в миллисекундах Unix
func recordPublished(rec extract.Record) *time.Time {
	ms, ok := rec["publishDate"].(float64)
	if !ok || ms <= 0 {
		return nil
	}
	t := time.UnixMilli(int64(ms)).UTC()
	return &t
}

// mapCard разбирает карточку из разметки страницы поиска.
// Карточка без ссылки или без идентификатора пропускается.
func mapCard(card *goquery.Selection, baseURL string) (domain.Listing, bool) {
	href, ok := card.Find("a[href]").First().Attr("href")
	if !ok || strings.TrimSpace(href) == "" {
		return domain.Listing{}, false
	}
	nativeID := extract.IDFromURL(href)
	if nativeID == "" {
		return domain.Listing{}, false
	}

	title := extract.CollapseSpaces(card.Find("h2, h3").First().Text())
	text := httpfetch.SpacedText(card)

	priceText := card.Find("[data-testid*='price']").First().Text()
	if priceText == "" {
		priceText = extract.PriceText(text)
	}

	return domain.Listing{
		ID:        domain.GenerateID(constants.SourceDaft, nativeID),
		Source:    constants.SourceDaft,
		Title:     title,
		Price:     extract.ParsePrice(priceText),
		Bedrooms:  extract.Bedrooms(text),
		Bathrooms: domain.DefaultBathrooms,
		Area:      extract.AreaFromAddress(title),
		Address:   title,
		URL:       httpfetch.AbsoluteURL(baseURL, href),
		ImageURL:  httpfetch.ImageSrc(card),
	}, true
}
