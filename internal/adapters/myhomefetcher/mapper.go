package myhomefetcher

import (
	"find-a-house/internal/adapters/httpfetch"
	"find-a-house/internal/constants"
	"find-a-house/internal/core/domain"
	"find-a-house/internal/core/extract"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// propertyTypes - типы schema.org, которые означают жилье
var propertyTypes = map[string]string{
	"apartment":             "Apartment",
	"house":                 "House",
	"singlefamilyresidence": "House",
	"residence":             "",
	"accommodation":         "",
}

// nonListingTypes - блоки schema.org о сайте и агентстве, у них тоже бывают url и address
var nonListingTypes = map[string]bool{
	"organization":    true,
	"realestateagent": true,
	"localbusiness":   true,
	"website":         true,
	"webpage":         true,
	"breadcrumblist":  true,
}

// mapJSONLD переводит объект schema.org в Listing
func mapJSONLD(rec extract.Record, baseURL string) (domain.Listing, bool) {
	if nonListingTypes[strings.ToLower(rec.String("@type"))] {
		return domain.Listing{}, false
	}

	link := rec.String("url", "@id")
	nativeID := extract.IDFromURL(link)
	if nativeID == "" {
		nativeID = rec.String("identifier", "productID", "sku")
	}
	if nativeID == "" {
		return domain.Listing{}, false
	}

	title := rec.String("name")
	address, locality := jsonLDAddress(rec)
	if address == "" {
		address = title
	}

	bedrooms := rec.Bedrooms("numberOfBedrooms", "numberOfRooms")
	if bedrooms == domain.BedroomsUnknown {
		bedrooms = extract.Bedrooms(title + " " + rec.String("description"))
	}

	return domain.Listing{
		ID:           domain.GenerateID(constants.SourceMyHome, nativeID),
		Source:       constants.SourceMyHome,
		Title:        title,
		Price:        jsonLDPrice(rec),
		Bedrooms:     bedrooms,
		Bathrooms:    rec.Count(domain.DefaultBathrooms, "numberOfBathroomsTotal", "numberOfFullBathrooms"),
		PropertyType: jsonLDType(rec),
		Area:         areaOf(address+" "+title, locality),
		Address:      address,
		URL:          httpfetch.AbsoluteURL(baseURL, link),
		ImageURL:     extract.ImageValue(rec["image"]),
		Description:  extract.HTMLToText(rec.String("description")),
		Features:     amenities(rec),
		PostedAt:     parseDate(rec.String("datePosted", "dateCreated")),
	}, true
}

// jsonLDPrice ищет цену в offers (объект или массив) и priceSpecification
func jsonLDPrice(rec extract.Record) int {
	var offer extract.Record
	switch v := rec["offers"].(type) {
	case map[string]interface{}:
		offer = extract.Record(v)
	case []interface{}:
		if len(v) > 0 {
			offer, _ = extract.AsRecord(v[0])
		}
	}
	if offer == nil {
		return rec.Price("price")
	}

	price := offer.Price("price")
	unit := offer.String("unitText", "unitCode")
	if spec, ok := offer.Record("priceSpecification"); ok {
		if price == 0 {
			price = spec.Price("price")
		}
		if unit == "" {
			unit = spec.String("unitText", "unitCode")
		}
	}
	// числовая цена за неделю: unitCode WEE или unitText "week"
	if _, numeric := offer["price"].(float64); numeric && isWeeklyUnit(unit) {
		price = extract.ToMonthly(price)
	}
	return price
}

func isWeeklyUnit(unit string) bool {
	unit = strings.ToLower(unit)
	return unit == "wee" || strings.Contains(unit, "week")
}

func jsonLDType(rec extract.Record) string {
	t := strings.ToLower(rec.String("@type"))
	if mapped, ok := propertyTypes[t]; ok {
		return mapped
	}
	return ""
}

// jsonLDAddress собирает адрес из строки или PostalAddress, второе значение - населенный пункт
func jsonLDAddress(rec extract.Record) (string, string) {
	switch v := rec["address"].(type) {
	case string:
		return extract.CollapseSpaces(v), ""
	case map[string]interface{}:
		addr := extract.Record(v)
		var parts []string
		for _, key := range []string{"streetAddress", "addressLocality", "addressRegion"} {
			if s := addr.String(key); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", "), addr.String("addressLocality")
	}
	return "", ""
}

// amenities читает amenityFeature schema.org: строки или LocationFeatureSpecification
func amenities(rec extract.Record) []string {
	raw, ok := rec["amenityFeature"].([]interface{})
	if !ok {
		return rec.Strings("features")
	}
	var out []string
	for _, item := range raw {
		if s := extract.ValueString(item); s != "" {
			out = append(out, s)
			continue
		}
		if f, ok := extract.AsRecord(item); ok {
			if name := f.String("name"); name != "" {
				out = append(out, name)
			}
		}
	}
	return out
}

// mapAppState переводит объект из состояния приложения.
// Ключи в нем бывают в разном регистре, поэтому сравниваются в нижнем.
func mapAppState(raw extract.Record, baseURL string) (domain.Listing, bool) {
	rec := raw.LowerKeys()

	link := rec.String("brochureurl", "seourl", "url", "link")
	nativeID := rec.String("propertyid", "listingid", "id")
	if nativeID == "" {
		nativeID = extract.IDFromURL(link)
	}
	if nativeID == "" {
		return domain.Listing{}, false
	}
	if link == "" {
		link = "/rentals/brochure/" + nativeID
	}

	address := rec.String("displayaddress", "address", "title")
	title := rec.String("title", "displayaddress")

	return domain.Listing{
		ID:           domain.GenerateID(constants.SourceMyHome, nativeID),
		Source:       constants.SourceMyHome,
		Title:        title,
		Price:        rec.Price("priceasstring", "price", "rent", "monthlyprice"),
		Bedrooms:     rec.Bedrooms("bedsstring", "numberofbeds", "bedrooms", "beds"),
		Bathrooms:    rec.Count(domain.DefaultBathrooms, "bathsstring", "numberofbathrooms", "bathrooms"),
		PropertyType: rec.String("propertytype", "propertytypestring"),
		Area:         areaOf(address, ""),
		Address:      address,
		URL:          httpfetch.AbsoluteURL(baseURL, link),
		ImageURL:     firstImage(rec, "mainphoto", "mainphotoweb", "photo", "imageurl", "image", "photos"),
		Description:  extract.HTMLToText(rec.String("description")),
		Features:     rec.Strings("features"),
		PostedAt:     parseDate(rec.String("createdondate", "publishdate", "dateposted")),
	}, true
}

func firstImage(rec extract.Record, keys ...string) string {
	for _, key := range keys {
		if s := extract.ImageValue(rec[key]); s != "" {
			return s
		}
	}
	return ""
}

// mapCard разбирает карточку из разметки, карточка без ссылки пропускается
func mapCard(card *goquery.Selection, baseURL string) (domain.Listing, bool) {
	linkSel := card.Find("a[href*='/brochure/']").First()
	if linkSel.Length() == 0 {
		linkSel = card.Find("a[href]").First()
	}
	href := strings.TrimSpace(linkSel.AttrOr("href", ""))
	nativeID := extract.IDFromURL(href)
	if href == "" || nativeID == "" {
		return domain.Listing{}, false
	}

	address := extract.CollapseSpaces(card.Find(".PropertyListingCard__Address, [class*='address'], h2, h3").First().Text())
	text := httpfetch.SpacedText(card)

	priceText := card.Find(".PropertyListingCard__Price, [class*='price']").First().Text()
	if extract.ParsePrice(priceText) == 0 {
		priceText = extract.PriceText(text)
	}

	return domain.Listing{
		ID:        domain.GenerateID(constants.SourceMyHome, nativeID),
		Source:    constants.SourceMyHome,
		Title:     address,
		Price:     extract.ParsePrice(priceText),
		Bedrooms:  extract.Bedrooms(text),
		Bathrooms: domain.DefaultBathrooms,
		Area:      areaOf(address, ""),
		Address:   address,
		URL:       httpfetch.AbsoluteURL(baseURL, href),
		ImageURL:  httpfetch.ImageSrc(card),
	}, true
}

// areaOf берет почтовый код или известный район из адреса, иначе населенный пункт
func areaOf(address, locality string) string {
	area := extract.AreaFromAddress(address)
	if area == extract.DefaultArea && locality != "" {
		return extract.NormalizeArea(locality)
	}
	return area
}

func parseDate(value string) *time.Time {
	if value == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}
