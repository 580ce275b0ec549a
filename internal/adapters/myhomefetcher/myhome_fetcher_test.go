package myhomefetcher

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"find-a-house/internal/core/domain"

	"github.com/PuerkitoBio/goquery"
)

const jsonLDPage = `<html><head>
<script type="application/ld+json">
{"@context":"https://schema.org","@type":"RealEstateAgent","name":"Sherry Estates","url":"https://www.myhome.ie/agents/77",
 "address":{"@type":"PostalAddress","addressLocality":"Dublin 2"}}
</script>
<script type="application/ld+json">
{"@context":"https://schema.org","@type":"ItemList","itemListElement":[
  {"@type":"ListItem","position":1,"item":{"@type":"Apartment","name":"2 Bed Apartment, Grand Canal Dock",
    "url":"https://www.myhome.ie/rentals/brochure/apartment-grand-canal-dock-dublin-2/4810001",
    "address":{"@type":"PostalAddress","streetAddress":"Hanover Quay","addressLocality":"Dublin 2"},
    "numberOfRooms":2,"offers":{"@type":"Offer","price":2600,"priceCurrency":"EUR"},
    "image":["https://photos.example/4810001.jpg"],"datePosted":"2025-01-09"}},
  {"@type":"ListItem","position":2,"item":{"@type":"House","name":"Terraced house, Ranelagh",
    "url":"https://www.myhome.ie/rentals/brochure/house-ranelagh/4810002",
    "address":"14 Chelmsford Road, Ranelagh","offers":{"price":700,"priceSpecification":{"unitCode":"WEE"}},
    "amenityFeature":[{"@type":"LocationFeatureSpecification","name":"Garden"},"Parking"]}}
]}
</script></head><body></body></html>`

const appStatePage = `<html><head>
<script id="serverApp-state" type="application/json">
{"search":{"results":{"SearchResults":[
  {"PropertyId":4820001,"DisplayAddress":"Flat 3, Phibsborough Road, Dublin 7","PriceAsString":"€1,750 per month",
   "BedsString":"1 Bed","BathString":"1 Bath","PropertyType":"Apartment","BrochureUrl":"/rentals/brochure/flat-3/4820001",
   "MainPhoto":"https://photos.example/4820001.jpg"},
  {"Banner":true,"Price":"€0","DisplayAddress":"Advertise with us"}
]}}}
</script></head><body></body></html>`

const cardsPage = `<html><body>
<div class="PropertyListingCard">
  <a href="/rentals/brochure/studio-rathmines/4830001"><h3 class="PropertyListingCard__Address">Studio, Lower Rathmines Road, Rathmines</h3></a>
  <div class="PropertyListingCard__Price">€1,300 per month</div><span>Studio</span>
  <img src="https://photos.example/4830001.jpg">
</div>
<div class="PropertyListingCard"><span>Ad slot</span></div>
</body></html>`

func mustParse(t *testing.T, page string) *goquery.Selection {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return doc.Selection
}

func TestParseJSONLD(t *testing.T) {
	got, strategy := parseListings(mustParse(t, jsonLDPage), "https://www.myhome.ie")
	if strategy != "json_ld" {
		t.Errorf("strategy = %q; want json_ld", strategy)
	}
	if len(got) != 2 {
		t.Fatalf("got %d listings; want 2 (agency block must be ignored)", len(got))
	}

	apt := got[0]
	if apt.ID != "myhome_4810001" || apt.Price != 2600 || apt.Bedrooms != 2 || apt.PropertyType != "Apartment" {
		t.Errorf("apartment = %+v", apt)
	}
	if apt.Area != "Dublin 2" || apt.Address != "Hanover Quay, Dublin 2" {
		t.Errorf("area/address = %q/%q", apt.Area, apt.Address)
	}
	if apt.PostedAt == nil || apt.ImageURL != "https://photos.example/4810001.jpg" {
		t.Errorf("posted/image = %v/%q", apt.PostedAt, apt.ImageURL)
	}

	house := got[1]
	if house.ID != "myhome_4810002" || house.Price != 3031 || house.Area != "Ranelagh" {
		t.Errorf("house = %+v; want weekly 700 converted to 3031", house)
	}
	if house.Bedrooms != domain.BedroomsUnknown {
		t.Errorf("bedrooms = %d; want unknown", house.Bedrooms)
	}
	if !reflect.DeepEqual(house.Features, []string{"Garden", "Parking"}) {
		t.Errorf("features = %v", house.Features)
	}
}

func TestParseAppState(t *testing.T) {
	got, strategy := parseListings(mustParse(t, appStatePage), "https://www.myhome.ie")
	if strategy != "app_state" {
		t.Errorf("strategy = %q; want app_state", strategy)
	}
	if len(got) != 1 {
		t.Fatalf("got %d listings; want 1", len(got))
	}
	l := got[0]
	if l.ID != "myhome_4820001" || l.Price != 1750 || l.Bedrooms != 1 || l.Area != "Dublin 7" {
		t.Errorf("listing = %+v", l)
	}
	if l.URL != "https://www.myhome.ie/rentals/brochure/flat-3/4820001" || l.ImageURL != "https://photos.example/4820001.jpg" {
		t.Errorf("url/image = %q/%q", l.URL, l.ImageURL)
	}
}

func TestParseCards(t *testing.T) {
	got, strategy := parseListings(mustParse(t, cardsPage), "https://www.myhome.ie")
	if strategy != "cards" || len(got) != 1 {
		t.Fatalf("strategy %q, %d listings; want cards, 1", strategy, len(got))
	}
	l := got[0]
	if l.ID != "myhome_4830001" || l.Price != 1300 || l.Bedrooms != 0 || l.Area != "Rathmines" {
		t.Errorf("card listing = %+v", l)
	}
}

func TestParseIsIdempotent(t *testing.T) {
	for _, page := range []string{jsonLDPage, appStatePage, cardsPage} {
		first, _ := parseListings(mustParse(t, page), "https://www.myhome.ie")
		second, _ := parseListings(mustParse(t, page), "https://www.myhome.ie")
		if !reflect.DeepEqual(first, second) {
			t.Errorf("parsing the same document twice gave different results")
		}
	}
}

func TestFetchListingsStopsWhenPageRepeats(t *testing.T) {
	var requested []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested = append(requested, r.URL.RawQuery)
		w.Header().Set("Content-Type", "text/html")
		// сайт отдает последнюю страницу на любой номер за пределами выдачи
		fmt.Fprint(w, appStatePage)
	}))
	defer srv.Close()

	a, err := NewMyHomeFetcherAdapter(Config{BaseURL: srv.URL, MaxPages: 5, Criteria: domain.NewSearchCriteria()})
	if err != nil {
		t.Fatalf("NewMyHomeFetcherAdapter: %v", err)
	}
	got, err := a.FetchListings(context.Background())
	if err != nil {
		t.Fatalf("FetchListings: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("got %d listings; repeated page must not duplicate", len(got))
	}
	if len(requested) != 2 || requested[1] != "page=2" {
		t.Errorf("requested = %v; want first page and page=2 only", requested)
	}
}
