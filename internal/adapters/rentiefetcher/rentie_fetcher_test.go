package rentiefetcher

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"find-a-house/internal/core/domain"
)

const dublin8Feed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:media="http://search.yahoo.com/mrss/">
<channel><title>Rent.ie - Dublin 8</title>
<item>
  <title>2 bed apartment to let in Dublin 8, €1,950 per month</title>
  <link>https://www.rent.ie/houses-to-let/renting_dublin/dublin-8/101/</link>
  <guid>https://www.rent.ie/houses-to-let/renting_dublin/dublin-8/101/</guid>
  <description><![CDATA[<p>Bright <b>apartment</b> near the canal.</p><img src="https://img.rent.ie/101.jpg">]]></description>
  <category>Dublin 8</category>
  <pubDate>Fri, 10 Jan 2025 09:30:00 +0000</pubDate>
  <media:content url="https://img.rent.ie/101-large.jpg" medium="image"/>
</item>
<item>
  <title>Room to rent, Harold's Cross</title>
  <link>https://www.rent.ie/rooms-to-rent/renting_dublin/harolds-cross/102/</link>
  <description>Double room in house share, 180 euro per week</description>
</item>
<item>
  <title>Listing without link</title>
  <description>€900</description>
</item>
</channel></rss>`

const dublinFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>Rent.ie - Dublin</title>
<item>
  <title>Room to rent, Harold's Cross</title>
  <link>https://www.rent.ie/rooms-to-rent/renting_dublin/harolds-cross/102/</link>
  <description>Double room in house share, 180 euro per week</description>
</item>
<item>
  <title>Studio, Dublin City Centre</title>
  <link>https://www.rent.ie/houses-to-let/renting_dublin/city-centre/103/</link>
  <guid isPermaLink="false">103</guid>
  <description>Studio &amp; kitchenette, €1,400 pcm</description>
  <enclosure url="https://img.rent.ie/103.jpg" type="image/jpeg" length="1024"/>
</item>
</channel></rss>`

func TestFetchListingsSkipsFailedFeedsAndDedupes(t *testing.T) {
	var requested []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested = append(requested, r.URL.Path)
		switch r.URL.Path {
		case "/rss/houses-to-let/dublin/dublin-8/":
			w.Header().Set("Content-Type", "application/rss+xml")
			fmt.Fprint(w, dublin8Feed)
		case "/rss/houses-to-let/dublin/ringsend/":
			w.Header().Set("Content-Type", "text/html")
			fmt.Fprint(w, "<html><body>Maintenance</body></html>")
		case "/rss/houses-to-let/dublin/":
			w.Header().Set("Content-Type", "application/rss+xml")
			fmt.Fprint(w, dublinFeed)
		default:
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
		}
	}))
	defer srv.Close()

	a, err := NewRentIEFetcherAdapter(Config{
		FeedURL: srv.URL + "/rss",
		Areas:   []string{"Dublin 8", "Harold's Cross", "Ringsend"},
	})
	if err != nil {
		t.Fatalf("NewRentIEFetcherAdapter: %v", err)
	}

	got, err := a.FetchListings(context.Background())
	if err != nil {
		t.Fatalf("FetchListings: %v", err)
	}
	if len(requested) != 4 {
		t.Errorf("requested feeds = %v; want 4 feeds", requested)
	}

	var ids []string
	for _, l := range got {
		ids = append(ids, l.ID)
	}
	want := []string{"rent_ie_101", "rent_ie_102", "rent_ie_103"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("ids = %v; want %v (duplicate URL must be dropped)", ids, want)
	}
}

func TestParseFeedFields(t *testing.T) {
	got, err := parseFeed([]byte(dublin8Feed))
	if err != nil {
		t.Fatalf("parseFeed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d listings; entry without link must be dropped", len(got))
	}

	apt := got[0]
	if apt.Price != 1950 || apt.Bedrooms != 2 || apt.PropertyType != "apartment" || apt.Area != "Dublin 8" {
		t.Errorf("apartment = %+v", apt)
	}
	if apt.ImageURL != "https://img.rent.ie/101-large.jpg" {
		t.Errorf("image = %q; media:content must win over inline img", apt.ImageURL)
	}
	if apt.PostedAt == nil || apt.PostedAt.Day() != 10 {
		t.Errorf("posted at = %v", apt.PostedAt)
	}
	if !strings.Contains(apt.Description, "Bright apartment near the canal") || strings.Contains(apt.Description, "<") {
		t.Errorf("description must be plain text: %q", apt.Description)
	}

	room := got[1]
	if room.ID != "rent_ie_102" || room.Price != 779 || room.Area != "Harold's Cross" {
		t.Errorf("room = %+v; want weekly 180 converted to 779", room)
	}
	if room.Bedrooms != domain.BedroomsUnknown || room.Bathrooms != domain.DefaultBathrooms {
		t.Errorf("room bedrooms/bathrooms = %d/%d", room.Bedrooms, room.Bathrooms)
	}
}

func TestParseFeedEnclosureAndCityCentre(t *testing.T) {
	got, err := parseFeed([]byte(dublinFeed))
	if err != nil {
		t.Fatalf("parseFeed: %v", err)
	}
	studio := got[1]
	if studio.ID != "rent_ie_103" || studio.Bedrooms != 0 || studio.Price != 1400 || studio.PropertyType != "studio" {
		t.Errorf("studio = %+v", studio)
	}
	if studio.Area != "Dublin City Centre" || studio.ImageURL != "https://img.rent.ie/103.jpg" {
		t.Errorf("area/image = %q/%q", studio.Area, studio.ImageURL)
	}
}

func TestParseFeedRejectsNonRSS(t *testing.T) {
	if _, err := parseFeed([]byte("<html><body>Maintenance</body></html>")); err == nil {
		t.Error("expected error for a document without RSS channel")
	}
}

func TestParseFeedIsIdempotent(t *testing.T) {
	first, _ := parseFeed([]byte(dublin8Feed))
	second, _ := parseFeed([]byte(dublin8Feed))
	if !reflect.DeepEqual(first, second) {
		t.Error("parsing the same feed twice gave different results")
	}
}

func TestAreaSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Dublin 8", "dublin-8"},
		{" Dublin 6W ", "dublin-6w"},
		{"Harold's Cross", "harolds-cross"},
		{"City Centre", "dublin-city-centre"},
		{"Kilmainham", "kilmainham"},
		{"Mount  Merrion!", "mount-merrion"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := AreaSlug(tt.in); got != tt.want {
			t.Errorf("AreaSlug(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

func TestFeedURLs(t *testing.T) {
	a, err := NewRentIEFetcherAdapter(Config{Areas: []string{"Dublin 2", "dublin 2", "Ranelagh"}, IncludeRooms: true})
	if err != nil {
		t.Fatalf("NewRentIEFetcherAdapter: %v", err)
	}
	want := []string{
		"https://www.rent.ie/rss/houses-to-let/dublin/dublin-2/",
		"https://www.rent.ie/rss/rooms-to-rent/dublin/dublin-2/",
		"https://www.rent.ie/rss/houses-to-let/dublin/ranelagh/",
		"https://www.rent.ie/rss/rooms-to-rent/dublin/ranelagh/",
		"https://www.rent.ie/rss/houses-to-let/dublin/",
	}
	if got := a.feedURLs(); !reflect.DeepEqual(got, want) {
		t.Errorf("feedURLs = %v; want %v", got, want)
	}
}
