package contracts

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"find-a-house/internal/constants"
	"find-a-house/internal/core/domain"
)

func matched(bedrooms int) domain.MatchedListing {
	return domain.MatchedListing{
		Listing: domain.Listing{
			ID:        "rent_ie_102",
			Source:    "rent_ie",
			Title:     "Room to rent, Harold's Cross",
			Price:     779,
			Bedrooms:  bedrooms,
			Bathrooms: 1,
			Area:      "Harold's Cross",
			URL:       "https://www.rent.ie/rooms-to-rent/renting_dublin/harolds-cross/102/",
		},
		Profile: "budget",
		Score:   2,
		RunID:   "run-1",
	}
}

func TestMarshalEventUnknownBedroomsIsNull(t *testing.T) {
	body, err := MarshalEvent(NewListingMatchedEvent(matched(domain.BedroomsUnknown), time.Now()))
	if err != nil {
		t.Fatalf("MarshalEvent: %v", err)
	}

	var decoded struct {
		Listing map[string]interface{} `json:"listing"`
	}
	if err := json.Unmarshal(body, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Listing["bedrooms"] != nil || decoded.Listing["bedrooms_label"] != "?" {
		t.Errorf("bedrooms = %v, label = %v; want null and ?", decoded.Listing["bedrooms"], decoded.Listing["bedrooms_label"])
	}
}

func TestMarshalEventStudio(t *testing.T) {
	body, err := MarshalEvent(NewListingMatchedEvent(matched(0), time.Now()))
	if err != nil {
		t.Fatalf("MarshalEvent: %v", err)
	}
	if !strings.Contains(string(body), `"bedrooms":0`) {
		t.Errorf("studio must be sent as 0: %s", body)
	}
}

func TestMarshalEventLocation(t *testing.T) {
	m := matched(1)
	m.Listing.Location = &domain.GeoPoint{Lat: 53.3225, Lon: -6.2653}
	body, err := MarshalEvent(NewListingMatchedEvent(m, time.Now()))
	if err != nil {
		t.Fatalf("MarshalEvent: %v", err)
	}
	if !strings.Contains(string(body), `"location":{"lat":53.3225,"lon":-6.2653}`) {
		t.Errorf("location missing: %s", body)
	}

	noPoint, _ := MarshalEvent(NewListingMatchedEvent(matched(1), time.Now()))
	if strings.Contains(string(noPoint), `"location"`) {
		t.Errorf("location must be omitted without coordinates: %s", noPoint)
	}
}

func TestValidateEventRejectsContractViolations(t *testing.T) {
	tests := map[string]string{
		"unknown source":  `{"event_id":"6f1c8a52-3d1e-4b8e-9a53-7c1d2e3f4a5b","run_id":"r","profile":"p","score":0,"matched_at":"2025-01-01T00:00:00Z","listing":{"id":"x_1","source":"zillow","price":1,"bedrooms":1,"bedrooms_label":"1","area":"Dublin","url":"https://x.ie/1"}}`,
		"negative price":  `{"event_id":"6f1c8a52-3d1e-4b8e-9a53-7c1d2e3f4a5b","run_id":"r","profile":"p","score":0,"matched_at":"2025-01-01T00:00:00Z","listing":{"id":"daft_1","source":"daft","price":-5,"bedrooms":1,"bedrooms_label":"1","area":"Dublin","url":"https://x.ie/1"}}`,
		"missing listing": `{"event_id":"6f1c8a52-3d1e-4b8e-9a53-7c1d2e3f4a5b","run_id":"r","profile":"p","score":0,"matched_at":"2025-01-01T00:00:00Z"}`,
		"not json":        `{`,
	}
	for name, body := range tests {
		if err := ValidateEvent(constants.EventTypeListingMatched, constants.EventVersionListingMatched, []byte(body)); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
}

func TestValidateEventUnknownVersion(t *testing.T) {
	if err := ValidateEvent(constants.EventTypeListingMatched, "9.9.9", []byte(`{}`)); err == nil {
		t.Error("expected error for unknown schema version")
	}
}
