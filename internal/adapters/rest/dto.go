package rest

import (
	"find-a-house/internal/core/domain"
	"time"
)

// ListingResponse - DTO одного сохраненного объявления
type ListingResponse struct {
	ID            string   `json:"id"`
	Source        string   `json:"source"`
	Title         string   `json:"title"`
	Price         int      `json:"price"`
	Bedrooms      *int     `json:"bedrooms"`
	BedroomsLabel string   `json:"bedrooms_label"`
	Bathrooms     int      `json:"bathrooms"`
	PropertyType  string   `json:"property_type,omitempty"`
	Area          string   `json:"area"`
	Address       string   `json:"address,omitempty"`
	URL           string   `json:"url"`
	ImageURL      string   `json:"image_url,omitempty"`
	Features      []string `json:"features"`
	PostedAt      *string  `json:"posted_at,omitempty"`
	FirstSeenAt   string   `json:"first_seen_at"`
	NotifiedAt    *string  `json:"notified_at,omitempty"`
	ContactedAt   *string  `json:"contacted_at,omitempty"`
	IsActive      bool     `json:"is_active"`
	Location      *geoDTO  `json:"location,omitempty"`
}

type geoDTO struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// ListingsResponse - DTO для ответа со списком объявлений
type ListingsResponse struct {
	Data  []ListingResponse `json:"data"`
	Total int               `json:"total"`
}

type statusResponse struct {
	Status string `json:"status"`
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}

func toListingResponse(s domain.StoredListing) ListingResponse {
	resp := ListingResponse{
		ID:            s.ID,
		Source:        s.Source,
		Title:         s.Title,
		Price:         s.Price,
		BedroomsLabel: s.BedroomsLabel(),
		Bathrooms:     s.Bathrooms,
		PropertyType:  s.PropertyType,
		Area:          s.Area,
		Address:       s.Address,
		URL:           s.URL,
		ImageURL:      s.ImageURL,
		Features:      s.Features,
		PostedAt:      formatTime(s.PostedAt),
		FirstSeenAt:   s.FirstSeenAt.UTC().Format(time.RFC3339),
		NotifiedAt:    formatTime(s.NotifiedAt),
		ContactedAt:   formatTime(s.ContactedAt),
		IsActive:      s.IsActive,
	}
	if s.BedroomsKnown() {
		bedrooms := s.Bedrooms
		resp.Bedrooms = &bedrooms
	}
	if s.Location != nil {
		resp.Location = &geoDTO{Lat: s.Location.Lat, Lon: s.Location.Lon}
	}
	if resp.Features == nil {
		resp.Features = []string{}
	}
	return resp
}

func toListingsResponse(listings []domain.StoredListing) ListingsResponse {
	data := make([]ListingResponse, 0, len(listings))
	for _, l := range listings {
		data = append(data, toListingResponse(l))
	}
	return ListingsResponse{Data: data, Total: len(data)}
}
