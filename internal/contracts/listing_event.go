package contracts

import (
	"encoding/json"
	"find-a-house/internal/constants"
	"find-a-house/internal/core/domain"
	"find-a-house/schemas"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

const listingMatchedSchemaURL = "https://find-a-house.local/schemas/events/listing-matched/v1.json"

// ListingMatchedEventDTO - это структура контракта, она соответствует JSON-схеме
type ListingMatchedEventDTO struct {
	EventID   uuid.UUID  `json:"event_id"`
	RunID     string     `json:"run_id"`
	Profile   string     `json:"profile"`
	Score     int        `json:"score"`
	MatchedAt time.Time  `json:"matched_at"`
	Listing   ListingDTO `json:"listing"`
}

// ListingDTO - объявление в событии. Неизвестное количество спален передается как null.
type ListingDTO struct {
	ID            string     `json:"id"`
	Source        string     `json:"source"`
	Title         string     `json:"title"`
	Price         int        `json:"price"`
	Bedrooms      *int       `json:"bedrooms"`
	BedroomsLabel string     `json:"bedrooms_label"`
	Bathrooms     int        `json:"bathrooms"`
	PropertyType  string     `json:"property_type"`
	Area          string     `json:"area"`
	Address       string     `json:"address"`
	URL           string     `json:"url"`
	ImageURL      string     `json:"image_url"`
	Description   string     `json:"description"`
	Features      []string   `json:"features"`
	PostedAt      *time.Time `json:"posted_at"`
	Location      *PointDTO  `json:"location,omitempty"`
}

// PointDTO - координаты объявления в градусах
type PointDTO struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// NewListingMatchedEvent переводит доменное совпадение в событие
func NewListingMatchedEvent(m domain.MatchedListing, matchedAt time.Time) ListingMatchedEventDTO {
	l := m.Listing
	dto := ListingDTO{
		ID:            l.ID,
		Source:        l.Source,
		Title:         l.Title,
		Price:         l.Price,
		BedroomsLabel: l.BedroomsLabel(),
		Bathrooms:     l.Bathrooms,
		PropertyType:  l.PropertyType,
		Area:          l.Area,
		Address:       l.Address,
		URL:           l.URL,
		ImageURL:      l.ImageURL,
		Description:   l.Description,
		Features:      l.Features,
		PostedAt:      l.PostedAt,
	}
	if l.BedroomsKnown() {
		bedrooms := l.Bedrooms
		dto.Bedrooms = &bedrooms
	}
	if dto.Features == nil {
		dto.Features = []string{}
	}
	if l.Location != nil && l.Location.Valid() {
		dto.Location = &PointDTO{Lat: l.Location.Lat, Lon: l.Location.Lon}
	}

	return ListingMatchedEventDTO{
		EventID:   uuid.New(),
		RunID:     m.RunID,
		Profile:   m.Profile,
		Score:     m.Score,
		MatchedAt: matchedAt.UTC(),
		Listing:   dto,
	}
}

var (
	compiledSchemas = make(map[string]*jsonschema.Schema)
	compileOnce     sync.Once
	compileErr      error
)

func loadSchemas() error {
	compileOnce.Do(func() {
		f, err := schemas.FS.Open(schemas.ListingMatchedEventV1)
		if err != nil {
			compileErr = fmt.Errorf("failed to open schema %s: %w", schemas.ListingMatchedEventV1, err)
			return
		}
		defer f.Close()

		compiler := jsonschema.NewCompiler()
		compiler.AssertFormat = true
		if err := compiler.AddResource(listingMatchedSchemaURL, f); err != nil {
			compileErr = fmt.Errorf("failed to add schema resource: %w", err)
			return
		}
		schema, err := compiler.Compile(listingMatchedSchemaURL)
		if err != nil {
			compileErr = fmt.Errorf("failed to compile schema %s: %w", schemas.ListingMatchedEventV1, err)
			return
		}
		compiledSchemas[constants.EventTypeListingMatched+"/"+constants.EventVersionListingMatched] = schema
	})
	return compileErr
}

// MarshalEvent кодирует событие и проверяет результат по схеме
func MarshalEvent(event ListingMatchedEventDTO) ([]byte, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := ValidateEvent(constants.EventTypeListingMatched, constants.EventVersionListingMatched, body); err != nil {
		return nil, err
	}
	return body, nil
}

// ValidateEvent принимает тело сообщения и его метаданные и проверяет по схеме
func ValidateEvent(eventType, eventVersion string, body []byte) error {
	if err := loadSchemas(); err != nil {
		return err
	}
	key := fmt.Sprintf("%s/%s", eventType, eventVersion)
	schema, ok := compiledSchemas[key]
	if !ok {
		return fmt.Errorf("schema for event '%s' version '%s' not found", eventType, eventVersion)
	}

	// распарсить JSON в универсальный тип interface{}
	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		return fmt.Errorf("message body is not a valid JSON: %w", err)
	}

	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("JSON schema validation failed: %w", err)
	}
	return nil
}
