package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// BedroomsUnknown - значение для объявлений, где количество спален не удалось определить.
// Отличается от 0 (студия) и сохраняется на всем пути до хранилища.
const BedroomsUnknown = -1

// DefaultBathrooms подставляется, если источник не сообщает количество ванных
const DefaultBathrooms = 1

var (
	ErrListingNotFound  = errors.New("listing not found")
	ErrAlreadyContacted = errors.New("listing already contacted")
)

// Listing - нормализованное объявление об аренде, одинаковое для всех источников.
// После создания адаптером не изменяется.
type Listing struct {
	ID           string
	Source       string
	Title        string
	Price        int // EUR в месяц, 0 - цена неизвестна
	Bedrooms     int // 0 - студия, BedroomsUnknown - неизвестно
	Bathrooms    int
	PropertyType string
	Area         string
	Address      string
	URL          string
	ImageURL     string
	Description  string
	Features     []string
	PostedAt     *time.Time
	// Location - координаты, если источник их сообщает
	Location *GeoPoint
}

// GeoPoint - широта и долгота в градусах
type GeoPoint struct {
	Lat float64
	Lon float64
}

// Valid отбрасывает координаты вне диапазона и нулевую точку, которой сайты заполняют пустое поле
func (p GeoPoint) Valid() bool {
	if p.Lat == 0 && p.Lon == 0 {
		return false
	}
	return p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180
}

// GenerateID строит глобальный идентификатор вида "{source}_{native_id}"
func GenerateID(source, nativeID string) string {
	return fmt.Sprintf("%s_%s", source, nativeID)
}

func (l Listing) BedroomsKnown() bool {
	return l.Bedrooms >= 0
}

// LocationText - текст, по которому проверяется район
func (l Listing) LocationText() string {
	return strings.TrimSpace(l.Area + " " + l.Address)
}

// HeadlineText - заголовок и описание, по ним ищутся стоп-слова
func (l Listing) HeadlineText() string {
	return strings.TrimSpace(l.Title + " " + l.Description)
}

// FeatureText - удобства и описание, по ним ищутся обязательные и желательные ключевые слова
func (l Listing) FeatureText() string {
	return strings.TrimSpace(strings.Join(l.Features, " ") + " " + l.Description)
}

// BedroomsLabel возвращает количество спален для отображения: "?" если неизвестно
func (l Listing) BedroomsLabel() string {
	if !l.BedroomsKnown() {
		return "?"
	}
	return fmt.Sprintf("%d", l.Bedrooms)
}

// StoredListing - объявление вместе с полями, которыми владеет хранилище
type StoredListing struct {
	Listing
	FirstSeenAt time.Time
	NotifiedAt  *time.Time
	ContactedAt *time.Time
	IsActive    bool
}

// MatchedListing - новое объявление, прошедшее хотя бы один профиль поиска
type MatchedListing struct {
	Listing Listing
	Profile string
	Score   int
	RunID   string
}
