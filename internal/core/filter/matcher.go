package filter

import (
	"find-a-house/internal/core/domain"
	"fmt"
	"math"
	"strings"
)

// Названия проверок в порядке их выполнения
const (
	CheckPrice        = "price"
	CheckBedrooms     = "bedrooms"
	CheckArea         = "area"
	CheckExclude      = "exclude"
	CheckMustHave     = "must_have"
	CheckPropertyType = "property_type"
)

// MatchResult - результат проверки объявления одним профилем.
// Check и Reason заполнены только при отказе.
type MatchResult struct {
	Matched bool
	Check   string
	Reason  string
}

func accept() MatchResult {
	return MatchResult{Matched: true}
}

func reject(check, format string, args ...interface{}) MatchResult {
	return MatchResult{Check: check, Reason: fmt.Sprintf(format, args...)}
}

// MatchProfile проверяет объявление одним профилем.
// Порядок фиксирован: цена, спальни, район, стоп-слова, обязательные слова, тип жилья.
// Первая неудачная проверка прерывает остальные.
func MatchProfile(listing domain.Listing, profile domain.SearchProfile, aliases AliasTable) MatchResult {
	// неизвестная цена (0) проходит
	if listing.Price > 0 && (listing.Price < profile.MinPrice || listing.Price > profile.MaxPrice) {
		return reject(CheckPrice, "price %d outside [%d, %s]", listing.Price, profile.MinPrice, bound(profile.MaxPrice))
	}

	if listing.BedroomsKnown() && (listing.Bedrooms < profile.MinBedrooms || listing.Bedrooms > profile.MaxBedrooms) {
		return reject(CheckBedrooms, "bedrooms %d outside [%d, %s]", listing.Bedrooms, profile.MinBedrooms, bound(profile.MaxBedrooms))
	}

	if len(profile.Areas) > 0 && !anyAreaMatches(profile.Areas, listing.LocationText(), aliases) {
		return reject(CheckArea, "area %q not in %v", listing.LocationText(), profile.Areas)
	}

	headline := strings.ToLower(listing.HeadlineText())
	for _, keyword := range profile.Exclude {
		kw := strings.ToLower(strings.TrimSpace(keyword))
		if kw != "" && strings.Contains(headline, kw) {
			return reject(CheckExclude, "contains excluded keyword %q", keyword)
		}
	}

	features := strings.ToLower(listing.FeatureText())
	for _, keyword := range profile.MustHave {
		kw := strings.ToLower(strings.TrimSpace(keyword))
		if kw != "" && !strings.Contains(features, kw) {
			return reject(CheckMustHave, "missing required feature %q", keyword)
		}
	}

	if len(profile.PropertyTypes) > 0 && listing.PropertyType != "" && !anyTypeMatches(profile.PropertyTypes, listing.PropertyType) {
		return reject(CheckPropertyType, "property type %q not in %v", listing.PropertyType, profile.PropertyTypes)
	}

	return accept()
}

func anyAreaMatches(areas []string, location string, aliases AliasTable) bool {
	for _, area := range areas {
		if AreaMatches(area, location, aliases) {
			return true
		}
	}
	return false
}

func anyTypeMatches(types []string, propertyType string) bool {
	pt := strings.ToLower(strings.TrimSpace(propertyType))
	for _, t := range types {
		want := strings.ToLower(strings.TrimSpace(t))
		if want == "" {
			continue
		}
		if strings.Contains(pt, want) || strings.Contains(want, pt) {
			return true
		}
	}
	return false
}

func bound(v int) string {
	if v == math.MaxInt {
		return "inf"
	}
	return fmt.Sprintf("%d", v)
}
