package extract

import (
	"find-a-house/internal/core/domain"
	"regexp"
	"strconv"
	"strings"
)

var firstNumberRe = regexp.MustCompile(`\d+`)

// PriceValue читает цену из значения JSON: числа, строки со свободным текстом
// или объекта вида {"amount": 1800}
func PriceValue(v interface{}) int {
	switch val := v.(type) {
	case float64:
		if val > 0 && val <= maxPrice {
			return int(val)
		}
	case string:
		return ParsePrice(val)
	case map[string]interface{}:
		rec := Record(val)
		for _, key := range []string{"amount", "value", "price"} {
			if p := PriceValue(rec[key]); p > 0 {
				return p
			}
		}
	}
	return 0
}

// BedroomsValue читает количество спален: число, "2 Bed", "Studio", "2" или {"value": 2}
func BedroomsValue(v interface{}) int {
	switch val := v.(type) {
	case float64:
		if val >= 0 {
			return int(val)
		}
	case string:
		if beds := Bedrooms(val); beds != domain.BedroomsUnknown {
			return beds
		}
		if m := firstNumberRe.FindString(val); m != "" {
			if n, err := strconv.Atoi(m); err == nil {
				return n
			}
		}
	case map[string]interface{}:
		return BedroomsValue(val["value"])
	}
	return domain.BedroomsUnknown
}

// CountValue читает положительное количество: число, "2 Bath" или {"value": 2}
func CountValue(v interface{}) (int, bool) {
	switch val := v.(type) {
	case float64:
		if val > 0 {
			return int(val), true
		}
	case string:
		if m := firstNumberRe.FindString(val); m != "" {
			if n, err := strconv.Atoi(m); err == nil && n > 0 {
				return n, true
			}
		}
	case map[string]interface{}:
		return CountValue(val["value"])
	}
	return 0, false
}

// ImageValue читает ссылку на изображение: строку, массив или объект ImageObject
func ImageValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case []interface{}:
		for _, item := range val {
			if s := ImageValue(item); s != "" {
				return s
			}
		}
	case map[string]interface{}:
		return Record(val).String("url", "contentUrl", "src")
	}
	return ""
}

// Price - первая известная цена среди ключей, 0 если цены нет
func (r Record) Price(keys ...string) int {
	for _, key := range keys {
		if p := PriceValue(r[key]); p > 0 {
			return p
		}
	}
	return 0
}

// Bedrooms - первое распознанное количество спален среди ключей
func (r Record) Bedrooms(keys ...string) int {
	for _, key := range keys {
		if beds := BedroomsValue(r[key]); beds != domain.BedroomsUnknown {
			return beds
		}
	}
	return domain.BedroomsUnknown
}

// Count - первое положительное количество среди ключей или def
func (r Record) Count(def int, keys ...string) int {
	for _, key := range keys {
		if n, ok := CountValue(r[key]); ok {
			return n
		}
	}
	return def
}

// Strings возвращает непустые строки из массива по ключу
func (r Record) Strings(key string) []string {
	raw, ok := r[key].([]interface{})
	if !ok {
		return nil
	}
	var out []string
	for _, item := range raw {
		if s := ValueString(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}
