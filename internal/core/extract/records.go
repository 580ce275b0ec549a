package extract

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

// MaxRecordDepth - предел глубины обхода встроенного JSON
const MaxRecordDepth = 5

// Record - объект из JSON с нестрогой структурой
type Record map[string]interface{}

// AsRecord приводит значение из json.Unmarshal к Record
func AsRecord(v interface{}) (Record, bool) {
	m, ok := v.(map[string]interface{})
	if !ok {
		return nil, false
	}
	return Record(m), true
}

// DecodeJSON разбирает JSON в дерево map/slice, пустой ввод - nil
func DecodeJSON(data []byte) (interface{}, error) {
	var root interface{}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, nil
	}
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	return root, nil
}

// LowerKeys возвращает копию объекта с ключами в нижнем регистре
func (r Record) LowerKeys() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[strings.ToLower(k)] = v
	}
	return out
}

// Path проходит по цепочке ключей, возвращает nil, если путь обрывается
func (r Record) Path(keys ...string) interface{} {
	var node interface{} = map[string]interface{}(r)
	for _, key := range keys {
		m, ok := node.(map[string]interface{})
		if !ok {
			return nil
		}
		node, ok = m[key]
		if !ok {
			return nil
		}
	}
	return node
}

// Record возвращает вложенный объект по первому найденному ключу
func (r Record) Record(keys ...string) (Record, bool) {
	for _, key := range keys {
		if sub, ok := AsRecord(r[key]); ok {
			return sub, true
		}
	}
	return nil, false
}

// String возвращает первое непустое значение среди ключей в виде строки
func (r Record) String(keys ...string) string {
	for _, key := range keys {
		if s := ValueString(r[key]); s != "" {
			return s
		}
	}
	return ""
}

// Int возвращает первое значение среди ключей, которое можно прочитать как целое число
func (r Record) Int(keys ...string) (int, bool) {
	for _, key := range keys {
		switch v := r[key].(type) {
		case float64:
			return int(v), true
		case string:
			if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
				return n, true
			}
		}
	}
	return 0, false
}

// ValueString приводит скалярное значение JSON к строке
func ValueString(v interface{}) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// FindListingRecords ищет в дереве JSON объекты, похожие на объявление.
// Обход в глубину с сортировкой ключей, поэтому результат детерминирован.
// Найденный объект не обходится дальше, глубина ограничена maxDepth.
func FindListingRecords(root interface{}, maxDepth int) []Record {
	var found []Record
	walkRecords(root, 0, maxDepth, &found)
	return found
}

func walkRecords(node interface{}, depth, maxDepth int, found *[]Record) {
	if depth > maxDepth {
		return
	}
	switch v := node.(type) {
	case map[string]interface{}:
		rec := Record(v)
		if LooksLikeListing(rec) {
			*found = append(*found, rec)
			return
		}
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			walkRecords(v[k], depth+1, maxDepth, found)
		}
	case []interface{}:
		for _, item := range v {
			walkRecords(item, depth+1, maxDepth, found)
		}
	}
}

// LooksLikeListing - объект содержит хотя бы два признака объявления из четырех:
// цену, спальни, адрес, ссылку
func LooksLikeListing(rec Record) bool {
	var price, beds, address, link bool
	for key, value := range rec {
		if value == nil {
			continue
		}
		k := strings.ToLower(key)
		switch {
		case isPriceKey(k):
			price = true
		case isBedroomKey(k):
			beds = true
		case isAddressKey(k):
			address = true
		case isURLKey(k):
			link = true
		}
	}

	score := 0
	for _, hit := range []bool{price, beds, address, link} {
		if hit {
			score++
		}
	}
	return score >= 2
}

func isPriceKey(k string) bool {
	return strings.Contains(k, "price") || k == "rent" || k == "monthlyrent" || k == "offers"
}

func isBedroomKey(k string) bool {
	return strings.Contains(k, "bedroom") || k == "beds" || k == "numbeds" || k == "numberofrooms"
}

func isAddressKey(k string) bool {
	switch k {
	case "location", "area", "locality", "displayaddress":
		return true
	}
	return strings.Contains(k, "address")
}

func isURLKey(k string) bool {
	if strings.Contains(k, "image") || strings.Contains(k, "photo") {
		return false
	}
	switch k {
	case "url", "link", "href", "permalink", "daftshortcode":
		return true
	}
	return strings.HasSuffix(k, "url") || strings.Contains(k, "seofriendlypath") || strings.HasSuffix(k, "link")
}
