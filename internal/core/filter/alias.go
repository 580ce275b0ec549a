package filter

import (
	"find-a-house/internal/core/extract"
	"fmt"
	"regexp"
	"strings"
)

var (
	fullPostalRe    = regexp.MustCompile(`(?i)^dublin\s*(\d{1,2}w?)$`)
	compactPostalRe = regexp.MustCompile(`(?i)^d\s?(\d{1,2}w?)$`)
)

// AliasTable - неизменяемая таблица разговорных вариантов названий районов.
// Ключ - название в нижнем регистре, значение - все равнозначные варианты.
type AliasTable struct {
	variants map[string][]string
}

// NewAliasTable строит таблицу из групп равнозначных названий
func NewAliasTable(groups ...[]string) AliasTable {
	t := AliasTable{variants: make(map[string][]string)}
	for _, group := range groups {
		normalized := make([]string, 0, len(group))
		for _, name := range group {
			if n := strings.ToLower(strings.TrimSpace(name)); n != "" {
				normalized = append(normalized, n)
			}
		}
		for _, name := range normalized {
			t.variants[name] = appendUnique(t.variants[name], normalized...)
		}
	}
	return t
}

// DefaultAliases - варианты написания районов Дублина, встречающиеся на сайтах
func DefaultAliases() AliasTable {
	return NewAliasTable(
		[]string{"Harold's Cross", "Harolds Cross", "Haroldscross"},
		[]string{"Dun Laoghaire", "Dún Laoghaire", "Dunlaoghaire", "Dun Laoire"},
		[]string{"Phibsborough", "Phibsboro"},
		[]string{"Stoneybatter", "Stoney Batter"},
		[]string{"Grand Canal Dock", "Grand Canal", "GCD"},
		[]string{"IFSC", "International Financial Services Centre"},
		[]string{"City Centre", "City Center", "Dublin City Centre"},
		[]string{"Rathgar", "Rathgar Village"},
		[]string{"Ballsbridge", "Ballsbridge Village"},
		[]string{"Drumcondra", "Drumcondra Village"},
	)
}

// Variants возвращает все равнозначные названия района, включая его самого
func (t AliasTable) Variants(area string) []string {
	key := strings.ToLower(strings.TrimSpace(area))
	if key == "" {
		return nil
	}
	if v, ok := t.variants[key]; ok {
		return v
	}
	return []string{key}
}

// AreaMatches сравнивает настроенный район с текстом адреса объявления.
// Вхождение в обе стороны по границам слов, почтовые коды Дублина
// сравниваются во всех формах записи: "Dublin 2", "Dublin2", "D2", "D 2".
// Голое "Dublin" (район не определен) совпадает только с самим "Dublin".
func AreaMatches(configured, location string, aliases AliasTable) bool {
	if strings.TrimSpace(configured) == "" || strings.TrimSpace(location) == "" {
		return false
	}
	unknownArea := strings.EqualFold(strings.TrimSpace(location), extract.DefaultArea)
	for _, variant := range aliases.Variants(configured) {
		if extract.ContainsWord(location, variant) {
			return true
		}
		if !unknownArea && extract.ContainsWord(variant, location) {
			return true
		}
		if code := postalCode(variant); code != "" && postalCodeMatches(code, location) {
			return true
		}
	}
	return false
}

// postalCode возвращает номер округа для "dublin <n>" или "d<n>", иначе пустую строку
func postalCode(area string) string {
	area = strings.TrimSpace(area)
	if m := fullPostalRe.FindStringSubmatch(area); m != nil {
		return strings.ToLower(m[1])
	}
	if m := compactPostalRe.FindStringSubmatch(area); m != nil {
		return strings.ToLower(m[1])
	}
	return ""
}

func postalCodeMatches(code, location string) bool {
	pattern := fmt.Sprintf(`(?i)\b(dublin\s*|d\s?)%s\b`, regexp.QuoteMeta(code))
	re, err := regexp.Compile(pattern)
	if err != nil {
		return false
	}
	return re.MatchString(location)
}

func appendUnique(dst []string, values ...string) []string {
	for _, v := range values {
		found := false
		for _, existing := range dst {
			if existing == v {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, v)
		}
	}
	return dst
}
