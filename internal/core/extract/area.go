package extract

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	countyPrefixRe  = regexp.MustCompile(`(?i)^co(\.\s*|\s+)`)
	postalSuffixRe  = regexp.MustCompile(`(?i)\bdublin (\d{1,2})w\b`)
	dublinPostalRe  = regexp.MustCompile(`(?i)\bdublin\s*(\d{1,2}w?)\b`)
	compactPostalRe = regexp.MustCompile(`(?i)\bd\s?(\d{1,2}w?)\b`)
)

// KnownAreas - районы Дублина, которые ищутся в адресе, если почтовый код не указан
var KnownAreas = []string{
	"Rathmines", "Ranelagh", "Portobello", "Drumcondra", "Phibsborough",
	"Smithfield", "Stoneybatter", "Dundrum", "Stillorgan", "Blackrock",
	"Dun Laoghaire", "Sandymount", "Ballsbridge", "Clontarf", "Glasnevin",
	"Terenure", "Rathgar", "Harold's Cross", "Inchicore", "Donnybrook",
}

// DefaultArea - значение, когда район не удалось определить
const DefaultArea = "Dublin"

// NormalizeArea приводит название района к виду для отображения:
// обрезает пробелы, убирает префикс "Co.", схлопывает пробелы, делает Title Case.
// Синонимы здесь не разрешаются.
func NormalizeArea(area string) string {
	area = strings.TrimSpace(area)
	area = countyPrefixRe.ReplaceAllString(area, "")
	area = CollapseSpaces(area)
	if area == "" {
		return ""
	}
	area = cases.Title(language.English).String(area)
	return postalSuffixRe.ReplaceAllString(area, "Dublin ${1}W")
}

// AreaFromAddress определяет район по адресу: сначала почтовый код Дублина,
// затем известный район, иначе DefaultArea
func AreaFromAddress(address string) string {
	if m := dublinPostalRe.FindStringSubmatch(address); m != nil {
		return "Dublin " + strings.ToUpper(m[1])
	}
	if m := compactPostalRe.FindStringSubmatch(address); m != nil {
		return "Dublin " + strings.ToUpper(m[1])
	}
	for _, known := range KnownAreas {
		if ContainsWord(address, known) {
			return known
		}
	}
	return DefaultArea
}

// ContainsWord - регистронезависимое вхождение needle в haystack по границам слов
func ContainsWord(haystack, needle string) bool {
	needle = strings.TrimSpace(needle)
	if needle == "" || haystack == "" {
		return false
	}
	re, err := regexp.Compile(`(?i)(^|[^\p{L}\p{N}])` + regexp.QuoteMeta(needle) + `($|[^\p{L}\p{N}])`)
	if err != nil {
		return false
	}
	return re.MatchString(haystack)
}

// CollapseSpaces заменяет любые последовательности пробельных символов одним пробелом
func CollapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
