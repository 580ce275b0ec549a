package extract

import (
	"find-a-house/internal/core/domain"
	"regexp"
	"strconv"
	"strings"
)

var (
	studioRe     = regexp.MustCompile(`(?i)\bstudio\b`)
	numericBedRe = regexp.MustCompile(`(?i)\b(\d+)\s*-?\s*bed(?:room)?s?\b`)
	wordBedRe    = regexp.MustCompile(`(?i)\b(one|two|three|four|five|six|seven|eight|nine|ten)\s*-?\s*bed(?:room)?s?\b`)
)

var spelledNumbers = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
}

// Bedrooms определяет количество спален по тексту.
// Студия - 0; если ничего не найдено, возвращается domain.BedroomsUnknown.
func Bedrooms(text string) int {
	if studioRe.MatchString(text) {
		return 0
	}
	if m := numericBedRe.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return n
		}
	}
	if m := wordBedRe.FindStringSubmatch(text); m != nil {
		return spelledNumbers[strings.ToLower(m[1])]
	}
	return domain.BedroomsUnknown
}
