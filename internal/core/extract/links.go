package extract

import (
	"regexp"
	"strings"
)

var (
	urlIDRe      = regexp.MustCompile(`/(\d+)/?(?:[?#]|$)`)
	pricePhrases = []*regexp.Regexp{
		regexp.MustCompile(`(?i)€\s?[\d,.]+(?:\s*(?:per\s+(?:week|month)|p\.?/?w\b|p\.?/?m\b|pcm|weekly|monthly))?`),
		regexp.MustCompile(`(?i)\b[\d,]+\s*(?:eur|euro)s?\b(?:\s*(?:per\s+(?:week|month)|p/?w\b|p/?m\b|pcm))?`),
		regexp.MustCompile(`(?i)\b[\d,]+\s*(?:per\s+month|p/m|pcm|pm)\b`),
	}
)

// IDFromURL достает идентификатор объявления из ссылки: числовой сегмент в конце пути,
// иначе последний сегмент пути. Пустая строка - идентификатор не найден.
func IDFromURL(link string) string {
	link = strings.TrimSpace(link)
	if link == "" {
		return ""
	}
	if m := urlIDRe.FindStringSubmatch(link); m != nil {
		return m[1]
	}

	path := link
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if i := strings.Index(path, "://"); i >= 0 {
		path = path[i+3:]
		slash := strings.Index(path, "/")
		if slash < 0 {
			return ""
		}
		path = path[slash:]
	}
	path = strings.Trim(path, "/")
	if path == "" {
		return ""
	}
	segments := strings.Split(path, "/")
	return segments[len(segments)-1]
}

// PriceText находит в тексте первую фразу с ценой вместе с периодом оплаты,
// чтобы ParsePrice не подхватил посторонние числа (номер дома, почтовый код)
func PriceText(text string) string {
	for _, re := range pricePhrases {
		if m := re.FindString(text); m != "" {
			return m
		}
	}
	return ""
}
