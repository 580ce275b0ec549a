package httpfetch

import (
	"find-a-house/internal/core/extract"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// ScriptJSON разбирает содержимое всех <script>, подходящих под селектор.
// Битые и пустые блоки пропускаются: разметка источников часто бывает неполной.
func ScriptJSON(root *goquery.Selection, selector string) []interface{} {
	var blocks []interface{}
	root.Find(selector).Each(func(_ int, s *goquery.Selection) {
		raw := strings.TrimSpace(s.Text())
		if raw == "" {
			return
		}
		// встречается присваивание вида "window.__STATE__ = {...};"
		if i := strings.IndexAny(raw, "{["); i > 0 && strings.Contains(raw[:i], "=") {
			raw = strings.TrimSuffix(strings.TrimSpace(raw[i:]), ";")
		}
		data, err := extract.DecodeJSON([]byte(raw))
		if err != nil || data == nil {
			return
		}
		blocks = append(blocks, data)
	})
	return blocks
}

// AbsoluteURL достраивает относительную ссылку до абсолютной относительно baseURL
func AbsoluteURL(baseURL, href string) string {
	href = strings.TrimSpace(href)
	switch {
	case href == "":
		return ""
	case strings.HasPrefix(href, "http://"), strings.HasPrefix(href, "https://"):
		return href
	case strings.HasPrefix(href, "//"):
		return "https:" + href
	case strings.HasPrefix(href, "/"):
		return strings.TrimRight(baseURL, "/") + href
	default:
		return strings.TrimRight(baseURL, "/") + "/" + href
	}
}

// SpacedText собирает текст узлов через пробел.
// Selection.Text склеивает соседние элементы ("month3 Bed"), что ломает поиск по границам слов.
func SpacedText(s *goquery.Selection) string {
	var parts []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
			return
		case html.ElementNode:
			if n.Data == "script" || n.Data == "style" {
				return
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	for _, n := range s.Nodes {
		walk(n)
	}
	return extract.CollapseSpaces(strings.Join(parts, " "))
}

// ImageSrc возвращает адрес первой картинки, учитывая ленивую загрузку через data-src
func ImageSrc(s *goquery.Selection) string {
	img := s.Find("img").First()
	if img.Length() == 0 {
		return ""
	}
	src := strings.TrimSpace(img.AttrOr("src", ""))
	if src == "" || strings.HasPrefix(src, "data:") {
		src = strings.TrimSpace(img.AttrOr("data-src", ""))
	}
	return src
}
