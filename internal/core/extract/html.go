package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// HTMLToText убирает разметку, раскодирует сущности и схлопывает пробелы
func HTMLToText(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return CollapseSpaces(s)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return CollapseSpaces(s)
	}
	// блочные элементы и переносы превращаем в пробелы, иначе слова склеиваются
	doc.Find("br").ReplaceWithHtml(" ")
	doc.Find("p, div, li, tr, h1, h2, h3, h4").AppendHtml(" ")
	doc.Find("script, style").Remove()

	return CollapseSpaces(doc.Text())
}
