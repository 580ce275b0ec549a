package rentiefetcher

import (
	"bytes"
	"encoding/xml"
	"find-a-house/internal/adapters/httpfetch"
	"find-a-house/internal/constants"
	"find-a-house/internal/core/domain"
	"find-a-house/internal/core/extract"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/xmlquery"
	"golang.org/x/net/html/charset"
)

var cityCentreRe = regexp.MustCompile(`(?i)\bdublin\s+city\s+centre\b`)

// ленты бывают с HTML-сущностями и необъявленными префиксами (media:), поэтому разбор нестрогий
var feedParserOptions = xmlquery.ParserOptions{
	Decoder: &xmlquery.DecoderOptions{
		Strict:        false,
		Entity:        xml.HTMLEntity,
		CharsetReader: charset.NewReaderLabel,
	},
}

var propertyTypeWords = []struct {
	words []string
	kind  string
}{
	{[]string{"studio"}, "studio"},
	{[]string{"apartment", "apt"}, "apartment"},
	{[]string{"house"}, "house"},
	{[]string{"flat"}, "flat"},
	{[]string{"duplex"}, "duplex"},
	{[]string{"room"}, "room"},
}

var dateLayouts = []string{time.RFC1123Z, time.RFC1123, time.RFC3339, "Mon, 2 Jan 2006 15:04:05 -0700"}

// parseFeed разбирает RSS и возвращает объявления в порядке ленты.
// Записи без ссылки или идентификатора пропускаются.
func parseFeed(body []byte) ([]domain.Listing, error) {
	doc, err := xmlquery.ParseWithOptions(bytes.NewReader(body), feedParserOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}
	if xmlquery.FindOne(doc, "//channel") == nil {
		return nil, fmt.Errorf("document has no RSS channel")
	}

	var listings []domain.Listing
	for _, item := range xmlquery.Find(doc, "//item") {
		if l, ok := mapItem(item); ok {
			listings = append(listings, l)
		}
	}
	return listings, nil
}

func mapItem(item *xmlquery.Node) (domain.Listing, bool) {
	link := strings.TrimSpace(childText(item, "link"))
	if link == "" {
		return domain.Listing{}, false
	}
	nativeID := entryID(childText(item, "guid"), link)
	if nativeID == "" {
		return domain.Listing{}, false
	}

	title := extract.CollapseSpaces(childText(item, "title"))
	summaryHTML := childText(item, "description")
	if summaryHTML == "" {
		summaryHTML = namespacedText(item, "encoded")
	}
	summary := extract.HTMLToText(summaryHTML)
	text := title + " " + summary

	return domain.Listing{
		ID:           domain.GenerateID(constants.SourceRentIE, nativeID),
		Source:       constants.SourceRentIE,
		Title:        title,
		Price:        extract.ParsePrice(extract.PriceText(text)),
		Bedrooms:     extract.Bedrooms(text),
		Bathrooms:    domain.DefaultBathrooms,
		PropertyType: propertyType(text),
		Area:         itemArea(item, title),
		Address:      title,
		URL:          link,
		ImageURL:     itemImage(item, summaryHTML),
		Description:  summary,
		PostedAt:     parsePubDate(childText(item, "pubDate")),
	}, true
}

// entryID берет идентификатор из guid, а если guid нет - из ссылки
func entryID(guid, link string) string {
	guid = strings.TrimSpace(guid)
	if guid != "" {
		if strings.HasPrefix(guid, "http") {
			return extract.IDFromURL(guid)
		}
		return guid
	}
	return extract.IDFromURL(link)
}

// itemArea: категория с "Dublin", затем почтовый код или район в заголовке
func itemArea(item *xmlquery.Node, title string) string {
	for _, category := range children(item, "category") {
		term := strings.TrimSpace(category.InnerText())
		if strings.Contains(strings.ToLower(term), "dublin") {
			return extract.NormalizeArea(term)
		}
	}
	if cityCentreRe.MatchString(title) {
		return "Dublin City Centre"
	}
	if area := extract.AreaFromAddress(title); area != extract.DefaultArea {
		return area
	}
	for _, name := range knownAreaNames {
		if extract.ContainsWord(title, name) {
			return extract.NormalizeArea(name)
		}
	}
	return extract.DefaultArea
}

func propertyType(text string) string {
	for _, candidate := range propertyTypeWords {
		for _, word := range candidate.words {
			if extract.ContainsWord(text, word) {
				return candidate.kind
			}
		}
	}
	return ""
}

// itemImage: media:content, media:thumbnail, вложение-картинка, затем первый <img> в описании
func itemImage(item *xmlquery.Node, summaryHTML string) string {
	for _, name := range []string{"content", "thumbnail"} {
		for _, media := range namespacedChildren(item, name) {
			if u := strings.TrimSpace(media.SelectAttr("url")); u != "" {
				return u
			}
		}
	}
	for _, enclosure := range children(item, "enclosure") {
		if strings.HasPrefix(enclosure.SelectAttr("type"), "image/") {
			if u := strings.TrimSpace(enclosure.SelectAttr("url")); u != "" {
				return u
			}
		}
	}
	if summaryHTML == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(summaryHTML))
	if err != nil {
		return ""
	}
	return httpfetch.ImageSrc(doc.Selection)
}

func parsePubDate(value string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

// children - дочерние элементы без пространства имен
func children(n *xmlquery.Node, name string) []*xmlquery.Node {
	var out []*xmlquery.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode && c.Data == name && c.NamespaceURI == "" {
			out = append(out, c)
		}
	}
	return out
}

func childText(n *xmlquery.Node, name string) string {
	if found := children(n, name); len(found) > 0 {
		return found[0].InnerText()
	}
	return ""
}

// namespacedChildren - дочерние элементы с префиксом (media:content, content:encoded)
func namespacedChildren(n *xmlquery.Node, name string) []*xmlquery.Node {
	var out []*xmlquery.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode && c.Data == name && c.NamespaceURI != "" {
			out = append(out, c)
		}
	}
	return out
}

func namespacedText(n *xmlquery.Node, name string) string {
	if found := namespacedChildren(n, name); len(found) > 0 {
		return found[0].InnerText()
	}
	return ""
}
