package notifier

import (
	"find-a-house/internal/core/domain"
	"fmt"
	"strings"
)

// FormatTitle - короткий заголовок уведомления, например "€1800/mo - 2 bed"
func FormatTitle(l domain.Listing) string {
	return fmt.Sprintf("€%d/mo - %s bed", l.Price, l.BedroomsLabel())
}

// FormatMessage - текст уведомления с основными полями и ссылкой
func FormatMessage(m domain.MatchedListing) string {
	l := m.Listing
	title := l.Title
	if title == "" {
		title = "New listing"
	}
	area := l.Area
	if area == "" {
		area = "Dublin"
	}

	lines := []string{
		title,
		"",
		"Area: " + area,
		fmt.Sprintf("Beds: %s | Baths: %d", l.BedroomsLabel(), l.Bathrooms),
		fmt.Sprintf("Price: €%d/month", l.Price),
		"Source: " + l.Source,
	}
	if m.Profile != "" {
		lines = append(lines, fmt.Sprintf("Profile: %s (score %d)", m.Profile, m.Score))
	}
	lines = append(lines, "", l.URL)
	return strings.Join(lines, "\n")
}
