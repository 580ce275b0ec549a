package rentiefetcher

import (
	"context"
	"find-a-house/internal/adapters/httpfetch"
	"find-a-house/internal/constants"
	"find-a-house/internal/contextkeys"
	"find-a-house/internal/core/domain"
	"find-a-house/internal/core/port"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
)

var (
	slugInvalidRe = regexp.MustCompile(`[^a-z0-9-]`)
	slugDashesRe  = regexp.MustCompile(`-+`)
)

type Config struct {
	FeedURL string
	Delay   time.Duration
	// Areas - районы из поисковых подсказок, по ним строятся ленты
	Areas        []string
	IncludeRooms bool
}

// RentIEFetcherAdapter читает RSS-ленты rent.ie
type RentIEFetcherAdapter struct {
	collector    *colly.Collector
	feedURL      string
	areas        []string
	includeRooms bool
}

func NewRentIEFetcherAdapter(cfg Config) (*RentIEFetcherAdapter, error) {
	if cfg.FeedURL == "" {
		cfg.FeedURL = constants.RentIEFeedURL
	}

	c, err := httpfetch.NewCollector(httpfetch.Config{BaseURL: cfg.FeedURL, Delay: cfg.Delay})
	if err != nil {
		return nil, fmt.Errorf("rent.ie adapter: %w", err)
	}

	return &RentIEFetcherAdapter{
		collector:    c,
		feedURL:      strings.TrimRight(cfg.FeedURL, "/"),
		areas:        cfg.Areas,
		includeRooms: cfg.IncludeRooms,
	}, nil
}

func (a *RentIEFetcherAdapter) Name() string {
	return constants.SourceRentIE
}

// FetchListings читает все ленты по очереди и убирает повторы по URL.
// Ленты - независимые запросы, поэтому ошибка одной ленты не мешает читать остальные.
func (a *RentIEFetcherAdapter) FetchListings(ctx context.Context) ([]domain.Listing, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"adapter": "RentIEFetcher"})

	var listings []domain.Listing
	seenURLs := make(map[string]bool)
	failed := 0

	for _, feedURL := range a.feedURLs() {
		if err := ctx.Err(); err != nil {
			return listings, err
		}

		body, err := httpfetch.FetchBody(ctx, a.collector, feedURL)
		if err != nil {
			if ctx.Err() != nil {
				return listings, ctx.Err()
			}
			failed++
			logger.Warn("Feed fetch failed, skipped", port.Fields{"feed": feedURL, "error": err.Error()})
			continue
		}

		feedListings, err := parseFeed(body)
		if err != nil {
			failed++
			logger.Warn("Feed is not valid RSS, skipped", port.Fields{"feed": feedURL, "error": err.Error()})
			continue
		}

		for _, l := range feedListings {
			if seenURLs[l.URL] {
				continue
			}
			seenURLs[l.URL] = true
			listings = append(listings, l)
		}
		logger.Debug("Feed parsed", port.Fields{"feed": feedURL, "entries": len(feedListings)})
	}

	logger.Info("Fetched listings", port.Fields{"count": len(listings), "failed_feeds": failed})
	return listings, nil
}

// feedURLs строит ленты по районам в порядке конфигурации, общая лента Дублина идет последней
func (a *RentIEFetcherAdapter) feedURLs() []string {
	var urls []string
	seen := make(map[string]bool)
	add := func(u string) {
		if !seen[u] {
			seen[u] = true
			urls = append(urls, u)
		}
	}

	for _, area := range a.areas {
		slug := AreaSlug(area)
		if slug == "" {
			continue
		}
		add(fmt.Sprintf("%s/%s/dublin/%s/", a.feedURL, constants.RentIEHousesPath, slug))
		if a.includeRooms {
			add(fmt.Sprintf("%s/%s/dublin/%s/", a.feedURL, constants.RentIERoomsPath, slug))
		}
	}
	add(fmt.Sprintf("%s/%s/dublin/", a.feedURL, constants.RentIEHousesPath))
	return urls
}

// AreaSlug переводит название района в сегмент URL ленты:
// сначала по таблице известных районов, иначе по общему правилу
func AreaSlug(area string) string {
	key := strings.ToLower(strings.TrimSpace(area))
	if slug, ok := constants.RentIEAreaSlugs[key]; ok {
		return slug
	}
	slug := strings.ReplaceAll(key, " ", "-")
	slug = slugInvalidRe.ReplaceAllString(slug, "")
	slug = slugDashesRe.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// knownAreaNames - названия из таблицы лент, от длинных к коротким,
// чтобы "dublin city centre" проверялся раньше "city centre"
var knownAreaNames = func() []string {
	names := make([]string, 0, len(constants.RentIEAreaSlugs))
	for name := range constants.RentIEAreaSlugs {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})
	return names
}()
