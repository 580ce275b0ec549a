package daftfetcher

import (
	"context"
	"find-a-house/internal/adapters/httpfetch"
	"find-a-house/internal/constants"
	"find-a-house/internal/contextkeys"
	"find-a-house/internal/core/domain"
	"find-a-house/internal/core/port"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/gocolly/colly/v2"
)

const defaultMaxPages = 3

type Config struct {
	BaseURL  string
	Delay    time.Duration
	MaxPages int
	Criteria domain.SearchCriteria
}

// DaftFetcherAdapter отвечает за все взаимодействия с daft.ie
type DaftFetcherAdapter struct {
	// один родительский коллектор, который разделяет лимиты
	collector *colly.Collector
	baseURL   string
	maxPages  int
	criteria  domain.SearchCriteria
}

// NewDaftFetcherAdapter - конструктор
func NewDaftFetcherAdapter(cfg Config) (*DaftFetcherAdapter, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = constants.DaftBaseURL
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = defaultMaxPages
	}

	c, err := httpfetch.NewCollector(httpfetch.Config{BaseURL: cfg.BaseURL, Delay: cfg.Delay})
	if err != nil {
		return nil, fmt.Errorf("daft adapter: %w", err)
	}

	return &DaftFetcherAdapter{
		collector: c,
		baseURL:   cfg.BaseURL,
		maxPages:  cfg.MaxPages,
		criteria:  cfg.Criteria,
	}, nil
}

func (a *DaftFetcherAdapter) Name() string {
	return constants.SourceDaft
}

// FetchListings обходит страницы поиска по порядку.
// Пустая страница завершает обход, ошибка страницы обрывает пагинацию,
// но уже собранные объявления возвращаются.
func (a *DaftFetcherAdapter) FetchListings(ctx context.Context) ([]domain.Listing, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"adapter": "DaftFetcher"})

	var listings []domain.Listing
	for page := 1; page <= a.maxPages; page++ {
		if err := ctx.Err(); err != nil {
			return listings, err
		}

		targetURL, err := a.buildURLFromCriteria(a.criteria.WithPage(page))
		if err != nil {
			return nil, fmt.Errorf("daft adapter: failed to build URL from criteria: %w", err)
		}

		root, err := httpfetch.FetchHTML(ctx, a.collector, targetURL)
		if err != nil {
			if ctx.Err() != nil {
				return listings, ctx.Err()
			}
			logger.Warn("Page fetch failed, pagination stopped", port.Fields{"page": page, "error": err.Error()})
			break
		}

		pageListings, strategy := parseListings(root, a.baseURL)
		logger.Debug("Page parsed", port.Fields{"page": page, "listings": len(pageListings), "strategy": strategy})
		if len(pageListings) == 0 {
			break
		}
		listings = append(listings, pageListings...)
	}

	logger.Info("Fetched listings", port.Fields{"count": len(listings)})
	return listings, nil
}

func (a *DaftFetcherAdapter) buildURLFromCriteria(criteria domain.SearchCriteria) (string, error) {
	u, err := url.Parse(a.baseURL + constants.DaftSearchPath)
	if err != nil {
		return "", err
	}

	q := u.Query()
	if criteria.MinPrice > 0 {
		q.Set("rentalPrice_from", strconv.Itoa(criteria.MinPrice))
	}
	if criteria.MaxPrice > 0 {
		q.Set("rentalPrice_to", strconv.Itoa(criteria.MaxPrice))
	}
	if criteria.HasMinBeds() {
		q.Set("numBeds_from", strconv.Itoa(criteria.MinBeds))
	}
	if criteria.HasMaxBeds() {
		q.Set("numBeds_to", strconv.Itoa(criteria.MaxBeds))
	}
	if criteria.Page > 1 {
		q.Set("page", strconv.Itoa(criteria.Page))
	}

	u.RawQuery = q.Encode()
	return u.String(), nil
}
