package myhomefetcher

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

// MyHomeFetcherAdapter отвечает за все взаимодействия с myhome.ie
type MyHomeFetcherAdapter struct {
	collector *colly.Collector
	baseURL   string
	maxPages  int
	criteria  domain.SearchCriteria
}

func NewMyHomeFetcherAdapter(cfg Config) (*MyHomeFetcherAdapter, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = constants.MyHomeBaseURL
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = defaultMaxPages
	}

	c, err := httpfetch.NewCollector(httpfetch.Config{BaseURL: cfg.BaseURL, Delay: cfg.Delay})
	if err != nil {
		return nil, fmt.Errorf("myhome adapter: %w", err)
	}

	return &MyHomeFetcherAdapter{
		collector: c,
		baseURL:   cfg.BaseURL,
		maxPages:  cfg.MaxPages,
		criteria:  cfg.Criteria,
	}, nil
}

func (a *MyHomeFetcherAdapter) Name() string {
	return constants.SourceMyHome
}

// FetchListings обходит страницы выдачи до пустой страницы, ошибки или лимита страниц
func (a *MyHomeFetcherAdapter) FetchListings(ctx context.Context) ([]domain.Listing, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"adapter": "MyHomeFetcher"})

	var listings []domain.Listing
	seen := make(map[string]bool)
	for page := 1; page <= a.maxPages; page++ {
		if err := ctx.Err(); err != nil {
			return listings, err
		}

		targetURL, err := a.buildURLFromCriteria(a.criteria.WithPage(page))
		if err != nil {
			return nil, fmt.Errorf("myhome adapter: failed to build URL from criteria: %w", err)
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

		added := 0
		for _, l := range pageListings {
			// продвигаемые объявления повторяются на каждой странице
			if seen[l.ID] {
				continue
			}
			seen[l.ID] = true
			listings = append(listings, l)
			added++
		}
		if added == 0 {
			break
		}
	}

	logger.Info("Fetched listings", port.Fields{"count": len(listings)})
	return listings, nil
}

func (a *MyHomeFetcherAdapter) buildURLFromCriteria(criteria domain.SearchCriteria) (string, error) {
	u, err := url.Parse(a.baseURL + constants.MyHomeSearchPath)
	if err != nil {
		return "", err
	}

	q := u.Query()
	if criteria.MinPrice > 0 {
		q.Set("minprice", strconv.Itoa(criteria.MinPrice))
	}
	if criteria.MaxPrice > 0 {
		q.Set("maxprice", strconv.Itoa(criteria.MaxPrice))
	}
	if criteria.HasMinBeds() {
		q.Set("minbeds", strconv.Itoa(criteria.MinBeds))
	}
	if criteria.HasMaxBeds() {
		q.Set("maxbeds", strconv.Itoa(criteria.MaxBeds))
	}
	if criteria.Page > 1 {
		q.Set("page", strconv.Itoa(criteria.Page))
	}

	u.RawQuery = q.Encode()
	return u.String(), nil
}
