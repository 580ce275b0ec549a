package httpfetch

import (
	"context"
	"find-a-house/internal/contextkeys"
	"find-a-house/internal/core/port"
	"fmt"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
	"github.com/gocolly/colly/v2/extensions"
)

const defaultRequestTimeout = 30 * time.Second

// Config - настройки транспорта одного источника
type Config struct {
	BaseURL string
	// Delay - пауза между запросами к источнику
	Delay          time.Duration
	RequestTimeout time.Duration
}

// NewCollector создает родительский коллектор источника.
// Лимиты хранятся в общем backend и наследуются всеми клонами, поэтому
// пауза между запросами действует на весь адаптер, а не на один запрос.
func NewCollector(cfg Config) (*colly.Collector, error) {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil || u.Hostname() == "" {
		return nil, fmt.Errorf("httpfetch: invalid base URL %q: %v", cfg.BaseURL, err)
	}

	c := colly.NewCollector(colly.AllowedDomains(u.Hostname()), colly.AllowURLRevisit())

	err = c.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: 1,
		Delay:       cfg.Delay,
	})
	if err != nil {
		return nil, fmt.Errorf("httpfetch: failed to set limit rule: %w", err)
	}

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	c.SetRequestTimeout(timeout)

	return c, nil
}

// clone возвращает клон с общими лимитами и собственными обработчиками.
// Обработчики родителя не клонируются, поэтому расширения подключаются здесь.
func clone(ctx context.Context, parent *colly.Collector) *colly.Collector {
	c := parent.Clone()
	c.Context = ctx
	extensions.RandomUserAgent(c)
	extensions.Referer(c)
	c.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil {
			r.Abort()
			return
		}
		contextkeys.LoggerFromContext(ctx).Debug("Making request", port.Fields{"url": r.URL.String()})
	})
	return c
}

// FetchHTML загружает страницу и возвращает корень документа
func FetchHTML(ctx context.Context, parent *colly.Collector, target string) (*goquery.Selection, error) {
	c := clone(ctx, parent)

	var root *goquery.Selection
	var responseErr error

	c.OnHTML("html", func(e *colly.HTMLElement) {
		root = e.DOM
	})
	c.OnError(func(r *colly.Response, err error) {
		responseErr = fmt.Errorf("request to %s failed with status %d: %w", r.Request.URL, r.StatusCode, err)
	})

	if err := c.Visit(target); err != nil {
		return nil, fmt.Errorf("failed to visit %s: %w", target, err)
	}
	c.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if responseErr != nil {
		return nil, responseErr
	}
	if root == nil {
		return nil, fmt.Errorf("response from %s is not an HTML document", target)
	}
	return root, nil
}

// FetchBody загружает документ и возвращает тело ответа как есть (RSS, JSON)
func FetchBody(ctx context.Context, parent *colly.Collector, target string) ([]byte, error) {
	c := clone(ctx, parent)

	var body []byte
	var responseErr error

	c.OnResponse(func(r *colly.Response) {
		body = r.Body
	})
	c.OnError(func(r *colly.Response, err error) {
		responseErr = fmt.Errorf("request to %s failed with status %d: %w", r.Request.URL, r.StatusCode, err)
	})

	if err := c.Visit(target); err != nil {
		return nil, fmt.Errorf("failed to visit %s: %w", target, err)
	}
	c.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if responseErr != nil {
		return nil, responseErr
	}
	return body, nil
}
