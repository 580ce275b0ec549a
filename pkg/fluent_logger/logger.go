package fluentlogger

import (
	"fmt"
	"time"

	"github.com/fluent/fluent-logger-golang/fluent"
)

const defaultTimeout = 3 * time.Second

// Config - подключение к Fluent Bit
type Config struct {
	Host      string
	Port      int
	TagPrefix string // общий префикс тегов сервиса
	// Async: записи буферизуются и отправляются в фоне, недоступный Fluent Bit не тормозит цикл
	Async bool
}

func (c Config) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("fluent bit host is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("fluent bit port %d is out of range", c.Port)
	}
	if c.TagPrefix == "" {
		return fmt.Errorf("fluent bit tag prefix is required")
	}
	return nil
}

// NewClient создает клиента Fluent Bit. Соединение не проверяется:
// ошибки появятся при первой отправке записи.
func NewClient(cfg Config) (*fluent.Fluent, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client, err := fluent.New(fluent.Config{
		FluentHost:   cfg.Host,
		FluentPort:   cfg.Port,
		TagPrefix:    cfg.TagPrefix,
		Timeout:      defaultTimeout,
		WriteTimeout: defaultTimeout,
		Async:        cfg.Async,
		MaxRetry:     3,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create fluent bit client: %w", err)
	}
	return client, nil
}
