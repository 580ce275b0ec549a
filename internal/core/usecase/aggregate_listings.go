package usecase

import (
	"context"
	"errors"
	"find-a-house/internal/contextkeys"
	"find-a-house/internal/core/domain"
	"find-a-house/internal/core/port"
	"fmt"
	"time"
)

// DefaultSourceTimeout - сколько агрегатор ждет один источник
const DefaultSourceTimeout = 120 * time.Second

var errSourceTimeout = errors.New("source timed out")

type AggregateListingsUseCase struct {
	timeout time.Duration
}

func NewAggregateListingsUseCase(timeout time.Duration) *AggregateListingsUseCase {
	if timeout <= 0 {
		timeout = DefaultSourceTimeout
	}
	return &AggregateListingsUseCase{timeout: timeout}
}

// sourceResult - слот результата одного источника
type sourceResult struct {
	listings []domain.Listing
	err      error
	duration time.Duration
}

// FetchAll опрашивает все источники параллельно, по горутине на источник.
// Ошибка, паника или таймаут источника дают пустой вклад и не влияют на остальные.
// Результаты объединяются в порядке конфигурации источников.
func (uc *AggregateListingsUseCase) FetchAll(ctx context.Context, sources []port.ListingSourcePort) ([]domain.Listing, domain.AggregateStats) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "AggregateListings",
	})

	stats := domain.AggregateStats{Configured: len(sources)}
	if len(sources) == 0 {
		ucLogger.Warn("No listing sources enabled, nothing to fetch", nil)
		return nil, stats
	}

	type task struct {
		name   string
		slot   chan sourceResult
		ctx    context.Context
		cancel context.CancelFunc
		logger port.LoggerPort
	}

	tasks := make([]task, 0, len(sources))
	for _, src := range sources {
		name := src.Name()
		taskLogger := ucLogger.WithFields(port.Fields{"source": name})
		taskCtx, cancel := context.WithTimeout(ctx, uc.timeout)
		taskCtx = contextkeys.ContextWithLogger(taskCtx, taskLogger)

		// буфер на один элемент: опоздавший источник сможет записать результат и завершиться,
		// даже если его уже никто не ждет
		t := task{name: name, slot: make(chan sourceResult, 1), ctx: taskCtx, cancel: cancel, logger: taskLogger}
		tasks = append(tasks, t)

		taskLogger.Debug("Starting source", nil)
		go runSource(taskCtx, src, t.slot)
	}

	var merged []domain.Listing
	for _, t := range tasks {
		res := waitForSource(ctx, t.ctx, t.slot)
		t.cancel()

		outcome := domain.SourceOutcome{Source: t.name, Duration: res.duration, Err: res.err}
		switch {
		case errors.Is(res.err, errSourceTimeout), errors.Is(res.err, context.DeadlineExceeded) && ctx.Err() == nil:
			outcome.TimedOut = true
			stats.TimedOut++
			t.logger.Error("Source timed out, contribution discarded", res.err, port.Fields{"timeout": uc.timeout.String()})
		case res.err != nil:
			stats.Failed++
			t.logger.Error("Source failed, contribution discarded", res.err, nil)
		default:
			stats.Succeeded++
			outcome.Count = len(res.listings)
			merged = append(merged, res.listings...)
			t.logger.Info("Source finished", port.Fields{
				"listings":    len(res.listings),
				"duration_ms": res.duration.Milliseconds(),
			})
		}
		stats.Outcomes = append(stats.Outcomes, outcome)
	}

	ucLogger.Info("All sources completed", port.Fields{
		"configured": stats.Configured,
		"succeeded":  stats.Succeeded,
		"failed":     stats.Failed,
		"timed_out":  stats.TimedOut,
		"listings":   len(merged),
	})
	return merged, stats
}

// waitForSource ждет результат источника или истечение его дедлайна
func waitForSource(parent, taskCtx context.Context, slot <-chan sourceResult) sourceResult {
	select {
	case res := <-slot:
		return res
	case <-taskCtx.Done():
		// результат мог прийти одновременно с дедлайном
		select {
		case res := <-slot:
			return res
		default:
		}
		if parent.Err() != nil {
			return sourceResult{err: fmt.Errorf("aggregation cancelled: %w", parent.Err())}
		}
		return sourceResult{err: errSourceTimeout}
	}
}

func runSource(ctx context.Context, src port.ListingSourcePort, slot chan<- sourceResult) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			slot <- sourceResult{err: fmt.Errorf("source panicked: %v", r), duration: time.Since(start)}
		}
	}()

	listings, err := src.FetchListings(ctx)
	slot <- sourceResult{listings: listings, err: err, duration: time.Since(start)}
}
