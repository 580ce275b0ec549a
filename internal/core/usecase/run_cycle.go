package usecase

import (
	"context"
	"find-a-house/internal/contextkeys"
	"find-a-house/internal/core/domain"
	"find-a-house/internal/core/port"
	usecases_port "find-a-house/internal/core/port/usecases"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// ListingMatcher - то, что нужно циклу от движка фильтрации
type ListingMatcher interface {
	Match(listing domain.Listing) (profile string, ok bool, reason string)
	NiceToHaveScore(listing domain.Listing) int
}

type RunCycleConfig struct {
	QuietHours domain.QuietHours
	// пауза между уведомлениями
	NotifyInterval time.Duration
	Clock          port.Clock
}

type RunCycleUseCase struct {
	sources    []port.ListingSourcePort
	aggregator usecases_port.AggregateListingsPort
	storage    port.ListingStoragePort
	matcher    ListingMatcher
	notifier   port.NotifierPort
	cfg        RunCycleConfig
}

func NewRunCycleUseCase(
	sources []port.ListingSourcePort,
	aggregator usecases_port.AggregateListingsPort,
	storage port.ListingStoragePort,
	matcher ListingMatcher,
	notifier port.NotifierPort,
	cfg RunCycleConfig,
) *RunCycleUseCase {
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	return &RunCycleUseCase{
		sources:    sources,
		aggregator: aggregator,
		storage:    storage,
		matcher:    matcher,
		notifier:   notifier,
		cfg:        cfg,
	}
}

// Execute выполняет один цикл: сбор со всех источников, сохранение новых объявлений,
// фильтрация только новых, ранжирование и уведомления.
// Уже виденные объявления повторно не фильтруются и не отправляются.
func (uc *RunCycleUseCase) Execute(ctx context.Context) (domain.CycleReport, error) {
	runID := uuid.NewString()
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "RunCycle",
		"run_id":   runID,
	})
	ctx = contextkeys.ContextWithLogger(ctx, ucLogger)
	ctx = contextkeys.ContextWithTraceID(ctx, runID)

	report := domain.CycleReport{RunID: runID, StartedAt: uc.cfg.Clock()}
	ucLogger.Info("Cycle started", port.Fields{"sources": len(uc.sources)})

	listings, stats := uc.aggregator.FetchAll(ctx, uc.sources)
	report.Sources = stats
	report.Fetched = len(listings)

	fresh := make([]domain.Listing, 0, len(listings))
	for _, l := range listings {
		isNew, err := uc.storage.Add(ctx, l)
		if err != nil {
			ucLogger.Error("Failed to store listing", err, port.Fields{"listing_id": l.ID})
			continue
		}
		if isNew {
			fresh = append(fresh, l)
		}
	}
	report.New = len(fresh)

	matched := make([]domain.MatchedListing, 0, len(fresh))
	for _, l := range fresh {
		profile, ok, reason := uc.matcher.Match(l)
		if !ok {
			ucLogger.Debug("Listing rejected", port.Fields{"listing_id": l.ID, "reason": reason})
			continue
		}
		matched = append(matched, domain.MatchedListing{
			Listing: l,
			Profile: profile,
			Score:   uc.matcher.NiceToHaveScore(l),
			RunID:   runID,
		})
	}
	// сначала объявления с большим числом желательных удобств
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Score > matched[j].Score
	})
	report.Matched = len(matched)

	if len(matched) > 0 && uc.cfg.QuietHours.Contains(uc.cfg.Clock()) {
		report.QuietHours = true
		ucLogger.Info("Quiet hours, notifications skipped", port.Fields{"matched": len(matched)})
		report.FinishedAt = uc.cfg.Clock()
		return report, nil
	}

	for i, m := range matched {
		if i > 0 && uc.cfg.NotifyInterval > 0 {
			select {
			case <-ctx.Done():
				report.FinishedAt = uc.cfg.Clock()
				return report, fmt.Errorf("run cycle: notifications interrupted: %w", ctx.Err())
			case <-time.After(uc.cfg.NotifyInterval):
			}
		}

		if err := uc.notifier.Notify(ctx, m); err != nil {
			ucLogger.Error("Failed to notify about listing", err, port.Fields{"listing_id": m.Listing.ID})
			continue
		}
		if err := uc.storage.MarkNotified(ctx, m.Listing.ID); err != nil {
			ucLogger.Error("Failed to mark listing as notified", err, port.Fields{"listing_id": m.Listing.ID})
		}
		report.Notified++
	}

	report.FinishedAt = uc.cfg.Clock()
	ucLogger.Info("Cycle finished", port.Fields{
		"fetched":     report.Fetched,
		"new":         report.New,
		"matched":     report.Matched,
		"notified":    report.Notified,
		"duration_ms": report.FinishedAt.Sub(report.StartedAt).Milliseconds(),
	})
	return report, nil
}
