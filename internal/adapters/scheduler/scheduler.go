package scheduler

import (
	"context"
	"find-a-house/internal/contextkeys"
	"find-a-house/internal/core/port"
	usecases_port "find-a-house/internal/core/port/usecases"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// CycleScheduler запускает цикл по расписанию cron и один раз сразу при старте.
// Тик, пришедший во время идущего цикла, пропускается.
type CycleScheduler struct {
	cron   *cron.Cron
	spec   string
	cycle  usecases_port.RunCyclePort
	logger port.LoggerPort

	// running сериализует циклы между немедленным запуском и тиками
	running sync.Mutex
	wg      sync.WaitGroup
}

// NewCycleScheduler создает планировщик с заданным интервалом, не меньше минуты
func NewCycleScheduler(cycle usecases_port.RunCyclePort, interval time.Duration, baseLogger port.LoggerPort) (*CycleScheduler, error) {
	if cycle == nil {
		return nil, fmt.Errorf("scheduler: cycle cannot be nil")
	}
	if interval < time.Minute {
		return nil, fmt.Errorf("scheduler: interval must be at least 1m, got %s", interval)
	}
	logger := baseLogger.WithFields(port.Fields{"component": "CycleScheduler"})
	return &CycleScheduler{
		cron:   cron.New(cron.WithLogger(newCronLogger(logger))),
		spec:   fmt.Sprintf("@every %s", interval),
		cycle:  cycle,
		logger: logger,
	}, nil
}

// Start регистрирует задачу, запускает cron и блокируется до отмены контекста
func (s *CycleScheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.runCycle(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	s.logger.Info("Cron started", port.Fields{"spec": s.spec})

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.runCycle(ctx)
	}()

	<-ctx.Done()
	return nil
}

func (s *CycleScheduler) runCycle(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if !s.running.TryLock() {
		s.logger.Warn("Previous cycle is still running, tick skipped", nil)
		return
	}
	defer s.running.Unlock()

	cycleCtx := contextkeys.ContextWithLogger(ctx, s.logger)
	report, err := s.cycle.Execute(cycleCtx)
	if err != nil {
		s.logger.Error("Cycle failed", err, port.Fields{"run_id": report.RunID})
		return
	}
	s.logger.Info("Cycle complete", port.Fields{
		"run_id":   report.RunID,
		"fetched":  report.Fetched,
		"new":      report.New,
		"matched":  report.Matched,
		"notified": report.Notified,
		"duration": report.FinishedAt.Sub(report.StartedAt).String(),
	})
}

// Close останавливает cron и ждет завершения запущенного цикла
func (s *CycleScheduler) Close() error {
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.wg.Wait()
	s.logger.Info("Cron stopped", nil)
	return nil
}
