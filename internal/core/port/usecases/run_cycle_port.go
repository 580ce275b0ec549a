package usecases_port

import (
	"context"
	"find-a-house/internal/core/domain"
)

// RunCyclePort - один полный проход: сбор, дедупликация, фильтрация, уведомления
type RunCyclePort interface {
	Execute(ctx context.Context) (domain.CycleReport, error)
}
