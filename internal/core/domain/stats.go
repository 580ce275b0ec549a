package domain

import "time"

// SourceOutcome - итог работы одного источника за цикл
type SourceOutcome struct {
	Source   string
	Count    int
	Err      error
	TimedOut bool
	Duration time.Duration
}

// AggregateStats - статистика одного прохода агрегатора
type AggregateStats struct {
	Configured int
	Succeeded  int
	Failed     int
	TimedOut   int
	Outcomes   []SourceOutcome
}

// CycleReport - итог одного цикла: сбор, дедупликация, фильтр, уведомления
type CycleReport struct {
	RunID      string
	Fetched    int
	New        int
	Matched    int
	Notified   int
	QuietHours bool
	Sources    AggregateStats
	StartedAt  time.Time
	FinishedAt time.Time
}

// ListingStats - счетчики хранилища
type ListingStats struct {
	Total           int `json:"total"`
	Notified        int `json:"notified"`
	Contacted       int `json:"contacted"`
	Active          int `json:"active"`
	Last24h         int `json:"last_24h"`
	NotifiedLast24  int `json:"notified_last_24h"`
	ContactedLast24 int `json:"contacted_last_24h"`
}
