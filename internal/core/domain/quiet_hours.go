package domain

import (
	"fmt"
	"time"
)

// QuietHours - окно времени суток, когда уведомления не отправляются.
// Если Start > End, окно переходит через полночь (например 23:00-07:00).
type QuietHours struct {
	Enabled bool
	Start   time.Duration // смещение от полуночи
	End     time.Duration
}

// ParseQuietHours разбирает границы в формате "HH:MM"
func ParseQuietHours(enabled bool, start, end string) (QuietHours, error) {
	if !enabled {
		return QuietHours{}, nil
	}
	s, err := parseClock(start)
	if err != nil {
		return QuietHours{}, fmt.Errorf("quiet hours start: %w", err)
	}
	e, err := parseClock(end)
	if err != nil {
		return QuietHours{}, fmt.Errorf("quiet hours end: %w", err)
	}
	return QuietHours{Enabled: true, Start: s, End: e}, nil
}

func parseClock(value string) (time.Duration, error) {
	t, err := time.Parse("15:04", value)
	if err != nil {
		return 0, fmt.Errorf("invalid clock value %q: %w", value, err)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

// Contains сообщает, попадает ли момент t в тихие часы (границы включительно)
func (q QuietHours) Contains(t time.Time) bool {
	if !q.Enabled {
		return false
	}
	now := time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute
	if q.Start > q.End {
		return now >= q.Start || now <= q.End
	}
	return now >= q.Start && now <= q.End
}
