package port

import "time"

// Clock позволяет подменять текущее время в тестах
type Clock func() time.Time
