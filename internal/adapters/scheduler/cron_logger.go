package scheduler

import (
	"find-a-house/internal/core/port"

	"github.com/robfig/cron/v3"
)

// cronLogger направляет внутренние сообщения cron в LoggerPort
type cronLogger struct {
	logger port.LoggerPort
}

var _ cron.Logger = (*cronLogger)(nil)

func newCronLogger(logger port.LoggerPort) *cronLogger {
	return &cronLogger{logger: logger}
}

func keysToFields(keysAndValues []interface{}) port.Fields {
	fields := make(port.Fields, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		if key, ok := keysAndValues[i].(string); ok {
			fields[key] = keysAndValues[i+1]
		}
	}
	return fields
}

func (l *cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug("cron: "+msg, keysToFields(keysAndValues))
}

func (l *cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("cron: "+msg, err, keysToFields(keysAndValues))
}
