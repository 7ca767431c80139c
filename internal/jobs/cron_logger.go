package jobs

import (
	"log/slog"

	"github.com/robfig/cron/v3"
)

// cronLogger routes the scheduler's own messages to slog.
type cronLogger struct {
	logger *slog.Logger
}

var _ cron.Logger = cronLogger{}

func newCronLogger(logger *slog.Logger) cronLogger {
	return cronLogger{logger: logger}
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append(keysAndValues, "error", err)...)
}

func newCron(logger *slog.Logger) *cron.Cron {
	return cron.New(
		cron.WithSeconds(),
		cron.WithLogger(newCronLogger(logger)),
		cron.WithChain(cron.Recover(newCronLogger(logger))),
	)
}
