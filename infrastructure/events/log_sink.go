package events

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"imospy/domain/event"
	"imospy/infrastructure/logger"
)

// LogSink writes every event as a structured log line. Failure events are
// logged at warn level.
type LogSink struct{}

func NewLogSink() LogSink { return LogSink{} }

func (LogSink) Emit(_ context.Context, evt event.Event) {
	entry := logger.GetLogger().WithFields(logrus.Fields(evt.Fields)).WithField("event", evt.Name)
	if evt.Platform != "" {
		entry = entry.WithField("platform", evt.Platform)
	}
	if evt.UserID != "" {
		entry = entry.WithField("user_id", evt.UserID)
	}
	if isFailure(evt.Name) {
		entry.Warn(evt.Name)
		return
	}
	entry.Info(evt.Name)
}

func isFailure(name string) bool {
	return strings.HasSuffix(name, "failed") || strings.HasSuffix(name, "unparseable") || strings.Contains(name, "skipped")
}
