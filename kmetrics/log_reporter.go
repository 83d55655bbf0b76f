package kmetrics

import (
	"context"
	"strconv"
)

var (
	LogEventMetric = CreateKmetric(context.Background(), "log_event", "log entries at debug level or above", []string{"level", "event", "logged"}).CountOnly()
)

// LogMetricsReporter implements klogging.LoggerMetricsReporter.
type LogMetricsReporter struct {
}

func NewLogMetricsReporter() *LogMetricsReporter {
	return &LogMetricsReporter{}
}

func (r *LogMetricsReporter) ReportLogEvent(ctx context.Context, logLevel, eventType string, isLogged bool) {
	LogEventMetric.GetTimeSequence(ctx, logLevel, eventType, strconv.FormatBool(isLogged)).Add(1)
}
