package klogging

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/xinkaiwang/solvercore/kerror"
)

// LogrusLogger implements klogging.Logger, under the hood it's using logrus to do formatting and output.
type LogrusLogger struct {
	ctx             context.Context
	RusLogger       *logrus.Logger
	logLevel        Level
	logFormat       LogFormat
	metricsReporter LoggerMetricsReporter
}

const (
	// TimestampFormat: ms resolution, with timezone, sorting friendly.
	TimestampFormat = "2006-01-02T15:04:05.999Z07:00"
)

// LoggerMetricsReporter gets a callback for every entry at debug level or above, logged or not.
type LoggerMetricsReporter interface {
	ReportLogEvent(ctx context.Context, logLevel, eventType string, isLogged bool)
}

func NewLogrusLogger(ctx context.Context) *LogrusLogger {
	if ctx == nil {
		ctx = context.Background()
	}
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{
		DisableColors:   true,
		TimestampFormat: TimestampFormat,
		FullTimestamp:   true,
	})
	// level threshold is evaluated in the LogrusLogger layer, RusLogger blindly accepts everything.
	log.SetLevel(logrus.TraceLevel)
	return &LogrusLogger{
		ctx:       ctx,
		RusLogger: log,
		logLevel:  InfoLevel,
		logFormat: TextFormat,
	}
}

func (logger *LogrusLogger) WithMetricsReporter(reporter LoggerMetricsReporter) *LogrusLogger {
	logger.metricsReporter = reporter
	return logger
}

func (logger *LogrusLogger) WithOutput(out io.Writer) *LogrusLogger {
	logger.RusLogger.SetOutput(out)
	return logger
}

type LogFormat uint32

const (
	TextFormat LogFormat = iota + 1
	JsonFormat
	SimpleFormat
)

func (e LogFormat) String() string {
	switch e {
	case TextFormat:
		return "text"
	case JsonFormat:
		return "json"
	case SimpleFormat:
		return "simple"
	default:
		return fmt.Sprintf("%d", int(e))
	}
}

func ParseLogFormat(str string) (LogFormat, error) {
	switch {
	case strings.EqualFold("text", str):
		return TextFormat, nil
	case strings.EqualFold("json", str):
		return JsonFormat, nil
	case strings.EqualFold("simple", str):
		return SimpleFormat, nil
	}
	return 0, kerror.Create("UnknownLogFormat", "parse log format failed").With("str", str).WithErrorCode(kerror.EC_INVALID_PARAMETER)
}

// SetConfig: level is one of fatal/error/warn/info/debug/verbose, format is one of text/json/simple.
func (logger *LogrusLogger) SetConfig(ctx context.Context, newLevelStr string, newFormatStr string) error {
	newLevel, err := ParseLogLevel(newLevelStr)
	if err != nil {
		return err
	}
	newFormat, err := ParseLogFormat(newFormatStr)
	if err != nil {
		return err
	}
	if logger.logLevel != newLevel {
		Info(ctx).With("oldLogLevel", logger.logLevel).With("newLogLevel", newLevel).Log("UpdateLogLevel", "LogLevel updated")
		logger.logLevel = newLevel
	}
	if logger.logFormat != newFormat {
		switch newFormat {
		case TextFormat:
			logger.RusLogger.SetFormatter(&logrus.TextFormatter{
				DisableColors:   true,
				TimestampFormat: TimestampFormat,
				FullTimestamp:   true,
			})
		case JsonFormat:
			logger.RusLogger.SetFormatter(&logrus.JSONFormatter{
				TimestampFormat: TimestampFormat,
			})
		case SimpleFormat:
			logger.RusLogger.SetFormatter(NewSimpleFormatter())
		}
		logger.logFormat = newFormat
	}
	return nil
}

// Log: when shouldLog=false, we will not write the log message, but we still report metrics.
func (logger *LogrusLogger) Log(entry *LogEntry, shouldLog bool) {
	if logger.metricsReporter != nil && NeedLog(entry.Level, DebugLevel) {
		logger.metricsReporter.ReportLogEvent(logger.ctx, entry.Level.String(), entry.LogType, shouldLog)
	}
	if !shouldLog {
		return
	}
	fields := make(logrus.Fields, len(entry.Details)+1)
	for _, item := range entry.Details {
		fields[item.K] = item.V
	}
	fields["event"] = entry.LogType
	ent := logger.RusLogger.WithFields(fields)
	ent.Time = entry.Timestamp
	ent.Log(kloggingLevel2Logrus(entry.Level), entry.Msg)
}

// kloggingLevel2Logrus: klogging levels are logrus levels shifted by the missing PanicLevel(0)
func kloggingLevel2Logrus(level Level) logrus.Level {
	return logrus.Level(int(level))
}

func (logger *LogrusLogger) Level() Level {
	return logger.logLevel
}
