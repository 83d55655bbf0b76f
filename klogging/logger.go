package klogging

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/xinkaiwang/solvercore/kerror"
)

type Level uint32

const (
	FatalLevel Level = iota + 1
	ErrorLevel
	WarnLevel
	InfoLevel
	DebugLevel
	VerboseLevel
)

func (e Level) String() string {
	switch e {
	case FatalLevel:
		return "fatal"
	case ErrorLevel:
		return "error"
	case WarnLevel:
		return "warn"
	case InfoLevel:
		return "info"
	case DebugLevel:
		return "debug"
	case VerboseLevel:
		return "verbose"
	default:
		return fmt.Sprintf("%d", int(e))
	}
}

func ParseLogLevel(str string) (Level, error) {
	switch {
	case strings.EqualFold("fatal", str):
		return FatalLevel, nil
	case strings.EqualFold("error", str) || strings.EqualFold("err", str):
		return ErrorLevel, nil
	case strings.EqualFold("warning", str) || strings.EqualFold("warn", str):
		return WarnLevel, nil
	case strings.EqualFold("information", str) || strings.EqualFold("info", str):
		return InfoLevel, nil
	case strings.EqualFold("debug", str):
		return DebugLevel, nil
	case strings.EqualFold("verbose", str) || strings.EqualFold("trace", str):
		return VerboseLevel, nil
	}
	return 0, kerror.Create("UnknownLogLevel", "parse log level failed").With("str", str).WithErrorCode(kerror.EC_INVALID_PARAMETER)
}

func NeedLog(importance Level, threshold Level) bool {
	return int(importance) <= int(threshold)
}

type Logger interface {
	Log(entry *LogEntry, shouldLog bool)
	Level() Level
}

type loggerHolder struct {
	logger Logger
}

var currentLogger atomic.Value

func GetLogger() Logger {
	if holder, ok := currentLogger.Load().(*loggerHolder); ok {
		return holder.logger
	}
	logger := &BasicLogger{LogLevel: InfoLevel}
	currentLogger.Store(&loggerHolder{logger})
	return logger
}

func SetDefaultLogger(logger Logger) {
	currentLogger.Store(&loggerHolder{logger})
}

// RunWithLogger swaps the default logger for the duration of fn. Test only.
func RunWithLogger(logger Logger, fn func()) {
	old := GetLogger()
	SetDefaultLogger(logger)
	defer SetDefaultLogger(old)
	fn()
}

type Keypair struct {
	K string
	V interface{}
}

type LogEntry struct {
	Logger    Logger
	Level     Level
	ShouldLog bool
	LogType   string
	Msg       string
	Details   []Keypair
	Ctx       context.Context
	Timestamp time.Time
}

func NewEntry(ctx context.Context, level Level) *LogEntry {
	logger := GetLogger()
	entry := &LogEntry{
		Logger:    logger,
		Level:     level,
		ShouldLog: NeedLog(level, logger.Level()),
		Ctx:       ctx,
		Timestamp: time.Now(),
	}
	if entry.ShouldLog {
		GetCurrentCtxInfo(ctx).VisitForward(func(k, v string) {
			entry.Details = append(entry.Details, Keypair{k, v})
		})
	}
	return entry
}

func (entry *LogEntry) With(k string, v interface{}) *LogEntry {
	if entry.ShouldLog {
		entry.Details = append(entry.Details, Keypair{k, v})
	}
	return entry
}

func (entry *LogEntry) WithError(err error) *LogEntry {
	if !entry.ShouldLog || err == nil {
		return entry
	}
	if ke, ok := err.(*kerror.Kerror); ok {
		for _, item := range ke.Details {
			entry.Details = append(entry.Details, Keypair{item.K, item.V})
		}
		entry.Details = append(entry.Details, Keypair{"errorType", ke.Type}, Keypair{"errorCode", ke.ErrorCode.String()}, Keypair{"errorMsg", ke.Msg})
		if ke.Stack != "" {
			entry.Details = append(entry.Details, Keypair{"stack", ke.Stack})
		}
		if ke.CausedBy != nil {
			entry.Details = append(entry.Details, Keypair{"causedBy", ke.CausedByString()})
		}
	} else {
		entry.Details = append(entry.Details, Keypair{"error", err.Error()})
	}
	return entry
}

func (entry *LogEntry) WithPanic(r interface{}) *LogEntry {
	if err, ok := r.(error); ok {
		entry.WithError(err)
	} else {
		entry.With("panic", r)
	}
	return entry.With("stack", kerror.GetCallStack(1))
}

func (entry *LogEntry) Log(logType, msg string) {
	entry.LogType = logType
	entry.Msg = msg
	entry.Logger.Log(entry, entry.ShouldLog)
	if entry.Level == FatalLevel {
		OsExit(1)
	}
}

// GetDetail returns the last value recorded under key.
func (entry *LogEntry) GetDetail(key string) (interface{}, bool) {
	for i := len(entry.Details) - 1; i >= 0; i-- {
		if entry.Details[i].K == key {
			return entry.Details[i].V, true
		}
	}
	return nil, false
}

func (entry *LogEntry) String() string {
	var b strings.Builder
	b.Grow(256)
	fmt.Fprintf(&b, "level=%v, event=%s, msg=%s", entry.Level.String(), entry.LogType, entry.Msg)
	for _, item := range entry.Details {
		fmt.Fprintf(&b, ", %s=%v", item.K, item.V)
	}
	return b.String()
}

func Fatal(ctx context.Context) *LogEntry {
	return NewEntry(ctx, FatalLevel)
}
func Error(ctx context.Context) *LogEntry {
	return NewEntry(ctx, ErrorLevel)
}
func Warning(ctx context.Context) *LogEntry {
	return NewEntry(ctx, WarnLevel)
}
func Info(ctx context.Context) *LogEntry {
	return NewEntry(ctx, InfoLevel)
}
func Debug(ctx context.Context) *LogEntry {
	return NewEntry(ctx, DebugLevel)
}
func Verbose(ctx context.Context) *LogEntry {
	return NewEntry(ctx, VerboseLevel)
}

/********************************* BasicLogger ************************************/

// BasicLogger prints one line per entry to stdout.
type BasicLogger struct {
	LogLevel Level
}

func (bl *BasicLogger) Log(entry *LogEntry, shouldLog bool) {
	if shouldLog {
		fmt.Println(entry.String())
	}
}

func (bl *BasicLogger) Level() Level {
	return bl.LogLevel
}

/********************************* NullLogger ************************************/

// NullLogger discards all log entries
type NullLogger struct{}

func NewNullLogger() Logger {
	return &NullLogger{}
}

func (nl *NullLogger) Log(entry *LogEntry, shouldLog bool) {}

func (nl *NullLogger) Level() Level {
	return ErrorLevel
}

/********************************* CapturingLogger ************************************/

// CapturingLogger keeps every logged entry in memory, tests use it to assert on solver events.
type CapturingLogger struct {
	LogLevel Level

	mu      sync.Mutex
	entries []*LogEntry
}

func NewCapturingLogger(level Level) *CapturingLogger {
	return &CapturingLogger{LogLevel: level}
}

func (cl *CapturingLogger) Log(entry *LogEntry, shouldLog bool) {
	if !shouldLog {
		return
	}
	cl.mu.Lock()
	defer cl.mu.Unlock()
	cl.entries = append(cl.entries, entry)
}

func (cl *CapturingLogger) Level() Level {
	return cl.LogLevel
}

// FindByType returns all captured entries with the given event type, in logging order.
func (cl *CapturingLogger) FindByType(logType string) []*LogEntry {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	var list []*LogEntry
	for _, entry := range cl.entries {
		if entry.LogType == logType {
			list = append(list, entry)
		}
	}
	return list
}

func (cl *CapturingLogger) Count() int {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	return len(cl.entries)
}
