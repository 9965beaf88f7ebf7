package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Logger interface defines the common logging methods.
// It is implemented by both the stdout JSON logger and the OTLP logger.
type Logger interface {
	WithService(serviceName string) *slog.Logger
	WithComponent(componentName string) *slog.Logger
	WithRunID(runID string) *slog.Logger
	WithPair(symbol1, symbol2 string) *slog.Logger
	WithError(err error) *slog.Logger
	LogStartup(serviceName string, version string, environment string)
	LogShutdown(serviceName string, reason string)
	LogCacheOperation(operation string, key string, hit bool, duration int64)
	LogDatabaseOperation(operation string, table string, duration int64, rowsAffected int64)
	LogRunSummary(runID string, details map[string]interface{})
	Logger() *slog.Logger
}

// StandardLogger provides a standardized logging interface
type StandardLogger struct {
	logger Logger
}

// NewStandardLogger creates a JSON logger writing to stdout.
func NewStandardLogger(logLevel string, environment string) *StandardLogger {
	return newStandardLogger(os.Stdout, logLevel, environment)
}

func newStandardLogger(w io.Writer, logLevel string, environment string) *StandardLogger {
	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: getSlogLevel(logLevel),
	}))
	if environment != "" {
		logger = logger.With("environment", environment)
	}
	return &StandardLogger{logger: &slogLogger{logger: logger}}
}

// NewStandardOTLPLogger creates a standardized logger with OTLP export. If
// the exporter cannot be set up the stdout logger is returned alongside the
// error so callers can keep running.
func NewStandardOTLPLogger(config OTLPConfig) (*StandardLogger, *OTLPLogger, error) {
	otlpLogger, err := NewOTLPLogger(config)
	if err != nil {
		return NewStandardLogger(config.LogLevel, config.Environment), nil, err
	}
	return &StandardLogger{logger: &slogLogger{logger: otlpLogger.Logger()}}, otlpLogger, nil
}

// SetLogger sets the underlying logger implementation
func (l *StandardLogger) SetLogger(logger Logger) {
	l.logger = logger
}

// WithService creates a logger with service context
func (l *StandardLogger) WithService(serviceName string) *slog.Logger {
	return l.logger.WithService(serviceName)
}

// WithComponent creates a logger with component context
func (l *StandardLogger) WithComponent(componentName string) *slog.Logger {
	return l.logger.WithComponent(componentName)
}

// WithRunID creates a logger scoped to one discovery run
func (l *StandardLogger) WithRunID(runID string) *slog.Logger {
	return l.logger.WithRunID(runID)
}

// WithPair creates a logger with pair context
func (l *StandardLogger) WithPair(symbol1, symbol2 string) *slog.Logger {
	return l.logger.WithPair(symbol1, symbol2)
}

// WithError creates a logger with error context
func (l *StandardLogger) WithError(err error) *slog.Logger {
	return l.logger.WithError(err)
}

// LogStartup logs application startup information
func (l *StandardLogger) LogStartup(serviceName string, version string, environment string) {
	l.logger.LogStartup(serviceName, version, environment)
}

// LogShutdown logs application shutdown information
func (l *StandardLogger) LogShutdown(serviceName string, reason string) {
	l.logger.LogShutdown(serviceName, reason)
}

// LogCacheOperation logs cache operations in a standardized format
func (l *StandardLogger) LogCacheOperation(operation string, key string, hit bool, duration int64) {
	l.logger.LogCacheOperation(operation, key, hit, duration)
}

// LogDatabaseOperation logs database operations in a standardized format
func (l *StandardLogger) LogDatabaseOperation(operation string, table string, duration int64, rowsAffected int64) {
	l.logger.LogDatabaseOperation(operation, table, duration, rowsAffected)
}

// LogRunSummary logs the outcome of a discovery run
func (l *StandardLogger) LogRunSummary(runID string, details map[string]interface{}) {
	l.logger.LogRunSummary(runID, details)
}

// Logger returns the underlying *slog.Logger
func (l *StandardLogger) Logger() *slog.Logger {
	return l.logger.Logger()
}

// NewLogrusLogger creates the JSON logrus logger used by the services.
func NewLogrusLogger(level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(ParseLogrusLevel(level))
	return logger
}

// getSlogLevel converts string level to slog.Level
func getSlogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ParseLogrusLevel converts string level to logrus.Level
func ParseLogrusLevel(level string) logrus.Level {
	switch strings.ToLower(level) {
	case "debug":
		return logrus.DebugLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

// slogLogger implements Logger on top of any slog handler.
type slogLogger struct {
	logger *slog.Logger
}

func (s *slogLogger) WithService(serviceName string) *slog.Logger {
	return s.logger.With("service", serviceName)
}

func (s *slogLogger) WithComponent(componentName string) *slog.Logger {
	return s.logger.With("component", componentName)
}

func (s *slogLogger) WithRunID(runID string) *slog.Logger {
	return s.logger.With("run_id", runID)
}

func (s *slogLogger) WithPair(symbol1, symbol2 string) *slog.Logger {
	return s.logger.With("symbol1", symbol1, "symbol2", symbol2)
}

func (s *slogLogger) WithError(err error) *slog.Logger {
	if err == nil {
		return s.logger
	}
	return s.logger.With("error", err.Error())
}

func (s *slogLogger) LogStartup(serviceName string, version string, environment string) {
	s.logger.Info("Application startup",
		"service", serviceName,
		"version", version,
		"environment", environment,
		"event", "startup",
	)
}

func (s *slogLogger) LogShutdown(serviceName string, reason string) {
	s.logger.Info("Application shutdown",
		"service", serviceName,
		"reason", reason,
		"event", "shutdown",
	)
}

func (s *slogLogger) LogCacheOperation(operation string, key string, hit bool, duration int64) {
	s.logger.Debug("Cache operation",
		"operation", operation,
		"key", key,
		"hit", hit,
		"duration_ms", duration,
		"event", "cache",
	)
}

func (s *slogLogger) LogDatabaseOperation(operation string, table string, duration int64, rowsAffected int64) {
	s.logger.Debug("Database operation",
		"operation", operation,
		"table", table,
		"duration_ms", duration,
		"rows_affected", rowsAffected,
		"event", "database",
	)
}

func (s *slogLogger) LogRunSummary(runID string, details map[string]interface{}) {
	fields := []interface{}{
		"event", "run_summary",
		"run_id", runID,
	}
	for k, v := range details {
		fields = append(fields, k, v)
	}
	s.logger.Info("Pair discovery finished", fields...)
}

func (s *slogLogger) Logger() *slog.Logger {
	return s.logger
}
