// internal/utils/logger.go
package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"escpos-service/internal/config"
)

// LoggerManager builds the application logger from configuration
type LoggerManager struct {
	config *config.LoggingConfig
}

// NewLogger creates a new logger instance based on configuration
func NewLogger(cfg *config.LoggingConfig) (*zap.Logger, error) {
	manager := &LoggerManager{config: cfg}

	logger, err := manager.createLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return logger, nil
}

func (lm *LoggerManager) createLogger() (*zap.Logger, error) {
	encoderConfig := lm.getEncoderConfig()

	var encoder zapcore.Encoder
	switch lm.config.Format {
	case "console":
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	default:
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	}

	writeSyncer, err := lm.getWriteSyncer()
	if err != nil {
		return nil, fmt.Errorf("failed to create write syncer: %w", err)
	}

	level, err := ParseLevel(lm.config.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to parse log level: %w", err)
	}

	core := zapcore.NewCore(encoder, writeSyncer, level)
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)), nil
}

func (lm *LoggerManager) getEncoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "timestamp"
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout(time.RFC3339)
	cfg.LevelKey = "level"
	cfg.EncodeLevel = zapcore.LowercaseLevelEncoder
	cfg.CallerKey = "caller"
	cfg.EncodeCaller = zapcore.ShortCallerEncoder
	cfg.MessageKey = "message"
	cfg.StacktraceKey = "stacktrace"

	if lm.config.Format == "console" {
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")
	}
	return cfg
}

// getWriteSyncer returns stdout, stderr, or a rotated log file
func (lm *LoggerManager) getWriteSyncer() (zapcore.WriteSyncer, error) {
	switch lm.config.Output {
	case "stdout":
		return zapcore.AddSync(os.Stdout), nil
	case "stderr":
		return zapcore.AddSync(os.Stderr), nil
	}

	output := lm.config.Output
	if output == "" {
		output = "./logs/escpos-service.log"
	}
	if err := os.MkdirAll(filepath.Dir(output), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   output,
		MaxSize:    lm.config.MaxSize, // MB
		MaxBackups: lm.config.MaxBackups,
		MaxAge:     lm.config.MaxAge, // days
		Compress:   lm.config.Compress,
	}), nil
}

// ParseLevel maps a configured level name to a zap level
func ParseLevel(level string) (zapcore.Level, error) {
	switch level {
	case "debug":
		return zapcore.DebugLevel, nil
	case "info", "":
		return zapcore.InfoLevel, nil
	case "warn":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	case "fatal":
		return zapcore.FatalLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("invalid log level: %s", level)
	}
}

// PrinterLogger wraps zap.Logger with printer fields
type PrinterLogger struct {
	*zap.Logger
	printerID string
}

// NewPrinterLogger creates a printer-specific logger
func NewPrinterLogger(baseLogger *zap.Logger, printerID, model, connectionType string) *PrinterLogger {
	return &PrinterLogger{
		Logger: baseLogger.With(
			zap.String("printer_id", printerID),
			zap.String("model", model),
			zap.String("connection_type", connectionType),
			zap.String("component", "printer"),
		),
		printerID: printerID,
	}
}

// LogConnection logs connection events
func (pl *PrinterLogger) LogConnection(action string, err error) {
	if err != nil {
		pl.Error("Printer connection event", zap.String("action", action), zap.Bool("success", false), zap.Error(err))
		return
	}
	pl.Info("Printer connection event", zap.String("action", action), zap.Bool("success", true))
}

// JobLogger tracks one print job from start to finish
type JobLogger struct {
	logger    *zap.Logger
	startTime time.Time
}

// NewJobLogger creates a job-specific logger
func NewJobLogger(baseLogger *zap.Logger, jobID, printerID string) *JobLogger {
	return &JobLogger{
		logger: baseLogger.With(
			zap.String("job_id", jobID),
			zap.String("printer_id", printerID),
			zap.String("component", "job"),
		),
		startTime: time.Now(),
	}
}

// Start logs job start
func (jl *JobLogger) Start(fields ...zap.Field) {
	jl.logger.Info("Job started", append([]zap.Field{zap.Time("start_time", jl.startTime)}, fields...)...)
}

// Attempt logs a failed flush attempt that will be retried
func (jl *JobLogger) Attempt(attempt int, err error) {
	jl.logger.Warn("Flush attempt failed",
		zap.Int("attempt", attempt),
		zap.Duration("elapsed", time.Since(jl.startTime)),
		zap.Error(err),
	)
}

// Success logs successful job completion
func (jl *JobLogger) Success(fields ...zap.Field) {
	jl.logger.Info("Job completed", append([]zap.Field{
		zap.Duration("duration", time.Since(jl.startTime)),
		zap.Bool("success", true),
	}, fields...)...)
}

// Error logs job failure
func (jl *JobLogger) Error(err error, fields ...zap.Field) {
	jl.logger.Error("Job failed", append([]zap.Field{
		zap.Duration("duration", time.Since(jl.startTime)),
		zap.Bool("success", false),
		zap.Error(err),
	}, fields...)...)
}

// ServiceLogger provides service-level logging functionality
type ServiceLogger struct {
	*zap.Logger
}

// NewServiceLogger creates a service-specific logger
func NewServiceLogger(baseLogger *zap.Logger, serviceName string) *ServiceLogger {
	return &ServiceLogger{
		Logger: baseLogger.With(
			zap.String("service", serviceName),
			zap.String("component", "service"),
		),
	}
}

// LogServiceStart logs service startup
func (sl *ServiceLogger) LogServiceStart(version string, printers int) {
	sl.Info("Service starting", zap.String("version", version), zap.Int("printers", printers))
}

// LogServiceStop logs service shutdown
func (sl *ServiceLogger) LogServiceStop(reason string) {
	sl.Info("Service stopping", zap.String("reason", reason))
}

// LogAPIRequest logs HTTP API requests at a level matching the status code
func (sl *ServiceLogger) LogAPIRequest(method, path, clientIP, requestID string, statusCode int, duration time.Duration) {
	level := zapcore.InfoLevel
	if statusCode >= 400 {
		level = zapcore.WarnLevel
	}
	if statusCode >= 500 {
		level = zapcore.ErrorLevel
	}

	if ce := sl.Check(level, "API request"); ce != nil {
		ce.Write(
			zap.String("method", method),
			zap.String("path", path),
			zap.String("client_ip", clientIP),
			zap.String("request_id", requestID),
			zap.Int("status_code", statusCode),
			zap.Duration("duration", duration),
		)
	}
}

// LoggerWithRequestID adds request ID to logger
func LoggerWithRequestID(logger *zap.Logger, requestID string) *zap.Logger {
	return logger.With(zap.String("request_id", requestID))
}

// CloseLogger flushes buffered log entries
func CloseLogger(logger *zap.Logger) error {
	return logger.Sync()
}
