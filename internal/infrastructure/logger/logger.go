package logger

import (
	"strings"

	"go.uber.org/zap"

	usecasecontract "github.com/mikiasgoitom/Pawgram/internal/usecase/contract"
)

// ZapLogger implements the IAppLogger contract on top of a zap SugaredLogger.
type ZapLogger struct {
	sugar *zap.SugaredLogger
}

// NewZapLogger builds a logger for the given mode ("prod"/"production" or
// anything else for development output).
func NewZapLogger(mode string) (usecasecontract.IAppLogger, error) {
	var cfg zap.Config
	switch strings.ToLower(mode) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
	}
	zapLogger, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, err
	}
	return &ZapLogger{sugar: zapLogger.Sugar()}, nil
}

// Debugf logs a debug message.
func (l *ZapLogger) Debugf(format string, args ...interface{}) {
	l.sugar.Debugf(format, args...)
}

// Infof logs an info message.
func (l *ZapLogger) Infof(format string, args ...interface{}) {
	l.sugar.Infof(format, args...)
}

// Warnf logs a warning message.
func (l *ZapLogger) Warnf(format string, args ...interface{}) {
	l.sugar.Warnf(format, args...)
}

// Errorf logs an error message.
func (l *ZapLogger) Errorf(format string, args ...interface{}) {
	l.sugar.Errorf(format, args...)
}

// Fatalf logs a fatal message and exits.
func (l *ZapLogger) Fatalf(format string, args ...interface{}) {
	l.sugar.Fatalf(format, args...)
}

// Sync flushes buffered log entries.
func (l *ZapLogger) Sync() {
	_ = l.sugar.Sync()
}

// NewNop returns a logger that discards everything, for tests.
func NewNop() usecasecontract.IAppLogger {
	return &ZapLogger{sugar: zap.NewNop().Sugar()}
}
