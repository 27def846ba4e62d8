package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the process logger: JSON in production, colored console otherwise.
func New(env string) (*zap.Logger, error) {
	if env == "production" {
		return zap.NewProduction()
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return cfg.Build()
}

// BadgerLogger adapts a zap logger to badger's Logger interface.
type BadgerLogger struct {
	s *zap.SugaredLogger
}

func NewBadgerLogger(l *zap.Logger) *BadgerLogger {
	return &BadgerLogger{s: l.Named("badger").Sugar()}
}

func (b *BadgerLogger) Errorf(format string, args ...interface{}) {
	b.s.Errorf(format, args...)
}

func (b *BadgerLogger) Warningf(format string, args ...interface{}) {
	b.s.Warnf(format, args...)
}

func (b *BadgerLogger) Infof(format string, args ...interface{}) {
	b.s.Infof(format, args...)
}

// Debugf is dropped; badger is very chatty at debug level.
func (b *BadgerLogger) Debugf(string, ...interface{}) {}
