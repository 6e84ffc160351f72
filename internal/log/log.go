// Package log provides centralized logging functionality using zap logger.
package log

import (
	"fmt"

	"go.uber.org/zap"
)

var log *zap.SugaredLogger
var baseLogger *zap.Logger

// Init initializes the package-level logger
func Init(debug bool) error {
	var zapLogger *zap.Logger
	var err error

	if debug {
		zapLogger, err = zap.NewDevelopment(zap.AddCallerSkip(1))
	} else {
		zapLogger, err = zap.NewProduction(zap.AddCallerSkip(1))
	}
	if err != nil {
		return fmt.Errorf("can't initialize zap logger: %v", err)
	}

	baseLogger = zapLogger
	log = zapLogger.Sugar()
	return nil
}

func ensure() *zap.SugaredLogger {
	if log == nil {
		baseLogger, _ = zap.NewProduction(zap.AddCallerSkip(1))
		log = baseLogger.Sugar()
	}
	return log
}

// GetZapLogger returns the base zap logger for cases where it's needed (like GORM)
func GetZapLogger() *zap.Logger {
	ensure()
	return baseLogger
}

// GetSugaredLogger returns the sugared logger instance
func GetSugaredLogger() *zap.SugaredLogger {
	return ensure()
}

// Sync flushes any buffered log entries
func Sync() {
	if log != nil {
		log.Sync()
	}
}

// Package-level convenience functions
func Debug(args ...interface{}) {
	ensure().Debug(args...)
}

func Debugf(template string, args ...interface{}) {
	ensure().Debugf(template, args...)
}

func Info(args ...interface{}) {
	ensure().Info(args...)
}

func Infof(template string, args ...interface{}) {
	ensure().Infof(template, args...)
}

func Warn(args ...interface{}) {
	ensure().Warn(args...)
}

func Warnf(template string, args ...interface{}) {
	ensure().Warnf(template, args...)
}

func Error(args ...interface{}) {
	ensure().Error(args...)
}

func Errorf(template string, args ...interface{}) {
	ensure().Errorf(template, args...)
}

func Fatal(args ...interface{}) {
	ensure().Fatal(args...)
}

func Fatalf(template string, args ...interface{}) {
	ensure().Fatalf(template, args...)
}
