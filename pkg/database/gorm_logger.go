package database

import (
	"context"
	"errors"
	"time"

	"github.com/hashicorp/go-hclog"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// gormLogger bridges GORM's logger interface to hclog.
type gormLogger struct {
	log           hclog.Logger
	slowThreshold time.Duration
}

// NewGormLogger wraps an hclog.Logger for use as a GORM logger.
func NewGormLogger(log hclog.Logger) gormlogger.Interface {
	return &gormLogger{
		log:           log,
		slowThreshold: 200 * time.Millisecond,
	}
}

// LogMode implements logger.Interface. Level filtering is delegated to
// hclog, so this is a no-op.
func (l *gormLogger) LogMode(gormlogger.LogLevel) gormlogger.Interface {
	return l
}

// Info implements logger.Interface.
func (l *gormLogger) Info(_ context.Context, msg string, args ...interface{}) {
	l.log.Info(msg, "args", args)
}

// Warn implements logger.Interface.
func (l *gormLogger) Warn(_ context.Context, msg string, args ...interface{}) {
	l.log.Warn(msg, "args", args)
}

// Error implements logger.Interface.
func (l *gormLogger) Error(_ context.Context, msg string, args ...interface{}) {
	l.log.Error(msg, "args", args)
}

// Trace implements logger.Interface.
func (l *gormLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)
	sql, rows := fc()

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		l.log.Error("query failed", "sql", sql, "rows", rows, "elapsed", elapsed, "error", err)
	case elapsed > l.slowThreshold:
		l.log.Warn("slow query", "sql", sql, "rows", rows, "elapsed", elapsed)
	default:
		l.log.Trace("query", "sql", sql, "rows", rows, "elapsed", elapsed)
	}
}
