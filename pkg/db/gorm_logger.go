package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/izzah/storefront/pkg/logger"
)

// gormLogger forwards statement errors and slow queries to the service
// logger. SQL text is logged without bound values, so form data stays out.
type gormLogger struct {
	logg *logger.Logger
	slow time.Duration
}

func newGormLogger(logg *logger.Logger, slow time.Duration) gormlogger.Interface {
	return &gormLogger{logg: logg, slow: slow}
}

func (g *gormLogger) LogMode(gormlogger.LogLevel) gormlogger.Interface {
	return g
}

func (g *gormLogger) Info(ctx context.Context, msg string, args ...any) {
	g.logg.Debug(ctx, "gorm: "+fmt.Sprintf(msg, args...))
}

func (g *gormLogger) Warn(ctx context.Context, msg string, args ...any) {
	g.logg.Warn(ctx, "gorm: "+fmt.Sprintf(msg, args...))
}

func (g *gormLogger) Error(ctx context.Context, msg string, args ...any) {
	g.logg.Error(ctx, "gorm: "+fmt.Sprintf(msg, args...), nil)
}

func (g *gormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)
	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		sqlText, rows := fc()
		g.logg.Error(g.statementCtx(ctx, sqlText, rows, elapsed), "db.statement_failed", err)
	case g.slow > 0 && elapsed > g.slow:
		sqlText, rows := fc()
		g.logg.Warn(g.statementCtx(ctx, sqlText, rows, elapsed), "db.slow_statement")
	}
}

func (g *gormLogger) statementCtx(ctx context.Context, sqlText string, rows int64, elapsed time.Duration) context.Context {
	return g.logg.WithFields(ctx, map[string]any{
		"sql":         sqlText,
		"rows":        rows,
		"duration_ms": elapsed.Milliseconds(),
	})
}

// ParamsFilter keeps bound values out of the SQL handed to Trace.
func (g *gormLogger) ParamsFilter(_ context.Context, sql string, _ ...any) (string, []any) {
	return sql, nil
}
