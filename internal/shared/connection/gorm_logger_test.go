package connection

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"

	"gorm.io/gorm"
)

func newObservedLogger() (*GormLogger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return NewGormLogger(zap.New(core)), logs
}

func TestGormLogger_Trace(t *testing.T) {
	query := func() (string, int64) { return `SELECT * FROM "employees"`, 3 }

	t.Run("failed query is logged as error", func(t *testing.T) {
		l, logs := newObservedLogger()

		l.Trace(context.Background(), time.Now(), query, errors.New("boom"))

		entries := logs.All()
		assert.Len(t, entries, 1)
		assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
		assert.Equal(t, `SELECT * FROM "employees"`, entries[0].ContextMap()["sql"])
	})

	t.Run("record not found is not an error", func(t *testing.T) {
		l, logs := newObservedLogger()

		l.Trace(context.Background(), time.Now(), query, gorm.ErrRecordNotFound)

		assert.Empty(t, logs.All())
	})

	t.Run("slow query is a warning", func(t *testing.T) {
		l, logs := newObservedLogger()

		l.Trace(context.Background(), time.Now().Add(-time.Second), query, nil)

		assert.Equal(t, zapcore.WarnLevel, logs.All()[0].Level)
	})

	t.Run("info mode traces every query at debug", func(t *testing.T) {
		l, logs := newObservedLogger()

		l.LogMode(gormlogger.Info).Trace(context.Background(), time.Now(), query, nil)

		assert.Equal(t, zapcore.DebugLevel, logs.All()[0].Level)
		assert.Equal(t, int64(3), logs.All()[0].ContextMap()["rows"])
	})

	t.Run("silent mode logs nothing", func(t *testing.T) {
		l, logs := newObservedLogger()

		l.LogMode(gormlogger.Silent).Trace(context.Background(), time.Now(), query, errors.New("boom"))

		assert.Empty(t, logs.All())
	})
}
