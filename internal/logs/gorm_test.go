package logs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newObserved() (*GormLogger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewGormLogger(zap.New(core), time.Second)
	return l, logs
}

func TestGormLogger_Trace(t *testing.T) {
	fc := func() (string, int64) { return "SELECT 1", 1 }

	t.Run("error", func(t *testing.T) {
		l, logs := newObserved()
		l.Trace(context.Background(), time.Now(), fc, errors.New("boom"))
		assert.Equal(t, 1, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
	})

	t.Run("record not found is not an error", func(t *testing.T) {
		l, logs := newObserved()
		l.Trace(context.Background(), time.Now(), fc, gorm.ErrRecordNotFound)
		assert.Zero(t, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
	})

	t.Run("slow", func(t *testing.T) {
		l, logs := newObserved()
		l.Trace(context.Background(), time.Now().Add(-2*time.Second), fc, nil)
		assert.Equal(t, 1, logs.FilterLevelExact(zapcore.WarnLevel).Len())
	})

	t.Run("silent", func(t *testing.T) {
		l, logs := newObserved()
		silent := l.LogMode(gormlogger.Silent)
		silent.Trace(context.Background(), time.Now(), fc, errors.New("boom"))
		assert.Zero(t, logs.Len())
	})
}

func TestNew(t *testing.T) {
	log, err := New(WithLevel("error"))
	assert.NoError(t, err)
	assert.False(t, log.Core().Enabled(zapcore.WarnLevel))

	_, err = New(WithLevel("nonsense"))
	assert.Error(t, err)
}
