package postgres

import (
	"database/sql"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPoolWait(t *testing.T) {
	prev := sql.DBStats{WaitCount: 10, WaitDuration: time.Second}

	_, _, waited := poolWait(prev, prev)
	assert.False(t, waited)

	level, attrs, waited := poolWait(prev, sql.DBStats{WaitCount: 14, WaitDuration: time.Second + 40*time.Millisecond, InUse: 20})
	assert.True(t, waited)
	assert.Equal(t, slog.LevelDebug, level)
	assert.Contains(t, attrs, slog.Duration("avg_wait", 10*time.Millisecond))

	level, _, waited = poolWait(prev, sql.DBStats{WaitCount: 12, WaitDuration: time.Second + 200*time.Millisecond})
	assert.True(t, waited)
	assert.Equal(t, slog.LevelWarn, level)
}
