package outcome

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type sinkRecord struct {
	level    Level
	event    string
	template string
	args     []any
}

func recordingSink(records *[]sinkRecord) Sink {
	return SinkFunc(func(level Level, event string, template string, args ...any) {
		*records = append(*records, sinkRecord{level, event, template, args})
	})
}

func TestLogSuccess(t *testing.T) {
	var records []sinkRecord
	o := Success(42).Log(recordingSink(&records), "order_loaded", "order %d loaded", 42)

	assert.True(t, o.IsSuccess())
	require.Len(t, records, 1)
	assert.Equal(t, LevelInfo, records[0].level)
	assert.Equal(t, "order_loaded", records[0].event)
	assert.Equal(t, "order %d loaded", records[0].template)
}

func TestLogFailureAppendsErrors(t *testing.T) {
	var records []sinkRecord
	f := Failure[int](NewError("not found"), NewValidationError([]Violation{{Message: "bad id"}}))
	f.Log(recordingSink(&records), "order_load", "loading order")

	require.Len(t, records, 1)
	assert.Equal(t, LevelError, records[0].level)
	require.Len(t, records[0].args, 1)
	rendered, ok := records[0].args[0].(string)
	require.True(t, ok)
	assert.Contains(t, rendered, "loading order")
	assert.Contains(t, rendered, "not found")
	assert.Contains(t, rendered, "validation")
}

func TestLogAtCustomLevels(t *testing.T) {
	var records []sinkRecord
	sink := recordingSink(&records)

	Success(1).LogAt(sink, LevelDebug, LevelWarn, "probe", "ok")
	FailureMsg[int]("nope").LogAt(sink, LevelDebug, LevelWarn, "probe", "bad")

	require.Len(t, records, 2)
	assert.Equal(t, LevelDebug, records[0].level)
	assert.Equal(t, LevelWarn, records[1].level)
}

func TestLogNilSinkIsNoop(t *testing.T) {
	o := Success("x").Log(nil, "event", "message")
	assert.Equal(t, Success("x"), o)
}

func TestLogFaultingSinkLeavesOutcomeUntouched(t *testing.T) {
	boom := SinkFunc(func(Level, string, string, ...any) {
		panic("sink unavailable")
	})

	o := Success(7).WithMessage("note").Log(boom, "event", "message")
	v, ok := o.Value()
	require.True(t, ok)
	assert.Equal(t, 7, v)
	assert.Equal(t, []string{"note"}, o.Messages())
}

func TestZapSink(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)
	sink := NewZapSink(zap.New(core))

	Success(1).Log(sink, "saga_committed", "saga %s committed", "abc")
	FailureMsg[int]("rollback failed").Log(sink, "saga_rollback", "saga concluded")

	entries := observed.All()
	require.Len(t, entries, 2)

	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "saga abc committed", entries[0].Message)
	assert.Equal(t, "saga_committed", entries[0].ContextMap()["event"])

	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	assert.Contains(t, entries[1].Message, "rollback failed")
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "debug", LevelDebug.String())
	assert.Equal(t, "info", LevelInfo.String())
	assert.Equal(t, "warn", LevelWarn.String())
	assert.Equal(t, "error", LevelError.String())
}
