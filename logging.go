package outcome

import (
	"fmt"

	"go.uber.org/zap"
)

// Level is the severity passed to a logging Sink.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the string representation of the Level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return fmt.Sprintf("Unknown Level: %d", int(l))
	}
}

// Sink is the logging contract consumed by the Log combinators. event
// identifies the call site, template and args render the message. A sink
// fault never alters the outcome being logged.
type Sink interface {
	Log(level Level, event string, template string, args ...any)
}

// SinkFunc adapts an ordinary function to the Sink interface.
type SinkFunc func(level Level, event string, template string, args ...any)

// Log implements the Sink interface.
func (f SinkFunc) Log(level Level, event string, template string, args ...any) {
	f(level, event, template, args...)
}

// ZapSink adapts a zap logger to the Sink contract.
type ZapSink struct {
	logger *zap.SugaredLogger
}

// NewZapSink creates a Sink backed by the given zap logger.
func NewZapSink(logger *zap.Logger) *ZapSink {
	return &ZapSink{logger: logger.Sugar()}
}

// Log implements the Sink interface.
func (s *ZapSink) Log(level Level, event string, template string, args ...any) {
	msg := fmt.Sprintf(template, args...)
	switch level {
	case LevelDebug:
		s.logger.Debugw(msg, "event", event)
	case LevelWarn:
		s.logger.Warnw(msg, "event", event)
	case LevelError:
		s.logger.Errorw(msg, "event", event)
	default:
		s.logger.Infow(msg, "event", event)
	}
}

// Log records the outcome's state to the sink and passes the outcome through
// unchanged. A success logs at Info; a failure logs at Error with its error
// records appended to the rendered message.
func (o Outcome[T]) Log(sink Sink, event string, template string, args ...any) Outcome[T] {
	return o.LogAt(sink, LevelInfo, LevelError, event, template, args...)
}

// LogAt is Log with explicit severities for the success and failure states.
func (o Outcome[T]) LogAt(sink Sink, successLevel, failureLevel Level, event string, template string, args ...any) Outcome[T] {
	defer func() {
		// A faulting sink must not change the outcome being logged.
		_ = recover()
	}()
	if sink == nil {
		return o
	}
	if o.IsFailure() {
		msg := fmt.Sprintf(template, args...)
		for _, e := range o.errs {
			msg += fmt.Sprintf("; %s: %s", e.Kind, e.Message)
		}
		sink.Log(failureLevel, event, "%s", msg)
		return o
	}
	sink.Log(successLevel, event, template, args...)
	return o
}
