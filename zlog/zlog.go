// Package zlog adapts github.com/rs/zerolog to parjoin.Logger.
//
// parjoin's logging surface is four leveled calls taking a flat map of
// fields, so this adapter talks to zerolog directly rather than through a
// generic field-builder abstraction; see DESIGN.md for the full rationale.
package zlog

import (
	"github.com/rs/zerolog"

	"github.com/joeycumines/go-parjoin"
)

// Logger adapts a zerolog.Logger to parjoin.Logger.
type Logger struct {
	Z zerolog.Logger
}

// New returns a parjoin.Logger backed by z.
func New(z zerolog.Logger) parjoin.Logger {
	return Logger{Z: z}
}

func (l Logger) log(event *zerolog.Event, msg string, fields map[string]any) {
	if len(fields) != 0 {
		event = event.Fields(map[string]any(fields))
	}
	event.Msg(msg)
}

// Debug implements parjoin.Logger.
func (l Logger) Debug(msg string, fields map[string]any) { l.log(l.Z.Debug(), msg, fields) }

// Info implements parjoin.Logger.
func (l Logger) Info(msg string, fields map[string]any) { l.log(l.Z.Info(), msg, fields) }

// Warn implements parjoin.Logger.
func (l Logger) Warn(msg string, fields map[string]any) { l.log(l.Z.Warn(), msg, fields) }

// Error implements parjoin.Logger.
func (l Logger) Error(msg string, fields map[string]any) { l.log(l.Z.Error(), msg, fields) }
