// sampleconv
// Licensed under MIT

// Package notifier provides the structured logging sink used by every
// decoder and encoder in this module. It is the one cross-cutting
// collaborator permitted by the concurrency model: a per-conversion sink
// that decoders append events to, never a shared global.
package notifier

import (
	"os"

	"github.com/rs/zerolog"
)

// Notifier receives structured events during a conversion. Implementations
// must be safe for single-writer use by the worker that owns a conversion;
// this module never shares one Notifier across concurrent conversions
// unless the implementation is internally synchronised (zerolog's is).
type Notifier interface {
	Log(event string, fields map[string]any)
	LogError(event string, cause error, fields map[string]any)
}

// zerologNotifier is the default Notifier, backed by a zerolog.Logger.
type zerologNotifier struct {
	log zerolog.Logger
}

// New wraps an existing zerolog.Logger as a Notifier.
func New(log zerolog.Logger) Notifier {
	return &zerologNotifier{log: log}
}

// Default returns a Notifier writing human-readable console output to
// stderr, suitable for a batch conversion worker's default wiring.
func Default() Notifier {
	return New(zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger())
}

func (n *zerologNotifier) Log(event string, fields map[string]any) {
	evt := n.log.Info().Str("event", event)
	for k, v := range fields {
		evt = evt.Interface(k, v)
	}
	evt.Msg(event)
}

func (n *zerologNotifier) LogError(event string, cause error, fields map[string]any) {
	evt := n.log.Error().Str("event", event).Err(cause)
	for k, v := range fields {
		evt = evt.Interface(k, v)
	}
	evt.Msg(event)
}

// nopNotifier discards every event. Used by tests and by callers that don't
// want logging.
type nopNotifier struct{}

// Nop returns a Notifier that discards everything.
func Nop() Notifier { return nopNotifier{} }

func (nopNotifier) Log(string, map[string]any)             {}
func (nopNotifier) LogError(string, error, map[string]any) {}
