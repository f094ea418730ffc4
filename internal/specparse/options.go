package specparse

import "github.com/db47h/utf8lex/internal/diag"

// config holds the parser-wide settings an Option can set, adapted from
// the teacher's lexer.Option functional-options pattern (lexer/options.go:
// IsSeparator/IsIdentifier/ErrorHandler).
type config struct {
	tracing bool
	sink    func(*diag.Diagnostic)
}

// Option configures a Parse call.
type Option func(*config)

// WithTracing enables state-history recording: each line parser keeps the
// names of its last 16 states, most recent first. Parse does not copy
// that history into the Diagnostic it reports or into the returned error.
func WithTracing(on bool) Option {
	return func(c *config) { c.tracing = on }
}

// WithDiagnosticSink registers a callback invoked with a rendered
// Diagnostic whenever Parse fails, in place of the teacher's
// lexer.ErrorHandler(pos, msg) hook.
func WithDiagnosticSink(sink func(*diag.Diagnostic)) Option {
	return func(c *config) { c.sink = sink }
}
