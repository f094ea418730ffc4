package match

import "go.uber.org/zap"

// log receives the non-fatal diagnostics matchRegex emits when a regex
// match boundary does not land on a grapheme cluster boundary. It
// defaults to a no-op sink; cmd/utf8lex wires in the real logger via
// SetLogger.
var log = zap.NewNop().Sugar()

// SetLogger replaces the package logger.
func SetLogger(l *zap.Logger) {
	log = l.Sugar()
}
