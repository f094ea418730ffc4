// Package lexerr defines the closed set of result codes used throughout
// utf8lex, from the grapheme reader up to the CLI exit status, and their
// fixed string mapping (spec.md §4.9).
package lexerr

//go:generate stringer -type Code

// Code is a closed enumeration of result codes. Successful operations use
// OK; everything else is partitioned into signalling, invariant-violation,
// resource and semantic errors, per spec.md §4.9.
type Code int

const (
	OK Code = iota

	// Signalling.
	EOF
	NeedMore
	NoMatch

	// Invariant violations.
	BadStart
	BadLength
	BadAfter
	BadID
	BadMin
	BadMax
	BadMultiType
	BadRegex
	BadUTF8
	BadError

	// Resource errors.
	ErrFileOpen
	ErrFileRead
	ErrFileWrite
	ErrFileSize
	ErrFileEmpty
	ErrMmap
	ErrChainInsert
	ErrChainCap
	ErrBufferInitialised
	ErrMaxLength

	// Semantic errors.
	ErrCat
	ErrDefinitionType
	ErrEmptyDefinition
	ErrNotFound
	ErrNotARule
	ErrNotImplemented
	ErrRegex
	ErrUnit
	ErrUnresolvedDefinition
	ErrInfiniteLoop
	ErrToken
	ErrState
	ErrArenaFull
	ErrDepthCap
	ErrNameTooLong
	ErrBodyTooLong
	ErrTooManyLines
	ErrTooManyTokens
	ErrCountMismatch
	ErrParse

	maxCode
)

var names = [...]string{
	OK:                      "ok",
	EOF:                     "eof",
	NeedMore:                "need more input",
	NoMatch:                 "no match",
	BadStart:                "invalid location start",
	BadLength:               "invalid location length",
	BadAfter:                "invalid location after",
	BadID:                   "invalid id",
	BadMin:                  "invalid quantifier minimum",
	BadMax:                  "invalid quantifier maximum",
	BadMultiType:            "invalid multi type",
	BadRegex:                "invalid regex state",
	BadUTF8:                 "invalid UTF-8",
	BadError:                "invalid error code",
	ErrFileOpen:             "could not open file",
	ErrFileRead:             "could not read file",
	ErrFileWrite:            "could not write file",
	ErrFileSize:             "could not determine file size",
	ErrFileEmpty:            "file is empty",
	ErrMmap:                 "mmap failed",
	ErrChainInsert:          "cannot insert into the middle of a buffer chain",
	ErrChainCap:             "buffer chain length exceeds cap",
	ErrBufferInitialised:    "buffer already initialised",
	ErrMaxLength:            "maximum length exceeded",
	ErrCat:                  "invalid category expression",
	ErrDefinitionType:       "invalid definition kind",
	ErrEmptyDefinition:      "empty definition",
	ErrNotFound:             "not found",
	ErrNotARule:             "not a rule",
	ErrNotImplemented:       "not implemented",
	ErrRegex:                "regex compile error",
	ErrUnit:                 "invalid unit",
	ErrUnresolvedDefinition: "unresolved definition",
	ErrInfiniteLoop:         "infinite loop detected",
	ErrToken:                "invalid token",
	ErrState:                "invalid state",
	ErrArenaFull:            "arena capacity exceeded",
	ErrDepthCap:             "depth cap exceeded",
	ErrNameTooLong:          "name too long",
	ErrBodyTooLong:          "body too long",
	ErrTooManyLines:         "too many lines",
	ErrTooManyTokens:        "too many tokens",
	ErrCountMismatch:        "registration count mismatch",
	ErrParse:                "parse error",
}

// String returns the fixed diagnostic message for c, or a generic fallback
// for an out-of-range value.
func (c Code) String() string {
	if c >= 0 && int(c) < len(names) && names[c] != "" {
		return names[c]
	}
	return "unknown error code"
}

// IsSignal reports whether c is a cooperative, non-fatal signal
// (EOF, NeedMore or NoMatch) rather than a propagating error.
func (c Code) IsSignal() bool {
	return c == EOF || c == NeedMore || c == NoMatch
}
