// Package diag renders utf8lex errors as positional, human-readable
// diagnostics: "file:line:col: message" plus a short excerpt of the
// surrounding input with newlines visualised as \n/\r (spec.md §7), and,
// for spec-parser grammar failures, a dump of the last 16 FSM states
// (spec.md §4.7). The *formatting* conventions here are adapted from the
// teacher's parser.ParseError (github.com/db47h/lex/parser), generalised
// from a single error kind switch to the closed lexerr.Code taxonomy.
package diag

import (
	"fmt"
	"strings"

	"golang.org/x/text/width"

	"github.com/db47h/utf8lex/internal/lexerr"
	"github.com/db47h/utf8lex/internal/srcpos"
)

// excerptRadius bounds how many bytes of context are shown on either side
// of an error position.
const excerptRadius = 24

// maxHistory is the number of most-recent FSM states kept for ERROR
// diagnostics (spec.md §4.7).
const maxHistory = 16

// Diagnostic is a fully positioned, renderable utf8lex error.
type Diagnostic struct {
	File    *srcpos.File
	Pos     srcpos.Pos
	Err     *lexerr.Error
	History []string // most recent state names, most-recent first
}

// Format renders d as "<file>:<line>:<col>: <message>" followed by an
// excerpt line and, if present, the state history.
func (d *Diagnostic) Format() string {
	var b strings.Builder
	if d.File != nil && d.Pos.IsValid() {
		fmt.Fprintf(&b, "%s: %s", d.File.Position(d.Pos).String(), d.Err.Error())
	} else {
		fmt.Fprintf(&b, "%s", d.Err.Error())
	}
	if d.File != nil && d.Pos.IsValid() {
		if line, err := d.File.GetLine(d.Pos); err == nil {
			b.WriteString("\n\t")
			b.WriteString(visualise(excerpt(line, d.File.Position(d.Pos).Column-1)))
		}
	}
	if len(d.History) > 0 {
		b.WriteString("\n\tstate history (most recent first): ")
		b.WriteString(strings.Join(d.History, " <- "))
	}
	return b.String()
}

// excerpt trims line to excerptRadius bytes on either side of col.
func excerpt(line []byte, col int) []byte {
	lo := col - excerptRadius
	if lo < 0 {
		lo = 0
	}
	hi := col + excerptRadius
	if hi > len(line) {
		hi = len(line)
	}
	if lo > len(line) {
		lo = len(line)
	}
	return line[lo:hi]
}

// visualise replaces raw \n and \r bytes with their escape sequences and
// folds fullwidth/halfwidth codepoint variants to keep the excerpt from
// misaligning in a terminal — the same use case the teacher's token
// package demonstrates for golang.org/x/text/width in ExampleFile_GetLineBytes.
func visualise(b []byte) string {
	s := string(b)
	s = strings.ReplaceAll(s, "\r", `\r`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	return width.Fold.String(s)
}

// PushHistory appends name to the front of history, keeping at most
// maxHistory entries (spec.md §4.7's "last 16 states, most recent first").
func PushHistory(history []string, name string) []string {
	history = append([]string{name}, history...)
	if len(history) > maxHistory {
		history = history[:maxHistory]
	}
	return history
}

// New builds a Diagnostic from a position-free *lexerr.Error by attaching
// file/pos context, for use by callers that only have an Err from a
// deeper layer (e.g. the matching engine) and now have the file handy.
func New(f *srcpos.File, pos srcpos.Pos, err *lexerr.Error, history []string) *Diagnostic {
	return &Diagnostic{File: f, Pos: pos, Err: err, History: history}
}
