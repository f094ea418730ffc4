// Package grapheme implements the UTF-8-aware grapheme cluster reader
// (spec.md §4.2): given a byte prefix, it reads exactly one user-perceived
// character, classifies its leading codepoint, and reports whether it
// crosses a line boundary.
//
// Cluster boundaries are delegated to github.com/rivo/uniseg, the
// grapheme-segmentation library used throughout the retrieved corpus
// (bufbuild/protocompile, cogentcore/core, aretext/aretext all vendor it
// for the same purpose) rather than a hand-rolled UAX #29 implementation.
package grapheme

import (
	"unicode/utf8"

	"github.com/rivo/uniseg"

	"github.com/db47h/utf8lex/internal/category"
	"github.com/db47h/utf8lex/internal/lexerr"
)

// Result is the outcome of reading one grapheme cluster from a buffer
// prefix, spec.md §4.2.
type Result struct {
	ByteLen    int          // bytes consumed by the cluster
	IsLine     bool         // true iff the cluster crosses a line boundary
	ResetAfter bool         // true iff Char/Grapheme After should be set to 0
	Rune       rune         // the leading codepoint
	Category   category.Bits // the leading codepoint's category
}

// Read reads one grapheme cluster from the start of buf.
//
// eof must be true iff no more bytes will ever follow buf (i.e. the owning
// Buffer's IsEOF is set and buf is its final, complete content at the
// read position). Read returns:
//   - (Result, nil) on a successful read.
//   - (Result{}, NeedMore) if buf is empty or its UTF-8 prefix looks
//     incomplete and eof is false — the caller should request more bytes.
//   - (Result{}, BadUTF8) if buf is malformed, or incomplete at eof.
//   - (Result{}, EOF) if buf is empty and eof is true.
func Read(buf []byte, eof bool) (Result, *lexerr.Error) {
	if len(buf) == 0 {
		if eof {
			return Result{}, lexerr.New(lexerr.EOF)
		}
		return Result{}, lexerr.New(lexerr.NeedMore)
	}

	if !utf8.FullRune(buf) && !eof {
		return Result{}, lexerr.New(lexerr.NeedMore)
	}

	r, sz := utf8.DecodeRune(buf)
	if r == utf8.RuneError && sz <= 1 {
		return Result{}, lexerr.New(lexerr.BadUTF8)
	}

	cluster, _, _, _ := uniseg.FirstGraphemeCluster(buf, -1)
	if len(cluster) == 0 {
		return Result{}, lexerr.New(lexerr.BadUTF8)
	}
	if !eof && len(cluster) == len(buf) && !clusterIsComplete(buf) {
		// the cluster consumed everything we have and more bytes could
		// still extend it (e.g. a base rune followed by a combining mark
		// split across a buffer boundary): ask for more before committing.
		return Result{}, lexerr.New(lexerr.NeedMore)
	}

	cp := category.Classify(r)
	isLine, reset := lineEffect(cluster, cp)

	return Result{
		ByteLen:    len(cluster),
		IsLine:     isLine,
		ResetAfter: reset,
		Rune:       r,
		Category:   cp,
	}, nil
}

// clusterIsComplete reports whether buf, taken in full, cannot possibly be
// extended into a longer grapheme cluster by subsequent bytes. uniseg has
// no direct "is this boundary provisional" query in the stable First*
// API, so conservatively: a cluster equal to the whole (non-EOF) buffer is
// always treated as possibly-incomplete by the caller, except for the
// common case of a single ASCII byte that is not itself a combining mark
// starter (the overwhelming majority of bytes fed through this reader),
// where no continuation can attach.
func clusterIsComplete(buf []byte) bool {
	if len(buf) == 1 && buf[0] < utf8.RuneSelf {
		switch buf[0] {
		case '\r':
			// CR may fuse with a following LF into one grapheme.
			return false
		default:
			return true
		}
	}
	return false
}

// lineEffect implements the line-termination rule (spec.md §4.2): CR
// immediately followed by LF is one grapheme with LINE length 1; any
// other single line-separator codepoint is also LINE length 1; a
// grapheme crossing a line boundary resets Char/Grapheme After to 0.
func lineEffect(cluster []byte, lead rune) (isLine bool, reset bool) {
	if lead == '\r' {
		// uniseg fuses CR+LF into a single cluster already; either way
		// this is exactly one line terminator.
		return true, true
	}
	if cluster[0] == '\n' || lead == '\v' || lead == '\f' || lead == 0x0085 || lead == 0x2028 || lead == 0x2029 {
		return true, true
	}
	return false, false
}
