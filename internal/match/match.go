// Package match implements the matching engine (spec.md §4.5): given a
// Definition and a byte prefix, decide whether — and how much of — that
// prefix it accepts. Every matcher reports only a byte length (and, for
// MULTI, the byte spans of its matched children); it never computes a
// unit.Quad itself. The Lex Driver (internal/driver) re-walks the winning
// byte span exactly once through the grapheme reader to build the
// canonical Quad, so char/grapheme/line counting logic lives in exactly
// one place regardless of which definition kind matched.
package match

import (
	"github.com/db47h/utf8lex/internal/category"
	"github.com/db47h/utf8lex/internal/defgraph"
	"github.com/db47h/utf8lex/internal/grapheme"
	"github.com/db47h/utf8lex/internal/lexerr"
)

// SubSpan records the byte span (relative to the start of the parent
// match) that one reference of a MULTI definition consumed, so the
// driver can reconstruct the sub-token capture tree
// (spec.md §4.4, §4.8).
type SubSpan struct {
	Ref    defgraph.RefID
	Def    defgraph.DefID
	Start  int
	Length int
	Subs   []SubSpan // nested captures, if Def is itself a MULTI
}

// Result is the outcome of attempting to match one Definition.
type Result struct {
	// Code is one of lexerr.OK, lexerr.NoMatch, lexerr.NeedMore or
	// lexerr.EOF. Only OK carries a meaningful Length/Subs.
	Code   lexerr.Code
	Length int
	Subs   []SubSpan
}

// Match attempts to match def against the start of buf. eof must be true
// iff no further bytes will ever follow buf.
func Match(g *defgraph.Graph, def *defgraph.Definition, buf []byte, eof bool) (Result, *lexerr.Error) {
	switch def.Kind {
	case defgraph.Cat:
		return matchCatBody(buf, eof, def.Cat.Mask, def.Cat.Min, def.Cat.Max)
	case defgraph.Literal:
		return matchLiteral(buf, eof, def.Literal.Bytes)
	case defgraph.Regex:
		return matchRegex(buf, eof, def.Regex.Matcher)
	case defgraph.Multi:
		return matchMulti(g, def, buf, eof)
	default:
		return Result{}, lexerr.New(lexerr.ErrDefinitionType)
	}
}

func matchCatBody(buf []byte, eof bool, mask category.Bits, min, max int) (Result, *lexerr.Error) {
	pos := 0
	count := 0
	for max == -1 || count < max {
		r, gerr := grapheme.Read(buf[pos:], eof)
		if gerr != nil {
			switch gerr.Code {
			case lexerr.EOF:
				goto done
			case lexerr.NeedMore:
				return Result{Code: lexerr.NeedMore}, nil
			default:
				return Result{}, gerr
			}
		}
		if !category.Match(r.Category, mask) {
			goto done
		}
		pos += r.ByteLen
		count++
	}
done:
	if count < min {
		return Result{Code: lexerr.NoMatch}, nil
	}
	return Result{Code: lexerr.OK, Length: pos}, nil
}

func matchLiteral(buf []byte, eof bool, lit []byte) (Result, *lexerr.Error) {
	n := len(lit)
	if len(buf) < n {
		if !eof && bytesHavePrefix(lit, buf) {
			return Result{Code: lexerr.NeedMore}, nil
		}
		return Result{Code: lexerr.NoMatch}, nil
	}
	for i := 0; i < n; i++ {
		if buf[i] != lit[i] {
			return Result{Code: lexerr.NoMatch}, nil
		}
	}
	return Result{Code: lexerr.OK, Length: n}, nil
}

func bytesHavePrefix(full, prefix []byte) bool {
	if len(prefix) > len(full) {
		return false
	}
	for i := range prefix {
		if prefix[i] != full[i] {
			return false
		}
	}
	return true
}

// matchRegex delegates to the compiled Matcher (github.com/coregx/coregex
// in this build, wrapped so every pattern is anchored with `^(?:...)`, see
// defgraph.RegexData and SPEC_FULL.md §4.5). The returned byte length is
// re-validated by re-reading it one grapheme at a time: if the match ends
// mid-cluster, that is logged (zap.Warn, via SetLogger) rather than
// treated as fatal, and the span is extended to the next cluster
// boundary so downstream Quad accounting never sees a split grapheme.
func matchRegex(buf []byte, eof bool, m defgraph.Matcher) (Result, *lexerr.Error) {
	if m == nil {
		return Result{}, lexerr.New(lexerr.BadRegex)
	}
	n, ok := m.FindAnchored(buf)
	if !ok {
		if !eof {
			return Result{Code: lexerr.NeedMore}, nil
		}
		return Result{Code: lexerr.NoMatch}, nil
	}
	if n == 0 {
		return Result{Code: lexerr.OK, Length: 0}, nil
	}
	fixed, gerr := alignToGraphemeBoundary(buf, n, eof)
	if gerr != nil {
		return Result{}, gerr
	}
	return Result{Code: lexerr.OK, Length: fixed}, nil
}

// alignToGraphemeBoundary walks buf one grapheme at a time until it has
// consumed at least n bytes, returning the actual (possibly larger) byte
// length of the grapheme-aligned span.
func alignToGraphemeBoundary(buf []byte, n int, eof bool) (int, *lexerr.Error) {
	pos := 0
	for pos < n {
		r, gerr := grapheme.Read(buf[pos:], eof)
		if gerr != nil {
			if gerr.Code == lexerr.EOF {
				break
			}
			return 0, gerr
		}
		pos += r.ByteLen
	}
	if pos != n {
		log.Warnw("regex match boundary did not align to a grapheme cluster", "matchedBytes", n, "alignedBytes", pos)
	}
	return pos, nil
}

// matchMulti matches a MULTI definition by walking its references in
// declaration order. A Sequence multi requires every reference to match,
// back-to-back; an Or multi takes the first reference (in declaration
// order) whose target matches its Min..Max quantifier and produces a
// non-empty token (spec.md §4.5) — consistent with spec.md's
// "first-match-in-declaration-order, no DFA fusion" non-goal.
func matchMulti(g *defgraph.Graph, def *defgraph.Definition, buf []byte, eof bool) (Result, *lexerr.Error) {
	refs := g.References(def.ID)
	switch def.MultiD.Type {
	case defgraph.Or:
		for _, rid := range refs {
			ref := g.Reference(rid)
			target, ferr := g.FindByID(ref.Def)
			if ferr != nil {
				return Result{}, ferr
			}
			n, repeated, code, err := matchRepeat(g, target, buf, eof, ref.Min, ref.Max)
			if err != nil {
				return Result{}, err
			}
			switch code {
			case lexerr.OK:
				if n == 0 {
					// spec.md §4.5: an alternative must produce a
					// non-empty token to win, even when Min == 0.
					continue
				}
				return Result{Code: lexerr.OK, Length: n, Subs: []SubSpan{{
					Ref: rid, Def: ref.Def, Start: 0, Length: n, Subs: repeated,
				}}}, nil
			case lexerr.NeedMore:
				return Result{Code: lexerr.NeedMore}, nil
			}
			// NoMatch: fall through to the next alternative.
		}
		return Result{Code: lexerr.NoMatch}, nil
	default: // Sequence
		pos := 0
		var subs []SubSpan
		for _, rid := range refs {
			ref := g.Reference(rid)
			target, ferr := g.FindByID(ref.Def)
			if ferr != nil {
				return Result{}, ferr
			}
			n, repeated, code, err := matchRepeat(g, target, buf[pos:], eof, ref.Min, ref.Max)
			if err != nil {
				return Result{}, err
			}
			if code != lexerr.OK {
				return Result{Code: code}, nil
			}
			for _, s := range repeated {
				s.Start += pos
				subs = append(subs, SubSpan{Ref: rid, Def: ref.Def, Start: s.Start, Length: s.Length, Subs: s.Subs})
			}
			pos += n
		}
		return Result{Code: lexerr.OK, Length: pos, Subs: subs}, nil
	}
}

// matchRepeat matches target between min and max times, greedily,
// back-to-back, returning the total byte length consumed and the span of
// each individual repetition (relative to the start of the repeated run).
func matchRepeat(g *defgraph.Graph, target *defgraph.Definition, buf []byte, eof bool, min, max int) (int, []SubSpan, lexerr.Code, *lexerr.Error) {
	pos := 0
	count := 0
	var spans []SubSpan
	for max == -1 || count < max {
		res, err := Match(g, target, buf[pos:], eof)
		if err != nil {
			return 0, nil, lexerr.OK, err
		}
		switch res.Code {
		case lexerr.OK:
			if res.Length == 0 {
				// A zero-length repetition cannot make progress; count it
				// once (to satisfy min == 0 or 1) and stop, rather than
				// looping forever. It consumed nothing, so no span is
				// recorded for it.
				count++
				goto done
			}
			spans = append(spans, SubSpan{Start: pos, Length: res.Length, Subs: res.Subs})
			pos += res.Length
			count++
		case lexerr.NeedMore:
			if count >= min {
				goto done
			}
			return 0, nil, lexerr.NeedMore, nil
		default: // NoMatch, EOF
			goto done
		}
	}
done:
	if count < min {
		return 0, nil, lexerr.NoMatch, nil
	}
	return pos, spans, lexerr.OK, nil
}
