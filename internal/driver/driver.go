// Package driver implements the lex driver (spec.md §4.6): given a
// definition graph's rules in declaration order and a chain of input
// buffers, it repeatedly finds the first rule that matches the current
// position, advances the byte/char/grapheme/line cursor across the match,
// and emits a Token — or a NeedMore/EOF/NoMatch signal when it cannot.
package driver

import (
	"github.com/db47h/utf8lex/internal/buffer"
	"github.com/db47h/utf8lex/internal/defgraph"
	"github.com/db47h/utf8lex/internal/grapheme"
	"github.com/db47h/utf8lex/internal/lexerr"
	"github.com/db47h/utf8lex/internal/match"
	"github.com/db47h/utf8lex/internal/unit"
)

// Config tunes driver behaviour; Tracing, when set, makes State record
// in LastAttempted which rules were attempted (in declaration order)
// whenever Next finds no matching rule.
type Config struct {
	Tracing bool
}

// State is the running cursor over one buffer chain for one Graph.
type State struct {
	g   *defgraph.Graph
	buf *buffer.Buffer
	pos int // byte offset within buf
	cur unit.Quad

	cfg Config

	// LastAttempted records the rule names tried on the most recent Next
	// that matched no rule (NoMatch or NeedMore), in declaration order,
	// when cfg.Tracing is set.
	LastAttempted []string
}

// NewState returns a State positioned at the start of buf. The absolute
// cursor starts zeroed rather than at unit.NewQuad's uninitialised
// Start == -1 sentinel (spec.md §4.6 step 1, §3 "start >= 0" invariant):
// a fresh State has a real position from its very first Next, not an
// uninitialised one that needs zeroing before it can be matched against.
func NewState(g *defgraph.Graph, buf *buffer.Buffer, cfg Config) *State {
	cur := unit.NewQuad()
	for i := range cur {
		cur[i].Start = 0
	}
	return &State{g: g, buf: buf, pos: 0, cur: cur, cfg: cfg}
}

// Pos reports the current absolute Quad cursor (the position the next
// Token, if any, will start at).
func (s *State) Pos() unit.Quad { return s.cur }

// Next finds the first rule (in declaration order) that matches the
// current position and returns the Token it produced. It returns
// (nil, err) with err.Code one of:
//   - lexerr.EOF: the buffer chain is exhausted and complete.
//   - lexerr.NeedMore: every rule either didn't match or needs bytes the
//     chain doesn't yet have; the caller should buffer.AppendTail more
//     input onto the chain tail and call Next again.
//   - lexerr.NoMatch: no rule matches and bytes remain — a lexical error.
//
// Any other error from looking up a rule's definition or from the
// matching engine (e.g. lexerr.BadUTF8) is returned as is.
func (s *State) Next() (*Token, *lexerr.Error) {
	avail, eof := s.available()
	if len(avail) == 0 && eof {
		return nil, lexerr.New(lexerr.EOF)
	}

	var attempted []string
	sawNeedMore := false
	for _, rule := range s.g.Rules() {
		if s.cfg.Tracing {
			attempted = append(attempted, rule.Name)
		}
		def, ferr := s.g.FindByID(rule.Def)
		if ferr != nil {
			return nil, ferr
		}
		res, merr := match.Match(s.g, def, avail, eof)
		if merr != nil {
			return nil, merr
		}
		switch res.Code {
		case lexerr.OK:
			tok := s.commit(rule.ID, avail[:res.Length], res.Subs)
			return tok, nil
		case lexerr.NeedMore:
			sawNeedMore = true
		}
		// NoMatch: try the next rule.
	}

	if s.cfg.Tracing {
		s.LastAttempted = attempted
	}
	if sawNeedMore {
		return nil, lexerr.New(lexerr.NeedMore)
	}
	return nil, lexerr.New(lexerr.NoMatch)
}

// commit advances the cursor across matched (of length len(matched)) and
// builds the resulting Token, including its sub-token capture tree.
func (s *State) commit(rule defgraph.RuleID, matched []byte, subs []match.SubSpan) *Token {
	start := s.cur
	final, subTokens := buildSpan(matched, subs, start)

	tok := &Token{Rule: rule, Quad: final, Bytes: matched, Subs: subTokens}

	s.advancePos(len(matched))
	final.Advance()
	s.cur = final
	return tok
}

// available returns the bytes readable from the current position forward
// across the buffer chain, concatenating successive Buffers as needed,
// and whether that slice is known-complete (the chain ends in an EOF
// Buffer with nothing left unread).
func (s *State) available() ([]byte, bool) {
	if s.buf == nil {
		return nil, true
	}
	b := s.buf.Bytes()[s.pos:]
	cur := s.buf
	for len(b) == 0 || cur.Next() != nil {
		if cur.IsEOF() && cur.Next() == nil {
			return b, true
		}
		next := cur.Next()
		if next == nil {
			return b, false
		}
		b = append(append([]byte(nil), b...), next.Bytes()...)
		cur = next
	}
	return b, cur.IsEOF()
}

// advancePos moves s.pos (and s.buf, across chain links) forward by n
// bytes of consumed input.
func (s *State) advancePos(n int) {
	remaining := s.buf.Len() - s.pos
	for n > remaining && s.buf.Next() != nil {
		n -= remaining
		s.buf = s.buf.Next()
		s.pos = 0
		remaining = s.buf.Len()
	}
	s.pos += n
}

// buildSpan walks matched one grapheme cluster at a time, accumulating
// into a running copy of start, and carves out the nested SubToken tree
// described by subs (byte spans relative to the start of matched).
func buildSpan(matched []byte, subs []match.SubSpan, start unit.Quad) (unit.Quad, []SubToken) {
	q := start
	pos := 0
	var out []SubToken
	for _, sp := range subs {
		if sp.Start > pos {
			quadWalk(&q, matched[pos:sp.Start])
			pos = sp.Start
		}
		subStart := q
		subStart.Advance()
		sub := matched[sp.Start : sp.Start+sp.Length]
		subQ, nested := buildSpan(sub, sp.Subs, subStart)
		out = append(out, SubToken{Ref: sp.Ref, Def: sp.Def, Quad: subQ, Bytes: sub, Subs: nested})
		for u := range q {
			q[u].Length += subQ[u].Length
			q[u].Hash += subQ[u].Hash
			if subQ[u].After >= 0 {
				q[u].After = subQ[u].After
			} else if q[u].After >= 0 {
				q[u].After += subQ[u].Length
			}
		}
		pos = sp.Start + sp.Length
	}
	if pos < len(matched) {
		quadWalk(&q, matched[pos:])
	}
	return q, out
}

// quadWalk accumulates every grapheme cluster of b into q. b is always a
// byte span that a matcher has already accepted in full, so grapheme.Read
// is called with eof == true throughout and any error here would
// indicate a bug in the matching engine rather than malformed input.
func quadWalk(q *unit.Quad, b []byte) {
	for len(b) > 0 {
		r, err := grapheme.Read(b, true)
		if err != nil {
			return
		}
		q.AddGrapheme(r.ByteLen, r.IsLine, r.ResetAfter)
		b = b[r.ByteLen:]
	}
}
