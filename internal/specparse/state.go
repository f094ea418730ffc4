package specparse

import (
	"bytes"

	"github.com/db47h/utf8lex/internal/defgraph"
	"github.com/db47h/utf8lex/internal/grapheme"
	"github.com/db47h/utf8lex/internal/lexerr"
	"github.com/db47h/utf8lex/internal/unit"
)

// lineStateFn is one row of the line grammar's state table (spec.md
// §4.7), in the teacher's "a state is a function returning the next
// state" idiom (db47h/lex's StateFn). A nil return means the line is
// either COMPLETE (p.err == nil) or in ERROR (p.err != nil).
type lineStateFn func(p *lineParser) lineStateFn

// bodyKind records which of the four accumulation strategies is building
// the current line's Definition.
type bodyKind int

const (
	bodyNone bodyKind = iota
	bodyMulti
	bodyLiteral
	bodyRegex
)

type pendingRef struct {
	name     string
	min, max int
}

// lineParser holds the state threaded through one definition/rule body
// line's state machine run (spec.md §4.7).
type lineParser struct {
	g       *defgraph.Graph
	section int // 1 (definitions) or 2 (rules)
	sc      *lineScanner

	name string // definition name (section 1 only)
	kind bodyKind

	litBuf    []byte
	regexBuf  []byte
	refs      []pendingRef
	multiType defgraph.MultiType

	codeBuf       []byte
	depth         int
	hadRuleCode   bool

	history []string
	tracing bool

	defID defgraph.DefID
	err   *lexerr.Error
}

func newLineParser(g *defgraph.Graph, section int, line []byte, tracing bool) *lineParser {
	return &lineParser{
		g:         g,
		section:   section,
		sc:        newLineScanner(line),
		defID:     defgraph.NoDef,
		multiType: defgraph.Sequence,
		tracing:   tracing,
	}
}

func (p *lineParser) next() Token {
	return p.sc.Next()
}

func (p *lineParser) push(name string) {
	if p.tracing {
		p.history = append([]string{name}, p.history...)
		if len(p.history) > 16 {
			p.history = p.history[:16]
		}
	}
}

func (p *lineParser) errorf(format string, args ...interface{}) lineStateFn {
	p.err = lexerr.Newf(lexerr.ErrParse, format, args...)
	return nil
}

// errorCode is errorf with an explicit lexerr.Code, for cap violations
// spec.md §6 assigns a dedicated code to (ErrNameTooLong, ErrBodyTooLong).
func (p *lineParser) errorCode(code lexerr.Code, format string, args ...interface{}) lineStateFn {
	p.err = lexerr.Newf(code, format, args...)
	return nil
}

// run drives the state machine for one line, starting at start, and
// finalizes the resulting Definition (or leaves p.err set on failure).
func (p *lineParser) run(start lineStateFn) {
	state := start
	for i := 0; state != nil; i++ {
		if i > 65536 {
			p.err = lexerr.New(lexerr.ErrTooManyTokens)
			return
		}
		state = state(p)
	}
	if p.err != nil {
		return
	}
	p.finalize()
}

func (p *lineParser) finalize() {
	switch p.kind {
	case bodyLiteral:
		q := literalQuad(p.litBuf)
		id, err := p.g.NewLiteral(p.name, p.litBuf, q)
		p.defID, p.err = id, err
	case bodyRegex:
		m, err := compileRegex(string(p.regexBuf))
		if err != nil {
			p.err = err
			return
		}
		id, nerr := p.g.NewRegex(p.name, string(p.regexBuf), m)
		p.defID, p.err = id, nerr
	case bodyMulti:
		id, err := p.g.NewMulti(p.name, p.multiType, defgraph.NoDef)
		if err != nil {
			p.err = err
			return
		}
		for _, r := range p.refs {
			if _, rerr := p.g.AddReference(id, r.name, r.min, r.max); rerr != nil {
				p.err = rerr
				return
			}
		}
		p.defID = id
	default:
		p.err = lexerr.New(lexerr.ErrEmptyDefinition)
	}
	if p.err == nil && p.section == 2 && !p.hadRuleCode {
		p.err = lexerr.Newf(lexerr.ErrParse, "rule right-hand side may not stand alone, a trailing { code } block is required")
	}
}

// literalQuad precomputes a LITERAL definition's intrinsic per-unit
// extent at construction time, closing the spec.md §9 open question
// about some code paths leaving it unset (defgraph.NewLiteral is the
// only construction site, so this is now the only path).
func literalQuad(lit []byte) unit.Quad {
	var q unit.Quad
	for i := range q {
		q[i] = unit.Location{Start: 0, After: -1}
	}
	b := lit
	for len(b) > 0 {
		r, err := grapheme.Read(b, true)
		if err != nil {
			break
		}
		q.AddGrapheme(r.ByteLen, r.IsLine, r.ResetAfter)
		b = b[r.ByteLen:]
	}
	return q
}

// --- state table (spec.md §4.7) ---

func stateDefinition(p *lineParser) lineStateFn {
	p.push("DEFINITION")
	tok := p.next()
	if tok.Kind != KindID {
		return p.errorf("expected a definition name")
	}
	if len(tok.Raw) > 64 {
		return p.errorCode(lexerr.ErrNameTooLong, "definition name %q exceeds 64 bytes", tok.Raw)
	}
	p.name = string(tok.Raw)
	return stateDefinitionWantSpace
}

func stateDefinitionWantSpace(p *lineParser) lineStateFn {
	tok := p.next()
	if tok.Kind != KindSpace {
		return p.errorf("expected space after definition name %q", p.name)
	}
	return stateDefinitionBody
}

func stateDefinitionBody(p *lineParser) lineStateFn {
	p.push("DEFINITION_BODY")
	tok := p.next()
	switch tok.Kind {
	case KindID:
		if len(tok.Raw) > 64 {
			return p.errorCode(lexerr.ErrNameTooLong, "reference name %q exceeds 64 bytes", tok.Raw)
		}
		p.kind = bodyMulti
		p.refs = append(p.refs, pendingRef{name: string(tok.Raw), min: 1, max: 1})
		return stateMulti
	case KindQuote:
		p.kind = bodyLiteral
		return stateLiteral
	case KindBraceOpen:
		p.kind = bodyRegex
		p.regexBuf = append(p.regexBuf, tok.Raw...)
		return stateRegex
	case KindNewline, KindEOF:
		return p.errorf("empty definition body")
	default:
		p.kind = bodyRegex
		p.regexBuf = append(p.regexBuf, tok.Raw...)
		return stateRegex
	}
}

// stateMulti implements the combined MULTI_ID / MULTI_SPACE /
// MULTI_SEQUENCE_ID / MULTI_OR rows: they share identical transitions
// (spec.md §4.7 table), differing only in how they were entered.
func stateMulti(p *lineParser) lineStateFn {
	p.push("MULTI")
	tok := p.next()
	switch tok.Kind {
	case KindSpace:
		return stateMulti
	case KindID:
		if len(tok.Raw) > 64 {
			return p.errorCode(lexerr.ErrNameTooLong, "reference name %q exceeds 64 bytes", tok.Raw)
		}
		p.refs = append(p.refs, pendingRef{name: string(tok.Raw), min: 1, max: 1})
		return stateMulti
	case KindStar:
		if len(p.refs) == 0 {
			return p.errorf("'*' with no preceding reference")
		}
		p.refs[len(p.refs)-1].min = 0
		p.refs[len(p.refs)-1].max = -1
		return stateMulti
	case KindPlus:
		if len(p.refs) == 0 {
			return p.errorf("'+' with no preceding reference")
		}
		p.refs[len(p.refs)-1].min = 1
		p.refs[len(p.refs)-1].max = -1
		return stateMulti
	case KindPipe:
		p.multiType = defgraph.Or
		return stateMulti
	case KindBraceOpen:
		return p.enterRule(tok)
	case KindNewline, KindEOF:
		return nil
	default:
		return p.errorf("unexpected token %s in reference list", tok.Kind)
	}
}

func stateLiteral(p *lineParser) lineStateFn {
	tok := p.next()
	switch {
	case tok.Kind == KindEOF:
		return p.errorf("unterminated literal definition")
	case tok.Kind == KindQuote:
		return stateLiteralComplete
	case len(tok.Raw) == 1 && tok.Raw[0] == '\\':
		return stateLiteralBackslash
	default:
		if len(p.litBuf)+len(tok.Raw) > 256 {
			return p.errorCode(lexerr.ErrBodyTooLong, "literal body exceeds 256 bytes")
		}
		p.litBuf = append(p.litBuf, tok.Raw...)
		return stateLiteral
	}
}

// stateLiteralBackslash reads exactly one raw rune (bypassing the
// meta-token coalescing that would otherwise group it with following
// letters) and applies the escape table from the teacher's
// state.QuotedString/readChar: \a \b \f \n \r \t \v \\ \" are recognised;
// any other escaped byte passes through unchanged.
func stateLiteralBackslash(p *lineParser) lineStateFn {
	p.push("LITERAL_BACKSLASH")
	r, _, ok := p.sc.r.ReadRune()
	if !ok {
		return p.errorf("unterminated escape in literal definition")
	}
	esc := unescape(r)
	if len(p.litBuf)+len(esc) > 256 {
		return p.errorCode(lexerr.ErrBodyTooLong, "literal body exceeds 256 bytes")
	}
	p.litBuf = append(p.litBuf, esc...)
	return stateLiteral
}

func unescape(r rune) []byte {
	switch r {
	case 'a':
		return []byte{'\a'}
	case 'b':
		return []byte{'\b'}
	case 'f':
		return []byte{'\f'}
	case 'n':
		return []byte{'\n'}
	case 'r':
		return []byte{'\r'}
	case 't':
		return []byte{'\t'}
	case 'v':
		return []byte{'\v'}
	case '\\':
		return []byte{'\\'}
	case '"':
		return []byte{'"'}
	default:
		return []byte(string(r))
	}
}

func stateLiteralComplete(p *lineParser) lineStateFn {
	p.push("LITERAL_COMPLETE")
	tok := p.next()
	switch tok.Kind {
	case KindBraceOpen:
		return p.enterRule(tok)
	case KindNewline, KindEOF:
		return nil
	default:
		return p.errorf("unexpected token %s after closed literal", tok.Kind)
	}
}

func stateRegex(p *lineParser) lineStateFn {
	tok := p.next()
	switch tok.Kind {
	case KindSpace:
		return stateRegexSpace
	case KindNewline, KindEOF:
		return nil
	default:
		if len(p.regexBuf)+len(tok.Raw) > 256 {
			return p.errorCode(lexerr.ErrBodyTooLong, "regex body exceeds 256 bytes")
		}
		p.regexBuf = append(p.regexBuf, tok.Raw...)
		return stateRegex
	}
}

func stateRegexSpace(p *lineParser) lineStateFn {
	p.push("REGEX_SPACE")
	tok := p.next()
	switch tok.Kind {
	case KindBraceOpen:
		return p.enterRule(tok)
	case KindNewline, KindEOF:
		return nil
	default:
		// the space was intra-regex: it was held back pending this
		// decision, so re-include it now.
		if len(p.regexBuf)+1+len(tok.Raw) > 256 {
			return p.errorCode(lexerr.ErrBodyTooLong, "regex body exceeds 256 bytes")
		}
		p.regexBuf = append(p.regexBuf, ' ')
		p.regexBuf = append(p.regexBuf, tok.Raw...)
		return stateRegex
	}
}

// enterRule begins RULE-code accumulation (Section 2 only); `tok` is the
// opening brace that starts it (already counted as depth 1).
func (p *lineParser) enterRule(tok Token) lineStateFn {
	if p.section != 2 {
		return p.errorf("rule code is only allowed in the rules section")
	}
	p.hadRuleCode = true
	p.depth = 1
	return stateRule
}

func stateRule(p *lineParser) lineStateFn {
	p.push("RULE")
	tok := p.next()
	switch tok.Kind {
	case KindBraceOpen:
		p.depth++
		p.codeBuf = append(p.codeBuf, tok.Raw...)
		return stateRule
	case KindBraceClose:
		p.depth--
		if p.depth == 0 {
			p.codeBuf = bytes.TrimSpace(p.codeBuf)
			return nil
		}
		p.codeBuf = append(p.codeBuf, tok.Raw...)
		return stateRule
	case KindEOF:
		return p.errorf("unterminated rule code (missing '}')")
	default:
		if len(p.codeBuf) >= 1024 {
			return p.errorf("rule code exceeds 1024 bytes")
		}
		p.codeBuf = append(p.codeBuf, tok.Raw...)
		return stateRule
	}
}

// initialState returns the line grammar's entry state for section,
// per spec.md §4.7 ("initial state differs: DEFINITION starts with the
// leading name+space for Section 1; DEFINITION_BODY jumps straight into
// the RHS for Section 2").
func initialState(section int) lineStateFn {
	if section == 1 {
		return stateDefinition
	}
	return stateDefinitionBody
}
