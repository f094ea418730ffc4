// Package runtime is the support library generated lexers import: a
// thin, stable re-export of the arena/dispatch machinery in
// internal/defgraph, internal/driver, internal/buffer, internal/unit,
// internal/lexerr and internal/category, so that generated code (which lives outside
// this module) has exactly one import path to depend on rather than
// reaching into internal/ packages it isn't allowed to import directly.
package runtime

import (
	"github.com/coregx/coregex"

	"github.com/db47h/utf8lex/internal/buffer"
	"github.com/db47h/utf8lex/internal/category"
	"github.com/db47h/utf8lex/internal/defgraph"
	"github.com/db47h/utf8lex/internal/driver"
	"github.com/db47h/utf8lex/internal/lexerr"
	"github.com/db47h/utf8lex/internal/unit"
)

// Category bits and groups (internal/category), re-exported for
// generated CAT definition initializers.
type CategoryBits = category.Bits

const (
	CatLu = category.Lu
	CatLl = category.Ll
	CatLt = category.Lt
	CatLm = category.Lm
	CatLo = category.Lo
	CatMn = category.Mn
	CatMc = category.Mc
	CatMe = category.Me
	CatNd = category.Nd
	CatNl = category.Nl
	CatNo = category.No
	CatPc = category.Pc
	CatPd = category.Pd
	CatPs = category.Ps
	CatPe = category.Pe
	CatPi = category.Pi
	CatPf = category.Pf
	CatPo = category.Po
	CatSm = category.Sm
	CatSc = category.Sc
	CatSk = category.Sk
	CatSo = category.So
	CatZs = category.Zs
	CatZl = category.Zl
	CatZp = category.Zp
	CatCc = category.Cc
	CatCf = category.Cf
	CatCs = category.Cs
	CatCo = category.Co
	CatCn = category.Cn

	CatLetter     = category.Letter
	CatMark       = category.Mark
	CatNum        = category.Num
	CatPunct      = category.Punct
	CatSym        = category.Sym
	CatWhitespace = category.Whitespace
	CatHSpace     = category.HSpace
	CatVSpace     = category.VSpace
	CatOther      = category.Other
	CatAll        = category.All
)

// Graph, DefID, RuleID, MultiType, Matcher — internal/defgraph, the
// definition/reference/rule registry every generated lexer builds once,
// at init time.
type (
	Graph     = defgraph.Graph
	DefID     = defgraph.DefID
	RefID     = defgraph.RefID
	RuleID    = defgraph.RuleID
	MultiType = defgraph.MultiType
	Matcher   = defgraph.Matcher
)

const (
	NoDef  = defgraph.NoDef
	NoRef  = defgraph.NoRef
	NoRule = defgraph.NoRule

	Sequence = defgraph.Sequence
	Or       = defgraph.Or
)

// NewGraph returns an empty Graph for a generated init() function to
// register its definitions, references and rules into.
func NewGraph() *Graph { return defgraph.NewGraph() }

// NewCat, NewLiteral, NewRegex, NewMulti, AddReference, AppendRule and
// Resolve mirror defgraph.Graph's own methods; generated code calls
// these (rather than the Graph's methods directly) only because a
// package-level function reads more naturally from a generated
// init() than a long chain of receiver calls interspersed with error
// checks — the behavior is identical either way.
func NewCat(g *Graph, name string, mask CategoryBits, min, max int) (DefID, error) {
	id, err := g.NewCat(name, mask, min, max)
	return id, asError(err)
}

func NewLiteral(g *Graph, name string, body []byte, loc unit.Quad) (DefID, error) {
	id, err := g.NewLiteral(name, body, loc)
	return id, asError(err)
}

func NewRegex(g *Graph, name, source string, m Matcher) (DefID, error) {
	id, err := g.NewRegex(name, source, m)
	return id, asError(err)
}

func NewMulti(g *Graph, name string, typ MultiType, parent DefID) (DefID, error) {
	id, err := g.NewMulti(name, typ, parent)
	return id, asError(err)
}

func AddReference(g *Graph, multi DefID, name string, min, max int) (RefID, error) {
	id, err := g.AddReference(multi, name, min, max)
	return id, asError(err)
}

func AppendRule(g *Graph, name string, def DefID, code []byte) (RuleID, error) {
	id, err := g.AppendRule(name, def, code)
	return id, asError(err)
}

func Resolve(g *Graph) error {
	return asError(g.Resolve())
}

// CompileRegex compiles source the same way internal/specparse does: as
// "^(?:source)", since coregex exposes no native anchor-at-offset-0 flag,
// then only ever accepts a FindIndex match that starts at 0. Generated
// REGEX definitions call this directly so the matching semantics a .l
// file's author sees at generation time and at runtime are identical.
func CompileRegex(source string) (Matcher, error) {
	re, err := coregex.Compile("^(?:" + source + ")")
	if err != nil {
		return nil, err
	}
	return &regexMatcher{re: re}, nil
}

type regexMatcher struct{ re *coregex.Regex }

func (m *regexMatcher) FindAnchored(b []byte) (int, bool) {
	loc := m.re.FindIndex(b)
	if loc == nil || loc[0] != 0 {
		return 0, false
	}
	return loc[1], true
}

// Quad, Location — internal/unit, the byte/char/grapheme/line position
// quadruple a LITERAL definition's precomputed extent is expressed in.
type (
	Quad     = unit.Quad
	Location = unit.Location
)

// Buffer, String — internal/buffer, what a generated lexer's caller
// feeds input through.
type (
	Buffer = buffer.Buffer
	String = buffer.String
)

func NewString(b []byte) *String { return buffer.NewString(b) }

func Bind(s *String, eof bool, prev *Buffer) (*Buffer, error) {
	b, err := buffer.Bind(s, eof, prev)
	return b, asError(err)
}

// AppendTail extends a buffer chain with another input chunk, for a
// caller feeding a generated lexer incrementally (e.g. reading a stream
// in fixed-size chunks rather than slurping a whole file up front).
func AppendTail(tail *Buffer, s *String, eof bool) (*Buffer, error) {
	b, err := buffer.AppendTail(tail, s, eof)
	return b, asError(err)
}

// State, Token, SubToken, Config — internal/driver, the engine that
// walks Graph's rules against a Buffer chain.
type (
	State    = driver.State
	Token    = driver.Token
	SubToken = driver.SubToken
	Config   = driver.Config
)

func NewState(g *Graph, buf *Buffer, cfg Config) *State {
	return driver.NewState(g, buf, cfg)
}

// Next advances s and returns the next Token, or an error whose
// underlying code a caller can recover with lexerr.CodeOf (IsEOF/
// IsNeedMore convenience wrappers below cover the two signals generated
// dispatch loops care about).
func Next(s *State) (*Token, error) {
	tok, err := s.Next()
	return tok, asError(err)
}

// IsEOF reports whether err is the end-of-input signal.
func IsEOF(err error) bool { return lexerr.CodeOf(err) == lexerr.EOF }

// IsNeedMore reports whether err signals that more input must be
// appended to the buffer chain before retrying.
func IsNeedMore(err error) bool { return lexerr.CodeOf(err) == lexerr.NeedMore }

func asError(err *lexerr.Error) error {
	if err == nil {
		return nil
	}
	return err
}
