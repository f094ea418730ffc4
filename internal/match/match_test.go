package match_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/db47h/utf8lex/internal/category"
	"github.com/db47h/utf8lex/internal/defgraph"
	"github.com/db47h/utf8lex/internal/lexerr"
	"github.com/db47h/utf8lex/internal/match"
	"github.com/db47h/utf8lex/internal/unit"
)

func TestMatchCatGreedy(t *testing.T) {
	g := defgraph.NewGraph()
	id, err := g.NewCat("digits", category.Num, 1, -1)
	require.Nil(t, err)
	def, _ := g.FindByID(id)

	res, merr := match.Match(g, def, []byte("123abc"), true)
	require.Nil(t, merr)
	assert.Equal(t, lexerr.OK, res.Code)
	assert.Equal(t, 3, res.Length)
}

func TestMatchCatBelowMinNoMatch(t *testing.T) {
	g := defgraph.NewGraph()
	id, _ := g.NewCat("digits", category.Num, 2, -1)
	def, _ := g.FindByID(id)

	res, merr := match.Match(g, def, []byte("1abc"), true)
	require.Nil(t, merr)
	assert.Equal(t, lexerr.NoMatch, res.Code)
}

func TestMatchCatNeedsMoreAtBoundary(t *testing.T) {
	g := defgraph.NewGraph()
	id, _ := g.NewCat("digits", category.Num, 1, -1)
	def, _ := g.FindByID(id)

	res, merr := match.Match(g, def, []byte("12"), false)
	require.Nil(t, merr)
	assert.Equal(t, lexerr.NeedMore, res.Code)
}

func TestMatchLiteralExact(t *testing.T) {
	g := defgraph.NewGraph()
	id, err := g.NewLiteral("kw", []byte("func"), unit.NewQuad())
	require.Nil(t, err)
	def, _ := g.FindByID(id)

	res, merr := match.Match(g, def, []byte("func x"), true)
	require.Nil(t, merr)
	assert.Equal(t, lexerr.OK, res.Code)
	assert.Equal(t, 4, res.Length)
}

func TestMatchLiteralNeedsMore(t *testing.T) {
	g := defgraph.NewGraph()
	id, _ := g.NewLiteral("kw", []byte("func"), unit.NewQuad())
	def, _ := g.FindByID(id)

	res, merr := match.Match(g, def, []byte("fu"), false)
	require.Nil(t, merr)
	assert.Equal(t, lexerr.NeedMore, res.Code)
}

func TestMatchLiteralMismatch(t *testing.T) {
	g := defgraph.NewGraph()
	id, _ := g.NewLiteral("kw", []byte("func"), unit.NewQuad())
	def, _ := g.FindByID(id)

	res, merr := match.Match(g, def, []byte("xunc"), true)
	require.Nil(t, merr)
	assert.Equal(t, lexerr.NoMatch, res.Code)
}

// stubMatcher is a fixed-length-match fake satisfying defgraph.Matcher,
// standing in for a compiled coregex pattern in isolation from the
// defgraph/match boundary.
type stubMatcher struct {
	n  int
	ok bool
}

func (s stubMatcher) FindAnchored(b []byte) (int, bool) {
	if !s.ok || s.n > len(b) {
		return 0, false
	}
	return s.n, true
}

func TestMatchRegexDelegatesAndAligns(t *testing.T) {
	g := defgraph.NewGraph()
	id, err := g.NewRegex("word", "[a-z]+", stubMatcher{n: 3, ok: true})
	require.Nil(t, err)
	def, _ := g.FindByID(id)

	res, merr := match.Match(g, def, []byte("abcdef"), true)
	require.Nil(t, merr)
	assert.Equal(t, lexerr.OK, res.Code)
	assert.Equal(t, 3, res.Length)
}

func TestMatchRegexNoMatch(t *testing.T) {
	g := defgraph.NewGraph()
	id, _ := g.NewRegex("word", "[a-z]+", stubMatcher{ok: false})
	def, _ := g.FindByID(id)

	res, merr := match.Match(g, def, []byte("123"), true)
	require.Nil(t, merr)
	assert.Equal(t, lexerr.NoMatch, res.Code)
}

func TestMatchMultiSequence(t *testing.T) {
	g := defgraph.NewGraph()
	letter, _ := g.NewCat("letter", category.Letter, 1, 1)
	digit, _ := g.NewCat("digit", category.Num, 0, -1)
	multi, err := g.NewMulti("ident", defgraph.Sequence, defgraph.NoDef)
	require.Nil(t, err)
	_, err = g.AddReference(multi, "letter", 1, 1)
	require.Nil(t, err)
	_, err = g.AddReference(multi, "digit", 0, -1)
	require.Nil(t, err)
	require.Nil(t, g.Resolve())

	def, _ := g.FindByID(multi)
	res, merr := match.Match(g, def, []byte("a123!"), true)
	require.Nil(t, merr)
	assert.Equal(t, lexerr.OK, res.Code)
	assert.Equal(t, 4, res.Length)
	require.Len(t, res.Subs, 2)

	_ = letter
	_ = digit
}

func TestMatchMultiOrPicksFirstAlternative(t *testing.T) {
	g := defgraph.NewGraph()
	kwFunc, _ := g.NewLiteral("kwFunc", []byte("func"), unit.NewQuad())
	kwFor, _ := g.NewLiteral("kwFor", []byte("for"), unit.NewQuad())
	multi, _ := g.NewMulti("keyword", defgraph.Or, defgraph.NoDef)
	_, _ = g.AddReference(multi, "kwFunc", 1, 1)
	_, _ = g.AddReference(multi, "kwFor", 1, 1)
	require.Nil(t, g.Resolve())

	def, _ := g.FindByID(multi)
	res, merr := match.Match(g, def, []byte("for x"), true)
	require.Nil(t, merr)
	assert.Equal(t, lexerr.OK, res.Code)
	assert.Equal(t, 3, res.Length)

	_ = kwFunc
	_ = kwFor
}

func TestMatchMultiOrRejectsZeroLengthAlternative(t *testing.T) {
	g := defgraph.NewGraph()
	digit, _ := g.NewCat("digit", category.Num, 0, -1)
	letter, _ := g.NewCat("letter", category.Letter, 1, 1)
	multi, _ := g.NewMulti("tok", defgraph.Or, defgraph.NoDef)
	_, _ = g.AddReference(multi, "digit", 0, -1)
	_, _ = g.AddReference(multi, "letter", 1, 1)
	require.Nil(t, g.Resolve())

	def, _ := g.FindByID(multi)
	res, merr := match.Match(g, def, []byte("a"), true)
	require.Nil(t, merr)
	assert.Equal(t, lexerr.OK, res.Code)
	assert.Equal(t, 1, res.Length)

	_ = digit
	_ = letter
}

func TestMatchMultiSequenceNoMatch(t *testing.T) {
	g := defgraph.NewGraph()
	_, _ = g.NewCat("letter", category.Letter, 1, 1)
	multi, _ := g.NewMulti("ident", defgraph.Sequence, defgraph.NoDef)
	_, _ = g.AddReference(multi, "letter", 1, 1)
	require.Nil(t, g.Resolve())

	def, _ := g.FindByID(multi)
	res, merr := match.Match(g, def, []byte("123"), true)
	require.Nil(t, merr)
	assert.Equal(t, lexerr.NoMatch, res.Code)
}
