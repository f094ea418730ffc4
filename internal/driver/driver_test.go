package driver_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/db47h/utf8lex/internal/buffer"
	"github.com/db47h/utf8lex/internal/category"
	"github.com/db47h/utf8lex/internal/defgraph"
	"github.com/db47h/utf8lex/internal/driver"
	"github.com/db47h/utf8lex/internal/lexerr"
	"github.com/db47h/utf8lex/internal/unit"
)

func newGraph(t *testing.T) *defgraph.Graph {
	t.Helper()
	g := defgraph.NewGraph()
	ident, err := g.NewCat("letters", category.Letter, 1, -1)
	require.Nil(t, err)
	ws, err := g.NewCat("space", category.Whitespace, 1, -1)
	require.Nil(t, err)

	_, err = g.AppendRule("IDENT", ident, []byte("emitIdent()"))
	require.Nil(t, err)
	_, err = g.AppendRule("SPACE", ws, []byte("skip()"))
	require.Nil(t, err)
	return g
}

func TestNextTokenizesTwoRules(t *testing.T) {
	g := newGraph(t)
	buf, err := buffer.Bind(buffer.NewString([]byte("foo bar")), true, nil)
	require.Nil(t, err)
	s := driver.NewState(g, buf, driver.Config{})

	tok, derr := s.Next()
	require.Nil(t, derr)
	assert.Equal(t, "foo", string(tok.Bytes))

	tok, derr = s.Next()
	require.Nil(t, derr)
	assert.Equal(t, " ", string(tok.Bytes))

	tok, derr = s.Next()
	require.Nil(t, derr)
	assert.Equal(t, "bar", string(tok.Bytes))

	_, derr = s.Next()
	require.NotNil(t, derr)
	assert.Equal(t, lexerr.EOF, derr.Code)
}

func TestNextFirstTokenStartsAtZero(t *testing.T) {
	g := newGraph(t)
	buf, err := buffer.Bind(buffer.NewString([]byte("foo bar")), true, nil)
	require.Nil(t, err)
	s := driver.NewState(g, buf, driver.Config{})

	assert.Equal(t, 0, s.Pos()[unit.Byte].Start)

	tok, derr := s.Next()
	require.Nil(t, derr)
	assert.Equal(t, 0, tok.Quad[unit.Byte].Start)
	assert.True(t, tok.Quad[unit.Byte].IsValid())

	tok, derr = s.Next()
	require.Nil(t, derr)
	assert.Equal(t, 3, tok.Quad[unit.Byte].Start)
}

func TestNextReportsNoMatchOnUnrecognisedInput(t *testing.T) {
	g := newGraph(t)
	buf, err := buffer.Bind(buffer.NewString([]byte("123")), true, nil)
	require.Nil(t, err)
	s := driver.NewState(g, buf, driver.Config{})

	_, derr := s.Next()
	require.NotNil(t, derr)
	assert.Equal(t, lexerr.NoMatch, derr.Code)
}

func TestNextReportsNeedMoreAtChainTail(t *testing.T) {
	g := newGraph(t)
	buf, err := buffer.Bind(buffer.NewString([]byte("foo")), false, nil)
	require.Nil(t, err)
	s := driver.NewState(g, buf, driver.Config{})

	_, derr := s.Next()
	require.NotNil(t, derr)
	assert.Equal(t, lexerr.NeedMore, derr.Code)
}

func TestNextAdvancesQuadAcrossLines(t *testing.T) {
	g := newGraph(t)
	buf, err := buffer.Bind(buffer.NewString([]byte("ab\ncd")), true, nil)
	require.Nil(t, err)
	s := driver.NewState(g, buf, driver.Config{})

	tok, derr := s.Next()
	require.Nil(t, derr)
	assert.Equal(t, "ab", string(tok.Bytes))

	tok, derr = s.Next()
	require.Nil(t, derr)
	assert.Equal(t, "\n", string(tok.Bytes))
	assert.Equal(t, 0, tok.Quad[unit.Char].After)

	tok, derr = s.Next()
	require.Nil(t, derr)
	assert.Equal(t, "cd", string(tok.Bytes))
}
