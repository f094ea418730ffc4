package specparse_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/db47h/utf8lex/internal/defgraph"
	"github.com/db47h/utf8lex/internal/lexerr"
	"github.com/db47h/utf8lex/internal/specparse"
)

const sampleSpec = `letter [a-zA-Z]
digit [0-9]
ident letter+
kw "func"
%%
ident { emitIdent() }
kw { emitKw() }
digit { emitDigit() }
%%
// tail code follows verbatim
`

func TestParseBuildsGraphAndRules(t *testing.T) {
	res, err := specparse.Parse("sample.l", []byte(sampleSpec))
	require.Nil(t, err)
	require.NotNil(t, res.Graph)

	ident, ferr := res.Graph.FindByName("ident")
	require.Nil(t, ferr)
	def, ferr := res.Graph.FindByID(ident)
	require.Nil(t, ferr)
	assert.Equal(t, defgraph.Multi, def.Kind)
	assert.True(t, res.Graph.IsResolved(ident))

	rules := res.Graph.Rules()
	require.Len(t, rules, 3)
	assert.Equal(t, "rule_0", rules[0].Name)
	assert.Equal(t, "emitIdent()", string(rules[0].Code))

	assert.Contains(t, string(res.TailCode), "tail code follows verbatim")
}

func TestParseRejectsMissingSectionSeparators(t *testing.T) {
	_, err := specparse.Parse("bad.l", []byte("letter [a-z]\n"))
	require.NotNil(t, err)
}

func TestParseRejectsBareRuleWithoutCode(t *testing.T) {
	src := "letter [a-zA-Z]\n%%\nletter\n%%\n"
	_, err := specparse.Parse("bad.l", []byte(src))
	require.NotNil(t, err)
}

func TestParseLiteralDefinition(t *testing.T) {
	res, err := specparse.Parse("kw.l", []byte(sampleSpec))
	require.Nil(t, err)
	id, ferr := res.Graph.FindByName("kw")
	require.Nil(t, ferr)
	def, _ := res.Graph.FindByID(id)
	assert.Equal(t, defgraph.Literal, def.Kind)
	assert.Equal(t, "func", string(def.Literal.Bytes))
}

func TestParsePassesThroughHeaderBlock(t *testing.T) {
	src := "%{\npackage sample\n%}\nletter [a-zA-Z]\n%%\nletter { emit() }\n%%\n"
	res, err := specparse.Parse("head.l", []byte(src))
	require.Nil(t, err)
	assert.Contains(t, string(res.HeadCode), "package sample")
}

func TestParseAllowsUnderscoreAndDigitsInIdentifiers(t *testing.T) {
	src := "NUM1 [0-9]+\n_foo NUM1+\nmy_rule2 _foo+\n%%\nmy_rule2 { emit() }\n%%\n"
	res, err := specparse.Parse("ident.l", []byte(src))
	require.Nil(t, err)

	for _, name := range []string{"NUM1", "_foo", "my_rule2"} {
		_, ferr := res.Graph.FindByName(name)
		assert.Nil(t, ferr, "expected definition %q to exist", name)
	}
}

func TestParseRejectsOverlongDefinitionName(t *testing.T) {
	long := make([]byte, 65)
	for i := range long {
		long[i] = 'a'
	}
	src := string(long) + " [a-z]\n%%\n" + string(long) + " { emit() }\n%%\n"
	_, err := specparse.Parse("longname.l", []byte(src))
	require.NotNil(t, err)
	assert.Equal(t, lexerr.ErrNameTooLong, err.Code)
}

func TestParseRejectsOverlongLiteralBody(t *testing.T) {
	long := make([]byte, 257)
	for i := range long {
		long[i] = 'x'
	}
	src := "kw \"" + string(long) + "\"\n%%\nkw { emit() }\n%%\n"
	_, err := specparse.Parse("longlit.l", []byte(src))
	require.NotNil(t, err)
	assert.Equal(t, lexerr.ErrBodyTooLong, err.Code)
}
