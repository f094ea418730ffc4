package defgraph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/db47h/utf8lex/internal/category"
	"github.com/db47h/utf8lex/internal/defgraph"
	"github.com/db47h/utf8lex/internal/lexerr"
	"github.com/db47h/utf8lex/internal/unit"
)

func TestNewCatAndFindByName(t *testing.T) {
	g := defgraph.NewGraph()
	id, err := g.NewCat("letter", category.Letter, 1, -1)
	require.Nil(t, err)

	got, err := g.FindByName("letter")
	require.Nil(t, err)
	assert.Equal(t, id, got)

	d, err := g.FindByID(id)
	require.Nil(t, err)
	assert.Equal(t, defgraph.Cat, d.Kind)
}

func TestNewLiteralRejectsEmptyBody(t *testing.T) {
	g := defgraph.NewGraph()
	_, err := g.NewLiteral("empty", nil, unit.NewQuad())
	require.NotNil(t, err)
	assert.Equal(t, lexerr.ErrEmptyDefinition, err.Code)
}

func TestFindByNameNotFound(t *testing.T) {
	g := defgraph.NewGraph()
	_, err := g.FindByName("nope")
	require.NotNil(t, err)
	assert.Equal(t, lexerr.ErrNotFound, err.Code)
}

func TestResolveBindsReferencesInOrder(t *testing.T) {
	g := defgraph.NewGraph()
	letter, _ := g.NewCat("letter", category.Letter, 1, 1)
	digit, _ := g.NewCat("digit", category.Num, 1, 1)
	multi, err := g.NewMulti("ident", defgraph.Sequence, defgraph.NoDef)
	require.Nil(t, err)

	_, err = g.AddReference(multi, "letter", 1, 1)
	require.Nil(t, err)
	_, err = g.AddReference(multi, "digit", 0, -1)
	require.Nil(t, err)

	require.Nil(t, g.Resolve())
	assert.True(t, g.IsResolved(multi))

	refs := g.References(multi)
	require.Len(t, refs, 2)
	assert.Equal(t, letter, g.Reference(refs[0]).Def)
	assert.Equal(t, digit, g.Reference(refs[1]).Def)
}

func TestResolveUnresolvedNameFails(t *testing.T) {
	g := defgraph.NewGraph()
	multi, _ := g.NewMulti("x", defgraph.Or, defgraph.NoDef)
	_, err := g.AddReference(multi, "missing", 1, 1)
	require.Nil(t, err)

	err = g.Resolve()
	require.NotNil(t, err)
	assert.Equal(t, lexerr.ErrUnresolvedDefinition, err.Code)
}

func TestAddReferenceRejectsNonMulti(t *testing.T) {
	g := defgraph.NewGraph()
	cat, _ := g.NewCat("letter", category.Letter, 1, 1)
	_, err := g.AddReference(cat, "x", 1, 1)
	require.NotNil(t, err)
	assert.Equal(t, lexerr.ErrDefinitionType, err.Code)
}

func TestAppendRuleDeclarationOrder(t *testing.T) {
	g := defgraph.NewGraph()
	a, _ := g.NewCat("a", category.Letter, 1, 1)
	b, _ := g.NewCat("b", category.Num, 1, 1)

	r1, err := g.AppendRule("ruleA", a, []byte("emitA()"))
	require.Nil(t, err)
	r2, err := g.AppendRule("ruleB", b, []byte("emitB()"))
	require.Nil(t, err)

	rules := g.Rules()
	require.Len(t, rules, 2)
	assert.Equal(t, r1, rules[0].ID)
	assert.Equal(t, r2, rules[1].ID)
	assert.Equal(t, "ruleA", rules[0].Name)
}

func TestFindByIDOutOfRange(t *testing.T) {
	g := defgraph.NewGraph()
	_, err := g.FindByID(defgraph.DefID(99))
	require.NotNil(t, err)
	assert.Equal(t, lexerr.BadID, err.Code)
}
