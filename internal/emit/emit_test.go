package emit

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/db47h/utf8lex/internal/category"
	"github.com/db47h/utf8lex/internal/defgraph"
	"github.com/db47h/utf8lex/internal/unit"
)

func sampleGraph(t *testing.T) *defgraph.Graph {
	t.Helper()
	g := defgraph.NewGraph()

	digit, err := g.NewCat("digit", category.Nd, 1, -1)
	require.Nil(t, err)

	kw, err := g.NewLiteral("kw", []byte("func"), unit.NewQuad())
	require.Nil(t, err)

	ident, err := g.NewMulti("ident", defgraph.Sequence, defgraph.NoDef)
	require.Nil(t, err)
	_, err = g.AddReference(ident, "digit", 1, -1)
	require.Nil(t, err)

	require.Nil(t, g.Resolve())

	_, rerr := g.AppendRule("rule_0", digit, []byte(`emitDigit()`))
	require.Nil(t, rerr)
	_, rerr = g.AppendRule("rule_1", kw, []byte(`emitKw()`))
	require.Nil(t, rerr)
	_, rerr = g.AppendRule("rule_2", ident, []byte(`emitIdent()`))
	require.Nil(t, rerr)

	return g
}

func TestWriteEmitsAllEightSteps(t *testing.T) {
	g := sampleGraph(t)
	in := Input{
		Package:  "sample",
		Graph:    g,
		HeadCode: []byte("var headMarker = true\n"),
		TailCode: []byte("var tailMarker = true\n"),
	}

	var buf bytes.Buffer
	err := write(&buf, in)
	require.Nil(t, err)
	src := buf.String()

	assert.Contains(t, src, "package sample")
	assert.Contains(t, src, "headMarker")
	assert.Contains(t, src, "tailMarker")
	assert.Contains(t, src, "runtime.NewCat(g, \"digit\"")
	assert.Contains(t, src, "runtime.NewLiteral(g, \"kw\"")
	assert.Contains(t, src, "runtime.NewMulti(g, \"ident\"")
	assert.Contains(t, src, "runtime.AddReference(g, defRegistry[2], \"digit\"")
	assert.Contains(t, src, "runtime.Resolve(g)")
	assert.Contains(t, src, "runtime.AppendRule(g, \"rule_0\"")
	assert.Contains(t, src, "func Dispatch(rule runtime.RuleID")
	assert.Contains(t, src, "emitDigit()")
	assert.Contains(t, src, "emitKw()")
	assert.Contains(t, src, "emitIdent()")
	assert.Contains(t, src, "default:\n\t\treturn YYerror")

	// import block and order: head comes before registry decls, which
	// come before dispatch, which comes before tail.
	assert.True(t, strings.Index(src, "headMarker") < strings.Index(src, "defRegistry"))
	assert.True(t, strings.Index(src, "func Dispatch") < strings.Index(src, "tailMarker"))
}

func TestEscapeStringAppliesFixedTable(t *testing.T) {
	in := "a\\b\n\t\"c\""
	out := escapeString(in)
	assert.Equal(t, `a\\b\n\t\"c\"`, out)
}

func TestCheckCountsDetectsMismatch(t *testing.T) {
	defs := []defgraph.Definition{{Kind: defgraph.Cat}, {Kind: defgraph.Literal}}
	counts := map[defgraph.Kind]int{defgraph.Cat: 1}
	err := checkCounts(defs, counts)
	require.NotNil(t, err)
}
