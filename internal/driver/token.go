package driver

import (
	"github.com/db47h/utf8lex/internal/defgraph"
	"github.com/db47h/utf8lex/internal/unit"
)

// SubToken is one captured child of a MULTI rule's match (spec.md §4.4):
// the Reference that matched, the Definition it resolved to, the exact
// bytes it consumed and their Quad, and any further nested captures.
type SubToken struct {
	Ref   defgraph.RefID
	Def   defgraph.DefID
	Quad  unit.Quad
	Bytes []byte
	Subs  []SubToken
}

// Token is one unit of lexer output: the Rule that matched, the bytes it
// consumed, their Quad (byte/char/grapheme/line position and extent) and,
// for a MULTI rule, the sub-token capture tree (spec.md §3, §4.6).
type Token struct {
	Rule  defgraph.RuleID
	Quad  unit.Quad
	Bytes []byte
	Subs  []SubToken
}
