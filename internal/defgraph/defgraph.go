// Package defgraph implements the definition/reference/rule graph
// (spec.md §3, §4.4): four definition kinds (CAT, LITERAL, REGEX, MULTI),
// References binding a MULTI to another definition by name, and a Rule
// registry giving declaration-order priority.
//
// Per DESIGN NOTES §9 ("intrusive doubly linked registries → ownership +
// index"), every registry is a contiguous slice; prev/next are int32
// handles into that slice rather than pointers, and id *is* the index —
// find-by-id is O(1). find-by-name stays the bounded linear scan spec.md
// §4.4 calls for (exceeding MaxDefinitions while scanning is itself the
// "cycle" error the spec wants distinguished from a plain not-found).
package defgraph

import (
	"github.com/db47h/utf8lex/internal/category"
	"github.com/db47h/utf8lex/internal/lexerr"
	"github.com/db47h/utf8lex/internal/unit"
)

// Caps from spec.md §3.
const (
	MaxDefinitions = 1024
	MaxReferences  = 256
	MaxSubTokens   = 256
	MaxDepth       = 256
)

// Kind is the definition kind tag, DESIGN NOTES §9 "tagged sum".
type Kind int

const (
	Cat Kind = iota
	Literal
	Regex
	Multi
)

func (k Kind) String() string {
	switch k {
	case Cat:
		return "CAT"
	case Literal:
		return "LITERAL"
	case Regex:
		return "REGEX"
	case Multi:
		return "MULTI"
	default:
		return "?"
	}
}

// MultiType distinguishes a MULTI's composition semantics.
type MultiType int

const (
	Sequence MultiType = iota
	Or
)

// DefID is a handle into Graph.defs; it is also the definition's spec.md
// "id" field, assigned monotonically from 0.
type DefID int32

const NoDef DefID = -1

// RefID is a handle into Graph.refs.
type RefID int32

const NoRef RefID = -1

// RuleID is a handle into Graph.rules.
type RuleID int32

const NoRule RuleID = -1

// CatData holds CAT-kind fields.
type CatData struct {
	Mask category.Bits
	Min  int
	Max  int // -1 == unbounded
}

// LiteralData holds LITERAL-kind fields: the exact byte string, and its
// precomputed per-unit Location so a literal spanning a line break need
// not be re-scanned by the matcher. Computed unconditionally at
// construction time (NewLiteral is the only construction site), closing
// the open question in spec.md §9 about some paths leaving it unset.
type LiteralData struct {
	Bytes []byte
	Loc   unit.Quad
}

// RegexData holds REGEX-kind fields: the source pattern and a compiled
// matcher, abstracted behind the Matcher interface (DESIGN NOTES §9:
// "compiled regex handle ... abstract as a trait") so that the engine
// backing it (github.com/coregx/coregex in this implementation) is not
// baked into defgraph's public surface.
type RegexData struct {
	Source  string
	Matcher Matcher
}

// Matcher is the minimal regex contract the matching engine needs:
// an anchored-at-offset-0 match against a byte prefix.
type Matcher interface {
	// FindAnchored returns the byte length of a match starting at
	// position 0 of b, or (0, false) if there is none.
	FindAnchored(b []byte) (n int, ok bool)
}

// MultiData holds MULTI-kind fields.
type MultiData struct {
	Type        MultiType
	Head        RefID // head of this multi's reference list
	Children    *Graph // nested sub-expression registry, or nil
	Parent      DefID  // NoDef if top-level
	resolved    bool
}

// Definition is one node of the definition registry.
type Definition struct {
	ID         DefID
	Name       string
	prev, next DefID

	Kind    Kind
	Cat     CatData
	Literal LiteralData
	Regex   RegexData
	MultiD  MultiData
}

// Reference is an edge from a MULTI to another Definition, by name.
type Reference struct {
	ID         RefID
	prev, next RefID
	Parent     DefID

	DefName string
	Def     DefID // NoDef until resolved
	Min     int
	Max     int // -1 == unbounded
}

// Rule is a registry entry pairing a Definition with opaque host-language
// code; declaration order is matching priority (spec.md §3).
type Rule struct {
	ID         RuleID
	prev, next RuleID
	Name       string
	Def        DefID
	Code       []byte
}

// Graph owns the definition, reference and rule registries for one spec
// (or one MULTI's nested children).
type Graph struct {
	defs     []Definition
	defHead  DefID
	defTail  DefID
	byName   map[string]DefID

	refs    []Reference
	refHead map[DefID]RefID // head ref per owning multi, for O(1) append

	rules    []Rule
	ruleHead RuleID
	ruleTail RuleID
}

// NewGraph returns an empty Graph.
func NewGraph() *Graph {
	return &Graph{
		defHead:  NoDef,
		defTail:  NoDef,
		byName:   make(map[string]DefID),
		refHead:  make(map[DefID]RefID),
		ruleHead: NoRule,
		ruleTail: NoRule,
	}
}

func (g *Graph) appendDef(d *Definition) (*Definition, *lexerr.Error) {
	if len(g.defs) >= MaxDefinitions {
		return nil, lexerr.New(lexerr.ErrArenaFull)
	}
	d.ID = DefID(len(g.defs))
	d.prev = g.defTail
	d.next = NoDef
	g.defs = append(g.defs, *d)
	if g.defTail != NoDef {
		g.defs[g.defTail].next = d.ID
	} else {
		g.defHead = d.ID
	}
	g.defTail = d.ID
	if d.Name != "" {
		g.byName[d.Name] = d.ID
	}
	return &g.defs[d.ID], nil
}

// NewCat appends a new CAT definition.
func (g *Graph) NewCat(name string, mask category.Bits, min, max int) (DefID, *lexerr.Error) {
	if min < 0 || (max != -1 && max < min) {
		return NoDef, lexerr.New(lexerr.BadMin)
	}
	d, err := g.appendDef(&Definition{Name: name, Kind: Cat, Cat: CatData{Mask: mask, Min: min, Max: max}})
	if err != nil {
		return NoDef, err
	}
	return d.ID, nil
}

// NewLiteral appends a new LITERAL definition. An empty body is rejected
// (spec.md §8 "empty literal definition → empty-definition error").
func (g *Graph) NewLiteral(name string, body []byte, loc unit.Quad) (DefID, *lexerr.Error) {
	if len(body) == 0 {
		return NoDef, lexerr.New(lexerr.ErrEmptyDefinition)
	}
	d, err := g.appendDef(&Definition{Name: name, Kind: Literal, Literal: LiteralData{Bytes: body, Loc: loc}})
	if err != nil {
		return NoDef, err
	}
	return d.ID, nil
}

// NewRegex appends a new REGEX definition.
func (g *Graph) NewRegex(name, source string, m Matcher) (DefID, *lexerr.Error) {
	d, err := g.appendDef(&Definition{Name: name, Kind: Regex, Regex: RegexData{Source: source, Matcher: m}})
	if err != nil {
		return NoDef, err
	}
	return d.ID, nil
}

// NewMulti appends a new MULTI definition with no references yet.
func (g *Graph) NewMulti(name string, typ MultiType, parent DefID) (DefID, *lexerr.Error) {
	d, err := g.appendDef(&Definition{Name: name, Kind: Multi, MultiD: MultiData{Type: typ, Head: NoRef, Parent: parent}})
	if err != nil {
		return NoDef, err
	}
	return d.ID, nil
}

// AddReference appends a Reference to multi's list, quantified [min,max].
func (g *Graph) AddReference(multi DefID, defName string, min, max int) (RefID, *lexerr.Error) {
	m := &g.defs[multi]
	if m.Kind != Multi {
		return NoRef, lexerr.New(lexerr.ErrDefinitionType)
	}
	count := 0
	for r := g.refHead[multi]; r != NoRef; r = g.refs[r].next {
		count++
	}
	if count >= MaxReferences {
		return NoRef, lexerr.New(lexerr.ErrArenaFull)
	}
	if min < 0 || (max != -1 && max < min) {
		return NoRef, lexerr.New(lexerr.BadMin)
	}
	id := RefID(len(g.refs))
	prev := NoRef
	if head, ok := g.refHead[multi]; ok && head != NoRef {
		p := head
		for g.refs[p].next != NoRef {
			p = g.refs[p].next
		}
		prev = p
	}
	ref := Reference{ID: id, prev: prev, next: NoRef, Parent: multi, DefName: defName, Def: NoDef, Min: min, Max: max}
	g.refs = append(g.refs, ref)
	if prev == NoRef {
		g.refHead[multi] = id
		m.MultiD.Head = id
	} else {
		g.refs[prev].next = id
	}
	return id, nil
}

// References returns multi's reference list in declaration order.
func (g *Graph) References(multi DefID) []RefID {
	var out []RefID
	for r := g.refHead[multi]; r != NoRef; r = g.refs[r].next {
		out = append(out, r)
	}
	return out
}

// Reference returns a copy of the reference at id.
func (g *Graph) Reference(id RefID) Reference { return g.refs[id] }

// Def returns a pointer to the definition at id (not a copy).
func (g *Graph) Def(id DefID) *Definition { return &g.defs[id] }

// FindByName performs the bounded linear scan spec.md §4.4 specifies.
// Exceeding MaxDefinitions while scanning indicates registry corruption
// (a next-chain cycle) and is reported distinctly from a plain miss.
func (g *Graph) FindByName(name string) (DefID, *lexerr.Error) {
	n := 0
	for id := g.defHead; id != NoDef; id = g.defs[id].next {
		n++
		if n > MaxDefinitions {
			return NoDef, lexerr.New(lexerr.ErrInfiniteLoop)
		}
		if g.defs[id].Name == name {
			return id, nil
		}
	}
	return NoDef, lexerr.New(lexerr.ErrNotFound).WithName(name)
}

// FindByID returns the definition at id if it exists in the registry.
func (g *Graph) FindByID(id DefID) (*Definition, *lexerr.Error) {
	if id < 0 || int(id) >= len(g.defs) {
		return nil, lexerr.New(lexerr.BadID)
	}
	return &g.defs[id], nil
}

// Definitions returns the full definition list in declaration (id) order.
func (g *Graph) Definitions() []Definition { return g.defs }

// AppendRule appends a new Rule.
func (g *Graph) AppendRule(name string, def DefID, code []byte) (RuleID, *lexerr.Error) {
	if _, err := g.FindByID(def); err != nil {
		return NoRule, err
	}
	id := RuleID(len(g.rules))
	r := Rule{ID: id, prev: g.ruleTail, next: NoRule, Name: name, Def: def, Code: code}
	g.rules = append(g.rules, r)
	if g.ruleTail != NoRule {
		g.rules[g.ruleTail].next = id
	} else {
		g.ruleHead = id
	}
	g.ruleTail = id
	return id, nil
}

// Rules returns the rule list in declaration order (matching priority).
func (g *Graph) Rules() []Rule { return g.rules }

// Resolve walks every MULTI definition in declaration order and binds
// each of its References by name (spec.md §4.4). It returns on the first
// unresolved name, wrapped as ErrUnresolvedDefinition.
func (g *Graph) Resolve() *lexerr.Error {
	for i := range g.defs {
		d := &g.defs[i]
		if d.Kind != Multi || d.MultiD.resolved {
			continue
		}
		if err := g.resolveMulti(d, 0); err != nil {
			return err
		}
	}
	return nil
}

func (g *Graph) resolveMulti(d *Definition, depth int) *lexerr.Error {
	if depth > MaxDepth {
		return lexerr.New(lexerr.ErrDepthCap)
	}
	for r := g.refHead[d.ID]; r != NoRef; r = g.refs[r].next {
		ref := &g.refs[r]
		if ref.Def != NoDef {
			continue
		}
		target, err := g.FindByName(ref.DefName)
		if err != nil {
			return lexerr.New(lexerr.ErrUnresolvedDefinition).WithName(ref.DefName)
		}
		ref.Def = target
		if tgt := &g.defs[target]; tgt.Kind == Multi && !tgt.MultiD.resolved {
			if err := g.resolveMulti(tgt, depth+1); err != nil {
				return err
			}
		}
	}
	d.MultiD.resolved = true
	return nil
}

// IsResolved reports whether every Reference owned (transitively) by
// multi has been bound (spec.md §8 invariant 3).
func (g *Graph) IsResolved(multi DefID) bool {
	d := &g.defs[multi]
	return d.Kind == Multi && d.MultiD.resolved
}
