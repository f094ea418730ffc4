// Package emit implements the emitter (spec.md §4.8): it walks a resolved
// *defgraph.Graph and a specparse.Result's head/tail code and writes a
// self-contained Go source file that reconstructs the same graph at
// init() time via the runtime package, plus a rule-dispatch function.
//
// Emission is direct io.Writer/fmt.Fprintf codegen, grounded on the
// retrieved nex lexer generator's generator.go (heavy Fprintf into a
// *bufio.Writer, one os.Create per output file) rather than text/template
// — the output shape here is simple enough that template indirection
// would not pay for itself (see DESIGN.md).
package emit

import (
	"bytes"
	"fmt"
	"go/format"
	"os"

	"github.com/db47h/utf8lex/internal/defgraph"
	"github.com/db47h/utf8lex/internal/lexerr"
	"github.com/db47h/utf8lex/internal/unit"
)

// Input bundles what Emit needs beyond the graph: the package name for
// the generated file and the verbatim head/tail blocks a Parse produced.
type Input struct {
	Package  string
	Graph    *defgraph.Graph
	HeadCode []byte
	TailCode []byte
}

// Emit writes the generated lexer source for in to path, formatting it
// with go/format.Source before writing. On any error the partially
// written file is removed; nothing is left behind but a clean failure.
func Emit(path string, in Input) *lexerr.Error {
	var buf bytes.Buffer
	if err := write(&buf, in); err != nil {
		return err
	}

	formatted, ferr := format.Source(buf.Bytes())
	if ferr != nil {
		return lexerr.Newf(lexerr.ErrParse, "formatting generated source: %v", ferr)
	}

	f, oerr := os.Create(path)
	if oerr != nil {
		return lexerr.Newf(lexerr.ErrFileOpen, "%v", oerr)
	}
	ok := false
	defer func() {
		f.Close()
		if !ok {
			os.Remove(path)
		}
	}()
	if _, werr := f.Write(formatted); werr != nil {
		return lexerr.Newf(lexerr.ErrFileWrite, "%v", werr)
	}
	ok = true
	return nil
}

// write performs the 8-step emission order of spec.md §4.8 against out.
func write(out *bytes.Buffer, in Input) *lexerr.Error {
	defs := in.Graph.Definitions()
	rules := in.Graph.Rules()

	fmt.Fprintf(out, "// Code generated by utf8lex. DO NOT EDIT.\n\n")
	fmt.Fprintf(out, "package %s\n\n", pkgName(in.Package))
	fmt.Fprintf(out, "import (\n\t\"errors\"\n\n\t\"github.com/db47h/utf8lex/runtime\"\n)\n\n")
	fmt.Fprintf(out, "// YYerror is returned by Dispatch for a rule id with no matching case,\n")
	fmt.Fprintf(out, "// which should only happen if Graph and Dispatch fall out of sync.\n")
	fmt.Fprintf(out, "var YYerror = errors.New(\"utf8lex: no dispatch case for matched rule\")\n\n")

	// 1. head bytes, verbatim.
	if len(in.HeadCode) > 0 {
		out.Write(in.HeadCode)
		fmt.Fprintf(out, "\n")
	}

	// 2. typed registry declaration per definition kind, with declared
	// counts a mismatch against during emission is itself an internal
	// error (spec.md §4.8 closing paragraph).
	counts := countByKind(defs)
	if err := checkCounts(defs, counts); err != nil {
		return err
	}
	fmt.Fprintf(out, "// Graph is the definition/reference/rule registry this package builds\n")
	fmt.Fprintf(out, "// at init time: %d CAT, %d LITERAL, %d REGEX, %d MULTI, %d rules.\n",
		counts[defgraph.Cat], counts[defgraph.Literal], counts[defgraph.Regex], counts[defgraph.Multi], len(rules))
	fmt.Fprintf(out, "var Graph *runtime.Graph\n\n")
	fmt.Fprintf(out, "var defRegistry [%d]runtime.DefID\n", len(defs))
	fmt.Fprintf(out, "var ruleRegistry [%d]runtime.RuleID\n\n", len(rules))

	fmt.Fprintf(out, "func init() {\n")
	fmt.Fprintf(out, "\tg := runtime.NewGraph()\n")
	fmt.Fprintf(out, "\tGraph = g\n")
	fmt.Fprintf(out, "\tvar err error\n\n")

	// 3. initializer reconstructing every definition in registry (id)
	// order, binding prev implicitly through sequential registration.
	for i := range defs {
		d := &defs[i]
		if err := emitDefInit(out, d); err != nil {
			return err
		}
	}
	fmt.Fprintf(out, "\n")

	// 4. per-multi reference lists, multi as parent, preceding ref as
	// prev — both handled internally by runtime.AddReference's
	// append-ordered registry, so emission is just declaration order.
	for i := range defs {
		d := &defs[i]
		if d.Kind != defgraph.Multi {
			continue
		}
		for _, rid := range in.Graph.References(d.ID) {
			ref := in.Graph.Reference(rid)
			fmt.Fprintf(out, "\tif _, err = runtime.AddReference(g, defRegistry[%d], %s, %d, %d); err != nil {\n",
				d.ID, quoteString(ref.DefName), ref.Min, ref.Max)
			fmt.Fprintf(out, "\t\tpanic(err)\n\t}\n")
		}
	}
	fmt.Fprintf(out, "\n")

	// 5. resolve pass, declaration order is implicit in Graph.Resolve.
	fmt.Fprintf(out, "\tif err = runtime.Resolve(g); err != nil {\n\t\tpanic(err)\n\t}\n\n")

	// 6. rule initializers, looking definitions up by id in the
	// just-built registry.
	for i := range rules {
		r := &rules[i]
		fmt.Fprintf(out, "\truleRegistry[%d], err = runtime.AppendRule(g, %s, defRegistry[%d], []byte(%s))\n",
			r.ID, quoteString(r.Name), r.Def, quoteString(string(r.Code)))
		fmt.Fprintf(out, "\tif err != nil {\n\t\tpanic(err)\n\t}\n")
	}
	fmt.Fprintf(out, "}\n\n")

	// 7. dispatch function: matched rule id -> verbatim host code,
	// switch/fallthrough with default = YYerror (spec.md §4.8 point 7).
	emitDispatch(out, rules)

	// 8. tail bytes, verbatim.
	if len(in.TailCode) > 0 {
		fmt.Fprintf(out, "\n")
		out.Write(in.TailCode)
	}

	return nil
}

func pkgName(p string) string {
	if p == "" {
		return "lexer"
	}
	return p
}

func countByKind(defs []defgraph.Definition) map[defgraph.Kind]int {
	c := make(map[defgraph.Kind]int, 4)
	for i := range defs {
		c[defs[i].Kind]++
	}
	return c
}

// checkCounts is the "counts emitted must equal registrations emitted"
// invariant of spec.md §4.8: since counts is derived from the same
// Definitions slice being emitted, a mismatch can only mean corruption
// between the two passes — defensive, but cheap to check once.
func checkCounts(defs []defgraph.Definition, counts map[defgraph.Kind]int) *lexerr.Error {
	total := 0
	for _, n := range counts {
		total += n
	}
	if total != len(defs) {
		return lexerr.Newf(lexerr.ErrCountMismatch, "declared %d definitions, counted %d", len(defs), total)
	}
	return nil
}

func emitDefInit(out *bytes.Buffer, d *defgraph.Definition) *lexerr.Error {
	switch d.Kind {
	case defgraph.Cat:
		fmt.Fprintf(out, "\tdefRegistry[%d], err = runtime.NewCat(g, %s, runtime.CategoryBits(0x%x), %d, %d)\n",
			d.ID, quoteString(d.Name), uint64(d.Cat.Mask), d.Cat.Min, d.Cat.Max)
	case defgraph.Literal:
		fmt.Fprintf(out, "\tdefRegistry[%d], err = runtime.NewLiteral(g, %s, []byte(%s), %s)\n",
			d.ID, quoteString(d.Name), quoteString(string(d.Literal.Bytes)), quadLiteral(d.Literal.Loc))
	case defgraph.Regex:
		fmt.Fprintf(out, "\tmatcher%d, err := runtime.CompileRegex(%s)\n\tif err != nil {\n\t\tpanic(err)\n\t}\n",
			d.ID, quoteString(d.Regex.Source))
		fmt.Fprintf(out, "\tdefRegistry[%d], err = runtime.NewRegex(g, %s, %s, matcher%d)\n",
			d.ID, quoteString(d.Name), quoteString(d.Regex.Source), d.ID)
	case defgraph.Multi:
		parent := "runtime.NoDef"
		if d.MultiD.Parent != defgraph.NoDef {
			parent = fmt.Sprintf("defRegistry[%d]", d.MultiD.Parent)
		}
		typ := "runtime.Sequence"
		if d.MultiD.Type == defgraph.Or {
			typ = "runtime.Or"
		}
		fmt.Fprintf(out, "\tdefRegistry[%d], err = runtime.NewMulti(g, %s, %s, %s)\n",
			d.ID, quoteString(d.Name), typ, parent)
	default:
		return lexerr.New(lexerr.ErrDefinitionType)
	}
	fmt.Fprintf(out, "\tif err != nil {\n\t\tpanic(err)\n\t}\n")
	return nil
}

// quadLiteral renders a precomputed unit.Quad as a Go composite literal,
// so the emitted file re-creates the exact per-unit extent the parser
// computed rather than recomputing it at generated-code init time.
func quadLiteral(q unit.Quad) string {
	var b bytes.Buffer
	fmt.Fprintf(&b, "runtime.Quad{")
	for i := range q {
		l := q[i]
		fmt.Fprintf(&b, "{Start: %d, Length: %d, After: %d, Hash: %d}", l.Start, l.Length, l.After, l.Hash)
		if i != len(q)-1 {
			fmt.Fprintf(&b, ", ")
		}
	}
	fmt.Fprintf(&b, "}")
	return b.String()
}

func emitDispatch(out *bytes.Buffer, rules []defgraph.Rule) {
	fmt.Fprintf(out, "// Dispatch runs the verbatim rule code attached to the matched rule.\n")
	fmt.Fprintf(out, "func Dispatch(rule runtime.RuleID, tok *runtime.Token) error {\n")
	fmt.Fprintf(out, "\tswitch rule {\n")
	for i := range rules {
		r := &rules[i]
		fmt.Fprintf(out, "\tcase %d:\n", r.ID)
		if len(bytes.TrimSpace(r.Code)) > 0 {
			out.Write(r.Code)
			fmt.Fprintf(out, "\n")
		}
	}
	fmt.Fprintf(out, "\tdefault:\n\t\treturn YYerror\n")
	fmt.Fprintf(out, "\t}\n\treturn nil\n}\n")
}

// escapeString re-escapes a byte string with the fixed table of spec.md
// §4.8: backslash, bell, backspace, form-feed, LF, CR, tab, VT and
// double-quote. Everything else passes through unchanged; Go source is
// assumed to be valid UTF-8 throughout, same as the input .l file.
func escapeString(s string) string {
	var b bytes.Buffer
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\\':
			b.WriteString(`\\`)
		case '\a':
			b.WriteString(`\a`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\v':
			b.WriteString(`\v`)
		case '"':
			b.WriteString(`\"`)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func quoteString(s string) string {
	return `"` + escapeString(s) + `"`
}
