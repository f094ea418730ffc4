// Package specparse implements the spec parser (spec.md §4.7): it reads
// a `.l` file's three `%%`-separated sections (definitions, rules, user
// code) and builds a *defgraph.Graph ready for internal/driver, plus the
// verbatim head/tail code the emitter copies into its output.
//
// The per-line grammar is a 20-state machine (state.go) driven by a small
// fixed meta-token alphabet (token.go, scan.go, lang.go) — the
// "self-hosted meta-lexicon" spec.md §2 describes: classification reuses
// internal/category directly rather than threading a bootstrap
// defgraph.Graph through internal/driver a second time, since the line
// grammar's terminal alphabet is a fixed 9 symbols and gains nothing from
// the arena/rule machinery built for user-authored lexers (see
// DESIGN.md). internal/driver and internal/match are exercised, byte for
// byte, by every lexer this package's own output drives — including its
// own test suite.
package specparse

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/db47h/utf8lex/internal/defgraph"
	"github.com/db47h/utf8lex/internal/diag"
	"github.com/db47h/utf8lex/internal/lexerr"
)

// Result is the outcome of a successful Parse.
type Result struct {
	Graph    *defgraph.Graph
	HeadCode []byte // %{ ... %} blocks and indentation pass-through from sections 1/2
	TailCode []byte // section 3, verbatim
}

const sectionSeparator = "%%"

// Parse splits src into its three sections and builds a Result.
func Parse(filename string, src []byte, opts ...Option) (*Result, *lexerr.Error) {
	cfg := &config{}
	for _, o := range opts {
		o(cfg)
	}

	if n := len(splitLines(src)); n > 65536 {
		return nil, report(cfg, filename, lexerr.Newf(lexerr.ErrTooManyLines, "spec file has %d lines, exceeding the 65536 cap", n))
	}

	sec1, sec2, sec3, serr := splitSections(src)
	if serr != nil {
		return nil, report(cfg, filename, serr)
	}

	g := defgraph.NewGraph()
	ruleN := 0

	head1, err := processSection(g, 1, sec1, cfg, &ruleN)
	if err != nil {
		return nil, report(cfg, filename, err)
	}
	head2, err := processSection(g, 2, sec2, cfg, &ruleN)
	if err != nil {
		return nil, report(cfg, filename, err)
	}

	if rerr := g.Resolve(); rerr != nil {
		return nil, report(cfg, filename, rerr)
	}

	return &Result{
		Graph:    g,
		HeadCode: append(head1, head2...),
		TailCode: sec3,
	}, nil
}

func report(cfg *config, filename string, err *lexerr.Error) *lexerr.Error {
	if err.Name != "" {
		err = err.WithName(filename + ": " + err.Name)
	} else {
		err = err.WithName(filename)
	}
	if cfg.sink != nil {
		cfg.sink(diag.New(nil, -1, err, nil))
	}
	return err
}

// splitSections locates the two "%%" lines that divide src into
// definitions / rules / user code (spec.md §4.7).
func splitSections(src []byte) (sec1, sec2, sec3 []byte, err *lexerr.Error) {
	lines := splitLines(src)
	var seps []int
	for i, l := range lines {
		if trimEOL(l) == sectionSeparator {
			seps = append(seps, i)
		}
		if len(seps) == 2 {
			break
		}
	}
	if len(seps) < 2 {
		return nil, nil, nil, lexerr.Newf(lexerr.ErrParse, "expected two %q section separators, found %d", sectionSeparator, len(seps))
	}
	sec1 = joinLines(lines[:seps[0]])
	sec2 = joinLines(lines[seps[0]+1 : seps[1]])
	sec3 = joinLines(lines[seps[1]+1:])
	return sec1, sec2, sec3, nil
}

func splitLines(src []byte) [][]byte {
	var lines [][]byte
	start := 0
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			lines = append(lines, src[start:i+1])
			start = i + 1
		}
	}
	if start < len(src) {
		lines = append(lines, src[start:])
	}
	return lines
}

func joinLines(lines [][]byte) []byte {
	return bytes.Join(lines, nil)
}

func trimEOL(line []byte) string {
	s := strings.TrimSuffix(string(line), "\n")
	return strings.TrimSuffix(s, "\r")
}

// processSection runs every definition/rule line of one section through
// the line grammar, handling `%{ ... %}` pass-through blocks and
// blank/indented pass-through lines along the way (spec.md §4.7).
func processSection(g *defgraph.Graph, section int, src []byte, cfg *config, ruleN *int) ([]byte, *lexerr.Error) {
	var pass []byte
	inBlock := false
	lineNo := 0
	for _, line := range splitLines(src) {
		lineNo++
		trimmed := trimEOL(line)
		switch {
		case inBlock:
			if trimmed == "%}" {
				inBlock = false
				continue
			}
			pass = append(pass, line...)
			continue
		case trimmed == "%{":
			inBlock = true
			continue
		case trimmed == "":
			pass = append(pass, line...)
			continue
		case len(trimmed) > 0 && (trimmed[0] == ' ' || trimmed[0] == '\t'):
			pass = append(pass, line...)
			continue
		}

		p := newLineParser(g, section, line, cfg.tracing)
		p.run(initialState(section))
		if p.err != nil {
			return nil, p.err.WithName(fmt.Sprintf("section %d, line %d", section, lineNo))
		}
		if section == 2 {
			name := fmt.Sprintf("rule_%d", *ruleN)
			*ruleN++
			if _, rerr := g.AppendRule(name, p.defID, p.codeBuf); rerr != nil {
				return nil, rerr
			}
		}
	}
	return pass, nil
}
