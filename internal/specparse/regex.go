package specparse

import (
	"github.com/coregx/coregex"

	"github.com/db47h/utf8lex/internal/defgraph"
	"github.com/db47h/utf8lex/internal/lexerr"
)

// coregexMatcher adapts *coregex.Regex to defgraph.Matcher. Every source
// pattern is compiled wrapped as `^(?:<pattern>)`: coregex exposes no
// explicit "anchored match" flag, so a leading anchor plus testing only
// loc[0] == 0 is the closest available analogue to PCRE2_ANCHORED
// (spec.md §3, §9).
type coregexMatcher struct {
	re *coregex.Regex
}

func (m *coregexMatcher) FindAnchored(b []byte) (int, bool) {
	loc := m.re.FindIndex(b)
	if loc == nil || loc[0] != 0 {
		return 0, false
	}
	return loc[1], true
}

// compileRegex compiles source (a REGEX definition's body, spec.md §4.3)
// into a defgraph.Matcher.
func compileRegex(source string) (defgraph.Matcher, *lexerr.Error) {
	re, err := coregex.Compile("^(?:" + source + ")")
	if err != nil {
		return nil, lexerr.Newf(lexerr.ErrRegex, "%v", err)
	}
	return &coregexMatcher{re: re}, nil
}
