package specparse

import (
	"github.com/db47h/utf8lex/internal/category"
)

// metaLang is the fixed trie for the line grammar's terminals (spec.md
// §4.7): the seven punctuation runes are exact matches; identifier runs
// and horizontal-space runs fall back to internal/category predicates.
var metaLang = buildMetaLang()

func buildMetaLang() *lang {
	l := newLang()
	l.matchRune('"', KindQuote)
	l.matchRune('{', KindBraceOpen)
	l.matchRune('}', KindBraceClose)
	l.matchRune('*', KindStar)
	l.matchRune('+', KindPlus)
	l.matchRune('|', KindPipe)
	l.matchRune('\n', KindNewline)
	// Identifier grammar (spec.md §6): [_\p{L}][_\p{L}\p{N}]*.
	isIDStart := func(r rune) bool { return r == '_' || category.Classify(r)&category.Letter != 0 }
	isIDCont := func(r rune) bool {
		return r == '_' || category.Classify(r)&(category.Letter|category.Num) != 0
	}
	l.matchFnRun(isIDStart, isIDCont, KindID)
	l.matchFn(func(r rune) bool { return category.Classify(r)&category.HSpace != 0 }, KindSpace)
	return l
}

// lineScanner turns one line (definitions/rules body line, spec.md §4.7)
// into a stream of meta-tokens. Runs of identifier or space runes are
// coalesced into a single token each, loosely following the
// next()/undo() style of the teacher's db47h/asm scanner package
// (scanner/scan.go), adapted to synchronous single-threaded use since
// the engine proper rules out concurrency (spec.md §5).
type lineScanner struct {
	r *runeReader
}

func newLineScanner(line []byte) *lineScanner {
	return &lineScanner{r: newRuneReader(line)}
}

// Next returns the next meta-token, or a KindEOF token once the line is
// exhausted.
func (s *lineScanner) Next() Token {
	start := s.r.Offset()
	r, sz, ok := s.r.ReadRune()
	if !ok {
		return Token{Kind: KindEOF, Offset: start}
	}
	kind, isRun := metaLang.classify(r)
	if !isRun {
		return Token{Kind: kind, Raw: s.r.src[start : start+sz], Offset: start}
	}
	end := start + sz
	for {
		next := end
		r2, sz2, ok2 := s.r.ReadRune()
		if !ok2 {
			break
		}
		if !metaLang.continues(kind, r2) {
			s.r.UnreadRune()
			break
		}
		end = next + sz2
	}
	return Token{Kind: kind, Raw: s.r.src[start:end], Offset: start}
}
