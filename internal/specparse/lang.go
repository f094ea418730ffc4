package specparse

// node and lang below are a reduced adaptation of the teacher's
// lexer.Lang/node token trie: an exact-match tree for single-rune
// terminals, plus an ordered list of predicate filters for the two
// "run" terminals (identifiers and horizontal space) whose membership
// can't be enumerated as a finite set of runes.
type node struct {
	c    map[rune]*node
	kind Kind
	leaf bool
}

type filter struct {
	match func(r rune) bool
	kind  Kind
}

type lang struct {
	exact *node
	byFn  []filter
	cont  map[Kind]func(r rune) bool
}

func newLang() *lang {
	return &lang{exact: &node{c: make(map[rune]*node)}, cont: make(map[Kind]func(r rune) bool)}
}

// matchRune registers the exact single rune r as producing kind.
func (l *lang) matchRune(r rune, kind Kind) {
	n, ok := l.exact.c[r]
	if !ok {
		n = &node{c: make(map[rune]*node)}
		l.exact.c[r] = n
	}
	n.leaf = true
	n.kind = kind
}

// matchFn registers a predicate-based terminal, tried in registration
// order after exact matches fail.
func (l *lang) matchFn(match func(r rune) bool, kind Kind) {
	l.byFn = append(l.byFn, filter{match: match, kind: kind})
}

// matchFnRun registers a predicate-based terminal whose run continues
// under a different (wider) predicate than the one that starts it — e.g.
// an identifier starts with [_\p{L}] but continues with [_\p{L}\p{N}].
func (l *lang) matchFnRun(start, cont func(r rune) bool, kind Kind) {
	l.byFn = append(l.byFn, filter{match: start, kind: kind})
	l.cont[kind] = cont
}

// continues reports whether r extends a run already classified as kind,
// using kind's registered continuation predicate if any, falling back to
// classify agreeing on the same kind otherwise.
func (l *lang) continues(kind Kind, r rune) bool {
	if cont, ok := l.cont[kind]; ok {
		return cont(r)
	}
	k, _ := l.classify(r)
	return k == kind
}

// matchExact reports whether r is one of the single-rune punctuation
// terminals; these are never coalesced into a run, even when the same
// rune repeats (e.g. "||" is two KindPipe tokens, not one).
func (l *lang) matchExact(r rune) (Kind, bool) {
	if n, ok := l.exact.c[r]; ok && n.leaf {
		return n.kind, true
	}
	return KindOther, false
}

// matchPredicate reports the Kind of the run-style terminal r belongs to
// (identifier or horizontal-space runs), tried only once matchExact has
// failed.
func (l *lang) matchPredicate(r rune) (Kind, bool) {
	for _, f := range l.byFn {
		if f.match(r) {
			return f.kind, true
		}
	}
	return KindOther, false
}

// classify returns the Kind of the terminal starting with r and whether
// that Kind is a coalescable run (true only for predicate-based
// terminals — exact single-rune terminals and unmatched bytes are never
// runs).
func (l *lang) classify(r rune) (Kind, bool) {
	if kind, ok := l.matchExact(r); ok {
		return kind, false
	}
	if kind, ok := l.matchPredicate(r); ok {
		return kind, true
	}
	return KindOther, false
}
