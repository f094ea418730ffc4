// Package category implements the Unicode general-category classifier
// used by CAT definitions: a codepoint maps to a single base bit, while
// definitions test against an OR of bits (spec.md §4.3).
//
// Base category bits come straight from the standard library's own
// unicode.Is<Cat> range tables; no third-party Unicode database in the
// retrieved corpus is more authoritative than unicode for plain general
// category classification, so this package is one of the few places that
// deliberately stays on the standard library (see DESIGN.md).
package category

import "unicode"

// Bits is a bitmask over the 30 base Unicode general categories plus the
// synthetic extended-line-separator bit. Definitions and OR-groups are
// both Bits values; matching tests (codepoint_cat & definition_cat) != 0.
type Bits uint64

// Base categories, spec.md §4.3.
const (
	Lu Bits = 1 << iota // Letter, uppercase
	Ll                  // Letter, lowercase
	Lt                  // Letter, titlecase
	Lm                  // Letter, modifier
	Lo                  // Letter, other

	Mn // Mark, non-spacing
	Mc // Mark, spacing combining
	Me // Mark, enclosing

	Nd // Number, decimal digit
	Nl // Number, letter
	No // Number, other

	Pc // Punctuation, connector
	Pd // Punctuation, dash
	Ps // Punctuation, open
	Pe // Punctuation, close
	Pi // Punctuation, initial quote
	Pf // Punctuation, final quote
	Po // Punctuation, other

	Sm // Symbol, math
	Sc // Symbol, currency
	Sk // Symbol, modifier
	So // Symbol, other

	Zs // Separator, space
	Zl // Separator, line
	Zp // Separator, paragraph

	Cc // Other, control
	Cf // Other, format
	Cs // Other, surrogate
	Co // Other, private use
	Cn // Other, not assigned

	// LineSep is a synthetic category bit (not a Unicode general category)
	// set for any codepoint in the extended line-separator group used by
	// the grapheme reader's line-termination rule (spec.md §4.2):
	// U+000A, U+000B, U+000C, U+000D, U+0085, U+2028, U+2029.
	LineSep

	// NA is the "not applicable" category for codepoints the classifier
	// could not place in any of the above (should not normally occur for
	// valid runes, but keeps Classify total).
	NA Bits = 0
)

// Precomputed OR-groups, spec.md §4.3: 9 groups plus their complements,
// plus ALL. Complements are relative to the 30 base categories (LineSep
// and NA are excluded from the complement universe since they are not
// base categories).
const (
	Letter = Lu | Ll | Lt | Lm | Lo
	Mark   = Mn | Mc | Me
	Num    = Nd | Nl | No
	Punct  = Pc | Pd | Ps | Pe | Pi | Pf | Po
	Sym    = Sm | Sc | Sk | So
	// Whitespace groups rune-level horizontal and vertical space: Zs plus
	// the synthetic LineSep bit (which subsumes Zl/Zp and the other line
	// terminators from spec.md §4.2).
	Whitespace = Zs | LineSep
	HSpace     = Zs
	VSpace     = LineSep | Zl | Zp
	Other      = Cc | Cf | Cs | Co | Cn

	all = Letter | Mark | Num | Punct | Sym | Zs | Zl | Zp | Other

	NotLetter     = all &^ Letter
	NotMark       = all &^ Mark
	NotNum        = all &^ Num
	NotPunct      = all &^ Punct
	NotSym        = all &^ Sym
	NotWhitespace = all &^ Whitespace
	NotHSpace     = all &^ HSpace
	NotVSpace     = all &^ VSpace
	NotOther      = all &^ Other

	All = all | LineSep
)

// names maps every named base category and group to its Bits value, used
// by Parse and Format for the "|"-separated uppercase expression syntax.
var names = map[string]Bits{
	"LU": Lu, "LL": Ll, "LT": Lt, "LM": Lm, "LO": Lo,
	"MN": Mn, "MC": Mc, "ME": Me,
	"ND": Nd, "NL": Nl, "NO": No,
	"PC": Pc, "PD": Pd, "PS": Ps, "PE": Pe, "PI": Pi, "PF": Pf, "PO": Po,
	"SM": Sm, "SC": Sc, "SK": Sk, "SO": So,
	"ZS": Zs, "ZL": Zl, "ZP": Zp,
	"CC": Cc, "CF": Cf, "CS": Cs, "CO": Co, "CN": Cn,
	"LINESEP": LineSep,
	"NA":      NA,

	"LETTER": Letter, "NOT_LETTER": NotLetter,
	"MARK": Mark, "NOT_MARK": NotMark,
	"NUM": Num, "NOT_NUM": NotNum,
	"PUNCT": Punct, "NOT_PUNCT": NotPunct,
	"SYM": Sym, "NOT_SYM": NotSym,
	"WHITESPACE": Whitespace, "NOT_WHITESPACE": NotWhitespace,
	"HSPACE": HSpace, "NOT_HSPACE": NotHSpace,
	"VSPACE": VSpace, "NOT_VSPACE": NotVSpace,
	"OTHER": Other, "NOT_OTHER": NotOther,
	"ALL": All,
}

// order fixes a deterministic iteration order for Format (map iteration
// order in Go is randomised, and spec.md §8 requires emission to be
// idempotent byte-for-byte across runs).
var order = []string{
	"ALL",
	"LETTER", "NOT_LETTER", "MARK", "NOT_MARK", "NUM", "NOT_NUM",
	"PUNCT", "NOT_PUNCT", "SYM", "NOT_SYM",
	"WHITESPACE", "NOT_WHITESPACE", "HSPACE", "NOT_HSPACE", "VSPACE", "NOT_VSPACE",
	"OTHER", "NOT_OTHER",
	"LU", "LL", "LT", "LM", "LO",
	"MN", "MC", "ME",
	"ND", "NL", "NO",
	"PC", "PD", "PS", "PE", "PI", "PF", "PO",
	"SM", "SC", "SK", "SO",
	"ZS", "ZL", "ZP",
	"CC", "CF", "CS", "CO", "CN",
	"LINESEP",
}

var tables = map[Bits]*unicode.RangeTable{
	Lu: unicode.Lu, Ll: unicode.Ll, Lt: unicode.Lt, Lm: unicode.Lm, Lo: unicode.Lo,
	Mn: unicode.Mn, Mc: unicode.Mc, Me: unicode.Me,
	Nd: unicode.Nd, Nl: unicode.Nl, No: unicode.No,
	Pc: unicode.Pc, Pd: unicode.Pd, Ps: unicode.Ps, Pe: unicode.Pe, Pi: unicode.Pi, Pf: unicode.Pf, Po: unicode.Po,
	Sm: unicode.Sm, Sc: unicode.Sc, Sk: unicode.Sk, So: unicode.So,
	Zs: unicode.Zs, Zl: unicode.Zl, Zp: unicode.Zp,
	Cc: unicode.Cc, Cf: unicode.Cf, Cs: unicode.Cs, Co: unicode.Co, Cn: unicode.Cn,
}

// baseOrder is the precedence in which base categories are tested; a
// codepoint belongs to exactly one, so order only matters for speed.
var baseOrder = []Bits{
	Lu, Ll, Lt, Lm, Lo,
	Mn, Mc, Me,
	Nd, Nl, No,
	Pc, Pd, Ps, Pe, Pi, Pf, Po,
	Sm, Sc, Sk, So,
	Zs, Zl, Zp,
	Cc, Cf, Cs, Co, Cn,
}

// isLineSeparator reports whether r is one of the seven codepoints the
// grapheme reader treats as a line terminator (spec.md §4.2). Kept here,
// next to the category tables, since LineSep is derived from the same
// fixed set.
func isLineSeparator(r rune) bool {
	switch r {
	case '\n', '\v', '\f', '\r', 0x0085, 0x2028, 0x2029:
		return true
	default:
		return false
	}
}

// Classify maps a codepoint to its single base category bit, additionally
// OR-ing in LineSep when r is one of the seven line-terminator codepoints.
func Classify(r rune) Bits {
	var b Bits
	for _, base := range baseOrder {
		if unicode.Is(tables[base], r) {
			b = base
			break
		}
	}
	if isLineSeparator(r) {
		b |= LineSep
	}
	return b
}

// Match reports whether def (a definition's category mask, possibly an
// OR-group) accepts codepoint category cp: (cp & def) != 0.
func Match(cp, def Bits) bool {
	return cp&def != 0
}

// Format renders b as a "|"-separated, uppercase category expression in
// a fixed, deterministic order — used by the emitter (spec.md §4.8) so
// that re-emission is byte-identical across runs.
func Format(b Bits) string {
	if b == NA {
		return "NA"
	}
	s := ""
	remaining := b
	for _, name := range order {
		bit := names[name]
		if bit == 0 {
			continue
		}
		if remaining&bit == bit {
			if s != "" {
				s += "|"
			}
			s += name
			remaining &^= bit
		}
	}
	if remaining != 0 {
		// residual bits with no named covering group: fall back to listing
		// base categories individually so Format never silently drops bits.
		for _, base := range baseOrder {
			if remaining&base != 0 {
				if s != "" {
					s += "|"
				}
				s += formatBase(base)
				remaining &^= base
			}
		}
		if remaining&LineSep != 0 {
			if s != "" {
				s += "|"
			}
			s += "LINESEP"
		}
	}
	if s == "" {
		return "NA"
	}
	return s
}

func formatBase(b Bits) string {
	for name, v := range names {
		if v == b {
			return name
		}
	}
	return "NA"
}

// Parse parses a "|"-separated, uppercase category expression (spec.md
// §4.3) into a Bits mask. An unknown name makes Parse return ok=false;
// building an error with a position is left to the caller.
func Parse(expr string) (Bits, bool) {
	var b Bits
	start := 0
	for i := 0; i <= len(expr); i++ {
		if i == len(expr) || expr[i] == '|' {
			name := expr[start:i]
			if name == "" {
				return 0, false
			}
			v, ok := names[name]
			if !ok {
				return 0, false
			}
			b |= v
			start = i + 1
		}
	}
	if b == 0 && expr != "NA" {
		return 0, false
	}
	return b, true
}
