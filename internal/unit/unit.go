// Copyright 2017-2018 Denis Bernard <db047h@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to
// use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies of
// the Software, and to permit persons to whom the Software is furnished to do so,
// subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY, FITNESS
// FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR
// COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
// IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
// CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.

// Package unit defines the quadruple position unit used throughout utf8lex:
// every advancement of a lexing cursor updates a byte, char (rune), grapheme
// cluster and line counter simultaneously.
package unit

// Unit is one of the four simultaneous counting axes a Location tracks.
type Unit int

const (
	Byte Unit = iota
	Char
	Grapheme
	Line
	count
)

// String returns the canonical lower-case name of a Unit.
func (u Unit) String() string {
	switch u {
	case Byte:
		return "byte"
	case Char:
		return "char"
	case Grapheme:
		return "grapheme"
	case Line:
		return "line"
	default:
		return "unit(?)"
	}
}

// Location is one unit's view of a matched region: where it starts, how
// long it is, and what `start` should become after the region is consumed
// (After == -1 means "just add Length"; otherwise Char/Grapheme reset to 0
// across a line break while Byte/Line stay monotonic).
type Location struct {
	Start  int
	Length int
	After  int
	Hash   uint64
}

// Clear resets l to the "uninitialised" sentinel state (Start == -1).
func (l *Location) Clear() {
	l.Start = -1
	l.Length = 0
	l.After = -1
	l.Hash = 0
}

// IsValid reports whether l holds a valid, initialised position.
func (l Location) IsValid() bool {
	return l.Start >= 0 && l.Length >= 0 && (l.After == -1 || l.After >= 0)
}

// Advance returns the Start value a cursor should move to after consuming l.
func (l Location) Advance() int {
	if l.After >= 0 {
		return l.After
	}
	return l.Start + l.Length
}

// Quad is a Location for each of the four units, the core position record
// threaded through State, Buffer and Token per spec.md §3.
type Quad [int(count)]Location

// NewQuad returns a Quad with every unit cleared to the uninitialised state.
func NewQuad() Quad {
	var q Quad
	q.Clear()
	return q
}

// Clear resets every unit of q.
func (q *Quad) Clear() {
	for i := range q {
		q[i].Clear()
	}
}

// Zero resets the in-flight Length/After/Hash fields of every unit while
// keeping Start, matching the "zero the in-flight lengths and afters on
// state" step of the Lex Driver (spec.md §4.6 step 5).
func (q *Quad) Zero() {
	for i := range q {
		q[i].Length = 0
		q[i].After = -1
		q[i].Hash = 0
	}
}

// Advance applies Location.Advance() to every unit of q in place, moving
// Start forward (or resetting it to After) and zeroing Length/After/Hash.
func (q *Quad) Advance() {
	for i := range q {
		q[i].Start = q[i].Advance()
	}
	q.Zero()
}

// AddGrapheme accumulates the per-unit counts of a single consumed grapheme
// cluster into q's in-flight Length/After fields. byteLen and isLine come
// from internal/grapheme; resetCharGrapheme is true iff the grapheme just
// consumed was a line terminator (spec.md §4.2).
func (q *Quad) AddGrapheme(byteLen int, isLine, resetCharGrapheme bool) {
	q[Byte].Length += byteLen
	q[Byte].Hash += uint64(byteLen)
	q[Char].Length++
	q[Char].Hash++
	q[Grapheme].Length++
	q[Grapheme].Hash++
	if isLine {
		q[Line].Length++
		q[Line].Hash++
	}
	if resetCharGrapheme {
		q[Char].After = 0
		q[Grapheme].After = 0
	} else {
		if q[Char].After >= 0 {
			q[Char].After++
		}
		if q[Grapheme].After >= 0 {
			q[Grapheme].After++
		}
	}
}
