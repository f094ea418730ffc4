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

// Package srcpos converts byte offsets into a .l spec file to 1-based
// line/column positions, for the diagnostics spec.md §7 requires from the
// spec parser and emitter. It is adapted from the teacher's token.File,
// simplified to operate on an in-memory []byte rather than an io.Reader
// (specparse always holds the whole spec file in memory, so seeking was
// unneeded complexity).
package srcpos

import (
	"errors"
	"fmt"
)

// ErrLine is returned by GetLine for an out-of-range position.
var ErrLine = errors.New("invalid line number")

// Pos is a byte offset into a File.
type Pos int

// IsValid reports whether p is a valid (non-negative) position.
func (p Pos) IsValid() bool { return p >= 0 }

// Position is a human-readable source position.
type Position struct {
	Filename string
	Line     int // 1-based
	Column   int // 1-based, byte offset within the line
}

func (p Position) String() string {
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
}

// File maps byte offsets in a fixed in-memory buffer to line/column
// positions. Lines are registered once, in increasing order, as the
// spec parser scans forward (mirroring the teacher's AddLine contract).
type File struct {
	name  string
	src   []byte
	lines []Pos // byte offset of the start of each line, 0-based index
}

// NewFile returns a File over src. Line 1 always starts at offset 0.
func NewFile(name string, src []byte) *File {
	f := &File{name: name, src: src}
	f.lines = append(f.lines, 0)
	return f
}

// Name returns the file name.
func (f *File) Name() string { return f.name }

// AddLine registers the start offset of a new line. line is the 1-based
// line index; pos must be strictly greater than the previously registered
// line's start, and line must equal len(f.lines)+1, or AddLine panics —
// same contract as the teacher's token.File.AddLine.
func (f *File) AddLine(pos Pos, line int) {
	l := len(f.lines)
	if (l > 0 && f.lines[l-1] >= pos) || l+1 != line {
		panic(ErrLine)
	}
	f.lines = append(f.lines, pos)
}

// Position returns the 1-based line/column for pos.
func (f *File) Position(pos Pos) Position {
	i, j := 0, len(f.lines)
	for i < j {
		h := int(uint(i+j) >> 1)
		if !(f.lines[h] > pos) {
			i = h + 1
		} else {
			j = h
		}
	}
	if i == 0 {
		i = 1
	}
	return Position{f.name, i, int(pos-f.lines[i-1]) + 1}
}

// LinePos returns the file offset of the start of the given 1-based line.
func (f *File) LinePos(line int) Pos {
	if line < 1 || line > len(f.lines) {
		return -1
	}
	return f.lines[line-1]
}

// GetLine returns the raw bytes of the line containing pos, without the
// trailing newline.
func (f *File) GetLine(pos Pos) ([]byte, error) {
	lp := f.LinePos(f.Position(pos).Line)
	if !lp.IsValid() {
		return nil, ErrLine
	}
	end := int(lp)
	for end < len(f.src) && f.src[end] != '\n' {
		end++
	}
	line := f.src[lp:end]
	if len(line) > 0 && line[len(line)-1] == '\r' {
		line = line[:len(line)-1]
	}
	return line, nil
}
