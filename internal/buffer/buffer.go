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

// Package buffer implements the chained string buffers the core consumes
// (spec.md §3, §4.1). It deliberately knows nothing about files, mmap or
// paths: ingestion from the filesystem is an external collaborator
// (spec.md §1) that only needs to produce a *String and an EOF flag.
package buffer

import "github.com/db47h/utf8lex/internal/lexerr"

// MaxChainLength is the hard cap on the number of Buffers in one Chain
// (spec.md §3), bounding accidental unbounded growth.
const MaxChainLength = 16384

// String is an owning byte array with a used length and capacity. The
// core never mutates a String's bytes once bound to a Buffer.
type String struct {
	Bytes []byte
	Len   int
	Cap   int
}

// NewString wraps b as a String (Len == Cap == len(b)).
func NewString(b []byte) *String {
	return &String{Bytes: b, Len: len(b), Cap: len(b)}
}

// Buffer is a node in a FIFO chain of Strings (spec.md §3). Buffer-local
// Locations are relative to this Buffer's own String, never the chain's
// absolute coordinate space (that is State's job, internal/driver).
type Buffer struct {
	prev, next *Buffer
	str        *String
	isEOF      bool
	bound      bool
}

// Bind initialises a Buffer over s. If prev is non-nil, the new Buffer is
// appended to the chain as prev's successor; prev must currently be a
// chain tail (prev.next == nil) or Bind fails with ErrChainInsert — the
// chain only ever grows at the tail (spec.md §4.1).
func Bind(s *String, isEOF bool, prev *Buffer) (*Buffer, *lexerr.Error) {
	if prev != nil && prev.next != nil {
		return nil, lexerr.New(lexerr.ErrChainInsert)
	}
	b := &Buffer{str: s, isEOF: isEOF, bound: true, prev: prev}
	if prev != nil {
		if err := prev.appendTail(b); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// appendTail links b in after prev, enforcing MaxChainLength by counting
// the buffers from prev back to the head of the chain via prev links.
func (prev *Buffer) appendTail(b *Buffer) *lexerr.Error {
	n := 1 // prev itself
	for p := prev; p.prev != nil; p = p.prev {
		n++
		if n > MaxChainLength {
			return lexerr.New(lexerr.ErrChainCap)
		}
	}
	n++ // the new buffer
	if n > MaxChainLength {
		return lexerr.New(lexerr.ErrChainCap)
	}
	prev.next = b
	b.prev = prev
	return nil
}

// Clear unlinks b from its chain neighbours, releasing its references.
func (b *Buffer) Clear() {
	if b.prev != nil {
		b.prev.next = b.next
	}
	if b.next != nil {
		b.next.prev = b.prev
	}
	b.prev, b.next, b.str = nil, nil, nil
	b.bound = false
}

// Next returns the following Buffer in the chain, or nil if b is the tail.
func (b *Buffer) Next() *Buffer { return b.next }

// Prev returns the preceding Buffer in the chain, or nil if b is the head.
func (b *Buffer) Prev() *Buffer { return b.prev }

// IsEOF reports whether no more bytes will ever arrive on this Buffer's
// chain position (spec.md §3).
func (b *Buffer) IsEOF() bool { return b.isEOF }

// SetEOF marks b as EOF once no more input is forthcoming for it — used
// when a caller that previously bound a non-final Buffer later learns it
// was in fact the last one.
func (b *Buffer) SetEOF(eof bool) { b.isEOF = eof }

// Bytes returns the full content of b's String.
func (b *Buffer) Bytes() []byte { return b.str.Bytes[:b.str.Len] }

// Len returns the length, in bytes, of b's String.
func (b *Buffer) Len() int { return b.str.Len }

// AppendTail appends a new Buffer over s to the chain whose current tail
// is tail. It is the primary entry point callers use in response to
// NeedMore (spec.md §8 scenario 5): append more bytes, then retry.
func AppendTail(tail *Buffer, s *String, isEOF bool) (*Buffer, *lexerr.Error) {
	return Bind(s, isEOF, tail)
}
