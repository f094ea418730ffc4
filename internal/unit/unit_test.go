package unit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/db47h/utf8lex/internal/unit"
)

func TestQuadClear(t *testing.T) {
	q := unit.NewQuad()
	for _, l := range q {
		require.Equal(t, -1, l.Start)
		require.Equal(t, -1, l.After)
		require.Equal(t, 0, l.Length)
	}
}

func TestLocationAdvance(t *testing.T) {
	l := unit.Location{Start: 4, Length: 3, After: -1}
	assert.Equal(t, 7, l.Advance())

	l = unit.Location{Start: 4, Length: 3, After: 0}
	assert.Equal(t, 0, l.Advance())
}

func TestQuadAddGraphemeLineReset(t *testing.T) {
	q := unit.NewQuad()
	q.Zero()
	// one CRLF grapheme: 2 bytes, 1 char, 1 grapheme, crosses a line.
	q.AddGrapheme(2, true, true)

	assert.Equal(t, 2, q[unit.Byte].Length)
	assert.Equal(t, 1, q[unit.Char].Length)
	assert.Equal(t, 1, q[unit.Grapheme].Length)
	assert.Equal(t, 1, q[unit.Line].Length)
	assert.Equal(t, 0, q[unit.Char].After)
	assert.Equal(t, 0, q[unit.Grapheme].After)
	assert.Equal(t, -1, q[unit.Byte].After)
	assert.Equal(t, -1, q[unit.Line].After)
}

func TestQuadAdvanceResetsStart(t *testing.T) {
	q := unit.NewQuad()
	for i := range q {
		q[i].Start = 10
	}
	q[unit.Char].Length = 5
	q[unit.Char].After = -1
	q[unit.Grapheme].After = 0

	q.Advance()

	assert.Equal(t, 15, q[unit.Char].Start)
	assert.Equal(t, 0, q[unit.Grapheme].Start)
	assert.Equal(t, -1, q[unit.Char].After)
	assert.Equal(t, 0, q[unit.Char].Length)
}
