package srcpos_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/db47h/utf8lex/internal/srcpos"
)

func TestPositionAcrossLines(t *testing.T) {
	src := []byte("abc\ndef\nghi\n")
	f := srcpos.NewFile("t.l", src)
	f.AddLine(4, 2)
	f.AddLine(8, 3)

	assert.Equal(t, srcpos.Position{Filename: "t.l", Line: 1, Column: 1}, f.Position(0))
	assert.Equal(t, srcpos.Position{Filename: "t.l", Line: 2, Column: 1}, f.Position(4))
	assert.Equal(t, srcpos.Position{Filename: "t.l", Line: 3, Column: 3}, f.Position(10))
}

func TestAddLinePanicsOnOutOfOrder(t *testing.T) {
	f := srcpos.NewFile("t.l", []byte("abc\ndef\n"))
	f.AddLine(4, 2)
	assert.Panics(t, func() { f.AddLine(2, 3) })
	assert.Panics(t, func() { f.AddLine(8, 4) })
}

func TestGetLineStripsTrailingCR(t *testing.T) {
	f := srcpos.NewFile("t.l", []byte("abc\r\ndef\r\n"))
	f.AddLine(5, 2)

	line, err := f.GetLine(0)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(line))

	line, err = f.GetLine(5)
	require.NoError(t, err)
	assert.Equal(t, "def", string(line))
}

func TestLinePosOutOfRange(t *testing.T) {
	f := srcpos.NewFile("t.l", []byte("abc\n"))
	assert.Equal(t, srcpos.Pos(-1), f.LinePos(0))
	assert.Equal(t, srcpos.Pos(-1), f.LinePos(99))
}
