package diag_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/db47h/utf8lex/internal/diag"
	"github.com/db47h/utf8lex/internal/lexerr"
	"github.com/db47h/utf8lex/internal/srcpos"
)

func TestFormatWithPosition(t *testing.T) {
	f := srcpos.NewFile("test.l", []byte("abc\ndef gh\n"))
	f.AddLine(4, 2)

	d := diag.New(f, 8, lexerr.New(lexerr.ErrParse), nil)
	out := d.Format()
	assert.True(t, strings.HasPrefix(out, "test.l:2:5: parse error"), out)
	assert.Contains(t, out, "def gh")
}

func TestFormatWithoutPosition(t *testing.T) {
	d := diag.New(nil, -1, lexerr.New(lexerr.ErrState), nil)
	assert.Equal(t, "invalid state", d.Format())
}

func TestFormatWithHistory(t *testing.T) {
	h := diag.PushHistory(nil, "start")
	h = diag.PushHistory(h, "ident")
	h = diag.PushHistory(h, "error")

	d := diag.New(nil, -1, lexerr.New(lexerr.ErrParse), h)
	out := d.Format()
	assert.Contains(t, out, "state history (most recent first): error <- ident <- start")
}

func TestPushHistoryCapsAtMax(t *testing.T) {
	var h []string
	for i := 0; i < 20; i++ {
		h = diag.PushHistory(h, string(rune('a'+i)))
	}
	require.Len(t, h, 16)
	assert.Equal(t, "t", h[0])
}

func TestExcerptVisualisesNewlines(t *testing.T) {
	f := srcpos.NewFile("x.l", []byte("one\rtwo"))
	d := diag.New(f, 0, lexerr.New(lexerr.ErrParse), nil)
	out := d.Format()
	assert.Contains(t, out, `one\rtwo`)
}
