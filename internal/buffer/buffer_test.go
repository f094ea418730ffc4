package buffer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/db47h/utf8lex/internal/buffer"
	"github.com/db47h/utf8lex/internal/lexerr"
)

func TestBindFirst(t *testing.T) {
	b, err := buffer.Bind(buffer.NewString([]byte("abc")), false, nil)
	require.Nil(t, err)
	assert.Equal(t, 3, b.Len())
	assert.False(t, b.IsEOF())
	assert.Nil(t, b.Prev())
	assert.Nil(t, b.Next())
}

func TestAppendTail(t *testing.T) {
	b1, err := buffer.Bind(buffer.NewString([]byte("ab")), false, nil)
	require.Nil(t, err)
	b2, err := buffer.AppendTail(b1, buffer.NewString([]byte("cd")), true)
	require.Nil(t, err)
	assert.Equal(t, b2, b1.Next())
	assert.Equal(t, b1, b2.Prev())
	assert.True(t, b2.IsEOF())
}

func TestMidChainInsertRejected(t *testing.T) {
	b1, _ := buffer.Bind(buffer.NewString([]byte("ab")), false, nil)
	_, _ = buffer.AppendTail(b1, buffer.NewString([]byte("cd")), true)

	// b1 is no longer a tail; inserting after it must fail.
	_, err := buffer.Bind(buffer.NewString([]byte("xy")), true, b1)
	require.NotNil(t, err)
	assert.Equal(t, lexerr.ErrChainInsert, err.Code)
}

func TestClearUnlinks(t *testing.T) {
	b1, _ := buffer.Bind(buffer.NewString([]byte("ab")), false, nil)
	b2, _ := buffer.AppendTail(b1, buffer.NewString([]byte("cd")), true)
	b2.Clear()
	assert.Nil(t, b1.Next())
}
