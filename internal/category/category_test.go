package category_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/db47h/utf8lex/internal/category"
)

func TestClassifyBasics(t *testing.T) {
	assert.Equal(t, category.Ll, category.Classify('a'))
	assert.Equal(t, category.Lu, category.Classify('A'))
	assert.Equal(t, category.Nd, category.Classify('7'))
	assert.True(t, category.Classify('\n')&category.LineSep != 0)
	assert.True(t, category.Classify(0x2028)&category.LineSep != 0)
}

func TestMatchGroups(t *testing.T) {
	assert.True(t, category.Match(category.Classify('a'), category.Letter))
	assert.False(t, category.Match(category.Classify('a'), category.Num))
	assert.True(t, category.Match(category.Classify('7'), category.Num))
}

func TestParseFormatRoundTrip(t *testing.T) {
	b, ok := category.Parse("LETTER|ND")
	require.True(t, ok)
	assert.Equal(t, category.Letter|category.Nd, b)

	s := category.Format(category.Letter)
	b2, ok := category.Parse(s)
	require.True(t, ok)
	assert.Equal(t, category.Letter, b2)
}

func TestParseUnknownName(t *testing.T) {
	_, ok := category.Parse("NOT_A_REAL_CATEGORY")
	assert.False(t, ok)
}

func TestParseNA(t *testing.T) {
	b, ok := category.Parse("NA")
	require.True(t, ok)
	assert.Equal(t, category.NA, b)
}
