package purify

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchRegexp(t *testing.T) {
	m := MatchRegexp(regexp.MustCompile(`^my-`))
	assert.True(t, m.Match("my-widget"))
	assert.False(t, m.Match("your-widget"))

	assert.False(t, MatchRegexp(nil).Match("my-widget"))
}

func TestMatchFunc(t *testing.T) {
	m := MatchFunc(func(name string) bool { return len(name) > 3 })
	assert.True(t, m.Match("long"))
	assert.False(t, m.Match("no"))

	var empty MatchFunc
	assert.False(t, empty.Match("long"))
}

func TestMatches(t *testing.T) {
	assert.False(t, matches(nil, "x"))
	assert.True(t, matches(MatchFunc(func(string) bool { return true }), "x"))
}

func TestNameSet(t *testing.T) {
	s := NameSet{newSet("b", "a", "c")}
	assert.True(t, s.Has("a"))
	assert.False(t, s.Has("d"))
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, []string{"a", "b", "c"}, s.Names())

	var empty NameSet
	assert.False(t, empty.Has("a"))
	assert.Zero(t, empty.Len())
	assert.Empty(t, empty.Names())
}
