package purify

import (
	"maps"
	"regexp"
	"slices"
)

// NameMatcher decides whether a tag or attribute name is accepted by
// [CustomElements].
type NameMatcher interface {
	Match(name string) bool
}

// MatchRegexp returns a [NameMatcher] which accepts names matching re.
func MatchRegexp(re *regexp.Regexp) NameMatcher { return regexpMatcher{re} }

type regexpMatcher struct{ re *regexp.Regexp }

func (self regexpMatcher) Match(name string) bool {
	return self.re != nil && self.re.MatchString(name)
}

// MatchFunc is a [NameMatcher] implemented by a callback.
type MatchFunc func(name string) bool

func (self MatchFunc) Match(name string) bool {
	return self != nil && self(name)
}

func matches(m NameMatcher, name string) bool { return m != nil && m.Match(name) }

// NameSet is a read only view of a set of names.
type NameSet struct{ s set }

// Has reports whether name is in the set.
func (self NameSet) Has(name string) bool { return self.s.has(name) }

// Len returns the number of names in the set.
func (self NameSet) Len() int { return len(self.s) }

// Names returns the names sorted.
func (self NameSet) Names() []string {
	return slices.Sorted(maps.Keys(self.s))
}
