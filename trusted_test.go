package purify

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrustedTypes_CreatePolicy(t *testing.T) {
	tt := NewTrustedTypes()

	p, err := tt.CreatePolicy("app", TrustedTypesPolicy{})
	require.NoError(t, err)
	assert.Equal(t, "app", p.Name)
	require.NotNil(t, p.CreateHTML)
	require.NotNil(t, p.CreateScriptURL)

	s, err := p.CreateHTML("<b>x</b>")
	require.NoError(t, err)
	assert.Equal(t, "<b>x</b>", s)

	_, err = tt.CreatePolicy("app", TrustedTypesPolicy{})
	require.ErrorIs(t, err, ErrDuplicatePolicy)

	_, err = tt.CreatePolicy("other", TrustedTypesPolicy{})
	require.NoError(t, err)
}

func TestTrustedTypes_AttributeType(t *testing.T) {
	tt := NewTrustedTypes()
	tests := []struct {
		tag, attr string
		expected  TrustedType
	}{
		{"iframe", "srcdoc", TrustedHTML},
		{"script", "src", TrustedScriptURL},
		{"embed", "src", TrustedScriptURL},
		{"object", "data", TrustedScriptURL},
		{"object", "codebase", TrustedScriptURL},
		{"img", "src", ""},
		{"a", "href", ""},
	}

	for _, tc := range tests {
		t.Run(tc.tag+"["+tc.attr+"]", func(t *testing.T) {
			assert.Equal(t, tc.expected, tt.AttributeType(tc.tag, tc.attr))
		})
	}
}

func TestTrustedTypesPolicy_coerce(t *testing.T) {
	errBad := errors.New("bad")
	p := &TrustedTypesPolicy{
		CreateHTML: func(s string) (string, error) { return "html:" + s, nil },
		CreateScriptURL: func(s string) (string, error) {
			return "", errBad
		},
	}

	s, err := p.coerce(TrustedHTML, "x")
	require.NoError(t, err)
	assert.Equal(t, "html:x", s)

	_, err = p.coerce(TrustedScriptURL, "x")
	require.ErrorIs(t, err, errBad)

	s, err = p.coerce("", "x")
	require.NoError(t, err)
	assert.Equal(t, "x", s)
}

func TestSanitizer_createTrustedTypesPolicy(t *testing.T) {
	assert.Nil(t, New().createTrustedTypesPolicy())

	tt := NewTrustedTypes()
	p := New(WithTrustedTypes(tt)).createTrustedTypesPolicy()
	require.NotNil(t, p)
	assert.Equal(t, trustedTypesPolicyName, p.Name)

	s := New(WithTrustedTypes(tt), WithLogger(discardLogger()))
	assert.Nil(t, s.createTrustedTypesPolicy())
}
