package purify

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeStyle(t *testing.T) {
	p, err := resolve(&Config{SanitizeStyles: true})
	require.NoError(t, err)

	tests := []test{
		{in: "color: red", expected: "color: red"},
		{in: "color: red;", expected: "color: red"},
		{in: "color: red; behavior: url(x.htc)", expected: "color: red"},
		{in: "-moz-binding: url(x)", expected: ""},
		{in: "width: expression(alert(1)); color: blue", expected: "color: blue"},
		{in: "background: url(javascript:alert(1))", expected: ""},
		{in: "", expected: ""},
		{in: "   ", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.expected, p.sanitizeStyle(tt.in))
		})
	}
}

func TestStyleValueAllowed_uri(t *testing.T) {
	p, err := resolve(&Config{
		SanitizeStyles:   true,
		AllowedURIRegexp: regexp.MustCompile(`^https://`),
	})
	require.NoError(t, err)

	assert.True(t, p.styleValueAllowed("url(https://example.com/a.png)"))
	assert.True(t, p.styleValueAllowed(`url("https://example.com/a.png")`))
	assert.False(t, p.styleValueAllowed("url(http://example.com/a.png)"))
	assert.True(t, p.styleValueAllowed("red"))
}

func TestRemoveUnicode(t *testing.T) {
	assert.Equal(t, "red", removeUnicode("red"))
	assert.Equal(t, "red", removeUnicode(`\72 ed`))
}
