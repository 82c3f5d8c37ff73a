package purify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/net/html/atom"
)

func TestClobbersDocument(t *testing.T) {
	for _, v := range []string{"cookie", "URL", "getElementById", "action"} {
		assert.True(t, clobbersDocument(v), v)
	}
	for _, v := range []string{"", "url", "main", "user-content-cookie"} {
		assert.False(t, clobbersDocument(v), v)
	}
}

func TestIsClobbered(t *testing.T) {
	tests := []struct {
		in       string
		expected bool
	}{
		{in: `<form><input name="removeChild"></form>`, expected: true},
		{in: `<form><div><img id="attributes"></div></form>`, expected: true},
		{in: `<form><input name="q"></form>`, expected: false},
		{in: `<form></form>`, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			body := parseBody(t, tt.in)
			form := findElement(body, atom.Form)
			assert.Equal(t, tt.expected, isClobbered(form))
		})
	}

	body := parseBody(t, `<div><input name="removeChild"></div>`)
	assert.False(t, isClobbered(findElement(body, atom.Div)))
}
