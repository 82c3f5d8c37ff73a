package purify

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

func parseBody(t *testing.T, s string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(s))
	require.NoError(t, err)
	body := findElement(doc, atom.Body)
	require.NotNil(t, body)
	return body
}

func walkNames(it *nodeIterator, visit func(n *html.Node)) []string {
	var names []string
	for n := it.next(); n != nil; n = it.next() {
		names = append(names, nodeName(n))
		if visit != nil {
			visit(n)
		}
	}
	return names
}

func TestNodeIterator(t *testing.T) {
	body := parseBody(t, `<div><p>a</p><b>c</b></div><!--x-->`)
	names := walkNames(newNodeIterator(body), nil)
	assert.Equal(t,
		[]string{"body", "div", "p", "#text", "b", "#text", "#comment"}, names)
}

func TestNodeIterator_template(t *testing.T) {
	body := parseBody(t, `<p>a</p><template><b>x</b></template><i>y</i>`)
	names := walkNames(newNodeIterator(body), nil)
	assert.Equal(t,
		[]string{"body", "p", "#text", "template", "i", "#text"}, names)

	tmpl := findElement(body, atom.Template)
	require.NotNil(t, tmpl)
	assert.True(t, isShadowHost(tmpl))
	assert.Equal(t, []string{"b", "#text"},
		walkNames(newShadowIterator(tmpl), nil))
}

func TestNodeIterator_remove(t *testing.T) {
	body := parseBody(t, `<div><p>a</p><b>c</b></div>`)
	names := walkNames(newNodeIterator(body), func(n *html.Node) {
		if n.Data == "p" {
			detach(n)
		}
	})
	assert.Equal(t, []string{"body", "div", "p", "b", "#text"}, names)
}

func TestNodeIterator_removeKeepContent(t *testing.T) {
	body := parseBody(t, `<div><i>a</i><p><b>c</b>d</p><u>e</u></div>`)
	names := walkNames(newNodeIterator(body), func(n *html.Node) {
		if n.Data == "p" {
			for c := n.LastChild; c != nil; c = c.PrevSibling {
				n.Parent.InsertBefore(cloneNode(c), n.NextSibling)
			}
			detach(n)
		}
	})
	assert.Equal(t, []string{
		"body", "div", "i", "#text", "p", "b", "#text", "#text", "u", "#text",
	}, names)

	s, err := innerHTML(body)
	require.NoError(t, err)
	assert.Equal(t, `<div><i>a</i><b>c</b>d<u>e</u></div>`, s)
}

func TestNodeIterator_removeRoot(t *testing.T) {
	body := parseBody(t, `<p>a</p>`)
	names := walkNames(newNodeIterator(body), func(n *html.Node) {
		if n == body {
			detach(n)
		}
	})
	assert.Equal(t, []string{"body", "p", "#text"}, names)
}

func TestNodeIterator_removeLast(t *testing.T) {
	body := parseBody(t, `<div><p>a</p></div><i>b</i>`)
	names := walkNames(newNodeIterator(body), func(n *html.Node) {
		if n.Data == "p" {
			detach(n)
		}
	})
	assert.Equal(t, []string{"body", "div", "p", "i", "#text"}, names)
}
