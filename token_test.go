package purify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

func TestNodeName(t *testing.T) {
	tests := []struct {
		n        *html.Node
		expected string
	}{
		{&html.Node{Type: html.ElementNode, Data: "foreignObject"}, "foreignObject"},
		{&html.Node{Type: html.TextNode}, "#text"},
		{&html.Node{Type: html.CommentNode}, "#comment"},
		{&html.Node{Type: html.DoctypeNode}, "#doctype"},
		{&html.Node{Type: html.DocumentNode}, "#document"},
		{&html.Node{Type: html.RawNode, Data: `<?xml-stylesheet href="a"?>`}, "xml-stylesheet"},
		{&html.Node{Type: html.RawNode, Data: "<b>"}, "#raw"},
		{&html.Node{Type: html.ErrorNode}, "#error"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, nodeName(tt.n))
		})
	}
}

func TestNamespaceURI(t *testing.T) {
	for _, tt := range []struct{ ns, uri string }{
		{"", HTMLNamespace},
		{"svg", SVGNamespace},
		{"math", MathMLNamespace},
		{nullNamespace, ""},
		{"urn:x", "urn:x"},
	} {
		assert.Equal(t, tt.uri, namespaceURI(&html.Node{Namespace: tt.ns}))
		if tt.uri != "" {
			assert.Equal(t, tt.ns, nodeNamespace(tt.uri))
		}
	}
}

func TestAttrHelpers(t *testing.T) {
	n := &html.Node{
		Type: html.ElementNode,
		Data: "a",
		Attr: []html.Attribute{
			{Key: "title", Val: "t"},
			{Namespace: "xlink", Key: "href", Val: "#x"},
		},
	}

	assert.Equal(t, "xlink:href", attrName(&n.Attr[1]))
	assert.Equal(t, 1, attrIndex(n, "xlink:href"))
	assert.Equal(t, -1, attrIndex(n, "href"))

	v, ok := getAttr(n, "title")
	assert.True(t, ok)
	assert.Equal(t, "t", v)

	setAttr(n, "title", "u")
	setAttr(n, "class", "c")
	assert.Equal(t, []html.Attribute{
		{Key: "title", Val: "u"},
		{Namespace: "xlink", Key: "href", Val: "#x"},
		{Key: "class", Val: "c"},
	}, n.Attr)
}

func TestValidAttrName(t *testing.T) {
	for _, name := range []string{"title", "data-x", "xlink:href", "xé"} {
		assert.True(t, validAttrName(name), name)
	}
	for _, name := range []string{"", "a b", `a"`, "a'", "a<", "a>", "a/", "a=", "a\x7f"} {
		assert.False(t, validAttrName(name), name)
	}
}

func TestCloneNode(t *testing.T) {
	div := &html.Node{
		Type:     html.ElementNode,
		Data:     "div",
		DataAtom: atom.Div,
		Attr:     []html.Attribute{{Key: "id", Val: "x"}},
	}
	div.AppendChild(&html.Node{Type: html.TextNode, Data: "a"})

	c := cloneNode(div)
	assert.NotSame(t, div, c)
	assert.Equal(t, div.Attr, c.Attr)
	c.Attr[0].Val = "y"
	assert.Equal(t, "x", div.Attr[0].Val)
	assert.NotSame(t, div.FirstChild, c.FirstChild)
	assert.Equal(t, "a", c.FirstChild.Data)

	s := shallowClone(div)
	assert.Nil(t, s.FirstChild)
	assert.Equal(t, "div", s.Data)
}

func TestTextContent(t *testing.T) {
	body := parseBody(t, `<p>a<b>b</b><!--c-->d</p>`)
	assert.Equal(t, "abd", textContent(body))
	assert.True(t, hasElementChild(body))
	assert.False(t, hasElementChild(body.FirstChild.FirstChild))
}
