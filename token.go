package purify

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// nodeName returns the DOM name of n: the tag name for elements and a "#"
// name for other node types.
func nodeName(n *html.Node) string {
	switch n.Type {
	case html.ElementNode:
		return n.Data
	case html.TextNode:
		return "#text"
	case html.CommentNode:
		return "#comment"
	case html.DoctypeNode:
		return "#doctype"
	case html.DocumentNode:
		return "#document"
	case html.RawNode:
		return instructionTarget(n.Data)
	}
	return "#error"
}

// instructionTarget returns the target of a processing instruction like <?xml
// version="1.0"?>.
func instructionTarget(s string) string {
	s, ok := strings.CutPrefix(s, "<?")
	if !ok {
		return "#raw"
	}
	if i := strings.IndexAny(s, " \t\r\n?"); i >= 0 {
		s = s[:i]
	}
	if s == "" {
		return "#raw"
	}
	return s
}

// namespaceURI returns the namespace URI of the element n.
func namespaceURI(n *html.Node) string {
	switch n.Namespace {
	case "":
		return htmlNamespace
	case "svg":
		return svgNamespace
	case "math":
		return mathMLNamespace
	case nullNamespace:
		return ""
	}
	return n.Namespace
}

// nodeNamespace is the reverse of namespaceURI.
func nodeNamespace(uri string) string {
	switch uri {
	case htmlNamespace:
		return ""
	case svgNamespace:
		return "svg"
	case mathMLNamespace:
		return "math"
	}
	return uri
}

func isElement(n *html.Node) bool { return n != nil && n.Type == html.ElementNode }

func isHTMLElement(n *html.Node, a atom.Atom) bool {
	return isElement(n) && n.Namespace == "" && n.DataAtom == a
}

func attrName(a *html.Attribute) string {
	if a.Namespace != "" {
		return a.Namespace + ":" + a.Key
	}
	return a.Key
}

func attrIndex(n *html.Node, name string) int {
	for i := range n.Attr {
		if attrName(&n.Attr[i]) == name {
			return i
		}
	}
	return -1
}

func getAttr(n *html.Node, name string) (string, bool) {
	if i := attrIndex(n, name); i >= 0 {
		return n.Attr[i].Val, true
	}
	return "", false
}

func setAttr(n *html.Node, name, value string) {
	if i := attrIndex(n, name); i >= 0 {
		n.Attr[i].Val = value
		return
	}
	n.Attr = append(n.Attr, html.Attribute{Key: name, Val: value})
}

// validAttrName reports whether name can be rendered as an attribute name
// without changing the markup around it.
func validAttrName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		switch {
		case r <= 0x20, r == 0x7f:
			return false
		case r == '"', r == '\'', r == '<', r == '>', r == '/', r == '=':
			return false
		}
	}
	return true
}

func hasElementChild(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return true
		}
	}
	return false
}

// cloneNode returns a deep copy of n without parent and siblings.
func cloneNode(n *html.Node) *html.Node {
	m := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
	}
	if len(n.Attr) > 0 {
		m.Attr = make([]html.Attribute, len(n.Attr))
		copy(m.Attr, n.Attr)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		m.AppendChild(cloneNode(c))
	}
	return m
}

// shallowClone returns a copy of n without children.
func shallowClone(n *html.Node) *html.Node {
	m := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
	}
	if len(n.Attr) > 0 {
		m.Attr = make([]html.Attribute, len(n.Attr))
		copy(m.Attr, n.Attr)
	}
	return m
}

func detach(n *html.Node) {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// textContent concatenates all descendant text of n.
func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			switch c.Type {
			case html.TextNode:
				sb.WriteString(c.Data)
			case html.ElementNode, html.DocumentNode:
				walk(c)
			}
		}
	}
	walk(n)
	return sb.String()
}

// literalText reports whether text children of n are rendered unescaped.
func literalText(n *html.Node) bool {
	if !isElement(n) || n.Namespace != "" {
		return false
	}
	switch n.Data {
	case "iframe", "noembed", "noframes", "noscript", "plaintext", "script",
		"style", "xmp":
		return true
	}
	return false
}

// voidElement reports whether n is rendered without an end tag.
func voidElement(n *html.Node) bool {
	switch n.Data {
	case "area", "base", "br", "col", "embed", "hr", "img", "input", "keygen",
		"link", "meta", "param", "source", "track", "wbr":
		return true
	}
	return false
}
