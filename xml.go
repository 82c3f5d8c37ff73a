package purify

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"maps"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// nullNamespace is the namespace of XML elements without a namespace URI.
const nullNamespace = "#null"

var (
	errXMLMismatch  = errors.New("element closed by a different end tag")
	errXMLUnclosed  = errors.New("unclosed element")
	errXMLPrefix    = errors.New("unbound namespace prefix")
	errXMLStructure = errors.New("not a single root element")
)

// xmlBuilder builds a node tree from raw XML tokens, resolving namespace
// prefixes itself so qualified names survive as written.
type xmlBuilder struct {
	dec      *xml.Decoder
	document bool

	root   *html.Node
	stack  []*html.Node
	scopes []map[string]string
}

func newXMLBuilder(markup string, document bool, defaultNS string,
) *xmlBuilder {
	dec := xml.NewDecoder(strings.NewReader(markup))
	dec.Strict = true
	dec.CharsetReader = func(_ string, r io.Reader) (io.Reader, error) {
		return r, nil
	}

	scope := map[string]string{
		"xml":   xmlNamespace,
		"xmlns": xmlnsNamespace,
	}
	if defaultNS != "" {
		scope[""] = defaultNS
	}
	return &xmlBuilder{
		dec:      dec,
		document: document,
		root:     &html.Node{Type: html.DocumentNode},
		scopes:   []map[string]string{scope},
	}
}

// parseXML parses a whole XML document.
func parseXML(markup string) (*html.Node, error) {
	b := newXMLBuilder(markup, true, "")
	if err := b.build(); err != nil {
		return nil, err
	}
	return b.root, nil
}

// parseXMLFragment parses markup as children of context, with the namespace
// of context as the default namespace.
func parseXMLFragment(markup string, context *html.Node) ([]*html.Node, error) {
	var ns string
	if isElement(context) {
		ns = namespaceURI(context)
	}
	b := newXMLBuilder(markup, false, ns)
	if err := b.build(); err != nil {
		return nil, err
	}

	var nodes []*html.Node
	for c := b.root.FirstChild; c != nil; {
		next := c.NextSibling
		b.root.RemoveChild(c)
		nodes = append(nodes, c)
		c = next
	}
	return nodes, nil
}

func (self *xmlBuilder) build() error {
	for {
		tok, err := self.dec.RawToken()
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return fmt.Errorf("xml: %w", err)
		}
		if err := self.token(tok); err != nil {
			return err
		}
	}

	if len(self.stack) > 0 {
		return fmt.Errorf("xml: <%s>: %w", self.top().Data, errXMLUnclosed)
	}
	if self.document && self.documentElement() == nil {
		return fmt.Errorf("xml: %w", errXMLStructure)
	}
	return nil
}

func (self *xmlBuilder) token(tok xml.Token) error {
	switch t := tok.(type) {
	case xml.StartElement:
		return self.startElement(t)
	case xml.EndElement:
		return self.endElement(t)
	case xml.CharData:
		return self.text(string(t))
	case xml.Comment:
		self.append(&html.Node{Type: html.CommentNode, Data: string(t)})
	case xml.ProcInst:
		if t.Target == "xml" && len(self.stack) == 0 {
			return nil
		}
		data := "<?" + t.Target
		if len(t.Inst) > 0 {
			data += " " + string(t.Inst)
		}
		self.append(&html.Node{Type: html.RawNode, Data: data + "?>"})
	case xml.Directive:
		return self.directive(string(t))
	}
	return nil
}

func (self *xmlBuilder) startElement(t xml.StartElement) error {
	if self.document && len(self.stack) == 0 && self.documentElement() != nil {
		return fmt.Errorf("xml: <%s>: %w", t.Name.Local, errXMLStructure)
	}

	scope := self.scopes[len(self.scopes)-1]
	var cloned bool
	for _, a := range t.Attr {
		var prefix string
		switch {
		case a.Name.Space == "xmlns":
			prefix = a.Name.Local
		case a.Name.Space == "" && a.Name.Local == "xmlns":
		default:
			continue
		}
		if !cloned {
			scope, cloned = maps.Clone(scope), true
		}
		scope[prefix] = a.Value
	}

	uri, ok := scope[t.Name.Space]
	if !ok && t.Name.Space != "" {
		return fmt.Errorf("xml: %s:%s: %w", t.Name.Space, t.Name.Local,
			errXMLPrefix)
	}

	n := &html.Node{Type: html.ElementNode, Data: qualifiedName(t.Name)}
	switch uri {
	case "":
		n.Namespace = nullNamespace
	default:
		n.Namespace = nodeNamespace(uri)
	}
	if n.Namespace == "" {
		n.DataAtom = atom.Lookup([]byte(n.Data))
	}

	for _, a := range t.Attr {
		if a.Name.Space != "" && a.Name.Space != "xmlns" {
			if _, ok := scope[a.Name.Space]; !ok {
				return fmt.Errorf("xml: %s:%s: %w", a.Name.Space, a.Name.Local,
					errXMLPrefix)
			}
		}
		n.Attr = append(n.Attr, html.Attribute{
			Namespace: a.Name.Space,
			Key:       a.Name.Local,
			Val:       a.Value,
		})
	}

	self.append(n)
	self.stack = append(self.stack, n)
	self.scopes = append(self.scopes, scope)
	return nil
}

func (self *xmlBuilder) endElement(t xml.EndElement) error {
	name := qualifiedName(t.Name)
	if len(self.stack) == 0 {
		return fmt.Errorf("xml: </%s>: %w", name, errXMLMismatch)
	}
	if top := self.top(); top.Data != name {
		return fmt.Errorf("xml: <%s> closed by </%s>: %w", top.Data, name,
			errXMLMismatch)
	}
	self.stack = self.stack[:len(self.stack)-1]
	self.scopes = self.scopes[:len(self.scopes)-1]
	return nil
}

func (self *xmlBuilder) text(s string) error {
	if self.document && len(self.stack) == 0 {
		if strings.TrimSpace(s) != "" {
			return fmt.Errorf("xml: text outside of root: %w", errXMLStructure)
		}
		return nil
	}

	parent := self.parent()
	if last := parent.LastChild; last != nil && last.Type == html.TextNode {
		last.Data += s
		return nil
	}
	parent.AppendChild(&html.Node{Type: html.TextNode, Data: s})
	return nil
}

func (self *xmlBuilder) directive(s string) error {
	rest, ok := strings.CutPrefix(s, "DOCTYPE")
	if !ok {
		return nil
	}
	if !self.document || len(self.stack) > 0 {
		return fmt.Errorf("xml: misplaced doctype: %w", errXMLStructure)
	}

	name := strings.TrimSpace(rest)
	if i := strings.IndexAny(name, " \t\r\n[>"); i >= 0 {
		name = name[:i]
	}
	self.append(&html.Node{Type: html.DoctypeNode, Data: name})
	return nil
}

func (self *xmlBuilder) append(n *html.Node) { self.parent().AppendChild(n) }

func (self *xmlBuilder) parent() *html.Node {
	if len(self.stack) == 0 {
		return self.root
	}
	return self.top()
}

func (self *xmlBuilder) top() *html.Node { return self.stack[len(self.stack)-1] }

func (self *xmlBuilder) documentElement() *html.Node {
	for c := self.root.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return c
		}
	}
	return nil
}

func qualifiedName(name xml.Name) string {
	if name.Space != "" {
		return name.Space + ":" + name.Local
	}
	return name.Local
}
