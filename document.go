package purify

import (
	"fmt"
	"regexp"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var leadingWhitespace = regexp.MustCompile(`^[\r\n\t ]+`)

const forceBodyTag = "remove"

// initDocument parses dirty and returns the node to walk: the body, the html
// element in whole document mode, or the document element of a non HTML
// namespace. It returns nil if nothing could be parsed.
func (self *pass) initDocument(dirty string, emptyInput bool) (*html.Node,
	error,
) {
	var leading string
	if self.p.forceBody {
		dirty = "<" + forceBodyTag + "></" + forceBodyTag + ">" + dirty
	} else {
		leading = leadingWhitespace.FindString(dirty)
	}

	if self.p.xml() && self.p.namespace == htmlNamespace {
		dirty = `<html xmlns="` + htmlNamespace + `"><head></head><body>` + dirty +
			"</body></html>"
	}

	payload, err := self.createHTML(dirty)
	if err != nil {
		return nil, err
	}

	var doc *html.Node
	if self.p.namespace == htmlNamespace {
		doc, err = self.parser.Parse(payload, self.p.mediaType)
		if err != nil {
			self.logger.Debug("parse markup, falling back to fragment",
				"media_type", self.p.mediaType, "error", err)
			doc = nil
		}
	}

	if doc == nil || documentElement(doc) == nil {
		if emptyInput {
			if payload, err = self.createHTML(""); err != nil {
				return nil, err
			}
		}
		doc = self.parseFallback(payload)
	}

	body := documentBody(doc)
	if body == nil {
		body = documentElement(doc)
	}
	if leading != "" && !self.p.xml() && body != nil {
		body.InsertBefore(&html.Node{Type: html.TextNode, Data: leading},
			body.FirstChild)
	}

	if self.p.namespace == htmlNamespace {
		if self.p.wholeDocument {
			return findElement(doc, atom.Html), nil
		}
		return findElement(doc, atom.Body), nil
	}
	if self.p.wholeDocument {
		return documentElement(doc), nil
	}
	return body, nil
}

// parseFallback builds a document with a template element of the document
// namespace and parses payload as its XML content.
func (self *pass) parseFallback(payload string) *html.Node {
	doc := &html.Node{Type: html.DocumentNode}
	tmpl := newTemplate(self.p.namespace)
	doc.AppendChild(tmpl)

	nodes, err := self.parser.ParseFragment(payload, tmpl, MediaTypeXHTML)
	if err != nil {
		self.logger.Debug("parse markup fragment", "namespace", self.p.namespace,
			"error", err)
		return doc
	}
	for _, n := range nodes {
		tmpl.AppendChild(n)
	}
	return doc
}

func (self *pass) createHTML(s string) (string, error) {
	if self.tt == nil {
		return s, nil
	}
	s, err := self.tt.CreateHTML(s)
	if err != nil {
		return "", fmt.Errorf(genericErrMsg, err)
	}
	return s, nil
}

// removeForceBodyWrapper removes the element prepended by ForceBody. It is not
// content, so it is not logged.
func (self *pass) removeForceBodyWrapper(root *html.Node) {
	body := root
	if !isHTMLElement(body, atom.Body) {
		body = findElement(root, atom.Body)
	}
	if body == nil {
		body = root
	}
	if c := body.FirstChild; isElement(c) && c.Data == forceBodyTag {
		body.RemoveChild(c)
	}
}

// newWorkingDocument returns the root of an empty document, which gets
// imported nodes: the body for the HTML namespace or a template element for
// others.
func newWorkingDocument(namespace string) *html.Node {
	doc := &html.Node{Type: html.DocumentNode}
	if namespace != htmlNamespace {
		tmpl := newTemplate(namespace)
		doc.AppendChild(tmpl)
		return tmpl
	}

	root := &html.Node{Type: html.ElementNode, DataAtom: atom.Html, Data: "html"}
	body := &html.Node{Type: html.ElementNode, DataAtom: atom.Body, Data: "body"}
	root.AppendChild(&html.Node{
		Type: html.ElementNode, DataAtom: atom.Head, Data: "head",
	})
	root.AppendChild(body)
	doc.AppendChild(root)
	return body
}

func newTemplate(namespace string) *html.Node {
	n := &html.Node{
		Type:      html.ElementNode,
		Data:      "template",
		Namespace: nodeNamespace(namespace),
	}
	if n.Namespace == "" {
		n.DataAtom = atom.Template
	}
	return n
}

func documentElement(doc *html.Node) *html.Node {
	for c := doc.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return c
		}
	}
	return nil
}

// documentBody returns the body child of an HTML document element.
func documentBody(doc *html.Node) *html.Node {
	root := documentElement(doc)
	if !isHTMLElement(root, atom.Html) {
		return nil
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if isHTMLElement(c, atom.Body) || isHTMLElement(c, atom.Frameset) {
			return c
		}
	}
	return nil
}

// findElement returns the first HTML element a below n in document order.
func findElement(n *html.Node, a atom.Atom) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if isHTMLElement(c, a) {
			return c
		}
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}

// doctype returns the name of the doctype of the document n belongs to.
func doctype(n *html.Node) string {
	for n.Parent != nil {
		n = n.Parent
	}
	if n.Type != html.DocumentNode {
		return ""
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.DoctypeNode {
			return c.Data
		}
	}
	return ""
}
