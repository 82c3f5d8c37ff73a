package purify

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// sanitizeElement checks the node n and removes it if it's not allowed. It
// returns true if n was removed.
func (self *pass) sanitizeElement(n *html.Node) bool {
	self.hooks.execute(BeforeSanitizeElements, n, nil, self.p)

	if isClobbered(n) {
		self.forceRemove(n)
		return true
	}

	tagName := self.p.transformCase(nodeName(n))
	self.hooks.execute(UponSanitizeElement, n, &HookData{
		TagName:     tagName,
		AllowedTags: self.p.AllowedTags(),
	}, self.p)

	// Markup in the text of a node without element children means the parser
	// and the serializer disagree about it.
	if n.FirstChild != nil && !hasElementChild(n) && self.mutates(n) {
		self.forceRemove(n)
		return true
	}

	if n.Type == html.RawNode {
		self.forceRemove(n)
		return true
	}

	if !self.p.tagAllowed(tagName) {
		if !self.p.forbidTags.has(tagName) && self.p.customElement(tagName) {
			return false
		}
		if self.p.keepContent && !self.p.forbidContents.has(tagName) {
			self.keepContent(n)
		}
		self.forceRemove(n)
		return true
	}

	if isElement(n) && !self.validNamespace(n) {
		self.forceRemove(n)
		return true
	}

	switch tagName {
	case "noscript", "noembed", "noframes":
		if s, err := innerHTML(n); err != nil || fallbackTagClose.MatchString(s) {
			self.forceRemove(n)
			return true
		}
	}

	if self.p.safeForTemplates && n.Type == html.TextNode {
		if content := scrubTemplates(n.Data); content != n.Data {
			self.removed = append(self.removed, Removal{Element: shallowClone(n)})
			n.Data = content
		}
	}

	self.hooks.execute(AfterSanitizeElements, n, nil, self.p)
	return false
}

func (self *pass) mutates(n *html.Node) bool {
	s, _ := innerHTML(n)
	return tagLike.MatchString(s) && tagLike.MatchString(textContent(n))
}

// keepContent puts copies of the children of n after it, in order. The root
// has no parent, which could get them.
func (self *pass) keepContent(n *html.Node) {
	if n == self.root || n.Parent == nil {
		return
	}
	for c := n.LastChild; c != nil; c = c.PrevSibling {
		n.Parent.InsertBefore(cloneNode(c), n.NextSibling)
	}
}

// validNamespace reports whether the namespace of the element n is one an HTML
// parser could return for it at this place.
func (self *pass) validNamespace(n *html.Node) bool {
	ns := namespaceURI(n)
	if !self.p.namespaces.has(ns) {
		return false
	}

	// A node without an element parent is the root of a template content.
	parentNS, parentTag := self.p.namespace, "template"
	if parent := n.Parent; isElement(parent) {
		parentNS, parentTag = namespaceURI(parent), strings.ToLower(parent.Data)
	}
	tagName := strings.ToLower(n.Data)

	switch ns {
	case svgNamespace:
		// The only way to switch from HTML namespace to SVG is via <svg>, from
		// MathML it's <svg> inside <annotation-xml> or a text integration
		// point.
		switch parentNS {
		case htmlNamespace:
			return tagName == "svg"
		case mathMLNamespace:
			return tagName == "svg" && (parentTag == "annotation-xml" ||
				mathMLTextIntegrationPoints.has(parentTag))
		}
		return allSVGTags.has(tagName)
	case mathMLNamespace:
		switch parentNS {
		case htmlNamespace:
			return tagName == "math"
		case svgNamespace:
			return tagName == "math" && htmlIntegrationPoints.has(parentTag)
		}
		return allMathMLTags.has(tagName)
	case htmlNamespace:
		switch {
		case parentNS == svgNamespace && !htmlIntegrationPoints.has(parentTag):
			return false
		case parentNS == mathMLNamespace &&
			!mathMLTextIntegrationPoints.has(parentTag):
			return false
		}
		return !allMathMLTags.has(tagName) &&
			(commonSVGAndHTMLTags.has(tagName) || !allSVGTags.has(tagName))
	}

	// XHTML and XML documents may have custom namespaces.
	return self.p.xml()
}

// customElement reports whether tagName looks like a custom element and the
// policy accepts it.
func (self *Policy) customElement(tagName string) bool {
	return self.basicCustomElement(tagName) && matches(self.customTag, tagName)
}

func (self *Policy) basicCustomElement(tagName string) bool {
	return tagName != "annotation-xml" && customElementName.MatchString(tagName)
}

// scrubTemplates replaces template expressions in s with a space.
func scrubTemplates(s string) string {
	for _, re := range [...]*regexp.Regexp{mustacheExpr, erbExpr, tmplitExpr} {
		s = re.ReplaceAllString(s, " ")
	}
	return s
}
