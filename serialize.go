package purify

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// serialize returns the walked tree as DOM nodes or as markup, according to
// the policy.
func (self *pass) serialize(body *html.Node) (output, error) {
	if self.p.returnDOM {
		ret := body
		if self.p.returnDOMFragment {
			ret = &html.Node{Type: html.DocumentNode}
			for c := body.FirstChild; c != nil; c = body.FirstChild {
				body.RemoveChild(c)
				ret.AppendChild(c)
			}
		}
		// Shadow roots could bind to the working document, return a copy.
		if self.p.allowedAttrs.has("shadowroot") ||
			self.p.allowedAttrs.has("shadowrootmode") {
			ret = cloneNode(ret)
		}
		return output{node: ret}, nil
	}

	render := innerHTML
	if self.p.wholeDocument {
		render = outerHTML
	}
	s, err := render(body)
	if err != nil {
		return output{}, fmt.Errorf(genericErrMsg,
			fmt.Errorf("%w: %w", ErrRender, err))
	}

	if self.p.wholeDocument && self.p.allowedTags.has("!doctype") {
		if name := doctype(body); name != "" && doctypeName.MatchString(name) {
			s = "<!DOCTYPE " + name + ">\n" + s
		}
	}

	if self.p.safeForTemplates {
		s = scrubTemplates(s)
	}
	return self.trustedOutput(s)
}

// innerHTML renders the children of n.
func innerHTML(n *html.Node) (string, error) {
	var sb strings.Builder
	if err := renderChildren(&sb, n); err != nil {
		return sb.String(), err
	}
	return sb.String(), nil
}

// outerHTML renders n with its children.
func outerHTML(n *html.Node) (string, error) {
	if n.Type == html.DocumentNode {
		return innerHTML(n)
	}

	var sb strings.Builder
	if err := html.Render(&sb, n); err != nil {
		return sb.String(), fmt.Errorf("render <%s>: %w", n.Data, err)
	}
	return sb.String(), nil
}

func renderChildren(w io.Writer, n *html.Node) error {
	literal := literalText(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if literal && c.Type == html.TextNode {
			if _, err := io.WriteString(w, c.Data); err != nil {
				return fmt.Errorf("render text: %w", err)
			}
			continue
		}
		if err := html.Render(w, c); err != nil {
			return fmt.Errorf("render %s: %w", nodeName(c), err)
		}
	}
	return nil
}
