package purify

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// nodeIterator walks a subtree in document order. It doesn't descend into
// HTML template elements, their children are walked by a separate shadow
// pass.
//
// The next node is computed lazily, so the current node may be removed or
// replaced by its children between calls to next.
type nodeIterator struct {
	root     *html.Node
	skipRoot bool
	started  bool

	ref       *html.Node
	refParent *html.Node
	refPrev   *html.Node
}

func newNodeIterator(root *html.Node) *nodeIterator {
	return &nodeIterator{root: root}
}

// newShadowIterator returns an iterator over descendants of root only.
func newShadowIterator(root *html.Node) *nodeIterator {
	return &nodeIterator{root: root, skipRoot: true}
}

func (self *nodeIterator) next() *html.Node {
	var n *html.Node
	switch {
	case !self.started:
		self.started = true
		n = self.root
		if self.skipRoot {
			n = self.root.FirstChild
		}
	case self.ref == self.root:
		if !isShadowHost(self.root) || self.skipRoot {
			n = self.root.FirstChild
		}
	case self.ref.Parent == self.refParent:
		n = self.following(self.ref, !isShadowHost(self.ref))
	case self.refPrev != nil && self.refPrev.Parent == self.refParent:
		n = self.following(self.refPrev, false)
	case self.refParent != nil && self.refParent.FirstChild != nil:
		n = self.refParent.FirstChild
	case self.refParent != nil && self.refParent != self.root:
		n = self.following(self.refParent, false)
	}

	self.ref = n
	if n != nil {
		self.refParent, self.refPrev = n.Parent, n.PrevSibling
	}
	return n
}

// following returns the node after n in document order, optionally
// descending into its children, without leaving root.
func (self *nodeIterator) following(n *html.Node, descend bool) *html.Node {
	if descend && n.FirstChild != nil {
		return n.FirstChild
	}
	for ; n != nil && n != self.root; n = n.Parent {
		if n.NextSibling != nil {
			return n.NextSibling
		}
	}
	return nil
}

// isShadowHost reports whether children of n are a template content
// fragment.
func isShadowHost(n *html.Node) bool {
	return isHTMLElement(n, atom.Template)
}
