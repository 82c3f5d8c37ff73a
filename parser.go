package purify

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// Parser builds node trees from markup. Namespaces of elements follow
// golang.org/x/net/html: "" for HTML, "svg", "math" or a namespace URI.
type Parser interface {
	// Parse parses markup as a whole document and returns the document node.
	Parse(markup, mediaType string) (*html.Node, error)

	// ParseFragment parses markup as children of the context element.
	ParseFragment(markup string, context *html.Node, mediaType string,
	) ([]*html.Node, error)
}

type defaultParser struct{}

var _ Parser = defaultParser{}

// NewParser returns a [Parser] which uses golang.org/x/net/html for
// [MediaTypeHTML] and encoding/xml for [MediaTypeXHTML].
func NewParser() Parser { return defaultParser{} }

func (defaultParser) Parse(markup, mediaType string) (*html.Node, error) {
	if mediaType == MediaTypeXHTML {
		return parseXML(markup)
	}

	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return doc, nil
}

func (defaultParser) ParseFragment(markup string, context *html.Node,
	mediaType string,
) ([]*html.Node, error) {
	if mediaType == MediaTypeXHTML {
		return parseXMLFragment(markup, context)
	}

	nodes, err := html.ParseFragment(strings.NewReader(markup), context)
	if err != nil {
		return nil, fmt.Errorf("parse html fragment: %w", err)
	}
	return nodes, nil
}
