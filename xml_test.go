package purify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

func TestParseXML(t *testing.T) {
	doc, err := parseXML(`<?xml version="1.0"?>` +
		`<!DOCTYPE html>` +
		`<html xmlns="http://www.w3.org/1999/xhtml"><body>` +
		`<svg xmlns="http://www.w3.org/2000/svg" ` +
		`xmlns:xlink="http://www.w3.org/1999/xlink">` +
		`<a xlink:href="#x">t<!--c-->u</a></svg></body></html>`)
	require.NoError(t, err)
	require.Equal(t, html.DocumentNode, doc.Type)

	require.NotNil(t, doc.FirstChild)
	assert.Equal(t, html.DoctypeNode, doc.FirstChild.Type)
	assert.Equal(t, "html", doc.FirstChild.Data)
	assert.Equal(t, "html", doctype(doc.FirstChild))

	root := documentElement(doc)
	require.NotNil(t, root)
	assert.True(t, isHTMLElement(root, atom.Html))
	assert.Equal(t, HTMLNamespace, namespaceURI(root))

	body := documentBody(doc)
	require.NotNil(t, body)
	assert.True(t, isHTMLElement(body, atom.Body))

	svg := body.FirstChild
	require.NotNil(t, svg)
	assert.Equal(t, "svg", svg.Namespace)
	assert.Equal(t, SVGNamespace, namespaceURI(svg))

	a := svg.FirstChild
	require.NotNil(t, a)
	assert.Equal(t, "a", a.Data)
	assert.Equal(t, "svg", a.Namespace)
	assert.Equal(t, atom.Atom(0), a.DataAtom)
	require.Len(t, a.Attr, 1)
	assert.Equal(t, html.Attribute{Namespace: "xlink", Key: "href", Val: "#x"},
		a.Attr[0])

	var kinds []html.NodeType
	for c := a.FirstChild; c != nil; c = c.NextSibling {
		kinds = append(kinds, c.Type)
	}
	assert.Equal(t,
		[]html.NodeType{html.TextNode, html.CommentNode, html.TextNode}, kinds)
}

func TestParseXML_textMerged(t *testing.T) {
	doc, err := parseXML(`<p xmlns="http://www.w3.org/1999/xhtml">a&amp;b<![CDATA[<c>]]></p>`)
	require.NoError(t, err)

	p := documentElement(doc)
	require.NotNil(t, p)
	require.NotNil(t, p.FirstChild)
	assert.Same(t, p.FirstChild, p.LastChild)
	assert.Equal(t, "a&b<c>", p.FirstChild.Data)
}

func TestParseXML_nullNamespace(t *testing.T) {
	doc, err := parseXML(`<a/>`)
	require.NoError(t, err)

	a := documentElement(doc)
	require.NotNil(t, a)
	assert.Equal(t, nullNamespace, a.Namespace)
	assert.Empty(t, namespaceURI(a))
	assert.Equal(t, atom.Atom(0), a.DataAtom)
}

func TestParseXML_processingInstruction(t *testing.T) {
	doc, err := parseXML(`<a><?php echo 1?></a>`)
	require.NoError(t, err)

	a := documentElement(doc)
	require.NotNil(t, a)
	pi := a.FirstChild
	require.NotNil(t, pi)
	assert.Equal(t, html.RawNode, pi.Type)
	assert.Equal(t, "<?php echo 1?>", pi.Data)
	assert.Equal(t, "php", nodeName(pi))
}

func TestParseXML_errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		err  error
	}{
		{name: "mismatch", in: `<a></b>`, err: errXMLMismatch},
		{name: "unclosed", in: `<a>`, err: errXMLUnclosed},
		{name: "unbound prefix", in: `<x:a/>`, err: errXMLPrefix},
		{name: "unbound attribute prefix", in: `<a x:b="1"/>`, err: errXMLPrefix},
		{name: "two roots", in: `<a/><b/>`, err: errXMLStructure},
		{name: "no root", in: `<!--c-->`, err: errXMLStructure},
		{name: "text outside", in: `x<a/>`, err: errXMLStructure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseXML(tt.in)
			require.ErrorIs(t, err, tt.err)
		})
	}
}

func TestParseXMLFragment(t *testing.T) {
	ctx := newTemplate(SVGNamespace)
	nodes, err := parseXMLFragment(`<circle r="1"/>text<g><rect/></g>`, ctx)
	require.NoError(t, err)
	require.Len(t, nodes, 3)

	assert.Equal(t, "circle", nodes[0].Data)
	assert.Equal(t, "svg", nodes[0].Namespace)
	assert.Nil(t, nodes[0].Parent)
	assert.Equal(t, html.TextNode, nodes[1].Type)
	assert.Equal(t, "text", nodes[1].Data)
	require.NotNil(t, nodes[2].FirstChild)
	assert.Equal(t, "svg", nodes[2].FirstChild.Namespace)
}

func TestParser(t *testing.T) {
	p := NewParser()

	doc, err := p.Parse(`<p>x`, MediaTypeHTML)
	require.NoError(t, err)
	assert.NotNil(t, findElement(doc, atom.P))

	_, err = p.Parse(`<p>x`, MediaTypeXHTML)
	require.Error(t, err)

	ctx := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := p.ParseFragment(`<b>x</b>y`, ctx, MediaTypeHTML)
	require.NoError(t, err)
	require.Len(t, nodes, 2)
	assert.Equal(t, "b", nodes[0].Data)
}
