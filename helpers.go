// Copyright (c) 2014, David Kitchen <david@buro9.com>
//
// All rights reserved.
//
// Redistribution and use in source and binary forms, with or without
// modification, are permitted provided that the following conditions are met:
//
// * Redistributions of source code must retain the above copyright notice, this
//   list of conditions and the following disclaimer.
//
// * Redistributions in binary form must reproduce the above copyright notice,
//   this list of conditions and the following disclaimer in the documentation
//   and/or other materials provided with the distribution.
//
// * Neither the name of the organisation (Microcosm) nor the names of its
//   contributors may be used to endorse or promote products derived from
//   this software without specific prior written permission.
//
// THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS "AS IS"
// AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT LIMITED TO, THE
// IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE ARE
// DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR CONTRIBUTORS BE LIABLE
// FOR ANY DIRECT, INDIRECT, INCIDENTAL, SPECIAL, EXEMPLARY, OR CONSEQUENTIAL
// DAMAGES (INCLUDING, BUT NOT LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR
// SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER
// CAUSED AND ON ANY THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY,
// OR TORT (INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
// OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE.

package purify

import "regexp"

const (
	htmlNamespace   = "http://www.w3.org/1999/xhtml"
	svgNamespace    = "http://www.w3.org/2000/svg"
	mathMLNamespace = "http://www.w3.org/1998/Math/MathML"
	xmlNamespace    = "http://www.w3.org/XML/1998/namespace"
	xmlnsNamespace  = "http://www.w3.org/2000/xmlns/"
)

// Namespace URIs that may be listed in [Config.AllowedNamespaces] or set as
// [Config.Namespace].
const (
	HTMLNamespace   = htmlNamespace
	SVGNamespace    = svgNamespace
	MathMLNamespace = mathMLNamespace
)

// Parser media types accepted by [Config.ParserMediaType].
const (
	MediaTypeHTML  = "text/html"
	MediaTypeXHTML = "application/xhtml+xml"
)

// Expressions used by the attribute and template checks.
var (
	// Anchored on the opening delimiter: everything from "{{" up to the end
	// goes, and so does a lone closing "}}".
	mustacheExpr = regexp.MustCompile(`\{\{[\w\W]*|\}\}`)
	erbExpr      = regexp.MustCompile(`<%[\w\W]*|%>`)
	tmplitExpr   = regexp.MustCompile(`\$\{[\w\W]*\}`)

	dataAttr = regexp.MustCompile(`^data-[\-\w.\x{00B7}-\x{FFFF}]`)
	ariaAttr = regexp.MustCompile(`^aria-[\-\w]+$`)

	// IsAllowedURI is the default [Config.AllowedURIRegexp]. It permits the
	// http(s), ftp(s), mailto, tel, callto, sms, cid and xmpp schemes, values
	// starting with a non-letter and values that do not look like "scheme:".
	IsAllowedURI = regexp.MustCompile(
		`(?i)^(?:(?:(?:f|ht)tps?|mailto|tel|callto|sms|cid|xmpp):|[^a-z]|` +
			`[a-z+.\-]+(?:[^a-z+.\-:]|$))`)

	isScriptOrData = regexp.MustCompile(`(?i)^(?:\w+script|data):`)
	attrWhitespace = regexp.MustCompile(
		`[\x00-\x20\x{00A0}\x{1680}\x{180E}\x{2000}-\x{2029}\x{205F}\x{3000}]`)

	doctypeName       = regexp.MustCompile(`(?i)^html$`)
	customElementName = regexp.MustCompile(`^[a-z][.\w]*(-[.\w]+)+$`)

	tagLike          = regexp.MustCompile(`<[/\w]`)
	fallbackTagClose = regexp.MustCompile(`(?i)</no(script|embed|frames)`)
)

var (
	htmlTags = [...]string{
		"a", "abbr", "acronym", "address", "area", "article", "aside", "audio",
		"b", "bdi", "bdo", "big", "blink", "blockquote", "body", "br", "button",
		"canvas", "caption", "center", "cite", "code", "col", "colgroup",
		"content", "data", "datalist", "dd", "decorator", "del", "details", "dfn",
		"dialog", "dir", "div", "dl", "dt", "element", "em", "fieldset",
		"figcaption", "figure", "font", "footer", "form",
		"h1", "h2", "h3", "h4", "h5", "h6",
		"head", "header", "hgroup", "hr", "html", "i", "img", "input", "ins",
		"kbd", "label", "legend", "li", "main", "map", "mark", "marquee", "menu",
		"menuitem", "meter", "nav", "nobr", "ol", "optgroup", "option", "output",
		"p", "picture", "pre", "progress", "q", "rp", "rt", "ruby", "s", "samp",
		"section", "select", "shadow", "small", "source", "spacer", "span",
		"strike", "strong", "style", "sub", "summary", "sup", "table", "tbody",
		"td", "template", "textarea", "tfoot", "th", "thead", "time", "tr",
		"track", "tt", "u", "ul", "var", "video", "wbr",
	}

	svgTags = [...]string{
		"svg", "a", "altglyph", "altglyphdef", "altglyphitem", "animatecolor",
		"animatemotion", "animatetransform", "circle", "clippath", "defs", "desc",
		"ellipse", "filter", "font", "g", "glyph", "glyphref", "hkern", "image",
		"line", "lineargradient", "marker", "mask", "metadata", "mpath", "path",
		"pattern", "polygon", "polyline", "radialgradient", "rect", "stop",
		"style", "switch", "symbol", "text", "textpath", "title", "tref", "tspan",
		"view", "vkern",
	}

	svgFilterTags = [...]string{
		"feBlend", "feColorMatrix", "feComponentTransfer", "feComposite",
		"feConvolveMatrix", "feDiffuseLighting", "feDisplacementMap",
		"feDistantLight", "feDropShadow", "feFlood", "feFuncA", "feFuncB",
		"feFuncG", "feFuncR", "feGaussianBlur", "feImage", "feMerge",
		"feMergeNode", "feMorphology", "feOffset", "fePointLight",
		"feSpecularLighting", "feSpotLight", "feTile", "feTurbulence",
	}

	// svgDisallowedTags are not allowed by default, but we still need to know
	// them for the namespace checks, in case someone adds them to the allowlist.
	svgDisallowedTags = [...]string{
		"animate", "color-profile", "cursor", "discard", "font-face",
		"font-face-format", "font-face-name", "font-face-src", "font-face-uri",
		"foreignobject", "hatch", "hatchpath", "mesh", "meshgradient",
		"meshpatch", "meshrow", "missing-glyph", "script", "set", "solidcolor",
		"unknown", "use",
	}

	mathMLTags = [...]string{
		"math", "menclose", "merror", "mfenced", "mfrac", "mglyph", "mi",
		"mlabeledtr", "mmultiscripts", "mn", "mo", "mover", "mpadded",
		"mphantom", "mroot", "mrow", "ms", "mspace", "msqrt", "mstyle", "msub",
		"msup", "msubsup", "mtable", "mtd", "mtext", "mtr", "munder",
		"munderover", "mprescripts",
	}

	mathMLDisallowedTags = [...]string{
		"maction", "maligngroup", "malignmark", "mlongdiv", "mscarries",
		"mscarry", "msgroup", "mstack", "msline", "msrow", "semantics",
		"annotation", "annotation-xml", "mprescripts", "none",
	}

	textTags = [...]string{"#text"}

	htmlAttrs = [...]string{
		"accept", "action", "align", "alt", "autocapitalize", "autocomplete",
		"autopictureinpicture", "autoplay", "background", "bgcolor", "border",
		"capture", "cellpadding", "cellspacing", "checked", "cite", "class",
		"clear", "color", "cols", "colspan", "controls", "controlslist", "coords",
		"crossorigin", "datetime", "decoding", "default", "dir", "disabled",
		"disablepictureinpicture", "disableremoteplayback", "download",
		"draggable", "enctype", "enterkeyhint", "face", "for", "headers",
		"height", "hidden", "high", "href", "hreflang", "id", "inputmode",
		"integrity", "ismap", "kind", "label", "lang", "list", "loading", "loop",
		"low", "max", "maxlength", "media", "method", "min", "minlength",
		"multiple", "muted", "name", "nonce", "noshade", "novalidate", "nowrap",
		"open", "optimum", "pattern", "placeholder", "playsinline", "poster",
		"preload", "pubdate", "radiogroup", "readonly", "rel", "required", "rev",
		"reversed", "role", "rows", "rowspan", "spellcheck", "scope", "selected",
		"shape", "size", "sizes", "span", "srclang", "start", "src", "srcset",
		"step", "style", "summary", "tabindex", "title", "translate", "type",
		"usemap", "valign", "value", "width", "xmlns", "slot",
	}

	svgAttrs = [...]string{
		"accent-height", "accumulate", "additive", "alignment-baseline",
		"ascent", "attributename", "attributetype", "azimuth", "basefrequency",
		"baseline-shift", "begin", "bias", "by", "class", "clip",
		"clippathunits", "clip-path", "clip-rule", "color",
		"color-interpolation", "color-interpolation-filters", "color-profile",
		"color-rendering", "cx", "cy", "d", "dx", "dy", "diffuseconstant",
		"direction", "display", "divisor", "dur", "edgemode", "elevation", "end",
		"fill", "fill-opacity", "fill-rule", "filter", "filterunits",
		"flood-color", "flood-opacity", "font-family", "font-size",
		"font-size-adjust", "font-stretch", "font-style", "font-variant",
		"font-weight", "fx", "fy", "g1", "g2", "glyph-name", "glyphref",
		"gradientunits", "gradienttransform", "height", "href", "id",
		"image-rendering", "in", "in2", "k", "k1", "k2", "k3", "k4", "kerning",
		"keypoints", "keysplines", "keytimes", "lang", "lengthadjust",
		"letter-spacing", "kernelmatrix", "kernelunitlength", "lighting-color",
		"local", "marker-end", "marker-mid", "marker-start", "markerheight",
		"markerunits", "markerwidth", "maskcontentunits", "maskunits", "max",
		"mask", "media", "method", "mode", "min", "name", "numoctaves", "offset",
		"operator", "opacity", "order", "orient", "orientation", "origin",
		"overflow", "paint-order", "path", "pathlength", "patterncontentunits",
		"patterntransform", "patternunits", "points", "preservealpha",
		"preserveaspectratio", "primitiveunits", "r", "rx", "ry", "radius",
		"refx", "refy", "repeatcount", "repeatdur", "restart", "result",
		"rotate", "scale", "seed", "shape-rendering", "specularconstant",
		"specularexponent", "spreadmethod", "startoffset", "stddeviation",
		"stitchtiles", "stop-color", "stop-opacity", "stroke-dasharray",
		"stroke-dashoffset", "stroke-linecap", "stroke-linejoin",
		"stroke-miterlimit", "stroke-opacity", "stroke", "stroke-width",
		"style", "surfacescale", "systemlanguage", "tabindex", "targetx",
		"targety", "transform", "transform-origin", "text-anchor",
		"text-decoration", "text-rendering", "textlength", "type", "u1", "u2",
		"unicode", "values", "viewbox", "visibility", "version", "vert-adv-y",
		"vert-origin-x", "vert-origin-y", "width", "word-spacing", "wrap",
		"writing-mode", "xchannelselector", "ychannelselector", "x", "x1", "x2",
		"xmlns", "y", "y1", "y2", "z", "zoomandpan",
	}

	mathMLAttrs = [...]string{
		"accent", "accentunder", "align", "bevelled", "close", "columnsalign",
		"columnlines", "columnspan", "denomalign", "depth", "dir", "display",
		"displaystyle", "encoding", "fence", "frame", "height", "href", "id",
		"largeop", "length", "linethickness", "lspace", "lquote",
		"mathbackground", "mathcolor", "mathsize", "mathvariant", "maxsize",
		"minsize", "movablelimits", "notation", "numalign", "open", "rowalign",
		"rowlines", "rowspacing", "rowspan", "rspace", "rquote", "scriptlevel",
		"scriptminsize", "scriptsizemultiplier", "selection", "separator",
		"separators", "stretchy", "subscriptshift", "supscriptshift",
		"symmetric", "voffset", "width", "xmlns",
	}

	xmlAttrs = [...]string{
		"xlink:href", "xml:id", "xlink:title", "xml:space", "xmlns:xlink",
	}

	// defForbidContents contains elements whose content is dropped together
	// with the element, even when content is kept for removed elements.
	defForbidContents = [...]string{
		"annotation-xml", "audio", "colgroup", "desc", "foreignobject", "head",
		"iframe", "math", "mi", "mn", "mo", "ms", "mtext", "noembed", "noframes",
		"noscript", "plaintext", "script", "style", "svg", "template", "thead",
		"title", "video", "xmp",
	}

	// defDataURITags may carry data: URIs in src, href and xlink:href.
	defDataURITags = [...]string{
		"audio", "video", "img", "source", "image", "track",
	}

	// defURISafeAttrs are never interpreted as URIs, so values like
	// "javascript:" are harmless in them.
	defURISafeAttrs = [...]string{
		"alt", "class", "for", "id", "label", "name", "pattern", "placeholder",
		"role", "summary", "title", "value", "style", "xmlns",
	}

	defNamespaces = [...]string{mathMLNamespace, svgNamespace, htmlNamespace}

	mathMLTextIntegrationPoints = newSet("mi", "mo", "mn", "ms", "mtext")
	htmlIntegrationPoints       = newSet(
		"foreignobject", "desc", "title", "annotation-xml")

	// Certain elements are allowed in both SVG and HTML namespace. We need to
	// specify them explicitly so that they don't get erroneously deleted from
	// HTML namespace.
	commonSVGAndHTMLTags = newSet("title", "style", "font", "a", "script")

	allSVGTags    = newSet().addLower(svgTags[:], svgFilterTags[:], svgDisallowedTags[:])
	allMathMLTags = newSet().addLower(mathMLTags[:], mathMLDisallowedTags[:])

	defAllowedTags = newSet().addLower(htmlTags[:], svgTags[:], svgFilterTags[:],
		mathMLTags[:], textTags[:])
	defAllowedAttrs = newSet().addLower(htmlAttrs[:], svgAttrs[:], mathMLAttrs[:],
		xmlAttrs[:])
)

const namedPropsPrefix = "user-content-"

type set map[string]struct{}

func newSet(names ...string) set {
	s := make(set, len(names))
	for _, name := range names {
		s[name] = struct{}{}
	}
	return s
}

func (self set) add(transform func(string) string, lists ...[]string) set {
	for _, names := range lists {
		for _, name := range names {
			self[transform(name)] = struct{}{}
		}
	}
	return self
}

func (self set) addLower(lists ...[]string) set {
	return self.add(lowerCase, lists...)
}

func (self set) clone() set {
	s := make(set, len(self))
	for k := range self {
		s[k] = struct{}{}
	}
	return s
}

func (self set) has(name string) bool {
	_, ok := self[name]
	return ok
}
