package purify

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// documentProps are names of document properties, which an element with the
// same id or name would shadow.
var documentProps = newSet(
	"URL", "activeElement", "adoptNode", "adoptedStyleSheets", "alinkColor",
	"all", "anchors", "append", "applets", "attributes", "baseURI",
	"bgColor", "body", "captureEvents", "caretRangeFromPoint",
	"characterSet", "charset", "childElementCount", "childNodes",
	"children", "clear", "cloneNode", "close", "compareDocumentPosition",
	"compatMode", "contains", "contentType", "cookie", "createAttribute",
	"createAttributeNS", "createCDATASection", "createComment",
	"createDocumentFragment", "createElement", "createElementNS",
	"createEvent", "createExpression", "createNSResolver",
	"createNodeIterator", "createProcessingInstruction", "createRange",
	"createTextNode", "createTreeWalker", "currentScript", "defaultView",
	"designMode", "dir", "dispatchEvent", "doctype", "documentElement",
	"documentURI", "domain", "elementFromPoint", "elementsFromPoint",
	"embeds", "evaluate", "execCommand", "exitFullscreen",
	"exitPictureInPicture", "exitPointerLock", "fgColor", "firstChild",
	"firstElementChild", "fonts", "forms", "fullscreen",
	"fullscreenElement", "fullscreenEnabled", "getAnimations",
	"getElementById", "getElementsByClassName", "getElementsByName",
	"getElementsByTagName", "getElementsByTagNameNS", "getRootNode",
	"getSelection", "hasChildNodes", "hasFocus", "hasStorageAccess",
	"head", "hidden", "images", "implementation", "importNode",
	"inputEncoding", "insertBefore", "isConnected", "isDefaultNamespace",
	"isEqualNode", "isSameNode", "lastChild", "lastElementChild",
	"lastModified", "linkColor", "links", "location", "lookupNamespaceURI",
	"lookupPrefix", "nextSibling", "nodeName", "nodeType", "nodeValue",
	"normalize", "open", "ownerDocument", "parentElement", "parentNode",
	"pictureInPictureElement", "pictureInPictureEnabled", "plugins",
	"pointerLockElement", "prepend", "previousSibling", "queryCommandEnabled",
	"queryCommandIndeterm", "queryCommandState", "queryCommandSupported",
	"queryCommandValue", "querySelector", "querySelectorAll",
	"readyState", "referrer", "releaseEvents", "removeChild",
	"removeEventListener", "replaceChild", "replaceChildren",
	"requestStorageAccess", "rootElement", "scripts", "scrollingElement",
	"styleSheets", "textContent", "timeline", "title", "visibilityState",
	"vlinkColor", "write", "writeln", "xmlEncoding", "xmlStandalone",
	"xmlVersion",
)

// formProps are names of form element properties, which a form control with
// the same id or name would shadow.
var formProps = newSet(
	"acceptCharset", "action", "append", "attributes", "autocomplete",
	"checkValidity", "childElementCount", "childNodes", "children",
	"className", "classList", "cloneNode", "closest", "contains", "dataset",
	"dir", "elements", "encoding", "enctype", "firstChild",
	"firstElementChild", "getAttribute", "getAttributeNode",
	"getElementsByTagName", "hasAttribute", "hasChildNodes", "id",
	"innerHTML", "insertBefore", "lastChild", "lastElementChild", "length",
	"localName", "method", "name", "namespaceURI", "nextSibling",
	"nodeName", "nodeType", "nodeValue", "noValidate", "outerHTML",
	"ownerDocument", "parentElement", "parentNode", "prefix", "prepend",
	"previousSibling", "querySelector", "querySelectorAll", "rel",
	"relList", "remove", "removeAttribute", "removeChild", "replaceChild",
	"reportValidity", "requestSubmit", "reset", "setAttribute",
	"setAttributeNS", "style", "submit", "tabIndex", "tagName", "target",
	"textContent", "title",
)

// formMethods are form members the sanitizer itself relies on. A form whose
// descendants shadow one of them is clobbered.
var formMethods = newSet(
	"nodeName", "textContent", "removeChild", "attributes",
	"removeAttribute", "setAttribute", "namespaceURI", "insertBefore",
	"hasChildNodes",
)

// clobbersDocument reports whether an id or name value shadows a document or
// form property.
func clobbersDocument(value string) bool {
	return documentProps.has(value) || formProps.has(value)
}

// isClobbered reports whether n is a form with a named descendant which
// shadows one of formMethods.
func isClobbered(n *html.Node) bool {
	if !isHTMLElement(n, atom.Form) {
		return false
	}
	return shadowsFormMethod(n)
}

func shadowsFormMethod(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		for _, name := range [...]string{"id", "name"} {
			if v, ok := getAttr(c, name); ok && formMethods.has(v) {
				return true
			}
		}
		if shadowsFormMethod(c) {
			return true
		}
	}
	return false
}
