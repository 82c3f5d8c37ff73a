package purify

import (
	"slices"
	"strings"
	"unicode"

	"golang.org/x/net/html"
)

// sanitizeAttributes checks every attribute of the element n, last to first,
// and drops the ones which are not allowed. Surviving attributes keep their
// positions.
func (self *pass) sanitizeAttributes(n *html.Node) {
	self.hooks.execute(BeforeSanitizeAttributes, n, nil, self.p)
	if n.Type != html.ElementNode {
		return
	}

	lcTag := self.p.transformCase(nodeName(n))
	data := &HookData{AllowedAttributes: self.p.AllowedAttrs()}

	for i := len(n.Attr) - 1; i >= 0; i-- {
		if i >= len(n.Attr) {
			continue
		}
		attr := n.Attr[i]
		name := attrName(&attr)
		lcName := self.p.transformCase(name)
		value := attr.Val
		if name != "value" {
			value = trimSpace(value)
		}

		data.AttrName, data.AttrValue = lcName, value
		data.KeepAttr, data.ForceKeepAttr = true, false
		self.hooks.execute(UponSanitizeAttribute, n, data, self.p)
		if i >= len(n.Attr) {
			continue
		}

		switch {
		case data.ForceKeepAttr:
			if data.AttrValue != value {
				n.Attr[i].Val = data.AttrValue
			}
		case !data.KeepAttr:
			self.removeAttribute(n, i)
		default:
			if v, ok := self.checkAttribute(&attr, lcTag, lcName,
				data.AttrValue); ok {
				n.Attr[i].Val = v
			} else {
				self.removeAttribute(n, i)
			}
		}
	}

	self.hooks.execute(AfterSanitizeAttributes, n, nil, self.p)
}

// checkAttribute returns the value attr gets or false if it must be dropped.
func (self *pass) checkAttribute(attr *html.Attribute, lcTag, lcName,
	value string,
) (string, bool) {
	if !self.p.allowSelfCloseInAttr && strings.Contains(value, "/>") {
		return "", false
	}

	if self.p.safeForTemplates {
		value = scrubTemplates(value)
	}
	if !self.p.isValidAttribute(lcTag, lcName, value) {
		return "", false
	}

	if self.p.sanitizeNamedProps && (lcName == "id" || lcName == "name") {
		value = namedPropsPrefix + value
	}

	if self.p.sanitizeStyles && lcName == "style" {
		if value = self.p.sanitizeStyle(value); value == "" {
			return "", false
		}
	}

	if self.tt != nil && self.ttTable != nil && attr.Namespace == "" {
		if t := self.ttTable.AttributeType(lcTag, lcName); t != "" {
			v, err := self.tt.coerce(t, value)
			if err != nil {
				self.logger.Debug("trusted types coercion failed",
					"tag", lcTag, "attr", lcName, "error", err)
				return "", false
			}
			value = v
		}
	}

	if !validAttrName(attrName(attr)) {
		return "", false
	}
	return value, true
}

// removeAttribute drops the attribute i of n and logs it. A dropped "is"
// attribute can't be removed from a live element, so its value is voided, or
// the whole element is removed when DOM nodes are returned.
func (self *pass) removeAttribute(n *html.Node, i int) {
	attr := n.Attr[i]
	self.removed = append(self.removed, Removal{Attribute: &attr, From: n})

	name := attrName(&attr)
	if name != "is" || self.p.allowedAttrs.has(name) {
		n.Attr = slices.Delete(n.Attr, i, i+1)
		return
	}

	if self.p.returnDOM {
		n.Attr = slices.Delete(n.Attr, i, i+1)
		self.forceRemove(n)
		return
	}
	n.Attr[i].Val = ""
}

// isValidAttribute reports whether the attribute lcName with value is
// allowed on lcTag.
func (self *Policy) isValidAttribute(lcTag, lcName, value string) bool {
	// Make sure attribute cannot clobber
	if self.sanitizeDOM && (lcName == "id" || lcName == "name") &&
		clobbersDocument(value) {
		return false
	}

	switch {
	case self.allowData && !self.forbidAttrs.has(lcName) &&
		dataAttr.MatchString(lcName):
		// data-* values are never interpreted.
	case self.allowARIA && ariaAttr.MatchString(lcName):
	case !self.allowedAttrs.has(lcName) || self.forbidAttrs.has(lcName):
		if self.customAttribute(lcTag, lcName) {
			return true
		}
		return lcName == "is" && self.allowCustomizedBuiltIns &&
			matches(self.customTag, value)
	case self.uriSafeAttrs.has(lcName):
	case self.allowedURI.MatchString(stripWhitespace(value)):
	case (lcName == "src" || lcName == "xlink:href" || lcName == "href") &&
		lcTag != "script" && strings.HasPrefix(value, "data:") &&
		self.dataURITags.has(lcTag):
	case self.allowUnknownProtocols &&
		!isScriptOrData.MatchString(stripWhitespace(value)):
	case value != "":
		return false
	}
	return true
}

func (self *Policy) customAttribute(lcTag, lcName string) bool {
	return self.customElement(lcTag) && matches(self.customAttr, lcName)
}

func stripWhitespace(s string) string {
	return attrWhitespace.ReplaceAllString(s, "")
}

func trimSpace(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == '\uFEFF'
	})
}
