package purify

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/aymerick/douceur/parser"
)

var (
	cssUnicodeChar = regexp.MustCompile(`\\[0-9a-f]{1,6} ?`)
	cssURL         = regexp.MustCompile(`url\(\s*(?:"([^"]*)"|'([^']*)'|([^)]*))\s*\)`)
	cssComment     = regexp.MustCompile(`/\*[\w\W]*?\*/`)
)

// vendorPrefixes are stripped from property names before they are checked.
var vendorPrefixes = [...]string{
	"-webkit-", "-moz-", "-ms-", "-o-", "mso-", "-xv-", "-atsc-", "-wap-",
	"-khtml-", "prince-", "-ah-", "-hp-", "-ro-", "-rim-", "-tc-",
}

// scriptProps are properties which run code or load bindings.
var scriptProps = newSet("behavior", "binding")

// sanitizeStyle filters declarations of a style attribute value. It drops
// declarations which execute script or load URLs rejected by the policy and
// returns an empty string when nothing survives or the value doesn't parse.
func (self *Policy) sanitizeStyle(value string) string {
	value = strings.TrimRight(value, " ")
	if value == "" {
		return ""
	}
	// Add semi-colon to end to fix parsing issue
	if value[len(value)-1] != ';' {
		value += ";"
	}

	decs, err := parser.ParseDeclarations(value)
	if err != nil {
		return ""
	}

	clean := make([]string, 0, len(decs))
	for _, dec := range decs {
		property := strings.ToLower(dec.Property)
		for _, prefix := range vendorPrefixes {
			property = strings.TrimPrefix(property, prefix)
		}
		if scriptProps.has(property) {
			continue
		}
		if !self.styleValueAllowed(dec.Value) {
			continue
		}
		decl := dec.Property + ": " + dec.Value
		if dec.Important {
			decl += " !important"
		}
		clean = append(clean, decl)
	}
	return strings.Join(clean, "; ")
}

func (self *Policy) styleValueAllowed(value string) bool {
	v := removeUnicode(strings.ToLower(value))
	if v == "" && value != "" {
		return false
	}
	v = cssComment.ReplaceAllString(v, "")
	v = attrWhitespace.ReplaceAllString(v, "")

	switch {
	case strings.Contains(v, "expression("), strings.Contains(v, "javascript:"),
		strings.Contains(v, "vbscript:"), strings.Contains(v, "\\"):
		return false
	}

	for _, m := range cssURL.FindAllStringSubmatch(value, -1) {
		u := strings.TrimSpace(m[1] + m[2] + m[3])
		u = attrWhitespace.ReplaceAllString(u, "")
		if isScriptOrData.MatchString(u) || !self.allowedURI.MatchString(u) {
			return false
		}
	}
	return true
}

func removeUnicode(value string) string {
	substitutedValue := value
	currentLoc := cssUnicodeChar.FindStringIndex(substitutedValue)
	for currentLoc != nil {
		character := substitutedValue[currentLoc[0]+1 : currentLoc[1]]
		character = strings.TrimSpace(character)
		if len(character) < 4 {
			character = strings.Repeat("0", 4-len(character)) + character
		} else {
			for len(character) > 4 {
				if character[0] != '0' {
					character = ""
					break
				} else {
					character = character[1:]
				}
			}
		}
		character = "\\u" + character
		translatedChar, err := strconv.Unquote(`"` + character + `"`)
		translatedChar = strings.TrimSpace(translatedChar)
		if err != nil {
			return ""
		}
		substitutedValue = substitutedValue[0:currentLoc[0]] + translatedChar +
			substitutedValue[currentLoc[1]:]
		currentLoc = cssUnicodeChar.FindStringIndex(substitutedValue)
	}
	return substitutedValue
}
