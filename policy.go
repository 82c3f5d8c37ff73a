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

import (
	"fmt"
	"regexp"
	"strings"
)

// Config holds the options of one sanitize pass. The zero value means all
// defaults, so options which are on by default are named negatively.
//
// A nil slice keeps the default table, a non-nil slice replaces it. The Add
// variants union into a private copy of the active table.
type Config struct {
	// AllowedTags replaces the default allowlist of tag names.
	AllowedTags []string
	// AllowedAttrs replaces the default allowlist of attribute names.
	AllowedAttrs []string
	// AddTags and AddAttrs extend the active allowlists.
	AddTags  []string
	AddAttrs []string

	// ForbidTags and ForbidAttrs override the allowlists.
	ForbidTags  []string
	ForbidAttrs []string

	// ForbidContents replaces the set of tags whose content is dropped along
	// with them, AddForbidContents extends it.
	ForbidContents    []string
	AddForbidContents []string

	// AddURISafeAttrs marks more attributes as never holding a URI.
	AddURISafeAttrs []string
	// AddDataURITags lets more tags hold data: URIs.
	AddDataURITags []string

	// AllowedNamespaces replaces the default set of HTML, SVG and MathML
	// namespace URIs.
	AllowedNamespaces []string

	// Profiles, when not nil, builds the allowlists from the selected groups
	// only.
	Profiles *Profiles

	CustomElements CustomElements

	// AllowedURIRegexp checks values of URI attributes. Default is
	// [IsAllowedURI].
	AllowedURIRegexp *regexp.Regexp

	// Namespace is the namespace URI of the working document. Default is
	// [HTMLNamespace].
	Namespace string
	// ParserMediaType is one of [MediaTypeHTML] or [MediaTypeXHTML]. Anything
	// else means [MediaTypeHTML].
	ParserMediaType string

	DisallowARIAAttrs     bool
	DisallowDataAttrs     bool
	AllowUnknownProtocols bool
	ForbidSelfCloseInAttr bool

	// SafeForTemplates strips {{...}}, <%...%> and ${...} expressions from
	// text, attribute values and the final output. It turns data attributes
	// off.
	SafeForTemplates bool

	// WholeDocument returns the whole html element instead of the body
	// content.
	WholeDocument bool

	// ReturnDOM makes the DOM family of methods return the body node,
	// ReturnDOMFragment returns a fragment with the body children instead.
	ReturnDOM         bool
	ReturnDOMFragment bool

	// ReturnTrustedType passes the serialized output through the active
	// trusted types policy.
	ReturnTrustedType bool

	// ForceBody makes the parser put leading elements like style into the
	// body.
	ForceBody bool

	// SkipDOMClobberingChecks turns off the check of id and name values
	// against document and form properties.
	SkipDOMClobberingChecks bool
	// SanitizeNamedProps prefixes id and name values with "user-content-".
	SanitizeNamedProps bool

	// DiscardContent drops the children of removed elements too.
	DiscardContent bool

	// InPlace sanitizes a node given to [Sanitizer.SanitizeNode] in place.
	InPlace bool

	TrustedTypesPolicy *TrustedTypesPolicy

	// SanitizeStyles filters declarations of style attributes.
	SanitizeStyles bool
}

// Profiles selects groups of the default allowlists.
type Profiles struct {
	HTML       bool
	SVG        bool
	SVGFilters bool
	MathML     bool
}

// CustomElements configures acceptance of custom elements, which are not in
// the allowlist but have a name like "my-element".
type CustomElements struct {
	TagNameCheck       NameMatcher
	AttributeNameCheck NameMatcher

	// AllowCustomizedBuiltInElements accepts is="my-element" when the value
	// passes TagNameCheck.
	AllowCustomizedBuiltInElements bool
}

// Policy is the resolved, read only form of a [Config]. Hooks receive it.
type Policy struct {
	mediaType     string
	transformCase func(string) string
	namespace     string

	allowedTags    set
	allowedAttrs   set
	forbidTags     set
	forbidAttrs    set
	forbidContents set
	uriSafeAttrs   set
	dataURITags    set
	namespaces     set

	customTag               NameMatcher
	customAttr              NameMatcher
	allowCustomizedBuiltIns bool

	allowedURI *regexp.Regexp

	allowARIA             bool
	allowData             bool
	allowUnknownProtocols bool
	allowSelfCloseInAttr  bool
	safeForTemplates      bool
	wholeDocument         bool
	returnDOM             bool
	returnDOMFragment     bool
	returnTrustedType     bool
	forceBody             bool
	sanitizeDOM           bool
	sanitizeNamedProps    bool
	keepContent           bool
	inPlace               bool
	sanitizeStyles        bool

	trusted *TrustedTypesPolicy
}

func resolve(cfg *Config) (*Policy, error) {
	if cfg == nil {
		cfg = &Config{}
	}

	p := &Policy{
		mediaType:     MediaTypeHTML,
		transformCase: lowerCase,
		namespace:     htmlNamespace,
		allowedURI:    IsAllowedURI,

		allowARIA:             !cfg.DisallowARIAAttrs,
		allowData:             !cfg.DisallowDataAttrs,
		allowUnknownProtocols: cfg.AllowUnknownProtocols,
		allowSelfCloseInAttr:  !cfg.ForbidSelfCloseInAttr,
		safeForTemplates:      cfg.SafeForTemplates,
		wholeDocument:         cfg.WholeDocument,
		returnDOM:             cfg.ReturnDOM || cfg.ReturnDOMFragment,
		returnDOMFragment:     cfg.ReturnDOMFragment,
		returnTrustedType:     cfg.ReturnTrustedType,
		forceBody:             cfg.ForceBody,
		sanitizeDOM:           !cfg.SkipDOMClobberingChecks,
		sanitizeNamedProps:    cfg.SanitizeNamedProps,
		keepContent:           !cfg.DiscardContent,
		inPlace:               cfg.InPlace,
		sanitizeStyles:        cfg.SanitizeStyles,

		customTag:               cfg.CustomElements.TagNameCheck,
		customAttr:              cfg.CustomElements.AttributeNameCheck,
		allowCustomizedBuiltIns: cfg.CustomElements.AllowCustomizedBuiltInElements,
	}

	if cfg.ParserMediaType == MediaTypeXHTML {
		p.mediaType = MediaTypeXHTML
		p.transformCase = sameCase
	}
	if cfg.Namespace != "" {
		p.namespace = cfg.Namespace
	}
	if cfg.AllowedURIRegexp != nil {
		p.allowedURI = cfg.AllowedURIRegexp
	}
	if p.safeForTemplates {
		p.allowData = false
	}

	p.allowedTags = p.listOr(cfg.AllowedTags, defAllowedTags)
	p.allowedAttrs = p.listOr(cfg.AllowedAttrs, defAllowedAttrs)
	p.forbidTags = p.listOr(cfg.ForbidTags, nil)
	p.forbidAttrs = p.listOr(cfg.ForbidAttrs, nil)
	p.forbidContents = p.listOr(cfg.ForbidContents,
		newSet().addLower(defForbidContents[:]))
	p.uriSafeAttrs = newSet().addLower(defURISafeAttrs[:])
	p.dataURITags = newSet().addLower(defDataURITags[:])

	if cfg.AllowedNamespaces != nil {
		p.namespaces = newSet(cfg.AllowedNamespaces...)
	} else {
		p.namespaces = newSet(defNamespaces[:]...)
	}

	if cfg.Profiles != nil {
		p.applyProfiles(cfg.Profiles)
	}

	p.allowedTags.add(p.transformCase, cfg.AddTags)
	p.allowedAttrs.add(p.transformCase, cfg.AddAttrs)
	p.uriSafeAttrs.add(p.transformCase, cfg.AddURISafeAttrs)
	p.dataURITags.add(p.transformCase, cfg.AddDataURITags)
	p.forbidContents.add(p.transformCase, cfg.AddForbidContents)

	if p.keepContent {
		p.allowedTags["#text"] = struct{}{}
	}
	if p.wholeDocument {
		p.allowedTags.addLower([]string{"html", "head", "body"})
	}
	if p.allowedTags.has("table") {
		p.allowedTags["tbody"] = struct{}{}
		delete(p.forbidTags, "tbody")
	}

	if tt := cfg.TrustedTypesPolicy; tt != nil {
		if tt.CreateHTML == nil {
			return nil, fmt.Errorf(
				"%w: CreateHTML hook must be provided", ErrTrustedTypesPolicy)
		}
		if tt.CreateScriptURL == nil {
			return nil, fmt.Errorf(
				"%w: CreateScriptURL hook must be provided", ErrTrustedTypesPolicy)
		}
		p.trusted = tt
	}
	return p, nil
}

// listOr returns a fresh set of names transformed for the active media type,
// or a copy of def when names is nil.
func (self *Policy) listOr(names []string, def set) set {
	if names == nil {
		if def == nil {
			return newSet()
		}
		return def.clone()
	}
	return newSet().add(self.transformCase, names)
}

func (self *Policy) applyProfiles(profiles *Profiles) {
	self.allowedTags = newSet().addLower(textTags[:])
	self.allowedAttrs = newSet()

	if profiles.HTML {
		self.allowedTags.addLower(htmlTags[:])
		self.allowedAttrs.addLower(htmlAttrs[:])
	}
	if profiles.SVG {
		self.allowedTags.addLower(svgTags[:])
		self.allowedAttrs.addLower(svgAttrs[:], xmlAttrs[:])
	}
	if profiles.SVGFilters {
		self.allowedTags.addLower(svgFilterTags[:])
		self.allowedAttrs.addLower(svgAttrs[:], xmlAttrs[:])
	}
	if profiles.MathML {
		self.allowedTags.addLower(mathMLTags[:])
		self.allowedAttrs.addLower(mathMLAttrs[:], xmlAttrs[:])
	}
}

// withDOMReturn returns a copy of the policy which returns DOM nodes. Tables
// are shared, they are never modified after resolve.
func (self *Policy) withDOMReturn() *Policy {
	if self.returnDOM {
		return self
	}
	p := *self
	p.returnDOM = true
	return &p
}

// ParserMediaType returns the media type the markup is parsed with.
func (self *Policy) ParserMediaType() string { return self.mediaType }

// Namespace returns the namespace URI of the working document.
func (self *Policy) Namespace() string { return self.namespace }

// TransformCase folds a tag or attribute name the way the policy compares
// them: lower case for HTML, unchanged for XHTML.
func (self *Policy) TransformCase(name string) string {
	return self.transformCase(name)
}

// AllowedTags returns a read only view of allowed tag names.
func (self *Policy) AllowedTags() NameSet { return NameSet{self.allowedTags} }

// AllowedAttrs returns a read only view of allowed attribute names.
func (self *Policy) AllowedAttrs() NameSet { return NameSet{self.allowedAttrs} }

// ForbiddenTags returns a read only view of forbidden tag names.
func (self *Policy) ForbiddenTags() NameSet { return NameSet{self.forbidTags} }

// ForbiddenAttrs returns a read only view of forbidden attribute names.
func (self *Policy) ForbiddenAttrs() NameSet { return NameSet{self.forbidAttrs} }

// KeepContent reports whether removed elements leave their children behind.
func (self *Policy) KeepContent() bool { return self.keepContent }

// SafeForTemplates reports whether template expressions are scrubbed.
func (self *Policy) SafeForTemplates() bool { return self.safeForTemplates }

// WholeDocument reports whether the html element is serialized too.
func (self *Policy) WholeDocument() bool { return self.wholeDocument }

// ReturnDOM reports whether results are returned as nodes.
func (self *Policy) ReturnDOM() bool { return self.returnDOM }

// InPlace reports whether an input node is sanitized without a copy.
func (self *Policy) InPlace() bool { return self.inPlace }

func (self *Policy) tagAllowed(name string) bool {
	return self.allowedTags.has(name) && !self.forbidTags.has(name)
}

func (self *Policy) xml() bool { return self.mediaType == MediaTypeXHTML }

func lowerCase(s string) string { return strings.ToLower(s) }

func sameCase(s string) string { return s }
