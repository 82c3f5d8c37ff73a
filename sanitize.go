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
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const genericErrMsg = "purify: %w"

var (
	// ErrTrustedTypesPolicy means [Config.TrustedTypesPolicy] misses one of
	// its functions.
	ErrTrustedTypesPolicy = errors.New("invalid trusted types policy")

	// ErrForbiddenRoot means the root node of an in place pass is not an
	// allowed tag.
	ErrForbiddenRoot = errors.New(
		"root node is forbidden and cannot be sanitized in-place")

	// ErrNotString means [Sanitizer.SanitizeAny] got a value which has no
	// string form.
	ErrNotString = errors.New("dirty is not a string, aborting")

	// ErrRender means the sanitized tree could not be rendered.
	ErrRender = errors.New("render sanitized tree")
)

// Removal is an entry of the removal log. It holds either a removed node or a
// removed attribute together with its element.
type Removal struct {
	Element   *html.Node
	Attribute *html.Attribute
	From      *html.Node
}

// Sanitizer removes script execution vectors from HTML, SVG and MathML
// markup. It keeps the pinned configuration, the hooks and the removal log of
// the last pass. It is safe for concurrent use, but the removal log belongs
// to whichever pass finished last.
type Sanitizer struct {
	logger       *slog.Logger
	parser       Parser
	trustedTypes TrustedTypesFactory

	mu         sync.Mutex
	pinned     *Policy
	defPolicy  *Policy
	lastConfig *Config
	lastPolicy *Policy
	hooks      hookRegistry
	removed    []Removal

	ttPolicy *TrustedTypesPolicy
	ttInit   bool
}

// Option configures a [Sanitizer] created by [New].
type Option func(s *Sanitizer)

// WithLogger sets the logger. Default is [slog.Default].
func WithLogger(logger *slog.Logger) Option {
	return func(s *Sanitizer) { s.logger = logger }
}

// WithParser replaces the markup parser. A nil parser makes the sanitizer
// unsupported, see [Sanitizer.IsSupported].
func WithParser(p Parser) Option {
	return func(s *Sanitizer) { s.parser = p }
}

// WithTrustedTypes sets the factory of trusted types policies and the table
// of trusted types sinks.
func WithTrustedTypes(f TrustedTypesFactory) Option {
	return func(s *Sanitizer) { s.trustedTypes = f }
}

// New returns a new [Sanitizer] configured by opts.
func New(opts ...Option) *Sanitizer {
	s := &Sanitizer{
		logger: slog.Default(),
		parser: NewParser(),
		hooks:  make(hookRegistry),
	}
	for _, fn := range opts {
		fn(s)
	}
	return s
}

// IsSupported reports whether the sanitizer has a parser. Without one every
// Sanitize call returns its input unchanged.
func (self *Sanitizer) IsSupported() bool { return self.parser != nil }

// Sanitize takes a string that contains a HTML fragment or document and
// returns it sanitized according to cfg. A nil cfg means defaults.
//
// Unsafe content is removed and logged, never returned as an error. Errors
// are returned for invalid configuration only.
func (self *Sanitizer) Sanitize(dirty string, cfg *Config) (string, error) {
	out, err := self.run(input{s: dirty}, cfg, false)
	if err != nil {
		return "", err
	}
	return out.String()
}

// SanitizeBytes is like [Sanitizer.Sanitize], but for []byte.
func (self *Sanitizer) SanitizeBytes(b []byte, cfg *Config) ([]byte, error) {
	s, err := self.Sanitize(string(b), cfg)
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}

// SanitizeReader reads all of r and returns the sanitized markup in a
// bytes.Buffer.
func (self *Sanitizer) SanitizeReader(r io.Reader, cfg *Config) (*bytes.Buffer,
	error,
) {
	buff := new(bytes.Buffer)
	if err := self.SanitizeReaderToWriter(r, buff, cfg); err != nil {
		return new(bytes.Buffer), err
	}
	return buff, nil
}

// SanitizeReaderToWriter reads all of r and writes the sanitized markup to w.
func (self *Sanitizer) SanitizeReaderToWriter(r io.Reader, w io.Writer,
	cfg *Config,
) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf(genericErrMsg, err)
	}

	s, err := self.Sanitize(string(b), cfg)
	if err != nil {
		return err
	}

	if _, err := io.WriteString(w, s); err != nil {
		return fmt.Errorf(genericErrMsg, err)
	}
	return nil
}

// SanitizeToDOM sanitizes dirty and returns the body node, or a fragment
// document node with the body children when [Config.ReturnDOMFragment] is
// set. It returns nil if the markup could not be parsed.
func (self *Sanitizer) SanitizeToDOM(dirty string, cfg *Config) (*html.Node,
	error,
) {
	out, err := self.run(input{s: dirty}, cfg, true)
	if err != nil {
		return nil, err
	}
	return out.node, nil
}

// SanitizeNode sanitizes a copy of n imported into a new document and returns
// it like [Sanitizer.SanitizeToDOM]. With [Config.InPlace] n itself is
// sanitized and returned.
func (self *Sanitizer) SanitizeNode(n *html.Node, cfg *Config) (*html.Node,
	error,
) {
	out, err := self.run(input{node: n}, cfg, true)
	if err != nil {
		return nil, err
	}
	return out.node, nil
}

// SanitizeNodeString sanitizes a copy of n and returns it rendered.
func (self *Sanitizer) SanitizeNodeString(n *html.Node, cfg *Config) (string,
	error,
) {
	out, err := self.run(input{node: n}, cfg, false)
	if err != nil {
		return "", err
	}
	return out.String()
}

// SanitizeAny accepts a string, []byte, [fmt.Stringer] or *html.Node and
// returns it sanitized and rendered. Anything else is [ErrNotString].
func (self *Sanitizer) SanitizeAny(dirty any, cfg *Config) (string, error) {
	switch v := dirty.(type) {
	case nil:
		return self.Sanitize("", cfg)
	case string:
		return self.Sanitize(v, cfg)
	case []byte:
		return self.Sanitize(string(v), cfg)
	case *html.Node:
		return self.SanitizeNodeString(v, cfg)
	case fmt.Stringer:
		return self.Sanitize(v.String(), cfg)
	}
	return "", fmt.Errorf(genericErrMsg, ErrNotString)
}

// SetConfig pins cfg for all following passes, until [Sanitizer.ClearConfig].
// Configurations of following calls are ignored.
func (self *Sanitizer) SetConfig(cfg *Config) error {
	p, err := resolve(cfg)
	if err != nil {
		return fmt.Errorf(genericErrMsg, err)
	}

	self.mu.Lock()
	self.pinned = p
	self.mu.Unlock()
	return nil
}

// ClearConfig removes the configuration pinned by [Sanitizer.SetConfig].
func (self *Sanitizer) ClearConfig() {
	self.mu.Lock()
	self.pinned = nil
	self.lastConfig, self.lastPolicy = nil, nil
	self.mu.Unlock()
}

// IsValidAttribute reports whether attr with value is allowed on tag by the
// pinned or the default configuration.
func (self *Sanitizer) IsValidAttribute(tag, attr, value string) bool {
	self.mu.Lock()
	p, err := self.activePolicy(nil)
	self.mu.Unlock()
	if err != nil {
		return false
	}
	return p.isValidAttribute(p.transformCase(tag), p.transformCase(attr), value)
}

// AddHook appends fn to the hooks of entryPoint.
func (self *Sanitizer) AddHook(entryPoint HookEntryPoint, fn Hook) {
	if fn == nil {
		return
	}
	self.mu.Lock()
	self.hooks.add(entryPoint, fn)
	self.mu.Unlock()
}

// RemoveHook removes and returns the most recently added hook of
// entryPoint, or nil.
func (self *Sanitizer) RemoveHook(entryPoint HookEntryPoint) Hook {
	self.mu.Lock()
	defer self.mu.Unlock()
	return self.hooks.pop(entryPoint)
}

// RemoveHooks removes all hooks of entryPoint.
func (self *Sanitizer) RemoveHooks(entryPoint HookEntryPoint) {
	self.mu.Lock()
	delete(self.hooks, entryPoint)
	self.mu.Unlock()
}

// RemoveAllHooks removes all hooks.
func (self *Sanitizer) RemoveAllHooks() {
	self.mu.Lock()
	clear(self.hooks)
	self.mu.Unlock()
}

// Removed returns the removal log of the last pass.
func (self *Sanitizer) Removed() []Removal {
	self.mu.Lock()
	defer self.mu.Unlock()
	return slices.Clone(self.removed)
}

// activePolicy returns the pinned policy or cfg resolved. It must be called
// with mu locked.
func (self *Sanitizer) activePolicy(cfg *Config) (*Policy, error) {
	switch {
	case self.pinned != nil:
		return self.pinned, nil
	case cfg == nil:
		if self.defPolicy == nil {
			p, err := resolve(nil)
			if err != nil {
				return nil, err
			}
			self.defPolicy = p
		}
		return self.defPolicy, nil
	case cfg == self.lastConfig:
		return self.lastPolicy, nil
	}

	p, err := resolve(cfg)
	if err != nil {
		return nil, err
	}
	self.lastConfig, self.lastPolicy = cfg, p
	return p, nil
}

// newPass resolves the configuration and snapshots the state a pass needs.
func (self *Sanitizer) newPass(cfg *Config) (*pass, error) {
	self.mu.Lock()
	defer self.mu.Unlock()

	self.removed = nil
	p, err := self.activePolicy(cfg)
	if err != nil {
		return nil, fmt.Errorf(genericErrMsg, err)
	}

	tt := p.trusted
	if tt == nil {
		if !self.ttInit {
			self.ttInit = true
			self.ttPolicy = self.createTrustedTypesPolicy()
		}
		tt = self.ttPolicy
	}

	return &pass{
		p:       p,
		hooks:   self.hooks.snapshot(),
		tt:      tt,
		ttTable: self.trustedTypes,
		parser:  self.parser,
		logger:  self.logger,
	}, nil
}

func (self *Sanitizer) finish(ps *pass) {
	self.mu.Lock()
	self.removed = ps.removed
	self.mu.Unlock()
	self.logger.Debug("sanitize pass completed", "removed", len(ps.removed))
}

type input struct {
	s    string
	node *html.Node
}

type output struct {
	s     string
	node  *html.Node
	outer bool
}

// String returns the sanitized markup, rendering the node if the pass
// returned one.
func (self output) String() (string, error) {
	if self.node == nil {
		return self.s, nil
	}

	render := innerHTML
	if self.outer {
		render = outerHTML
	}
	s, err := render(self.node)
	if err != nil {
		return "", fmt.Errorf(genericErrMsg, fmt.Errorf("%w: %w", ErrRender, err))
	}
	return s, nil
}

func (self *Sanitizer) run(in input, cfg *Config, dom bool) (output, error) {
	if !self.IsSupported() {
		return output{s: in.s, node: in.node, outer: true}, nil
	}

	ps, err := self.newPass(cfg)
	if err != nil {
		return output{}, err
	}
	defer self.finish(ps)

	if dom {
		ps.p = ps.p.withDOMReturn()
	}
	if in.node != nil {
		return ps.sanitizeNode(in.node)
	}
	return ps.sanitizeString(in.s)
}

// pass holds the state of one sanitize call.
type pass struct {
	p       *Policy
	hooks   hookRegistry
	tt      *TrustedTypesPolicy
	ttTable TrustedTypesFactory
	parser  Parser
	logger  *slog.Logger

	root    *html.Node
	removed []Removal
}

func (self *pass) sanitizeString(dirty string) (output, error) {
	emptyInput := dirty == ""
	if emptyInput {
		dirty = "<!-->"
	}

	if !self.p.returnDOM && !self.p.safeForTemplates && !self.p.wholeDocument &&
		!strings.Contains(dirty, "<") {
		return self.trustedOutput(dirty)
	}

	body, err := self.initDocument(dirty, emptyInput)
	if err != nil {
		return output{}, err
	} else if body == nil {
		if self.p.returnDOM {
			return output{}, nil
		}
		return self.trustedOutput("")
	}

	if self.p.forceBody {
		self.removeForceBodyWrapper(body)
	}
	return self.sanitizeTree(body)
}

func (self *pass) sanitizeNode(dirty *html.Node) (output, error) {
	if self.p.inPlace {
		tagName := self.p.transformCase(nodeName(dirty))
		if !self.p.tagAllowed(tagName) {
			return output{}, fmt.Errorf(genericErrMsg, ErrForbiddenRoot)
		}
		self.walk(dirty)
		return output{node: dirty, outer: true}, nil
	}

	body := newWorkingDocument(self.p.namespace)
	if dirty.Type == html.DocumentNode && !htmlDocument(dirty) {
		// A fragment: every top level child is content.
		for c := dirty.FirstChild; c != nil; c = c.NextSibling {
			body.AppendChild(cloneNode(c))
		}
		return self.sanitizeTree(body)
	}

	imported := dirty
	if dirty.Type == html.DocumentNode {
		imported = documentElement(dirty)
	}
	imported = cloneNode(imported)
	switch {
	case isHTMLElement(imported, atom.Body), isHTMLElement(imported, atom.Html):
		body = imported
	default:
		body.AppendChild(imported)
	}
	return self.sanitizeTree(body)
}

// htmlDocument reports whether doc is a document with a single html root
// element, optionally surrounded by a doctype and comments.
func htmlDocument(doc *html.Node) bool {
	var root *html.Node
	for c := doc.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.DoctypeNode, html.CommentNode:
		case html.ElementNode:
			if root != nil {
				return false
			}
			root = c
		default:
			return false
		}
	}
	return isHTMLElement(root, atom.Html)
}

func (self *pass) sanitizeTree(body *html.Node) (output, error) {
	self.walk(body)
	return self.serialize(body)
}

func (self *pass) walk(root *html.Node) {
	self.root = root
	it := newNodeIterator(root)
	for n := it.next(); n != nil; n = it.next() {
		if self.sanitizeElement(n) {
			continue
		}
		if isShadowHost(n) {
			self.sanitizeShadowDOM(n)
		}
		self.sanitizeAttributes(n)
		self.dropVoidChildren(n)
	}
}

func (self *pass) sanitizeShadowDOM(host *html.Node) {
	self.hooks.execute(BeforeSanitizeShadowDOM, host, nil, self.p)
	it := newShadowIterator(host)
	for n := it.next(); n != nil; n = it.next() {
		self.hooks.execute(UponSanitizeShadowNode, n, nil, self.p)
		if self.sanitizeElement(n) {
			continue
		}
		if isShadowHost(n) {
			self.sanitizeShadowDOM(n)
		}
		self.sanitizeAttributes(n)
		self.dropVoidChildren(n)
	}
	self.hooks.execute(AfterSanitizeShadowDOM, host, nil, self.p)
}

// dropVoidChildren removes children of void elements, which golang.org/x/net/html
// refuses to render.
func (self *pass) dropVoidChildren(n *html.Node) {
	if !isElement(n) || n.FirstChild == nil || !voidElement(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = n.FirstChild {
		self.forceRemove(c)
	}
}

func (self *pass) forceRemove(n *html.Node) {
	self.removed = append(self.removed, Removal{Element: n})
	detach(n)
}

func (self *pass) trustedOutput(s string) (output, error) {
	if self.tt == nil || !self.p.returnTrustedType {
		return output{s: s}, nil
	}
	s, err := self.tt.CreateHTML(s)
	if err != nil {
		return output{}, fmt.Errorf(genericErrMsg, err)
	}
	return output{s: s}, nil
}
