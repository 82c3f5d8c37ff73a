package purify

import (
	"errors"
	"fmt"
	"sync"
)

// TrustedType is the kind of value a sink requires.
type TrustedType string

const (
	TrustedHTML      TrustedType = "TrustedHTML"
	TrustedScriptURL TrustedType = "TrustedScriptURL"
)

// ErrDuplicatePolicy is returned by [TrustedTypes.CreatePolicy] for a policy
// name which was already created.
var ErrDuplicatePolicy = errors.New("trusted types policy already exists")

// TrustedTypesPolicy coerces values for sinks which require trusted types.
// Both functions are required.
type TrustedTypesPolicy struct {
	Name            string
	CreateHTML      func(s string) (string, error)
	CreateScriptURL func(s string) (string, error)
}

func (self *TrustedTypesPolicy) coerce(t TrustedType, s string) (string,
	error,
) {
	switch t {
	case TrustedHTML:
		return self.CreateHTML(s)
	case TrustedScriptURL:
		return self.CreateScriptURL(s)
	}
	return s, nil
}

// TrustedTypesFactory creates trusted types policies and knows which
// attributes are trusted types sinks.
type TrustedTypesFactory interface {
	CreatePolicy(name string, rules TrustedTypesPolicy) (*TrustedTypesPolicy,
		error)
	// AttributeType returns the trusted type required by attr of tag or an
	// empty string.
	AttributeType(tag, attr string) TrustedType
}

// TrustedTypes is an in process [TrustedTypesFactory]. Policy names are
// unique.
type TrustedTypes struct {
	mu       sync.Mutex
	policies map[string]struct{}
}

var _ TrustedTypesFactory = (*TrustedTypes)(nil)

// NewTrustedTypes returns a factory without policies.
func NewTrustedTypes() *TrustedTypes {
	return &TrustedTypes{policies: make(map[string]struct{})}
}

func (self *TrustedTypes) CreatePolicy(name string, rules TrustedTypesPolicy,
) (*TrustedTypesPolicy, error) {
	self.mu.Lock()
	defer self.mu.Unlock()

	if _, ok := self.policies[name]; ok {
		return nil, fmt.Errorf("%w: %q", ErrDuplicatePolicy, name)
	}
	self.policies[name] = struct{}{}

	p := rules
	p.Name = name
	if p.CreateHTML == nil {
		p.CreateHTML = passThrough
	}
	if p.CreateScriptURL == nil {
		p.CreateScriptURL = passThrough
	}
	return &p, nil
}

func (self *TrustedTypes) AttributeType(tag, attr string) TrustedType {
	switch tag + "[" + attr + "]" {
	case "iframe[srcdoc]":
		return TrustedHTML
	case "script[src]", "embed[src]", "object[data]", "object[codebase]":
		return TrustedScriptURL
	}
	return ""
}

func passThrough(s string) (string, error) { return s, nil }

const trustedTypesPolicyName = "purify"

// createTrustedTypesPolicy creates the internal pass through policy. A
// failure disables trusted types with a warning.
func (self *Sanitizer) createTrustedTypesPolicy() *TrustedTypesPolicy {
	if self.trustedTypes == nil {
		return nil
	}

	p, err := self.trustedTypes.CreatePolicy(trustedTypesPolicyName,
		TrustedTypesPolicy{
			CreateHTML:      passThrough,
			CreateScriptURL: passThrough,
		})
	if err != nil {
		self.logger.Warn("trusted types policy could not be created",
			"policy", trustedTypesPolicyName, "error", err)
		return nil
	}
	return p
}
