package purify

import (
	"slices"

	"golang.org/x/net/html"
)

// HookEntryPoint names a phase of the sanitize pass where hooks are called.
type HookEntryPoint string

const (
	BeforeSanitizeElements   HookEntryPoint = "beforeSanitizeElements"
	UponSanitizeElement      HookEntryPoint = "uponSanitizeElement"
	AfterSanitizeElements    HookEntryPoint = "afterSanitizeElements"
	BeforeSanitizeAttributes HookEntryPoint = "beforeSanitizeAttributes"
	UponSanitizeAttribute    HookEntryPoint = "uponSanitizeAttribute"
	AfterSanitizeAttributes  HookEntryPoint = "afterSanitizeAttributes"
	BeforeSanitizeShadowDOM  HookEntryPoint = "beforeSanitizeShadowDOM"
	UponSanitizeShadowNode   HookEntryPoint = "uponSanitizeShadowNode"
	AfterSanitizeShadowDOM   HookEntryPoint = "afterSanitizeShadowDOM"
)

// Hook is called synchronously with the current node, the phase data and the
// active policy. data is nil for phases which carry no data.
//
// A hook may change fields of data. A hook which calls back into the
// sanitizer starts a new independent pass.
type Hook func(n *html.Node, data *HookData, p *Policy)

// HookData is the mutable payload of [UponSanitizeElement] and
// [UponSanitizeAttribute] hooks.
type HookData struct {
	// TagName and AllowedTags are set for UponSanitizeElement.
	TagName     string
	AllowedTags NameSet

	// The rest is set for UponSanitizeAttribute. A hook may change AttrValue,
	// drop the attribute with KeepAttr = false or keep it unchecked with
	// ForceKeepAttr = true.
	AttrName          string
	AttrValue         string
	KeepAttr          bool
	ForceKeepAttr     bool
	AllowedAttributes NameSet
}

type hookRegistry map[HookEntryPoint][]Hook

func (self hookRegistry) add(entryPoint HookEntryPoint, fn Hook) {
	self[entryPoint] = append(self[entryPoint], fn)
}

// pop removes and returns the most recently added hook of entryPoint.
func (self hookRegistry) pop(entryPoint HookEntryPoint) Hook {
	hooks := self[entryPoint]
	if len(hooks) == 0 {
		return nil
	}
	fn := hooks[len(hooks)-1]
	self[entryPoint] = hooks[:len(hooks)-1]
	return fn
}

// snapshot returns a copy, which a pass uses while the registry may change.
func (self hookRegistry) snapshot() hookRegistry {
	if len(self) == 0 {
		return nil
	}
	hooks := make(hookRegistry, len(self))
	for k, v := range self {
		if len(v) > 0 {
			hooks[k] = slices.Clone(v)
		}
	}
	return hooks
}

func (self hookRegistry) execute(entryPoint HookEntryPoint, n *html.Node,
	data *HookData, p *Policy,
) {
	for _, fn := range self[entryPoint] {
		fn(n, data, p)
	}
}
