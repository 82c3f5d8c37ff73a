package purify

import (
	"bytes"
	"io"

	"golang.org/x/net/html"
)

// Default is the process wide [Sanitizer] used by the package level functions.
var Default = New()

// Sanitize calls [Sanitizer.Sanitize] of [Default].
func Sanitize(dirty string, cfg *Config) (string, error) {
	return Default.Sanitize(dirty, cfg)
}

// SanitizeBytes calls [Sanitizer.SanitizeBytes] of [Default].
func SanitizeBytes(b []byte, cfg *Config) ([]byte, error) {
	return Default.SanitizeBytes(b, cfg)
}

// SanitizeReader calls [Sanitizer.SanitizeReader] of [Default].
func SanitizeReader(r io.Reader, cfg *Config) (*bytes.Buffer, error) {
	return Default.SanitizeReader(r, cfg)
}

// SanitizeReaderToWriter calls [Sanitizer.SanitizeReaderToWriter] of
// [Default].
func SanitizeReaderToWriter(r io.Reader, w io.Writer, cfg *Config) error {
	return Default.SanitizeReaderToWriter(r, w, cfg)
}

// SanitizeToDOM calls [Sanitizer.SanitizeToDOM] of [Default].
func SanitizeToDOM(dirty string, cfg *Config) (*html.Node, error) {
	return Default.SanitizeToDOM(dirty, cfg)
}

// SanitizeNode calls [Sanitizer.SanitizeNode] of [Default].
func SanitizeNode(n *html.Node, cfg *Config) (*html.Node, error) {
	return Default.SanitizeNode(n, cfg)
}

// SanitizeNodeString calls [Sanitizer.SanitizeNodeString] of [Default].
func SanitizeNodeString(n *html.Node, cfg *Config) (string, error) {
	return Default.SanitizeNodeString(n, cfg)
}

// SanitizeAny calls [Sanitizer.SanitizeAny] of [Default].
func SanitizeAny(dirty any, cfg *Config) (string, error) {
	return Default.SanitizeAny(dirty, cfg)
}

// SetConfig calls [Sanitizer.SetConfig] of [Default].
func SetConfig(cfg *Config) error { return Default.SetConfig(cfg) }

// ClearConfig calls [Sanitizer.ClearConfig] of [Default].
func ClearConfig() { Default.ClearConfig() }

// IsValidAttribute calls [Sanitizer.IsValidAttribute] of [Default].
func IsValidAttribute(tag, attr, value string) bool {
	return Default.IsValidAttribute(tag, attr, value)
}

// AddHook calls [Sanitizer.AddHook] of [Default].
func AddHook(entryPoint HookEntryPoint, fn Hook) { Default.AddHook(entryPoint, fn) }

// RemoveHook calls [Sanitizer.RemoveHook] of [Default].
func RemoveHook(entryPoint HookEntryPoint) Hook { return Default.RemoveHook(entryPoint) }

// RemoveHooks calls [Sanitizer.RemoveHooks] of [Default].
func RemoveHooks(entryPoint HookEntryPoint) { Default.RemoveHooks(entryPoint) }

// RemoveAllHooks calls [Sanitizer.RemoveAllHooks] of [Default].
func RemoveAllHooks() { Default.RemoveAllHooks() }

// Removed calls [Sanitizer.Removed] of [Default].
func Removed() []Removal { return Default.Removed() }

// IsSupported calls [Sanitizer.IsSupported] of [Default].
func IsSupported() bool { return Default.IsSupported() }
