/*
Package purify removes script execution vectors from untrusted HTML, SVG and
MathML markup, keeping as much legitimate structure as the configuration
allows.

The markup is parsed into a golang.org/x/net/html tree, every node is checked
against allowlists of tags, attributes and namespace transitions, and the
surviving tree is rendered back or returned as nodes:

	clean, err := purify.Sanitize(`<img src=x onerror=alert(1)>`, nil)
	// clean == `<img src="x"/>`

Unsafe content is never an error, it's removed and recorded in the removal
log, see [Sanitizer.Removed]. Errors are returned for invalid configurations
only.

Hooks registered with [Sanitizer.AddHook] observe and change decisions at
fixed phases of a pass.
*/
package purify
