package rewrite

import (
	"strings"

	"git.home.luguber.info/inful/addonbuilder/internal/jsgen"
)

// PolyfillToken is the browser global whose presence triggers the polyfill import.
const PolyfillToken = "EventTarget"

// PolyfillModule is the polyfill file name at the root of the output tree.
const PolyfillModule = "event-target.js"

// PolyfillImport is the line injected for a file whose output location is
// depth directories below the output root.
func PolyfillImport(depth int) string {
	return "import EventTarget from " + jsgen.String(strings.Repeat("../", depth)+PolyfillModule) + "; " + jsgen.InsertedMarker
}

// InjectPolyfills prepends the polyfill import, followed by a blank line, when
// contents mentions PolyfillToken. It happens at most once per file, and a file
// already starting with the import is returned unchanged.
func InjectPolyfills(contents string, depth int) string {
	if !strings.Contains(contents, PolyfillToken) {
		return contents
	}
	return prependPolyfill(contents, depth)
}

func prependPolyfill(contents string, depth int) string {
	line := PolyfillImport(depth)
	if strings.HasPrefix(contents, line) {
		return contents
	}
	return line + "\n\n" + contents
}
