// Package jsgen holds the small helpers used to emit JavaScript source text.
// Only string literals, identifiers and JSON bodies are produced; there is no
// expression builder.
package jsgen

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// GeneratedBanner opens every document written from scratch by the pipeline.
const GeneratedBanner = "/* generated by addonbuilder. do not edit. */\n"

// ScriptBanner opens every mirrored addon script.
const ScriptBanner = `/**!
 * Imported from the upstream addons repository by addonbuilder.
 * @license GPLv3.0 (see LICENSE or https://www.gnu.org/licenses/ for more information)
 */

`

// InsertedMarker tags lines the rewriters add to an existing script.
const InsertedMarker = "/* inserted by addonbuilder */"

var nonIdentChars = regexp.MustCompile(`[^A-Za-z0-9_$]`)

// String returns s as a double-quoted JavaScript string literal.
func String(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// Encoding a string cannot fail.
	_ = enc.Encode(s)
	return strings.TrimSuffix(buf.String(), "\n")
}

// JSON marshals v with the given indent (empty for compact output) without
// HTML escaping. Map keys come out sorted, which keeps output stable across runs.
func JSON(v any, indent string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Identifier turns an arbitrary key into a JavaScript identifier prefixed with '_'.
func Identifier(key string) string {
	return "_" + nonIdentChars.ReplaceAllString(key, "_")
}

// Identifiers hands out unique identifiers for a single generated document.
type Identifiers struct {
	used map[string]int
}

// NewIdentifiers returns an empty allocator.
func NewIdentifiers() *Identifiers {
	return &Identifiers{used: make(map[string]int)}
}

// For returns Identifier(key), suffixed with a counter when a previous key
// sanitised to the same name.
func (ids *Identifiers) For(key string) string {
	base := Identifier(key)
	n := ids.used[base]
	ids.used[base] = n + 1
	if n == 0 {
		return base
	}
	candidate := base + "_" + strconv.Itoa(n)
	for ids.used[candidate] > 0 {
		n++
		candidate = base + "_" + strconv.Itoa(n)
	}
	ids.used[candidate] = 1
	return candidate
}

// RelativeSpecifier returns a module specifier for target as seen from the
// directory of from. Both are slash-separated paths relative to the same root.
func RelativeSpecifier(from, target string) string {
	fromParts := splitDir(from)
	targetParts := strings.Split(target, "/")

	common := 0
	for common < len(fromParts) && common < len(targetParts)-1 && fromParts[common] == targetParts[common] {
		common++
	}
	var b strings.Builder
	ups := len(fromParts) - common
	if ups == 0 {
		b.WriteString("./")
	}
	for range ups {
		b.WriteString("../")
	}
	b.WriteString(strings.Join(targetParts[common:], "/"))
	return b.String()
}

func splitDir(file string) []string {
	idx := strings.LastIndex(file, "/")
	if idx < 0 {
		return nil
	}
	return strings.Split(file[:idx], "/")
}
