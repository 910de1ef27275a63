// Package entries generates the index modules that tell the downstream
// bundler how each locale bundle or addon module is loaded: linked eagerly
// into the importing module, or behind an accessor that loads it on demand.
package entries

import (
	"fmt"
	"strings"

	derrors "git.home.luguber.info/inful/addonbuilder/internal/errors"
	"git.home.luguber.info/inful/addonbuilder/internal/jsgen"
)

// Kind selects how an entry is loaded.
type Kind string

const (
	// LazyImport loads asynchronously on first use, optionally in a named chunk.
	LazyImport Kind = "lazy-import"
	// LazyRequire loads synchronously on first use from the current bundle.
	LazyRequire Kind = "lazy-require"
	// EagerImport links the module directly into the index.
	EagerImport Kind = "eager-import"
)

// Entry is the classification of one item.
type Entry struct {
	Src  string
	Name string // chunk name, LazyImport only
	Type Kind
}

// Generate renders one index module over items. Each item's key is its
// default textual form (fmt.Sprint). Keys must be unique; an unknown Kind or a
// repeated key aborts generation.
func Generate[T any](items []T, classify func(T) Entry) ([]byte, error) {
	var imports, exports strings.Builder
	ids := jsgen.NewIdentifiers()
	seen := make(map[string]bool, len(items))

	exports.WriteString("export default {\n")
	for _, item := range items {
		key := fmt.Sprint(item)
		if seen[key] {
			return nil, derrors.New(derrors.CategoryGenerate, derrors.SeverityFatal, "duplicate entry key").
				WithContext("key", key)
		}
		seen[key] = true

		e := classify(item)
		switch e.Type {
		case LazyImport:
			chunk := ""
			if e.Name != "" {
				chunk = "/* webpackChunkName: " + jsgen.String(e.Name) + " */ "
			}
			fmt.Fprintf(&exports, "  %s: () => import(%s%s),\n", jsgen.String(key), chunk, jsgen.String(e.Src))
		case LazyRequire:
			fmt.Fprintf(&exports, "  %s: () => require(%s),\n", jsgen.String(key), jsgen.String(e.Src))
		case EagerImport:
			ident := ids.For(key)
			fmt.Fprintf(&imports, "import %s from %s;\n", ident, jsgen.String(e.Src))
			fmt.Fprintf(&exports, "  %s: %s,\n", jsgen.String(key), ident)
		default:
			return nil, derrors.UnknownEntryType(key, string(e.Type))
		}
	}
	exports.WriteString("};\n")

	return []byte(jsgen.GeneratedBanner + imports.String() + exports.String()), nil
}
