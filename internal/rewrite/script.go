package rewrite

import (
	"strings"

	"git.home.luguber.info/inful/addonbuilder/internal/jsgen"
)

// addonDepth is how far an addon directory sits below the output root (addons/<id>/).
const addonDepth = 2

// IsScript reports whether file is rewritten as a script.
func IsScript(file string) bool {
	return strings.HasSuffix(file, ".js")
}

// Script applies the content rewriters to the addon script at file (relative
// to the addon directory). assets is consulted only when the script contains
// a base-path token. The result starts with the polyfill import when needed,
// then the provenance banner, the asset header and the rewritten body.
// Only the source text decides the polyfill; asset names in the header do not.
func Script(contents, file string, assets *AssetTable) string {
	polyfill := strings.Contains(contents, PolyfillToken)
	if NeedsAssetRewrite(contents) {
		contents = assets.Header(file) + RewriteAssetPaths(contents)
	}
	contents = jsgen.ScriptBanner + contents
	if !polyfill {
		return contents
	}
	return prependPolyfill(contents, addonDepth+strings.Count(file, "/"))
}
