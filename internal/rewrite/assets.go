package rewrite

import (
	"errors"
	"fmt"
	"path"
	"regexp"
	"strings"

	"git.home.luguber.info/inful/addonbuilder/internal/jsgen"
)

// AssetExtensions are the file types that can be resolved statically.
var AssetExtensions = []string{".svg", ".png"}

const (
	assetResolver     = "_getAddonAsset"
	assetBindingStem  = "_addonAsset"
	assetLoaderPrefix = "!url-loader!"
)

// Base-path tokens. Both resolve to directories inside the addon bundle at
// runtime upstream.
var baseTokens = []string{"addon.self.dir", "addon.self.lib"}

// templateAssetPattern matches a base path interpolated at the start of a
// template literal:
//
//	`${addon.self.dir}/icons/${name}.svg`
var templateAssetPattern = regexp.MustCompile("(^|[^.])`\\$\\{addon\\.self\\.(?:dir|lib)\\}([^`]+)`")

// concatAssetPattern matches a base path concatenated with a suffix
// expression, up to the next ';', ',' or ')':
//
//	addon.self.dir + "/icon.svg"
//	addon.self.lib + "/thirdparty/" + file
var concatAssetPattern = regexp.MustCompile(`(^|[^.])addon\.self\.(?:dir|lib) *\+ *([^;,)]+)`)

// ErrUnknownAsset is returned by AssetTable.Resolve for a path with no static import.
var ErrUnknownAsset = errors.New("unknown asset")

// NeedsAssetRewrite reports whether contents references a base-path token.
func NeedsAssetRewrite(contents string) bool {
	for _, tok := range baseTokens {
		if strings.Contains(contents, tok) {
			return true
		}
	}
	return false
}

// RewriteAssetPaths replaces both base-path shapes with calls to the generated
// resolver. The token must start the text or follow a character other than
// '.', so member accesses such as foo.addon.self.dir stay intact.
func RewriteAssetPaths(contents string) string {
	contents = templateAssetPattern.ReplaceAllString(contents, "${1}"+assetResolver+"(`${2}`)")
	contents = concatAssetPattern.ReplaceAllString(contents, "${1}"+assetResolver+"(${2})")
	return contents
}

// IsAsset reports whether file has one of AssetExtensions.
func IsAsset(file string) bool {
	ext := strings.ToLower(path.Ext(file))
	for _, e := range AssetExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// AssetTable is the set of statically importable assets of one addon. Paths
// are slash-separated and relative to the addon directory.
type AssetTable struct {
	files []string
}

// NewAssetTable keeps the asset files out of an addon's file list.
// The order of files is preserved, so a lexically walked list yields stable bindings.
func NewAssetTable(files []string) *AssetTable {
	t := &AssetTable{}
	for _, f := range files {
		if IsAsset(f) {
			t.files = append(t.files, f)
		}
	}
	return t
}

// Files returns the assets in binding order.
func (t *AssetTable) Files() []string { return t.files }

func (t *AssetTable) binding(i int) string {
	return fmt.Sprintf("%s%d", assetBindingStem, i)
}

// Resolve maps a requested path, as passed to the generated resolver, to the
// binding of its static import.
func (t *AssetTable) Resolve(requested string) (string, error) {
	for i, f := range t.files {
		if requested == "/"+f {
			return t.binding(i), nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownAsset, requested)
}

// Header returns the block prepended to a rewritten script at file (relative
// to the addon directory): one import per asset plus the resolver function.
func (t *AssetTable) Header(file string) string {
	var b strings.Builder
	b.WriteString(jsgen.InsertedMarker + "\n")
	for i, f := range t.files {
		fmt.Fprintf(&b, "import %s from %s;\n", t.binding(i), jsgen.String(assetLoaderPrefix+jsgen.RelativeSpecifier(file, f)))
	}
	fmt.Fprintf(&b, "const %s = (path) => {\n", assetResolver)
	for i, f := range t.files {
		fmt.Fprintf(&b, "  if (path === %s) return %s;\n", jsgen.String("/"+f), t.binding(i))
	}
	b.WriteString("  throw new Error(`Unknown asset: ${path}`);\n")
	b.WriteString("};\n\n")
	return b.String()
}
