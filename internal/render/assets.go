package render

import (
	"os"
	"path/filepath"
	"strings"
)

// AssetResolver maps stored asset paths (logos, product thumbnails) to
// readable files under the configured asset directory. Resolution is
// best-effort: a missing or unreadable asset yields ok=false and the
// renderer degrades to a placeholder instead of failing the document.
type AssetResolver struct {
	dir string
}

// NewAssetResolver constructs a resolver rooted at dir.
func NewAssetResolver(dir string) *AssetResolver {
	return &AssetResolver{dir: dir}
}

// Resolve returns an absolute readable path for the named asset. Paths are
// confined to the asset directory; traversal outside it resolves to nothing.
func (a *AssetResolver) Resolve(name string) (string, bool) {
	if a == nil || name == "" {
		return "", false
	}
	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(a.dir, name)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}
	if a.dir != "" {
		root, err := filepath.Abs(a.dir)
		if err != nil || !strings.HasPrefix(abs, root+string(filepath.Separator)) && abs != root {
			return "", false
		}
	}
	info, err := os.Stat(abs)
	if err != nil || info.IsDir() {
		return "", false
	}
	return abs, true
}
