package registry

import (
	"os"
	"path"
	"path/filepath"

	"golang.org/x/mod/modfile"
)

// CanonicalPath rewrites an absolute source path into its module-qualified
// form (module path + slash-separated relative path) by locating and
// parsing the enclosing go.mod. Paths outside any module are returned
// unchanged, so Location filters still work on bare file paths.
func CanonicalPath(srcPath string) string {
	dir := filepath.Dir(srcPath)
	for {
		goMod := filepath.Join(dir, "go.mod")
		if data, err := os.ReadFile(goMod); err == nil {
			mf, perr := modfile.Parse(goMod, data, nil)
			if perr != nil || mf.Module == nil {
				return srcPath
			}
			rel, rerr := filepath.Rel(dir, srcPath)
			if rerr != nil {
				return srcPath
			}
			return path.Join(mf.Module.Mod.Path, filepath.ToSlash(rel))
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return srcPath
		}
		dir = parent
	}
}
