package batch

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ModelExt is the extension of the model files a batch picks up.
const ModelExt = ".glb"

// Discover returns every file under root whose extension matches ModelExt,
// case-insensitively, sorted by path components.
func Discover(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ModelExt) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(files, func(i, j int) bool {
		return pathLess(files[i], files[j])
	})
	return files, nil
}

// pathLess orders paths component by component, so "a/x" sorts before
// "a-b/x" even though '-' sorts before '/'.
func pathLess(a, b string) bool {
	pa := strings.Split(filepath.Clean(a), string(filepath.Separator))
	pb := strings.Split(filepath.Clean(b), string(filepath.Separator))
	for i := 0; i < len(pa) && i < len(pb); i++ {
		if pa[i] != pb[i] {
			return pa[i] < pb[i]
		}
	}
	return len(pa) < len(pb)
}
