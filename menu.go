package docver

// MenuFile is one leaf document in the navigation menu.
type MenuFile struct {
	Path       string     `json:"path"`
	Title      string     `json:"title"`
	Attributes Attributes `json:"attributes"`
}

// MenuDir is one directory level of the navigation menu.
// HasIndex is set when the directory has an index document, which is then
// addressable by the directory's Path rather than listed in Files.
type MenuDir struct {
	Path     string      `json:"path"`
	Title    string      `json:"title"`
	HasIndex bool        `json:"hasIndex"`
	Files    []*MenuFile `json:"files"`
	Dirs     []*MenuDir  `json:"dirs,omitempty"`
}

// Walk visits d and every descendant directory in pre-order, depth-first,
// without recursion. Walking stops at the first error fn returns.
func (d *MenuDir) Walk(fn func(dir *MenuDir) error) error {
	if d == nil {
		return nil
	}
	stack := []*MenuDir{d}
	for len(stack) > 0 {
		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if err := fn(dir); err != nil {
			return err
		}

		// Push in reverse so children are visited in menu order.
		for i := len(dir.Dirs) - 1; i >= 0; i-- {
			stack = append(stack, dir.Dirs[i])
		}
	}
	return nil
}

// DocPaths returns every document key reachable through the menu: file paths
// and, for directories with an index, the directory path. The root index is
// reported as IndexPath.
func (d *MenuDir) DocPaths() []string {
	var paths []string
	_ = d.Walk(func(dir *MenuDir) error {
		if dir.HasIndex {
			if dir.Path == "" {
				paths = append(paths, IndexPath)
			} else {
				paths = append(paths, dir.Path)
			}
		}
		for _, f := range dir.Files {
			paths = append(paths, f.Path)
		}
		return nil
	})
	return paths
}

// MenuIndex maps a document path to the directory that directly contains it.
// An index is only valid for the tree it was built from.
type MenuIndex map[string]*MenuDir

// BuildMenuIndex flattens a menu tree into a MenuIndex with one full
// traversal. Every directory and file is visited exactly once.
func BuildMenuIndex(root *MenuDir) MenuIndex {
	idx := make(MenuIndex)
	_ = root.Walk(func(dir *MenuDir) error {
		for _, f := range dir.Files {
			idx[f.Path] = dir
		}
		return nil
	})
	return idx
}

// Lookup returns the directory containing the document at path.
func (m MenuIndex) Lookup(path string) (*MenuDir, bool) {
	dir, ok := m[path]
	return dir, ok
}
