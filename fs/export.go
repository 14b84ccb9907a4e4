package fs

import (
	"context"
	"encoding/json"
	"os"
	"path"
	"path/filepath"

	"github.com/fwojciec/docver"
)

// MenuFileName is the name of the exported menu.
const MenuFileName = "menu.json"

// FileStore writes an exported version to a staging directory and swaps it
// into place on Commit.
type FileStore struct {
	baseDir string
	name    string
}

// NewFileStore creates a new FileStore.
// baseDir is the parent directory, name is the output directory name.
// Files are saved to baseDir/name.tmp and moved to baseDir/name on Commit.
func NewFileStore(baseDir, name string) *FileStore {
	return &FileStore{
		baseDir: baseDir,
		name:    name,
	}
}

func (s *FileStore) tempDir() string {
	return filepath.Join(s.baseDir, s.name+".tmp")
}

func (s *FileStore) finalDir() string {
	return filepath.Join(s.baseDir, s.name)
}

// SaveDoc writes the rendered document to key.html.
func (s *FileStore) SaveDoc(key string, doc *docver.Doc) error {
	if !validDocPath(key) {
		return docver.Errorf(docver.EINVALID, "invalid document key: %q", key)
	}
	return s.write(filepath.FromSlash(key)+ExtHTML, []byte(doc.HTML))
}

// SaveMenu writes the menu tree as JSON.
func (s *FileStore) SaveMenu(menu *docver.MenuDir) error {
	data, err := json.MarshalIndent(menu, "", "  ")
	if err != nil {
		return err
	}
	return s.write(MenuFileName, data)
}

func (s *FileStore) write(rel string, data []byte) error {
	fullPath := filepath.Join(s.tempDir(), rel)

	// Create parent directories
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return err
	}
	return os.WriteFile(fullPath, data, 0644)
}

func (s *FileStore) oldDir() string {
	return filepath.Join(s.baseDir, s.name+".old")
}

// Commit replaces the output directory with the saved files. The previous
// output is moved aside first and restored if the swap fails, so the output
// path never holds a partially deleted export.
func (s *FileStore) Commit() error {
	if err := os.RemoveAll(s.oldDir()); err != nil {
		return err
	}
	hadFinal := true
	if err := os.Rename(s.finalDir(), s.oldDir()); err != nil {
		if !os.IsNotExist(err) {
			return err
		}
		hadFinal = false
	}
	if err := os.Rename(s.tempDir(), s.finalDir()); err != nil {
		if hadFinal {
			_ = os.Rename(s.oldDir(), s.finalDir())
		}
		return err
	}
	if hadFinal {
		return os.RemoveAll(s.oldDir())
	}
	return nil
}

// Abort discards the saved files.
func (s *FileStore) Abort() error {
	return os.RemoveAll(s.tempDir())
}

// ExportKey returns the file key a document path is exported under.
// Directory index documents are written inside their directory.
func ExportKey(dir *docver.MenuDir) string {
	if dir.Path == "" {
		return docver.IndexName
	}
	return path.Join(dir.Path, docver.IndexName)
}

// Export renders every document of a version's menu into the store and
// commits it. Documents the menu lists but that fail to resolve abort the
// export. The store is discarded on failure.
func Export(ctx context.Context, r docver.Resolver, versionHint string, store *FileStore) (n int, err error) {
	defer func() {
		if err != nil {
			_ = store.Abort()
		}
	}()

	menu := r.ResolveMenu(ctx, versionHint)
	if menu.Status != docver.StatusFound {
		return 0, docver.Errorf(docver.ENOTFOUND, "version not found: %s", versionHint)
	}
	head := menu.Version.Head

	save := func(docPath, key string) error {
		res := r.ResolveDoc(ctx, head, docPath)
		if res.Status != docver.StatusFound {
			return docver.Errorf(docver.ENOTFOUND, "document not found: %s", docPath)
		}
		if err := store.SaveDoc(key, res.Doc); err != nil {
			return err
		}
		n++
		return nil
	}

	err = menu.Menu.Walk(func(dir *docver.MenuDir) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if dir.HasIndex {
			docPath := dir.Path
			if docPath == "" {
				docPath = docver.IndexPath
			}
			if err := save(docPath, ExportKey(dir)); err != nil {
				return err
			}
		}
		for _, f := range dir.Files {
			if err := save(f.Path, f.Path); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if err := store.SaveMenu(menu.Menu); err != nil {
		return 0, err
	}
	if err := store.Commit(); err != nil {
		return 0, err
	}
	return n, nil
}
