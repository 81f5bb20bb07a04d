package scan

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/treelint/treelint/pkg/errors"
)

// entry is the scanner's view of one directory child.
type entry struct {
	Name      string
	RelDir    string // repository-relative directory holding the entry
	IsDir     bool
	IsSymlink bool
}

// relPath returns the entry's repository-relative path.
func (e entry) relPath() string {
	return path.Join(e.RelDir, e.Name)
}

// listDir lists the immediate children of root/relDir. Symlinked directories
// only report IsDir when symlinks are followed.
func listDir(root, relDir string, flags Flags) ([]entry, error) {
	dirEntries, err := os.ReadDir(filepath.Join(root, filepath.FromSlash(relDir)))
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess,
			"failed to list directory %q", relDir)
	}

	listed := make([]entry, 0, len(dirEntries))
	for _, d := range dirEntries {
		e := entry{
			Name:      d.Name(),
			RelDir:    relDir,
			IsDir:     d.IsDir(),
			IsSymlink: d.Type()&fs.ModeSymlink != 0,
		}
		if e.IsSymlink && flags.FollowSymlinks {
			// DirEntry does not resolve symlinks, stat the target.
			if info, err := os.Stat(filepath.Join(root, filepath.FromSlash(e.relPath()))); err == nil {
				e.IsDir = info.IsDir()
			}
		}
		listed = append(listed, e)
	}
	return listed, nil
}
