package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"

	dcerrors "github.com/yuya-takeyama/diffcopy/pkg/errors"
)

// Scanner enumerates regular files below a root directory
type Scanner struct {
	fs       billy.Filesystem
	root     string
	walkRoot string
	excludes []string
}

type Option func(*Scanner)

// WithExcludes skips relative paths matching any doublestar pattern.
// A pattern ending with "/" excludes the whole directory.
func WithExcludes(patterns ...string) Option {
	return func(s *Scanner) {
		s.excludes = append(s.excludes, patterns...)
	}
}

// OSFS returns a filesystem that accepts absolute host paths.
func OSFS() billy.Filesystem {
	return osfs.New(string(filepath.Separator))
}

// Validate makes root absolute and checks it is an existing directory.
func Validate(fsys billy.Filesystem, root string) (string, error) {
	if root == "" {
		return "", dcerrors.RootNotFound("validate root", root, fmt.Errorf("root is empty"))
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", dcerrors.RootNotFound("validate root", root, err)
	}

	info, err := fsys.Stat(absRoot)
	if err != nil {
		return "", dcerrors.RootNotFound("validate root", absRoot, err)
	}
	if !info.IsDir() {
		return "", dcerrors.RootNotFound("validate root", absRoot, fmt.Errorf("not a directory"))
	}

	return absRoot, nil
}

// New creates a scanner for root after validating it
func New(fsys billy.Filesystem, root string, opts ...Option) (*Scanner, error) {
	absRoot, err := Validate(fsys, root)
	if err != nil {
		return nil, err
	}

	walkRoot, err := resolveRoot(fsys, absRoot)
	if err != nil {
		return nil, err
	}

	s := &Scanner{fs: fsys, root: absRoot, walkRoot: walkRoot}
	for _, opt := range opts {
		opt(s)
	}

	for _, pattern := range s.excludes {
		if !doublestar.ValidatePattern(strings.TrimSuffix(pattern, "/")) {
			return nil, dcerrors.InvalidInput("exclude pattern", pattern, doublestar.ErrBadPattern)
		}
	}

	return s, nil
}

// Root returns the absolute root as given, before any symlink is resolved.
func (s *Scanner) Root() string {
	return s.root
}

// resolveRoot returns the target of root when root is a symlink; the walk itself never follows links.
func resolveRoot(fsys billy.Filesystem, root string) (string, error) {
	info, err := fsys.Lstat(root)
	if err != nil {
		return "", dcerrors.RootNotFound("validate root", root, err)
	}
	if info.Mode()&os.ModeSymlink == 0 {
		return root, nil
	}

	resolved, err := filepath.EvalSymlinks(root)
	if err != nil {
		return "", dcerrors.RootNotFound("resolve root", root, err)
	}
	return resolved, nil
}

// Scan walks the tree and returns slash-separated paths relative to the root, sorted.
func (s *Scanner) Scan() ([]string, error) {
	var files []string

	err := util.Walk(s.fs, s.walkRoot, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return dcerrors.IO("walk", path, err)
		}

		if info.IsDir() {
			if path != s.walkRoot && s.isExcludedDir(s.relPath(path)) {
				return filepath.SkipDir
			}
			return nil
		}

		if info.Mode()&os.ModeSymlink != 0 {
			// links to files count as files; directory links are never descended
			target, err := s.fs.Stat(path)
			if err != nil || !target.Mode().IsRegular() {
				return nil
			}
		} else if !info.Mode().IsRegular() {
			return nil
		}

		relPath := s.relPath(path)
		if relPath == "" {
			return dcerrors.IO("relative path", path, fmt.Errorf("outside root %s", s.walkRoot))
		}

		if s.isExcluded(relPath) {
			return nil
		}

		files = append(files, relPath)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", s.root, err)
	}

	sort.Strings(files)
	return files, nil
}

// relPath computes the slash form of path relative to the root, or "" when path is not below it.
func (s *Scanner) relPath(path string) string {
	rel, err := filepath.Rel(s.walkRoot, path)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return ""
	}
	return filepath.ToSlash(rel)
}

func (s *Scanner) isExcludedDir(relDir string) bool {
	for _, pattern := range s.excludes {
		if !strings.HasSuffix(pattern, "/") {
			continue
		}
		if matched, _ := doublestar.Match(strings.TrimSuffix(pattern, "/"), relDir); matched {
			return true
		}
	}
	return false
}

func (s *Scanner) isExcluded(relPath string) bool {
	for _, pattern := range s.excludes {
		if strings.HasSuffix(pattern, "/") {
			continue
		}
		if matched, _ := doublestar.Match(pattern, relPath); matched {
			return true
		}
	}
	return false
}

// Scan enumerates root on the host filesystem.
func Scan(root string) ([]string, error) {
	s, err := New(OSFS(), root)
	if err != nil {
		return nil, err
	}
	return s.Scan()
}

// Join rebuilds the absolute path of a relative path produced by Scan.
func Join(root, relPath string) string {
	return filepath.Join(root, filepath.FromSlash(relPath))
}
