package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dcerrors "github.com/yuya-takeyama/diffcopy/pkg/errors"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

func TestScan(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, map[string]string{
		"file1.txt":             "content1",
		"file2.txt":             "content2",
		"dir1/file3.txt":        "content3",
		"dir1/subdir/file5.txt": "content5",
		"dir2/file6.txt":        "content6",
		".hidden":               "hidden",
		"dir1/.gitignore":       "ignored",
	})
	require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, "empty", "nested"), 0755))

	tests := []struct {
		name     string
		excludes []string
		want     []string
	}{
		{
			name: "no excludes",
			want: []string{
				".hidden",
				"dir1/.gitignore",
				"dir1/file3.txt",
				"dir1/subdir/file5.txt",
				"dir2/file6.txt",
				"file1.txt",
				"file2.txt",
			},
		},
		{
			name:     "exclude hidden files",
			excludes: []string{".*", "**/.*"},
			want: []string{
				"dir1/file3.txt",
				"dir1/subdir/file5.txt",
				"dir2/file6.txt",
				"file1.txt",
				"file2.txt",
			},
		},
		{
			name:     "exclude directory",
			excludes: []string{"dir1/"},
			want: []string{
				".hidden",
				"dir2/file6.txt",
				"file1.txt",
				"file2.txt",
			},
		},
		{
			name:     "exclude nested directory by pattern",
			excludes: []string{"**/subdir/"},
			want: []string{
				".hidden",
				"dir1/.gitignore",
				"dir1/file3.txt",
				"dir2/file6.txt",
				"file1.txt",
				"file2.txt",
			},
		},
		{
			name:     "exclude by extension",
			excludes: []string{"**/*.txt"},
			want: []string{
				".hidden",
				"dir1/.gitignore",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(OSFS(), tmpDir, WithExcludes(tt.excludes...))
			require.NoError(t, err)

			got, err := s.Scan()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScanRelativePathsRejoin(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, map[string]string{
		"a/b/c.txt": "abc",
		"top.txt":   "top",
	})

	got, err := Scan(tmpDir)
	require.NoError(t, err)
	require.Len(t, got, 2)

	for _, rel := range got {
		data, err := os.ReadFile(Join(tmpDir, rel))
		require.NoError(t, err, rel)
		assert.NotEmpty(t, data)
	}
}

func TestScanRootContainingItsOwnName(t *testing.T) {
	// the root string reappears inside the tree; prefix stripping must only remove the leading root
	tmpDir := t.TempDir()
	root := filepath.Join(tmpDir, "site")
	writeTree(t, root, map[string]string{
		"site/index.html": "x",
	})

	got, err := Scan(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"site/index.html"}, got)
}

func TestScanEmptyDirectory(t *testing.T) {
	got, err := Scan(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func symlink(t *testing.T, target, link string) {
	t.Helper()
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
}

func TestScanSymlinks(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, map[string]string{"real.txt": "data", "sub/inner.txt": "inner"})
	symlink(t, filepath.Join(tmpDir, "real.txt"), filepath.Join(tmpDir, "link.txt"))
	symlink(t, "../real.txt", filepath.Join(tmpDir, "sub", "relative.txt"))
	symlink(t, tmpDir, filepath.Join(tmpDir, "loop"))
	symlink(t, filepath.Join(tmpDir, "missing.txt"), filepath.Join(tmpDir, "dangling.txt"))

	got, err := Scan(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, []string{"link.txt", "real.txt", "sub/inner.txt", "sub/relative.txt"}, got)

	data, err := os.ReadFile(Join(tmpDir, "sub/relative.txt"))
	require.NoError(t, err)
	assert.Equal(t, "data", string(data))
}

func TestScanSymlinkedRoot(t *testing.T) {
	tmpDir := t.TempDir()
	realRoot := filepath.Join(tmpDir, "real")
	writeTree(t, realRoot, map[string]string{"a.txt": "a", "dir/b.txt": "b"})
	linkRoot := filepath.Join(tmpDir, "link")
	symlink(t, realRoot, linkRoot)

	s, err := New(OSFS(), linkRoot, WithExcludes("dir/"))
	require.NoError(t, err)
	assert.Equal(t, linkRoot, s.Root())

	got, err := s.Scan()
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt"}, got)

	all, err := Scan(linkRoot)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "dir/b.txt"}, all)
	for _, rel := range all {
		_, err := os.Stat(Join(linkRoot, rel))
		require.NoError(t, err, rel)
	}
}

func TestNewRootNotFound(t *testing.T) {
	tmpDir := t.TempDir()
	file := filepath.Join(tmpDir, "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	tests := []struct {
		name string
		root string
	}{
		{"empty", ""},
		{"missing", filepath.Join(tmpDir, "does-not-exist")},
		{"file instead of directory", file},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(OSFS(), tt.root)
			require.Error(t, err)
			assert.ErrorIs(t, err, dcerrors.ErrRootNotFound)
		})
	}
}

func TestNewInvalidExclude(t *testing.T) {
	_, err := New(OSFS(), t.TempDir(), WithExcludes("[unterminated"))
	require.Error(t, err)
	assert.ErrorIs(t, err, dcerrors.ErrInvalidInput)
}
