package comparator

import (
	"encoding/hex"
	"hash"
	"io"
	"strings"

	"github.com/go-git/go-billy/v5"

	dcerrors "github.com/yuya-takeyama/diffcopy/pkg/errors"
)

const bufferSize = 64 * 1024 // 64KB buffer

// Digest compares files by hashing each of them in full.
type Digest struct {
	fs      billy.Filesystem
	name    string
	newHash func() hash.Hash
}

// NewDigest returns a Digest comparator; name labels the algorithm in errors.
func NewDigest(fsys billy.Filesystem, name string, newHash func() hash.Hash) *Digest {
	return &Digest{fs: fsys, name: name, newHash: newHash}
}

// Equal hashes both files and compares the hex digests case-insensitively.
// Both files are always read to the end, even when their sizes differ.
func (c *Digest) Equal(sourcePath, destPath string) (bool, error) {
	sourceSum, err := c.FileChecksum(sourcePath)
	if err != nil {
		return false, err
	}
	destSum, err := c.FileChecksum(destPath)
	if err != nil {
		return false, err
	}
	return strings.EqualFold(sourceSum, destSum), nil
}

// FileChecksum returns the hex digest of the file at path
func (c *Digest) FileChecksum(path string) (string, error) {
	file, err := c.fs.Open(path)
	if err != nil {
		return "", dcerrors.IO("open", path, err)
	}
	defer file.Close()

	sum, err := Checksum(c.newHash(), file)
	if err != nil {
		return "", dcerrors.IO(c.name, path, err)
	}
	return sum, nil
}

// Checksum streams r into h and returns the hex encoded sum.
func Checksum(h hash.Hash, r io.Reader) (string, error) {
	buffer := make([]byte, bufferSize)
	if _, err := io.CopyBuffer(h, r, buffer); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
