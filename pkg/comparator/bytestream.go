package comparator

import (
	"bytes"
	"errors"
	"io"

	"github.com/go-git/go-billy/v5"

	dcerrors "github.com/yuya-takeyama/diffcopy/pkg/errors"
)

// BlockSize is the number of bytes read from each file per step.
const BlockSize = 4096

// ByteStream compares files block by block.
type ByteStream struct {
	fs        billy.Filesystem
	blockSize int
}

func NewByteStream(fsys billy.Filesystem) *ByteStream {
	return &ByteStream{fs: fsys, blockSize: BlockSize}
}

// Equal opens both files, returns false without reading when their sizes differ, and otherwise
// reads them in lockstep until the first unequal block or the end of both.
func (c *ByteStream) Equal(sourcePath, destPath string) (bool, error) {
	sourceFile, err := c.fs.Open(sourcePath)
	if err != nil {
		return false, dcerrors.IO("open", sourcePath, err)
	}
	defer sourceFile.Close()

	destFile, err := c.fs.Open(destPath)
	if err != nil {
		return false, dcerrors.IO("open", destPath, err)
	}
	defer destFile.Close()

	sourceInfo, err := c.fs.Stat(sourcePath)
	if err != nil {
		return false, dcerrors.IO("stat", sourcePath, err)
	}
	destInfo, err := c.fs.Stat(destPath)
	if err != nil {
		return false, dcerrors.IO("stat", destPath, err)
	}

	if sourceInfo.Size() != destInfo.Size() {
		return false, nil
	}

	sourceBlock := make([]byte, c.blockSize)
	destBlock := make([]byte, c.blockSize)

	for {
		sn, err := readBlock(sourceFile, sourceBlock)
		if err != nil {
			return false, dcerrors.IO("read", sourcePath, err)
		}
		dn, err := readBlock(destFile, destBlock)
		if err != nil {
			return false, dcerrors.IO("read", destPath, err)
		}

		if !bytes.Equal(sourceBlock[:sn], destBlock[:dn]) {
			return false, nil
		}
		if sn == 0 {
			return true, nil
		}
	}
}

// readBlock fills buf as far as the stream allows; a short or empty read at end of file is not an error.
func readBlock(r io.Reader, buf []byte) (int, error) {
	n, err := io.ReadFull(r, buf)
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return n, nil
	}
	return n, err
}
