// Package comparator decides whether two files have equal content.
//
// Two strategies answer the same question at different cost: ByteStream stops at the first
// differing block and skips reading entirely when sizes differ, Digest always hashes both files
// in full.
package comparator

import (
	"crypto/sha1"
	"crypto/sha256"
	"fmt"
	"sort"

	"github.com/go-git/go-billy/v5"

	dcerrors "github.com/yuya-takeyama/diffcopy/pkg/errors"
	"github.com/yuya-takeyama/diffcopy/pkg/scanner"
)

// Comparator reports whether the files at two absolute paths have equal content.
type Comparator interface {
	Equal(sourcePath, destPath string) (bool, error)
}

type Strategy string

const (
	StrategyBytes  Strategy = "bytes"
	StrategySHA1   Strategy = "sha1"
	StrategySHA256 Strategy = "sha256"
)

// New returns the comparator implementing strategy on fsys.
func New(fsys billy.Filesystem, strategy Strategy) (Comparator, error) {
	switch strategy {
	case StrategyBytes:
		return NewByteStream(fsys), nil
	case StrategySHA1:
		return NewDigest(fsys, "sha1", sha1.New), nil
	case StrategySHA256:
		return NewDigest(fsys, "sha256", sha256.New), nil
	default:
		return nil, dcerrors.InvalidInput("strategy", string(strategy), fmt.Errorf("want one of %v", Strategies()))
	}
}

// Strategies lists the known strategy names in sorted order.
func Strategies() []Strategy {
	s := []Strategy{StrategyBytes, StrategySHA1, StrategySHA256}
	sort.Slice(s, func(i, j int) bool { return s[i] < s[j] })
	return s
}

// CompareBytes compares two host files with the chunked byte strategy.
func CompareBytes(a, b string) (bool, error) {
	return NewByteStream(scanner.OSFS()).Equal(a, b)
}

// CompareDigest compares two host files by SHA-1 digest.
func CompareDigest(a, b string) (bool, error) {
	return NewDigest(scanner.OSFS(), "sha1", sha1.New).Equal(a, b)
}
