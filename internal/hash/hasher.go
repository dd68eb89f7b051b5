package hash

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
)

const bufferSize = 32 * 1024 // 32KB buffer for streaming

// Algorithm selects the whole-file content hash used for leaf digests.
type Algorithm string

const (
	// MD5 matches the ETag that S3 reports for single-part uploads, so
	// local and remote checksums of the same store line up.
	MD5 Algorithm = "md5"
	// XXH64 is much faster but only comparable against other xxh64 runs.
	XXH64 Algorithm = "xxh64"
)

// New returns a fresh hash state for the algorithm. The empty algorithm
// defaults to md5.
func (a Algorithm) New() (hash.Hash, error) {
	switch a {
	case MD5, "":
		return md5.New(), nil
	case XXH64:
		return xxhash.New(), nil
	}
	return nil, fmt.Errorf("unknown digest algorithm %q", a)
}

// HashFile streams a file through the selected algorithm and returns the
// hex digest of its contents.
func HashFile(path string, algo Algorithm) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	h, err := algo.New()
	if err != nil {
		return "", err
	}

	buf := make([]byte, bufferSize)
	for {
		n, err := file.Read(buf)
		if n > 0 {
			h.Write(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to read file: %w", err)
		}
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
