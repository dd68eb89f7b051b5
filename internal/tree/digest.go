package tree

import (
	"fmt"
	"strconv"
	"strings"
)

// Digest is a resolved directory checksum: the md5 of the directory's
// canonical manifest plus the aggregate file count and byte size of the
// whole subtree. Its string form "<md5>-<count>--<size>" is what callers
// compare across runs, and is also what parent manifests embed for their
// subdirectory entries.
type Digest struct {
	MD5   string
	Count int64
	Size  int64
}

// EmptyDigest is the checksum of a store with no files at all: the md5 of
// the empty manifest {"directories":[],"files":[]} with zero aggregates.
const EmptyDigest = "481a2f77ab786a0f45aafd5db0971caa-0--0"

func (d Digest) String() string {
	return fmt.Sprintf("%s-%d--%d", d.MD5, d.Count, d.Size)
}

// ParseDigest splits a composite "<md5>-<count>--<size>" token back into
// its parts.
func ParseDigest(s string) (Digest, error) {
	head, sizePart, ok := strings.Cut(s, "--")
	if !ok {
		return Digest{}, fmt.Errorf("malformed checksum %q: missing size separator", s)
	}
	i := strings.LastIndex(head, "-")
	if i < 0 {
		return Digest{}, fmt.Errorf("malformed checksum %q: missing count separator", s)
	}
	count, err := strconv.ParseInt(head[i+1:], 10, 64)
	if err != nil {
		return Digest{}, fmt.Errorf("malformed checksum %q: bad file count: %w", s, err)
	}
	size, err := strconv.ParseInt(sizePart, 10, 64)
	if err != nil {
		return Digest{}, fmt.Errorf("malformed checksum %q: bad total size: %w", s, err)
	}
	return Digest{MD5: head[:i], Count: count, Size: size}, nil
}
