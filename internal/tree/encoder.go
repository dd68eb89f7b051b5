package tree

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"sort"

	"github.com/goccy/go-json"
)

// checksum is one manifest entry. Field order is part of encoding v1:
// struct fields serialize in declaration order, so the byte stream for a
// given child set is fixed.
type checksum struct {
	Digest string `json:"digest"`
	Name   string `json:"name"`
	Size   int64  `json:"size"`
}

// manifest is the canonical pre-image for a directory digest. Both lists
// are sorted by name before serialization. Directory entries embed the
// child's composite digest string, so the child's own file count and
// size feed into the parent's pre-image as well.
type manifest struct {
	Directories []checksum `json:"directories"`
	Files       []checksum `json:"files"`
}

// encodeManifest reduces a directory's direct children to its resolved
// digest and aggregates. Pure function of the node's file entries and
// the already-resolved subdirectory digests.
func encodeManifest(node *Node) (Digest, error) {
	m := manifest{
		Directories: make([]checksum, 0, len(node.Subdirs)),
		Files:       make([]checksum, 0, len(node.Files)),
	}

	var size, count int64
	for name, entry := range node.Files {
		m.Files = append(m.Files, checksum{Digest: entry.Digest, Name: name, Size: entry.Size})
		size += entry.Size
		count++
	}
	for name, child := range node.Subdirs {
		if child.Resolved == nil {
			return Digest{}, fmt.Errorf("%w: %s", ErrUnresolvedChild, child.Path)
		}
		m.Directories = append(m.Directories, checksum{
			Digest: child.Resolved.String(),
			Name:   name,
			Size:   child.Resolved.Size,
		})
		size += child.Resolved.Size
		count += child.Resolved.Count
	}

	// Byte-wise name order, never map iteration order.
	sort.Slice(m.Directories, func(i, j int) bool { return m.Directories[i].Name < m.Directories[j].Name })
	sort.Slice(m.Files, func(i, j int) bool { return m.Files[i].Name < m.Files[j].Name })

	raw, err := json.Marshal(m)
	if err != nil {
		return Digest{}, fmt.Errorf("failed to serialize manifest: %w", err)
	}

	sum := md5.Sum(raw)
	return Digest{MD5: hex.EncodeToString(sum[:]), Count: count, Size: size}, nil
}
