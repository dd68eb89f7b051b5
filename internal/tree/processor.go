package tree

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
)

// ErrUnresolvedChild reports a directory encoded before one of its
// subdirectories was resolved. The depth ordering below makes this
// impossible unless the registry is corrupted, so it is treated as a
// fatal programming error rather than a recoverable condition.
var ErrUnresolvedChild = errors.New("subdirectory not yet resolved")

// Process resolves every directory bottom-up and returns the composite
// root checksum. A tree with no leaves yields EmptyDigest. Process is
// idempotent: it recomputes from the registry and performs no I/O, so
// calling it again after more AddLeaf calls simply reflects the larger
// tree.
func (t *Tree) Process() (string, error) {
	// Depth (segment count) is a topological rank: a child's path always
	// has more segments than its parent's, so resolving depth groups from
	// the deepest up guarantees every subdirectory is resolved before its
	// parent without any dependency bookkeeping.
	byDepth := make(map[int][]*Node)
	maxDepth := 0
	for path, node := range t.nodes {
		d := pathDepth(path)
		byDepth[d] = append(byDepth[d], node)
		if d > maxDepth {
			maxDepth = d
		}
	}

	// Directories at one depth never reference each other, so each depth
	// group is encoded concurrently; the group boundary is the only
	// synchronization point.
	for d := maxDepth; d >= 0; d-- {
		var g errgroup.Group
		for _, node := range byDepth[d] {
			node := node
			g.Go(func() error {
				resolved, err := encodeManifest(node)
				if err != nil {
					return fmt.Errorf("failed to resolve directory %q: %w", node.Path, err)
				}
				node.Resolved = &resolved
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return "", err
		}
	}

	return t.nodes[""].Resolved.String(), nil
}

func pathDepth(path string) int {
	if path == "" {
		return 0
	}
	return strings.Count(path, "/") + 1
}
