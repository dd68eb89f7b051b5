package tree

import (
	"errors"
	"fmt"
	"strings"
)

// ErrDuplicatePath is returned by AddLeaf when two leaves carry the same
// full path.
var ErrDuplicatePath = errors.New("duplicate leaf path")

// Tree accumulates leaf records into a sparse directory structure and,
// once every leaf is in, folds it bottom-up into a single root checksum.
//
// Nodes live in a flat registry keyed by directory path instead of a
// pointer-linked structure, so ensuring an ancestor chain is an iterative
// walk and the processor gets random access to every node by path.
type Tree struct {
	nodes map[string]*Node
}

// New returns an empty tree containing only the root directory node.
func New() *Tree {
	t := &Tree{nodes: make(map[string]*Node)}
	t.nodes[""] = newNode("")
	return t
}

// AddLeaf records one file. Leaves may arrive in any order; the tree
// shape depends only on the set of paths, never on insertion order,
// because insertion does no digest work at all. The path must be a
// slash-separated relative path with non-empty segments. Adding the same
// full path twice is a caller error.
func (t *Tree) AddLeaf(path string, size int64, digest string) error {
	if path == "" {
		return errors.New("empty leaf path")
	}
	segments := strings.Split(path, "/")
	name := segments[len(segments)-1]

	parent := t.ensureDir(segments[:len(segments)-1])
	if _, exists := parent.Files[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicatePath, path)
	}
	parent.Files[name] = FileEntry{Size: size, Digest: digest}
	return nil
}

// ensureDir walks the segment chain from the root down, creating and
// linking any directory node not seen before.
func (t *Tree) ensureDir(segments []string) *Node {
	node := t.nodes[""]
	for i, name := range segments {
		child, ok := node.Subdirs[name]
		if !ok {
			child = newNode(strings.Join(segments[:i+1], "/"))
			t.nodes[child.Path] = child
			node.Subdirs[name] = child
		}
		node = child
	}
	return node
}
