// Package checksum wires a leaf source into the checksum tree and
// resolves the store's root digest.
package checksum

import (
	"context"
	"fmt"

	"zarrsum/internal/source"
	"zarrsum/internal/tree"
)

// Result carries the root checksum plus the aggregates embedded in it.
type Result struct {
	Checksum  string
	FileCount int64
	TotalSize int64
}

// Compute drains src into a checksum tree, then resolves and returns the
// root digest. Any source error aborts the run: the tree only ever sees
// a complete leaf sequence or none at all.
func Compute(ctx context.Context, src source.Source) (*Result, error) {
	t := tree.New()

	leaves := make(chan source.Leaf)
	errCh := make(chan error, 1)
	go func() {
		errCh <- src.Leaves(ctx, leaves)
		close(leaves)
	}()

	// Drain the channel even after an insertion error so the source
	// goroutine can finish.
	var addErr error
	for leaf := range leaves {
		if addErr != nil {
			continue
		}
		addErr = t.AddLeaf(leaf.Path, leaf.Size, leaf.Digest)
	}
	srcErr := <-errCh

	if addErr != nil {
		return nil, addErr
	}
	if srcErr != nil {
		return nil, srcErr
	}

	root, err := t.Process()
	if err != nil {
		return nil, err
	}

	digest, err := tree.ParseDigest(root)
	if err != nil {
		return nil, fmt.Errorf("internal: malformed root checksum: %w", err)
	}
	return &Result{Checksum: root, FileCount: digest.Count, TotalSize: digest.Size}, nil
}
