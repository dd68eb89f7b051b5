package source

import "context"

// Leaf is one file in the store: its slash-separated path relative to the
// store root, its byte size, and the hex digest of its raw content.
type Leaf struct {
	Path   string
	Size   int64
	Digest string
}

// Source enumerates every leaf in a store, in no particular order.
type Source interface {
	// Leaves sends each leaf to out and returns once the store is fully
	// enumerated, or as soon as enumeration fails. The caller owns out
	// and closes it after Leaves returns.
	Leaves(ctx context.Context, out chan<- Leaf) error
}
