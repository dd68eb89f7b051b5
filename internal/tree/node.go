package tree

// FileEntry is one direct file inside a directory: its byte size and the
// hex digest of its raw content.
type FileEntry struct {
	Size   int64
	Digest string
}

// Node is one directory in the store. It holds direct children only;
// aggregates for the whole subtree live in Resolved once the processor
// has visited the node.
type Node struct {
	Path     string // slash-joined path relative to the store root, "" for root
	Files    map[string]FileEntry
	Subdirs  map[string]*Node
	Resolved *Digest
}

func newNode(path string) *Node {
	return &Node{
		Path:    path,
		Files:   make(map[string]FileEntry),
		Subdirs: make(map[string]*Node),
	}
}
