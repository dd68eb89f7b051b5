package checksum

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"zarrsum/internal/hash"
	"zarrsum/internal/source"
	"zarrsum/internal/tree"
)

// sliceSource replays a fixed leaf set.
type sliceSource []source.Leaf

func (s sliceSource) Leaves(ctx context.Context, out chan<- source.Leaf) error {
	for _, leaf := range s {
		select {
		case out <- leaf:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// failingSource fails partway through enumeration.
type failingSource struct{ err error }

func (f failingSource) Leaves(ctx context.Context, out chan<- source.Leaf) error {
	out <- source.Leaf{Path: "a", Size: 1, Digest: "d"}
	return f.err
}

func TestCompute_KnownScenario(t *testing.T) {
	src := sliceSource{
		{Path: "a/b/x", Size: 10, Digest: "d1"},
		{Path: "a/b/y", Size: 20, Digest: "d2"},
		{Path: "a/c", Size: 30, Digest: "d3"},
	}

	res, err := Compute(context.Background(), src)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	if res.Checksum != "6ba88abf6c98577a39f48df6bdfbaea9-3--60" {
		t.Errorf("Unexpected checksum: %s", res.Checksum)
	}
	if res.FileCount != 3 || res.TotalSize != 60 {
		t.Errorf("Unexpected aggregates: %d files, %d bytes", res.FileCount, res.TotalSize)
	}
}

func TestCompute_EmptySource(t *testing.T) {
	res, err := Compute(context.Background(), sliceSource{})
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	if res.Checksum != tree.EmptyDigest {
		t.Errorf("Expected empty store checksum, got %s", res.Checksum)
	}
	if res.FileCount != 0 || res.TotalSize != 0 {
		t.Errorf("Expected zero aggregates, got %+v", res)
	}
}

func TestCompute_DuplicatePath(t *testing.T) {
	src := sliceSource{
		{Path: "a/x", Size: 1, Digest: "d1"},
		{Path: "a/x", Size: 2, Digest: "d2"},
	}

	_, err := Compute(context.Background(), src)
	if !errors.Is(err, tree.ErrDuplicatePath) {
		t.Errorf("Expected ErrDuplicatePath, got %v", err)
	}
}

func TestCompute_SourceError(t *testing.T) {
	sentinel := errors.New("listing failed")

	_, err := Compute(context.Background(), failingSource{err: sentinel})
	if !errors.Is(err, sentinel) {
		t.Errorf("Expected source error, got %v", err)
	}
}

func TestCompute_LocalStore(t *testing.T) {
	root := t.TempDir()
	files := map[string]string{
		"x.zarr/.zarray": `{"shape":[2]}`,
		"x.zarr/0":       "chunk0",
		"x.zarr/1":       "chunk1",
	}
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("Failed to create directory: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write file: %v", err)
		}
	}

	local := &source.Local{Root: root, Workers: 2, Algorithm: hash.MD5}
	res, err := Compute(context.Background(), local)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	// The same store expressed as a plain leaf set must checksum
	// identically, whatever order the walk produced.
	var replay sliceSource
	for rel, content := range files {
		sum := md5.Sum([]byte(content))
		replay = append(replay, source.Leaf{
			Path:   rel,
			Size:   int64(len(content)),
			Digest: hex.EncodeToString(sum[:]),
		})
	}
	want, err := Compute(context.Background(), replay)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	if res.Checksum != want.Checksum {
		t.Errorf("Local store checksum %s does not match replayed leaves %s", res.Checksum, want.Checksum)
	}
	if res.FileCount != 3 {
		t.Errorf("Expected 3 files, got %d", res.FileCount)
	}

	// Touching one chunk must change the root checksum.
	if err := os.WriteFile(filepath.Join(root, "x.zarr", "0"), []byte("chunk0!"), 0644); err != nil {
		t.Fatalf("Failed to rewrite file: %v", err)
	}
	changed, err := Compute(context.Background(), local)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if changed.Checksum == res.Checksum {
		t.Error("Checksum did not change after modifying a chunk")
	}
}
