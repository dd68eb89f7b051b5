package source

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"zarrsum/internal/hash"
	"zarrsum/internal/progress"
)

// Local enumerates a store rooted at a directory on the local
// filesystem, hashing file contents with a pool of workers.
type Local struct {
	Root      string
	Exclude   []string
	Workers   int
	Algorithm hash.Algorithm
	Bar       *progress.Bar
}

type localFile struct {
	relPath string
	absPath string
	size    int64
}

type leafResult struct {
	leaf Leaf
	err  error
}

func (l *Local) Leaves(ctx context.Context, out chan<- Leaf) error {
	if _, err := os.Stat(l.Root); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("store root does not exist: %s", l.Root)
		}
		return fmt.Errorf("failed to stat store root: %w", err)
	}

	files, err := l.walk()
	if err != nil {
		return err
	}

	if l.Bar != nil {
		l.Bar.SetTotal(int64(len(files)))
	}
	if len(files) == 0 {
		return nil
	}

	workers := l.Workers
	if workers <= 0 {
		workers = 1
	}

	// Both channels are buffered to the full file count so workers never
	// block, even when the consumer bails out on the first error.
	jobs := make(chan localFile, len(files))
	results := make(chan leafResult, len(files))
	for _, f := range files {
		jobs <- f
	}
	close(jobs)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				digest, err := hash.HashFile(job.absPath, l.Algorithm)
				if err != nil {
					results <- leafResult{err: fmt.Errorf("%s: %w", job.relPath, err)}
					continue
				}
				results <- leafResult{leaf: Leaf{Path: job.relPath, Size: job.size, Digest: digest}}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	for res := range results {
		if res.err != nil {
			return res.err
		}
		if l.Bar != nil {
			l.Bar.Increment()
		}
		select {
		case out <- res.leaf:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// walk collects every file under the root, recording slash-normalized
// relative paths. A file we cannot stat would silently change the
// checksum, so any walk error aborts the run instead of being skipped.
func (l *Local) walk() ([]localFile, error) {
	var files []localFile
	err := filepath.WalkDir(l.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(l.Root, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}

		if excluded(rel, l.Exclude) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		// Symlinks are skipped rather than followed: the walk's lstat
		// size describes the link while hashing would read the target,
		// and a leaf whose size and digest disagree poisons the
		// checksum.
		if !d.Type().IsRegular() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		files = append(files, localFile{
			relPath: filepath.ToSlash(rel),
			absPath: path,
			size:    info.Size(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk store: %w", err)
	}
	return files, nil
}

// excluded reports whether a relative path matches any exclude pattern.
// Patterns ending in "/" match directory names anywhere in the path;
// other patterns glob-match the base name, or the full relative path when
// the pattern contains a separator.
func excluded(relPath string, patterns []string) bool {
	for _, pattern := range patterns {
		if dir, ok := strings.CutSuffix(pattern, "/"); ok {
			for _, part := range strings.Split(relPath, string(filepath.Separator)) {
				if matched, _ := filepath.Match(dir, part); matched {
					return true
				}
			}
			continue
		}
		if matched, _ := filepath.Match(pattern, filepath.Base(relPath)); matched {
			return true
		}
		if strings.Contains(pattern, "/") {
			if matched, _ := filepath.Match(pattern, filepath.ToSlash(relPath)); matched {
				return true
			}
		}
	}
	return false
}
