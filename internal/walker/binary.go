// Package walker implements directory traversal (spec.md §4.2 Walker): a
// lazy, finite, depth-first sequence of pipeline.FileDescriptor that obeys
// pathfilter decisions, depth limits, and symlink-cycle avoidance, tolerating
// per-entry I/O errors without aborting the walk.
package walker

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

// binaryDetectionBytes is the number of leading bytes inspected for a null
// byte when sniffing for binary content, matching Git's own heuristic.
const binaryDetectionBytes = 8192

// isBinary reports whether the file at path contains binary content. This is
// a defense-in-depth pre-filter ahead of FileWorker's UTF-8 decode: a file
// with a recognized text extension can still contain binary junk, and
// sniffing 8KB up front is cheaper than queuing it for a full FileWorker
// read that will fail with ErrInvalidUTF8 anyway. An empty file is never
// binary.
func isBinary(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("opening %s for binary detection: %w", path, err)
	}
	defer f.Close()

	buf := make([]byte, binaryDetectionBytes)
	n, err := f.Read(buf)
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("reading %s for binary detection: %w", path, err)
	}
	if n == 0 {
		return false, nil
	}

	return bytes.IndexByte(buf[:n], 0) != -1, nil
}
