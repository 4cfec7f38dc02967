package pathfilter

import (
	"bufio"
	"bytes"
	"fmt"
	"os/exec"
)

// GitTrackedFiles runs `git ls-files` in the given root directory and returns
// a set of file paths relative to the root that are tracked by Git. It backs
// the --git-tracked-only flag, which restricts a rewrite job to files the
// repository actually owns -- skipping untracked scratch files, local build
// output, and IDE state that happen to sit in the tree but that the project
// never intended to be rewritten, without requiring every such path to be
// named in a .gitignore or .resubignore first.
//
// The returned map uses relative paths (as output by git ls-files) as keys,
// with all values set to true for O(1) membership checks.
//
// Errors are returned when:
//   - The directory is not a Git repository (git ls-files fails).
//   - The git command is not found on PATH.
//
// An empty repository (no tracked files) returns an empty map and a nil error.
func GitTrackedFiles(root string) (map[string]bool, error) {
	cmd := exec.Command("git", "ls-files")
	cmd.Dir = root

	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git ls-files failed in %s: %w (is this a git repository?)", root, err)
	}

	files := make(map[string]bool)
	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		line := scanner.Text()
		if line != "" {
			files[line] = true
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("parsing git ls-files output: %w", err)
	}

	return files, nil
}
