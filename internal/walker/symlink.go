package walker

import "os"

// isSymlink reports whether path is a symbolic link, using Lstat so the
// link itself (not its target) is inspected. spec.md §4.2 requires symlinks
// never be followed, so the Walker only needs to detect and skip them --
// unlike a context-packing tool that must resolve them to avoid re-reading
// the same real file twice, resub has no reason to chase a link's target.
func isSymlink(path string) (bool, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return false, err
	}
	return info.Mode()&os.ModeSymlink != 0, nil
}
