package pathfilter

import (
	"fmt"

	"github.com/resub/resub/internal/pipeline"
)

// BuildIgnorer composes the optional .gitignore/.resubignore ignore sources
// a FilterConfig requests, and resolves the git-tracked-only set once up
// front if requested. Both the Scheduler and the PreviewBuilder call this so
// a preview samples from exactly the same candidate set a real Job would
// discover (spec.md §4.6 "semantic equivalence").
func BuildIgnorer(root string, cfg pipeline.FilterConfig) (Ignorer, map[string]bool, error) {
	var sources []Ignorer

	if cfg.RespectGitignore {
		m, err := NewGitignoreMatcher(root)
		if err != nil {
			return nil, nil, fmt.Errorf("loading .gitignore: %w", err)
		}
		sources = append(sources, m)
	}

	if cfg.RespectLocalIgnore {
		m, err := NewLocalIgnoreMatcher(root)
		if err != nil {
			return nil, nil, fmt.Errorf("loading .resubignore: %w", err)
		}
		sources = append(sources, m)
	}

	var gitTracked map[string]bool
	if cfg.GitTrackedOnly {
		tracked, err := GitTrackedFiles(root)
		if err != nil {
			return nil, nil, fmt.Errorf("listing git-tracked files: %w", err)
		}
		gitTracked = tracked
	}

	if len(sources) == 0 {
		return nil, gitTracked, nil
	}
	return NewCompositeIgnorer(sources...), gitTracked, nil
}
