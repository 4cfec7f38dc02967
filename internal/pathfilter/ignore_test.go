package pathfilter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeIgnorer struct {
	ignoredPaths map[string]bool
}

func (f fakeIgnorer) IsIgnored(path string, _ bool) bool {
	return f.ignoredPaths[path]
}

func TestNewCompositeIgnorer_SkipsNilEntries(t *testing.T) {
	t.Parallel()

	c := NewCompositeIgnorer(nil, fakeIgnorer{ignoredPaths: map[string]bool{"a.go": true}}, nil)

	assert.Equal(t, 1, c.IgnorerCount())
}

func TestCompositeIgnorer_IsIgnored_AnySourceMatches(t *testing.T) {
	t.Parallel()

	c := NewCompositeIgnorer(
		fakeIgnorer{ignoredPaths: map[string]bool{"dist/app.js": true}},
		fakeIgnorer{ignoredPaths: map[string]bool{"vendor/lib.go": true}},
	)

	assert.True(t, c.IsIgnored("dist/app.js", false))
	assert.True(t, c.IsIgnored("vendor/lib.go", false))
	assert.False(t, c.IsIgnored("src/main.go", false))
}

func TestCompositeIgnorer_NoSources_NeverIgnores(t *testing.T) {
	t.Parallel()

	c := NewCompositeIgnorer()

	assert.False(t, c.IsIgnored("anything.go", false))
	assert.Equal(t, 0, c.IgnorerCount())
}
