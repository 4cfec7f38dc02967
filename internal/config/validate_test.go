package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resub/resub/internal/pipeline"
)

// ── test helpers ──────────────────────────────────────────────────────────────

// errorsWithField filters a []ValidationError slice to those whose Field starts
// with the given prefix. The original slice order is preserved.
func errorsWithField(results []ValidationError, prefix string) []ValidationError {
	var out []ValidationError
	for _, e := range results {
		if strings.HasPrefix(e.Field, prefix) {
			out = append(out, e)
		}
	}
	return out
}

func validJobConfig(t *testing.T, root string) pipeline.JobConfig {
	t.Helper()
	return pipeline.JobConfig{
		RootDirectory: root,
		Filter: pipeline.FilterConfig{
			MaxFileSize:     DefaultMaxFileSize,
			ExcludePatterns: []string{"vendor/**", "**/*.lock"},
		},
		Rules: pipeline.Ruleset{
			{ID: "r1", Find: "foo", Replace: "bar", Enabled: true},
			{ID: "r2", Find: "baz", Replace: "qux", Enabled: false},
		},
	}
}

// ── ValidationError.Error() ───────────────────────────────────────────────────

func TestValidationError_Error_WithSuggest(t *testing.T) {
	t.Parallel()

	e := ValidationError{
		Severity: "error",
		Field:    "replacements[0].from",
		Message:  `rule "r1" is enabled but has an empty find string`,
		Suggest:  "Set a non-empty find string or disable the rule",
	}

	got := e.Error()
	assert.Contains(t, got, "error")
	assert.Contains(t, got, "replacements[0].from")
	assert.Contains(t, got, "suggestion:")
	assert.Contains(t, got, "non-empty find string")
}

func TestValidationError_Error_WithoutSuggest(t *testing.T) {
	t.Parallel()

	e := ValidationError{
		Severity: "warning",
		Field:    "root_directory",
		Message:  "some warning",
	}

	got := e.Error()
	assert.NotContains(t, got, "suggestion:")
	assert.Contains(t, got, "warning")
	assert.Contains(t, got, "root_directory")
}

func TestValidationError_ImplementsErrorInterface(t *testing.T) {
	t.Parallel()

	var _ error = ValidationError{}
}

// ── ValidateConfig: valid configurations ─────────────────────────────────────

func TestValidateConfig_Valid(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	cfg := validJobConfig(t, tmp)

	result := ValidateConfig(cfg)
	assert.Empty(t, result, "a well-formed JobConfig must produce no validation errors")
}

// ── ValidateConfig: rule errors ───────────────────────────────────────────────

func TestValidateConfig_EmptyFindInEnabledRule(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	cfg := validJobConfig(t, tmp)
	cfg.Rules = pipeline.Ruleset{
		{ID: "r1", Find: "", Replace: "x", Enabled: true},
	}

	result := ValidateConfig(cfg)
	errs := errorsWithField(result, "replacements[0]")
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0].Message, "empty find")
	assert.NotEmpty(t, errs[0].Suggest)
}

func TestValidateConfig_EmptyFindInDisabledRule_NoError(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	cfg := validJobConfig(t, tmp)
	cfg.Rules = pipeline.Ruleset{
		{ID: "r1", Find: "", Replace: "x", Enabled: false},
	}

	result := ValidateConfig(cfg)
	assert.Empty(t, result, "an empty find in a disabled rule must not be an error")
}

func TestValidateConfig_DuplicateRuleIDs(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	cfg := validJobConfig(t, tmp)
	cfg.Rules = pipeline.Ruleset{
		{ID: "dup", Find: "a", Replace: "b", Enabled: true},
		{ID: "dup", Find: "c", Replace: "d", Enabled: true},
	}

	result := ValidateConfig(cfg)
	errs := errorsWithField(result, "replacements[1].id")
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0].Message, "dup")
	assert.Contains(t, errs[0].Message, "replacements[0]")
}

func TestValidateConfig_DuplicateRuleIDs_DisabledStillCounts(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	cfg := validJobConfig(t, tmp)
	cfg.Rules = pipeline.Ruleset{
		{ID: "dup", Find: "a", Replace: "b", Enabled: false},
		{ID: "dup", Find: "c", Replace: "d", Enabled: true},
	}

	result := ValidateConfig(cfg)
	errs := errorsWithField(result, "replacements[1].id")
	require.NotEmpty(t, errs, "id collisions are reported regardless of enabled state")
}

func TestValidateConfig_MultipleRuleErrors(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	cfg := validJobConfig(t, tmp)
	cfg.Rules = pipeline.Ruleset{
		{ID: "a", Find: "", Replace: "x", Enabled: true},
		{ID: "a", Find: "y", Replace: "z", Enabled: true},
	}

	result := ValidateConfig(cfg)
	assert.GreaterOrEqual(t, len(result), 2, "must accumulate both the empty-find and duplicate-id errors")
}

// ── ValidateConfig: max file size ─────────────────────────────────────────────

func TestValidateConfig_MaxFileSizeZero(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	cfg := validJobConfig(t, tmp)
	cfg.Filter.MaxFileSize = 0

	result := ValidateConfig(cfg)
	errs := errorsWithField(result, "target_settings.max_file_size")
	require.NotEmpty(t, errs, "zero max_file_size must be rejected")
}

func TestValidateConfig_MaxFileSizeNegative(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	cfg := validJobConfig(t, tmp)
	cfg.Filter.MaxFileSize = -1

	result := ValidateConfig(cfg)
	errs := errorsWithField(result, "target_settings.max_file_size")
	require.NotEmpty(t, errs)
}

func TestValidateConfig_MaxFileSizeAboveCap(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	cfg := validJobConfig(t, tmp)
	cfg.Filter.MaxFileSize = maxMaxFileSize + 1

	result := ValidateConfig(cfg)
	errs := errorsWithField(result, "target_settings.max_file_size")
	require.NotEmpty(t, errs)
}

func TestValidateConfig_MaxFileSizeAtCap_NoError(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	cfg := validJobConfig(t, tmp)
	cfg.Filter.MaxFileSize = maxMaxFileSize

	result := ValidateConfig(cfg)
	errs := errorsWithField(result, "target_settings.max_file_size")
	assert.Empty(t, errs, "max_file_size exactly at the cap must be accepted")
}

// ── ValidateConfig: root directory ────────────────────────────────────────────

func TestValidateConfig_RootDirectoryMissing(t *testing.T) {
	t.Parallel()

	cfg := validJobConfig(t, filepath.Join(t.TempDir(), "does-not-exist"))

	result := ValidateConfig(cfg)
	errs := errorsWithField(result, "root_directory")
	require.NotEmpty(t, errs)
}

func TestValidateConfig_RootDirectoryIsFile(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	f := filepath.Join(tmp, "file.txt")
	require.NoError(t, os.WriteFile(f, []byte("x"), 0o644))

	cfg := validJobConfig(t, f)

	result := ValidateConfig(cfg)
	errs := errorsWithField(result, "root_directory")
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0].Message, "not a directory")
}

func TestValidateConfig_RootDirectoryValid(t *testing.T) {
	t.Parallel()

	cfg := validJobConfig(t, t.TempDir())

	result := ValidateConfig(cfg)
	errs := errorsWithField(result, "root_directory")
	assert.Empty(t, errs)
}

// ── ValidateConfig: glob patterns ─────────────────────────────────────────────

func TestValidateConfig_InvalidGlobPattern(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	cfg := validJobConfig(t, tmp)
	cfg.Filter.ExcludePatterns = []string{"[invalid"}

	result := ValidateConfig(cfg)
	errs := errorsWithField(result, "target_settings.exclude_patterns")
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0].Message, "[invalid")
	assert.Contains(t, errs[0].Field, "[0]")
}

func TestValidateConfig_ValidDoubleStarPatterns(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	cfg := validJobConfig(t, tmp)
	cfg.Filter.ExcludePatterns = []string{"**/*.go", "src/**", "*.{ts,tsx}"}

	result := ValidateConfig(cfg)
	errs := errorsWithField(result, "target_settings.exclude_patterns")
	assert.Empty(t, errs)
}

func TestValidateConfig_UnicodeGlobPattern(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	cfg := validJobConfig(t, tmp)
	cfg.Filter.ExcludePatterns = []string{"**/*.résumé", "données/**"}

	result := ValidateConfig(cfg)
	errs := errorsWithField(result, "target_settings.exclude_patterns")
	assert.Empty(t, errs, "unicode glob patterns must not produce errors")
}

// ── ValidateConfig: accumulates across categories ─────────────────────────────

func TestValidateConfig_AccumulatesAcrossCategories(t *testing.T) {
	t.Parallel()

	cfg := pipeline.JobConfig{
		RootDirectory: filepath.Join(t.TempDir(), "missing"),
		Filter: pipeline.FilterConfig{
			MaxFileSize:     0,
			ExcludePatterns: []string{"[bad"},
		},
		Rules: pipeline.Ruleset{
			{ID: "r1", Find: "", Replace: "x", Enabled: true},
		},
	}

	result := ValidateConfig(cfg)

	assert.NotEmpty(t, errorsWithField(result, "root_directory"))
	assert.NotEmpty(t, errorsWithField(result, "target_settings.max_file_size"))
	assert.NotEmpty(t, errorsWithField(result, "target_settings.exclude_patterns"))
	assert.NotEmpty(t, errorsWithField(result, "replacements[0]"))
}

func TestValidateConfig_DeterministicAcrossRuns(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	cfg := validJobConfig(t, tmp)
	cfg.Rules = pipeline.Ruleset{
		{ID: "dup", Find: "", Replace: "x", Enabled: true},
		{ID: "dup", Find: "y", Replace: "z", Enabled: true},
	}

	baseline := ValidateConfig(cfg)
	for i := 0; i < 9; i++ {
		got := ValidateConfig(cfg)
		assert.Equal(t, baseline, got, "ValidateConfig must be deterministic (run %d)", i+2)
	}
}
