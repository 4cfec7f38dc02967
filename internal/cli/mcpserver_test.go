package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestServeMCPCmd_Registered(t *testing.T) {
	t.Parallel()

	found := false
	for _, c := range rootCmd.Commands() {
		if c.Name() == "serve-mcp" {
			found = true
		}
	}
	assert.True(t, found, "serve-mcp must be registered on the root command")
}

func basicMCPJobInput(dir string) jobConfigInput {
	return jobConfigInput{
		RootDirectory: dir,
		Rules: []mcpRule{
			{ID: "r1", Find: "foo", Replace: "bar", Enabled: true},
		},
		Filter: mcpFilter{
			Extensions: []string{".txt"},
		},
	}
}

func TestHandleStartJob_DryRunReportsNoErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTestFile(t, dir, "a.txt", "foo foo\n")

	in := startJobInput{jobConfigInput: basicMCPJobInput(dir), DryRun: true}
	_, out, err := handleStartJob(context.Background(), nil, in)

	require.NoError(t, err)
	assert.True(t, out.DryRun)
	assert.Equal(t, 1, out.TotalFiles)
	assert.Equal(t, 1, out.ModifiedFiles)
	assert.Equal(t, 2, out.TotalReplacements)
	assert.Equal(t, 0, out.Errors)

	// Dry run must not have touched the file.
	content, readErr := os.ReadFile(filepath.Join(dir, "a.txt"))
	require.NoError(t, readErr)
	assert.Equal(t, "foo foo\n", string(content))
}

func TestHandleStartJob_RealRunModifiesFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTestFile(t, dir, "a.txt", "foo foo\n")

	in := startJobInput{jobConfigInput: basicMCPJobInput(dir)}
	_, out, err := handleStartJob(context.Background(), nil, in)

	require.NoError(t, err)
	assert.False(t, out.DryRun)
	assert.Equal(t, 1, out.ModifiedFiles)

	content, readErr := os.ReadFile(filepath.Join(dir, "a.txt"))
	require.NoError(t, readErr)
	assert.Equal(t, "bar bar\n", string(content))
}

func TestHandlePreview_ReturnsProjectedChanges(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTestFile(t, dir, "a.txt", "foo bar\n")

	in := previewInput{jobConfigInput: basicMCPJobInput(dir)}
	_, out, err := handlePreview(context.Background(), nil, in)

	require.NoError(t, err)
	assert.Equal(t, 1, out.FilesSampled)
	require.Len(t, out.Report.Files, 1)
	assert.Equal(t, "a.txt", out.Report.Files[0].Path)

	// Preview must never write.
	content, readErr := os.ReadFile(filepath.Join(dir, "a.txt"))
	require.NoError(t, readErr)
	assert.Equal(t, "foo bar\n", string(content))
}

func TestHandleValidateConfig_ReportsEmptyFindAsIssue(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := jobConfigInput{
		RootDirectory: dir,
		Rules: []mcpRule{
			{ID: "broken", Find: "", Enabled: true},
		},
	}

	_, out, err := handleValidateConfig(context.Background(), nil, in)

	require.NoError(t, err)
	assert.False(t, out.Valid)
	require.NotEmpty(t, out.Issues)
}

func TestHandleValidateConfig_CleanConfigIsValid(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := basicMCPJobInput(dir)

	_, out, err := handleValidateConfig(context.Background(), nil, in)

	require.NoError(t, err)
	assert.True(t, out.Valid)
	assert.Empty(t, out.Issues)
}
