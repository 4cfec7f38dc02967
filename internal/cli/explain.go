package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/resub/resub/internal/config"
)

// explainCmd shows how the configured filter would classify a specific file.
var explainCmd = &cobra.Command{
	Use:   "explain <filepath>",
	Short: "Show how the configured filter classifies a file",
	Long: `Simulate the discovery pipeline for a given file path and show the full
evaluation trace: which gitignore/local-ignore rules, git-tracked-only check,
and path filter (hidden/exclude-pattern/extension/size) apply.

The command is informational only -- it does not discover or modify any
files beyond the one(s) named.

Pass a glob pattern (e.g. "src/**/*.ts") to explain multiple matching files.`,
	Args: cobra.ExactArgs(1),
	RunE: runExplain,
}

func init() {
	rootCmd.AddCommand(explainCmd)
}

// runExplain implements `resub explain <filepath>`.
func runExplain(cmd *cobra.Command, args []string) error {
	filePath := args[0]
	out := cmd.OutOrStdout()

	fv := GlobalFlags()
	job, err := buildJobConfig(fv)
	if err != nil {
		return fmt.Errorf("loading rules file: %w", err)
	}

	isGlob := strings.ContainsAny(filePath, "*?[{")

	if isGlob {
		matches, err := doublestar.Glob(os.DirFS(job.RootDirectory), filePath, doublestar.WithFilesOnly())
		if err != nil {
			return fmt.Errorf("expanding glob %q: %w", filePath, err)
		}
		if len(matches) == 0 {
			fmt.Fprintf(out, "No files matched glob pattern %q\n", filePath)
			return nil
		}
		for i, match := range matches {
			if i > 0 {
				fmt.Fprintln(out)
				fmt.Fprintln(out, strings.Repeat("-", 60))
				fmt.Fprintln(out)
			}
			result := config.ExplainFile(match, "active", job.Filter, job.RootDirectory)
			printExplainResult(out, result)
		}
		return nil
	}

	result := config.ExplainFile(filePath, "active", job.Filter, job.RootDirectory)
	printExplainResult(out, result)
	return nil
}

// printExplainResult formats and writes a single ExplainResult to w.
func printExplainResult(w io.Writer, result config.ExplainResult) {
	fmt.Fprintf(w, "Explaining: %s\n", result.FilePath)
	fmt.Fprintln(w)

	if result.Included {
		fmt.Fprintf(w, "  Status: INCLUDED\n")
	} else {
		fmt.Fprintf(w, "  Status:      EXCLUDED\n")
		fmt.Fprintf(w, "  Excluded by: %s\n", result.ExcludedBy)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Evaluation trace:")
	for _, step := range result.Trace {
		fmt.Fprintf(w, "  %d. %s: %s\n", step.StepNum, step.Rule, step.Outcome)
	}
}
