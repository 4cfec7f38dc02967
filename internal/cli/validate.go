package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/resub/resub/internal/config"
	"github.com/resub/resub/internal/pipeline"
)

var validateJSON bool

// validateCmd implements `resub validate`, which checks the configured Job
// for the error classes config.ValidateConfig knows how to detect: empty
// find strings, duplicate rule ids, out-of-range max_file_size, malformed
// exclude globs, and an unreadable root directory.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configured job without running it",
	Long: `Validate checks the currently configured rules and filters for problems
without discovering or touching any files: empty find strings in enabled
rules, duplicate rule ids, an out-of-range max_file_size, malformed exclude
glob patterns, and an unreadable root directory.

Exits non-zero if any validation errors are found.`,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "output validation results as JSON")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	fv := GlobalFlags()

	job, err := buildJobConfig(fv)
	if err != nil {
		return fmt.Errorf("loading rules file: %w", err)
	}

	issues := config.ValidateConfig(job)

	out := cmd.OutOrStdout()
	if validateJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(issues); err != nil {
			return err
		}
	} else if len(issues) == 0 {
		fmt.Fprintln(out, "no issues found")
	} else {
		for _, issue := range issues {
			fmt.Fprintf(out, "%s: %s: %s\n", issue.Severity, issue.Field, issue.Message)
			if issue.Suggest != "" {
				fmt.Fprintf(out, "  suggestion: %s\n", issue.Suggest)
			}
		}
	}

	if len(issues) > 0 {
		return pipeline.NewError(fmt.Sprintf("%d validation issue(s) found", len(issues)), nil)
	}
	return nil
}
