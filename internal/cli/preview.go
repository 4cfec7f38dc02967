// Package cli implements the Cobra command hierarchy for the resub CLI tool.
// This file implements the `resub preview` subcommand, which projects what a
// real Job would change without writing anything to disk.
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/resub/resub/internal/preview"
)

var (
	previewJSON     bool
	previewMaxFiles int
	previewTop      int
)

// previewCmd implements `resub preview`, which samples candidate files sorted
// by importance, runs every enabled rule against them, and reports projected
// changes and a risk assessment -- without writing anything to disk.
var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Preview projected changes without writing to disk",
	Long: `Preview runs the same rule-matching logic a real job would use over a
bounded, importance-ranked sample of candidate files, and reports what would
change: per-file match counts with surrounding context, per-rule effectiveness,
and an overall risk assessment with recommendations.

Nothing is written to disk.`,
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().BoolVar(&previewJSON, "json", false, "output the report as JSON")
	previewCmd.Flags().IntVar(&previewMaxFiles, "max-files", 50, "maximum number of files to sample")
	previewCmd.Flags().IntVar(&previewTop, "top-files", 10, "number of files to print in the human-readable report")
	rootCmd.AddCommand(previewCmd)
}

func runPreview(cmd *cobra.Command, _ []string) error {
	fv := GlobalFlags()

	job, err := buildJobConfig(fv)
	if err != nil {
		return fmt.Errorf("loading rules file: %w", err)
	}

	builder := preview.New()
	report, err := builder.Preview(cmd.Context(), job, preview.Limits{MaxFiles: previewMaxFiles})
	if err != nil {
		return fmt.Errorf("running preview: %w", err)
	}

	out := cmd.OutOrStdout()
	if previewJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	formatPreviewReport(out, report, previewTop)
	return nil
}

// formatPreviewReport renders a preview.Report as plain text, showing up to
// topFiles individual file reports and every rule's aggregate effect.
func formatPreviewReport(out io.Writer, report preview.Report, topFiles int) {
	fmt.Fprintf(out, "Sampled %d files (%d skipped)\n\n", report.FilesSampled, report.FilesSkipped)

	fmt.Fprintln(out, "Rules:")
	for _, r := range report.Rules {
		fmt.Fprintf(out, "  %s: %d changes across %d files (%s)\n", r.RuleID, r.TotalChanges, r.FilesAffected, r.Effectiveness)
		for _, w := range r.Warnings {
			fmt.Fprintf(out, "    warning: %s\n", w)
		}
	}

	fmt.Fprintln(out)
	shown := report.Files
	if len(shown) > topFiles {
		shown = shown[:topFiles]
	}
	fmt.Fprintf(out, "Files with changes (showing %d of %d):\n", len(shown), len(report.Files))
	for _, f := range shown {
		fmt.Fprintf(out, "  %s: %d changes (%s importance)\n", f.Path, f.TotalChanges, f.Importance)
		for _, m := range f.Matches {
			fmt.Fprintf(out, "    line %d, col %d: %q -> %q\n", m.Line, m.Column, m.MatchedText, m.Replacement)
		}
	}

	fmt.Fprintf(out, "\nRisk: %s\n", report.Risk)
	for _, rec := range report.Recommendations {
		fmt.Fprintf(out, "  - %s\n", rec)
	}
}
