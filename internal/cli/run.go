// Package cli implements the Cobra command hierarchy for the resub CLI tool.
// This file implements `resub run` (and the root command's default action),
// which executes a complete Job via the scheduler and reports progress as it
// goes.
package cli

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/resub/resub/internal/pipeline"
	"github.com/resub/resub/internal/scheduler"
)

var noTUI bool

// runCmd is the explicit `resub run` subcommand. Running `resub` with no
// subcommand is equivalent (see root.go's RunE).
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a find/replace job across a directory tree",
	Long: `Run walks the configured root directory, applies path and extension
filtering, and applies every enabled rule to each matching file, writing the
results to disk unless --dry-run is set.`,
	RunE: runRun,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&noTUI, "no-tui", false, "disable the interactive progress display and log plain progress lines instead")
	rootCmd.AddCommand(runCmd)
}

// runRun executes a Job built from the global flags (and, if --rules is set,
// the JSON rules file it points at) and prints a summary of the result.
func runRun(cmd *cobra.Command, _ []string) error {
	fv := GlobalFlags()

	job, err := buildJobConfig(fv)
	if err != nil {
		return pipeline.NewError("loading rules file", err)
	}

	out := cmd.OutOrStdout()
	useTUI := !noTUI && !fv.Quiet && isatty.IsTerminal(os.Stdout.Fd())

	sched := scheduler.New()

	var stats pipeline.JobStats
	if useTUI {
		stats, err = runWithProgressTUI(cmd.Context(), sched, job)
	} else {
		observer := plainObserver(out, fv.Quiet)
		stats, err = sched.Run(cmd.Context(), job, observer)
	}
	if err != nil {
		return err
	}

	printJobSummary(out, stats)
	return nil
}

// plainObserver renders Job events as single log lines, suitable for
// non-interactive terminals, CI logs, and --no-tui runs. When quiet is true
// only EventError is surfaced.
func plainObserver(out interface{ Write([]byte) (int, error) }, quiet bool) pipeline.ObserverCallback {
	return func(ev pipeline.Event) {
		switch ev.Kind {
		case pipeline.EventProgress:
			if quiet {
				return
			}
			p := ev.Progress
			fmt.Fprintf(out, "[%s] %d/%d files, %d modified, %d replacements (%s)\n",
				p.Phase, p.ProcessedFiles, p.TotalFiles, p.ModifiedFiles, p.TotalReplacements, p.CurrentPath)
		case pipeline.EventFileResult:
			if quiet {
				return
			}
			r := ev.FileResult
			if r.Status == pipeline.StatusModified {
				fmt.Fprintf(out, "modified %s (%d replacements)\n", r.Path, r.TotalReplacements)
			}
		case pipeline.EventWarning:
			if quiet {
				return
			}
			fmt.Fprintf(out, "warning: %s\n", ev.Warning)
		case pipeline.EventError:
			fmt.Fprintf(out, "error: %s\n", ev.Err)
		}
	}
}

// printJobSummary prints the final JobStats after a Job completes.
func printJobSummary(out interface{ Write([]byte) (int, error) }, stats pipeline.JobStats) {
	duration := stats.EndedAt.Sub(stats.StartedAt)
	fmt.Fprintf(out, "\nDone in %s: %d files processed, %d modified, %d replacements, %d errors\n",
		duration.Round(1e6), stats.ProcessedFiles, stats.ModifiedFiles, stats.TotalReplacements, stats.Errors)
}
