// Package cli implements the Cobra command hierarchy for the resub CLI tool.
// This file implements `resub serve-mcp`, which exposes the same job
// execution, preview, and validation logic the other subcommands drive as
// MCP tools, so an AI coding agent can call resub directly instead of
// shelling out to the CLI.
package cli

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/resub/resub/internal/buildinfo"
	"github.com/resub/resub/internal/config"
	"github.com/resub/resub/internal/pipeline"
	"github.com/resub/resub/internal/preview"
	"github.com/resub/resub/internal/scheduler"
)

// serveMCPCmd implements `resub serve-mcp`, which starts an MCP server on
// stdio exposing start_job, preview, and validate_config as tools.
var serveMCPCmd = &cobra.Command{
	Use:   "serve-mcp",
	Short: "Serve resub's job, preview, and validate operations as MCP tools",
	Long: `Serve-mcp starts an MCP server communicating over stdio, exposing three
tools: start_job (runs a find/replace job), preview (projects changes without
writing to disk), and validate_config (checks rules and filters for
problems). Each tool takes the same root directory, filter, and rule inputs
as the corresponding CLI subcommand.

This is meant to be launched by an MCP-aware client (an editor, an agent
harness), not run interactively.`,
	RunE: runServeMCP,
}

func init() {
	rootCmd.AddCommand(serveMCPCmd)
}

func runServeMCP(cmd *cobra.Command, _ []string) error {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "resub",
		Version: buildinfo.Version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "start_job",
		Description: "Run a find/replace job across a directory tree and report the resulting statistics.",
	}, handleStartJob)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "preview",
		Description: "Project the changes a job would make, over an importance-ranked file sample, without writing to disk.",
	}, handlePreview)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "validate_config",
		Description: "Check a job's rules and filters for problems without discovering or touching any files.",
	}, handleValidateConfig)

	return server.Run(cmd.Context(), &mcp.StdioTransport{})
}

// mcpRule mirrors pipeline.Rule with JSON tags suited to an MCP tool's
// generated input schema.
type mcpRule struct {
	ID            string `json:"id"`
	Find          string `json:"find"`
	Replace       string `json:"replace"`
	Enabled       bool   `json:"enabled"`
	CaseSensitive bool   `json:"case_sensitive"`
	WholeWord     bool   `json:"whole_word"`
}

// mcpFilter mirrors pipeline.FilterConfig for MCP tool inputs.
type mcpFilter struct {
	Extensions         []string `json:"extensions,omitempty"`
	ExcludePatterns    []string `json:"exclude_patterns,omitempty"`
	MaxFileSize        int64    `json:"max_file_size,omitempty"`
	MaxDepth           int      `json:"max_depth,omitempty"`
	IncludeHidden      bool     `json:"include_hidden,omitempty"`
	RespectGitignore   bool     `json:"respect_gitignore,omitempty"`
	RespectLocalIgnore bool     `json:"respect_local_ignore,omitempty"`
	GitTrackedOnly     bool     `json:"git_tracked_only,omitempty"`
}

// jobConfigInput is the shared input shape for all three tools: the
// directory to operate on, the rules to apply, and the filter settings
// restricting which files are candidates.
type jobConfigInput struct {
	RootDirectory string    `json:"root_directory"`
	Rules         []mcpRule `json:"rules"`
	Filter        mcpFilter `json:"filter,omitempty"`
	Concurrency   int       `json:"concurrency,omitempty"`
}

func (in jobConfigInput) toJobConfig(dryRun bool) pipeline.JobConfig {
	rules := make(pipeline.Ruleset, 0, len(in.Rules))
	for _, r := range in.Rules {
		rules = append(rules, pipeline.Rule{
			ID:            r.ID,
			Find:          r.Find,
			Replace:       r.Replace,
			Enabled:       r.Enabled,
			CaseSensitive: r.CaseSensitive,
			WholeWord:     r.WholeWord,
		})
	}

	maxFileSize := in.Filter.MaxFileSize
	if maxFileSize <= 0 {
		maxFileSize = config.DefaultProfile().MaxFileSize
	}

	return pipeline.JobConfig{
		RootDirectory: in.RootDirectory,
		Rules:         rules,
		Filter: pipeline.FilterConfig{
			Extensions:         in.Filter.Extensions,
			ExcludePatterns:    in.Filter.ExcludePatterns,
			MaxFileSize:        maxFileSize,
			MaxDepth:           in.Filter.MaxDepth,
			IncludeHidden:      in.Filter.IncludeHidden,
			RespectGitignore:   in.Filter.RespectGitignore,
			RespectLocalIgnore: in.Filter.RespectLocalIgnore,
			GitTrackedOnly:     in.Filter.GitTrackedOnly,
		},
		Options: pipeline.JobOptions{
			DryRun:      dryRun,
			Concurrency: in.Concurrency,
			Encoding:    "utf-8",
		},
	}
}

// startJobInput additionally allows requesting a dry run through the same
// job shape used by validate_config and preview.
type startJobInput struct {
	jobConfigInput
	DryRun bool `json:"dry_run,omitempty"`
}

type startJobOutput struct {
	TotalFiles        int    `json:"total_files"`
	ProcessedFiles    int    `json:"processed_files"`
	ModifiedFiles     int    `json:"modified_files"`
	TotalReplacements int    `json:"total_replacements"`
	Errors            int    `json:"errors"`
	DryRun            bool   `json:"dry_run"`
	Summary           string `json:"summary"`
}

func handleStartJob(ctx context.Context, _ *mcp.CallToolRequest, in startJobInput) (*mcp.CallToolResult, startJobOutput, error) {
	job := in.jobConfigInput.toJobConfig(in.DryRun)

	sched := scheduler.New()
	stats, err := sched.Run(ctx, job, pipeline.NopObserver)
	if err != nil {
		return nil, startJobOutput{}, fmt.Errorf("running job: %w", err)
	}

	out := startJobOutput{
		TotalFiles:        stats.TotalFiles,
		ProcessedFiles:    stats.ProcessedFiles,
		ModifiedFiles:     stats.ModifiedFiles,
		TotalReplacements: stats.TotalReplacements,
		Errors:            stats.Errors,
		DryRun:            in.DryRun,
	}
	if in.DryRun {
		out.Summary = fmt.Sprintf("dry run: would modify %d of %d files (%d replacements)", out.ModifiedFiles, out.TotalFiles, out.TotalReplacements)
	} else {
		out.Summary = fmt.Sprintf("modified %d of %d files (%d replacements, %d errors)", out.ModifiedFiles, out.TotalFiles, out.TotalReplacements, out.Errors)
	}
	return nil, out, nil
}

type previewInput struct {
	jobConfigInput
	MaxFiles int `json:"max_files,omitempty"`
}

type previewOutput struct {
	FilesSampled    int            `json:"files_sampled"`
	FilesSkipped    int            `json:"files_skipped"`
	Risk            string         `json:"risk"`
	Recommendations []string       `json:"recommendations,omitempty"`
	Report          preview.Report `json:"report"`
}

func handlePreview(ctx context.Context, _ *mcp.CallToolRequest, in previewInput) (*mcp.CallToolResult, previewOutput, error) {
	job := in.jobConfigInput.toJobConfig(true)

	builder := preview.New()
	report, err := builder.Preview(ctx, job, preview.Limits{MaxFiles: in.MaxFiles})
	if err != nil {
		return nil, previewOutput{}, fmt.Errorf("running preview: %w", err)
	}

	return nil, previewOutput{
		FilesSampled:    report.FilesSampled,
		FilesSkipped:    report.FilesSkipped,
		Risk:            string(report.Risk),
		Recommendations: report.Recommendations,
		Report:          report,
	}, nil
}

type validateConfigOutput struct {
	Valid  bool                  `json:"valid"`
	Issues []validateConfigIssue `json:"issues,omitempty"`
}

type validateConfigIssue struct {
	Severity string `json:"severity"`
	Field    string `json:"field"`
	Message  string `json:"message"`
	Suggest  string `json:"suggest,omitempty"`
}

func handleValidateConfig(_ context.Context, _ *mcp.CallToolRequest, in jobConfigInput) (*mcp.CallToolResult, validateConfigOutput, error) {
	job := in.toJobConfig(true)

	issues := config.ValidateConfig(job)
	out := validateConfigOutput{Valid: len(issues) == 0}
	for _, issue := range issues {
		out.Issues = append(out.Issues, validateConfigIssue{
			Severity: issue.Severity,
			Field:    issue.Field,
			Message:  issue.Message,
			Suggest:  issue.Suggest,
		})
	}
	return nil, out, nil
}
