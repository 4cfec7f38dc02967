package config

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ShowOptions controls the rendering of a resolved profile.
type ShowOptions struct {
	// Profile is the fully merged profile to display.
	Profile *Profile

	// Sources maps flat field names to their origin layer.
	Sources SourceMap

	// ProfileName is the name of the profile being displayed.
	ProfileName string

	// Chain is the inheritance chain in resolution order, e.g. ["strict", "default"].
	Chain []string
}

// ShowProfile renders a resolved profile as annotated TOML. Each field is
// printed with an inline comment indicating which configuration layer
// provided its value. The output is human-readable and approximately valid
// TOML (inline comments are not part of the TOML spec but are widely
// supported by editors and tooling).
//
// The Chain parameter should come from ProfileResolution.Chain.
func ShowProfile(opts ShowOptions) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Resolved profile: %s\n", opts.ProfileName)
	if len(opts.Chain) > 1 {
		fmt.Fprintf(&b, "# Inheritance chain: %s\n", strings.Join(opts.Chain, " -> "))
	}
	fmt.Fprintf(&b, "\n")

	p := opts.Profile
	src := opts.Sources

	writeStringField(&b, "root_directory", p.RootDirectory, sourceLabel(src, "root_directory"))
	if p.RulesFile != "" {
		writeStringField(&b, "rules_file", p.RulesFile, sourceLabel(src, "rules_file"))
	}
	writeInt64Field(&b, "max_file_size", p.MaxFileSize, sourceLabel(src, "max_file_size"))
	writeIntField(&b, "max_depth", p.MaxDepth, sourceLabel(src, "max_depth"))
	writeIntField(&b, "concurrency", p.Concurrency, sourceLabel(src, "concurrency"))
	writeIntField(&b, "progress_interval_ms", p.ProgressIntervalMs, sourceLabel(src, "progress_interval_ms"))
	writeIntField(&b, "queue_depth", p.QueueDepth, sourceLabel(src, "queue_depth"))

	writeBoolField(&b, "include_hidden", p.IncludeHidden, sourceLabel(src, "include_hidden"))
	writeBoolField(&b, "respect_gitignore", p.RespectGitignore, sourceLabel(src, "respect_gitignore"))
	writeBoolField(&b, "respect_local_ignore", p.RespectLocalIgnore, sourceLabel(src, "respect_local_ignore"))
	writeBoolField(&b, "git_tracked_only", p.GitTrackedOnly, sourceLabel(src, "git_tracked_only"))
	writeBoolField(&b, "dry_run", p.DryRun, sourceLabel(src, "dry_run"))
	writeBoolField(&b, "create_backup", p.CreateBackup, sourceLabel(src, "create_backup"))

	if len(p.Extensions) > 0 {
		writeStringSliceField(&b, "extensions", p.Extensions, sourceLabel(src, "extensions"))
	}
	writeStringSliceField(&b, "exclude_patterns", p.ExcludePatterns, sourceLabel(src, "exclude_patterns"))

	return b.String()
}

// ShowProfileJSON serializes the resolved profile to indented JSON. It returns
// the JSON bytes as a string. An error is returned only if marshalling fails,
// which should not happen for well-formed Profile values.
func ShowProfileJSON(p *Profile) (string, error) {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal profile to JSON: %w", err)
	}
	return string(data), nil
}

// sourceLabel returns the Source.String() for a given flat key, defaulting to
// "default" when the key is absent from the SourceMap.
func sourceLabel(src SourceMap, key string) string {
	if s, ok := src[key]; ok {
		return s.String()
	}
	return "default"
}

// writeStringField writes a TOML string assignment with an inline source comment.
func writeStringField(b *strings.Builder, key, value, source string) {
	escaped := strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(value)
	fmt.Fprintf(b, "%-24s = %-30s # %s\n", key, `"`+escaped+`"`, source)
}

// writeIntField writes a TOML integer assignment with an inline source comment.
func writeIntField(b *strings.Builder, key string, value int, source string) {
	fmt.Fprintf(b, "%-24s = %-30d # %s\n", key, value, source)
}

// writeInt64Field writes a TOML integer assignment with an inline source comment.
func writeInt64Field(b *strings.Builder, key string, value int64, source string) {
	fmt.Fprintf(b, "%-24s = %-30d # %s\n", key, value, source)
}

// writeBoolField writes a TOML boolean assignment with an inline source comment.
func writeBoolField(b *strings.Builder, key string, value bool, source string) {
	boolStr := "false"
	if value {
		boolStr = "true"
	}
	fmt.Fprintf(b, "%-24s = %-30s # %s\n", key, boolStr, source)
}

// writeStringSliceField writes a multi-line TOML array with an inline source
// comment on the opening bracket line.
func writeStringSliceField(b *strings.Builder, key string, values []string, source string) {
	if len(values) == 0 {
		fmt.Fprintf(b, "%-24s = []%-27s # %s\n", key, "", source)
		return
	}

	fmt.Fprintf(b, "%-24s = [%-29s # %s\n", key, "", source)
	for _, v := range values {
		fmt.Fprintf(b, "  %q,\n", v)
	}
	b.WriteString("]\n")
}
