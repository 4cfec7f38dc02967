package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/resub/resub/internal/pipeline"
)

// jobConfigFile mirrors the on-disk JSON ruleset format (spec.md §6). Only
// the replacements and target_settings substructures are meaningful to the
// core; app_info, replacement_settings, ui_settings, and advanced_settings
// are accepted and ignored so a file produced by a GUI front-end for this
// format loads without complaint.
type jobConfigFile struct {
	AppInfo             json.RawMessage `json:"app_info,omitempty"`
	Replacements        []jobConfigRule `json:"replacements"`
	TargetSettings      jobConfigTarget `json:"target_settings"`
	ReplacementSettings json.RawMessage `json:"replacement_settings,omitempty"`
	UISettings          json.RawMessage `json:"ui_settings,omitempty"`
	AdvancedSettings    json.RawMessage `json:"advanced_settings,omitempty"`
}

// jobConfigRule is one entry of the JSON file's "replacements" array.
type jobConfigRule struct {
	ID            string `json:"id"`
	From          string `json:"from"`
	To            string `json:"to"`
	Enabled       bool   `json:"enabled"`
	CaseSensitive bool   `json:"caseSensitive"`
	WholeWord     bool   `json:"wholeWord"`
	Description   string `json:"description,omitempty"`
}

// jobConfigTarget is the JSON file's "target_settings" object.
//
// IncludeSubdirectories is a *bool rather than a bool so LoadRulesFile can
// tell "the file didn't mention this setting" (nil) apart from "the file
// explicitly set it to false" (non-nil, false) -- both unmarshal a plain
// bool to its zero value, which would otherwise make every rules file
// without target_settings silently restrict discovery to the root
// directory's direct children.
type jobConfigTarget struct {
	FileExtensions        []string `json:"file_extensions"`
	ExcludePatterns       []string `json:"exclude_patterns"`
	IncludeSubdirectories *bool    `json:"include_subdirectories"`
	MaxFileSize           int64    `json:"max_file_size"`
	Encoding              string   `json:"encoding"`
}

// LoadRulesFile reads and parses a JSON job configuration file (the
// "Ruleset / JobConfig files" format of spec.md §6) at path, returning the
// Ruleset and the filter fields it carries. Unknown top-level keys
// (app_info, replacement_settings, ui_settings, advanced_settings) are
// accepted and discarded; the core only consumes replacements and
// target_settings.
func LoadRulesFile(path string) (pipeline.Ruleset, pipeline.FilterConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, pipeline.FilterConfig{}, fmt.Errorf("read rules file %s: %w", path, err)
	}

	var raw jobConfigFile
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, pipeline.FilterConfig{}, fmt.Errorf("parse rules file %s: %w", path, err)
	}

	rules := make(pipeline.Ruleset, 0, len(raw.Replacements))
	for _, r := range raw.Replacements {
		rules = append(rules, pipeline.Rule{
			ID:            r.ID,
			Find:          r.From,
			Replace:       r.To,
			Enabled:       r.Enabled,
			CaseSensitive: r.CaseSensitive,
			WholeWord:     r.WholeWord,
		})
	}

	filter := pipeline.FilterConfig{
		Extensions:      dottedExtensions(raw.TargetSettings.FileExtensions),
		ExcludePatterns: raw.TargetSettings.ExcludePatterns,
		MaxFileSize:     raw.TargetSettings.MaxFileSize,
		// -1 means the file didn't express an opinion on depth; the caller
		// must leave its own default/flag value in place rather than
		// treating this as an explicit 0. See buildJobConfig.
		MaxDepth: -1,
	}

	// A false include_subdirectories has no MaxDepth equivalent expressible
	// without changing the Walker's contract (spec.md's MaxDepth counts
	// levels, not an on/off switch); the closest honest mapping is depth 0,
	// restricting discovery to the root directory's direct children. A true
	// or absent include_subdirectories leaves MaxDepth at the -1 sentinel.
	if raw.TargetSettings.IncludeSubdirectories != nil && !*raw.TargetSettings.IncludeSubdirectories {
		filter.MaxDepth = 0
	}

	return rules, filter, nil
}

// dottedExtensions normalizes a list of file extensions to the leading-dot
// form, tolerating input with or without a leading dot. Case is left as
// given; pathfilter.New lowercases extensions when it builds its matcher.
func dottedExtensions(exts []string) []string {
	if len(exts) == 0 {
		return nil
	}
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		if e == "" {
			continue
		}
		if e[0] != '.' {
			e = "." + e
		}
		out = append(out, e)
	}
	return out
}
