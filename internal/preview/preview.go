// Package preview implements the non-mutating PreviewBuilder described in
// spec.md §4.6: it replays the same RuleEngine logic a real Job would use,
// over a bounded, importance-sorted sample of files, and reports projected
// changes plus a risk assessment -- without writing anything to disk.
package preview

import (
	"context"
	"fmt"
	"os"
	"sort"
	"unicode/utf8"

	"github.com/resub/resub/internal/importance"
	"github.com/resub/resub/internal/pathfilter"
	"github.com/resub/resub/internal/pipeline"
	"github.com/resub/resub/internal/ruleengine"
	"github.com/resub/resub/internal/walker"
)

// Limits bounds the size of a PreviewReport.
type Limits struct {
	// MaxFiles caps the number of files sampled, ranked by descending
	// importance. Zero resolves to 50.
	MaxFiles int

	// MaxChangesPerFile caps the number of match records kept per file.
	// Zero resolves to 10.
	MaxChangesPerFile int

	// ContextLines is the number of lines of surrounding context captured
	// around each flagged match line. Zero resolves to 2.
	ContextLines int
}

func (l Limits) resolve() Limits {
	if l.MaxFiles <= 0 {
		l.MaxFiles = 50
	}
	if l.MaxChangesPerFile <= 0 {
		l.MaxChangesPerFile = 10
	}
	if l.ContextLines <= 0 {
		l.ContextLines = 2
	}
	return l
}

// Effectiveness qualitatively classifies how much a rule actually changed.
type Effectiveness string

const (
	EffectivenessNone   Effectiveness = "none"
	EffectivenessLow    Effectiveness = "low"
	EffectivenessMedium Effectiveness = "medium"
	EffectivenessHigh   Effectiveness = "high"
)

// RiskLevel qualifies the overall risk of applying a job for real.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// MatchRecord is a single flagged match with surrounding context, ready for
// display.
type MatchRecord struct {
	RuleID      string
	Line        int
	Column      int
	MatchedText string
	Replacement string
	ContextPre  []string
	TargetLine  string
	ContextPost []string
}

// FileReport is a single sampled file's projected changes.
type FileReport struct {
	Path              string
	Importance        importance.Level
	TotalChanges      int
	PerRuleCounts     map[string]int
	Matches           []MatchRecord
	ProjectedSizeDelta int64
}

// RuleReport aggregates one rule's effect across every sampled file.
type RuleReport struct {
	RuleID        string
	TotalChanges  int
	FilesAffected int
	Effectiveness Effectiveness
	Warnings      []string
}

// Report is the complete output of a preview run.
type Report struct {
	Files           []FileReport
	Rules           []RuleReport
	FilesSampled    int
	FilesSkipped    int
	Risk            RiskLevel
	Recommendations []string
}

// Builder runs previews. It holds no job-specific state and is safe to
// reuse across calls.
type Builder struct {
	matcher *importance.Matcher
}

// New creates a Builder using the built-in importance definitions.
func New() *Builder {
	return &Builder{matcher: importance.NewMatcher(importance.DefaultDefinitions())}
}

// Preview discovers candidate files the same way a real Job's Walker would,
// samples up to limits.MaxFiles of them sorted by descending importance,
// and runs ruleengine.FindMatches/Apply over each to project its changes.
// It never writes to disk.
func (b *Builder) Preview(ctx context.Context, job pipeline.JobConfig, limits Limits) (Report, error) {
	limits = limits.resolve()

	ignorer, gitTracked, err := pathfilter.BuildIgnorer(job.RootDirectory, job.Filter)
	if err != nil {
		return Report{}, err
	}

	w := walker.New()
	candidates, _ := w.Walk(ctx, walker.Config{
		Root:           job.RootDirectory,
		Filter:         pathfilter.New(job.Filter),
		Ignorer:        ignorer,
		GitTrackedOnly: job.Filter.GitTrackedOnly,
		GitTracked:     gitTracked,
		QueueDepth:     64,
	})

	type ranked struct {
		fd    pipeline.FileDescriptor
		level importance.Level
	}
	var all []ranked
	for fd := range candidates {
		all = append(all, ranked{fd: fd, level: b.matcher.Match(fd.Path)})
	}

	sort.SliceStable(all, func(i, j int) bool { return all[i].level < all[j].level })

	report := Report{FilesSampled: 0}
	if len(all) > limits.MaxFiles {
		report.FilesSkipped = len(all) - limits.MaxFiles
		all = all[:limits.MaxFiles]
	}

	ruleAgg := make(map[string]*RuleReport)
	for _, r := range job.Rules.Enabled() {
		ruleAgg[r.ID] = &RuleReport{RuleID: r.ID}
	}

	for _, item := range all {
		select {
		case <-ctx.Done():
			return report, ctx.Err()
		default:
		}

		fr, err := b.previewFile(item.fd, job.Rules, limits)
		if err != nil {
			continue // unreadable files are silently excluded from the sample, not fatal
		}
		fr.Importance = item.level
		report.FilesSampled++

		if fr.TotalChanges > 0 {
			report.Files = append(report.Files, fr)
			for id, n := range fr.PerRuleCounts {
				agg, ok := ruleAgg[id]
				if !ok {
					agg = &RuleReport{RuleID: id}
					ruleAgg[id] = agg
				}
				agg.TotalChanges += n
				if n > 0 {
					agg.FilesAffected++
				}
			}
		}
	}

	for _, r := range job.Rules.Enabled() {
		agg := ruleAgg[r.ID]
		agg.Effectiveness = classifyEffectiveness(agg.TotalChanges)
		agg.Warnings = ruleWarnings(r)
		report.Rules = append(report.Rules, *agg)
	}
	sort.Slice(report.Rules, func(i, j int) bool { return report.Rules[i].RuleID < report.Rules[j].RuleID })

	report.Risk, report.Recommendations = assessRisk(report, job.Rules)

	return report, nil
}

func (b *Builder) previewFile(fd pipeline.FileDescriptor, rules pipeline.Ruleset, limits Limits) (FileReport, error) {
	raw, err := os.ReadFile(fd.AbsPath)
	if err != nil {
		return FileReport{}, err
	}
	if !utf8.Valid(raw) {
		return FileReport{}, fmt.Errorf("preview: %s is not valid UTF-8", fd.Path)
	}
	text := string(raw)

	fr := FileReport{Path: fd.Path, PerRuleCounts: map[string]int{}}

	lines := splitLines(text)
	var allMatches []MatchRecord

	for _, rule := range rules.Enabled() {
		hits := ruleengine.FindMatches(text, rule)
		fr.PerRuleCounts[rule.ID] = len(hits)
		fr.TotalChanges += len(hits)
		fr.ProjectedSizeDelta += int64(len(hits)) * int64(len(rule.Replace)-len(rule.Find))

		for _, h := range hits {
			allMatches = append(allMatches, MatchRecord{
				RuleID:      h.RuleID,
				Line:        h.Line,
				Column:      h.Column,
				MatchedText: h.MatchedText,
				Replacement: h.Replacement,
				ContextPre:  contextAround(lines, h.Line-1, -limits.ContextLines),
				TargetLine:  lineAt(lines, h.Line-1),
				ContextPost: contextAround(lines, h.Line-1, limits.ContextLines),
			})
		}
	}

	sort.SliceStable(allMatches, func(i, j int) bool {
		if allMatches[i].Line != allMatches[j].Line {
			return allMatches[i].Line < allMatches[j].Line
		}
		return allMatches[i].Column < allMatches[j].Column
	})
	if len(allMatches) > limits.MaxChangesPerFile {
		allMatches = allMatches[:limits.MaxChangesPerFile]
	}
	fr.Matches = allMatches

	return fr, nil
}

func splitLines(text string) []string {
	var lines []string
	start := 0
	for i, r := range text {
		if r == '\n' {
			lines = append(lines, text[start:i])
			start = i + 1
		}
	}
	lines = append(lines, text[start:])
	return lines
}

func lineAt(lines []string, idx int) string {
	if idx < 0 || idx >= len(lines) {
		return ""
	}
	return lines[idx]
}

// contextAround returns up to |delta| lines before (delta<0) or after
// (delta>0) lines[idx], in reading order.
func contextAround(lines []string, idx, delta int) []string {
	if delta < 0 {
		start := idx + delta
		if start < 0 {
			start = 0
		}
		return append([]string(nil), lines[start:idx]...)
	}
	end := idx + 1 + delta
	if end > len(lines) {
		end = len(lines)
	}
	if idx+1 > end {
		return nil
	}
	return append([]string(nil), lines[idx+1:end]...)
}

func classifyEffectiveness(totalChanges int) Effectiveness {
	switch {
	case totalChanges == 0:
		return EffectivenessNone
	case totalChanges < 5:
		return EffectivenessLow
	case totalChanges < 50:
		return EffectivenessMedium
	default:
		return EffectivenessHigh
	}
}

func ruleWarnings(r pipeline.Rule) []string {
	var warnings []string
	if len(r.Find) <= 2 {
		warnings = append(warnings, "find pattern is very short and may match unintended text")
	}
	if r.Find == r.Replace {
		warnings = append(warnings, "find and replace are identical; this rule has no effect")
	}
	return warnings
}

func assessRisk(report Report, rules pipeline.Ruleset) (RiskLevel, []string) {
	var recommendations []string
	score := 0

	totalChanges := 0
	criticalTouched := 0
	for _, f := range report.Files {
		totalChanges += f.TotalChanges
		if f.Importance == importance.Critical {
			criticalTouched++
		}
	}

	if totalChanges > 500 {
		score += 2
		recommendations = append(recommendations, fmt.Sprintf("this job projects %d changes across %d files; consider running with dryRun first", totalChanges, len(report.Files)))
	} else if totalChanges > 50 {
		score++
	}

	if criticalTouched > 0 {
		score += 2
		recommendations = append(recommendations, fmt.Sprintf("%d critical-importance file(s) would be modified; review them individually before running", criticalTouched))
	}

	ambiguous := 0
	for _, r := range rules.Enabled() {
		if len(r.Find) <= 2 {
			ambiguous++
		}
	}
	if ambiguous > 0 {
		score++
		recommendations = append(recommendations, "one or more rules use a very short find pattern; enable wholeWord matching to reduce false positives")
	}

	var level RiskLevel
	switch {
	case score >= 3:
		level = RiskHigh
	case score >= 1:
		level = RiskMedium
	default:
		level = RiskLow
	}

	return level, recommendations
}
