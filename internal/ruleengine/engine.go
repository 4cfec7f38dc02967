// Package ruleengine implements the pure text transformer described in
// spec.md §4.3: applying an ordered list of enabled literal find/replace
// rules to a buffer, with case-folding, whole-word matching, and 1-based
// line/column position tracking for preview.
//
// find is always treated as a literal string -- regex metacharacters match
// themselves. Apply is purely CPU-bound and never suspends (spec.md §5).
package ruleengine

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/resub/resub/internal/pipeline"
)

// runeText indexes a string by rune position, precomputing the byte offset,
// 1-based line, and 1-based column (counting Unicode scalar values from the
// start of the line) of every rune. Building this once per Apply/FindMatches
// call keeps the per-position bookkeeping out of the hot matching loop.
type runeText struct {
	runes   []rune
	byteOff []int // byteOff[i] = byte offset of runes[i]; len == len(runes)+1
	line    []int
	col     []int
}

func newRuneText(s string) *runeText {
	rt := &runeText{
		runes:   make([]rune, 0, len(s)),
		byteOff: make([]int, 0, len(s)+1),
		line:    make([]int, 0, len(s)),
		col:     make([]int, 0, len(s)),
	}

	line, col, byteOff := 1, 1, 0
	for _, r := range s {
		rt.runes = append(rt.runes, r)
		rt.byteOff = append(rt.byteOff, byteOff)
		rt.line = append(rt.line, line)
		rt.col = append(rt.col, col)

		byteOff += utf8.RuneLen(r)
		if r == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	rt.byteOff = append(rt.byteOff, byteOff)

	return rt
}

// isWordRune reports whether r is a Unicode letter, decimal digit, or
// underscore (spec.md Glossary "Word character").
func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// foldRune applies simple, language-agnostic case folding for comparison.
func foldRune(r rune) rune {
	return unicode.ToLower(r)
}

type match struct {
	pos    int // rune index
	length int // rune count
}

// findAll scans rt for every non-overlapping occurrence of rule.Find,
// applying caseSensitive/wholeWord semantics (spec.md §4.3). After a match
// at rune position p with length L, scanning resumes at p+L.
func findAll(rt *runeText, rule pipeline.Rule) []match {
	findRunes := []rune(rule.Find)
	if len(findRunes) == 0 {
		return nil
	}

	var matches []match
	i := 0
	limit := len(rt.runes) - len(findRunes)
	for i <= limit {
		if matchesAt(rt, i, findRunes, rule.CaseSensitive) &&
			(!rule.WholeWord || isWholeWordMatch(rt, i, len(findRunes))) {
			matches = append(matches, match{pos: i, length: len(findRunes)})
			i += len(findRunes)
			continue
		}
		i++
	}
	return matches
}

func matchesAt(rt *runeText, pos int, findRunes []rune, caseSensitive bool) bool {
	for i, fr := range findRunes {
		tr := rt.runes[pos+i]
		if caseSensitive {
			if tr != fr {
				return false
			}
		} else if foldRune(tr) != foldRune(fr) {
			return false
		}
	}
	return true
}

// isWholeWordMatch reports whether the character immediately before and
// after the match at [pos, pos+length) is either out-of-bounds or a
// non-word character.
func isWholeWordMatch(rt *runeText, pos, length int) bool {
	if pos > 0 && isWordRune(rt.runes[pos-1]) {
		return false
	}
	end := pos + length
	if end < len(rt.runes) && isWordRune(rt.runes[end]) {
		return false
	}
	return true
}

// Apply applies every enabled rule in rules, in order, to text. The kth
// enabled rule sees the output of rules 1..k-1; a rewritten region is
// eligible for further rewriting by later rules. Returns the fully
// transformed text and a per-rule match count (keyed by Rule.ID) for every
// enabled rule, including rules that matched zero times.
func Apply(text string, rules pipeline.Ruleset) (string, map[string]int) {
	counts := make(map[string]int)
	current := text

	for _, r := range rules {
		if !r.Enabled {
			continue
		}
		newText, n := applyRule(current, r)
		counts[r.ID] = n
		current = newText
	}

	return current, counts
}

// applyRule applies a single rule to text and returns the transformed text
// plus the number of matches replaced.
func applyRule(text string, rule pipeline.Rule) (string, int) {
	rt := newRuneText(text)
	matches := findAll(rt, rule)
	if len(matches) == 0 {
		return text, 0
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		b.WriteString(string(rt.runes[last:m.pos]))
		b.WriteString(rule.Replace)
		last = m.pos + m.length
	}
	b.WriteString(string(rt.runes[last:]))

	return b.String(), len(matches)
}

// FindMatches is the non-mutating counterpart used by PreviewBuilder: it
// reports every match of rule.Find in text without rewriting anything.
func FindMatches(text string, rule pipeline.Rule) []pipeline.RuleHit {
	rt := newRuneText(text)
	matches := findAll(rt, rule)

	hits := make([]pipeline.RuleHit, 0, len(matches))
	for _, m := range matches {
		hits = append(hits, pipeline.RuleHit{
			RuleID:      rule.ID,
			ByteOffset:  rt.byteOff[m.pos],
			Line:        rt.line[m.pos],
			Column:      rt.col[m.pos],
			MatchedText: string(rt.runes[m.pos : m.pos+m.length]),
			Replacement: rule.Replace,
		})
	}
	return hits
}
