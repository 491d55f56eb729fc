// Package extract finds question and solution spans in text pulled from PDFs.
//
// Extraction is best effort: every pattern runs over the whole document and
// all of its matches are kept, so two patterns that recognise the same
// question both report it. Use Dedupe to collapse them.
package extract

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MinQuestionLen is the length a question must exceed to be kept.
const MinQuestionLen = 10

// Problem is a question with the solution text that follows it.
type Problem struct {
	Label    string `json:"label,omitempty" yaml:"label,omitempty"`
	Question string `json:"question" yaml:"question"`
	Solution string `json:"solution" yaml:"solution"`
	Source   string `json:"source" yaml:"source"`
	Pattern  string `json:"pattern" yaml:"pattern"`
}

// Question is a question-only match.
type Question struct {
	Text    string `json:"text" yaml:"text"`
	Source  string `json:"source" yaml:"source"`
	Pattern string `json:"pattern" yaml:"pattern"`
}

// Problems applies patterns in order and returns every match whose question
// is longer than MinQuestionLen.
func Problems(text, source string, patterns []Pattern) []Problem {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	var out []Problem
	for _, p := range patterns {
		if p.stop == nil {
			continue
		}
		pos := 0
		for pos < len(text) {
			m := p.head.FindStringSubmatchIndex(text[pos:])
			if m == nil {
				break
			}
			headEnd := pos + m[1]
			end := solutionEnd(text, headEnd, p.stop)

			question := strings.TrimSpace(group(text[pos:], m, p.question))
			if utf8.RuneCountInString(question) > MinQuestionLen {
				var label string
				if p.label > 0 {
					label = strings.TrimSpace(group(text[pos:], m, p.label))
				}
				out = append(out, Problem{
					Label:    label,
					Question: question,
					Solution: strings.TrimSpace(text[headEnd:end]),
					Source:   source,
					Pattern:  p.Name,
				})
			}
			pos = end
		}
	}
	return out
}

// solutionEnd returns where the solution after a question ending at
// headEnd stops. The next item of the family ends it, even right after the
// question. Otherwise whitespace after the question is skipped and the
// solution runs to the next family item or blank line, or to the end.
func solutionEnd(text string, headEnd int, stop *regexp.Regexp) int {
	rest := text[headEnd:]
	lead := len(rest) - len(strings.TrimLeftFunc(rest, unicode.IsSpace))
	next := stop.FindStringIndex(rest)
	if next != nil && next[0] <= lead {
		return headEnd + next[0]
	}
	end := len(text)
	if next != nil {
		end = headEnd + next[0]
	}
	start := headEnd + lead
	if b := blankLine.FindStringIndex(text[start:]); b != nil && start+b[0] < end {
		end = start + b[0]
	}
	return end
}

// Questions applies question-only patterns and returns each trimmed match.
func Questions(text, source string, patterns []Pattern) []Question {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	var out []Question
	for _, p := range patterns {
		for _, m := range p.head.FindAllStringIndex(text, -1) {
			q := strings.TrimSpace(text[m[0]:m[1]])
			if utf8.RuneCountInString(q) > MinQuestionLen {
				out = append(out, Question{Text: q, Source: source, Pattern: p.Name})
			}
		}
	}
	return out
}

// Dedupe drops problems whose question repeats an earlier one from the same
// source, ignoring case and runs of whitespace. The first occurrence wins.
func Dedupe(problems []Problem) []Problem {
	seen := make(map[string]bool, len(problems))
	out := make([]Problem, 0, len(problems))
	for _, p := range problems {
		key := p.Source + "\x00" + normalize(p.Question)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, p)
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// group returns submatch n of m within s; n == 0 means the whole match.
func group(s string, m []int, n int) string {
	if n < 0 || 2*n+1 >= len(m) || m[2*n] < 0 {
		return ""
	}
	return s[m[2*n]:m[2*n+1]]
}
