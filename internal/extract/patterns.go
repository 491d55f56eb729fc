package extract

import (
	"fmt"
	"regexp"
)

// Pattern finds one family of question layouts in document text.
//
// head matches the question itself. For detailed patterns stop marks the
// start of the next item of the same family; RE2 has no look-ahead so the
// terminator is searched separately, after the question. A blank line also
// ends a solution.
type Pattern struct {
	Name     string
	head     *regexp.Regexp
	stop     *regexp.Regexp
	label    int // submatch holding the problem label, 0 when none
	question int // submatch holding the question text, 0 for the whole match
}

// String returns the head expression.
func (p Pattern) String() string { return p.head.String() }

func detailed(name, head, stop string, label, question int) Pattern {
	return Pattern{
		Name:     name,
		head:     regexp.MustCompile(`(?im)` + head),
		stop:     regexp.MustCompile(`(?im)` + stop),
		label:    label,
		question: question,
	}
}

// blankLine ends a solution when no item of the same family comes first.
var blankLine = regexp.MustCompile(`(?m)\n\s*$`)

func questionOnly(name, head string) Pattern {
	return Pattern{Name: name, head: regexp.MustCompile(`(?im)` + head)}
}

var (
	numbered = detailed("numbered",
		`(?:^|\n)\s*(\d+[.)]\s+[^?\n]+\?)`, `\n\s*\d+[.)]`, 0, 1)
	problem = detailed("problem",
		`(?:^|\n)\s*Problem\s+(\d+\.\d+)[:\s]+([^?\n]+\?)`, `\n\s*Problem`, 1, 2)
	example = detailed("example",
		`(?:^|\n)\s*Example\s+(\d+)[:\s]+([^?\n]+\?)`, `\n\s*Example`, 1, 2)
	qNumbered = detailed("q-numbered",
		`(?:^|\n)\s*Q(\d+)[.)]\s+([^?\n]+\?)`, `\n\s*Q\d+`, 1, 2)
	numberedTask = detailed("numbered-task",
		`(?:^|\n)\s*(\d+[.)]\s+[^?\n]+(?:calculate|find|determine|show|prove|derive)[^?\n]*\?)`, `\n\s*\d+[.)]`, 0, 1)
)

// Common is the detailed pattern set used for mathematics texts.
func Common() []Pattern {
	return []Pattern{numbered, problem, example, qNumbered}
}

// Physics adds numbered task questions (calculate, find, derive...) to Common.
func Physics() []Pattern {
	return append(Common(), numberedTask)
}

// QuestionPatterns is the question-only set used for the text report.
func QuestionPatterns() []Pattern {
	return []Pattern{
		questionOnly("exercise", `(?:^|\n)\s*(?:Exercise\s+)?(\d+[.)]\s+[^?\n]+\?)`),
		questionOnly("q-numbered", `(?:^|\n)\s*Q(\d+)[.)]\s+([^?\n]+\?)`),
		questionOnly("numbered", `(?:^|\n)\s*(\d+[.)]\s+[^?\n]+\?)`),
		questionOnly("problem", `(?:^|\n)\s*Problem\s+(\d+\.\d+)[:\s]+([^?\n]+\?)`),
		questionOnly("example", `(?:^|\n)\s*Example\s+(\d+)[:\s]+([^?\n]+\?)`),
		questionOnly("sentence", `(?:^|\n)\s*([A-Z][^?\n]+\?)`),
	}
}

// Set returns a detailed pattern set by name.
func Set(name string) ([]Pattern, error) {
	switch name {
	case "", "common":
		return Common(), nil
	case "physics":
		return Physics(), nil
	}
	return nil, fmt.Errorf("extract: unknown pattern set %q", name)
}
