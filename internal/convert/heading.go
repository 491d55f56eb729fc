package convert

import (
	"regexp"
	"strings"

	"github.com/thywilljoshua/problem-pages/internal/catalog"
)

var (
	chapterRe = regexp.MustCompile(`(?i)^\s*chapter\s+([0-9]+|[A-Z][0-9]?)\b\s*[:.\-–]?\s*(.*)$`)
	headingRe = regexp.MustCompile(`^[A-Z][A-Za-z0-9 ,\-/()]{3,}$`)
)

// headingScanLines bounds how far into the text a chapter heading is looked for.
const headingScanLines = 40

// chapterFor resolves the chapter of a PDF: the subject table by file
// name, then a "Chapter N" heading near the top of the text, then the
// subject default.
func chapterFor(s *catalog.Subject, file, text string) catalog.ChapterInfo {
	if c, ok := s.Chapter(file); ok {
		return c
	}
	if c, ok := inferChapter(s, text); ok {
		return c
	}
	return s.Fallback()
}

func inferChapter(s *catalog.Subject, text string) (catalog.ChapterInfo, bool) {
	lines := nonEmptyLines(text, headingScanLines)
	for i, ln := range lines {
		m := chapterRe.FindStringSubmatch(ln)
		if m == nil {
			continue
		}
		label := strings.ToUpper(m[1])
		for _, c := range s.Chapters {
			if c.Chapter == label {
				return c, true
			}
		}
		title := strings.TrimSpace(m[2])
		if title == "" && i+1 < len(lines) && headingRe.MatchString(lines[i+1]) {
			title = lines[i+1]
		}
		if title == "" {
			title = s.DefaultTitle
		}
		return catalog.ChapterInfo{
			Chapter: label,
			Title:   title,
			Topics:  append([]string(nil), s.DefaultTopics...),
		}, true
	}
	return catalog.ChapterInfo{}, false
}

func nonEmptyLines(text string, max int) []string {
	var out []string
	for _, ln := range strings.Split(text, "\n") {
		if ln = strings.TrimSpace(ln); ln == "" {
			continue
		}
		out = append(out, ln)
		if len(out) == max {
			break
		}
	}
	return out
}
