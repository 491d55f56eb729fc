package render

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/thywilljoshua/problem-pages/internal/extract"
)

// WriteReport writes the plain-text question report: questions grouped by
// source in name order, numbered per source, then a total line. subject
// prefixes the heading when set.
func WriteReport(w io.Writer, subject string, qs []extract.Question, files int) error {
	var b strings.Builder
	heading := "QUESTIONS EXTRACTED FROM PDF FILES"
	if subject != "" {
		heading = strings.ToUpper(subject) + " " + heading
	}
	b.WriteString(heading + "\n")
	b.WriteString(strings.Repeat("=", 50) + "\n\n")

	bySource := make(map[string][]extract.Question)
	var sources []string
	for _, q := range qs {
		if _, ok := bySource[q.Source]; !ok {
			sources = append(sources, q.Source)
		}
		bySource[q.Source] = append(bySource[q.Source], q)
	}
	sort.Strings(sources)
	for _, src := range sources {
		fmt.Fprintf(&b, "SOURCE: %s\n", src)
		b.WriteString(strings.Repeat("-", 30) + "\n")
		for i, q := range bySource[src] {
			fmt.Fprintf(&b, "Question %d:\n%s\n\n", i+1, q.Text)
		}
		b.WriteString("\n" + strings.Repeat("=", 50) + "\n\n")
	}
	fmt.Fprintf(&b, "TOTAL QUESTIONS EXTRACTED: %d questions from %d files\n", len(qs), files)

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteReportFile writes the report to path, creating its directory.
func WriteReportFile(path, subject string, qs []extract.Question, files int) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteReport(f, subject, qs, files); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
