// Package render turns problems into static HTML pages: one page per
// problem, a per-subject index and the plain-text question report.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/thywilljoshua/problem-pages/internal/catalog"
	"github.com/thywilljoshua/problem-pages/internal/extract"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var tmpl = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

// NoSolution is shown when a problem has no solution text.
const NoSolution = "Solution not found in source material."

// Concept is one topic explanation in the background section.
type Concept struct {
	Heading string
	Body    template.HTML
}

// Page is everything a problem page shows. String fields are escaped on
// output; template.HTML fields come from trusted tables or Markdown.
type Page struct {
	Subject  string
	Chapter  string
	Number   int
	Title    string
	Question string

	// Background replaces Intro and Concepts when set.
	Background template.HTML
	Intro      string
	Concepts   []Concept

	Visualization template.HTML
	Solution      template.HTML
	Tips          []string
	Formulas      string
	Source        string
}

// FileName is the page file name for a chapter and problem number.
func FileName(chapter string, n int) string {
	return fmt.Sprintf("problem-%s-%02d.html", chapter, n)
}

// Path is the page location relative to the output root.
func (p Page) Path() string {
	return filepath.Join(p.Subject, "ch"+p.Chapter, FileName(p.Chapter, p.Number))
}

// Extracted builds the page for a problem found in a PDF.
func Extracted(s *catalog.Subject, c catalog.ChapterInfo, p extract.Problem, n int) Page {
	page := Page{
		Subject:       s.Dir,
		Chapter:       c.Chapter,
		Number:        n,
		Title:         c.Title,
		Question:      p.Question,
		Intro:         s.Intro(c),
		Visualization: template.HTML(s.VisualizationFor(c.Chapter)),
		Solution:      Paragraph(p.Solution),
		Tips:          s.TipsFor(c.Title),
		Formulas:      s.FormulaFor(c.Title),
		Source:        "Extracted from: " + p.Source,
	}
	for _, topic := range s.RelevantTopics(c, p.Question) {
		if e, ok := s.Explanation(topic); ok {
			page.Concepts = append(page.Concepts, Concept{Heading: titleCase(topic), Body: template.HTML(e)})
		}
	}
	return page
}

// Authored builds the page for a hand-written problem. Background and
// solution are rendered from Markdown.
func Authored(b *catalog.Book, ch catalog.BookChapter, p catalog.AuthoredProblem, n int) (Page, error) {
	background, err := Markdown(p.Background)
	if err != nil {
		return Page{}, fmt.Errorf("background: %w", err)
	}
	solution := Paragraph("")
	if strings.TrimSpace(p.Solution) != "" {
		if solution, err = Markdown(p.Solution); err != nil {
			return Page{}, fmt.Errorf("solution: %w", err)
		}
	}
	title := p.Title
	if title == "" {
		title = ch.Title
	}
	source := "Chapter " + ch.Number
	if b.Source != "" {
		source = b.Source + " - " + source
	}
	tips := p.Tips
	if len(tips) == 0 {
		if s, err := catalog.Lookup(b.Subject); err == nil {
			tips = s.TipsFor(ch.Title)
		}
	}
	return Page{
		Subject:       b.Dir,
		Chapter:       ch.Number,
		Number:        n,
		Title:         title,
		Question:      p.Question,
		Background:    background,
		Visualization: template.HTML(strings.TrimSpace(p.SVG)),
		Solution:      solution,
		Tips:          tips,
		Formulas:      p.Formulas,
		Source:        source,
	}, nil
}

// Paragraph escapes plain text into a paragraph, or the placeholder when
// the text is blank.
func Paragraph(text string) template.HTML {
	text = strings.TrimSpace(text)
	if text == "" {
		text = NoSolution
	}
	return template.HTML("<p>" + template.HTMLEscapeString(text) + "</p>")
}

// WritePage renders a page.
func WritePage(w io.Writer, p Page) error {
	return tmpl.ExecuteTemplate(w, "problem.html.tmpl", p)
}

// WritePageFile renders a page under root and returns the file written.
func WritePageFile(root string, p Page) (string, error) {
	var buf bytes.Buffer
	if err := WritePage(&buf, p); err != nil {
		return "", fmt.Errorf("render %s: %w", p.Path(), err)
	}
	return writeFile(filepath.Join(root, p.Path()), buf.Bytes())
}

func writeFile(path string, b []byte) (string, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// titleCase upper-cases the first letter of each word.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		r[0] = []rune(strings.ToUpper(string(r[0])))[0]
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
