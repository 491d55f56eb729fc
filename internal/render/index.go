package render

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"sort"

	"github.com/thywilljoshua/problem-pages/internal/catalog"
)

const previewRunes = 60

// Entry is one written problem page, as listed on the index.
type Entry struct {
	Chapter  string `json:"chapter"`
	Title    string `json:"title,omitempty"`
	Number   int    `json:"number"`
	Question string `json:"question"`
	Source   string `json:"source"`
	File     string `json:"file"`
}

// Link is one line of the index.
type Link struct {
	Href   string
	Text   string
	Source string
}

// Section lists the links of one chapter.
type Section struct {
	Chapter string
	Title   string
	Links   []Link
}

// Index is the per-subject listing of problem pages.
type Index struct {
	Title    string
	Intro    string
	Sections []Section
	Total    int
	Files    int
}

// NewIndex groups entries by chapter. Chapters follow the subject's table
// order; chapters missing from the table come after it, sorted, titled by
// their first entry.
func NewIndex(s *catalog.Subject, entries []Entry, files int) Index {
	idx := Index{
		Title: s.IndexTitle,
		Intro: s.IndexIntro,
		Total: len(entries),
		Files: files,
	}
	if idx.Title == "" {
		idx.Title = s.Dir + " · Questions Index"
	}

	byChapter := make(map[string][]Entry)
	for _, e := range entries {
		byChapter[e.Chapter] = append(byChapter[e.Chapter], e)
	}
	var order []string
	known := make(map[string]bool)
	for _, ch := range s.ChapterOrder() {
		known[ch] = true
		if _, ok := byChapter[ch]; ok {
			order = append(order, ch)
		}
	}
	var rest []string
	for ch := range byChapter {
		if !known[ch] {
			rest = append(rest, ch)
		}
	}
	sort.Strings(rest)
	order = append(order, rest...)

	for _, ch := range order {
		list := byChapter[ch]
		sort.SliceStable(list, func(i, j int) bool { return list[i].Number < list[j].Number })
		title := s.ChapterTitle(ch)
		if title == "" {
			title = list[0].Title
		}
		if title == "" {
			title = s.DefaultTitle
		}
		sec := Section{Chapter: ch, Title: title}
		for _, e := range list {
			sec.Links = append(sec.Links, Link{
				Href:   "./" + filepath.ToSlash(filepath.Join("ch"+ch, FileName(ch, e.Number))),
				Text:   fmt.Sprintf("Problem %s.%d: %s...", ch, e.Number, preview(e.Question)),
				Source: e.Source,
			})
		}
		idx.Sections = append(idx.Sections, sec)
	}
	return idx
}

// WriteIndex renders an index page.
func WriteIndex(w io.Writer, idx Index) error {
	return tmpl.ExecuteTemplate(w, "index.html.tmpl", idx)
}

// WriteIndexFile writes <root>/<dir>/index.html.
func WriteIndexFile(root, dir string, idx Index) (string, error) {
	var buf bytes.Buffer
	if err := WriteIndex(&buf, idx); err != nil {
		return "", fmt.Errorf("render %s index: %w", dir, err)
	}
	return writeFile(filepath.Join(root, dir, "index.html"), buf.Bytes())
}

func preview(q string) string {
	r := []rune(q)
	if len(r) > previewRunes {
		r = r[:previewRunes]
	}
	return string(r)
}
