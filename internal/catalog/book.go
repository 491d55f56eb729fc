package catalog

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	"go.yaml.in/yaml/v3"
)

//go:embed data/books/*.yaml
var bookFS embed.FS

// Book is a set of authored problems for one subject.
type Book struct {
	Subject  string        `yaml:"subject"`
	Dir      string        `yaml:"dir"`
	Source   string        `yaml:"source"`
	Chapters []BookChapter `yaml:"chapters"`

	// Path is where the book was loaded from.
	Path string `yaml:"-"`
}

// BookChapter groups the authored problems of a chapter.
type BookChapter struct {
	Number   string            `yaml:"number"`
	Title    string            `yaml:"title"`
	Problems []AuthoredProblem `yaml:"problems"`
}

// AuthoredProblem is a hand-written problem. Background and Solution are
// Markdown; inline HTML is kept.
type AuthoredProblem struct {
	Num        int      `yaml:"num"`
	Title      string   `yaml:"title"`
	Question   string   `yaml:"question"`
	Background string   `yaml:"background"`
	Solution   string   `yaml:"solution"`
	Tips       []string `yaml:"tips"`
	Formulas   string   `yaml:"formulas"`
	SVG        string   `yaml:"svg"`
}

// ParseBook decodes and checks a book. Tips written as <li>…</li> items are
// unwrapped.
func ParseBook(b []byte) (*Book, error) {
	var book Book
	if err := yaml.Unmarshal(b, &book); err != nil {
		return nil, err
	}
	if book.Subject == "" {
		return nil, errors.New("book without a subject")
	}
	if book.Dir == "" {
		if s, err := Lookup(book.Subject); err == nil {
			book.Dir = s.Dir
		} else {
			book.Dir = book.Subject
		}
	}
	seen := make(map[string]bool)
	for ci := range book.Chapters {
		ch := &book.Chapters[ci]
		if strings.TrimSpace(ch.Number) == "" {
			return nil, fmt.Errorf("chapter %d: missing number", ci+1)
		}
		label := Label(ch.Number)
		if label == "" {
			return nil, fmt.Errorf("chapter %d: number %q has no letters or digits", ci+1, ch.Number)
		}
		ch.Number = label
		for pi := range ch.Problems {
			p := &ch.Problems[pi]
			if strings.TrimSpace(p.Question) == "" {
				return nil, fmt.Errorf("chapter %s problem %d: missing question", ch.Number, pi+1)
			}
			if p.Num < 0 {
				return nil, fmt.Errorf("chapter %s problem %d: negative num", ch.Number, pi+1)
			}
			key := fmt.Sprintf("%s/%d", ch.Number, p.Number(pi))
			if seen[key] {
				return nil, fmt.Errorf("chapter %s: problem number %d used twice", ch.Number, p.Number(pi))
			}
			seen[key] = true
			for ti, tip := range p.Tips {
				p.Tips[ti] = unwrapItem(tip)
			}
		}
	}
	return &book, nil
}

// Number is the explicit num, or the 1-based position in its chapter.
func (p AuthoredProblem) Number(index int) int {
	if p.Num > 0 {
		return p.Num
	}
	return index + 1
}

// LoadBook reads a book from a YAML file.
func LoadBook(file string) (*Book, error) {
	b, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	book, err := ParseBook(b)
	if err != nil {
		return nil, fmt.Errorf("book %s: %w", file, err)
	}
	book.Path = file
	return book, nil
}

// SampleBooks returns the embedded sample books sorted by subject.
func SampleBooks() ([]*Book, error) {
	entries, err := bookFS.ReadDir("data/books")
	if err != nil {
		return nil, err
	}
	var out []*Book
	for _, e := range entries {
		name := path.Join("data/books", e.Name())
		b, err := bookFS.ReadFile(name)
		if err != nil {
			return nil, err
		}
		book, err := ParseBook(b)
		if err != nil {
			return nil, fmt.Errorf("book %s: %w", e.Name(), err)
		}
		book.Path = "embedded:" + e.Name()
		out = append(out, book)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Subject < out[j].Subject })
	return out, nil
}

func unwrapItem(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "<li>")
	s = strings.TrimSuffix(s, "</li>")
	return strings.TrimSpace(s)
}
