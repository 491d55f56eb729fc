// Package catalog holds the static lookup tables: per-subject chapter
// metadata keyed by source PDF name, topic explanations, tips, key formulas
// and diagrams. The tables ship as embedded YAML.
package catalog

import (
	"embed"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed data/*.yaml
var subjectFS embed.FS

// ErrUnknownSubject is returned when no subject matches a name.
var ErrUnknownSubject = errors.New("catalog: unknown subject")

// UnknownChapter labels problems whose source is not in the chapter table.
const UnknownChapter = "Unknown"

// ChapterInfo describes one chapter PDF.
type ChapterInfo struct {
	Key     string   `yaml:"key" json:"key"`
	Chapter string   `yaml:"chapter" json:"chapter"`
	Title   string   `yaml:"title" json:"title"`
	Topics  []string `yaml:"topics" json:"topics"`
}

// Subject is the lookup table for one subject.
type Subject struct {
	Name                 string              `yaml:"name"`
	Dir                  string              `yaml:"dir"`
	Prefix               string              `yaml:"prefix"`
	Patterns             string              `yaml:"patterns"`
	DefaultTitle         string              `yaml:"default_title"`
	DefaultTopics        []string            `yaml:"default_topics"`
	BackgroundLimit      int                 `yaml:"background_limit"`
	BackgroundIntro      string              `yaml:"background_intro"`
	IndexTitle           string              `yaml:"index_title"`
	IndexIntro           string              `yaml:"index_intro"`
	Chapters             []ChapterInfo       `yaml:"chapters"`
	Topics               map[string]string   `yaml:"topics"`
	Tips                 map[string][]string `yaml:"tips"`
	DefaultTips          []string            `yaml:"default_tips"`
	Formulas             map[string]string   `yaml:"formulas"`
	DefaultFormula       string              `yaml:"default_formula"`
	Visualizations       map[string]string   `yaml:"visualizations"`
	DefaultVisualization string              `yaml:"default_visualization"`

	byKey map[string]ChapterInfo
}

var (
	loadOnce sync.Once
	subjects []*Subject
	loadErr  error
)

// Subjects returns the embedded subject tables, sorted by name.
func Subjects() ([]*Subject, error) {
	loadOnce.Do(func() {
		subjects, loadErr = loadSubjects()
	})
	return subjects, loadErr
}

func loadSubjects() ([]*Subject, error) {
	entries, err := subjectFS.ReadDir("data")
	if err != nil {
		return nil, err
	}
	var out []*Subject
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".yaml" {
			continue
		}
		b, err := subjectFS.ReadFile(path.Join("data", e.Name()))
		if err != nil {
			return nil, err
		}
		s, err := ParseSubject(b)
		if err != nil {
			return nil, fmt.Errorf("catalog %s: %w", e.Name(), err)
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// ParseSubject decodes a subject table from YAML.
func ParseSubject(b []byte) (*Subject, error) {
	var s Subject
	if err := yaml.Unmarshal(b, &s); err != nil {
		return nil, err
	}
	if s.Name == "" {
		return nil, errors.New("subject without a name")
	}
	if s.Dir == "" {
		s.Dir = s.Name
	}
	if s.DefaultTitle == "" {
		s.DefaultTitle = s.Name
	}
	if len(s.DefaultTopics) == 0 {
		s.DefaultTopics = []string{strings.ToLower(s.Name)}
	}
	if s.BackgroundLimit <= 0 {
		s.BackgroundLimit = 2
	}
	s.byKey = make(map[string]ChapterInfo, len(s.Chapters))
	for _, c := range s.Chapters {
		s.byKey[strings.ToLower(c.Key)] = c
	}
	return &s, nil
}

// Lookup finds a subject by name or output directory, case-insensitively.
func Lookup(name string) (*Subject, error) {
	all, err := Subjects()
	if err != nil {
		return nil, err
	}
	for _, s := range all {
		if strings.EqualFold(s.Name, name) || strings.EqualFold(s.Dir, name) {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownSubject, name)
}

// ForFile picks the subject whose file prefix starts the PDF's base name.
func ForFile(pdfName string) (*Subject, bool) {
	all, err := Subjects()
	if err != nil {
		return nil, false
	}
	base := strings.ToLower(filepath.Base(pdfName))
	for _, s := range all {
		if s.Prefix != "" && strings.HasPrefix(base, strings.ToLower(s.Prefix)) {
			return s, true
		}
	}
	return nil, false
}

// Chapter returns the chapter for a PDF file name.
func (s *Subject) Chapter(pdfName string) (ChapterInfo, bool) {
	c, ok := s.byKey[baseKey(pdfName)]
	return c, ok
}

// Fallback is the chapter used for PDFs missing from the table.
func (s *Subject) Fallback() ChapterInfo {
	return ChapterInfo{
		Chapter: UnknownChapter,
		Title:   s.DefaultTitle,
		Topics:  append([]string(nil), s.DefaultTopics...),
	}
}

// ChapterOrder lists chapter labels in table order.
func (s *Subject) ChapterOrder() []string {
	out := make([]string, 0, len(s.Chapters))
	for _, c := range s.Chapters {
		out = append(out, c.Chapter)
	}
	return out
}

// ChapterTitle returns the title of a chapter label, or "" when unknown.
func (s *Subject) ChapterTitle(chapter string) string {
	for _, c := range s.Chapters {
		if c.Chapter == chapter {
			return c.Title
		}
	}
	return ""
}

// RelevantTopics returns the chapter topics that share a word with the
// question, or the first two topics when none do, capped at BackgroundLimit.
func (s *Subject) RelevantTopics(c ChapterInfo, question string) []string {
	lower := strings.ToLower(question)
	var out []string
	for _, topic := range c.Topics {
		for _, word := range strings.Fields(topic) {
			if strings.Contains(lower, word) {
				out = append(out, topic)
				break
			}
		}
	}
	if len(out) == 0 {
		out = c.Topics[:min(2, len(c.Topics))]
	}
	return out[:min(s.BackgroundLimit, len(out))]
}

// Explanation returns the topic explanation, if the table has one.
func (s *Subject) Explanation(topic string) (string, bool) {
	e, ok := s.Topics[topic]
	return strings.TrimSpace(e), ok
}

// Intro fills the background introduction for a chapter.
func (s *Subject) Intro(c ChapterInfo) string {
	return strings.NewReplacer("{chapter}", c.Chapter, "{title}", c.Title).Replace(s.BackgroundIntro)
}

// TipsFor returns the tips for a chapter title, or the defaults.
func (s *Subject) TipsFor(title string) []string {
	if tips, ok := s.Tips[title]; ok {
		return tips
	}
	return s.DefaultTips
}

// FormulaFor returns the key formulas for a chapter title, or the default.
func (s *Subject) FormulaFor(title string) string {
	if f, ok := s.Formulas[title]; ok {
		return f
	}
	return s.DefaultFormula
}

// VisualizationFor returns the SVG for a chapter label. Chapters without a
// diagram get the default one; subjects without diagrams return "".
func (s *Subject) VisualizationFor(chapter string) string {
	if v, ok := s.Visualizations[chapter]; ok {
		return strings.TrimSpace(v)
	}
	if s.DefaultVisualization != "" {
		return strings.TrimSpace(s.Visualizations[s.DefaultVisualization])
	}
	return ""
}

var nonLabel = regexp.MustCompile(`[^A-Za-z0-9\-]+`)

// Label makes a chapter label usable in directory and file names. Case is
// kept so labels such as A1 and PS stay as printed. A label with no letters
// or digits comes back empty.
func Label(s string) string {
	s = nonLabel.ReplaceAllString(strings.TrimSpace(s), "-")
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}
	return strings.Trim(s, "-")
}

// baseKey strips the directory and a .pdf extension and lower-cases the rest.
func baseKey(pdfName string) string {
	base := filepath.Base(pdfName)
	if strings.EqualFold(filepath.Ext(base), ".pdf") {
		base = base[:len(base)-len(".pdf")]
	}
	return strings.ToLower(base)
}
