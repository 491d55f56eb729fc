// Package pdftext pulls the raw text layer out of PDF files.
//
// The primary reader is github.com/ledongthuc/pdf. When it yields little or
// no text the document is read again with rsc.io/pdf. Both rebuild lines
// from positioned text runs, since content streams often move between
// lines without an explicit line break.
package pdftext

import (
	"errors"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"
	"unicode/utf8"

	lpdf "github.com/ledongthuc/pdf"
	rpdf "rsc.io/pdf"
)

// ErrNoText is returned when neither reader finds any text in the document.
var ErrNoText = errors.New("pdftext: no text layer")

// MinPrimaryRunes is the trimmed length below which the fallback reader is tried.
const MinPrimaryRunes = 100

// Extract returns the concatenated text of every page, each page followed by
// a newline.
func Extract(path string) (string, error) {
	primary, perr := extractPlain(path)
	if perr == nil && utf8.RuneCountInString(strings.TrimSpace(primary)) >= MinPrimaryRunes {
		return primary, nil
	}

	fallback, ferr := extractRuns(path)
	text, err := pick(primary, perr, fallback, ferr)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return text, nil
}

// pick chooses between the two readers' results. The fallback wins when it
// is longer, unless it lost the word breaks the primary text has: rsc.io/pdf
// drops space glyphs, so a font without widths leaves no gap to rebuild
// them from.
func pick(primary string, perr error, fallback string, ferr error) (string, error) {
	p, f := strings.TrimSpace(primary), strings.TrimSpace(fallback)
	switch {
	case ferr == nil && len(f) > len(p) && (hasWordBreaks(f) || !hasWordBreaks(p)):
		return fallback, nil
	case p != "":
		return primary, nil
	case perr != nil && ferr != nil:
		return "", errors.Join(perr, ferr)
	}
	return "", ErrNoText
}

func hasWordBreaks(s string) bool {
	return strings.ContainsAny(s, " \t")
}

// PageCount returns the number of pages, or 0 when the file cannot be read.
func PageCount(path string) int {
	f, err := os.Open(path)
	if err != nil {
		return 0
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		return 0
	}
	n := 0
	_ = guard("page count", func() error {
		doc, err := rpdf.NewReader(f, fi.Size())
		if err != nil {
			return err
		}
		n = doc.NumPage()
		return nil
	})
	return n
}

// run is a piece of positioned text from either reader.
type run struct {
	X, Y, W  float64
	FontSize float64
	S        string
}

// extractPlain reads every page with ledongthuc/pdf. Lines are rebuilt
// from positioned text; a page without any, or whose content cannot be
// laid out, falls back to GetPlainText.
func extractPlain(path string) (string, error) {
	f, r, err := lpdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	var b strings.Builder
	err = guard("plain text", func() error {
		fonts := make(map[string]*lpdf.Font)
		for i := 1; i <= r.NumPage(); i++ {
			p := r.Page(i)
			if p.V.IsNull() {
				continue
			}
			if runs, err := plainRuns(p); err == nil && len(runs) > 0 {
				writeLines(&b, linesFromRuns(runs))
				continue
			}
			for _, name := range p.Fonts() {
				if _, ok := fonts[name]; !ok {
					font := p.Font(name)
					fonts[name] = &font
				}
			}
			text, err := p.GetPlainText(fonts)
			if err != nil {
				return fmt.Errorf("page %d: %w", i, err)
			}
			b.WriteString(text)
			b.WriteString("\n")
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return b.String(), nil
}

// plainRuns returns a page's positioned text. The line break ledongthuc
// appends after each TJ array is dropped.
func plainRuns(p lpdf.Page) (runs []run, err error) {
	err = guard("page content", func() error {
		for _, t := range p.Content().Text {
			if t.S == "\n" {
				continue
			}
			runs = append(runs, run{X: t.X, Y: t.Y, W: t.W, FontSize: t.FontSize, S: t.S})
		}
		return nil
	})
	return runs, err
}

// extractRuns reads every page with rsc.io/pdf and rebuilds lines.
func extractRuns(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		return "", err
	}

	var b strings.Builder
	err = guard("content runs", func() error {
		doc, err := rpdf.NewReader(f, fi.Size())
		if err != nil {
			return err
		}
		for i := 1; i <= doc.NumPage(); i++ {
			p := doc.Page(i)
			if p.V.IsNull() {
				continue
			}
			var runs []run
			for _, t := range p.Content().Text {
				runs = append(runs, run{X: t.X, Y: t.Y, W: t.W, FontSize: t.FontSize, S: t.S})
			}
			writeLines(&b, linesFromRuns(runs))
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return b.String(), nil
}

// writeLines writes one page: each line, then the page's closing newline.
func writeLines(b *strings.Builder, lines []string) {
	for _, ln := range lines {
		b.WriteString(ln)
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

// linesFromRuns groups text runs that share a baseline into lines, top to
// bottom, and joins runs left to right. A space is inserted when the gap
// between two runs is wider than a fifth of the font size.
func linesFromRuns(runs []run) []string {
	if len(runs) == 0 {
		return nil
	}
	sorted := make([]run, len(runs))
	copy(sorted, runs)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Y > sorted[j].Y })

	var groups [][]run
	group := []run{sorted[0]}
	for _, t := range sorted[1:] {
		if math.Abs(t.Y-group[0].Y) > baselineTolerance(group[0], t) {
			groups = append(groups, group)
			group = nil
		}
		group = append(group, t)
	}
	groups = append(groups, group)

	lines := make([]string, 0, len(groups))
	for _, g := range groups {
		sort.SliceStable(g, func(i, j int) bool { return g[i].X < g[j].X })
		var cur strings.Builder
		for i, t := range g {
			if i > 0 {
				prev := g[i-1]
				gap := t.X - (prev.X + prev.W)
				if gap > prev.FontSize*0.2 && !strings.HasSuffix(cur.String(), " ") && !strings.HasPrefix(t.S, " ") {
					cur.WriteString(" ")
				}
			}
			cur.WriteString(t.S)
		}
		lines = append(lines, strings.TrimRight(cur.String(), " "))
	}
	return lines
}

func baselineTolerance(a, b run) float64 {
	size := math.Max(a.FontSize, b.FontSize)
	if size <= 0 {
		return 1
	}
	return size / 2
}

// guard turns a panic from either PDF library into an error. Both readers
// panic on some malformed content streams.
func guard(what string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s: malformed pdf: %v", what, r)
		}
	}()
	return fn()
}
