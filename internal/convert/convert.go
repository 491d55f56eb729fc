// Package convert wires text extraction, pattern extraction and page
// rendering into the pipelines behind each command.
package convert

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/thywilljoshua/problem-pages/internal/catalog"
	"github.com/thywilljoshua/problem-pages/internal/extract"
	"github.com/thywilljoshua/problem-pages/internal/pdftext"
	"github.com/thywilljoshua/problem-pages/internal/render"
	"github.com/thywilljoshua/problem-pages/internal/store"
)

// ErrNoInputs is returned when the inputs hold no PDF files.
var ErrNoInputs = errors.New("no PDF files found")

// subjectPages collects what a subject index needs.
type subjectPages struct {
	subject *catalog.Subject
	entries []render.Entry
	files   int
}

// Run extracts problems from every input PDF and writes one page per
// problem plus an index per subject. Unreadable inputs are logged and
// skipped. Problem numbers run per chapter across all inputs.
func Run(ctx context.Context, cfg Config) (Result, error) {
	cfg = cfg.withDefaults()
	log := cfg.Logger
	res := Result{Command: "extract", OutDir: cfg.OutDir}

	files, err := Discover(cfg.Inputs)
	if err != nil {
		return res, err
	}
	if len(files) == 0 {
		return res, ErrNoInputs
	}
	var fixed *catalog.Subject
	if cfg.Subject != SubjectAuto {
		if fixed, err = catalog.Lookup(cfg.Subject); err != nil {
			return res, err
		}
	}
	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		return res, err
	}
	rec, err := beginRun(ctx, cfg.Store, "extract")
	if err != nil {
		return res, err
	}
	res.RunID = rec.id

	numbers := make(map[string]int)
	bySubject := make(map[string]*subjectPages)
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		name := filepath.Base(f)
		subj := fixed
		if subj == nil {
			if subj, err = subjectForFile(f); err != nil {
				log.Warn("skipping pdf", "file", f, "err", err)
				res.Skipped = append(res.Skipped, Skipped{File: f, Reason: err.Error()})
				continue
			}
		}
		text, err := pdftext.Extract(f)
		if err != nil {
			log.Warn("could not extract text", "file", f, "err", err)
			res.Skipped = append(res.Skipped, Skipped{File: f, Reason: err.Error()})
			continue
		}

		c := chapterFor(subj, f, text)
		c.Chapter = catalog.Label(c.Chapter)
		if c.Chapter == "" {
			c.Chapter = catalog.UnknownChapter
		}
		patterns, err := extract.Set(subj.Patterns)
		if err != nil {
			return res, fmt.Errorf("subject %s: %w", subj.Name, err)
		}
		problems := extract.Problems(text, name, patterns)
		if cfg.Dedupe {
			problems = extract.Dedupe(problems)
		}
		src := Source{File: f, Subject: subj.Dir, Chapter: c.Chapter, Title: c.Title, Pages: pdftext.PageCount(f), Problems: len(problems)}
		log.Info("processed pdf", "file", name, "subject", subj.Dir, "chapter", c.Chapter, "pages", src.Pages, "problems", len(problems))

		sp := bySubject[subj.Dir]
		if sp == nil {
			sp = &subjectPages{subject: subj}
			bySubject[subj.Dir] = sp
		}
		sp.files++

		var recs []store.Record
		for _, p := range problems {
			key := subj.Dir + "/" + c.Chapter
			numbers[key]++
			n := numbers[key]

			page := enrich(ctx, cfg, subj, c, p, n)
			path, err := render.WritePageFile(cfg.OutDir, page)
			if err != nil {
				return res, err
			}
			res.Pages = append(res.Pages, path)
			sp.entries = append(sp.entries, render.Entry{Chapter: c.Chapter, Title: c.Title, Number: n, Question: p.Question, Source: name, File: path})
			recs = append(recs, store.Record{
				Subject: subj.Dir, Chapter: c.Chapter, Title: c.Title, Number: n, Question: p.Question,
				Solution: p.Solution, Source: name, Pattern: p.Pattern, File: path,
			})
		}
		if err := rec.save(ctx, recs); err != nil {
			return res, err
		}
		res.Sources = append(res.Sources, src)
		res.Problems += len(problems)
	}

	if !cfg.NoIndex {
		indexes, err := writeIndexes(cfg.OutDir, bySubject)
		if err != nil {
			return res, err
		}
		res.Indexes = indexes
	}
	if err := rec.finish(ctx, len(res.Sources)); err != nil {
		return res, err
	}
	return res, nil
}

// enrich builds the page, asking the enhancer for a solution when the
// source had none and for tips when the chapter has no tips of its own.
// Enhancer failures are logged and the page keeps its defaults.
func enrich(ctx context.Context, cfg Config, s *catalog.Subject, c catalog.ChapterInfo, p extract.Problem, n int) render.Page {
	log := cfg.Logger
	if p.Solution == "" {
		sol, err := cfg.Enhancer.Solve(ctx, c.Title, p.Question)
		if err != nil {
			log.Warn("ai solve failed", "source", p.Source, "problem", n, "err", err)
		}
		p.Solution = sol
	}
	page := render.Extracted(s, c, p, n)
	if _, ok := s.Tips[c.Title]; !ok {
		tips, err := cfg.Enhancer.SuggestTips(ctx, c.Title, p.Question)
		if err != nil {
			log.Warn("ai tips failed", "source", p.Source, "problem", n, "err", err)
		}
		if len(tips) > 0 {
			page.Tips = tips
		}
	}
	return page
}

// subjectForFile picks the subject from the file name prefix, then from
// the name of the directory holding the file.
func subjectForFile(f string) (*catalog.Subject, error) {
	if s, ok := catalog.ForFile(f); ok {
		return s, nil
	}
	return catalog.Lookup(filepath.Base(filepath.Dir(f)))
}

func writeIndexes(outDir string, bySubject map[string]*subjectPages) ([]string, error) {
	dirs := make([]string, 0, len(bySubject))
	for dir := range bySubject {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)
	var out []string
	for _, dir := range dirs {
		sp := bySubject[dir]
		idx := render.NewIndex(sp.subject, sp.entries, sp.files)
		path, err := render.WriteIndexFile(outDir, dir, idx)
		if err != nil {
			return out, err
		}
		out = append(out, path)
	}
	return out, nil
}
