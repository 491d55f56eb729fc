package convert

import (
	"context"
	"path/filepath"

	"github.com/thywilljoshua/problem-pages/internal/catalog"
	"github.com/thywilljoshua/problem-pages/internal/extract"
	"github.com/thywilljoshua/problem-pages/internal/pdftext"
	"github.com/thywilljoshua/problem-pages/internal/render"
	"github.com/thywilljoshua/problem-pages/internal/store"
)

// DefaultReportName is the report file written under OutDir when no
// report path is set.
const DefaultReportName = "questions_extracted.txt"

// RunQuestions pulls question-only matches out of every input PDF and
// writes the text report. The file count on the total line covers every
// PDF found, including skipped ones.
func RunQuestions(ctx context.Context, cfg Config) (Result, error) {
	cfg = cfg.withDefaults()
	log := cfg.Logger
	res := Result{Command: "questions", OutDir: cfg.OutDir}

	files, err := Discover(cfg.Inputs)
	if err != nil {
		return res, err
	}
	if len(files) == 0 {
		return res, ErrNoInputs
	}
	heading := ""
	if cfg.Subject != SubjectAuto {
		s, err := catalog.Lookup(cfg.Subject)
		if err != nil {
			return res, err
		}
		heading = s.Dir
	}
	rec, err := beginRun(ctx, cfg.Store, "questions")
	if err != nil {
		return res, err
	}
	res.RunID = rec.id

	var all []extract.Question
	patterns := extract.QuestionPatterns()
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		name := filepath.Base(f)
		text, err := pdftext.Extract(f)
		if err != nil {
			log.Warn("could not extract text", "file", f, "err", err)
			res.Skipped = append(res.Skipped, Skipped{File: f, Reason: err.Error()})
			continue
		}
		qs := extract.Questions(text, name, patterns)
		log.Info("processed pdf", "file", name, "questions", len(qs))
		res.Sources = append(res.Sources, Source{File: f, Pages: pdftext.PageCount(f), Questions: len(qs)})

		recs := make([]store.Record, 0, len(qs))
		for _, q := range qs {
			recs = append(recs, store.Record{Subject: heading, Question: q.Text, Source: q.Source, Pattern: q.Pattern})
		}
		if err := rec.save(ctx, recs); err != nil {
			return res, err
		}
		all = append(all, qs...)
	}

	path := cfg.ReportPath
	if path == "" {
		path = filepath.Join(cfg.OutDir, DefaultReportName)
	}
	if err := render.WriteReportFile(path, heading, all, len(files)); err != nil {
		return res, err
	}
	res.Report = path
	res.Problems = len(all)
	if err := rec.finish(ctx, len(files)); err != nil {
		return res, err
	}
	return res, nil
}
