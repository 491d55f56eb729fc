package convert

import (
	"context"
	"path/filepath"

	"github.com/thywilljoshua/problem-pages/internal/catalog"
	"github.com/thywilljoshua/problem-pages/internal/extract"
	"github.com/thywilljoshua/problem-pages/internal/render"
	"github.com/thywilljoshua/problem-pages/internal/store"
)

// Report rebuilds outputs from the latest finished run in db: the text
// report always, and the subject indexes when the run wrote problem pages.
// An index counts the distinct sources that produced a problem.
func Report(ctx context.Context, cfg Config, db RunReader) (Result, error) {
	cfg = cfg.withDefaults()
	res := Result{Command: "report", OutDir: cfg.OutDir}

	run, err := db.LatestRun(ctx, "")
	if err != nil {
		return res, err
	}
	recs, err := db.Problems(ctx, run.ID)
	if err != nil {
		return res, err
	}
	res.RunID = run.ID
	res.Problems = len(recs)

	heading := commonSubject(recs)
	qs := make([]extract.Question, 0, len(recs))
	for _, r := range recs {
		qs = append(qs, extract.Question{Text: r.Question, Source: r.Source, Pattern: r.Pattern})
	}
	if cfg.Subject != SubjectAuto {
		s, err := catalog.Lookup(cfg.Subject)
		if err != nil {
			return res, err
		}
		heading = s.Dir
	}

	path := cfg.ReportPath
	if path == "" {
		path = filepath.Join(cfg.OutDir, DefaultReportName)
	}
	if err := render.WriteReportFile(path, heading, qs, run.Sources); err != nil {
		return res, err
	}
	res.Report = path

	if run.Command != "extract" || cfg.NoIndex {
		return res, nil
	}
	bySubject := make(map[string]*subjectPages)
	sources := make(map[string]map[string]bool)
	for _, r := range recs {
		s, err := catalog.Lookup(r.Subject)
		if err != nil {
			cfg.Logger.Warn("no index for subject", "subject", r.Subject, "err", err)
			continue
		}
		sp := bySubject[s.Dir]
		if sp == nil {
			sp = &subjectPages{subject: s}
			bySubject[s.Dir] = sp
			sources[s.Dir] = make(map[string]bool)
		}
		if !sources[s.Dir][r.Source] {
			sources[s.Dir][r.Source] = true
			sp.files++
		}
		sp.entries = append(sp.entries, render.Entry{Chapter: r.Chapter, Title: r.Title, Number: r.Number, Question: r.Question, Source: r.Source, File: r.File})
	}
	indexes, err := writeIndexes(cfg.OutDir, bySubject)
	if err != nil {
		return res, err
	}
	res.Indexes = indexes
	return res, nil
}

// commonSubject is the subject shared by every record, or "".
func commonSubject(recs []store.Record) string {
	if len(recs) == 0 {
		return ""
	}
	for _, r := range recs[1:] {
		if r.Subject != recs[0].Subject {
			return ""
		}
	}
	return recs[0].Subject
}
