package convert

import (
	"context"
	"fmt"
	"os"

	"github.com/thywilljoshua/problem-pages/internal/catalog"
	"github.com/thywilljoshua/problem-pages/internal/render"
	"github.com/thywilljoshua/problem-pages/internal/store"
)

// Generate renders authored books into problem pages. With no book files
// the embedded sample books are used. A problem with an explicit num
// overwrites that page in place; the others are numbered by position.
func Generate(ctx context.Context, cfg Config) (Result, error) {
	cfg = cfg.withDefaults()
	res := Result{Command: "generate", OutDir: cfg.OutDir}

	books, err := loadBooks(cfg.Books)
	if err != nil {
		return res, err
	}
	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		return res, err
	}
	rec, err := beginRun(ctx, cfg.Store, "generate")
	if err != nil {
		return res, err
	}
	res.RunID = rec.id

	for _, b := range books {
		var recs []store.Record
		for _, ch := range b.Chapters {
			for i, p := range ch.Problems {
				if err := ctx.Err(); err != nil {
					return res, err
				}
				n := p.Number(i)
				page, err := render.Authored(b, ch, p, n)
				if err != nil {
					return res, fmt.Errorf("%s chapter %s problem %d: %w", b.Path, ch.Number, n, err)
				}
				path, err := render.WritePageFile(cfg.OutDir, page)
				if err != nil {
					return res, err
				}
				res.Pages = append(res.Pages, path)
				recs = append(recs, store.Record{
					Subject: b.Dir, Chapter: ch.Number, Title: ch.Title, Number: n,
					Question: p.Question, Solution: p.Solution, Source: b.Source, File: path,
				})
			}
		}
		cfg.Logger.Info("generated book", "book", b.Path, "subject", b.Subject, "pages", len(recs))
		if err := rec.save(ctx, recs); err != nil {
			return res, err
		}
		res.Sources = append(res.Sources, Source{File: b.Path, Subject: b.Dir, Problems: len(recs)})
		res.Problems += len(recs)
	}
	if err := rec.finish(ctx, len(books)); err != nil {
		return res, err
	}
	return res, nil
}

func loadBooks(files []string) ([]*catalog.Book, error) {
	if len(files) == 0 {
		return catalog.SampleBooks()
	}
	books := make([]*catalog.Book, 0, len(files))
	for _, f := range files {
		b, err := catalog.LoadBook(f)
		if err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, nil
}
