package convert

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thywilljoshua/problem-pages/internal/catalog"
	"github.com/thywilljoshua/problem-pages/internal/pdftext/pdffixture"
	"github.com/thywilljoshua/problem-pages/internal/store"
)

type fakeEnhancer struct {
	solved, tipped int
}

func (f *fakeEnhancer) Solve(ctx context.Context, chapterTitle, question string) (string, error) {
	f.solved++
	return "Worked answer.", nil
}

func (f *fakeEnhancer) SuggestTips(ctx context.Context, chapterTitle, question string) ([]string, error) {
	f.tipped++
	return []string{"Tip A"}, nil
}

type fakeRecorder struct {
	commands []string
	recs     []store.Record
	finished int
}

func (f *fakeRecorder) BeginRun(ctx context.Context, command string) (store.Run, error) {
	f.commands = append(f.commands, command)
	return store.Run{ID: "run-1", Command: command}, nil
}

func (f *fakeRecorder) SaveProblems(ctx context.Context, runID string, recs []store.Record) error {
	f.recs = append(f.recs, recs...)
	return nil
}

func (f *fakeRecorder) FinishRun(ctx context.Context, runID string, sources int) error {
	f.finished = sources
	return nil
}

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

// mathsInputs writes a catalogued chapter, an uncatalogued one found by its
// heading and a file that is not a PDF at all.
func mathsInputs(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "Maths")
	pdffixture.Write(t, dir, "lemh103.pdf", []string{
		"EXERCISE 3.1",
		"1. What is the order of a matrix with 3 rows?",
		"The order is 3 x n for n columns.",
		"2. Find the transpose of A = [1 2]?",
		"The transpose is the column [1 2].",
	})
	pdffixture.Write(t, dir, "notes.pdf", []string{
		"Chapter 7: Integrals",
		"1. Evaluate the integral of 2x dx?",
		"It equals x squared plus C.",
		"2. What is the integral of 1/x dx?",
	})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.pdf"), []byte("not a pdf"), 0o644))
	return dir
}

func TestRun(t *testing.T) {
	in := mathsInputs(t)
	out := t.TempDir()
	enh := &fakeEnhancer{}
	rec := &fakeRecorder{}

	res, err := Run(context.Background(), Config{
		Inputs:   []string{in},
		OutDir:   out,
		Enhancer: enh,
		Store:    rec,
		Logger:   quiet(),
	})
	require.NoError(t, err)

	assert.Equal(t, "extract", res.Command)
	assert.Equal(t, "run-1", res.RunID)
	assert.Equal(t, 4, res.Problems)
	require.Len(t, res.Skipped, 1)
	assert.Equal(t, filepath.Join(in, "broken.pdf"), res.Skipped[0].File)

	require.Len(t, res.Sources, 2)
	assert.Equal(t, "3", res.Sources[0].Chapter)
	assert.Equal(t, "Matrices", res.Sources[0].Title)
	assert.Equal(t, 1, res.Sources[0].Pages)
	assert.Equal(t, "7", res.Sources[1].Chapter)
	assert.Equal(t, "Integrals", res.Sources[1].Title)

	assert.Equal(t, []string{
		filepath.Join(out, "Maths", "ch3", "problem-3-01.html"),
		filepath.Join(out, "Maths", "ch3", "problem-3-02.html"),
		filepath.Join(out, "Maths", "ch7", "problem-7-01.html"),
		filepath.Join(out, "Maths", "ch7", "problem-7-02.html"),
	}, res.Pages)
	assert.Equal(t, []string{filepath.Join(out, "Maths", "index.html")}, res.Indexes)

	first := readFile(t, res.Pages[0])
	assert.Contains(t, first, "1. What is the order of a matrix with 3 rows?")
	assert.Contains(t, first, "The order is 3 x n for n columns.")
	assert.Contains(t, first, "Extracted from: lemh103.pdf")

	// Chapter 7 is not in the table, so tips come from the enhancer, and
	// the unanswered question is solved by it.
	assert.Equal(t, 1, enh.solved)
	assert.Equal(t, 2, enh.tipped)
	last := readFile(t, res.Pages[3])
	assert.Contains(t, last, "Worked answer.")
	assert.Contains(t, last, "<li>Tip A</li>")

	idx := readFile(t, res.Indexes[0])
	assert.Contains(t, idx, "Chapter 3 - Matrices")
	assert.Contains(t, idx, "Chapter 7 - Integrals")
	assert.Contains(t, idx, `href="./ch7/problem-7-02.html"`)
	assert.Contains(t, idx, "Total: 4 questions extracted from 2 PDF files")

	assert.Equal(t, []string{"extract"}, rec.commands)
	assert.Equal(t, 2, rec.finished)
	require.Len(t, rec.recs, 4)
	assert.Equal(t, store.Record{
		Subject:  "Maths",
		Chapter:  "3",
		Title:    "Matrices",
		Number:   1,
		Question: "1. What is the order of a matrix with 3 rows?",
		Solution: "The order is 3 x n for n columns.",
		Source:   "lemh103.pdf",
		Pattern:  "numbered",
		File:     res.Pages[0],
	}, rec.recs[0])
}

func TestRunNumbersPerChapterAcrossFiles(t *testing.T) {
	dir := t.TempDir()
	pdffixture.Write(t, dir, "a.pdf", []string{
		"1. Please calculate the speed of a car that moves 100 m in 5 s?",
		"Speed is distance over time, 20 m/s.",
	})
	pdffixture.Write(t, dir, "b.pdf", []string{
		"1. What is the unit of force in SI?",
		"The newton.",
	})
	out := t.TempDir()

	res, err := Run(context.Background(), Config{
		Inputs:  []string{dir},
		OutDir:  out,
		Subject: "physics",
		Dedupe:  true,
		NoIndex: true,
		Logger:  quiet(),
	})
	require.NoError(t, err)
	assert.Empty(t, res.Indexes)
	assert.Equal(t, []string{
		filepath.Join(out, "Physics", "chUnknown", "problem-Unknown-01.html"),
		filepath.Join(out, "Physics", "chUnknown", "problem-Unknown-02.html"),
	}, res.Pages)
	assert.Contains(t, readFile(t, res.Pages[1]), "1. What is the unit of force in SI?")
	_, err = os.Stat(filepath.Join(out, "Physics", "index.html"))
	assert.True(t, os.IsNotExist(err))
}

func TestRunKeepsOverlappingMatchesWithoutDedupe(t *testing.T) {
	dir := t.TempDir()
	pdffixture.Write(t, dir, "leph102.pdf", []string{
		"1. Please calculate the speed of a car that moves 100 m in 5 s?",
		"Speed is distance over time, 20 m/s.",
	})
	res, err := Run(context.Background(), Config{Inputs: []string{dir}, OutDir: t.TempDir(), Logger: quiet()})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Problems)
}

func TestRunErrors(t *testing.T) {
	ctx := context.Background()

	_, err := Run(ctx, Config{Inputs: []string{t.TempDir()}, Logger: quiet()})
	assert.ErrorIs(t, err, ErrNoInputs)

	_, err = Run(ctx, Config{Inputs: []string{filepath.Join(t.TempDir(), "missing")}, Logger: quiet()})
	assert.Error(t, err)

	_, err = Run(ctx, Config{Inputs: []string{mathsInputs(t)}, Subject: "biology", Logger: quiet()})
	assert.ErrorIs(t, err, catalog.ErrUnknownSubject)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = Run(cancelled, Config{Inputs: []string{mathsInputs(t)}, OutDir: t.TempDir(), Logger: quiet()})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunSkipsUnknownSubject(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "Biology")
	pdffixture.Write(t, dir, "cells.pdf", []string{"1. What is a cell membrane made of?"})
	res, err := Run(context.Background(), Config{Inputs: []string{dir}, OutDir: t.TempDir(), Logger: quiet()})
	require.NoError(t, err)
	require.Len(t, res.Skipped, 1)
	assert.Empty(t, res.Sources)
	assert.Zero(t, res.Problems)
}

func TestRunQuestions(t *testing.T) {
	in := mathsInputs(t)
	report := filepath.Join(t.TempDir(), "report.txt")
	rec := &fakeRecorder{}

	res, err := RunQuestions(context.Background(), Config{
		Inputs:     []string{in},
		Subject:    "maths",
		ReportPath: report,
		Store:      rec,
		Logger:     quiet(),
	})
	require.NoError(t, err)
	assert.Equal(t, report, res.Report)
	assert.Len(t, res.Skipped, 1)
	assert.Len(t, res.Sources, 2)
	assert.Positive(t, res.Problems)

	got := readFile(t, report)
	assert.Contains(t, got, "MATHS QUESTIONS EXTRACTED FROM PDF FILES")
	assert.Contains(t, got, "SOURCE: lemh103.pdf")
	assert.Contains(t, got, "1. What is the order of a matrix with 3 rows?")
	assert.Contains(t, got, "questions from 3 files")

	assert.Equal(t, []string{"questions"}, rec.commands)
	assert.Equal(t, 3, rec.finished)
	require.Len(t, rec.recs, res.Problems)
	assert.Equal(t, "Maths", rec.recs[0].Subject)
}

func TestRunQuestionsDefaultReportPath(t *testing.T) {
	out := t.TempDir()
	res, err := RunQuestions(context.Background(), Config{Inputs: []string{mathsInputs(t)}, OutDir: out, Logger: quiet()})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(out, DefaultReportName), res.Report)
	assert.True(t, strings.HasPrefix(readFile(t, res.Report), "QUESTIONS EXTRACTED FROM PDF FILES\n"))
}

func TestGenerateSamples(t *testing.T) {
	out := t.TempDir()
	rec := &fakeRecorder{}
	res, err := Generate(context.Background(), Config{OutDir: out, Store: rec, Logger: quiet()})
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(out, "Chemistry", "ch2", "problem-2-12.html"),
		filepath.Join(out, "Maths", "ch3", "problem-3-01.html"),
		filepath.Join(out, "Maths", "ch3", "problem-3-02.html"),
		filepath.Join(out, "Physics", "ch1", "problem-1-01.html"),
		filepath.Join(out, "Physics", "ch1", "problem-1-02.html"),
		filepath.Join(out, "Physics", "ch1", "problem-1-03.html"),
	}, res.Pages)
	assert.Equal(t, 6, res.Problems)
	assert.Len(t, res.Sources, 3)
	assert.Equal(t, 3, rec.finished)

	chem := readFile(t, res.Pages[0])
	assert.Contains(t, chem, "Faraday&#39;s Laws and Charge Requirements")
	assert.Contains(t, chem, "Expected 12th Board 2026 - Chapter 2")
}

func TestGenerateBookFile(t *testing.T) {
	dir := t.TempDir()
	book := filepath.Join(dir, "book.yaml")
	require.NoError(t, os.WriteFile(book, []byte(`subject: Maths
chapters:
  - number: "A1"
    title: Proofs in Mathematics
    problems:
      - question: "Prove that the square of an even number is even."
        solution: "Let n = 2k. Then n squared is 4k squared, which is even."
`), 0o644))
	out := t.TempDir()
	res, err := Generate(context.Background(), Config{Books: []string{book}, OutDir: out, Logger: quiet()})
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(out, "Maths", "chA1", "problem-A1-01.html")}, res.Pages)
	page := readFile(t, res.Pages[0])
	assert.Contains(t, page, "Proofs in Mathematics")
	assert.Contains(t, page, "<p>Let n = 2k. Then n squared is 4k squared, which is even.</p>")

	_, err = Generate(context.Background(), Config{Books: []string{filepath.Join(dir, "missing.yaml")}, Logger: quiet()})
	assert.Error(t, err)
}

func TestReportFromStore(t *testing.T) {
	ctx := context.Background()
	db, err := store.Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	defer db.Close()

	_, err = Report(ctx, Config{Logger: quiet()}, db)
	assert.ErrorIs(t, err, store.ErrNoRuns)

	out := t.TempDir()
	ran, err := Run(ctx, Config{Inputs: []string{mathsInputs(t)}, OutDir: out, Store: db, Logger: quiet()})
	require.NoError(t, err)
	require.NoError(t, os.Remove(ran.Indexes[0]))

	res, err := Report(ctx, Config{OutDir: out, Logger: quiet()}, db)
	require.NoError(t, err)
	assert.Equal(t, ran.RunID, res.RunID)
	assert.Equal(t, 4, res.Problems)
	assert.Equal(t, ran.Indexes, res.Indexes)

	idx := readFile(t, res.Indexes[0])
	assert.Contains(t, idx, "Chapter 7 - Integrals")
	assert.Contains(t, idx, "Total: 4 questions extracted from 2 PDF files")

	got := readFile(t, res.Report)
	assert.Contains(t, got, "MATHS QUESTIONS EXTRACTED FROM PDF FILES")
	assert.Contains(t, got, "SOURCE: notes.pdf")
	assert.Contains(t, got, "TOTAL QUESTIONS EXTRACTED: 4 questions from 2 files")
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.pdf", filepath.Join("nested", "A.PDF"), "notes.txt"} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, nil, 0o644))
	}
	notes := filepath.Join(dir, "notes.txt")

	got, err := Discover([]string{dir, notes, filepath.Join(dir, "b.pdf")})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "b.pdf"),
		filepath.Join(dir, "nested", "A.PDF"),
		notes,
	}, got)

	_, err = Discover([]string{filepath.Join(dir, "missing.pdf")})
	assert.Error(t, err)
}

func TestInferChapter(t *testing.T) {
	maths, err := catalog.Lookup("maths")
	require.NoError(t, err)

	c, ok := inferChapter(maths, "\n\nCHAPTER 3\nsomething\n")
	require.True(t, ok)
	assert.Equal(t, "Matrices", c.Title)

	c, ok = inferChapter(maths, "Chapter 9\nDIFFERENTIAL EQUATIONS\n1. Solve y' = y?")
	require.True(t, ok)
	assert.Equal(t, "9", c.Chapter)
	assert.Equal(t, "DIFFERENTIAL EQUATIONS", c.Title)
	assert.Equal(t, maths.DefaultTopics, c.Topics)

	c, ok = inferChapter(maths, "Chapter 8 - Application of Integrals")
	require.True(t, ok)
	assert.Equal(t, "Application of Integrals", c.Title)

	c, ok = inferChapter(maths, "Chapter 8\n1. Find x?")
	require.True(t, ok)
	assert.Equal(t, maths.DefaultTitle, c.Title)

	_, ok = inferChapter(maths, "1. Find x?\nThe chapter ends here.")
	assert.False(t, ok)

	c = chapterFor(maths, "lemh1a1.pdf", "Chapter 3")
	assert.Equal(t, "A1", c.Chapter)
	c = chapterFor(maths, "other.pdf", "no heading")
	assert.Equal(t, catalog.UnknownChapter, c.Chapter)
}
