package convert

import (
	"context"
	"log/slog"

	"github.com/thywilljoshua/problem-pages/internal/ai"
	"github.com/thywilljoshua/problem-pages/internal/store"
)

// SubjectAuto picks the subject per file from its name or directory.
const SubjectAuto = "auto"

type Config struct {
	Inputs     []string
	OutDir     string
	Subject    string
	Dedupe     bool
	NoIndex    bool
	ReportPath string
	Books      []string
	Enhancer   ai.Enhancer
	Store      Recorder
	Logger     *slog.Logger
}

// Recorder persists runs. *store.Store implements it.
type Recorder interface {
	BeginRun(ctx context.Context, command string) (store.Run, error)
	SaveProblems(ctx context.Context, runID string, recs []store.Record) error
	FinishRun(ctx context.Context, runID string, sources int) error
}

// RunReader reads runs back. *store.Store implements it.
type RunReader interface {
	LatestRun(ctx context.Context, command string) (store.Run, error)
	Problems(ctx context.Context, runID string) ([]store.Record, error)
}

// Source summarises one input PDF.
type Source struct {
	File      string `json:"file"`
	Subject   string `json:"subject,omitempty"`
	Chapter   string `json:"chapter,omitempty"`
	Title     string `json:"title,omitempty"`
	Pages     int    `json:"pages"`
	Problems  int    `json:"problems,omitempty"`
	Questions int    `json:"questions,omitempty"`
}

// Skipped is an input left out of a run.
type Skipped struct {
	File   string `json:"file"`
	Reason string `json:"reason"`
}

type Result struct {
	Command  string    `json:"command"`
	RunID    string    `json:"run_id,omitempty"`
	OutDir   string    `json:"out_dir"`
	Sources  []Source  `json:"sources,omitempty"`
	Skipped  []Skipped `json:"skipped,omitempty"`
	Pages    []string  `json:"pages,omitempty"`
	Indexes  []string  `json:"indexes,omitempty"`
	Report   string    `json:"report,omitempty"`
	Problems int       `json:"problems"`
}

func (c Config) withDefaults() Config {
	if c.OutDir == "" {
		c.OutDir = "."
	}
	if c.Subject == "" {
		c.Subject = SubjectAuto
	}
	if c.Enhancer == nil {
		c.Enhancer = ai.Noop{}
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}
