package convert

import (
	"context"

	"github.com/thywilljoshua/problem-pages/internal/store"
)

// runRecord forwards to an optional Recorder.
type runRecord struct {
	r  Recorder
	id string
}

func beginRun(ctx context.Context, r Recorder, command string) (*runRecord, error) {
	if r == nil {
		return &runRecord{}, nil
	}
	run, err := r.BeginRun(ctx, command)
	if err != nil {
		return nil, err
	}
	return &runRecord{r: r, id: run.ID}, nil
}

func (rr *runRecord) save(ctx context.Context, recs []store.Record) error {
	if rr.r == nil {
		return nil
	}
	return rr.r.SaveProblems(ctx, rr.id, recs)
}

func (rr *runRecord) finish(ctx context.Context, sources int) error {
	if rr.r == nil {
		return nil
	}
	return rr.r.FinishRun(ctx, rr.id, sources)
}
