// Package ai fills gaps in extracted problems with model output. It is
// optional: the pipelines run with Noop when no provider is configured.
package ai

import "context"

// Enhancer writes what the source PDF did not provide.
type Enhancer interface {
	// Solve returns a worked solution, or "" when it has none.
	Solve(ctx context.Context, chapterTitle, question string) (string, error)
	// SuggestTips returns short solving tips for the question.
	SuggestTips(ctx context.Context, chapterTitle, question string) ([]string, error)
}

type Noop struct{}

func (Noop) Solve(ctx context.Context, chapterTitle, question string) (string, error) {
	return "", nil
}

func (Noop) SuggestTips(ctx context.Context, chapterTitle, question string) ([]string, error) {
	return nil, nil
}
