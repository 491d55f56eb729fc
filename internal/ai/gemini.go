package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"
	genai "google.golang.org/genai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

// MaxTips caps the tips kept from a response.
const MaxTips = 5

// Gemini is an Enhancer backed by the Gemini API. Calls are spaced by a
// rate limiter shared across the run.
type Gemini struct {
	client  *genai.Client
	model   string
	limiter *rate.Limiter

	// generate sends one prompt; replaced in tests.
	generate func(ctx context.Context, text string) (string, error)
}

// NewGemini creates a client. perMinute <= 0 disables the rate limit.
func NewGemini(ctx context.Context, apiKey, model string, perMinute int) (*Gemini, error) {
	if apiKey == "" {
		return nil, errors.New("missing Gemini API key (ai.api_key or GOOGLE_API_KEY)")
	}
	if model == "" {
		model = DefaultModel
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, err
	}
	g := &Gemini{client: c, model: model, limiter: newLimiter(perMinute)}
	g.generate = g.prompt
	return g, nil
}

func newLimiter(perMinute int) *rate.Limiter {
	if perMinute <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1)
}

func (g *Gemini) prompt(ctx context.Context, text string) (string, error) {
	res, err := g.client.Models.GenerateContent(ctx, g.model, []*genai.Content{
		genai.NewContentFromText(text, genai.RoleUser),
	}, nil)
	if err != nil {
		return "", err
	}
	return res.Text(), nil
}

func (g *Gemini) ask(ctx context.Context, text string) (string, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return "", err
	}
	out, err := g.generate(ctx, text)
	if err != nil {
		return "", fmt.Errorf("gemini %s: %w", g.model, err)
	}
	return stripCodeFences(out), nil
}

func (g *Gemini) Solve(ctx context.Context, chapterTitle, question string) (string, error) {
	p := "You are a teacher writing the solution to a textbook problem from the chapter '" + chapterTitle + "'. " +
		"Solve it step by step in plain text, at most 150 words, ending with the final answer. " +
		"No Markdown, no code fences.\n\nProblem: " + question
	return g.ask(ctx, p)
}

func (g *Gemini) SuggestTips(ctx context.Context, chapterTitle, question string) ([]string, error) {
	p := fmt.Sprintf("List at most %d short tips, one per line, for solving this problem from the chapter '%s'. "+
		"No numbering, no extra text.\n\nProblem: %s", MaxTips, chapterTitle, question)
	out, err := g.ask(ctx, p)
	if err != nil {
		return nil, err
	}
	var tips []string
	for _, ln := range splitLines(out) {
		if t := trimBullet(ln); t != "" {
			tips = append(tips, t)
		}
	}
	if len(tips) > MaxTips {
		tips = tips[:MaxTips]
	}
	return tips, nil
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if nl := strings.Index(s, "\n"); nl != -1 {
			s = s[nl+1:]
		} else {
			s = strings.TrimPrefix(s, "```")
		}
	}
	return strings.TrimSpace(strings.TrimSuffix(s, "```"))
}

func splitLines(s string) []string {
	var lines []string
	for _, ln := range strings.FieldsFunc(s, func(r rune) bool { return r == '\n' || r == '\r' }) {
		if ln = strings.TrimSpace(ln); ln != "" {
			lines = append(lines, ln)
		}
	}
	return lines
}

// trimBullet drops a leading "-", "*", "•" or "N." marker.
func trimBullet(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimLeft(s, "-*• ")
	if i := strings.IndexAny(s, ".)"); i > 0 && i <= 2 && isDigits(s[:i]) {
		s = s[i+1:]
	}
	return strings.TrimSpace(s)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
