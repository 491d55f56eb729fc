package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/thywilljoshua/problem-pages/internal/convert"
)

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

func setupLogging(level string) error {
	logger, err := newLogger(os.Stderr, level)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)
	return nil
}

func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}

// printResult writes the JSON result on stdout and a one-line summary on
// stderr.
func printResult(cmd *cobra.Command, res convert.Result) error {
	b, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(b))
	fmt.Fprintln(cmd.ErrOrStderr(), summary(res, viper.GetBool("no_color")))
	return nil
}

func summary(res convert.Result, noColor bool) string {
	paint := func(s lipgloss.Style, text string) string {
		if noColor {
			return text
		}
		return s.Render(text)
	}
	unit := "problems"
	if res.Command == "questions" {
		unit = "questions"
	}
	parts := []string{paint(okStyle, fmt.Sprintf("%s: %d %s", res.Command, res.Problems, unit))}
	if n := len(res.Sources); n > 0 {
		parts = append(parts, fmt.Sprintf("from %d sources", n))
	}
	if n := len(res.Skipped); n > 0 {
		parts = append(parts, paint(warnStyle, fmt.Sprintf("%d skipped", n)))
	}
	where := res.OutDir
	if res.Report != "" {
		where = res.Report
	}
	parts = append(parts, paint(dimStyle, "-> "+where))
	return strings.Join(parts, " ")
}
