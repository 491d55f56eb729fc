package main

import (
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/thywilljoshua/problem-pages/internal/convert"
)

func generateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate [book.yaml...]",
		Short: "Render authored problem books into HTML pages",
		Long: `generate renders problem books written in YAML. Backgrounds and solutions
are Markdown. Without arguments the built-in sample books are rendered.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf := convert.Config{
				OutDir: viper.GetString("out"),
				Books:  args,
				Logger: slog.Default(),
			}
			db, err := openStore()
			if err != nil {
				return err
			}
			if db != nil {
				defer db.Close()
				conf.Store = db
			}

			res, err := convert.Generate(cmd.Context(), conf)
			if err != nil {
				return err
			}
			return printResult(cmd, res)
		},
	}
	return cmd
}
