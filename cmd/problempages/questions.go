package main

import (
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/thywilljoshua/problem-pages/internal/convert"
)

func questionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "questions [pdf or dir...]",
		Short: "List the questions found in PDFs as a text report",
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs, err := inputPaths(args)
			if err != nil {
				return err
			}
			conf := convert.Config{
				Inputs:     inputs,
				OutDir:     viper.GetString("out"),
				Subject:    stringSetting(cmd, "subject", "subject"),
				ReportPath: stringSetting(cmd, "report", "report"),
				Logger:     slog.Default(),
			}
			db, err := openStore()
			if err != nil {
				return err
			}
			if db != nil {
				defer db.Close()
				conf.Store = db
			}

			res, err := convert.RunQuestions(cmd.Context(), conf)
			if err != nil {
				return err
			}
			return printResult(cmd, res)
		},
	}
	cmd.Flags().String("subject", convert.SubjectAuto, "subject named in the report heading (auto: none)")
	cmd.Flags().String("report", "", "report file (default: <out>/"+convert.DefaultReportName+")")
	return cmd
}
