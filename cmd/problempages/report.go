package main

import (
	"errors"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/thywilljoshua/problem-pages/internal/convert"
)

func reportCmd() *cobra.Command {
	var noIndex bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Rebuild the text report and indexes from the latest recorded run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openStore()
			if err != nil {
				return err
			}
			if db == nil {
				return errors.New("report needs a run database: pass --db or set db in the config file")
			}
			defer db.Close()

			conf := convert.Config{
				OutDir:     viper.GetString("out"),
				Subject:    stringSetting(cmd, "subject", "subject"),
				ReportPath: stringSetting(cmd, "report", "report"),
				NoIndex:    noIndex,
				Logger:     slog.Default(),
			}
			res, err := convert.Report(cmd.Context(), conf, db)
			if err != nil {
				return err
			}
			return printResult(cmd, res)
		},
	}
	cmd.Flags().String("subject", convert.SubjectAuto, "subject named in the report heading (auto: the run's subject when there is one)")
	cmd.Flags().String("report", "", "report file (default: <out>/"+convert.DefaultReportName+")")
	cmd.Flags().BoolVar(&noIndex, "no-index", false, "do not rebuild subject index pages")
	return cmd
}
