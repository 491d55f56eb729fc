package main

import (
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/thywilljoshua/problem-pages/internal/convert"
)

func extractCmd() *cobra.Command {
	var noIndex bool

	cmd := &cobra.Command{
		Use:   "extract [pdf or dir...]",
		Short: "Extract problems from PDFs into HTML pages and subject indexes",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			inputs, err := inputPaths(args)
			if err != nil {
				return err
			}
			enhancer, err := newEnhancer(ctx, stringSetting(cmd, "ai", "ai.provider"))
			if err != nil {
				return err
			}

			conf := convert.Config{
				Inputs:   inputs,
				OutDir:   viper.GetString("out"),
				Subject:  stringSetting(cmd, "subject", "subject"),
				Dedupe:   boolSetting(cmd, "dedupe", "dedupe"),
				NoIndex:  noIndex,
				Enhancer: enhancer,
				Logger:   slog.Default(),
			}
			db, err := openStore()
			if err != nil {
				return err
			}
			if db != nil {
				defer db.Close()
				conf.Store = db
			}

			res, err := convert.Run(ctx, conf)
			if err != nil {
				return err
			}
			return printResult(cmd, res)
		},
	}
	cmd.Flags().String("subject", convert.SubjectAuto, "subject: maths|physics|auto (auto picks per file from its name or folder)")
	cmd.Flags().Bool("dedupe", false, "drop problems whose question repeats within a file")
	cmd.Flags().BoolVar(&noIndex, "no-index", false, "do not write subject index pages")
	cmd.Flags().String("ai", "off", "AI provider for missing solutions and tips: off|gemini")
	return cmd
}
