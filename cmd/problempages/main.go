// Command problempages turns textbook PDFs and authored problem books into
// static HTML problem pages.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "problempages",
	Short: "Generate HTML problem pages from textbook PDFs",
	Long: `problempages reads textbook chapter PDFs, finds the questions and worked
solutions in their text, and writes one static HTML page per problem with an
index per subject. It can also list bare questions as a text report, render
authored problem books, and rebuild reports from a run database.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogging(viper.GetString("log_level"))
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./problempages.yaml or ~/.config/problempages/problempages.yaml)")
	pf.String("log-level", "info", "log level: debug|info|warn|error")
	pf.Bool("no-color", false, "plain summary output")
	pf.StringP("out", "o", ".", "output directory")
	pf.String("db", "", "SQLite run database (empty: do not record runs)")

	_ = viper.BindPFlag("log_level", pf.Lookup("log-level"))
	_ = viper.BindPFlag("no_color", pf.Lookup("no-color"))
	_ = viper.BindPFlag("out", pf.Lookup("out"))
	_ = viper.BindPFlag("db", pf.Lookup("db"))

	rootCmd.AddCommand(extractCmd(), questionsCmd(), generateCmd(), reportCmd())
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("problempages")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "problempages"))
		}
	}

	viper.SetEnvPrefix("PROBLEMPAGES")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
