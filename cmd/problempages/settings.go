package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/thywilljoshua/problem-pages/internal/ai"
	"github.com/thywilljoshua/problem-pages/internal/store"
)

// stringSetting prefers an explicit flag, then the config key, then the
// flag default.
func stringSetting(cmd *cobra.Command, flag, key string) string {
	f := cmd.Flags().Lookup(flag)
	if !f.Changed && viper.IsSet(key) {
		return viper.GetString(key)
	}
	return f.Value.String()
}

func boolSetting(cmd *cobra.Command, flag, key string) bool {
	if !cmd.Flags().Changed(flag) && viper.IsSet(key) {
		return viper.GetBool(key)
	}
	v, _ := cmd.Flags().GetBool(flag)
	return v
}

// inputPaths falls back to the configured inputs when no paths are given.
func inputPaths(args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	if in := viper.GetStringSlice("inputs"); len(in) > 0 {
		return in, nil
	}
	return nil, fmt.Errorf("no input paths: pass them as arguments or set inputs in the config file")
}

// openStore opens the run database when one is configured. The returned
// store is nil otherwise.
func openStore() (*store.Store, error) {
	path := viper.GetString("db")
	if path == "" {
		return nil, nil
	}
	return store.Open(path)
}

func newEnhancer(ctx context.Context, provider string) (ai.Enhancer, error) {
	switch strings.ToLower(provider) {
	case "", "off":
		return ai.Noop{}, nil
	case "gemini":
		key := viper.GetString("ai.api_key")
		if key == "" {
			key = os.Getenv("GOOGLE_API_KEY")
		}
		return ai.NewGemini(ctx, key, viper.GetString("ai.model"), viper.GetInt("ai.rate_per_minute"))
	}
	return nil, fmt.Errorf("unknown AI provider %q (want off or gemini)", provider)
}
