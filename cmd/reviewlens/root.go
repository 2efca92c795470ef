package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// app carries the state shared by all subcommands of one invocation.
type app struct {
	v      *viper.Viper
	out    io.Writer
	errOut io.Writer
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{v: viper.New(), out: out, errOut: errOut}

	root := &cobra.Command{
		Use:   "reviewlens",
		Short: "Categorize product reviews along taxonomy dimensions",
		Long: `reviewlens extracts scenario, purpose, user and other category mentions
from review text, summarizes them per category and ranks the findings.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.loadEnv()
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	flags := root.PersistentFlags()
	flags.String("config", "", "YAML config file (or set REVIEWLENS_CONFIG)")
	flags.String("cache-path", "", "SQLite cache file; empty keeps the cache in memory (or set REVIEWLENS_CACHE_PATH)")
	flags.String("log-level", "", "debug, info, warn or error (or set REVIEWLENS_LOG_LEVEL)")
	flags.Bool("quiet", false, "disable the progress bar")
	for _, name := range []string{"config", "cache-path", "log-level", "quiet"} {
		if err := a.v.BindPFlag(name, flags.Lookup(name)); err != nil {
			panic(fmt.Sprintf("bind flag %s: %v", name, err))
		}
	}
	a.v.SetEnvPrefix("REVIEWLENS")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	root.AddCommand(
		newAnalyzeCmd(a),
		newInsightsCmd(a),
		newCorrelateCmd(a),
		newTaxonomyCmd(a),
		newCacheCmd(a),
	)
	return root
}

// loadEnv reads .env from the working directory when present. Variables
// already set in the environment win.
func (a *app) loadEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}
