package main

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cognicore/reviewlens/internal/logging"
	"github.com/cognicore/reviewlens/pkg/reviewlens/cache/sqlite"
	"github.com/cognicore/reviewlens/pkg/reviewlens/internalerr"
)

func newCacheCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Maintain the persistent result cache",
	}

	var olderThan time.Duration
	purge := &cobra.Command{
		Use:   "purge",
		Short: "Delete cached results older than the cache TTL",
		Long: `purge deletes entries from the SQLite cache named by --cache-path or the
config file. Without --older-than the configured cache TTL is the cutoff, so
only entries no run would replay are removed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.resolveConfig()
			if err != nil {
				return err
			}
			if cfg.CachePath == "" {
				return fmt.Errorf("%w: purge needs a persistent cache (--cache-path)", internalerr.ErrInvalidInput)
			}
			log, err := logging.Setup(cfg.LogLevel, a.errOut)
			if err != nil {
				return err
			}

			age := cfg.TTL()
			if cmd.Flags().Changed("older-than") {
				age = olderThan
			}
			if age < 0 {
				return fmt.Errorf("%w: --older-than must not be negative", internalerr.ErrInvalidInput)
			}

			ctx := cmd.Context()
			store, err := sqlite.Open(ctx, cfg.CachePath)
			if err != nil {
				return fmt.Errorf("open cache %s: %w", cfg.CachePath, err)
			}
			defer store.Close()

			n, err := store.Purge(ctx, time.Now().Add(-age))
			if err != nil {
				return fmt.Errorf("purge cache %s: %w", cfg.CachePath, err)
			}
			log.WithFields(logrus.Fields{
				"cache":  cfg.CachePath,
				"age":    age.String(),
				"purged": n,
			}).Info("cache purged")
			fmt.Fprintf(a.out, "purged %d cache entries\n", n)
			return nil
		},
	}
	purge.Flags().DurationVar(&olderThan, "older-than", 0, "purge entries at least this old (default: the cache TTL)")

	cmd.AddCommand(purge)
	return cmd
}
