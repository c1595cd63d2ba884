// Command probe fetches and normalizes the menus of several locations for one
// date and logs what each produced. It is an operator check against upstream
// shape changes; nothing is stored.
package main

import (
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/semaphore"

	"nutricheck/internal/adapters/campusdish"
	"nutricheck/internal/adapters/observability"
	"nutricheck/internal/app"
	"nutricheck/internal/shared"
)

const upstreamDateLayout = "01/02/2006"

func main() {
	cfg := shared.Load()
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	if err := newRootCmd(cfg).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(cfg shared.Config) *cobra.Command {
	var (
		date    string
		workers int
	)
	root := &cobra.Command{
		Use:           "probe [locationId...]",
		Short:         "Fetch and normalize menus for a list of dining locations",
		Long:          "probe runs the menu pipeline for each location (arguments, or PROBE_LOCATIONS) and logs item counts and empty menus.",
		SilenceErrors: true, // main prints the error once
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			locations := args
			if len(locations) == 0 {
				locations = cfg.ProbeLocations
			}
			if len(locations) == 0 {
				return fmt.Errorf("no locations: pass ids as arguments or set PROBE_LOCATIONS")
			}
			return run(cmd.Context(), cfg, locations, date, workers)
		},
	}
	root.Flags().StringVar(&date, "date", time.Now().Format(upstreamDateLayout), "menu date in the upstream format")
	root.Flags().IntVar(&workers, "workers", cfg.ProbeWorkers, "concurrent fetches")
	return root
}

func run(ctx context.Context, cfg shared.Config, locations []string, date string, workers int) error {
	if workers <= 0 {
		workers = 1
	}
	log.Info().
		Str("base", cfg.CampusDishBase).
		Int("workers", workers).
		Int("locations", len(locations)).
		Str("date", date).
		Msg("probe starting")

	client := campusdish.New(campusdish.Options{
		Base:     cfg.CampusDishBase,
		Username: cfg.CampusDishUser,
		Password: cfg.CampusDishPass,
		AuthMode: cfg.CampusDishAuthMode,
		Timeout:  cfg.UpstreamTimeout,
		RPS:      cfg.UpstreamRPS,
	})
	norm := app.NewNormalizer(app.NormalizerOptions{SourceTag: cfg.SourceTag, MaxDepth: cfg.SearchDepth})
	menu := app.NewMenuService(client, norm, nil)

	sem := semaphore.NewWeighted(int64(workers))
	var wg sync.WaitGroup
	var failed atomic.Int32

	var acquireErr error
	for _, id := range locations {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			acquireErr = fmt.Errorf("semaphore acquire: %w", err)
			break
		}

		wg.Add(1)
		go func(locationID string) {
			defer wg.Done()
			defer sem.Release(1)

			items, err := menu.GetMenu(ctx, locationID, date)
			if err != nil {
				failed.Add(1)
				log.Warn().Str("location", locationID).Err(err).Msg("probe failed")
				return
			}
			empty := len(items) == 1 && norm.IsNoItems(items[0])
			ev := log.Info().Str("location", locationID).Int("items", len(items)).Bool("empty", empty)
			if empty {
				ev = ev.Str("reason", items[0].Name)
			}
			ev.Msg("probe ok")
		}(id)
	}

	wg.Wait()
	if acquireErr != nil {
		return acquireErr
	}
	log.Info().Int32("failed", failed.Load()).Msg("probe completed")
	if n := failed.Load(); n > 0 {
		return fmt.Errorf("%d of %d locations failed", n, len(locations))
	}
	return nil
}
