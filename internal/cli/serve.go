package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/rohmanhakim/consents/internal/consent"
	"github.com/rohmanhakim/consents/internal/server"
	"github.com/rohmanhakim/consents/pkg/limiter"
	"github.com/rohmanhakim/consents/pkg/timeutil"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var serveEmpty bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the consent collection over HTTP",
	Long: `Serve GET/POST /consents backed by an in-memory collection.

The collection starts with a fixed set of sample records (unless --empty is
given) and is reset on every restart.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().BoolVar(&serveEmpty, "empty", false, "start with an empty collection")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := InitConfigWithError()
	if err != nil {
		return err
	}
	logger := newLogger(cfg, os.Stderr)

	seed := server.SeedRecords()
	if serveEmpty {
		seed = []consent.Record{}
	}
	var opts []server.Option
	if cfg.SubmitInterval() > 0 {
		throttle := limiter.NewConcurrentRateLimiter(
			cfg.SubmitInterval(),
			timeutil.NewBackoffParam(cfg.SubmitInterval(), cfg.BackoffMultiplier(), cfg.BackoffMaxDuration()),
		)
		logger.Debug().Dur("base_delay", throttle.GetBaseDelay()).Msg("submit throttling enabled")
		opts = append(opts, server.WithSubmitLimiter(throttle))
	}
	srv := server.New(server.NewCollection(seed), cfg.PageSize(), logger, opts...)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(gctx, cfg.ListenAddr())
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("stop requested")
		stop()
		return nil
	})

	return g.Wait()
}
