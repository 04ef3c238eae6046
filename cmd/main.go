package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"social-sprout/internal/adapter/blob"
	httpadapter "social-sprout/internal/adapter/http"
	"social-sprout/internal/adapter/provider"
	"social-sprout/internal/adapter/usecase"
	"social-sprout/internal/config"
	"social-sprout/internal/db"
)

var (
	envFile string
	cfg     config.Config
	logger  *slog.Logger
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "social-sprout",
		Short:         "Campaign post generation service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cfg, err = config.Load(envFile)
			if err != nil {
				slog.Error("failed to load config", slog.Any("error", err))
				return err
			}
			logger = cfg.Log.New(os.Stdout)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file applied before reading the environment")

	var sweepTimeout time.Duration
	sweep := &cobra.Command{
		Use:   "sweep",
		Short: "Recover generation runs left unfinished by a stopped server",
		Long: `Scans the run ledger for unfinished runs, fails interrupted posts and
resumes or fails the rest according to GENERATION_RECOVERY. Do not run it
while a server is generating against the same store.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSweep(cmd.Context(), sweepTimeout)
		},
	}
	sweep.Flags().DurationVar(&sweepTimeout, "timeout", 10*time.Minute, "how long to wait for resumed runs")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP API and the generation workers",
			RunE:  func(cmd *cobra.Command, _ []string) error { return runServe(cmd.Context()) },
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Apply database migrations (postgres) or create indexes (mongo)",
			RunE:  func(cmd *cobra.Command, _ []string) error { return runMigrate(cmd.Context()) },
		},
		&cobra.Command{
			Use:   "seed",
			Short: "Insert demo campaigns and posts",
			RunE:  func(cmd *cobra.Command, _ []string) error { return runSeed(cmd.Context()) },
		},
		sweep,
	)
	return root
}

// runServe starts the generation pool, recovers the ledger, then serves HTTP
// until SIGINT or SIGTERM. In-flight requests are drained first, then the
// pool.
func runServe(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	repo, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("store error", slog.Any("error", err))
		return err
	}
	defer closeStore()

	paywall := provider.NewPaywall(cfg.Payment)
	gate, err := usecase.NewPaymentGate(cfg.Payment.Mode, paywall, provider.Currency(cfg.Payment), cfg.Payment.QuoteTTL)
	if err != nil {
		return err
	}
	blobs, err := blob.NewDiskStore(cfg.Assets.Dir, cfg.Assets.PublicBaseURL)
	if err != nil {
		return err
	}

	pool, err := newGenerationPool(cfg, repo, logger)
	if err != nil {
		logger.Error("provider error", slog.Any("error", err))
		return err
	}
	pool.Start()

	recovery := newRecovery(cfg, repo, pool, logger)
	report, recoverErr := recovery.Recover(ctx)
	if recoverErr != nil {
		logger.Error("recovery error", slog.Any("error", recoverErr))
	} else if report.Runs > 0 {
		logger.Info("recovered unfinished runs",
			slog.Int("runs", report.Runs),
			slog.Int("failed_posts", report.FailedPosts),
			slog.Int("requeued", report.Requeued))
	}
	go recovery.Run(ctx, cfg.Generation.RecoveryInterval)

	handler := httpadapter.NewHandler(
		usecase.NewCampaignUseCase(repo, gate, pool, placeholderPolicy(cfg), logger),
		usecase.NewPostUseCase(repo, logger),
		usecase.NewAssetUseCase(repo, blobs, logger),
		httpadapter.Options{
			AssetsDir:      blobs.Dir(),
			MaxBodyBytes:   cfg.HTTP.MaxBodyBytes,
			MaxUploadBytes: cfg.Assets.MaxUploadBytes,
		},
		logger,
	)
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           handler.Router(),
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", slog.Int("port", int(cfg.HTTP.Port)), slog.String("store", cfg.Store.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case err = <-serveErr:
		logger.Error("server error", slog.Any("error", err))
	}
	// stops the requeue loop before the pool closes
	cancel()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
	} else {
		logger.Info("server gracefully stopped")
	}

	poolCtx, cancelPool := context.WithTimeout(context.Background(), cfg.Generation.ShutdownTimeout)
	defer cancelPool()
	if err := pool.Shutdown(poolCtx); err != nil {
		logger.Warn("generation pool did not drain, unfinished runs resume on next start", slog.Any("error", err))
	} else {
		logger.Info("generation pool stopped")
	}
	return err
}

func runMigrate(ctx context.Context) error {
	switch cfg.Store.Driver {
	case "postgres":
		if err := db.Migrate(cfg.Psql.Addr.String()); err != nil {
			logger.Error("migration error", slog.Any("error", err))
			return err
		}
		logger.Info("migrations applied successfully")
		return nil
	case "mongo":
		_, closeStore, err := openStore(ctx, cfg, logger)
		if err != nil {
			logger.Error("mongo error", slog.Any("error", err))
			return err
		}
		closeStore()
		logger.Info("indexes created")
		return nil
	default:
		return fmt.Errorf("store driver %q has no schema", cfg.Store.Driver)
	}
}

func runSeed(ctx context.Context) error {
	repo, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()
	if err = db.Seed(ctx, repo, time.Now().UTC()); err != nil {
		logger.Error("seed error", slog.Any("error", err))
		return err
	}
	logger.Info("demo data inserted")
	return nil
}

// runSweep recovers the ledger with its own pool and waits for resumed runs
// to finish.
func runSweep(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	repo, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	pool, err := newGenerationPool(cfg, repo, logger)
	if err != nil {
		return err
	}
	pool.Start()

	report, err := newRecovery(cfg, repo, pool, logger).Recover(ctx)
	if err != nil {
		logger.Error("recovery error", slog.Any("error", err))
	}
	logger.Info("sweep finished",
		slog.Int("runs", report.Runs),
		slog.Int("failed_posts", report.FailedPosts),
		slog.Int("requeued", report.Requeued))

	waitCtx, cancelWait := context.WithTimeout(ctx, timeout)
	defer cancelWait()
	if shutdownErr := pool.Shutdown(waitCtx); shutdownErr != nil {
		logger.Warn("resumed runs still pending", slog.Any("error", shutdownErr))
	}
	return err
}
