package cli

import (
	"context"
	"errors"
	"expvar"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"warburtonsos/internal/adapters/httpapi"
	"warburtonsos/internal/report"
	"warburtonsos/internal/shell"
)

// NewServeCommand creates the serve command.
func NewServeCommand(opts *RootOptions) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the desktop JSON API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			if addr == "" {
				addr = opts.cfg.HTTP.Addr
			}
			return serve(ctx, opts, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides http.addr)")
	return cmd
}

func serve(ctx context.Context, opts *RootOptions, addr string) error {
	rt, err := bootstrap(ctx, opts)
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close() }()

	exports := report.NewExportWorker(rt.archive, 0, rt.logger)
	exports.Start()

	clock := shell.NewClock(time.Second)
	api := httpapi.NewHandler(rt.service)
	api.Archive = rt.archive
	api.Exports = exports
	api.Activity = rt.activity
	api.Clock = clock
	api.Metrics = promhttp.HandlerFor(rt.registry, promhttp.HandlerOpts{})

	mux := http.NewServeMux()
	mux.Handle("/debug/vars", expvar.Handler())
	mux.Handle("/", api)

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		clock.Run(gctx, nil)
		return nil
	})
	g.Go(func() error {
		rt.logger.Info("listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), opts.cfg.GetShutdownTimeout())
		defer cancel()
		rt.logger.Info("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			rt.logger.Warn("http shutdown", zap.Error(err))
		}
		return exports.Stop(shutdownCtx)
	})
	return g.Wait()
}
