package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/bnema/jobgate/internal/application"
)

const metricsShutdownTimeout = 5 * time.Second

func newWatchCmd(app *app) *cobra.Command {
	var metricsAddr string
	var count int

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Poll the plan and job list and re-render status every poll interval",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			session, err := app.newSession(ctx)
			if err != nil {
				return err
			}

			if metricsAddr != "" {
				shutdown := serveMetrics(app, metricsAddr)
				defer shutdown()
			}

			return runWatch(ctx, cmd, app, session, count)
		},
	}

	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. 127.0.0.1:9464)")
	cmd.Flags().IntVar(&count, "count", 0, "Stop after this many renders (0 runs until interrupted)")

	return cmd
}

func runWatch(ctx context.Context, cmd *cobra.Command, app *app, session *application.Session, count int) error {
	status, err := loadStatus(cmd, session, true)
	if err != nil {
		return err
	}
	if err := writeStatusOutput(cmd, app, status, false); err != nil {
		return err
	}
	if count == 1 {
		return nil
	}

	stopPoller := session.Poller.Start(ctx)
	defer stopPoller()

	ticker := time.NewTicker(app.cfg.PollInterval)
	defer ticker.Stop()

	for rendered := 1; count == 0 || rendered < count; rendered++ {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		if _, err := fmt.Fprintln(cmd.OutOrStdout()); err != nil {
			return err
		}
		if err := writeStatusOutput(cmd, app, session.CurrentStatus(), false); err != nil {
			return err
		}
	}

	return nil
}

func serveMetrics(app *app, addr string) (shutdown func()) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(app.registry, promhttp.HandlerOpts{}))
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("metrics server stopped")
		}
	}()
	log.Infof("serving metrics on http://%s/metrics", addr)

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			log.WithError(err).Warn("shutdown metrics server")
		}
	}
}
