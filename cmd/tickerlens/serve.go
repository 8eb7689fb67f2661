package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"TickerLens/internal/api"
	"TickerLens/internal/metrics"
	"TickerLens/internal/notifier"
	"TickerLens/internal/scheduler"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API, metrics, scheduled reports and Telegram commands",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		log.Println("[INFO] TickerLens starting...")

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		m := metrics.NewMetrics(reg)

		rec := provideRecorder(cfg)
		defer rec.Close()

		col, cleanup, err := provideCollector(cfg, m, rec)
		if err != nil {
			return err
		}
		defer cleanup()

		mux := http.NewServeMux()
		api.RegisterRoutes(mux, col, cfg.DefaultRequest(), reg)
		srv := api.NewServer(cfg.HTTP.Addr, mux)

		g, gctx := errgroup.WithContext(ctx)

		var sched *scheduler.Scheduler
		var tn *notifier.TelegramNotifier
		if cfg.TelegramEnabled() {
			tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
			sched = scheduler.NewScheduler(gctx, col, tn, cfg.DefaultRequest())
			if err := sched.Register(cfg.Schedule.ReportCron); err != nil {
				return fmt.Errorf("register cron tasks: %w", err)
			}
		}

		g.Go(func() error {
			log.Printf("[INFO] HTTP API listening on %s", cfg.HTTP.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("http server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})

		if sched != nil {
			sched.Start()
			g.Go(func() error {
				<-gctx.Done()
				sched.Stop()
				return nil
			})
			g.Go(func() error {
				tn.StartPolling(gctx, sched.HandleCommand)
				return nil
			})
			log.Println("[INFO] Telegram polling started")

			if os.Getenv("RUN_ON_START") == "true" {
				log.Println("[INFO] RUN_ON_START enabled, executing report task now")
				go sched.RunReportNow()
			}
		} else {
			log.Println("[INFO] Telegram not configured, scheduled reports disabled")
		}

		log.Println("[INFO] TickerLens is running. Press Ctrl+C to stop.")
		err = g.Wait()
		log.Println("[INFO] TickerLens stopped")
		return err
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
