package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/nhle/mailtodo/internal/sync"
)

// newSyncCmd runs the ingestion pipeline once and exits.
func newSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Fetch, classify, and reconcile new mail once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, s, err := loadApp()
			if err != nil {
				return err
			}
			defer s.Close()

			if err := cfg.Mailbox.Validate(); err != nil {
				return err
			}

			p, err := buildPipeline(cmd.Context(), cfg, s)
			if err != nil {
				return err
			}

			res := p.Run(cmd.Context())
			if res.Err != nil {
				return res.Err
			}

			log.Info(res.Message())
			return nil
		},
	}
}

// newRunCmd starts the recurring sync scheduler and blocks until the
// process receives an interrupt or termination signal.
func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the recurring mail sync until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, s, err := loadApp()
			if err != nil {
				return err
			}
			defer s.Close()

			if err := cfg.Mailbox.Validate(); err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			p, err := buildPipeline(ctx, cfg, s)
			if err != nil {
				return err
			}

			interval := time.Duration(cfg.Mailbox.PollIntervalSec) * time.Second
			sched := sync.NewScheduler(p, interval, func(res sync.RunResult) {
				if res.Err == nil {
					log.Info(res.Message())
				}
			})
			sched.Start()

			log.Info("scheduler started",
				"interval", interval.String(),
				"mailbox", cfg.Mailbox.User+"@"+cfg.Mailbox.Host,
			)

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
			<-sigCh

			log.Info("shutting down")
			sched.Stop()
			return nil
		},
	}
}
