// Command mailtodo polls a remote mailbox, classifies actionable mail,
// and maintains a local todo list derived from it.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/nhle/mailtodo/internal/credential"
	"github.com/nhle/mailtodo/internal/mailbox"
	"github.com/nhle/mailtodo/internal/model"
	"github.com/nhle/mailtodo/internal/store"
	"github.com/nhle/mailtodo/internal/sync"
)

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:           "mailtodo",
		Short:         "Mail-to-todo poller: ingest inbox mail and track actionable items",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(
		&configPath, "config", model.DefaultConfigPath(),
		"path to the YAML configuration file",
	)

	rootCmd.AddCommand(
		newRunCmd(),
		newSyncCmd(),
		newTodosCmd(),
		newEmailsCmd(),
		newKeywordsCmd(),
		newAuthCmd(),
		newConfigCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}
}

// loadConfigOnly loads the configuration without opening the store.
func loadConfigOnly() (*model.AppConfig, error) {
	return model.LoadConfig(configPath)
}

// loadApp loads the configuration and opens the store. The mailbox
// password, when absent from the config, is resolved from the OS keyring.
func loadApp() (*model.AppConfig, *store.SQLiteStore, error) {
	cfg, err := model.LoadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}

	if cfg.Mailbox.Password == "" && cfg.Mailbox.User != "" {
		key := credential.MailboxKey(cfg.Mailbox.User, cfg.Mailbox.Host)
		if pw, err := credential.Get(key); err == nil {
			cfg.Mailbox.Password = pw
		}
	}

	s, err := store.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}

	return cfg, s, nil
}

// buildPipeline wires the transport, classifier, and store for the
// configured mailbox account.
func buildPipeline(
	ctx context.Context,
	cfg *model.AppConfig,
	s *store.SQLiteStore,
) (*sync.Pipeline, error) {
	client, err := mailbox.New(cfg.Mailbox)
	if err != nil {
		return nil, err
	}

	p, err := sync.NewPipeline(ctx, s, client, cfg.Classifier)
	if err != nil {
		return nil, err
	}

	if cfg.Mailbox.CheckpointOverride != "" {
		t, err := time.Parse("2006-01-02", cfg.Mailbox.CheckpointOverride)
		if err != nil {
			return nil, fmt.Errorf(
				"invalid checkpoint_override %q: %w",
				cfg.Mailbox.CheckpointOverride, err,
			)
		}
		p.SetCheckpointOverride(t.UTC())
	}

	return p, nil
}
