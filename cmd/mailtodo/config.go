package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nhle/mailtodo/internal/model"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}
	cmd.AddCommand(newConfigInitCmd())
	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var (
		protocol string
		host     string
		user     string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(configPath); err == nil {
				return fmt.Errorf("config %s already exists", configPath)
			}

			cfg := &model.AppConfig{
				Mailbox: model.MailboxConfig{
					Protocol:        protocol,
					Host:            host,
					User:            user,
					PollIntervalSec: 300,
				},
				Classifier: model.ClassifierConfig{ScorerEnabled: true},
				DBPath:     model.DefaultDBPath(),
			}
			if err := cfg.Mailbox.Validate(); err != nil {
				return err
			}

			if err := model.SaveConfig(configPath, cfg); err != nil {
				return err
			}

			fmt.Printf("wrote %s\n", configPath)
			fmt.Println("run `mailtodo auth set` to store the mailbox password")
			return nil
		},
	}

	cmd.Flags().StringVar(&protocol, "protocol", model.ProtocolIMAPSSL,
		"mailbox protocol: imap, imap-ssl, pop3, pop3-ssl")
	cmd.Flags().StringVar(&host, "host", "", "mail server hostname")
	cmd.Flags().StringVar(&user, "user", "", "mailbox account name")
	_ = cmd.MarkFlagRequired("host")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
