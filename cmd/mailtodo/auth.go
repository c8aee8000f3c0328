package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nhle/mailtodo/internal/credential"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Store the mailbox password in the OS keyring",
	}
	cmd.AddCommand(newAuthSetCmd(), newAuthRmCmd())
	return cmd
}

func newAuthSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set",
		Short: "Read a password from stdin and save it for the configured account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfigOnly()
			if err != nil {
				return err
			}
			if err := cfg.Mailbox.Validate(); err != nil {
				return err
			}

			fmt.Fprintf(os.Stderr, "password for %s@%s: ",
				cfg.Mailbox.User, cfg.Mailbox.Host)
			reader := bufio.NewReader(os.Stdin)
			password, err := reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("reading password: %w", err)
			}
			password = strings.TrimRight(password, "\r\n")
			if password == "" {
				return fmt.Errorf("password must not be empty")
			}

			key := credential.MailboxKey(cfg.Mailbox.User, cfg.Mailbox.Host)
			if err := credential.Set(key, password); err != nil {
				return err
			}

			fmt.Printf("stored credential for %s@%s\n",
				cfg.Mailbox.User, cfg.Mailbox.Host)
			return nil
		},
	}
}

func newAuthRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm",
		Short: "Remove the stored password for the configured account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfigOnly()
			if err != nil {
				return err
			}
			if err := cfg.Mailbox.Validate(); err != nil {
				return err
			}

			key := credential.MailboxKey(cfg.Mailbox.User, cfg.Mailbox.Host)
			if err := credential.Delete(key); err != nil {
				return err
			}

			fmt.Printf("removed credential for %s@%s\n",
				cfg.Mailbox.User, cfg.Mailbox.Host)
			return nil
		},
	}
}
