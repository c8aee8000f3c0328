package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nhle/mailtodo/internal/model"
	"github.com/nhle/mailtodo/internal/reconcile"
	"github.com/nhle/mailtodo/internal/store"
)

func newEmailsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "emails",
		Short: "Inspect ingested mail and correct its classification",
	}
	cmd.AddCommand(newEmailsListCmd(), newEmailsExcludeCmd(), newEmailsPromoteCmd())
	return cmd
}

func newEmailsListCmd() *cobra.Command {
	var (
		todosOnly bool
		limit     int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show ingested mail, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, s, err := loadApp()
			if err != nil {
				return err
			}
			defer s.Close()

			filter := store.MessageFilter{Limit: limit}
			if todosOnly {
				flag := model.FlagTodo
				filter.TodoFlag = &flag
			}

			msgs, err := s.ListMessages(cmd.Context(), filter)
			if err != nil {
				return err
			}
			if len(msgs) == 0 {
				fmt.Println("no mail ingested yet")
				return nil
			}

			fmt.Printf("%s  %s  %s  %s  %s\n",
				headerStyle.Render(pad("FINGERPRINT", 12)),
				headerStyle.Render(pad("RECEIVED", 10)),
				headerStyle.Render(pad("FLAG", 12)),
				headerStyle.Render(pad("DEADLINE", 10)),
				headerStyle.Render("SUBJECT"),
			)
			for _, m := range msgs {
				flag := m.TodoFlag.String()
				if m.CompletionState != model.CompletionOpen {
					flag = m.CompletionState
				}
				fmt.Printf("%s  %s  %s  %s  %s\n",
					idStyle.Render(pad(shortID(m.Fingerprint), 12)),
					m.ReceivedAt.Format("2006/01/02"),
					pad(flag, 12),
					pad(m.Deadline, 10),
					m.Subject,
				)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&todosOnly, "todos", false, "only mail classified as a todo")
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum rows to show")
	return cmd
}

func newEmailsExcludeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "exclude <fingerprint>",
		Short: "Mark mail as not actionable and drop its derived todo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, s, err := loadApp()
			if err != nil {
				return err
			}
			defer s.Close()

			fp, err := resolveFingerprint(cmd, s, args[0])
			if err != nil {
				return err
			}
			if err := reconcile.New(s).ExcludeBySource(cmd.Context(), fp); err != nil {
				return err
			}

			fmt.Printf("excluded %s\n", shortID(fp))
			return nil
		},
	}
}

func newEmailsPromoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "promote <fingerprint>",
		Short: "Mark mail as actionable and create its todo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, s, err := loadApp()
			if err != nil {
				return err
			}
			defer s.Close()

			fp, err := resolveFingerprint(cmd, s, args[0])
			if err != nil {
				return err
			}
			if err := reconcile.New(s).PromoteBySource(cmd.Context(), fp); err != nil {
				return err
			}

			fmt.Printf("promoted %s\n", shortID(fp))
			return nil
		},
	}
}

// resolveFingerprint expands a unique fingerprint prefix to the full value.
func resolveFingerprint(cmd *cobra.Command, s store.Store, prefix string) (string, error) {
	msgs, err := s.ListMessages(cmd.Context(), store.MessageFilter{})
	if err != nil {
		return "", err
	}

	var match string
	for _, m := range msgs {
		if m.Fingerprint == prefix {
			return m.Fingerprint, nil
		}
		if len(prefix) >= 6 && len(m.Fingerprint) >= len(prefix) &&
			m.Fingerprint[:len(prefix)] == prefix {
			if match != "" && match != m.Fingerprint {
				return "", fmt.Errorf("fingerprint prefix %q is ambiguous", prefix)
			}
			match = m.Fingerprint
		}
	}
	if match == "" {
		return "", fmt.Errorf("no mail matches fingerprint %q", prefix)
	}
	return match, nil
}
