package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newKeywordsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keywords",
		Short: "Manage user-defined classification keywords",
	}
	cmd.AddCommand(
		newKeywordsListCmd(),
		newKeywordsAddCmd(),
		newKeywordsRmCmd(),
	)
	return cmd
}

func newKeywordsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show user-defined keywords",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, s, err := loadApp()
			if err != nil {
				return err
			}
			defer s.Close()

			keywords, err := s.GetKeywords(cmd.Context())
			if err != nil {
				return err
			}
			if len(keywords) == 0 {
				fmt.Println("no user-defined keywords (built-in defaults still apply)")
				return nil
			}
			for _, k := range keywords {
				fmt.Println(k)
			}
			return nil
		},
	}
}

func newKeywordsAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <keyword>",
		Short: "Add a keyword to the classifier",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, s, err := loadApp()
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.AddKeyword(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Printf("added %q\n", args[0])
			return nil
		},
	}
}

func newKeywordsRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <keyword>",
		Short: "Remove a keyword",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, s, err := loadApp()
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.DeleteKeyword(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Printf("removed %q\n", args[0])
			return nil
		},
	}
}
