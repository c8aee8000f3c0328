package main

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/nhle/mailtodo/internal/model"
	"github.com/nhle/mailtodo/internal/store"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	idStyle      = lipgloss.NewStyle().Faint(true)
	overdueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dueSoonStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

func newTodosCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "todos",
		Short: "List and manage todos",
	}
	cmd.AddCommand(
		newTodosListCmd(),
		newTodosAddCmd(),
		newTodosDoneCmd(),
		newTodosRmCmd(),
	)
	return cmd
}

func newTodosListCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show todos with their deadline countdown",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, s, err := loadApp()
			if err != nil {
				return err
			}
			defer s.Close()

			filter := store.TodoFilter{}
			if !all {
				state := model.TodoStateActive
				filter.State = &state
			}

			todos, err := s.ListTodos(cmd.Context(), filter)
			if err != nil {
				return err
			}
			if len(todos) == 0 {
				fmt.Println("no todos")
				return nil
			}

			printTodos(todos, time.Now())
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "include excluded todos")
	return cmd
}

func printTodos(todos []model.Todo, now time.Time) {
	fmt.Printf("%s  %s  %s  %s\n",
		headerStyle.Render(pad("ID", 8)),
		headerStyle.Render(pad("DUE", 10)),
		headerStyle.Render(pad("D-DAY", 6)),
		headerStyle.Render("TASK"),
	)
	for _, t := range todos {
		dday := t.DDay(now)
		styled := dday
		switch {
		case len(dday) > 1 && dday[1] == '+':
			styled = overdueStyle.Render(pad(dday, 6))
		case dday == "D-DAY" || dday == "D-1" || dday == "D-2" || dday == "D-3":
			styled = dueSoonStyle.Render(pad(dday, 6))
		default:
			styled = pad(dday, 6)
		}

		task := t.Task
		if t.State == model.TodoStateExcluded {
			task += " (excluded)"
		}

		fmt.Printf("%s  %s  %s  %s\n",
			idStyle.Render(pad(shortID(t.ID), 8)),
			pad(t.Deadline, 10),
			styled,
			task,
		)
	}
}

// pad right-fills to the rendered width, so wide runes (Hangul, CJK)
// keep the columns aligned.
func pad(s string, width int) string {
	for lipgloss.Width(s) < width {
		s += " "
	}
	return s
}

// shortID keeps todo listings readable; prefixes are accepted wherever a
// todo id is expected.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func newTodosAddCmd() *cobra.Command {
	var memo, deadline string

	cmd := &cobra.Command{
		Use:   "add <task>",
		Short: "Create a todo by hand",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, s, err := loadApp()
			if err != nil {
				return err
			}
			defer s.Close()

			if deadline != "" {
				if _, err := time.Parse("2006/01/02", deadline); err != nil {
					return fmt.Errorf("deadline must be YYYY/MM/DD: %w", err)
				}
			}

			id, err := s.CreateTodo(cmd.Context(), model.Todo{
				Task:     args[0],
				Memo:     memo,
				Deadline: deadline,
			})
			if err != nil {
				return err
			}

			fmt.Printf("created %s\n", shortID(id))
			return nil
		},
	}

	cmd.Flags().StringVar(&memo, "memo", "", "free-form note")
	cmd.Flags().StringVar(&deadline, "deadline", "", "deadline as YYYY/MM/DD")
	return cmd
}

func newTodosDoneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Complete a todo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, s, err := loadApp()
			if err != nil {
				return err
			}
			defer s.Close()

			id, err := resolveTodoID(cmd, s, args[0])
			if err != nil {
				return err
			}

			todos, err := s.ListTodos(cmd.Context(), store.TodoFilter{})
			if err != nil {
				return err
			}
			for _, todo := range todos {
				if todo.ID != id {
					continue
				}
				// A derived todo marks its source message completed as
				// well, so listings agree.
				if todo.SourceFingerprint != nil {
					err := s.SetMessageCompletion(cmd.Context(),
						*todo.SourceFingerprint, model.CompletionCompleted)
					if err != nil {
						return err
					}
				}
				break
			}

			if err := s.DeleteTodo(cmd.Context(), id); err != nil {
				return err
			}

			fmt.Printf("completed %s\n", shortID(id))
			return nil
		},
	}
}

func newTodosRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a todo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, s, err := loadApp()
			if err != nil {
				return err
			}
			defer s.Close()

			id, err := resolveTodoID(cmd, s, args[0])
			if err != nil {
				return err
			}
			if err := s.DeleteTodo(cmd.Context(), id); err != nil {
				return err
			}

			fmt.Printf("deleted %s\n", shortID(id))
			return nil
		},
	}
}

// resolveTodoID expands a unique id prefix to the full todo id.
func resolveTodoID(cmd *cobra.Command, s store.Store, prefix string) (string, error) {
	todos, err := s.ListTodos(cmd.Context(), store.TodoFilter{})
	if err != nil {
		return "", err
	}

	var match string
	for _, t := range todos {
		if t.ID == prefix {
			return t.ID, nil
		}
		if len(prefix) >= 4 && len(t.ID) >= len(prefix) && t.ID[:len(prefix)] == prefix {
			if match != "" {
				return "", fmt.Errorf("todo id prefix %q is ambiguous", prefix)
			}
			match = t.ID
		}
	}
	if match == "" {
		return "", fmt.Errorf("no todo matches id %q", prefix)
	}
	return match, nil
}
