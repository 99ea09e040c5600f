package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/sandeepkv93/focusflow/internal/commands"
	"github.com/sandeepkv93/focusflow/internal/model"
	"github.com/sandeepkv93/focusflow/internal/session"
	"github.com/spf13/cobra"
)

func (a *app) addCmd() *cobra.Command {
	var due, at, cat string
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			line := "add " + strings.Join(args, " ")
			if due != "" {
				line += " due:" + due
			}
			if at != "" {
				line += " at:" + at
			}
			if cat != "" {
				line += " cat:" + cat
			}
			return a.execLine(cmd, line)
		},
	}
	cmd.Flags().StringVar(&due, "due", "", "due day, YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&at, "at", "", "reminder time, HH:MM")
	cmd.Flags().StringVar(&cat, "cat", "", "category: work or personal")
	return cmd
}

func (a *app) doneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Complete and archive a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.execLine(cmd, "done "+args[0])
		},
	}
}

func (a *app) runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <command>",
		Short: "Run a palette command, e.g. run remind 3f2a1c 14:30",
		Long: `Run any command the TUI palette accepts:

  add <title> [due:YYYY-MM-DD] [at:HH:MM] [cat:work|personal]
  start|todo|done <id>
  due <id> <YYYY-MM-DD>
  remind <id> <HH:MM|off>
  rename <id> <title>
  step <id> <text>
  unstep <id> <n>
  keep|unkeep <id>
  restore <id>
  rm <id>
  capture file|web|path:<file>|<text>
  report`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.execLine(cmd, strings.Join(args, " "))
		},
	}
}

// execLine parses line with the palette grammar and runs it.
func (a *app) execLine(cmd *cobra.Command, line string) error {
	parsed, err := commands.Parse(line)
	if err != nil {
		return err
	}
	return a.withSession(cmd.Context(), func(s *session.Session) error {
		res, err := commands.Execute(parsed, s.Handlers(cmd.Context(), ""))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), res.Message)
		return nil
	})
}

func (a *app) listCmd() *cobra.Command {
	var view string
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withSession(cmd.Context(), func(s *session.Session) error {
				tasks, err := filterTasks(s.Store.Snapshot(), view, s.Today())
				if err != nil {
					return err
				}
				if asJSON {
					enc := json.NewEncoder(cmd.OutOrStdout())
					enc.SetIndent("", "  ")
					return enc.Encode(tasks)
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTaskTable(tasks))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&view, "view", "active", "active, today, archive or all")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the stored JSON form")
	return cmd
}

func filterTasks(all []model.Task, view string, today model.Day) ([]model.Task, error) {
	out := []model.Task{}
	for _, t := range all {
		var keep bool
		switch view {
		case "active":
			keep = t.IsActive()
		case "today":
			keep = t.IsActive() && t.DueDate <= today.String()
		case "archive":
			keep = t.IsArchived
		case "all":
			keep = true
		default:
			return nil, fmt.Errorf("unknown view %q", view)
		}
		if keep {
			out = append(out, t)
		}
	}
	return out, nil
}

func renderTaskTable(tasks []model.Task) string {
	if len(tasks) == 0 {
		return "no tasks"
	}
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		reminder := ""
		if t.ReminderTime != nil {
			reminder = *t.ReminderTime
		}
		next, _ := t.CurrentStep()
		rows = append(rows, []string{commands.ShortID(t.ID), string(t.Status), t.CategoryLabel(), t.DueDate, reminder, t.Title, next})
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "STATUS", "CAT", "DUE", "AT", "TITLE", "NEXT").
		Rows(rows...).
		Render()
}

func (a *app) captureCmd() *cobra.Command {
	var cat string
	cmd := &cobra.Command{
		Use:   "capture <file|web|path:<file>|description>",
		Short: "Turn an activity into a task with the AI interpreter",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := commands.Parse("capture " + strings.Join(args, " "))
			if err != nil {
				return err
			}
			var category *model.Category
			if cat != "" {
				c, err := model.ParseCategory(cat)
				if err != nil {
					return err
				}
				category = &c
			}
			return a.withSession(cmd.Context(), func(s *session.Session) error {
				activity, err := s.Activity(*parsed.Capture)
				if err != nil {
					return err
				}
				task, err := s.Capture(cmd.Context(), activity, category)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "captured %s (%s)\n", task.Title, commands.ShortID(task.ID))
				for _, step := range task.NextSteps {
					fmt.Fprintf(cmd.OutOrStdout(), "  - %s\n", step)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&cat, "cat", "", "category: work or personal")
	return cmd
}
