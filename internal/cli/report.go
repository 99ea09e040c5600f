package cli

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/sandeepkv93/focusflow/internal/session"
	"github.com/sandeepkv93/focusflow/internal/views"
	"github.com/spf13/cobra"
)

func (a *app) reportCmd() *cobra.Command {
	var markdown, copyOut bool
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print today's completed and pending tasks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withSession(cmd.Context(), func(s *session.Session) error {
				r := s.Report()
				if copyOut {
					if err := clipboard.WriteAll(r.Text()); err != nil {
						return fmt.Errorf("copy report: %w", err)
					}
					fmt.Fprintln(cmd.OutOrStdout(), "report copied to clipboard")
					return nil
				}
				if markdown {
					fmt.Fprintln(cmd.OutOrStdout(), views.RenderMarkdown(r.Markdown()))
					return nil
				}
				fmt.Fprint(cmd.OutOrStdout(), r.Text())
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&markdown, "markdown", false, "render with glamour")
	cmd.Flags().BoolVar(&copyOut, "copy", false, "copy the plain report to the clipboard")
	return cmd
}

func (a *app) recapCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recap",
		Short: "Generate today's recap if it has not run yet",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withSession(cmd.Context(), func(s *session.Session) error {
				s.Housekeeper.SweepRecap(cmd.Context())
				select {
				case r := <-s.Housekeeper.Recaps():
					fmt.Fprintln(cmd.OutOrStdout(), views.RenderMarkdown(r.Text))
				default:
					fmt.Fprintln(cmd.OutOrStdout(), "no recap: already done today, nothing overdue, or the generator failed")
				}
				return nil
			})
		},
	}
}

func (a *app) sweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Run the reminder, expiry and recap sweeps once",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withSession(cmd.Context(), func(s *session.Session) error {
				reminders, expired, err := s.RunSweeps(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "reminders fired: %d\nexpired archives removed: %d\n", reminders, expired)
				select {
				case r := <-s.Housekeeper.Recaps():
					fmt.Fprintln(cmd.OutOrStdout(), views.RenderMarkdown(r.Text))
				default:
				}
				return nil
			})
		},
	}
}
