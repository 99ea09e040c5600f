package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/focusflow/internal/session"
	"github.com/sandeepkv93/focusflow/internal/update"
	"github.com/spf13/cobra"
)

func (a *app) runTUI(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	return a.withSession(ctx, func(s *session.Session) error {
		if err := s.Start(ctx); err != nil {
			return fmt.Errorf("start housekeeping: %w", err)
		}
		m := update.NewModel(s, update.WithContext(ctx))
		defer m.Close()

		program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("focusflow failed: %w", err)
		}
		return nil
	})
}
