package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/sandeepkv93/focusflow/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func (a *app) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage FocusFlow configuration",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := os.Stat(a.configPath); err == nil && !force {
				return fmt.Errorf("%s already exists, use --force to overwrite", a.configPath)
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}
			if err := config.Save(a.configPath, config.DefaultConfig()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "wrote", a.configPath)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the merged configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			if cfg.AI.APIKey != "" {
				cfg.AI.APIKey = "********"
			}
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("marshal config: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), string(data))
			return nil
		},
	}

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Show the config file path",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), a.configPath)
		},
	}

	cmd.AddCommand(initCmd, showCmd, pathCmd)
	return cmd
}
