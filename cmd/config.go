package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Norgate-AV/openit/internal/config"
	"github.com/Norgate-AV/openit/internal/xdg"
)

func newConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the openit configuration file",
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		Long: `Write the default configuration as TOML to --config, or to
$XDG_CONFIG_HOME/openit/config.toml.`,
		Args: cobra.NoArgs,
		RunE: runConfigInit,
	}
	initCmd.Flags().BoolP("force", "f", false, "Overwrite an existing configuration file")

	cmd.AddCommand(initCmd)
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}

			data, err := config.Marshal(a.cfg)
			if err != nil {
				return err
			}

			_, err = a.out.Write(data)
			return err
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the configuration file in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, _ := cmd.Flags().GetString("config")
			if path == "" {
				dirs := xdg.FromEnv()
				if path = config.FindConfig(config.Dir(dirs)); path == "" {
					path = config.DefaultPath(dirs)
				}
			}

			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	})

	return cmd
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = config.DefaultPath(xdg.FromEnv())
	}

	force, _ := cmd.Flags().GetBool("force")

	if err := config.Write(path, config.Default(), force); err != nil {
		if errors.Is(err, config.ErrConfigExists) {
			return fmt.Errorf("%w (use --force to overwrite)", err)
		}

		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), SuccessStyle.Render("Generated default configuration at: "+path))

	return nil
}
