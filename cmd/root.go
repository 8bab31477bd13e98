package cmd

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/Norgate-AV/openit/internal/codes"
	"github.com/Norgate-AV/openit/internal/logging"
	"github.com/Norgate-AV/openit/internal/version"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "openit [file-or-uri]",
		Short: "Open files and URIs with the right application",
		Long: TitleStyle.Render("openit") + SubtitleStyle.Render(" - XDG aware open-with launcher") + `

openit resolves the MIME type of a file or URI, merges the handlers from
every mimeapps.list with the applications that declare the type, and
launches one of them. It also edits the user's default handlers.

` + SubtitleStyle.Render("Examples:") + `
  openit notes.md                  Open with the default handler
  openit --selector photo.png      Pick from every candidate
  openit get image/png             Show the candidates for a type
  openit set .pdf org.gnome.Evince.desktop`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE:         runRoot,
	}

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringP("config", "c", "", "Config file (default is $XDG_CONFIG_HOME/openit/config.toml)")

	addOpenFlags(rootCmd)
	rootCmd.Flags().Bool("clear-cache", false, "Delete the desktop file cache before running")

	rootCmd.AddCommand(newOpenCommand())
	rootCmd.AddCommand(newSetCommand())
	rootCmd.AddCommand(newAddCommand())
	rootCmd.AddCommand(newRemoveCommand())
	rootCmd.AddCommand(newUnsetCommand())
	rootCmd.AddCommand(newListCommand())
	rootCmd.AddCommand(newGetCommand())
	rootCmd.AddCommand(newCacheCommand())
	rootCmd.AddCommand(newConfigCommand())
	rootCmd.AddCommand(newCompletionCommand())

	return rootCmd
}

func runRoot(cmd *cobra.Command, args []string) error {
	clearCache, _ := cmd.Flags().GetBool("clear-cache")
	if clearCache {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}

		if err := a.clearCache(); err != nil {
			return err
		}
	}

	if len(args) == 0 {
		if clearCache {
			return nil
		}

		return cmd.Help()
	}

	return runOpen(cmd, args[0])
}

// Execute runs the command tree and exits with the code matching the error.
func Execute() {
	if err := fang.Execute(
		context.Background(),
		newRootCmd(),
		fang.WithVersion(version.String()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(exitCode(err, logging.New(os.Stderr, false)))
	}
}

// exitCode classifies err and logs the meaning of the code it maps to.
func exitCode(err error, logger *log.Logger) int {
	code := codes.FromError(err)
	if !codes.IsSuccess(code) {
		logger.Debug("exiting", "code", code, "reason", codes.GetErrorMessage(code))
	}

	return code
}
