package cmd

import (
	"github.com/spf13/cobra"
)

func newCompletionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for openit.

` + SubtitleStyle.Render("Bash:") + `
  eval "$(openit completion bash)"

` + SubtitleStyle.Render("Zsh:") + `
  openit completion zsh > "${fpath[1]}/_openit"

` + SubtitleStyle.Render("Fish:") + `
  openit completion fish > ~/.config/fish/completions/openit.fish

` + SubtitleStyle.Render("PowerShell:") + `
  openit completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}

			return nil
		},
	}
}
