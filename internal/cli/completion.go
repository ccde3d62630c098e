package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

const completionHelp = `Generate shell completion scripts for screenflow.

Bash:
  $ source <(screenflow completion bash)
  $ screenflow completion bash > /etc/bash_completion.d/screenflow

Zsh:
  $ screenflow completion zsh > "${fpath[1]}/_screenflow"

Fish:
  $ screenflow completion fish > ~/.config/fish/completions/screenflow.fish

PowerShell:
  PS> screenflow completion powershell | Out-String | Invoke-Expression`

// completionCommand creates the completion command.
func (c *CLI) completionCommand() *cobra.Command {
	shells := []string{"bash", "zsh", "fish", "powershell"}
	return &cobra.Command{
		Use:                   "completion [" + strings.Join(shells, "|") + "]",
		Short:                 "Generate shell completion scripts",
		Long:                  completionHelp,
		DisableFlagsInUseLine: true,
		ValidArgs:             shells,
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
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}
