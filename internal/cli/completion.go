package cli

import (
	"github.com/spf13/cobra"
)

// configExtensions are offered when completing a config file argument.
var configExtensions = []string{"toml", "yml", "yaml"}

// completeConfigFile completes the config argument of gen and catalog.
func completeConfigFile(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return configExtensions, cobra.ShellCompDirectiveFilterFileExt
}

// completeBeatFile completes beat file arguments and flags.
func completeBeatFile(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return []string{"yml", "yaml"}, cobra.ShellCompDirectiveFilterFileExt
}

// completionCommand creates the completion command.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a shell completion script for beatcut.

Config arguments complete to .toml, .yml and .yaml files, beat files to
.yml and .yaml.

  $ source <(beatcut completion bash)
  $ beatcut completion zsh > "${fpath[1]}/_beatcut"
  $ beatcut completion fish > ~/.config/fish/completions/beatcut.fish
  PS> beatcut completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			root := cmd.Root()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(out, true)
			case "zsh":
				return root.GenZshCompletion(out)
			case "fish":
				return root.GenFishCompletion(out, true)
			default:
				return root.GenPowerShellCompletionWithDesc(out)
			}
		},
	}

	return cmd
}
