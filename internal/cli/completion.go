package cli

import (
	"io"

	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	gen := map[string]func(root *cobra.Command, w io.Writer) error{
		"bash":       func(r *cobra.Command, w io.Writer) error { return r.GenBashCompletionV2(w, true) },
		"zsh":        func(r *cobra.Command, w io.Writer) error { return r.GenZshCompletion(w) },
		"fish":       func(r *cobra.Command, w io.Writer) error { return r.GenFishCompletion(w, true) },
		"powershell": func(r *cobra.Command, w io.Writer) error { return r.GenPowerShellCompletionWithDesc(w) },
	}

	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for datasprout.

Bash:
  $ source <(datasprout completion bash)

Zsh:
  $ datasprout completion zsh > "${fpath[1]}/_datasprout"

Fish:
  $ datasprout completion fish > ~/.config/fish/completions/datasprout.fish

PowerShell:
  PS> datasprout completion powershell | Out-String | Invoke-Expression

Mode and pattern names complete for generate --mode and --patterns.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return gen[args[0]](cmd.Root(), cmd.OutOrStdout())
		},
	}
}
