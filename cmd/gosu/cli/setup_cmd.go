package cli

import (
	"fmt"
	"path/filepath"

	"github.com/gosu-code/claude-plugin/cmd/gosu/cli/claudecode"
	"github.com/gosu-code/claude-plugin/cmd/gosu/cli/paths"
	"github.com/spf13/cobra"
)

func newSetupCmd() *cobra.Command {
	var (
		opts      claudecode.InstallOptions
		checkOnly bool
	)

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Register the gosu hooks in .claude/settings.json",
		Long: `Register the gosu hooks in the project's .claude/settings.json.

Installs the guard hook for PreToolUse and PermissionRequest, the prompt enhancer
for UserPromptSubmit and the session hook dispatcher for every event. Existing
settings and hooks are kept; running setup again adds only what is missing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			settingsPath := filepath.Join(paths.RepoRootOr("."), paths.ClaudeDir, claudecode.SettingsFileName)

			if checkOnly {
				if claudecode.AreHooksInstalled(settingsPath) {
					fmt.Fprintf(out, "gosu hooks are installed in %s\n", settingsPath)
					return nil
				}
				fmt.Fprintf(out, "gosu hooks are not installed in %s\n", settingsPath)
				return NewSilentError(fmt.Errorf("hooks not installed in %s", settingsPath))
			}

			count, err := claudecode.InstallHooks(settingsPath, opts)
			if err != nil {
				return fmt.Errorf("failed to install hooks: %w", err)
			}
			if count == 0 {
				fmt.Fprintf(out, "gosu hooks already installed in %s\n", settingsPath)
				return nil
			}
			fmt.Fprintf(out, "Installed %d hook(s) in %s\n", count, settingsPath)
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.LocalDev, "local-dev", false, "Use go run instead of the gosu binary for hooks")
	cmd.Flags().MarkHidden("local-dev") //nolint:errcheck,gosec // flag is defined above
	cmd.Flags().BoolVar(&opts.AutoAllow, "auto-allow", false, "Let the guard hook allow tool calls that pass every check")
	cmd.Flags().BoolVarP(&opts.Force, "force", "f", false, "Reinstall hooks (removes existing gosu hooks first)")
	cmd.Flags().BoolVar(&checkOnly, "check", false, "Only report whether the hooks are installed")

	return cmd
}
