package cli

import (
	"fmt"
	"runtime"

	"github.com/gosu-code/claude-plugin/cmd/gosu/cli/settings"
	"github.com/gosu-code/claude-plugin/cmd/gosu/cli/telemetry"
	"github.com/gosu-code/claude-plugin/cmd/gosu/cli/versioncheck"
	"github.com/spf13/cobra"
)

const gettingStarted = `

Getting Started:
  Run 'gosu setup' inside a project to register the gosu hooks in
  .claude/settings.json. The hooks then run on every matching
  Claude Code event.

`

const accessibilityHelp = `
Environment Variables:
  ACCESSIBLE       Set to any value (e.g., ACCESSIBLE=1) to enable accessibility
                   mode. This uses simpler text prompts instead of interactive
                   TUI elements, which works better with screen readers.
  GOSU_LOG_LEVEL   Log level for hook logs (debug, info, warn, error).
`

// Version information (can be set at build time)
var (
	Version = "dev"
	Commit  = "unknown"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gosu",
		Short: "gosu Claude Code plugin tools",
		Long:  "Hooks and developer tools for the gosu Claude Code plugin" + gettingStarted + accessibilityHelp,
		// Let main.go handle error printing to avoid duplication
		SilenceErrors: true,
		// Hide completion command from help but keep it functional
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			// Arguments parsed; runtime errors don't need usage text
			cmd.SilenceUsage = true
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			// nil telemetry preference means disabled
			var telemetryEnabled *bool
			if s, err := settings.Load(); err == nil {
				telemetryEnabled = s.Telemetry
			}

			telemetryClient := telemetry.NewClient(Version, telemetryEnabled)
			defer telemetryClient.Close()
			telemetryClient.TrackCommand(cmd)

			versioncheck.CheckAndNotify(cmd.Context(), cmd, Version)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newHooksCmd())
	cmd.AddCommand(newSessionHookCmd())
	cmd.AddCommand(newWorktreeCmd())
	cmd.AddCommand(newTasksCmd())
	cmd.AddCommand(newSetupCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func newVersionCmd() *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "gosu %s (%s)\n", Version, Commit)
			fmt.Fprintf(w, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(w, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
			if !check {
				return nil
			}

			res, err := versioncheck.Check(cmd.Context(), Version)
			if err != nil {
				return fmt.Errorf("version check failed: %w", err)
			}
			if res.Outdated {
				fmt.Fprintf(w, "\nA newer version is available: %s\nUpgrade with: %s\n", res.Latest, versioncheck.UpgradeHint)
			} else {
				fmt.Fprintf(w, "\nYou are on the latest version (%s).\n", res.Latest)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "Check GitHub for a newer release")

	return cmd
}
