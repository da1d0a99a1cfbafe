package cli

import (
	"github.com/spf13/cobra"
)

func newHooksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:    "hooks",
		Short:  "Hook handlers",
		Long:   "Commands called by Claude Code hooks. They read the hook payload on stdin and are not meant for direct use.",
		Hidden: true, // Internal command, not for direct user use
		// Skip the root's telemetry and version notice
		PersistentPostRun: func(_ *cobra.Command, _ []string) {},
	}

	for _, name := range hookNames() {
		cmd.AddCommand(newHookVerbCmdWithLogging(name, hookRegistry[name]))
	}

	return cmd
}
