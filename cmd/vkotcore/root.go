package main

import (
	"github.com/spf13/cobra"

	"github.com/vkot/vkotcore/internal/session"
)

// newRootCmd builds the vkotcore root command with all subcommands
// attached.
func newRootCmd() *cobra.Command {
	var configPath string
	var controlDir string

	root := &cobra.Command{
		Use:   "vkotcore",
		Short: "Headless terminal emulator core",
		Long: `vkotcore bridges a child process on a PTY and a remote display
server over a local byte stream, maintaining an in-memory screen and
forwarding incremental damage and input events between the two.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", envOrFlagDefault("VKOT_CONFIG", ""), "path to a YAML config file")
	root.PersistentFlags().StringVar(&controlDir, "control-dir", session.DefaultControlDir(), "directory for session bookkeeping records")

	root.AddCommand(newLaunchCmd(&configPath, &controlDir))
	root.AddCommand(newSessionCmd(&controlDir))

	return root
}
