package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/bjulian5/ryu/cmd/analyze"
	"github.com/bjulian5/ryu/cmd/auth"
	"github.com/bjulian5/ryu/cmd/submit"
	"github.com/bjulian5/ryu/cmd/synccmd"
	"github.com/bjulian5/ryu/internal/logging"
	"github.com/bjulian5/ryu/internal/ui"
)

var verbose bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ryu",
	Short: "Stacked pull requests for jj",
	Long: `Ryu turns stacks of jj bookmarks into chains of pull requests.

It reads the bookmark graph from the local jj workspace, reconciles it
against the pull requests on GitHub or GitLab, and applies the minimal
set of pushes, creations, and base updates to bring them in line.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cleanup := logging.Setup(verbose)
		cobra.OnFinalize(cleanup)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command. This is called by main.main().
func Execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		ui.Error(err.Error())
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	// Register all commands
	commands := []Command{
		&submit.Command{},
		&synccmd.Command{},
		&analyze.Command{},
		&auth.Command{},
	}
	for _, cmd := range commands {
		cmd.Register(rootCmd)
	}
}
