package analyze

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/bjulian5/ryu/internal/graph"
	"github.com/bjulian5/ryu/internal/jj"
	"github.com/bjulian5/ryu/internal/ui"
)

// Command prints the discovered bookmark stacks
type Command struct{}

// Register registers the command with cobra
func (c *Command) Register(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Print the stacked bookmarks in this workspace",
		Long: `Print every stacked bookmark chain discovered in the workspace.

This is a read-only local view: nothing is fetched from the remote.
Bookmarks whose local commit differs from their pushed commit are
marked with *.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.Run(cmd.Context())
		},
	}

	parent.AddCommand(cmd)
}

// Run executes the command
func (c *Command) Run(ctx context.Context) error {
	vcs, err := jj.NewClient()
	if err != nil {
		return err
	}

	g, err := graph.Build(vcs)
	if err != nil {
		return err
	}

	ui.Print(ui.RenderStackList(g.Stacks(), g.ExcludedCount))
	return nil
}
