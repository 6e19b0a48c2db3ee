package synccmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bjulian5/ryu/internal/config"
	"github.com/bjulian5/ryu/internal/engine"
	"github.com/bjulian5/ryu/internal/forge"
	"github.com/bjulian5/ryu/internal/graph"
	"github.com/bjulian5/ryu/internal/jj"
	"github.com/bjulian5/ryu/internal/ui"
)

// Command reconciles every stack in the workspace
type Command struct {
	// Flags
	DryRun  bool
	Confirm bool
	Stack   string
	Remote  string
}

// Register registers the command with cobra
func (c *Command) Register(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Reconcile every stack with its pull requests",
		Long: `Reconcile every stacked bookmark chain in the workspace against its
pull requests. Stacks are processed concurrently; one stack failing to
plan or execute does not stop the others.

Example:
  ryu sync                   # sync every stack
  ryu sync --dry-run         # print every stack's plan
  ryu sync --stack feat-b    # sync only the stack containing feat-b`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.Run(cmd.Context())
		},
	}

	cmd.Flags().BoolVar(&c.DryRun, "dry-run", false, "Print the plans without applying them")
	cmd.Flags().BoolVar(&c.Confirm, "confirm", false, "Print the plans and ask before applying them")
	cmd.Flags().StringVar(&c.Stack, "stack", "", "Sync only the stack containing this bookmark")
	cmd.Flags().StringVar(&c.Remote, "remote", "", "Git remote to push to (default: origin)")

	parent.AddCommand(cmd)
}

// Run executes the command
func (c *Command) Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	vcs, err := jj.NewClient()
	if err != nil {
		return err
	}

	remoteName := c.Remote
	if remoteName == "" {
		remoteName = cfg.Remote
	}
	remote, provider, err := connect(vcs, remoteName)
	if err != nil {
		return err
	}

	trunk := cfg.Trunk
	if trunk == "" {
		if trunk, err = vcs.TrunkName(remote.Name); err != nil {
			return err
		}
	}

	g, err := graph.Build(vcs)
	if err != nil {
		return err
	}

	opts := engine.SyncOptions{
		Remote:  remote.Name,
		Trunk:   trunk,
		DryRun:  c.DryRun,
		Stack:   c.Stack,
		Workers: cfg.Workers,
	}
	if c.Confirm {
		opts.Confirm = func(reports []*engine.StackReport) (bool, error) {
			ui.Print(ui.RenderSyncReports(reports))
			return ui.ConfirmProceed("Apply these plans?"), nil
		}
	}

	reports, err := engine.SyncAll(ctx, g, provider, vcs, opts)
	if err != nil {
		return err
	}

	ui.Print(ui.RenderSyncReports(reports))

	var failed int
	for _, report := range reports {
		if report.Err != nil || (report.Result != nil && report.Result.Failed()) {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d stacks did not sync", failed, len(reports))
	}
	if !c.DryRun {
		ui.Successf("%d stack(s) in sync", len(reports))
	}
	return nil
}

// connect detects the platform behind the remote and builds its provider
func connect(vcs *jj.Client, remoteName string) (jj.Remote, forge.Provider, error) {
	remotes, err := vcs.Remotes()
	if err != nil {
		return jj.Remote{}, nil, err
	}

	var remote *jj.Remote
	for i := range remotes {
		if remotes[i].Name == remoteName {
			remote = &remotes[i]
			break
		}
	}
	if remote == nil {
		if len(remotes) == 1 {
			remote = &remotes[0]
		} else {
			return jj.Remote{}, nil, fmt.Errorf("remote %s not found", remoteName)
		}
	}

	info, err := forge.Detect(remote.URL)
	if err != nil {
		return jj.Remote{}, nil, err
	}

	provider, token, err := forge.NewProvider(info)
	if err != nil {
		return jj.Remote{}, nil, err
	}
	zap.L().Debug("connected to forge",
		zap.String("platform", string(info.Platform)),
		zap.String("repo", info.Owner+"/"+info.Repo),
		zap.String("token_source", token.Source))

	return *remote, provider, nil
}
