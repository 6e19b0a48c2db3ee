package submit

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

// Command submits a stack of bookmarks as chained pull requests
type Command struct {
	// Flags
	DryRun     bool
	Confirm    bool
	Upto       string
	Only       bool
	Stack      bool
	UpdateOnly bool
	Select     bool
	Draft      bool
	Publish    bool
	Remote     string
}

// Register registers the command with cobra
func (c *Command) Register(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "submit <bookmark>",
		Short: "Submit a stack of bookmarks as pull requests",
		Long: `Submit the stack containing a bookmark as a chain of pull requests.

Reconciles the local bookmark chain against the remote: out-of-date
bookmarks are pushed, missing pull requests are created with their base
set to the bookmark below, and existing pull requests whose base drifted
are retargeted. Afterwards every pull request in the stack gets an
updated overview comment.

Example:
  ryu submit feat-c             # submit trunk..feat-c
  ryu submit feat-a --stack     # submit the whole stack containing feat-a
  ryu submit feat-c --dry-run   # print the plan without applying it
  ryu submit feat-b --only      # submit just feat-b (its parent needs a PR)`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.Run(cmd.Context(), args[0])
		},
	}

	cmd.Flags().BoolVar(&c.DryRun, "dry-run", false, "Print the plan without applying it")
	cmd.Flags().BoolVar(&c.Confirm, "confirm", false, "Print the plan and ask before applying it")
	cmd.Flags().StringVar(&c.Upto, "upto", "", "Submit only up to this bookmark (inclusive)")
	cmd.Flags().BoolVar(&c.Only, "only", false, "Submit only the named bookmark")
	cmd.Flags().BoolVar(&c.Stack, "stack", false, "Extend the selection through descendants to the stack's tip")
	cmd.Flags().BoolVar(&c.UpdateOnly, "update-only", false, "Update existing pull requests, never create new ones")
	cmd.Flags().BoolVar(&c.Select, "select", false, "Pick the bookmarks to submit interactively")
	cmd.Flags().BoolVar(&c.Draft, "draft", false, "Create new pull requests as drafts")
	cmd.Flags().BoolVar(&c.Publish, "publish", false, "Mark draft pull requests in the stack ready for review")
	cmd.Flags().StringVar(&c.Remote, "remote", "", "Git remote to push to (default: origin)")

	parent.AddCommand(cmd)
}

// Run executes the command
func (c *Command) Run(ctx context.Context, bookmark string) error {
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

	opts := engine.SubmitOptions{
		Bookmark:   bookmark,
		Remote:     remote.Name,
		Trunk:      trunk,
		DryRun:     c.DryRun,
		Upto:       c.Upto,
		Only:       c.Only,
		StackScope: c.Stack,
		UpdateOnly: c.UpdateOnly,
		Draft:      c.Draft || cfg.Draft,
		Publish:    c.Publish,
	}
	if c.Select {
		opts.Select = ui.SelectBookmarks
	}
	if c.Confirm {
		opts.Confirm = func(plan *engine.Plan) (bool, error) {
			ui.Print(ui.RenderPlan(plan))
			return ui.ConfirmProceed("Apply this plan?"), nil
		}
	}

	plan, result, err := engine.Submit(ctx, g, provider, vcs, opts)
	if err != nil {
		return err
	}

	if c.DryRun {
		ui.Print(ui.RenderPlan(plan))
		return nil
	}
	if result == nil {
		ui.Info("Nothing applied.")
		return nil
	}

	ui.Print(ui.RenderResult(result))
	if result.Failed() {
		return fmt.Errorf("submit of %s did not complete", result.Target)
	}
	ui.Successf("Stack %s is in sync", result.Target)
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
