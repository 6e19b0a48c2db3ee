package auth

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bjulian5/ryu/internal/forge"
	"github.com/bjulian5/ryu/internal/ui"
)

// Command tests and explains forge authentication
type Command struct{}

// Register registers the command with cobra
func (c *Command) Register(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "auth <github|gitlab> <test|setup>",
		Short: "Test or set up forge authentication",
		Long: `Test or set up authentication for a forge.

"test" resolves a token through the normal fallback chain, validates it
against the API, and reports which source provided it. "setup" prints
how to make a token available.

Example:
  ryu auth github test
  ryu auth gitlab setup`,
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"github", "gitlab"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.Run(cmd.Context(), args[0], args[1])
		},
	}

	parent.AddCommand(cmd)
}

// Run executes the command
func (c *Command) Run(ctx context.Context, platform, action string) error {
	switch action {
	case "test":
		return c.test(ctx, platform)
	case "setup":
		return c.setup(platform)
	default:
		return fmt.Errorf("unknown action %q (want test or setup)", action)
	}
}

func (c *Command) test(ctx context.Context, platform string) error {
	var (
		token    forge.Token
		provider forge.Provider
		err      error
	)

	switch platform {
	case "github":
		token, err = forge.ResolveGitHubToken()
		if err != nil {
			return err
		}
		provider = forge.NewGitHubProvider(token.Value, "", "", os.Getenv("GH_HOST"))
	case "gitlab":
		host := os.Getenv("GITLAB_HOST")
		token, err = forge.ResolveGitLabToken(host)
		if err != nil {
			return err
		}
		provider = forge.NewGitLabProvider(token.Value, "", "", host)
	default:
		return fmt.Errorf("unknown platform %q (want github or gitlab)", platform)
	}

	user, err := provider.CurrentUser(ctx)
	if err != nil {
		return fmt.Errorf("token from %s was rejected: %w", token.Source, err)
	}

	ui.Successf("%s: authenticated as %s (token from %s)", platform, user, token.Source)
	return nil
}

func (c *Command) setup(platform string) error {
	switch platform {
	case "github":
		ui.Header("GitHub authentication")
		ui.Print("Tokens are resolved in this order:")
		ui.Print("  1. gh CLI        run: gh auth login")
		ui.Print("  2. GITHUB_TOKEN  a personal access token with repo scope")
		ui.Print("  3. GH_TOKEN      same as above")
		ui.Print("")
		ui.Print(ui.Dim("Self-hosted instances: set GH_HOST to the instance hostname."))
	case "gitlab":
		ui.Header("GitLab authentication")
		ui.Print("Tokens are resolved in this order:")
		ui.Print("  1. glab CLI      run: glab auth login")
		ui.Print("  2. GITLAB_TOKEN  a personal access token with api scope")
		ui.Print("  3. GL_TOKEN      same as above")
		ui.Print("")
		ui.Print(ui.Dim("Self-hosted instances: set GITLAB_HOST to the instance hostname."))
	default:
		return fmt.Errorf("unknown platform %q (want github or gitlab)", platform)
	}
	return nil
}
