package forge

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Token is a resolved authentication token and where it came from
type Token struct {
	Value  string
	Source string
}

// AuthUnavailableError indicates no authentication source produced a token.
// It names every source that was tried.
type AuthUnavailableError struct {
	Provider string
	Tried    []string
}

func (e *AuthUnavailableError) Error() string {
	return fmt.Sprintf("no %s authentication found (tried %s)", e.Provider, strings.Join(e.Tried, ", "))
}

// tokenSource is one step in the ordered fallback chain
type tokenSource struct {
	name string
	get  func() string
}

// ResolveGitHubToken resolves a GitHub token. Priority: gh CLI stored token,
// then GITHUB_TOKEN, then GH_TOKEN.
func ResolveGitHubToken() (Token, error) {
	return resolveToken("github", []tokenSource{
		{name: "gh CLI", get: func() string { return helperCLIToken("gh", "auth", "token") }},
		{name: "GITHUB_TOKEN", get: func() string { return os.Getenv("GITHUB_TOKEN") }},
		{name: "GH_TOKEN", get: func() string { return os.Getenv("GH_TOKEN") }},
	})
}

// ResolveGitLabToken resolves a GitLab token for a host. Priority: glab CLI
// stored token, then GITLAB_TOKEN, then GL_TOKEN.
func ResolveGitLabToken(host string) (Token, error) {
	if host == "" {
		host = "gitlab.com"
	}
	return resolveToken("gitlab", []tokenSource{
		{name: "glab CLI", get: func() string { return helperCLIToken("glab", "auth", "token", "--hostname", host) }},
		{name: "GITLAB_TOKEN", get: func() string { return os.Getenv("GITLAB_TOKEN") }},
		{name: "GL_TOKEN", get: func() string { return os.Getenv("GL_TOKEN") }},
	})
}

// resolveToken walks the fallback chain; the first non-empty token wins
func resolveToken(provider string, sources []tokenSource) (Token, error) {
	tried := make([]string, 0, len(sources))
	for _, src := range sources {
		tried = append(tried, src.name)
		if token := src.get(); token != "" {
			return Token{Value: token, Source: src.name}, nil
		}
	}
	return Token{}, &AuthUnavailableError{Provider: provider, Tried: tried}
}

// helperCLIToken asks an auth-helper CLI for its stored token. Any failure
// (helper missing, not logged in) yields an empty token so the chain moves on.
func helperCLIToken(helper string, args ...string) string {
	if _, err := exec.LookPath(helper); err != nil {
		return ""
	}
	output, err := exec.Command(helper, args...).Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(output))
}
