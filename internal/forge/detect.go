package forge

import (
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// Platform identifies a supported hosting service
type Platform string

const (
	PlatformGitHub Platform = "github"
	PlatformGitLab Platform = "gitlab"
)

// RepoInfo is the parsed identity of a remote repository
type RepoInfo struct {
	Platform Platform
	// Owner is the user/organization, or the full group path on GitLab
	Owner string
	Repo  string
	// Host is set for self-hosted/enterprise instances; empty means the
	// public github.com/gitlab.com service.
	Host string
}

var (
	sshPathRegex   = regexp.MustCompile(`git@[^:]+:(.+?)(?:\.git)?$`)
	httpsPathRegex = regexp.MustCompile(`https?://[^/]+/(.+?)(?:\.git)?$`)
)

// Detect parses a git remote URL into platform, owner, and repo. The
// GH_HOST and GITLAB_HOST environment variables extend hostname matching
// for self-hosted instances; they change the API base URL only.
func Detect(remoteURL string) (*RepoInfo, error) {
	hostname := extractHostname(remoteURL)
	if hostname == "" {
		return nil, fmt.Errorf("cannot parse remote URL: %s", remoteURL)
	}

	platform, selfHosted := detectPlatform(hostname)
	if platform == "" {
		return nil, fmt.Errorf("remote %s is not a supported GitHub or GitLab host", remoteURL)
	}

	match := sshPathRegex.FindStringSubmatch(remoteURL)
	if match == nil {
		match = httpsPathRegex.FindStringSubmatch(remoteURL)
	}
	if match == nil {
		return nil, fmt.Errorf("cannot parse remote URL: %s", remoteURL)
	}

	// GitLab supports nested groups; everything before the final segment
	// is the owner path.
	parts := strings.Split(match[1], "/")
	if len(parts) < 2 {
		return nil, fmt.Errorf("invalid repository path in remote URL: %s", remoteURL)
	}
	repo := parts[len(parts)-1]
	owner := strings.Join(parts[:len(parts)-1], "/")

	info := &RepoInfo{Platform: platform, Owner: owner, Repo: repo}
	if selfHosted {
		info.Host = hostname
	}

	zap.L().Debug("detected remote platform",
		zap.String("platform", string(platform)),
		zap.String("owner", owner),
		zap.String("repo", repo),
		zap.String("host", info.Host))

	return info, nil
}

// detectPlatform matches a hostname against the known services, returning
// the platform and whether the host is self-hosted.
func detectPlatform(hostname string) (Platform, bool) {
	switch {
	case hostname == "github.com" || strings.HasSuffix(hostname, ".github.com"):
		return PlatformGitHub, false
	case hostname == "gitlab.com" || strings.HasSuffix(hostname, ".gitlab.com"):
		return PlatformGitLab, false
	case hostname != "" && hostname == os.Getenv("GH_HOST"):
		return PlatformGitHub, true
	case hostname != "" && hostname == os.Getenv("GITLAB_HOST"):
		return PlatformGitLab, true
	}
	return "", false
}

func extractHostname(remoteURL string) string {
	if rest, ok := strings.CutPrefix(remoteURL, "git@"); ok {
		host, _, found := strings.Cut(rest, ":")
		if found {
			return host
		}
		return ""
	}

	u, err := url.Parse(remoteURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
