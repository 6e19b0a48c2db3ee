package forge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectGitHubHTTPS(t *testing.T) {
	info, err := Detect("https://github.com/owner/repo.git")
	require.NoError(t, err)
	assert.Equal(t, PlatformGitHub, info.Platform)
	assert.Equal(t, "owner", info.Owner)
	assert.Equal(t, "repo", info.Repo)
	assert.Empty(t, info.Host)
}

func TestDetectGitHubSSH(t *testing.T) {
	info, err := Detect("git@github.com:owner/repo.git")
	require.NoError(t, err)
	assert.Equal(t, PlatformGitHub, info.Platform)
	assert.Equal(t, "owner", info.Owner)
	assert.Equal(t, "repo", info.Repo)
}

func TestDetectGitLabNestedGroups(t *testing.T) {
	info, err := Detect("https://gitlab.com/group/subgroup/repo.git")
	require.NoError(t, err)
	assert.Equal(t, PlatformGitLab, info.Platform)
	assert.Equal(t, "group/subgroup", info.Owner)
	assert.Equal(t, "repo", info.Repo)
}

func TestDetectWithoutGitSuffix(t *testing.T) {
	info, err := Detect("https://github.com/owner/repo")
	require.NoError(t, err)
	assert.Equal(t, "repo", info.Repo)
}

func TestDetectSelfHostedGitHub(t *testing.T) {
	t.Setenv("GH_HOST", "github.corp.example.com")

	info, err := Detect("git@github.corp.example.com:owner/repo.git")
	require.NoError(t, err)
	assert.Equal(t, PlatformGitHub, info.Platform)
	assert.Equal(t, "github.corp.example.com", info.Host)
}

func TestDetectSelfHostedGitLab(t *testing.T) {
	t.Setenv("GITLAB_HOST", "gitlab.internal")

	info, err := Detect("https://gitlab.internal/team/repo.git")
	require.NoError(t, err)
	assert.Equal(t, PlatformGitLab, info.Platform)
	assert.Equal(t, "gitlab.internal", info.Host)
}

func TestDetectUnknownHost(t *testing.T) {
	_, err := Detect("https://bitbucket.org/owner/repo.git")
	require.Error(t, err)
}

func TestDetectUnparseableURL(t *testing.T) {
	_, err := Detect("not-a-remote")
	require.Error(t, err)
}
