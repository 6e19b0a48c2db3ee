package forge

import "fmt"

// NewProvider resolves credentials for the detected repository and returns
// the matching provider implementation.
func NewProvider(info *RepoInfo) (Provider, Token, error) {
	switch info.Platform {
	case PlatformGitHub:
		token, err := ResolveGitHubToken()
		if err != nil {
			return nil, Token{}, err
		}
		return NewGitHubProvider(token.Value, info.Owner, info.Repo, info.Host), token, nil
	case PlatformGitLab:
		token, err := ResolveGitLabToken(info.Host)
		if err != nil {
			return nil, Token{}, err
		}
		return NewGitLabProvider(token.Value, info.Owner, info.Repo, info.Host), token, nil
	default:
		return nil, Token{}, fmt.Errorf("unsupported platform: %s", info.Platform)
	}
}
