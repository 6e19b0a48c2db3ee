package forge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// GitHubProvider talks to the GitHub REST v3 API (and GraphQL for the one
// operation REST cannot express).
type GitHubProvider struct {
	http    *http.Client
	baseURL string
	token   string
	owner   string
	repo    string
	log     *zap.Logger
}

// NewGitHubProvider creates a provider for a repository. A non-empty host
// points the client at a GitHub Enterprise instance.
func NewGitHubProvider(token, owner, repo, host string) *GitHubProvider {
	baseURL := "https://api.github.com"
	if host != "" {
		baseURL = fmt.Sprintf("https://%s/api/v3", host)
	}
	return &GitHubProvider{
		http:    &http.Client{Timeout: 30 * time.Second},
		baseURL: baseURL,
		token:   token,
		owner:   owner,
		repo:    repo,
		log:     zap.L().Named("github"),
	}
}

// Name implements Provider
func (p *GitHubProvider) Name() string {
	return string(PlatformGitHub)
}

// ghPR is the wire shape of a GitHub pull request
type ghPR struct {
	Number   int        `json:"number"`
	Title    string     `json:"title"`
	State    string     `json:"state"`
	Draft    bool       `json:"draft"`
	Body     string     `json:"body"`
	HTMLURL  string     `json:"html_url"`
	NodeID   string     `json:"node_id"`
	MergedAt *time.Time `json:"merged_at"`
	Head     struct {
		Ref string `json:"ref"`
	} `json:"head"`
	Base struct {
		Ref string `json:"ref"`
	} `json:"base"`
}

func (g *ghPR) toPullRequest() *PullRequest {
	state := StateOpen
	switch {
	case g.MergedAt != nil:
		state = StateMerged
	case g.State == "closed":
		state = StateClosed
	case g.Draft:
		state = StateDraft
	}
	return &PullRequest{
		Number:     g.Number,
		Title:      g.Title,
		HeadBranch: g.Head.Ref,
		BaseBranch: g.Base.Ref,
		State:      state,
		Draft:      g.Draft,
		Body:       g.Body,
		URL:        g.HTMLURL,
		NodeID:     g.NodeID,
	}
}

// FindByHead implements Provider
func (p *GitHubProvider) FindByHead(ctx context.Context, head string) (*PullRequest, error) {
	path := fmt.Sprintf("/repos/%s/%s/pulls?head=%s&state=all&per_page=1",
		p.owner, p.repo, url.QueryEscape(p.owner+":"+head))

	var prs []ghPR
	if err := p.do(ctx, http.MethodGet, path, nil, &prs); err != nil {
		return nil, err
	}
	if len(prs) == 0 {
		return nil, nil
	}
	return prs[0].toPullRequest(), nil
}

// Create implements Provider
func (p *GitHubProvider) Create(ctx context.Context, pr NewPullRequest) (*PullRequest, error) {
	body := map[string]any{
		"title": pr.Title,
		"head":  pr.Head,
		"base":  pr.Base,
		"body":  pr.Body,
		"draft": pr.Draft,
	}

	var created ghPR
	path := fmt.Sprintf("/repos/%s/%s/pulls", p.owner, p.repo)
	if err := p.do(ctx, http.MethodPost, path, body, &created); err != nil {
		return nil, err
	}
	return created.toPullRequest(), nil
}

// UpdateBase implements Provider
func (p *GitHubProvider) UpdateBase(ctx context.Context, number int, base string) (*PullRequest, error) {
	var updated ghPR
	path := fmt.Sprintf("/repos/%s/%s/pulls/%d", p.owner, p.repo, number)
	if err := p.do(ctx, http.MethodPatch, path, map[string]any{"base": base}, &updated); err != nil {
		return nil, err
	}
	return updated.toPullRequest(), nil
}

// MarkReady implements Provider. The REST API cannot clear the draft flag,
// so this goes through the GraphQL markPullRequestReadyForReview mutation.
func (p *GitHubProvider) MarkReady(ctx context.Context, pr *PullRequest) error {
	if pr.NodeID == "" {
		return fmt.Errorf("pull request #%d has no node ID", pr.Number)
	}
	body := map[string]any{
		"query": `mutation($id: ID!) { markPullRequestReadyForReview(input: {pullRequestId: $id}) { pullRequest { isDraft } } }`,
		"variables": map[string]string{
			"id": pr.NodeID,
		},
	}
	return p.do(ctx, http.MethodPost, "/graphql", body, nil)
}

// ghComment is the wire shape of an issue comment
type ghComment struct {
	ID   int64  `json:"id"`
	Body string `json:"body"`
}

// ListComments implements Provider
func (p *GitHubProvider) ListComments(ctx context.Context, number int) ([]Comment, error) {
	path := fmt.Sprintf("/repos/%s/%s/issues/%d/comments?per_page=100", p.owner, p.repo, number)

	var raw []ghComment
	if err := p.do(ctx, http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}
	comments := make([]Comment, len(raw))
	for i, c := range raw {
		comments[i] = Comment{ID: c.ID, Body: c.Body}
	}
	return comments, nil
}

// CreateComment implements Provider
func (p *GitHubProvider) CreateComment(ctx context.Context, number int, body string) error {
	path := fmt.Sprintf("/repos/%s/%s/issues/%d/comments", p.owner, p.repo, number)
	return p.do(ctx, http.MethodPost, path, map[string]any{"body": body}, nil)
}

// UpdateComment implements Provider
func (p *GitHubProvider) UpdateComment(ctx context.Context, _ int, commentID int64, body string) error {
	path := fmt.Sprintf("/repos/%s/%s/issues/comments/%d", p.owner, p.repo, commentID)
	return p.do(ctx, http.MethodPatch, path, map[string]any{"body": body}, nil)
}

// CurrentUser implements Provider
func (p *GitHubProvider) CurrentUser(ctx context.Context) (string, error) {
	var user struct {
		Login string `json:"login"`
	}
	if err := p.do(ctx, http.MethodGet, "/user", nil, &user); err != nil {
		return "", err
	}
	return user.Login, nil
}

// do performs one API call, decoding the response into out when non-nil.
// Non-2xx responses become ProviderError.
func (p *GitHubProvider) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.token)
	req.Header.Set("Accept", "application/vnd.github+json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	p.log.Debug("api call", zap.String("method", method), zap.String("path", path))

	resp, err := p.http.Do(req)
	if err != nil {
		return fmt.Errorf("github request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &ProviderError{StatusCode: resp.StatusCode, Message: apiErrorMessage(data)}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return nil
}

// apiErrorMessage pulls the human-readable message out of an error payload,
// falling back to the raw body.
func apiErrorMessage(data []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return string(data)
}
