package forge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const draftTitlePrefix = "Draft: "

// GitLabProvider talks to the GitLab REST v4 API. Merge requests are mapped
// onto the shared PullRequest shape.
type GitLabProvider struct {
	http    *http.Client
	baseURL string
	token   string
	project string // URL-encoded "group/subgroup/repo" path
	log     *zap.Logger
}

// NewGitLabProvider creates a provider for a project. A non-empty host
// points the client at a self-hosted instance.
func NewGitLabProvider(token, owner, repo, host string) *GitLabProvider {
	if host == "" {
		host = "gitlab.com"
	}
	return &GitLabProvider{
		http:    &http.Client{Timeout: 30 * time.Second},
		baseURL: fmt.Sprintf("https://%s/api/v4", host),
		token:   token,
		project: url.PathEscape(owner + "/" + repo),
		log:     zap.L().Named("gitlab"),
	}
}

// Name implements Provider
func (p *GitLabProvider) Name() string {
	return string(PlatformGitLab)
}

// glMR is the wire shape of a GitLab merge request
type glMR struct {
	IID          int    `json:"iid"`
	Title        string `json:"title"`
	State        string `json:"state"` // opened, closed, merged, locked
	Draft        bool   `json:"draft"`
	Description  string `json:"description"`
	WebURL       string `json:"web_url"`
	SourceBranch string `json:"source_branch"`
	TargetBranch string `json:"target_branch"`
}

func (m *glMR) toPullRequest() *PullRequest {
	state := StateOpen
	switch {
	case m.State == "merged":
		state = StateMerged
	case m.State == "closed":
		state = StateClosed
	case m.Draft:
		state = StateDraft
	}
	return &PullRequest{
		Number:     m.IID,
		Title:      m.Title,
		HeadBranch: m.SourceBranch,
		BaseBranch: m.TargetBranch,
		State:      state,
		Draft:      m.Draft,
		Body:       m.Description,
		URL:        m.WebURL,
	}
}

// FindByHead implements Provider
func (p *GitLabProvider) FindByHead(ctx context.Context, head string) (*PullRequest, error) {
	path := fmt.Sprintf("/projects/%s/merge_requests?source_branch=%s&per_page=1",
		p.project, url.QueryEscape(head))

	var mrs []glMR
	if err := p.do(ctx, http.MethodGet, path, nil, &mrs); err != nil {
		return nil, err
	}
	if len(mrs) == 0 {
		return nil, nil
	}
	return mrs[0].toPullRequest(), nil
}

// Create implements Provider. GitLab has no draft flag on creation; draft
// status is carried by the title prefix.
func (p *GitLabProvider) Create(ctx context.Context, pr NewPullRequest) (*PullRequest, error) {
	title := pr.Title
	if pr.Draft && !strings.HasPrefix(title, draftTitlePrefix) {
		title = draftTitlePrefix + title
	}
	body := map[string]any{
		"source_branch": pr.Head,
		"target_branch": pr.Base,
		"title":         title,
		"description":   pr.Body,
	}

	var created glMR
	path := fmt.Sprintf("/projects/%s/merge_requests", p.project)
	if err := p.do(ctx, http.MethodPost, path, body, &created); err != nil {
		return nil, err
	}
	return created.toPullRequest(), nil
}

// UpdateBase implements Provider
func (p *GitLabProvider) UpdateBase(ctx context.Context, number int, base string) (*PullRequest, error) {
	var updated glMR
	path := fmt.Sprintf("/projects/%s/merge_requests/%d", p.project, number)
	if err := p.do(ctx, http.MethodPut, path, map[string]any{"target_branch": base}, &updated); err != nil {
		return nil, err
	}
	return updated.toPullRequest(), nil
}

// MarkReady implements Provider by stripping the draft title prefix
func (p *GitLabProvider) MarkReady(ctx context.Context, pr *PullRequest) error {
	title := strings.TrimPrefix(pr.Title, draftTitlePrefix)
	path := fmt.Sprintf("/projects/%s/merge_requests/%d", p.project, pr.Number)
	return p.do(ctx, http.MethodPut, path, map[string]any{"title": title}, nil)
}

// glNote is the wire shape of a merge request note
type glNote struct {
	ID   int64  `json:"id"`
	Body string `json:"body"`
}

// ListComments implements Provider
func (p *GitLabProvider) ListComments(ctx context.Context, number int) ([]Comment, error) {
	path := fmt.Sprintf("/projects/%s/merge_requests/%d/notes?per_page=100", p.project, number)

	var raw []glNote
	if err := p.do(ctx, http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}
	comments := make([]Comment, len(raw))
	for i, n := range raw {
		comments[i] = Comment{ID: n.ID, Body: n.Body}
	}
	return comments, nil
}

// CreateComment implements Provider
func (p *GitLabProvider) CreateComment(ctx context.Context, number int, body string) error {
	path := fmt.Sprintf("/projects/%s/merge_requests/%d/notes", p.project, number)
	return p.do(ctx, http.MethodPost, path, map[string]any{"body": body}, nil)
}

// UpdateComment implements Provider
func (p *GitLabProvider) UpdateComment(ctx context.Context, number int, commentID int64, body string) error {
	path := fmt.Sprintf("/projects/%s/merge_requests/%d/notes/%d", p.project, number, commentID)
	return p.do(ctx, http.MethodPut, path, map[string]any{"body": body}, nil)
}

// CurrentUser implements Provider
func (p *GitLabProvider) CurrentUser(ctx context.Context) (string, error) {
	var user struct {
		Username string `json:"username"`
	}
	if err := p.do(ctx, http.MethodGet, "/user", nil, &user); err != nil {
		return "", err
	}
	return user.Username, nil
}

// do performs one API call, decoding the response into out when non-nil.
// Non-2xx responses become ProviderError.
func (p *GitLabProvider) do(ctx context.Context, method, path string, body, out any) error {
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
	req.Header.Set("PRIVATE-TOKEN", p.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	p.log.Debug("api call", zap.String("method", method), zap.String("path", path))

	resp, err := p.http.Do(req)
	if err != nil {
		return fmt.Errorf("gitlab request failed: %w", err)
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
