package forge

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestGitHubProvider(t *testing.T, handler http.Handler) *GitHubProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return &GitHubProvider{
		http:    server.Client(),
		baseURL: server.URL,
		token:   "test-token",
		owner:   "owner",
		repo:    "repo",
		log:     zap.NewNop(),
	}
}

func TestGitHubFindByHeadAbsent(t *testing.T) {
	p := newTestGitHubProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Contains(t, r.URL.RawQuery, "state=all")
		fmt.Fprint(w, "[]")
	}))

	pr, err := p.FindByHead(context.Background(), "feat-a")
	require.NoError(t, err)
	assert.Nil(t, pr)
}

func TestGitHubFindByHeadStateMapping(t *testing.T) {
	merged := time.Now()
	cases := []struct {
		name string
		pr   ghPR
		want State
	}{
		{"open", ghPR{Number: 1, State: "open"}, StateOpen},
		{"draft", ghPR{Number: 2, State: "open", Draft: true}, StateDraft},
		{"closed", ghPR{Number: 3, State: "closed"}, StateClosed},
		{"merged", ghPR{Number: 4, State: "closed", MergedAt: &merged}, StateMerged},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := newTestGitHubProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode([]ghPR{tc.pr})
			}))

			pr, err := p.FindByHead(context.Background(), "feat")
			require.NoError(t, err)
			require.NotNil(t, pr)
			assert.Equal(t, tc.want, pr.State)
		})
	}
}

func TestGitHubCreate(t *testing.T) {
	p := newTestGitHubProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/repos/owner/repo/pulls", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "feat-a", body["head"])
		assert.Equal(t, "main", body["base"])
		assert.Equal(t, true, body["draft"])

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(ghPR{Number: 17, State: "open", Draft: true, HTMLURL: "https://github.com/owner/repo/pull/17"})
	}))

	pr, err := p.Create(context.Background(), NewPullRequest{Title: "Add A", Head: "feat-a", Base: "main", Draft: true})
	require.NoError(t, err)
	assert.Equal(t, 17, pr.Number)
	assert.Equal(t, StateDraft, pr.State)
}

func TestGitHubProviderErrorSurfacesStatusAndMessage(t *testing.T) {
	p := newTestGitHubProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		fmt.Fprint(w, `{"message": "Validation Failed"}`)
	}))

	_, err := p.Create(context.Background(), NewPullRequest{Head: "feat-a", Base: "main"})

	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, http.StatusUnprocessableEntity, provErr.StatusCode)
	assert.Equal(t, "Validation Failed", provErr.Message)
}

func TestGitHubUpdateComment(t *testing.T) {
	p := newTestGitHubProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/repos/owner/repo/issues/comments/99", r.URL.Path)
		fmt.Fprint(w, "{}")
	}))

	require.NoError(t, p.UpdateComment(context.Background(), 1, 99, "new body"))
}

func TestGitHubMarkReadyRequiresNodeID(t *testing.T) {
	p := newTestGitHubProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	}))

	err := p.MarkReady(context.Background(), &PullRequest{Number: 5})
	require.Error(t, err)
}
