package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/bjulian5/ryu/internal/forge"
	"github.com/bjulian5/ryu/internal/graph"
	"github.com/bjulian5/ryu/internal/jj"
)

// fakeForge is an in-memory provider. Operations record themselves in call
// order and can be made to fail by key, e.g. "create:feat-b".
type fakeForge struct {
	mu sync.Mutex

	prs        map[string]*forge.PullRequest // keyed by head branch
	comments   map[int][]forge.Comment
	nextNumber int
	nextNoteID int64

	calls  []string
	failOn map[string]error
}

func newFakeForge() *fakeForge {
	return &fakeForge{
		prs:        make(map[string]*forge.PullRequest),
		comments:   make(map[int][]forge.Comment),
		nextNumber: 1,
		nextNoteID: 1,
		failOn:     make(map[string]error),
	}
}

func (f *fakeForge) seed(head, base string, state forge.State) *forge.PullRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	pr := &forge.PullRequest{
		Number:     f.nextNumber,
		HeadBranch: head,
		BaseBranch: base,
		State:      state,
		Draft:      state == forge.StateDraft,
		URL:        fmt.Sprintf("https://example.test/pull/%d", f.nextNumber),
	}
	f.nextNumber++
	f.prs[head] = pr
	return pr
}

func (f *fakeForge) op(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, key)
	return f.failOn[key]
}

func (f *fakeForge) byNumber(number int) *forge.PullRequest {
	for _, pr := range f.prs {
		if pr.Number == number {
			return pr
		}
	}
	return nil
}

func (f *fakeForge) Name() string { return "fake" }

func (f *fakeForge) FindByHead(_ context.Context, head string) (*forge.PullRequest, error) {
	if err := f.op("find:" + head); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if pr, ok := f.prs[head]; ok {
		copied := *pr
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeForge) Create(_ context.Context, spec forge.NewPullRequest) (*forge.PullRequest, error) {
	if err := f.op("create:" + spec.Head); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	state := forge.StateOpen
	if spec.Draft {
		state = forge.StateDraft
	}
	pr := &forge.PullRequest{
		Number:     f.nextNumber,
		Title:      spec.Title,
		HeadBranch: spec.Head,
		BaseBranch: spec.Base,
		State:      state,
		Draft:      spec.Draft,
		Body:       spec.Body,
		URL:        fmt.Sprintf("https://example.test/pull/%d", f.nextNumber),
	}
	f.nextNumber++
	f.prs[spec.Head] = pr
	copied := *pr
	return &copied, nil
}

func (f *fakeForge) UpdateBase(_ context.Context, number int, base string) (*forge.PullRequest, error) {
	if err := f.op(fmt.Sprintf("update-base:%d:%s", number, base)); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	pr := f.byNumber(number)
	if pr == nil {
		return nil, &forge.ProviderError{StatusCode: 404, Message: "not found"}
	}
	pr.BaseBranch = base
	copied := *pr
	return &copied, nil
}

func (f *fakeForge) MarkReady(_ context.Context, pr *forge.PullRequest) error {
	if err := f.op(fmt.Sprintf("ready:%d", pr.Number)); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if stored := f.byNumber(pr.Number); stored != nil {
		stored.Draft = false
		stored.State = forge.StateOpen
	}
	return nil
}

func (f *fakeForge) ListComments(_ context.Context, number int) ([]forge.Comment, error) {
	if err := f.op(fmt.Sprintf("list-comments:%d", number)); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]forge.Comment(nil), f.comments[number]...), nil
}

func (f *fakeForge) CreateComment(_ context.Context, number int, body string) error {
	if err := f.op(fmt.Sprintf("create-comment:%d", number)); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.comments[number] = append(f.comments[number], forge.Comment{ID: f.nextNoteID, Body: body})
	f.nextNoteID++
	return nil
}

func (f *fakeForge) UpdateComment(_ context.Context, number int, commentID int64, body string) error {
	if err := f.op(fmt.Sprintf("update-comment:%d:%d", number, commentID)); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, c := range f.comments[number] {
		if c.ID == commentID {
			f.comments[number][i].Body = body
		}
	}
	return nil
}

func (f *fakeForge) CurrentUser(context.Context) (string, error) {
	return "tester", nil
}

// fakePusher records pushes and marks pushed bookmarks as synced
type fakePusher struct {
	mu     sync.Mutex
	pushed []string
	failOn map[string]error
}

func newFakePusher() *fakePusher {
	return &fakePusher{failOn: make(map[string]error)}
}

func (p *fakePusher) Push(_ context.Context, remote, bookmark string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.failOn[bookmark]; err != nil {
		return err
	}
	p.pushed = append(p.pushed, bookmark)
	return nil
}

// testStack builds a linear stack of unsynced bookmarks
func testStack(names ...string) *graph.Stack {
	s := &graph.Stack{}
	for i, name := range names {
		e := graph.Entry{
			Bookmark: jj.Bookmark{Name: name, CommitID: "c-" + name},
			Title:    "Add " + name,
		}
		if i > 0 {
			e.Parent = names[i-1]
		}
		s.Entries = append(s.Entries, e)
	}
	return s
}

// syncedStack builds a stack whose bookmarks are all pushed and up to date
func syncedStack(names ...string) *graph.Stack {
	s := testStack(names...)
	for i := range s.Entries {
		s.Entries[i].HasRemote = true
		s.Entries[i].Synced = true
	}
	return s
}
