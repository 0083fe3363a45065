package panel

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/iliyamo/sponsor-pass-manager/internal/model"
	"github.com/iliyamo/sponsor-pass-manager/internal/passapi"
	"github.com/iliyamo/sponsor-pass-manager/internal/queue"
)

var testNow = time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

type listCall struct {
	IncludeRevoked bool
	Limit          int
	Offset         int
}

// fakeService is a Memory with switchable failures that records the
// listing and revoke calls it receives.
type fakeService struct {
	*passapi.Memory

	mu         sync.Mutex
	sponsorErr error
	listErr    error
	createErr  error
	revokeErr  error
	lists      []listCall
	creates    []passapi.CreatePassRequest
	revokes    []int64
	tokens     []string
}

func newFakeService(m *passapi.Memory) *fakeService {
	if m == nil {
		m = passapi.NewMemory(fixedNow)
	}
	return &fakeService{Memory: m}
}

func (f *fakeService) ListSponsors(ctx context.Context) (model.Page[model.Sponsor], error) {
	f.mu.Lock()
	err := f.sponsorErr
	f.mu.Unlock()
	if err != nil {
		return model.Page[model.Sponsor]{}, err
	}
	return f.Memory.ListSponsors(ctx)
}

func (f *fakeService) ListActiveSponsorPasses(ctx context.Context, p passapi.PageParams) (model.Page[model.SponsorPass], error) {
	f.mu.Lock()
	f.lists = append(f.lists, listCall{Limit: p.Limit, Offset: p.Offset})
	err := f.listErr
	f.mu.Unlock()
	if err != nil {
		return model.Page[model.SponsorPass]{}, err
	}
	return f.Memory.ListActiveSponsorPasses(ctx, p)
}

func (f *fakeService) ListAllSponsorPasses(ctx context.Context, p passapi.ListAllParams) (model.Page[model.SponsorPass], error) {
	f.mu.Lock()
	f.lists = append(f.lists, listCall{IncludeRevoked: p.IncludeRevoked, Limit: p.Limit, Offset: p.Offset})
	err := f.listErr
	f.mu.Unlock()
	if err != nil {
		return model.Page[model.SponsorPass]{}, err
	}
	return f.Memory.ListAllSponsorPasses(ctx, p)
}

func (f *fakeService) CreateSponsorPass(ctx context.Context, req passapi.CreatePassRequest) (model.SponsorPass, error) {
	f.mu.Lock()
	f.creates = append(f.creates, req)
	err := f.createErr
	f.mu.Unlock()
	if err != nil {
		return model.SponsorPass{}, err
	}
	return f.Memory.CreateSponsorPass(ctx, req)
}

func (f *fakeService) RevokeSponsorPass(ctx context.Context, req passapi.RevokePassRequest) error {
	f.mu.Lock()
	f.revokes = append(f.revokes, req.ID)
	err := f.revokeErr
	f.mu.Unlock()
	if err != nil {
		return err
	}
	return f.Memory.RevokeSponsorPass(ctx, req)
}

func (f *fakeService) SetToken(token string) {
	f.mu.Lock()
	f.tokens = append(f.tokens, token)
	f.mu.Unlock()
}

func (f *fakeService) set(fn func(f *fakeService)) {
	f.mu.Lock()
	fn(f)
	f.mu.Unlock()
}

func (f *fakeService) listCalls() []listCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]listCall(nil), f.lists...)
}

func (f *fakeService) revokeCalls() []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int64(nil), f.revokes...)
}

// gatedLister holds every listing call until the test releases it, so
// responses can be completed in any order.
type gatedLister struct {
	data  *passapi.Memory
	calls chan *gatedCall
}

type gatedCall struct {
	includeRevoked bool
	offset         int
	release        chan struct{}
}

func newGatedLister(data *passapi.Memory) *gatedLister {
	return &gatedLister{data: data, calls: make(chan *gatedCall, 32)}
}

func (g *gatedLister) wait(ctx context.Context, includeRevoked bool, offset int) error {
	c := &gatedCall{includeRevoked: includeRevoked, offset: offset, release: make(chan struct{})}
	g.calls <- c
	select {
	case <-c.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (g *gatedLister) ListActiveSponsorPasses(ctx context.Context, p passapi.PageParams) (model.Page[model.SponsorPass], error) {
	if err := g.wait(ctx, false, p.Offset); err != nil {
		return model.Page[model.SponsorPass]{}, err
	}
	return g.data.ListActiveSponsorPasses(ctx, p)
}

func (g *gatedLister) ListAllSponsorPasses(ctx context.Context, p passapi.ListAllParams) (model.Page[model.SponsorPass], error) {
	if err := g.wait(ctx, p.IncludeRevoked, p.Offset); err != nil {
		return model.Page[model.SponsorPass]{}, err
	}
	return g.data.ListAllSponsorPasses(ctx, p)
}

func (g *gatedLister) next(t *testing.T) *gatedCall {
	t.Helper()
	select {
	case c := <-g.calls:
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("expected a listing call")
		return nil
	}
}

// recorder is an EventPublisher that keeps what it was given.
type recorder struct {
	mu     sync.Mutex
	events []queue.PassEvent
	err    error
}

func (r *recorder) PublishPassEvent(ctx context.Context, ev queue.PassEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return r.err
}

func (r *recorder) all() []queue.PassEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]queue.PassEvent(nil), r.events...)
}

func addSponsor(m *passapi.Memory, id int64, name string) {
	m.AddSponsor(model.Sponsor{ID: id, Name: name, DailyRate: "$100", CreatedAt: testNow, UpdatedAt: testNow})
}

// addPasses stores n passes of sponsor with the given status and returns
// their ids in order.
func addPasses(m *passapi.Memory, sponsor int64, n int, status model.PassStatus) []int64 {
	ids := make([]int64, 0, n)
	for i := 1; i <= n; i++ {
		p := model.SponsorPass{
			Sponsor:   sponsor,
			FirstName: fmt.Sprintf("Guest%02d", i),
			LastName:  fmt.Sprintf("Of%d", sponsor),
			Email:     fmt.Sprintf("guest%02d@sponsor%d.test", i, sponsor),
			Status:    status,
			CreatedAt: testNow,
			UpdatedAt: testNow,
		}
		if status == model.PassRevoked {
			at := testNow
			p.RevokedAt = &at
		}
		ids = append(ids, m.AddPass(p).ID)
	}
	return ids
}

func newTestListing(t *testing.T, svc PassLister) *Listing {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	l := NewListing(ctx, svc, DefaultPageSize)
	t.Cleanup(func() {
		cancel()
		l.drain()
	})
	return l
}

func settle(t *testing.T, l *Listing) ListingState {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	st, err := l.Await(ctx)
	if err != nil {
		t.Fatalf("listing did not settle: %v", err)
	}
	return st
}

func passIDs(passes []model.SponsorPass) []int64 {
	out := make([]int64, len(passes))
	for i, p := range passes {
		out[i] = p.ID
	}
	return out
}

func idRange(from, to int64) []int64 {
	var out []int64
	for i := from; i <= to; i++ {
		out = append(out, i)
	}
	return out
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
