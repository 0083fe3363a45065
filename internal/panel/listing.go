// Package panel holds the state behind the Sponsor Pass Manager: which
// sponsor is selected, which page of its passes is shown, and the create
// and revoke flows that mutate them through the partnerships service.
package panel

import (
	"context"
	"sync"

	"github.com/iliyamo/sponsor-pass-manager/internal/model"
	"github.com/iliyamo/sponsor-pass-manager/internal/passapi"
)

// Status of the pass listing.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusFailed  Status = "failed"
)

// Query fully determines a fetch.  Page is 1-indexed.
type Query struct {
	SponsorID      int64 `json:"sponsorId"`
	Page           int   `json:"page"`
	PageSize       int   `json:"pageSize"`
	IncludeRevoked bool  `json:"includeRevoked"`
}

// Offset is the zero-based offset sent upstream.
func (q Query) Offset() int { return Offset(q.Page, q.PageSize) }

// Result is one fetched page.  Passes only holds passes of the queried
// sponsor, while Count is the total reported by the service for the whole
// (unscoped) listing.
type Result struct {
	Passes []model.SponsorPass `json:"passes"`
	Count  int                 `json:"count"`
}

// ListingState is a copy of the listing at one instant.
type ListingState struct {
	Status     Status
	Query      Query
	Selected   bool
	Result     Result
	TotalPages int
	Err        *Error
	Generation uint64
}

// PassLister is the read side of passapi.Service.
type PassLister interface {
	ListActiveSponsorPasses(ctx context.Context, p passapi.PageParams) (model.Page[model.SponsorPass], error)
	ListAllSponsorPasses(ctx context.Context, p passapi.ListAllParams) (model.Page[model.SponsorPass], error)
}

// Listing owns the active Query and the latest Result applied for it.
//
// Every input change bumps a generation counter and starts a fetch on its
// own goroutine.  A fetch's outcome is applied only if its generation is
// still the current one, so responses are applied by "last request wins"
// whatever order they arrive in.  Superseded fetches are not cancelled on
// the wire; their results are dropped.
type Listing struct {
	svc PassLister
	ctx context.Context

	mu       sync.Mutex
	query    Query
	selected bool
	gen      uint64
	status   Status
	result   Result
	known    bool // result belongs to the current sponsor and filter
	err      *Error
	pending  chan struct{}
	inflight sync.WaitGroup
}

// NewListing returns an idle Listing.  ctx bounds every fetch it starts.
func NewListing(ctx context.Context, svc PassLister, pageSize int) *Listing {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Listing{
		svc:    svc,
		ctx:    ctx,
		query:  Query{Page: 1, PageSize: pageSize},
		status: StatusIdle,
	}
}

// SetSponsor selects a sponsor, goes back to page 1 and fetches.
func (l *Listing) SetSponsor(id int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.query.SponsorID = id
	l.query.Page = 1
	l.selected = true
	l.forgetLocked()
	l.issueLocked()
}

// SetIncludeRevoked switches between the active-only and the all-passes
// listing and goes back to page 1.  Without a selected sponsor only the
// flag is recorded.
func (l *Listing) SetIncludeRevoked(flag bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.query.IncludeRevoked = flag
	l.query.Page = 1
	l.forgetLocked()
	if l.selected {
		l.issueLocked()
	}
}

// SetPage moves to page n and fetches it.  n must lie within the page
// count of the last result fetched for the current sponsor and filter;
// otherwise nothing changes and false is returned.
func (l *Listing) SetPage(n int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.selected || !l.known {
		return false
	}
	if n < 1 || n > TotalPages(l.result.Count, l.query.PageSize) {
		return false
	}
	l.query.Page = n
	l.issueLocked()
	return true
}

// Refresh re-fetches the current query unchanged.
func (l *Listing) Refresh() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.selected {
		l.issueLocked()
	}
}

// Query returns the active query and whether a sponsor is selected.
func (l *Listing) Query() (Query, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.query, l.selected
}

// State returns a copy of the current state.
func (l *Listing) State() ListingState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stateLocked()
}

// Await blocks until the current generation has settled (ready or failed)
// or ctx is done.  Inputs arriving meanwhile extend the wait.
func (l *Listing) Await(ctx context.Context) (ListingState, error) {
	for {
		l.mu.Lock()
		ch := l.pending
		if ch == nil {
			st := l.stateLocked()
			l.mu.Unlock()
			return st, nil
		}
		l.mu.Unlock()

		select {
		case <-ch:
		case <-ctx.Done():
			return l.State(), ctx.Err()
		}
	}
}

// lookup finds a pass in the applied result.
func (l *Listing) lookup(id int64) (model.SponsorPass, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.status != StatusReady {
		return model.SponsorPass{}, false
	}
	for _, p := range l.result.Passes {
		if p.ID == id {
			return p, true
		}
	}
	return model.SponsorPass{}, false
}

// drain waits for every started fetch, current or superseded, to finish.
func (l *Listing) drain() {
	l.inflight.Wait()
}

func (l *Listing) forgetLocked() {
	l.known = false
	l.result = Result{}
}

func (l *Listing) issueLocked() {
	l.gen++
	gen, q := l.gen, l.query
	l.status = StatusLoading
	l.err = nil
	if l.pending == nil {
		l.pending = make(chan struct{})
	}

	l.inflight.Add(1)
	go func() {
		defer l.inflight.Done()
		res, err := fetchPage(l.ctx, l.svc, q)
		l.complete(gen, q, res, err)
	}()
}

// complete applies the outcome of fetch gen for q, unless a newer request
// superseded it.
func (l *Listing) complete(gen uint64, q Query, res Result, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if gen != l.gen || q != l.query {
		return
	}
	if err != nil {
		l.status = StatusFailed
		l.err = newError(KindPassLoad, err)
		l.settleLocked()
		return
	}

	pages := TotalPages(res.Count, q.PageSize)
	l.result = res
	l.known = true
	if page := clampPage(q.Page, pages); page != q.Page {
		l.query.Page = page
		if pages > 0 {
			// The page we asked for no longer exists; fetch the last one.
			l.issueLocked()
			return
		}
	}
	l.status = StatusReady
	l.settleLocked()
}

func (l *Listing) settleLocked() {
	if l.pending != nil {
		close(l.pending)
		l.pending = nil
	}
}

func (l *Listing) stateLocked() ListingState {
	st := ListingState{
		Status:     l.status,
		Query:      l.query,
		Selected:   l.selected,
		Err:        l.err,
		Generation: l.gen,
		Result:     Result{Count: l.result.Count},
		TotalPages: TotalPages(l.result.Count, l.query.PageSize),
	}
	st.Result.Passes = make([]model.SponsorPass, len(l.result.Passes))
	copy(st.Result.Passes, l.result.Passes)
	return st
}

// fetchPage calls the listing endpoint matching q and keeps only the passes
// of q's sponsor.  The count is passed through untouched.
func fetchPage(ctx context.Context, svc PassLister, q Query) (Result, error) {
	var (
		page model.Page[model.SponsorPass]
		err  error
	)
	if q.IncludeRevoked {
		page, err = svc.ListAllSponsorPasses(ctx, passapi.ListAllParams{
			Limit:          q.PageSize,
			Offset:         q.Offset(),
			IncludeRevoked: true,
		})
	} else {
		page, err = svc.ListActiveSponsorPasses(ctx, passapi.PageParams{
			Limit:  q.PageSize,
			Offset: q.Offset(),
		})
	}
	if err != nil {
		return Result{}, err
	}

	passes := make([]model.SponsorPass, 0, len(page.Results))
	for _, p := range page.Results {
		if p.Sponsor == q.SponsorID {
			passes = append(passes, p)
		}
	}
	return Result{Passes: passes, Count: page.Count}, nil
}
