package panel

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/iliyamo/sponsor-pass-manager/internal/model"
	"github.com/iliyamo/sponsor-pass-manager/internal/passapi"
	"github.com/iliyamo/sponsor-pass-manager/internal/utils"
)

// Options configure a Panel.
type Options struct {
	PageSize int
	Actor    string // manager id recorded on audit events
	Events   EventPublisher
	Now      func() time.Time
}

// Panel is one manager's Sponsor Pass Manager session.  It owns the
// sponsor list, the pass listing, the create form and the pending
// revocation; callers only submit intents and read snapshots.
type Panel struct {
	svc       passapi.Service
	listing   *Listing
	mutations *Mutations
	now       func() time.Time
	cancel    context.CancelFunc

	mu          sync.Mutex
	loaded      bool
	sponsors    []model.Sponsor
	sponsorErr  *Error
	form        CreateForm
	notice      *Notice
	revokeError *Error
}

// New builds an unloaded Panel over svc.  Fetches started by the panel are
// bound to ctx and stop when Close is called.
func New(ctx context.Context, svc passapi.Service, opts Options) *Panel {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	ctx, cancel := context.WithCancel(ctx)
	listing := NewListing(ctx, svc, opts.PageSize)
	return &Panel{
		svc:       svc,
		listing:   listing,
		mutations: NewMutations(svc, listing, opts.Events, opts.Actor, opts.Now),
		now:       opts.Now,
		cancel:    cancel,
	}
}

// Close abandons in-flight fetches.
func (p *Panel) Close() { p.cancel() }

// SetToken forwards a rotated host token to services that carry one.
func (p *Panel) SetToken(token string) {
	if ts, ok := p.svc.(interface{ SetToken(string) }); ok {
		ts.SetToken(token)
	}
}

// Load fetches the sponsor list once per session and selects the first
// sponsor.  A failed load is kept as the panel error and is retried by the
// next Load.
func (p *Panel) Load(ctx context.Context) error {
	p.mu.Lock()
	if p.loaded {
		p.mu.Unlock()
		return nil
	}
	p.mu.Unlock()

	page, err := p.svc.ListSponsors(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.loaded {
		return nil
	}
	if err != nil {
		p.sponsorErr = newError(KindSponsorLoad, err)
		return p.sponsorErr
	}
	p.loaded = true
	p.sponsorErr = nil
	p.sponsors = page.Results
	if len(p.sponsors) > 0 {
		p.listing.SetSponsor(p.sponsors[0].ID)
	}
	return nil
}

// SelectSponsor switches to one of the loaded sponsors.
func (p *Panel) SelectSponsor(id int64) error {
	p.mu.Lock()
	found := false
	for _, s := range p.sponsors {
		if s.ID == id {
			found = true
			break
		}
	}
	p.mu.Unlock()
	if !found {
		return ErrUnknownSponsor
	}
	p.mutations.CancelRevoke()
	p.listing.SetSponsor(id)
	return nil
}

// SetIncludeRevoked toggles the revoked filter.  A pending revoke
// confirmation is dropped with the page it was opened on.
func (p *Panel) SetIncludeRevoked(flag bool) {
	p.mutations.CancelRevoke()
	p.listing.SetIncludeRevoked(flag)
}

// SetPage changes page; out-of-range pages are refused and leave any
// pending revoke confirmation in place.
func (p *Panel) SetPage(n int) bool {
	if !p.listing.SetPage(n) {
		return false
	}
	p.mutations.CancelRevoke()
	return true
}

// OpenCreateForm shows the create surface.
func (p *Panel) OpenCreateForm() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.form.Open = true
	p.notice = nil
}

// CancelCreateForm closes the create surface and clears what was typed.
func (p *Panel) CancelCreateForm() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.form.Submitting {
		return
	}
	p.form = CreateForm{}
}

// SubmitCreateForm validates the form and creates the pass.  On failure the
// form stays open with its values and the error; on success it is reset
// and closed and a notice is set.
func (p *Panel) SubmitCreateForm(ctx context.Context, v FormValues) (model.SponsorPass, error) {
	p.mu.Lock()
	if p.form.Submitting {
		p.mu.Unlock()
		return model.SponsorPass{}, ErrSubmitInProgress
	}
	p.form = CreateForm{Open: true, Submitting: true, Values: v}
	p.notice = nil
	p.mu.Unlock()

	pass, err := p.submit(ctx, v)

	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		p.form.Submitting = false
		p.form.Error = err.Error()
		return model.SponsorPass{}, err
	}
	p.form = CreateForm{}
	p.notice = &Notice{
		Title:       "Pass created successfully!",
		Description: "Created pass for " + strings.TrimSpace(v.FirstName) + " " + strings.TrimSpace(v.LastName),
	}
	return pass, nil
}

func (p *Panel) submit(ctx context.Context, v FormValues) (model.SponsorPass, error) {
	if strings.TrimSpace(v.FirstName) == "" || strings.TrimSpace(v.LastName) == "" || strings.TrimSpace(v.Email) == "" {
		return model.SponsorPass{}, ErrMissingHolder
	}
	exp, err := parseExpiry(v.ExpiresAt, p.now())
	if err != nil {
		return model.SponsorPass{}, err
	}
	return p.mutations.CreatePass(ctx, v.input(exp))
}

// RequestRevoke opens the confirmation for passID.
func (p *Panel) RequestRevoke(passID int64) (RevokeConfirmation, error) {
	p.mu.Lock()
	p.revokeError = nil
	p.mu.Unlock()
	return p.mutations.RequestRevoke(passID)
}

// ConfirmRevoke revokes the pass awaiting confirmation.  A service failure
// is kept for display until the next revoke request.
func (p *Panel) ConfirmRevoke(ctx context.Context, passID int64) error {
	err := p.mutations.ConfirmRevoke(ctx, passID)
	var perr *Error
	if errors.As(err, &perr) {
		p.mu.Lock()
		p.revokeError = perr
		p.mu.Unlock()
	}
	return err
}

// CancelRevoke dismisses the confirmation without calling the service.
func (p *Panel) CancelRevoke() {
	p.mutations.CancelRevoke()
}

// Await waits for the in-flight listing fetch and returns the snapshot.
func (p *Panel) Await(ctx context.Context) (Snapshot, error) {
	_, err := p.listing.Await(ctx)
	return p.Snapshot(), err
}

// Snapshot is what the presentation layer renders.
type Snapshot struct {
	Sponsors          []model.Sponsor     `json:"sponsors"`
	SelectedSponsorID *int64              `json:"selectedSponsorId"`
	NoSponsors        bool                `json:"noSponsors"`
	Status            Status              `json:"status"`
	Passes            []PassRow           `json:"passes"`
	TotalPasses       int                 `json:"totalPasses"`
	CurrentPage       int                 `json:"currentPage"`
	PageSize          int                 `json:"pageSize"`
	TotalPages        int                 `json:"totalPages"`
	IsLoading         bool                `json:"isLoading"`
	Error             *string             `json:"error"`
	IncludeRevoked    bool                `json:"includeRevoked"`
	CreateForm        CreateForm          `json:"createForm"`
	PendingRevoke     *RevokeConfirmation `json:"pendingRevoke"`
	RevokeError       *string             `json:"revokeError"`
	Notice            *Notice             `json:"notice"`
}

// PassRow is a pass with its display strings.
type PassRow struct {
	model.SponsorPass
	HolderName     string `json:"holderName"`
	ExpiresDisplay string `json:"expiresDisplay"`
	CreatedDisplay string `json:"createdDisplay"`
	RevokedDisplay string `json:"revokedDisplay,omitempty"`
	CanRevoke      bool   `json:"canRevoke"`
}

func newPassRow(sp model.SponsorPass) PassRow {
	row := PassRow{
		SponsorPass:    sp,
		HolderName:     sp.HolderName(),
		ExpiresDisplay: "Never",
		CreatedDisplay: utils.FormatDateCET(sp.CreatedAt),
		CanRevoke:      sp.Active(),
	}
	if sp.ExpiresAt != nil {
		row.ExpiresDisplay = utils.FormatDateCET(*sp.ExpiresAt)
	}
	if sp.RevokedAt != nil {
		row.RevokedDisplay = utils.FormatDateCET(*sp.RevokedAt)
	}
	return row
}

// Snapshot returns the current panel state.  Passes are only listed in the
// ready state; a load error replaces the list.
func (p *Panel) Snapshot() Snapshot {
	st := p.listing.State()

	p.mu.Lock()
	defer p.mu.Unlock()
	s := Snapshot{
		Sponsors:       append([]model.Sponsor(nil), p.sponsors...),
		NoSponsors:     p.loaded && len(p.sponsors) == 0,
		Status:         st.Status,
		Passes:         []PassRow{},
		CurrentPage:    st.Query.Page,
		PageSize:       st.Query.PageSize,
		IsLoading:      st.Status == StatusLoading,
		IncludeRevoked: st.Query.IncludeRevoked,
		CreateForm:     p.form,
		PendingRevoke:  p.mutations.Pending(),
		Notice:         p.notice,
	}
	if s.Sponsors == nil {
		s.Sponsors = []model.Sponsor{}
	}
	if st.Selected {
		id := st.Query.SponsorID
		s.SelectedSponsorID = &id
	}
	if !p.loaded && p.sponsorErr == nil && !st.Selected {
		s.IsLoading = true
	}

	switch {
	case p.sponsorErr != nil:
		msg := p.sponsorErr.Message
		s.Error = &msg
	case st.Status == StatusFailed && st.Err != nil:
		msg := st.Err.Message
		s.Error = &msg
	case st.Status == StatusReady:
		s.TotalPasses = st.Result.Count
		s.TotalPages = st.TotalPages
		for _, sp := range st.Result.Passes {
			s.Passes = append(s.Passes, newPassRow(sp))
		}
	}
	if p.revokeError != nil {
		msg := p.revokeError.Message
		s.RevokeError = &msg
	}
	return s
}
