package panel

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/sponsor-pass-manager/internal/model"
	"github.com/iliyamo/sponsor-pass-manager/internal/passapi"
	"github.com/iliyamo/sponsor-pass-manager/internal/queue"
)

// PassWriter is the write side of passapi.Service.
type PassWriter interface {
	CreateSponsorPass(ctx context.Context, req passapi.CreatePassRequest) (model.SponsorPass, error)
	RevokeSponsorPass(ctx context.Context, req passapi.RevokePassRequest) error
}

// EventPublisher receives an audit event after each accepted mutation.
type EventPublisher interface {
	PublishPassEvent(ctx context.Context, event queue.PassEvent) error
}

// CreatePassInput is a validated create form.
type CreatePassInput struct {
	FirstName string
	LastName  string
	Email     string
	ExpiresAt *time.Time
}

// RevokeConfirmation is the question put to the manager before a pass is
// revoked.
type RevokeConfirmation struct {
	PassID      int64  `json:"passId"`
	SponsorID   int64  `json:"sponsorId"`
	DisplayName string `json:"displayName"`
	Prompt      string `json:"prompt"`
}

func revokePrompt(name string) string {
	return fmt.Sprintf("Are you sure you want to revoke the pass for %s?\n\nThis action cannot be undone.", name)
}

// Mutations sequences create and revoke calls and refreshes the listing
// after each one the service accepts.  The listing is never edited
// locally: a failed call leaves it exactly as it was.
type Mutations struct {
	svc     PassWriter
	listing *Listing
	events  EventPublisher
	actor   string
	now     func() time.Time

	mu      sync.Mutex
	pending *RevokeConfirmation

	sent sync.WaitGroup
}

// NewMutations wires a coordinator to listing.  events may be nil.
func NewMutations(svc PassWriter, listing *Listing, events EventPublisher, actor string, now func() time.Time) *Mutations {
	if now == nil {
		now = time.Now
	}
	return &Mutations{svc: svc, listing: listing, events: events, actor: actor, now: now}
}

// CreatePass issues a pass for the selected sponsor.
func (m *Mutations) CreatePass(ctx context.Context, in CreatePassInput) (model.SponsorPass, error) {
	q, ok := m.listing.Query()
	if !ok {
		return model.SponsorPass{}, ErrNoSponsorSelected
	}
	req := passapi.CreatePassRequest{
		Sponsor:   q.SponsorID,
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Email:     strings.TrimSpace(in.Email),
		ExpiresAt: in.ExpiresAt,
	}
	if req.FirstName == "" || req.LastName == "" || req.Email == "" {
		return model.SponsorPass{}, ErrMissingHolder
	}

	pass, err := m.svc.CreateSponsorPass(ctx, req)
	if err != nil {
		return model.SponsorPass{}, newError(KindPassCreate, err)
	}
	m.listing.Refresh()

	ev := queue.PassEvent{
		Type:       queue.PassCreated,
		PassID:     pass.ID,
		SponsorID:  pass.Sponsor,
		HolderName: pass.HolderName(),
		Email:      pass.Email,
	}
	if pass.ExpiresAt != nil {
		exp := pass.ExpiresAt.UTC().Format(time.RFC3339)
		ev.ExpiresAt = &exp
	}
	m.publish(ctx, ev)
	return pass, nil
}

// RequestRevoke asks for confirmation before revoking passID.  Only active
// passes of the current page can be revoked.  The prompt names the holder
// as stored on the pass.
func (m *Mutations) RequestRevoke(passID int64) (RevokeConfirmation, error) {
	p, ok := m.listing.lookup(passID)
	if !ok || !p.Active() {
		return RevokeConfirmation{}, ErrPassNotRevocable
	}
	name := p.HolderName()
	c := RevokeConfirmation{PassID: passID, SponsorID: p.Sponsor, DisplayName: name, Prompt: revokePrompt(name)}

	m.mu.Lock()
	m.pending = &c
	m.mu.Unlock()
	return c, nil
}

// Pending returns the confirmation awaiting an answer, if any.
func (m *Mutations) Pending() *RevokeConfirmation {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pending == nil {
		return nil
	}
	c := *m.pending
	return &c
}

// CancelRevoke drops the pending confirmation.
func (m *Mutations) CancelRevoke() {
	m.mu.Lock()
	m.pending = nil
	m.mu.Unlock()
}

// ConfirmRevoke revokes passID, which must be the pass awaiting
// confirmation.  The confirmation is consumed whatever the outcome.
func (m *Mutations) ConfirmRevoke(ctx context.Context, passID int64) error {
	m.mu.Lock()
	c := m.pending
	if c == nil || c.PassID != passID {
		m.mu.Unlock()
		return ErrNoPendingRevoke
	}
	m.pending = nil
	m.mu.Unlock()

	if err := m.svc.RevokeSponsorPass(ctx, passapi.RevokePassRequest{ID: passID}); err != nil {
		return newError(KindPassRevoke, err)
	}
	m.listing.Refresh()

	m.publish(ctx, queue.PassEvent{
		Type:       queue.PassRevoked,
		PassID:     passID,
		SponsorID:  c.SponsorID,
		HolderName: c.DisplayName,
	})
	return nil
}

// publish hands ev to the publisher on its own goroutine so a slow broker
// never delays the mutation response.  Failures are logged by the
// publisher.
func (m *Mutations) publish(ctx context.Context, ev queue.PassEvent) {
	if m.events == nil {
		return
	}
	ev.EventID = uuid.NewString()
	ev.ManagerID = m.actor
	ev.OccurredAt = m.now().UTC().Format(time.RFC3339)

	ctx = context.WithoutCancel(ctx)
	m.sent.Add(1)
	go func() {
		defer m.sent.Done()
		_ = m.events.PublishPassEvent(ctx, ev)
	}()
}

// flush waits for audit events still being handed to the publisher.
func (m *Mutations) flush() {
	m.sent.Wait()
}
