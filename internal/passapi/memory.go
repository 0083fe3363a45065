package passapi

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/iliyamo/sponsor-pass-manager/internal/model"
)

// Memory is an in-process Service.  Like the real listing endpoints it does
// not scope pass listings by sponsor.  It is safe for concurrent use.
type Memory struct {
	mu       sync.Mutex
	now      func() time.Time
	sponsors []model.Sponsor
	passes   []model.SponsorPass
	nextID   int64
}

// NewMemory returns an empty Memory.  A nil now uses time.Now.
func NewMemory(now func() time.Time) *Memory {
	if now == nil {
		now = time.Now
	}
	return &Memory{now: now, nextID: 1}
}

// AddSponsor registers a sponsor.
func (m *Memory) AddSponsor(s model.Sponsor) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sponsors = append(m.sponsors, s)
}

// AddPass stores p as is.  A zero ID is assigned the next free one.
func (m *Memory) AddPass(p model.SponsorPass) model.SponsorPass {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID == 0 {
		p.ID = m.nextID
	}
	if p.ID >= m.nextID {
		m.nextID = p.ID + 1
	}
	p.SponsorName = m.sponsorNameLocked(p.Sponsor)
	m.passes = append(m.passes, p)
	sort.Slice(m.passes, func(i, j int) bool { return m.passes[i].ID < m.passes[j].ID })
	return p
}

// Pass returns a stored pass by id.
func (m *Memory) Pass(id int64) (model.SponsorPass, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.passes {
		if p.ID == id {
			return p, true
		}
	}
	return model.SponsorPass{}, false
}

func (m *Memory) ListSponsors(ctx context.Context) (model.Page[model.Sponsor], error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Sponsor, len(m.sponsors))
	copy(out, m.sponsors)
	return model.Page[model.Sponsor]{Count: len(out), Results: out}, nil
}

func (m *Memory) ListActiveSponsorPasses(ctx context.Context, p PageParams) (model.Page[model.SponsorPass], error) {
	return m.list(p.Limit, p.Offset, false), nil
}

func (m *Memory) ListAllSponsorPasses(ctx context.Context, p ListAllParams) (model.Page[model.SponsorPass], error) {
	return m.list(p.Limit, p.Offset, p.IncludeRevoked), nil
}

func (m *Memory) list(limit, offset int, includeRevoked bool) model.Page[model.SponsorPass] {
	m.mu.Lock()
	defer m.mu.Unlock()
	matched := make([]model.SponsorPass, 0, len(m.passes))
	for _, p := range m.passes {
		if !includeRevoked && p.Status != model.PassActive {
			continue
		}
		matched = append(matched, p)
	}
	return model.Page[model.SponsorPass]{Count: len(matched), Results: window(matched, limit, offset)}
}

func (m *Memory) CreateSponsorPass(ctx context.Context, req CreatePassRequest) (model.SponsorPass, error) {
	first := strings.TrimSpace(req.FirstName)
	last := strings.TrimSpace(req.LastName)
	email := strings.TrimSpace(req.Email)
	if first == "" || last == "" || email == "" {
		return model.SponsorPass{}, ErrInvalidPass
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	name := m.sponsorNameLocked(req.Sponsor)
	if name == "" {
		return model.SponsorPass{}, ErrSponsorNotFound
	}
	now := m.now().UTC()
	p := model.SponsorPass{
		ID:          m.nextID,
		Sponsor:     req.Sponsor,
		SponsorName: name,
		FirstName:   first,
		LastName:    last,
		Email:       email,
		Status:      model.PassActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if req.ExpiresAt != nil {
		exp := req.ExpiresAt.UTC()
		p.ExpiresAt = &exp
	}
	m.nextID++
	m.passes = append(m.passes, p)
	return p, nil
}

func (m *Memory) RevokeSponsorPass(ctx context.Context, req RevokePassRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.passes {
		if m.passes[i].ID != req.ID {
			continue
		}
		if m.passes[i].Status == model.PassRevoked {
			return ErrAlreadyRevoked
		}
		now := m.now().UTC()
		m.passes[i].Status = model.PassRevoked
		m.passes[i].RevokedAt = &now
		m.passes[i].UpdatedAt = now
		return nil
	}
	return ErrPassNotFound
}

func (m *Memory) sponsorNameLocked(id int64) string {
	for _, s := range m.sponsors {
		if s.ID == id {
			return s.Name
		}
	}
	return ""
}

func window[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	out := make([]T, end-offset)
	copy(out, items[offset:end])
	return out
}
