package passapi

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/iliyamo/sponsor-pass-manager/internal/model"
)

var seedNow = time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

func TestSeededMemoryHoldsInvariants(t *testing.T) {
	m := NewSeededMemory(func() time.Time { return seedNow })
	ctx := context.Background()

	sponsors, err := m.ListSponsors(ctx)
	if err != nil || sponsors.Count != 3 || sponsors.Results[2].Notes != nil {
		t.Fatalf("sponsors = %+v, %v", sponsors, err)
	}

	all, _ := m.ListAllSponsorPasses(ctx, ListAllParams{Limit: 50, IncludeRevoked: true})
	if all.Count != 7 {
		t.Fatalf("all count = %d", all.Count)
	}
	for _, p := range all.Results {
		if (p.Status == model.PassRevoked) != (p.RevokedAt != nil) {
			t.Errorf("pass %d: status %s with revokedAt %v", p.ID, p.Status, p.RevokedAt)
		}
		if p.SponsorName == "" {
			t.Errorf("pass %d has no sponsor name", p.ID)
		}
	}

	active, _ := m.ListActiveSponsorPasses(ctx, PageParams{Limit: 50})
	if active.Count != 4 {
		t.Fatalf("active count = %d", active.Count)
	}
}

func TestMemoryListingWindows(t *testing.T) {
	m := NewSeededMemory(nil)
	ctx := context.Background()

	page, _ := m.ListAllSponsorPasses(ctx, ListAllParams{Limit: 3, Offset: 3, IncludeRevoked: true})
	if page.Count != 7 || len(page.Results) != 3 || page.Results[0].ID != 4 {
		t.Fatalf("page = %+v", page)
	}
	page, _ = m.ListAllSponsorPasses(ctx, ListAllParams{Limit: 3, Offset: 9, IncludeRevoked: true})
	if page.Count != 7 || len(page.Results) != 0 || page.Results == nil {
		t.Fatalf("past the end = %+v", page)
	}
	// includeRevoked=false on the all endpoint behaves like the active one
	page, _ = m.ListAllSponsorPasses(ctx, ListAllParams{Limit: 10})
	if page.Count != 4 {
		t.Fatalf("count = %d", page.Count)
	}
}

func TestMemoryCreateAndRevoke(t *testing.T) {
	m := NewSeededMemory(func() time.Time { return seedNow })
	ctx := context.Background()

	if _, err := m.CreateSponsorPass(ctx, CreatePassRequest{Sponsor: 1, FirstName: "Ada", LastName: " ", Email: "a@b.c"}); !errors.Is(err, ErrInvalidPass) {
		t.Fatalf("missing last name: %v", err)
	}
	if _, err := m.CreateSponsorPass(ctx, CreatePassRequest{Sponsor: 9, FirstName: "Ada", LastName: "L", Email: "a@b.c"}); !errors.Is(err, ErrSponsorNotFound) {
		t.Fatalf("unknown sponsor: %v", err)
	}

	p, err := m.CreateSponsorPass(ctx, CreatePassRequest{Sponsor: 2, FirstName: " Ada ", LastName: "Lovelace", Email: "ada@example.com"})
	if err != nil {
		t.Fatal(err)
	}
	if p.ID != 8 || p.FirstName != "Ada" || p.Status != model.PassActive || p.SponsorName != "Innovation Labs" || !p.CreatedAt.Equal(seedNow) {
		t.Fatalf("created = %+v", p)
	}

	if err := m.RevokeSponsorPass(ctx, RevokePassRequest{ID: p.ID}); err != nil {
		t.Fatal(err)
	}
	got, _ := m.Pass(p.ID)
	if got.Status != model.PassRevoked || got.RevokedAt == nil || !got.RevokedAt.Equal(seedNow) {
		t.Fatalf("revoked = %+v", got)
	}
	if err := m.RevokeSponsorPass(ctx, RevokePassRequest{ID: p.ID}); !errors.Is(err, ErrAlreadyRevoked) {
		t.Fatalf("second revoke: %v", err)
	}
	if err := m.RevokeSponsorPass(ctx, RevokePassRequest{ID: 99}); !errors.Is(err, ErrPassNotFound) {
		t.Fatalf("unknown pass: %v", err)
	}
}
