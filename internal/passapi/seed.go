package passapi

import (
	"time"

	"github.com/iliyamo/sponsor-pass-manager/internal/model"
)

// NewSeededMemory returns a Memory holding the demo data set used for local
// development: three sponsors and seven passes, some revoked.
func NewSeededMemory(now func() time.Time) *Memory {
	m := NewMemory(now)
	for _, s := range DemoSponsors() {
		m.AddSponsor(s)
	}
	for _, p := range DemoPasses() {
		m.AddPass(p)
	}
	return m
}

// DemoSponsors returns the sponsors of the demo data set.
func DemoSponsors() []model.Sponsor {
	notes := func(s string) *string { return &s }
	since := ts("2025-12-01T09:00:00Z")
	return []model.Sponsor{
		{ID: 1, Name: "TechCorp Solutions", DailyRate: "$500", Notes: notes("Premium sponsor with extended access"), CreatedAt: since, UpdatedAt: since},
		{ID: 2, Name: "Innovation Labs", DailyRate: "$350", Notes: notes("Annual partnership sponsor"), CreatedAt: since, UpdatedAt: since},
		{ID: 3, Name: "Digital Ventures", DailyRate: "$450", CreatedAt: since, UpdatedAt: since},
	}
}

// DemoPasses returns the passes of the demo data set.  UpdatedAt is the
// revocation time for revoked passes and the creation time otherwise.
func DemoPasses() []model.SponsorPass {
	passes := []model.SponsorPass{
		{ID: 1, Sponsor: 1, FirstName: "John", LastName: "Doe", Email: "john.doe@techcorp.com", Status: model.PassActive,
			CreatedAt: ts("2026-01-01T10:00:00Z"), ExpiresAt: tsp("2026-12-31T23:59:59Z")},
		{ID: 2, Sponsor: 1, FirstName: "Jane", LastName: "Smith", Email: "jane.smith@techcorp.com", Status: model.PassActive,
			CreatedAt: ts("2026-01-02T14:30:00Z")},
		{ID: 3, Sponsor: 1, FirstName: "Mike", LastName: "Johnson", Email: "mike.johnson@techcorp.com", Status: model.PassRevoked,
			CreatedAt: ts("2025-12-15T09:00:00Z"), ExpiresAt: tsp("2026-06-30T23:59:59Z"), RevokedAt: tsp("2026-01-03T16:45:00Z")},
		{ID: 4, Sponsor: 2, FirstName: "Sarah", LastName: "Williams", Email: "sarah.williams@innovationlabs.com", Status: model.PassActive,
			CreatedAt: ts("2026-01-01T08:00:00Z"), ExpiresAt: tsp("2026-12-31T23:59:59Z")},
		{ID: 5, Sponsor: 2, FirstName: "David", LastName: "Brown", Email: "david.brown@innovationlabs.com", Status: model.PassActive,
			CreatedAt: ts("2026-01-03T11:20:00Z")},
		{ID: 6, Sponsor: 3, FirstName: "Emily", LastName: "Davis", Email: "emily.davis@digitalventures.com", Status: model.PassRevoked,
			CreatedAt: ts("2026-01-04T15:00:00Z"), ExpiresAt: tsp("2026-03-31T23:59:59Z"), RevokedAt: tsp("2026-01-05T09:10:00Z")},
		{ID: 7, Sponsor: 3, FirstName: "Robert", LastName: "Miller", Email: "robert.miller@digitalventures.com", Status: model.PassRevoked,
			CreatedAt: ts("2025-12-20T10:30:00Z"), RevokedAt: tsp("2025-12-28T13:15:00Z")},
	}
	for i := range passes {
		p := &passes[i]
		p.UpdatedAt = p.CreatedAt
		if p.RevokedAt != nil {
			p.UpdatedAt = *p.RevokedAt
		}
	}
	return passes
}

func ts(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func tsp(s string) *time.Time {
	t := ts(s)
	return &t
}
