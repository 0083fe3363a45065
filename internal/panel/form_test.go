package panel

import (
	"errors"
	"testing"
	"time"
)

func TestParseExpiry(t *testing.T) {
	cases := []struct {
		raw     string
		want    string
		wantErr error
	}{
		{raw: "", want: ""},
		{raw: "   ", want: ""},
		{raw: "2026-02-01", want: "2026-02-01T00:00:00Z"},
		{raw: "2026-12-31", want: "2026-12-31T00:00:00Z"},
		{raw: "2026-03-01T15:30:00+01:00", want: "2026-03-01T14:30:00Z"},
		{raw: "2026-01-31", wantErr: ErrExpiryInPast},
		{raw: "31/12/2026", wantErr: ErrInvalidExpiry},
	}
	for _, c := range cases {
		got, err := parseExpiry(c.raw, fixedNow())
		if c.wantErr != nil {
			if !errors.Is(err, c.wantErr) {
				t.Errorf("parseExpiry(%q) err = %v, want %v", c.raw, err, c.wantErr)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseExpiry(%q): %v", c.raw, err)
			continue
		}
		switch {
		case c.want == "" && got != nil:
			t.Errorf("parseExpiry(%q) = %v, want nil", c.raw, got)
		case c.want != "" && (got == nil || got.Format(time.RFC3339) != c.want):
			t.Errorf("parseExpiry(%q) = %v, want %s", c.raw, got, c.want)
		}
	}
}
