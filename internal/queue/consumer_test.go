package queue

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFormatAuditLine(t *testing.T) {
	exp := "2026-06-30T00:00:00Z"
	created := FormatAuditLine(PassEvent{
		EventID:    "e-1",
		Type:       PassCreated,
		PassID:     8,
		SponsorID:  1,
		HolderName: "Ada Lovelace",
		Email:      "ada@example.com",
		ExpiresAt:  &exp,
		ManagerID:  "manager-1",
		OccurredAt: "2026-02-01T12:00:00Z",
	})
	want := `[2026-02-01T12:00:00Z] Pass created | event_id=e-1 | pass_id=8 | sponsor_id=1 | holder="Ada Lovelace" | email="ada@example.com" | expires=2026-06-30T00:00:00Z | manager=manager-1` + "\n"
	if created != want {
		t.Fatalf("got  %q\nwant %q", created, want)
	}

	revoked := FormatAuditLine(PassEvent{EventID: "e-2", Type: PassRevoked, PassID: 8, SponsorID: 1, HolderName: "Ada", ManagerID: "m", OccurredAt: "t"})
	if revoked != `[t] Pass revoked | event_id=e-2 | pass_id=8 | sponsor_id=1 | holder="Ada" | manager=m`+"\n" {
		t.Fatalf("got %q", revoked)
	}
}

func TestHandleMessageAppends(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	for _, ev := range []PassEvent{
		{EventID: "a", Type: PassCreated, PassID: 1, OccurredAt: "t1"},
		{EventID: "b", Type: PassRevoked, PassID: 1, OccurredAt: "t2"},
	} {
		body, _ := json.Marshal(ev)
		if err := handleMessage(dir, body); err != nil {
			t.Fatalf("handleMessage: %v", err)
		}
	}
	raw, err := os.ReadFile(filepath.Join(dir, auditLogFile))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	if len(lines) != 2 || !strings.Contains(lines[0], "Pass created") || !strings.Contains(lines[1], "Pass revoked") {
		t.Fatalf("log = %q", raw)
	}
	if !strings.Contains(lines[0], "expires=never") {
		t.Fatalf("line = %q", lines[0])
	}
}

func TestHandleMessageRejectsBadPayloads(t *testing.T) {
	dir := t.TempDir()
	if err := handleMessage(dir, []byte("{")); err == nil {
		t.Fatal("accepted invalid JSON")
	}
	if err := handleMessage(dir, []byte(`{"type":"pass.deleted"}`)); err == nil {
		t.Fatal("accepted an unknown type")
	}
	if _, err := os.Stat(filepath.Join(dir, auditLogFile)); !os.IsNotExist(err) {
		t.Fatal("log written for a rejected message")
	}
}
