package log

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestSessionRoundTrip(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	s := NewSession("organize", []string{"Show_S01"}, dir)
	s.Record(OpRename, "old", "new", true, false, nil)
	s.Record(OpCreateDir, "", "Show (2005)", true, false, nil)
	s.Record(OpRename, "a", "b", false, false, errors.New("permission denied"))
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	sessions, err := ReadSessions(dir, 10)
	if err != nil {
		t.Fatalf("ReadSessions() error = %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("ReadSessions() returned %d sessions, want 1", len(sessions))
	}

	got := sessions[0]
	if got.Metadata.TotalOps != 3 || got.Metadata.SuccessfulOps != 2 || got.Metadata.FailedOps != 1 {
		t.Errorf("stats = (%d, %d, %d), want (3, 2, 1)",
			got.Metadata.TotalOps, got.Metadata.SuccessfulOps, got.Metadata.FailedOps)
	}
	if diff := cmp.Diff([]string{"organize", "Show_S01"}, got.Metadata.CommandArgs); diff != "" {
		t.Errorf("CommandArgs mismatch (-want +got):\n%s", diff)
	}
	if got.Operations[2].Error != "permission denied" {
		t.Errorf("Operations[2].Error = %q, want %q", got.Operations[2].Error, "permission denied")
	}
}

func TestNilSessionIsInert(t *testing.T) {
	t.Parallel()
	var s *Session
	s.Record(OpRename, "a", "b", true, false, nil)
	if err := s.Close(); err != nil {
		t.Errorf("Close() on nil session = %v, want nil", err)
	}
}

func TestReadSessionsMissingDir(t *testing.T) {
	t.Parallel()
	sessions, err := ReadSessions(filepath.Join(t.TempDir(), "nope"), 5)
	if err != nil || sessions != nil {
		t.Errorf("ReadSessions(missing) = (%v, %v), want (nil, nil)", sessions, err)
	}
}

func TestReadSessionsSkipsCorrupted(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	s := NewSession("organize", nil, dir)
	s.Record(OpRename, "a", "b", true, false, nil)
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	sessions, err := ReadSessions(dir, 0)
	if err != nil {
		t.Fatalf("ReadSessions() error = %v", err)
	}
	if len(sessions) != 1 {
		t.Errorf("ReadSessions() returned %d sessions, want 1 (corrupted file skipped)", len(sessions))
	}
}

func TestCleanupRemovesOldSessions(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	old := filepath.Join(dir, "old.json")
	fresh := filepath.Join(dir, "fresh.json")
	for _, f := range []string{old, fresh} {
		if err := os.WriteFile(f, []byte("{}"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	stale := time.Now().AddDate(0, 0, -60)
	if err := os.Chtimes(old, stale, stale); err != nil {
		t.Fatal(err)
	}

	if err := Cleanup(dir, 30); err != nil {
		t.Fatalf("Cleanup() error = %v", err)
	}
	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Error("old session file still present after Cleanup")
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Errorf("fresh session file removed by Cleanup: %v", err)
	}
}
