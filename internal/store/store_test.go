package store_test

import (
	"context"
	"fmt"
	"testing"

	"memoir/internal/testsupport"
)

func TestGetSessionAbsentIsNotAnError(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	session, err := st.GetSession(context.Background(), "owner-1")
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if session != nil {
		t.Fatalf("expected nil session for unknown owner, got %#v", session)
	}
}

func TestAppendSegmentPreservesReceiveOrder(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := st.AppendSegment(ctx, "owner-1", fmt.Sprintf("segment %d", i)); err != nil {
			t.Fatalf("AppendSegment failed: %v", err)
		}
	}

	session, err := st.GetSession(ctx, "owner-1")
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if session == nil || len(session.Segments) != 5 {
		t.Fatalf("expected 5 segments, got %#v", session)
	}
	for i, segment := range session.Segments {
		if want := fmt.Sprintf("segment %d", i); segment != want {
			t.Fatalf("segment %d: expected %q, got %q", i, want, segment)
		}
	}
	if session.LastUpdated.IsZero() {
		t.Fatal("expected last updated timestamp to be set")
	}
}

func TestAppendSegmentIsolatedPerOwner(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	if _, err := st.AppendSegment(ctx, "owner-a", "from a"); err != nil {
		t.Fatalf("AppendSegment failed: %v", err)
	}
	if _, err := st.AppendSegment(ctx, "owner-b", "from b"); err != nil {
		t.Fatalf("AppendSegment failed: %v", err)
	}

	a, err := st.GetSession(ctx, "owner-a")
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if len(a.Segments) != 1 || a.Segments[0] != "from a" {
		t.Fatalf("unexpected segments for owner-a: %v", a.Segments)
	}
}

func TestAppendSegmentRejectsEmptyContent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	if _, err := st.AppendSegment(context.Background(), "owner-1", ""); err == nil {
		t.Fatal("expected error for empty segment content")
	}
}

func TestReplaceSegmentsIsTotalOverwrite(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	if _, err := st.AppendSegment(ctx, "owner-1", "A"); err != nil {
		t.Fatalf("AppendSegment failed: %v", err)
	}
	if _, err := st.AppendSegment(ctx, "owner-1", "B"); err != nil {
		t.Fatalf("AppendSegment failed: %v", err)
	}

	session, err := st.ReplaceSegments(ctx, "owner-1", []string{"X", "Y", "Z"})
	if err != nil {
		t.Fatalf("ReplaceSegments failed: %v", err)
	}
	if len(session.Segments) != 3 || session.Segments[0] != "X" || session.Segments[2] != "Z" {
		t.Fatalf("unexpected segments after replace: %v", session.Segments)
	}

	session, err = st.ReplaceSegments(ctx, "owner-1", nil)
	if err != nil {
		t.Fatalf("ReplaceSegments with empty failed: %v", err)
	}
	if len(session.Segments) != 0 {
		t.Fatalf("expected empty segments, got %v", session.Segments)
	}
}

func TestReplaceSegmentsCreatesSessionWhenAbsent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	session, err := st.ReplaceSegments(context.Background(), "fresh-owner", []string{"only"})
	if err != nil {
		t.Fatalf("ReplaceSegments failed: %v", err)
	}
	if session == nil || len(session.Segments) != 1 {
		t.Fatalf("expected created session with one segment, got %#v", session)
	}
}

func TestDeleteSessionIsIdempotent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	if _, err := st.AppendSegment(ctx, "owner-1", "to be deleted"); err != nil {
		t.Fatalf("AppendSegment failed: %v", err)
	}
	if err := st.DeleteSession(ctx, "owner-1"); err != nil {
		t.Fatalf("DeleteSession failed: %v", err)
	}
	session, err := st.GetSession(ctx, "owner-1")
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if session != nil {
		t.Fatalf("expected session gone, got %#v", session)
	}

	if err := st.DeleteSession(ctx, "owner-1"); err != nil {
		t.Fatalf("second DeleteSession should succeed, got %v", err)
	}
}

func TestAppendAfterDeleteStartsFresh(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	if _, err := st.AppendSegment(ctx, "owner-1", "old"); err != nil {
		t.Fatalf("AppendSegment failed: %v", err)
	}
	if err := st.DeleteSession(ctx, "owner-1"); err != nil {
		t.Fatalf("DeleteSession failed: %v", err)
	}
	session, err := st.AppendSegment(ctx, "owner-1", "new")
	if err != nil {
		t.Fatalf("AppendSegment failed: %v", err)
	}
	if len(session.Segments) != 1 || session.Segments[0] != "new" {
		t.Fatalf("expected fresh session with one segment, got %v", session.Segments)
	}
}
