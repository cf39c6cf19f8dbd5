package services

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func TestCheckInByTicketCode(t *testing.T) {
	repo, cfg := newTestRepo(t)
	svc := NewCheckInService(repo, cfg)

	workshop := seedWorkshop(t, repo, "Go Workshop", "published", time.Now().Add(24*time.Hour))
	tt := seedTicketType(t, repo, workshop, "Regular", 10000)
	seedParticipant(t, repo, workshop, tt, "John Doe", "john@example.com", "TEST1234", true, false)

	t.Run("Success", func(t *testing.T) {
		result := svc.CheckInByTicketCode("TEST1234", "")
		if !result.Success {
			t.Fatalf("expected success, got %s: %s", result.ErrorType, result.Message)
		}
		if result.Message != "Check-in successful!" {
			t.Errorf("unexpected message: %q", result.Message)
		}
		if result.Participant == nil || !result.Participant.IsCheckedIn {
			t.Error("expected participant snapshot with is_checked_in true")
		}
		if result.Participant.WorkshopName != "Go Workshop" {
			t.Errorf("unexpected workshop name: %q", result.Participant.WorkshopName)
		}
	})

	t.Run("AlreadyCheckedIn", func(t *testing.T) {
		result := svc.CheckInByTicketCode("TEST1234", "")
		if result.Success {
			t.Fatal("expected failure on second check-in")
		}
		if result.ErrorType != ErrKindAlreadyCheckedIn {
			t.Errorf("expected %s, got %s", ErrKindAlreadyCheckedIn, result.ErrorType)
		}
		if result.Participant == nil {
			t.Error("expected snapshot on already-checked-in result")
		}
	})

	t.Run("LowercaseInput", func(t *testing.T) {
		result := svc.CheckInByTicketCode("  test1234 ", "")
		if result.ErrorType != ErrKindAlreadyCheckedIn {
			t.Errorf("expected lookup to normalize case, got %s", result.ErrorType)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		result := svc.CheckInByTicketCode("ZZZZ9999", "")
		if result.Success || result.ErrorType != ErrKindNotFound {
			t.Errorf("expected %s, got %s", ErrKindNotFound, result.ErrorType)
		}
	})

	t.Run("MissingCode", func(t *testing.T) {
		result := svc.CheckInByTicketCode("   ", "")
		if result.ErrorType != ErrKindMissingTicketCode {
			t.Errorf("expected %s, got %s", ErrKindMissingTicketCode, result.ErrorType)
		}
	})
}

func TestCheckInWrongWorkshop(t *testing.T) {
	repo, cfg := newTestRepo(t)
	svc := NewCheckInService(repo, cfg)

	first := seedWorkshop(t, repo, "First Workshop", "published", time.Now().Add(24*time.Hour))
	second := seedWorkshop(t, repo, "Second Workshop", "published", time.Now().Add(48*time.Hour))
	tt := seedTicketType(t, repo, first, "Regular", 0)
	seedParticipant(t, repo, first, tt, "Jane", "jane@example.com", "AAAA1111", false, false)

	result := svc.CheckInByTicketCode("AAAA1111", second.ID.String())
	if result.Success {
		t.Fatal("expected wrong-workshop rejection")
	}
	if result.ErrorType != ErrKindWrongWorkshop {
		t.Errorf("expected %s, got %s", ErrKindWrongWorkshop, result.ErrorType)
	}

	// Pinned to the right workshop it goes through
	result = svc.CheckInByTicketCode("AAAA1111", first.ID.String())
	if !result.Success {
		t.Fatalf("expected success, got %s", result.ErrorType)
	}
}

func TestUndoCheckIn(t *testing.T) {
	repo, cfg := newTestRepo(t)
	svc := NewCheckInService(repo, cfg)

	workshop := seedWorkshop(t, repo, "Go Workshop", "ongoing", time.Now())
	tt := seedTicketType(t, repo, workshop, "Regular", 0)
	p := seedParticipant(t, repo, workshop, tt, "Jane", "jane@example.com", "BBBB2222", false, true)

	result := svc.UndoCheckIn(p.ID.String())
	if !result.Success {
		t.Fatalf("expected undo success, got %s: %s", result.ErrorType, result.Message)
	}
	if result.Participant.IsCheckedIn {
		t.Error("expected is_checked_in false after undo")
	}

	result = svc.UndoCheckIn(p.ID.String())
	if result.Success || result.ErrorType != ErrKindNotCheckedIn {
		t.Errorf("expected %s on second undo, got %s", ErrKindNotCheckedIn, result.ErrorType)
	}

	result = svc.UndoCheckIn(uuid.New().String())
	if result.ErrorType != ErrKindNotFound {
		t.Errorf("expected %s for unknown id, got %s", ErrKindNotFound, result.ErrorType)
	}
}

func TestBulkCheckIn(t *testing.T) {
	repo, cfg := newTestRepo(t)
	svc := NewCheckInService(repo, cfg)

	workshop := seedWorkshop(t, repo, "Go Workshop", "ongoing", time.Now())
	tt := seedTicketType(t, repo, workshop, "Regular", 0)

	fresh1 := seedParticipant(t, repo, workshop, tt, "A", "a@example.com", "CODE0001", false, false)
	fresh2 := seedParticipant(t, repo, workshop, tt, "B", "b@example.com", "CODE0002", false, false)
	already := seedParticipant(t, repo, workshop, tt, "C", "c@example.com", "CODE0003", false, true)

	ids := []string{
		fresh1.ID.String(),
		fresh2.ID.String(),
		already.ID.String(),
		uuid.New().String(),
	}

	result := svc.BulkCheckIn(ids)
	if !result.Success {
		t.Fatalf("expected bulk success, got %s", result.ErrorType)
	}
	if result.CheckedIn != 2 {
		t.Errorf("expected 2 checked in, got %d", result.CheckedIn)
	}
	if result.AlreadyCheckedIn != 1 {
		t.Errorf("expected 1 already checked in, got %d", result.AlreadyCheckedIn)
	}
	if result.Failed != 1 {
		t.Errorf("expected 1 failed, got %d", result.Failed)
	}
	if len(result.Errors) != 1 {
		t.Errorf("expected 1 error entry, got %d", len(result.Errors))
	}
}

func TestScanQRPayload(t *testing.T) {
	repo, cfg := newTestRepo(t)
	svc := NewCheckInService(repo, cfg)

	workshop := seedWorkshop(t, repo, "Go Workshop", "published", time.Now().Add(time.Hour))
	tt := seedTicketType(t, repo, workshop, "Regular", 0)
	p := seedParticipant(t, repo, workshop, tt, "Jane", "jane@example.com", "DDDD4444", false, false)

	t.Run("BareCode", func(t *testing.T) {
		result := svc.ScanQRPayload("DDDD4444", "")
		if !result.Success {
			t.Fatalf("expected success, got %s", result.ErrorType)
		}
	})

	t.Run("JSONPayload", func(t *testing.T) {
		// undo first so the scan is a fresh check-in
		svc.UndoCheckIn(p.ID.String())

		payload := fmt.Sprintf(
			`{"ticket_code":"DDDD4444","workshop_id":"%s","participant_id":"%s"}`,
			workshop.ID, p.ID,
		)
		result := svc.ScanQRPayload(payload, "")
		if !result.Success {
			t.Fatalf("expected success, got %s: %s", result.ErrorType, result.Message)
		}
	})

	t.Run("WorkshopMismatch", func(t *testing.T) {
		payload := fmt.Sprintf(`{"ticket_code":"DDDD4444","workshop_id":"%s"}`, uuid.New())
		result := svc.ScanQRPayload(payload, "")
		if result.ErrorType != ErrKindWorkshopMismatch {
			t.Errorf("expected %s, got %s", ErrKindWorkshopMismatch, result.ErrorType)
		}
	})

	t.Run("ParticipantMismatch", func(t *testing.T) {
		payload := fmt.Sprintf(`{"ticket_code":"DDDD4444","participant_id":"%s"}`, uuid.New())
		result := svc.ScanQRPayload(payload, "")
		if result.ErrorType != ErrKindParticipantMismatch {
			t.Errorf("expected %s, got %s", ErrKindParticipantMismatch, result.ErrorType)
		}
	})

	t.Run("InvalidJSON", func(t *testing.T) {
		result := svc.ScanQRPayload("{not json", "")
		if result.ErrorType != ErrKindInvalidFormat {
			t.Errorf("expected %s, got %s", ErrKindInvalidFormat, result.ErrorType)
		}
	})

	t.Run("MissingTicketCode", func(t *testing.T) {
		result := svc.ScanQRPayload(`{"workshop_id":"abc"}`, "")
		if result.ErrorType != ErrKindMissingTicketCode {
			t.Errorf("expected %s, got %s", ErrKindMissingTicketCode, result.ErrorType)
		}
	})

	t.Run("Empty", func(t *testing.T) {
		result := svc.ScanQRPayload("  ", "")
		if result.ErrorType != ErrKindMissingTicketCode {
			t.Errorf("expected %s, got %s", ErrKindMissingTicketCode, result.ErrorType)
		}
	})
}

func TestGenerateCheckInPayload(t *testing.T) {
	repo, cfg := newTestRepo(t)
	svc := NewCheckInService(repo, cfg)

	workshop := seedWorkshop(t, repo, "Go Workshop", "published", time.Now().Add(time.Hour))
	tt := seedTicketType(t, repo, workshop, "Regular", 0)
	p := seedParticipant(t, repo, workshop, tt, "Jane", "jane@example.com", "EEEE5555", false, false)

	payload, err := svc.GenerateCheckInPayload(p.ID.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The generated payload must scan back into a check-in
	result := svc.ScanQRPayload(payload, workshop.ID.String())
	if !result.Success {
		t.Fatalf("expected generated payload to check in, got %s: %s", result.ErrorType, result.Message)
	}
}

func TestCheckInStatistics(t *testing.T) {
	repo, cfg := newTestRepo(t)
	svc := NewCheckInService(repo, cfg)

	workshop := seedWorkshop(t, repo, "Go Workshop", "ongoing", time.Now())
	tt := seedTicketType(t, repo, workshop, "Regular", 0)

	seedParticipant(t, repo, workshop, tt, "A", "a@example.com", "STAT0001", true, true)
	seedParticipant(t, repo, workshop, tt, "B", "b@example.com", "STAT0002", false, true)
	seedParticipant(t, repo, workshop, tt, "C", "c@example.com", "STAT0003", true, false)

	stats, err := svc.GetWorkshopStatistics(workshop.ID.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stats.Total != 3 || stats.CheckedIn != 2 || stats.NotCheckedIn != 1 {
		t.Errorf("unexpected counts: %+v", stats)
	}
	if stats.Paid != 2 || stats.Unpaid != 1 {
		t.Errorf("unexpected payment counts: %+v", stats)
	}
	if stats.CheckedInPaid != 1 || stats.CheckedInUnpaid != 1 {
		t.Errorf("unexpected cross counts: %+v", stats)
	}
	if stats.CheckinPercentage != 66.7 {
		t.Errorf("expected 66.7, got %v", stats.CheckinPercentage)
	}
	if stats.PaymentPercentage != 66.7 {
		t.Errorf("expected 66.7, got %v", stats.PaymentPercentage)
	}
}

func TestCheckInStatisticsUnknownWorkshop(t *testing.T) {
	repo, cfg := newTestRepo(t)
	svc := NewCheckInService(repo, cfg)

	_, err := svc.GetWorkshopStatistics(uuid.New().String())
	if err == nil {
		t.Fatal("expected error for unknown workshop")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("expected record-not-found in the chain, got %v", err)
	}
}

func TestCheckInExportRows(t *testing.T) {
	repo, cfg := newTestRepo(t)
	svc := NewCheckInService(repo, cfg)

	workshop := seedWorkshop(t, repo, "Go Workshop", "ongoing", time.Now())
	tt := seedTicketType(t, repo, workshop, "Regular", 10000)
	seedParticipant(t, repo, workshop, tt, "Jane", "jane@example.com", "EXPC0001", true, true)
	seedParticipant(t, repo, workshop, tt, "Mark", "mark@example.com", "EXPC0002", false, false)

	header, rows, err := svc.ExportRows(workshop.ID.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(header) != 6 || header[0] != "ticket_code" {
		t.Errorf("unexpected header: %v", header)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	// registration order
	if rows[0][0] != "EXPC0001" || rows[0][3] != "Regular" {
		t.Errorf("unexpected first row: %v", rows[0])
	}
	if rows[0][4] != "yes" || rows[0][5] != "yes" {
		t.Errorf("unexpected flags on first row: %v", rows[0])
	}
	if rows[1][4] != "no" || rows[1][5] != "no" {
		t.Errorf("unexpected flags on second row: %v", rows[1])
	}
}

func TestSearchParticipants(t *testing.T) {
	repo, cfg := newTestRepo(t)
	svc := NewCheckInService(repo, cfg)

	workshop := seedWorkshop(t, repo, "Go Workshop", "ongoing", time.Now())
	tt := seedTicketType(t, repo, workshop, "Regular", 0)

	seedParticipant(t, repo, workshop, tt, "John Smith", "john@example.com", "SRCH0001", false, false)
	seedParticipant(t, repo, workshop, tt, "Alice Brown", "alice@example.com", "SRCH0002", false, false)

	result := svc.SearchParticipants("John", workshop.ID.String(), 20)
	if !result.Success {
		t.Fatalf("expected search success: %s", result.Message)
	}
	if len(result.Participants) != 1 {
		t.Fatalf("expected exactly one match, got %d", len(result.Participants))
	}
	if result.Participants[0].Name != "John Smith" {
		t.Errorf("unexpected match: %q", result.Participants[0].Name)
	}

	result = svc.SearchParticipants("", workshop.ID.String(), 20)
	if !result.Success || len(result.Participants) != 0 {
		t.Error("expected empty result for blank query")
	}

	// ticket code substring also matches
	result = svc.SearchParticipants("srch0002", "", 20)
	if len(result.Participants) != 1 {
		t.Errorf("expected ticket-code match, got %d", len(result.Participants))
	}
}

func TestPercentage(t *testing.T) {
	cases := []struct {
		n, total int64
		want     float64
	}{
		{0, 0, 0},
		{5, 0, 0},
		{1, 3, 33.3},
		{2, 3, 66.7},
		{3, 4, 75},
		{1, 1, 100},
		{0, 10, 0},
	}

	for _, tc := range cases {
		if got := Percentage(tc.n, tc.total); got != tc.want {
			t.Errorf("Percentage(%d, %d) = %v, want %v", tc.n, tc.total, got, tc.want)
		}
	}
}
