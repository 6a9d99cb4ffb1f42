package domain

import (
	"errors"
	"testing"
)

func TestSlotFromRecordPreservesFields(t *testing.T) {
	record := `{
		"slotId": 123456,
		"slotIdEnc": "U2FsdGVkX1+opaque==",
		"slotRefName": "Session 5",
		"slotRefDate": "2026-09-18",
		"startTime": "14:20",
		"endTime": "16:00",
		"totalFee": 77.76,
		"userFixGrpNo": "G2",
		"bookingProgress": "Available",
		"bookingProgressEnc": "U2FsdGVkX1+progress=="
	}`

	slot, err := SlotFromRecord([]byte(record))
	if err != nil {
		t.Fatalf("SlotFromRecord: %v", err)
	}

	if slot.ID != 123456 {
		t.Errorf("ID = %d", slot.ID)
	}
	if slot.IDEnc != "U2FsdGVkX1+opaque==" {
		t.Errorf("IDEnc = %q, opaque echo must survive unchanged", slot.IDEnc)
	}
	if slot.ProgressEnc != "U2FsdGVkX1+progress==" {
		t.Errorf("ProgressEnc = %q, opaque echo must survive unchanged", slot.ProgressEnc)
	}
	if slot.RefDate != "2026-09-18" || slot.StartTime != "14:20" || slot.EndTime != "16:00" {
		t.Errorf("date/time = %q %q %q", slot.RefDate, slot.StartTime, slot.EndTime)
	}
	if slot.TotalFee != 77.76 {
		t.Errorf("TotalFee = %v", slot.TotalFee)
	}
	if !slot.Available() {
		t.Error("Available() = false for bookingProgress Available")
	}
}

func TestSlotFromRecordMissingIdentity(t *testing.T) {
	for _, record := range []string{
		`{"slotRefName":"no ids"}`,
		`{"slotId":1,"bookingProgress":"Available"}`,
		`not json`,
	} {
		_, err := SlotFromRecord([]byte(record))
		var protocolErr *ProtocolError
		if !errors.As(err, &protocolErr) {
			t.Errorf("SlotFromRecord(%q) err = %v, want ProtocolError", record, err)
		}
	}
}

func TestSlotAvailability(t *testing.T) {
	if (Slot{Progress: "Booked"}).Available() {
		t.Error("booked slot reported available")
	}
	if !(Slot{Progress: ProgressAvailable}).Available() {
		t.Error("available slot reported unavailable")
	}
}

func TestBookedSlotFromRecord(t *testing.T) {
	record := `{"bookingId":9,"theoryType":"P","dataType":"B","slotRefName":"Session 2","slotRefDesc":"Circuit","slotRefDate":"2026-09-03","startTime":"10:20","endTime":"12:00","totalFee":77.76,"userFixGrpNo":"G1"}`

	booked, err := BookedSlotFromRecord([]byte(record))
	if err != nil {
		t.Fatalf("BookedSlotFromRecord: %v", err)
	}
	if booked.BookingID != 9 || booked.TheoryType != "P" || booked.DataType != "B" {
		t.Errorf("identity = %+v", booked)
	}

	if _, err := BookedSlotFromRecord([]byte(`{"theoryType":"P"}`)); err == nil {
		t.Error("expected error for record without bookingId")
	}
}

func TestSessionState(t *testing.T) {
	var s Session
	if s.Authenticated() || s.HasCredentials() {
		t.Error("zero session must be unauthenticated without credentials")
	}
	s = Session{Token: "t", CourseToken: "c", SavedUserID: "u", SavedPassword: "p"}
	if !s.Authenticated() || !s.HasCredentials() {
		t.Error("populated session must be authenticated with credentials")
	}
	if (Session{Token: "t"}).Authenticated() {
		t.Error("session with only one token must not report authenticated")
	}
}
