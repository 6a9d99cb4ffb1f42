package domain

import (
	"encoding/json"
	"fmt"
)

// ProgressAvailable is the bookingProgress value marking a slot bookable.
const ProgressAvailable = "Available"

// Slot is a released practical slot as listed by the backend. IDEnc and
// ProgressEnc are opaque encrypted echoes the server requires back verbatim
// when booking; they must never be recomputed or reformatted. A Slot is a
// snapshot at listing time with no freshness guarantee.
type Slot struct {
	ID          int64   `json:"slotId"`
	IDEnc       string  `json:"slotIdEnc"`
	RefName     string  `json:"slotRefName"`
	RefDate     string  `json:"slotRefDate"`
	StartTime   string  `json:"startTime"`
	EndTime     string  `json:"endTime"`
	TotalFee    float64 `json:"totalFee"`
	GroupNo     string  `json:"userFixGrpNo"`
	Progress    string  `json:"bookingProgress"`
	ProgressEnc string  `json:"bookingProgressEnc"`
}

// SlotFromRecord maps one raw listing record into a Slot, failing with a
// ProtocolError when the record lacks the identity fields every later
// booking call depends on.
func SlotFromRecord(record json.RawMessage) (Slot, error) {
	var s Slot
	if err := json.Unmarshal(record, &s); err != nil {
		return Slot{}, &ProtocolError{Reason: fmt.Sprintf("slot record: %v", err)}
	}
	if s.ID == 0 || s.IDEnc == "" {
		return Slot{}, &ProtocolError{Reason: "slot record missing identity fields"}
	}
	return s, nil
}

func (s Slot) Available() bool {
	return s.Progress == ProgressAvailable
}

func (s Slot) String() string {
	return fmt.Sprintf("%s on %s from %s to %s, costing $%.2f", s.RefName, s.RefDate, s.StartTime, s.EndTime, s.TotalFee)
}
