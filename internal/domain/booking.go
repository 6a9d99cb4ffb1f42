package domain

import (
	"encoding/json"
	"fmt"
)

// BookedSlot is an active booking. TheoryType and DataType are
// classification codes the server requires verbatim to cancel.
type BookedSlot struct {
	BookingID  int64   `json:"bookingId"`
	TheoryType string  `json:"theoryType"`
	DataType   string  `json:"dataType"`
	RefName    string  `json:"slotRefName"`
	RefDesc    string  `json:"slotRefDesc"`
	RefDate    string  `json:"slotRefDate"`
	StartTime  string  `json:"startTime"`
	EndTime    string  `json:"endTime"`
	TotalFee   float64 `json:"totalFee"`
	GroupNo    string  `json:"userFixGrpNo"`
}

// BookedSlotFromRecord maps one raw booking record into a BookedSlot.
func BookedSlotFromRecord(record json.RawMessage) (BookedSlot, error) {
	var b BookedSlot
	if err := json.Unmarshal(record, &b); err != nil {
		return BookedSlot{}, &ProtocolError{Reason: fmt.Sprintf("booking record: %v", err)}
	}
	if b.BookingID == 0 {
		return BookedSlot{}, &ProtocolError{Reason: "booking record missing bookingId"}
	}
	return b, nil
}

func (b BookedSlot) String() string {
	return fmt.Sprintf("[Booked] %s on %s from %s to %s, costing $%.2f", b.RefName, b.RefDate, b.StartTime, b.EndTime, b.TotalFee)
}
