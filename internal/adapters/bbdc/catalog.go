package bbdc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Zerui18/BBot/internal/domain"
)

// AvailableSlots lists currently bookable slots across monthsAhead
// consecutive calendar months starting at the current one (default 3). One
// month's rejection by the server is logged and skipped so the remaining
// months still produce results; an absent day grouping yields zero slots
// for that month. Results keep the server's per-day and within-day order,
// concatenated month-ascending.
func (c *Client) AvailableSlots(ctx context.Context, monthsAhead int) ([]domain.Slot, error) {
	if monthsAhead <= 0 {
		monthsAhead = defaultMonthsAhead
	}
	c.log.Info("listing available slots", "months_ahead", monthsAhead)

	now := time.Now()
	var all []domain.Slot
	for i := 0; i < monthsAhead; i++ {
		month := time.Date(now.Year(), now.Month()+time.Month(i), 1, 0, 0, 0, 0, now.Location()).Format("200601")

		var data listSlotsData
		err := c.postSigned(ctx, pathListSlots, listSlotsRequest{
			CourseType:        c.courseType,
			ReleasedSlotMonth: month,
			StageSubDesc:      "Practical slot",
		}, &data)
		if err != nil {
			var remote *domain.RemoteError
			if errors.As(err, &remote) {
				c.log.Warn("slot listing rejected", "month", month, "reason", remote.Message)
				continue
			}
			return nil, fmt.Errorf("list released slots for %s: %w", month, err)
		}

		slots, err := flattenSlotDays(data.ReleasedSlotListGroupByDay)
		if err != nil {
			return nil, err
		}

		available := 0
		for _, s := range slots {
			if s.Available() {
				all = append(all, s)
				available++
			}
		}
		c.log.Info("released slots listed", "month", month, "total", len(slots), "available", available)
	}
	return all, nil
}

// flattenSlotDays flattens the day -> records grouping into one sequence.
// It walks the JSON object with a token decoder because the server's day
// order is meaningful and a map would shuffle it.
func flattenSlotDays(grouping json.RawMessage) ([]domain.Slot, error) {
	if len(grouping) == 0 || bytes.Equal(grouping, []byte("null")) {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(grouping))
	tok, err := dec.Token()
	if err != nil {
		return nil, &domain.ProtocolError{Reason: fmt.Sprintf("slot grouping: %v", err)}
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, &domain.ProtocolError{Reason: fmt.Sprintf("slot grouping is not an object: %v", tok)}
	}

	var out []domain.Slot
	for dec.More() {
		if _, err := dec.Token(); err != nil { // day key
			return nil, &domain.ProtocolError{Reason: fmt.Sprintf("slot grouping key: %v", err)}
		}
		var records []json.RawMessage
		if err := dec.Decode(&records); err != nil {
			return nil, &domain.ProtocolError{Reason: fmt.Sprintf("slot day records: %v", err)}
		}
		for _, record := range records {
			slot, err := domain.SlotFromRecord(record)
			if err != nil {
				return nil, err
			}
			out = append(out, slot)
		}
	}
	return out, nil
}
