package ports

import "context"

// SlotStore remembers which slots were already announced so restarts and
// repeated polls do not re-notify the same slot.
type SlotStore interface {
	// MarkSeen records the slot id and reports whether it was seen for
	// the first time.
	MarkSeen(ctx context.Context, slotID int64) (bool, error)
}
