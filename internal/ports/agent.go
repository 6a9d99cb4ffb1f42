package ports

import (
	"context"

	"github.com/Zerui18/BBot/internal/domain"
)

// BookingAgent is the authenticated booking backend as seen by the use case
// layer. Implementations own the session and recover from session expiry
// internally; callers must serialize access (one in-flight operation).
type BookingAgent interface {
	// AvailableSlots lists bookable slots across monthsAhead consecutive
	// months starting at the current one. A single month's rejection is
	// skipped, not escalated.
	AvailableSlots(ctx context.Context, monthsAhead int) ([]domain.Slot, error)

	// BookedSlots lists the account's active bookings.
	BookedSlots(ctx context.Context) ([]domain.BookedSlot, error)

	// Book attempts to book the given slot. Ordinary server rejection
	// (including a stale slot) yields (false, nil); only infrastructure
	// failures return an error.
	Book(ctx context.Context, slot domain.Slot) (bool, error)

	// Cancel cancels an active booking, with the same result semantics
	// as Book.
	Cancel(ctx context.Context, booked domain.BookedSlot) (bool, error)
}
