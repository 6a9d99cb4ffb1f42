package useCases

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Zerui18/BBot/internal/domain"
	"github.com/Zerui18/BBot/internal/ports"
)

// Watcher announces newly released slots to the subscribed chat. Dedup of
// announcements goes through the SlotStore so restarts do not re-notify.
type Watcher struct {
	log         *slog.Logger
	agent       ports.BookingAgent
	store       ports.SlotStore
	msg         ports.Messenger
	monthsAhead int

	mu     sync.Mutex
	chatID int64 // 0 until a chat subscribes via /start
}

func NewWatcher(
	log *slog.Logger,
	agent ports.BookingAgent,
	store ports.SlotStore,
	msg ports.Messenger,
	monthsAhead int,
) *Watcher {
	return &Watcher{log: log, agent: agent, store: store, msg: msg, monthsAhead: monthsAhead}
}

// Subscribe directs future announcements to the given chat.
func (w *Watcher) Subscribe(chatID int64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.chatID = chatID
}

func (w *Watcher) subscriber() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.chatID
}

// Poll lists available slots once and announces the ones not seen before.
// It returns the announced slots in announcement order so the command loop
// can offer them for index-based booking. It is driven by the command
// loop's ticker, never concurrently with other agent calls.
func (w *Watcher) Poll(ctx context.Context) []domain.Slot {
	chatID := w.subscriber()
	if chatID == 0 {
		return nil
	}

	slots, err := w.agent.AvailableSlots(ctx, w.monthsAhead)
	if err != nil {
		w.log.Error("slot poll failed", "error", err)
		return nil
	}

	var fresh []domain.Slot
	for _, slot := range slots {
		first, err := w.store.MarkSeen(ctx, slot.ID)
		if err != nil {
			// better a duplicate announcement than a silently dropped slot
			w.log.Warn("seen-slot store unavailable", "slot_id", slot.ID, "error", err)
			first = true
		}
		if first {
			fresh = append(fresh, slot)
		}
	}
	if len(fresh) == 0 {
		return nil
	}

	w.log.Info("announcing new slots", "count", len(fresh), "chat_id", chatID)
	header := fmt.Sprintf("Found %d new available practical slots:", len(fresh))
	if err := w.msg.Send(chatID, formatSlots(header, fresh)); err != nil {
		w.log.Error("slot announcement failed", "chat_id", chatID, "error", err)
		return nil
	}
	return fresh
}
