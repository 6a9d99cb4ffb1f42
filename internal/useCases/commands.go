package useCases

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/Zerui18/BBot/internal/domain"
	"github.com/Zerui18/BBot/internal/ports"
)

// Handler runs the bot's single worker loop: chat commands and the periodic
// availability poll are multiplexed into one goroutine, which serializes all
// access to the shared booking session.
type Handler struct {
	log           *slog.Logger
	agent         ports.BookingAgent
	msg           ports.Messenger
	watcher       *Watcher
	pollInterval  time.Duration
	monthsAhead   int
	allowedChatID int64 // 0 = accept commands from any chat

	// listing caches for index-based /book and /delete; only the Run
	// goroutine touches them
	lastAvailable []domain.Slot
	lastBooked    []domain.BookedSlot
}

func NewHandler(
	log *slog.Logger,
	agent ports.BookingAgent,
	msg ports.Messenger,
	watcher *Watcher,
	pollInterval time.Duration,
	monthsAhead int,
	allowedChatID int64,
) *Handler {
	return &Handler{
		log:           log,
		agent:         agent,
		msg:           msg,
		watcher:       watcher,
		pollInterval:  pollInterval,
		monthsAhead:   monthsAhead,
		allowedChatID: allowedChatID,
	}
}

// Run blocks until ctx is cancelled or the command stream closes.
func (h *Handler) Run(ctx context.Context) error {
	commands, err := h.msg.Listen()
	if err != nil {
		return fmt.Errorf("listen for commands: %w", err)
	}

	ticker := time.NewTicker(h.pollInterval)
	defer ticker.Stop()

	h.log.Info("command loop started", "poll_interval", h.pollInterval)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			h.poll(ctx)
		case cmd, ok := <-commands:
			if !ok {
				return fmt.Errorf("command stream closed")
			}
			h.handle(ctx, cmd)
		}
	}
}

// poll runs one watcher cycle. An announced listing replaces the /book
// selection cache so "/book N" picks slot N of the announcement the user
// just read.
func (h *Handler) poll(ctx context.Context) {
	if fresh := h.watcher.Poll(ctx); len(fresh) > 0 {
		h.lastAvailable = fresh
	}
}

func (h *Handler) handle(ctx context.Context, cmd domain.Command) {
	if h.allowedChatID != 0 && cmd.ChatID != h.allowedChatID {
		h.log.Warn("command from unexpected chat ignored", "chat_id", cmd.ChatID, "command", cmd.Name)
		return
	}
	h.log.Info("handling command", "command", cmd.Name, "chat_id", cmd.ChatID)

	switch cmd.Name {
	case "start":
		h.watcher.Subscribe(cmd.ChatID)
		h.reply(cmd.ChatID, "Watching for available practical slots.")
	case "check":
		h.handleCheck(ctx, cmd)
	case "booked":
		h.handleBooked(ctx, cmd)
	case "book":
		h.handleBook(ctx, cmd)
	case "delete":
		h.handleDelete(ctx, cmd)
	default:
		h.reply(cmd.ChatID, "Unknown command.")
	}
}

func (h *Handler) handleCheck(ctx context.Context, cmd domain.Command) {
	slots, err := h.agent.AvailableSlots(ctx, h.monthsAhead)
	if err != nil {
		h.log.Error("slot check failed", "error", err)
		h.reply(cmd.ChatID, "Failed to check available slots.")
		return
	}
	if len(slots) == 0 {
		h.reply(cmd.ChatID, "No available practical slots.")
		return
	}
	h.lastAvailable = slots
	header := fmt.Sprintf("Found %d available practical slots:", len(slots))
	h.reply(cmd.ChatID, formatSlots(header, slots))
}

func (h *Handler) handleBooked(ctx context.Context, cmd domain.Command) {
	booked, err := h.agent.BookedSlots(ctx)
	if err != nil {
		h.log.Error("booked-slot listing failed", "error", err)
		h.reply(cmd.ChatID, "Failed to get booked slots.")
		return
	}
	if len(booked) == 0 {
		h.reply(cmd.ChatID, "No booked slots.")
		return
	}
	h.lastBooked = booked
	header := fmt.Sprintf("Found %d booked slots:", len(booked))
	h.reply(cmd.ChatID, formatBooked(header, booked))
}

func (h *Handler) handleBook(ctx context.Context, cmd domain.Command) {
	choice, ok := h.choose(cmd, len(h.lastAvailable), "available")
	if !ok {
		return
	}
	slot := h.lastAvailable[choice-1]

	h.reply(cmd.ChatID, fmt.Sprintf("Booking %s...", slot))
	booked, err := h.agent.Book(ctx, slot)
	if err != nil {
		h.log.Error("booking failed", "slot_id", slot.ID, "error", err)
	}
	if err != nil || !booked {
		h.reply(cmd.ChatID, "Failed to book slot.")
		return
	}
	h.reply(cmd.ChatID, "Successfully booked slot.")
}

func (h *Handler) handleDelete(ctx context.Context, cmd domain.Command) {
	choice, ok := h.choose(cmd, len(h.lastBooked), "booked")
	if !ok {
		return
	}
	slot := h.lastBooked[choice-1]

	h.reply(cmd.ChatID, fmt.Sprintf("Cancelling %s...", slot))
	cancelled, err := h.agent.Cancel(ctx, slot)
	if err != nil {
		h.log.Error("cancellation failed", "booking_id", slot.BookingID, "error", err)
	}
	if err != nil || !cancelled {
		h.reply(cmd.ChatID, "Failed to cancel slot.")
		return
	}
	h.reply(cmd.ChatID, "Successfully cancelled slot.")
}

// choose validates the 1-based index argument against the cached listing of
// the given kind.
func (h *Handler) choose(cmd domain.Command, cached int, kind string) (int, bool) {
	if cached == 0 {
		h.reply(cmd.ChatID, fmt.Sprintf("No %s slots.", kind))
		return 0, false
	}
	if len(cmd.Args) == 0 {
		h.reply(cmd.ChatID, fmt.Sprintf("Usage: /%s <number>", cmd.Name))
		return 0, false
	}
	choice, err := strconv.Atoi(cmd.Args[0])
	if err != nil || choice < 1 || choice > cached {
		h.reply(cmd.ChatID, "Invalid choice.")
		return 0, false
	}
	return choice, true
}

func (h *Handler) reply(chatID int64, text string) {
	if err := h.msg.Send(chatID, text); err != nil {
		h.log.Error("reply failed", "chat_id", chatID, "error", err)
	}
}
