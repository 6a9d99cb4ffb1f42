package useCases

import (
	"fmt"
	"strings"

	"github.com/Zerui18/BBot/internal/domain"
)

func formatSlots(header string, slots []domain.Slot) string {
	var b strings.Builder
	b.WriteString(header)
	for i, slot := range slots {
		fmt.Fprintf(&b, "\n%d. %s", i+1, slot)
	}
	return b.String()
}

func formatBooked(header string, booked []domain.BookedSlot) string {
	var b strings.Builder
	b.WriteString(header)
	for i, slot := range booked {
		fmt.Fprintf(&b, "\n%d. %s", i+1, slot)
	}
	return b.String()
}
