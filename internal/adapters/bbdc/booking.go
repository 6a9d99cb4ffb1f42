package bbdc

import (
	"context"
	"errors"
	"fmt"

	"github.com/Zerui18/BBot/internal/domain"
)

// Book attempts to book the given slot: solve one fresh captcha against the
// booking challenge source, then submit the slot's numeric id together with
// its encrypted echoes exactly as listed. The server's rejection (a wrong
// guess, or a slot gone between listing and booking) yields (false, nil);
// there is no automatic retry above the transport's expiry recovery.
func (c *Client) Book(ctx context.Context, slot domain.Slot) (bool, error) {
	c.log.Info("booking slot", "slot_id", slot.ID, "date", slot.RefDate, "start", slot.StartTime)

	ch, err := c.solveCaptcha(ctx, sourceBooking)
	if err != nil {
		return false, fmt.Errorf("solve booking captcha: %w", err)
	}

	err = c.postSigned(ctx, pathBookSlot, bookRequest{
		VerifyCodeID:    ch.ID,
		VerifyCodeValue: ch.Answer,
		CaptchaToken:    ch.Token,
		CourseType:      c.courseType,
		SlotIDList:      []int64{slot.ID},
		EncryptSlotList: []encryptedSlot{{
			SlotIDEnc:          slot.IDEnc,
			BookingProgressEnc: slot.ProgressEnc,
		}},
	}, nil)
	if err != nil {
		var remote *domain.RemoteError
		if errors.As(err, &remote) {
			c.log.Error("booking rejected", "slot_id", slot.ID, "reason", remote.Message)
			return false, nil
		}
		return false, fmt.Errorf("book slot %d: %w", slot.ID, err)
	}

	c.log.Info("slot booked", "slot_id", slot.ID)
	return true, nil
}

// BookedSlots lists the account's active practical bookings.
func (c *Client) BookedSlots(ctx context.Context) ([]domain.BookedSlot, error) {
	c.log.Info("listing booked slots")

	var data listBookingsData
	if err := c.postSigned(ctx, pathListBookings, courseRequest{CourseType: c.courseType}, &data); err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	booked := make([]domain.BookedSlot, 0, len(data.TheoryActiveBookingList))
	for _, record := range data.TheoryActiveBookingList {
		b, err := domain.BookedSlotFromRecord(record)
		if err != nil {
			return nil, err
		}
		booked = append(booked, b)
	}
	c.log.Info("booked slots listed", "count", len(booked))
	return booked, nil
}

// Cancel cancels an active booking by echoing its identity and
// classification codes. No captcha is required for cancellation.
func (c *Client) Cancel(ctx context.Context, booked domain.BookedSlot) (bool, error) {
	c.log.Info("cancelling booking", "booking_id", booked.BookingID, "date", booked.RefDate)

	err := c.postSigned(ctx, pathCancelBooking, cancelRequest{
		BookingID:  booked.BookingID,
		TheoryType: booked.TheoryType,
		ManageType: booked.DataType,
	}, nil)
	if err != nil {
		var remote *domain.RemoteError
		if errors.As(err, &remote) {
			c.log.Error("cancellation rejected", "booking_id", booked.BookingID, "reason", remote.Message)
			return false, nil
		}
		return false, fmt.Errorf("cancel booking %d: %w", booked.BookingID, err)
	}

	c.log.Info("booking cancelled", "booking_id", booked.BookingID)
	return true, nil
}
