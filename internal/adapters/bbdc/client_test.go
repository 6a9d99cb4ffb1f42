package bbdc

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/Zerui18/BBot/internal/domain"
)

func TestNewClientRequiresSolver(t *testing.T) {
	if _, err := NewClient(Config{}); err == nil {
		t.Fatal("expected error without a solver")
	}
}

func TestSignedExpiryRecoveredTransparently(t *testing.T) {
	backend := &stubBackend{
		expireBookings: 1,
		bookingsData:   `{"theoryActiveBookingList":[{"bookingId":7,"theoryType":"P","dataType":"B","slotRefName":"Session 1"}]}`,
	}
	server := httptest.NewServer(backend.handler())
	defer server.Close()

	client := newTestClient(t, server, &fakeSolver{answers: []string{"abcde"}}, 10)
	authenticate(t, client)

	booked, err := client.BookedSlots(context.Background())
	if err != nil {
		t.Fatalf("BookedSlots after expiry: %v", err)
	}
	if len(booked) != 1 || booked[0].BookingID != 7 {
		t.Fatalf("unexpected bookings: %+v", booked)
	}

	// one expired call plus the retried one
	if backend.bookingsCalls != 2 {
		t.Errorf("bookingsCalls = %d, want 2", backend.bookingsCalls)
	}
	// initial login plus one reauthentication
	if backend.loginCalls != 2 {
		t.Errorf("loginCalls = %d, want 2", backend.loginCalls)
	}
	// the retried request must carry the replacement token
	if backend.lastBookingsAuth != "token-2" {
		t.Errorf("retried request Authorization = %q, want %q", backend.lastBookingsAuth, "token-2")
	}
}

func TestSignedExpiryForeverIsBounded(t *testing.T) {
	backend := &stubBackend{expireForever: true}
	server := httptest.NewServer(backend.handler())
	defer server.Close()

	const attempts = 3
	client := newTestClient(t, server, &fakeSolver{answers: []string{"abcde"}}, attempts)
	authenticate(t, client)

	_, err := client.BookedSlots(context.Background())
	if !errors.Is(err, domain.ErrAuthenticationExhausted) {
		t.Fatalf("err = %v, want ErrAuthenticationExhausted", err)
	}
	// the original call plus one retry per allowed expiry event
	if backend.bookingsCalls != attempts+1 {
		t.Errorf("bookingsCalls = %d, want %d", backend.bookingsCalls, attempts+1)
	}
}

func TestSignedRequestCarriesSessionPair(t *testing.T) {
	backend := &stubBackend{}
	server := httptest.NewServer(backend.handler())
	defer server.Close()

	client := newTestClient(t, server, &fakeSolver{answers: []string{"abcde"}}, 10)
	authenticate(t, client)

	if _, err := client.BookedSlots(context.Background()); err != nil {
		t.Fatalf("BookedSlots: %v", err)
	}
	if backend.lastBookingsAuth != "token-1" {
		t.Errorf("Authorization = %q, want %q", backend.lastBookingsAuth, "token-1")
	}
}

func TestRemoteRejectionSurfacesMessage(t *testing.T) {
	backend := &stubBackend{rejectCancel: true}
	server := httptest.NewServer(backend.handler())
	defer server.Close()

	client := newTestClient(t, server, &fakeSolver{answers: []string{"abcde"}}, 10)
	authenticate(t, client)

	err := client.postSigned(context.Background(), pathCancelBooking, cancelRequest{BookingID: 1}, nil)
	var remote *domain.RemoteError
	if !errors.As(err, &remote) {
		t.Fatalf("err = %v, want RemoteError", err)
	}
	if remote.Message != "booking cannot be cancelled" {
		t.Errorf("message = %q", remote.Message)
	}
}
