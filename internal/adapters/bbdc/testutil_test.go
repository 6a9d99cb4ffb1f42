package bbdc

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// challengeImage is what the stub backend serves as captcha image payload.
var challengeImage = []byte("not-really-a-png")

func challengeDataURI() string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(challengeImage)
}

// fakeSolver replays scripted answers; the last one repeats.
type fakeSolver struct {
	mu        sync.Mutex
	answers   []string
	calls     int
	lastImage []byte
}

func (s *fakeSolver) Solve(_ context.Context, image []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastImage = append([]byte(nil), image...)
	idx := s.calls
	if idx >= len(s.answers) {
		idx = len(s.answers) - 1
	}
	s.calls++
	return s.answers[idx], nil
}

// stubBackend fakes the booking backend's envelope protocol.
type stubBackend struct {
	mu sync.Mutex

	captchaCalls        int
	bookingCaptchaCalls int
	loginCalls          int
	courseCalls         int
	slotCalls           int
	bookingsCalls       int
	bookCalls           int
	cancelCalls         int

	rejectCaptchaFetches int  // serve failure envelopes for the first N login-captcha fetches
	rejectLogins         int  // reject the first N login submissions
	rejectCourse         bool // every course-list call answers with a failure envelope
	expireBookings       int  // serve 402 for the first N booking-list calls
	expireForever        bool // every booking-list call answers 402

	slotBodies []string // raw envelope bodies for slot listing calls, in order

	bookingsData string // data payload for the booking list
	rejectBook   bool
	rejectCancel bool

	tokenSeq         int
	slotMonths       []string
	lastLoginBody    map[string]any
	lastBookBody     map[string]any
	lastCancelBody   map[string]any
	lastBookingsAuth string
	lastCaptchaAuth  string
}

func writeSuccess(w http.ResponseWriter, data string) {
	fmt.Fprintf(w, `{"success":true,"message":"","data":%s}`, data)
}

func writeFailure(w http.ResponseWriter, message string) {
	fmt.Fprintf(w, `{"success":false,"message":%q,"data":null}`, message)
}

func (b *stubBackend) challengeData(kind string) string {
	return fmt.Sprintf(`{"image":%q,"verifyCodeId":"vc-%s","captchaToken":"ct-%s"}`, challengeDataURI(), kind, kind)
}

func decodeBody(r *http.Request) map[string]any {
	raw, _ := io.ReadAll(r.Body)
	var body map[string]any
	_ = json.Unmarshal(raw, &body)
	return body
}

func (b *stubBackend) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc(pathLoginCaptcha, func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.captchaCalls++
		if b.rejectCaptchaFetches > 0 {
			b.rejectCaptchaFetches--
			writeFailure(w, "captcha unavailable")
			return
		}
		writeSuccess(w, b.challengeData("login"))
	})

	mux.HandleFunc(pathBookingCaptcha, func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.bookingCaptchaCalls++
		b.lastCaptchaAuth = r.Header.Get("Authorization")
		writeSuccess(w, b.challengeData("booking"))
	})

	mux.HandleFunc(pathLogin, func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.loginCalls++
		b.lastLoginBody = decodeBody(r)
		if b.rejectLogins > 0 {
			b.rejectLogins--
			writeFailure(w, "verify code is wrong")
			return
		}
		b.tokenSeq++
		writeSuccess(w, fmt.Sprintf(`{"tokenContent":"token-%d","username":"tester"}`, b.tokenSeq))
	})

	mux.HandleFunc(pathCourseList, func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.courseCalls++
		if b.rejectCourse {
			writeFailure(w, "no course access")
			return
		}
		writeSuccess(w, fmt.Sprintf(`{"activeCourseList":[{"authToken":"course-%d"}]}`, b.tokenSeq))
	})

	mux.HandleFunc(pathListSlots, func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		body := decodeBody(r)
		month, _ := body["releasedSlotMonth"].(string)
		b.slotMonths = append(b.slotMonths, month)
		call := b.slotCalls
		b.slotCalls++
		if call < len(b.slotBodies) {
			io.WriteString(w, b.slotBodies[call])
			return
		}
		writeSuccess(w, `{"releasedSlotListGroupByDay":null}`)
	})

	mux.HandleFunc(pathBookSlot, func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.bookCalls++
		b.lastBookBody = decodeBody(r)
		if b.rejectBook {
			writeFailure(w, "slot is no longer available")
			return
		}
		writeSuccess(w, "null")
	})

	mux.HandleFunc(pathListBookings, func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.bookingsCalls++
		b.lastBookingsAuth = r.Header.Get("Authorization")
		if b.expireForever || b.expireBookings > 0 {
			if b.expireBookings > 0 {
				b.expireBookings--
			}
			w.WriteHeader(statusSessionExpired)
			return
		}
		data := b.bookingsData
		if data == "" {
			data = `{"theoryActiveBookingList":[]}`
		}
		writeSuccess(w, data)
	})

	mux.HandleFunc(pathCancelBooking, func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.cancelCalls++
		b.lastCancelBody = decodeBody(r)
		if b.rejectCancel {
			writeFailure(w, "booking cannot be cancelled")
			return
		}
		writeSuccess(w, "null")
	})

	return mux
}

func newTestClient(t *testing.T, server *httptest.Server, solver *fakeSolver, attempts int) *Client {
	t.Helper()
	client, err := NewClient(Config{
		BaseURL:    server.URL,
		Attempts:   attempts,
		Solver:     solver,
		HTTPClient: server.Client(),
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

// authenticate is a helper performing a login that must succeed.
func authenticate(t *testing.T, client *Client) {
	t.Helper()
	if _, err := client.Authenticate(context.Background(), "user", "pass"); err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
}
