package bbdc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/Zerui18/BBot/internal/domain"
	"github.com/Zerui18/BBot/internal/ports"
)

const (
	defaultBaseURL     = "https://booking.bbdc.sg"
	defaultCourseType  = "3A"
	defaultAttempts    = 10
	defaultMonthsAhead = 3

	userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Config holds everything needed to construct a Client.
type Config struct {
	// BaseURL is the backend's base authority. Defaults to the production
	// booking site.
	BaseURL string

	// CourseType scopes every listing/booking call. Defaults to "3A".
	CourseType string

	// Attempts bounds every retry loop: captcha solving, login and the
	// expiry-recovery path of signed calls. Defaults to 10.
	Attempts int

	// Solver produces captcha answers from challenge images. Required.
	Solver ports.CaptchaSolver

	// HTTPClient is used for all requests. Defaults to http.DefaultClient.
	HTTPClient *http.Client

	// Logger is used for structured logging. Defaults to slog.Default().
	Logger *slog.Logger
}

// Client is the resilient authenticated booking client. It owns the session
// token pair, signs requests, and transparently reauthenticates with the
// saved credentials when the backend reports session expiry.
//
// A Client serializes nothing internally: callers must not overlap
// operations, or token replacement during reauthentication interleaves.
type Client struct {
	http       *http.Client
	log        *slog.Logger
	baseURL    string
	courseType string
	attempts   int
	solver     ports.CaptchaSolver

	session domain.Session
}

// NewClient creates an unauthenticated Client. Authenticate must succeed
// before any signed operation is usable.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Solver == nil {
		return nil, fmt.Errorf("bbdc: a captcha solver is required")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	courseType := cfg.CourseType
	if courseType == "" {
		courseType = defaultCourseType
	}
	attempts := cfg.Attempts
	if attempts <= 0 {
		attempts = defaultAttempts
	}

	return &Client{
		http:       httpClient,
		log:        logger,
		baseURL:    baseURL,
		courseType: courseType,
		attempts:   attempts,
		solver:     cfg.Solver,
	}, nil
}

// Session returns a copy of the current session state.
func (c *Client) Session() domain.Session {
	return c.session
}

// roundTrip performs one POST without interpreting the response status or
// body. A nil payload is sent as an empty JSON object.
func (c *Client) roundTrip(ctx context.Context, path string, payload any, signed bool) (*http.Response, error) {
	if payload == nil {
		payload = struct{}{}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Origin", c.baseURL)
	req.Header.Set("Referer", c.baseURL+"/?")
	if signed {
		// session token in the Authorization header and the bbdc-token
		// cookie (spaces %20-escaped), course token in JSESSIONID
		req.Header.Set("Authorization", c.session.Token)
		req.Header.Set("JSESSIONID", c.session.CourseToken)
		req.AddCookie(&http.Cookie{Name: "bbdc-token", Value: strings.ReplaceAll(c.session.Token, " ", "%20")})
	}

	requestID := uuid.NewString()
	c.log.Debug("POST", "path", path, "signed", signed, "request_id", requestID)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("POST %s: %w", path, err)
	}
	return resp, nil
}

// decodeEnvelope consumes the response body, checks the uniform success
// flag, and unmarshals the data payload into out (when out is non-nil).
func decodeEnvelope(resp *http.Response, out any) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return &domain.ProtocolError{Reason: fmt.Sprintf("envelope: %v", err)}
	}
	if !env.Success {
		return &domain.RemoteError{Message: env.Message}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return &domain.ProtocolError{Reason: fmt.Sprintf("envelope data: %v", err)}
	}
	return nil
}

// post performs an unauthenticated POST and decodes the envelope.
func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	resp, err := c.roundTrip(ctx, path, payload, false)
	if err != nil {
		return err
	}
	return decodeEnvelope(resp, out)
}

// postSigned performs a signed POST. When the backend reports session
// expiry it reauthenticates with the saved credentials and retries the
// original request, in an explicit loop capped by the attempt budget so a
// server that always answers "expired" cannot recurse or spin forever.
func (c *Client) postSigned(ctx context.Context, path string, payload, out any) error {
	for expiries := 0; ; expiries++ {
		resp, err := c.roundTrip(ctx, path, payload, true)
		if err != nil {
			return err
		}
		if resp.StatusCode != statusSessionExpired {
			return decodeEnvelope(resp, out)
		}
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		if expiries >= c.attempts {
			return fmt.Errorf("session expiry persisted across %d reauthentications: %w", expiries, domain.ErrAuthenticationExhausted)
		}
		c.log.Info("session expired, reauthenticating", "path", path)
		if _, err := c.Reauthenticate(ctx); err != nil {
			return fmt.Errorf("reauthenticate after expiry: %w", err)
		}
	}
}
