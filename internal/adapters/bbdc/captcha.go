package bbdc

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/Zerui18/BBot/internal/domain"
)

// challengeSource names the endpoint a captcha challenge is fetched from.
// Login challenges come from an unauthenticated endpoint, booking challenges
// from a signed one; both return the same challenge shape.
type challengeSource int

const (
	sourceLogin challengeSource = iota
	sourceBooking
)

func (s challengeSource) String() string {
	if s == sourceBooking {
		return "booking"
	}
	return "login"
}

// fetchChallenge retrieves one fresh challenge from the given source.
func (c *Client) fetchChallenge(ctx context.Context, src challengeSource) (domain.CaptchaChallenge, error) {
	var ch domain.CaptchaChallenge
	var err error
	switch src {
	case sourceBooking:
		err = c.postSigned(ctx, pathBookingCaptcha, nil, &ch)
	default:
		err = c.post(ctx, pathLoginCaptcha, nil, &ch)
	}
	return ch, err
}

// solveCaptcha runs the challenge/solve pipeline: fetch a challenge, decode
// its image, ask the solver for a guess, and accept only guesses of the
// protocol's fixed answer length. Fetch failures and misshapen guesses each
// consume an attempt; exhausting the budget aborts the calling operation
// with ErrCaptchaExhausted. Correctness of the answer is never checked
// locally, only its shape.
func (c *Client) solveCaptcha(ctx context.Context, src challengeSource) (domain.CaptchaChallenge, error) {
	c.log.Info("solving captcha", "source", src.String(), "attempts", c.attempts)

	for attempt := 1; attempt <= c.attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return domain.CaptchaChallenge{}, err
		}

		ch, err := c.fetchChallenge(ctx, src)
		if err != nil {
			c.log.Warn("captcha fetch failed", "source", src.String(), "attempt", attempt, "error", err)
			continue
		}

		image, err := decodeChallengeImage(ch.Image)
		if err != nil {
			c.log.Warn("captcha image undecodable", "attempt", attempt, "error", err)
			continue
		}

		answer, err := c.solver.Solve(ctx, image)
		if err != nil {
			c.log.Warn("captcha solve failed", "attempt", attempt, "error", err)
			continue
		}
		if len(answer) != domain.CaptchaAnswerLength {
			c.log.Warn("improper captcha answer", "attempt", attempt, "answer", answer)
			continue
		}

		ch.Answer = answer
		ch.Image = "" // image bytes are single-use, drop them
		c.log.Info("captcha solved (probably)", "attempt", attempt)
		return ch, nil
	}

	return domain.CaptchaChallenge{}, domain.ErrCaptchaExhausted
}

// decodeChallengeImage strips any data-URI prefix and base64-decodes the
// challenge image payload.
func decodeChallengeImage(payload string) ([]byte, error) {
	if i := strings.Index(payload, "base64,"); i >= 0 {
		payload = payload[i+len("base64,"):]
	}
	image, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode challenge image: %w", err)
	}
	return image, nil
}
