package bbdc

import (
	"context"
	"errors"
	"fmt"

	"github.com/Zerui18/BBot/internal/domain"
)

// Authenticate logs in, repeating up to the attempt budget: solve a login
// captcha, submit credentials with the challenge id/token/answer, and on the
// server's rejection (usually a wrong captcha guess) try again. On success
// it stores the session token, retains the credentials for later silent
// reauthentication, and fetches the course-scoped token; success is reported
// only once both tokens are present. Exhausting the budget returns
// ErrAuthenticationExhausted.
func (c *Client) Authenticate(ctx context.Context, userID, password string) (string, error) {
	c.log.Info("authenticating", "user_id", userID, "attempts", c.attempts)

	for attempt := 1; attempt <= c.attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		ch, err := c.solveCaptcha(ctx, sourceLogin)
		if err != nil {
			return "", fmt.Errorf("solve login captcha: %w", err)
		}

		var data loginData
		err = c.post(ctx, pathLogin, loginRequest{
			CaptchaToken:    ch.Token,
			UserID:          userID,
			UserPass:        password,
			VerifyCodeID:    ch.ID,
			VerifyCodeValue: ch.Answer,
		}, &data)
		if err != nil {
			var remote *domain.RemoteError
			if errors.As(err, &remote) {
				c.log.Warn("login rejected", "attempt", attempt, "reason", remote.Message)
				continue
			}
			return "", fmt.Errorf("login: %w", err)
		}

		// replace the session wholesale: new token, credentials saved for
		// silent reauthentication
		c.session = domain.Session{
			Token:         data.Token,
			SavedUserID:   userID,
			SavedPassword: password,
		}

		courseToken, err := c.fetchCourseToken(ctx)
		if err != nil {
			// no half-authenticated state: without the course token the
			// login did not complete, so credentials are not retained
			c.session = domain.Session{}
			return "", fmt.Errorf("fetch course token: %w", err)
		}
		c.session.CourseToken = courseToken

		c.log.Info("authenticated", "username", data.Username)
		return data.Username, nil
	}

	return "", domain.ErrAuthenticationExhausted
}

// Reauthenticate logs in again with the credentials saved by the last
// successful Authenticate. It performs no network calls when none exist.
func (c *Client) Reauthenticate(ctx context.Context) (string, error) {
	if !c.session.HasCredentials() {
		return "", domain.ErrNoSavedCredentials
	}
	c.log.Info("reauthenticating", "user_id", c.session.SavedUserID)
	return c.Authenticate(ctx, c.session.SavedUserID, c.session.SavedPassword)
}

// fetchCourseToken retrieves the course-scoped token required alongside the
// session token on every signed call. It deliberately bypasses the expiry
// recovery of postSigned: the session token was issued moments ago, so an
// expiry answer here means authentication is broken, and recovering would
// recurse back into Authenticate.
func (c *Client) fetchCourseToken(ctx context.Context) (string, error) {
	resp, err := c.roundTrip(ctx, pathCourseList, nil, true)
	if err != nil {
		return "", err
	}
	if resp.StatusCode == statusSessionExpired {
		resp.Body.Close()
		return "", &domain.ProtocolError{Reason: "fresh session token reported expired"}
	}

	var data courseListData
	if err := decodeEnvelope(resp, &data); err != nil {
		return "", err
	}
	if len(data.ActiveCourseList) == 0 {
		return "", &domain.ProtocolError{Reason: "no active courses in course list"}
	}
	return data.ActiveCourseList[0].AuthToken, nil
}
