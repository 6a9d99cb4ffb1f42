package ports

import "context"

// CaptchaSolver turns raw challenge image bytes into a best-effort text
// guess. The guess may be wrong; callers are responsible for shape checks
// and retries.
type CaptchaSolver interface {
	Solve(ctx context.Context, image []byte) (string, error)
}
