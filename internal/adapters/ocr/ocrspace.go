// Package ocr implements the captcha solver on top of the OCR.space API.
package ocr

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"

	ocrspace "github.com/ranghetto/go_ocr_space"
)

// the backend's captcha answers are alphanumeric; everything else the OCR
// engine produces is noise
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9]`)

// SpaceSolver sends challenge images to the OCR.space API and returns the
// cleaned-up recognized text. Accuracy is best-effort; callers retry.
type SpaceSolver struct {
	config ocrspace.Config
	log    *slog.Logger
}

func NewSpaceSolver(apiKey string, log *slog.Logger) *SpaceSolver {
	return &SpaceSolver{
		config: ocrspace.InitConfig(apiKey, "eng", ocrspace.OCREngine2),
		log:    log,
	}
}

// Solve submits the image and returns the recognized text stripped of
// non-alphanumeric characters.
func (s *SpaceSolver) Solve(_ context.Context, image []byte) (string, error) {
	result, err := s.config.ParseFromBase64(dataURI(image))
	if err != nil {
		return "", fmt.Errorf("ocr.space parse: %w", err)
	}

	text := nonAlphanumeric.ReplaceAllString(result.JustText(), "")
	s.log.Debug("ocr result", "text", text)
	return text, nil
}

// dataURI wraps raw image bytes back into the data-URI form the OCR.space
// base64 endpoint expects, sniffing the MIME type from the leading bytes.
func dataURI(image []byte) string {
	probe := image
	if len(probe) > 512 {
		probe = probe[:512]
	}
	mimeType := http.DetectContentType(probe)
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(image))
}
