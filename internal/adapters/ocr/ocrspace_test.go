package ocr

import (
	"io"
	"log/slog"
	"strings"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// minimal valid PNG header so MIME sniffing identifies the format
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 13}

func TestNewSpaceSolver(t *testing.T) {
	s := NewSpaceSolver("test-key", testLogger())
	if s.config.ApiKey != "test-key" {
		t.Errorf("ApiKey = %q", s.config.ApiKey)
	}
	if s.config.Language != "eng" {
		t.Errorf("Language = %q", s.config.Language)
	}
}

func TestDataURI(t *testing.T) {
	uri := dataURI(pngHeader)
	if !strings.HasPrefix(uri, "data:image/png;base64,") {
		t.Errorf("uri = %q, want image/png data URI", uri)
	}
}

func TestAnswerCleanup(t *testing.T) {
	got := nonAlphanumeric.ReplaceAllString("a b\nc4!5é", "")
	if got != "abc45" {
		t.Errorf("cleaned = %q, want %q", got, "abc45")
	}
}
