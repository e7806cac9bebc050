package common

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

type request struct {
	Name string `validate:"required"`
	Age  int    `validate:"min=1"`
}

func TestGenericEchoValidator(t *testing.T) {
	v := NewGenericEchoValidator()
	if err := v.Validate(&request{Name: "Amy", Age: 3}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := v.Validate(&request{})
	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected echo.HTTPError, got %T", err)
	}
	if httpErr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", httpErr.Code)
	}
	message, _ := httpErr.Message.(string)
	if !strings.Contains(message, "Name (required)") || !strings.Contains(message, "Age (min)") {
		t.Errorf("unexpected message %q", message)
	}
}

func TestGenericEchoValidator_ZeroValue(t *testing.T) {
	var v GenericEchoValidator
	if err := v.Validate(&request{Name: "x", Age: 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAttachmentDisposition(t *testing.T) {
	if got := AttachmentDisposition("ambition-ticket-amy-chen.png"); got != `attachment; filename="ambition-ticket-amy-chen.png"` {
		t.Errorf("unexpected disposition %q", got)
	}
	if got := AttachmentDisposition("ambition-ticket-zoë.png"); !strings.Contains(got, "filename*=utf-8''") {
		t.Errorf("expected RFC 2231 encoding, got %q", got)
	}
}
