package util

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestUsageError(t *testing.T) {
	err := NewUsageError("file %s not found", "updates.csv")

	if err.Error() != "file updates.csv not found" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, ErrInvalidInput) {
		t.Error("UsageError should unwrap to ErrInvalidInput")
	}

	var ue *UsageError
	wrapped := fmt.Errorf("init: %w", err)
	if !errors.As(wrapped, &ue) {
		t.Error("errors.As should find UsageError through wrapping")
	}
}

func TestRemoteError(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		err := &RemoteError{Op: "GET", URL: "https://x/networks/N_1/devices/Q2", StatusCode: 404, Body: `{"errors":["Not found"]}`}
		if !errors.Is(err, ErrNotFound) {
			t.Error("404 RemoteError should match ErrNotFound")
		}
		if !errors.Is(err, ErrRemote) {
			t.Error("RemoteError should always match ErrRemote")
		}
		if !strings.Contains(err.Error(), "status 404") {
			t.Errorf("Error() should contain status: %s", err.Error())
		}
	})

	t.Run("server error", func(t *testing.T) {
		err := &RemoteError{Op: "PUT", URL: "u", StatusCode: 500}
		if errors.Is(err, ErrNotFound) {
			t.Error("500 should not match ErrNotFound")
		}
		if err.Error() != "PUT u: status 500" {
			t.Errorf("Error() = %q", err.Error())
		}
	})

	t.Run("transport", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := &RemoteError{Op: "GET", URL: "u", Err: cause}
		if !errors.Is(err, cause) {
			t.Error("transport RemoteError should unwrap to its cause")
		}
		if !strings.Contains(err.Error(), "connection refused") {
			t.Errorf("Error() = %q", err.Error())
		}
	})
}

func TestParseError(t *testing.T) {
	err := NewParseError(3, "expected %d fields", 4)
	if err.Error() != "line 3: expected 4 fields" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, ErrInvalidInput) {
		t.Error("ParseError should unwrap to ErrInvalidInput")
	}

	noLine := NewParseError(0, "missing serial column")
	if noLine.Error() != "missing serial column" {
		t.Errorf("Error() = %q", noLine.Error())
	}
}
