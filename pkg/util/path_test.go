package util

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"devices.csv", "devices.csv"},
		{"/tmp/devices.csv", "/tmp/devices.csv"},
		{"~", home},
		{"~/exports/devices.csv", filepath.Join(home, "exports", "devices.csv")},
		{"~bob/devices.csv", "~bob/devices.csv"},
	}

	for _, tt := range tests {
		if got := ExpandHome(tt.input); got != tt.want {
			t.Errorf("ExpandHome(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
