package main

import (
	"strings"
	"testing"

	"github.com/englishcorner/chatclient/internal/transcript"
)

func TestPrintEntries_EchoesBothSidesOfTurn(t *testing.T) {
	turn := []transcript.Entry{
		{ID: 1, Text: "when do you meet?", Role: transcript.RoleUser},
		{ID: 2, Text: "Wed & Fri, 19:30-22:00", Role: transcript.RoleAssistant},
	}

	var buf strings.Builder
	printEntries(&buf, turn)

	want := "[you] when do you meet?\n[corner] Wed & Fri, 19:30-22:00\n"
	if got := buf.String(); got != want {
		t.Errorf("printEntries() = %q, want %q", got, want)
	}
}

func TestLogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  string
	}{
		{"debug", "DEBUG"},
		{"warn", "WARN"},
		{"error", "ERROR"},
		{"info", "INFO"},
		{"bogus", "INFO"},
	}

	for _, tt := range tests {
		if got := logLevel(tt.level).String(); got != tt.want {
			t.Errorf("logLevel(%q) = %v, want %v", tt.level, got, tt.want)
		}
	}
}
