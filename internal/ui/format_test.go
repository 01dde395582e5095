package ui

import (
	"strings"
	"testing"
)

func TestColorFunc(t *testing.T) {
	// Save original state
	originalSupportsColor := supportsColor
	defer func() {
		supportsColor = originalSupportsColor
	}()

	tests := []struct {
		name          string
		supportsColor bool
		input         string
		expectColored bool
	}{
		{
			name:          "with color support",
			supportsColor: true,
			input:         "test text",
			expectColored: true,
		},
		{
			name:          "without color support",
			supportsColor: false,
			input:         "test text",
			expectColored: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			supportsColor = tt.supportsColor

			funcs := []func(string) string{
				ColorSuccess,
				ColorError,
				ColorWarning,
				ColorInfo,
				ColorProgress,
				ColorBold,
			}

			for _, fn := range funcs {
				result := fn(tt.input)
				colored := result != tt.input
				if colored != tt.expectColored {
					t.Errorf("Expected colored=%v, got output %q", tt.expectColored, result)
				}
				if !strings.Contains(result, tt.input) {
					t.Errorf("Expected output to contain input text, got %q", result)
				}
			}
		})
	}
}

func TestStatusCell(t *testing.T) {
	originalSupportsColor := supportsColor
	defer func() {
		supportsColor = originalSupportsColor
	}()

	supportsColor = false
	if got := StatusCell(true, "PASS"); got != "PASS" {
		t.Errorf("Expected plain PASS without color support, got %q", got)
	}
	if got := StatusCell(false, "FAIL"); got != "FAIL" {
		t.Errorf("Expected plain FAIL without color support, got %q", got)
	}
}

func TestGetSuggestion(t *testing.T) {
	tests := []struct {
		message string
		want    string
	}{
		{"Authentication failed for user", "Check your username and password in the configuration"},
		{"dial tcp: connection refused", "Verify your Snowflake account URL and network connectivity"},
		{"Failed to create table daily_metrics", "Ensure your role can create tables in the target schema"},
		{"Object does not exist: CAMPAIGNS", "Run 'metricseed seed' first to create the sample tables"},
		{"some other error", ""},
	}

	for _, tt := range tests {
		if got := getSuggestion(tt.message); got != tt.want {
			t.Errorf("getSuggestion(%q) = %q, want %q", tt.message, got, tt.want)
		}
	}
}
