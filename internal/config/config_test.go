package config

import (
	"os"
	"testing"
)

func TestGetEnvOrDefault(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		envValue   string
		defaultVal string
		expected   string
	}{
		{"uses env value", "TEST_VAR_1", "hello", "default", "hello"},
		{"uses default when empty", "TEST_VAR_2", "", "default", "default"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.envValue != "" {
				os.Setenv(tc.key, tc.envValue)
				defer os.Unsetenv(tc.key)
			}

			result := getEnvOrDefault(tc.key, tc.defaultVal)
			if result != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, result)
			}
		})
	}
}

func TestGetEnvAsIntOrDefault(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		envValue   string
		defaultVal int
		expected   int
	}{
		{"parses integer", "TEST_INT_1", "42", 10, 42},
		{"uses default for empty", "TEST_INT_2", "", 10, 10},
		{"uses default for non-numeric", "TEST_INT_3", "abc", 10, 10},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.envValue != "" {
				os.Setenv(tc.key, tc.envValue)
				defer os.Unsetenv(tc.key)
			}

			result := getEnvAsIntOrDefault(tc.key, tc.defaultVal)
			if result != tc.expected {
				t.Errorf("Expected %d, got %d", tc.expected, result)
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	os.Unsetenv("HISTORY_WINDOW")
	os.Unsetenv("MAX_MESSAGE_CHARS")
	os.Unsetenv("CASUAL_SENTENCES")

	cfg := Load()

	if cfg.HistoryWindow != 10 {
		t.Errorf("Expected history window 10, got %d", cfg.HistoryWindow)
	}
	if cfg.MaxMessageChars != 800 {
		t.Errorf("Expected max message chars 800, got %d", cfg.MaxMessageChars)
	}
	if cfg.MaxAudioBytes != 15*1024*1024 {
		t.Errorf("Expected max audio bytes 15MB, got %d", cfg.MaxAudioBytes)
	}
	if cfg.CasualSentences != 2 {
		t.Errorf("Expected casual budget 2, got %d", cfg.CasualSentences)
	}
}
