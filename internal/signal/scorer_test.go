package signal

import (
	"os"
	"path/filepath"
	"testing"
)

func TestVocabulary_Score(t *testing.T) {
	vocabs := DefaultVocabularies()

	tests := []struct {
		name     string
		text     string
		earnings int
		macro    int
	}{
		{
			name:     "earnings headline",
			text:     "AAPL beats estimates with record quarterly results and raised guidance",
			earnings: 3, // beats estimates, quarterly results, guidance
			macro:    0,
		},
		{
			name:     "macro headline",
			text:     "Fed signals interest rate cut as inflation cools",
			earnings: 0,
			macro:    3, // fed, interest rate, inflation
		},
		{
			name:     "mixed headline",
			text:     "Bank earnings under pressure from Fed policy",
			earnings: 1,
			macro:    2, // fed, policy
		},
		{
			name:     "no signal",
			text:     "Company announces new product line",
			earnings: 0,
			macro:    0,
		},
		{
			name:     "empty text",
			text:     "",
			earnings: 0,
			macro:    0,
		},
		{
			name:     "case insensitive",
			text:     "EARNINGS Beat On Strong REVENUE",
			earnings: 2,
			macro:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := vocabs.Earnings.Score(tt.text); got != tt.earnings {
				t.Errorf("earnings score: expected %d, got %d", tt.earnings, got)
			}
			if got := vocabs.Macro.Score(tt.text); got != tt.macro {
				t.Errorf("macro score: expected %d, got %d", tt.macro, got)
			}
		})
	}
}

func TestVocabulary_ScoreNonNegative(t *testing.T) {
	vocabs := DefaultVocabularies()

	for _, text := range []string{"", "   ", "unrelated text", "fed fed fed"} {
		if got := vocabs.Earnings.Score(text); got < 0 {
			t.Errorf("score must be non-negative, got %d for %q", got, text)
		}
		if got := vocabs.Macro.Score(text); got < 0 {
			t.Errorf("score must be non-negative, got %d for %q", got, text)
		}
	}
}

func TestLoadVocabularies(t *testing.T) {
	t.Run("custom file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "vocab.yaml")
		content := "earnings:\n  - EARNINGS\n  - dividend\nmacro:\n  - recession\n"
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write vocab file: %v", err)
		}

		vocabs, err := LoadVocabularies(path)
		if err != nil {
			t.Fatalf("failed to load vocabularies: %v", err)
		}

		// Terms are lowercased on load
		if got := vocabs.Earnings.Score("strong earnings and dividend"); got != 2 {
			t.Errorf("expected 2 earnings matches, got %d", got)
		}
		if got := vocabs.Macro.Score("recession fears mount"); got != 1 {
			t.Errorf("expected 1 macro match, got %d", got)
		}
	})

	t.Run("missing file falls back to defaults", func(t *testing.T) {
		vocabs, err := LoadVocabularies(filepath.Join(t.TempDir(), "nope.yaml"))
		if err == nil {
			t.Error("expected error for missing file")
		}
		if len(vocabs.Earnings) == 0 || len(vocabs.Macro) == 0 {
			t.Error("expected default vocabularies on failure")
		}
	})

	t.Run("empty section falls back to defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "vocab.yaml")
		if err := os.WriteFile(path, []byte("earnings:\n  - custom term\n"), 0644); err != nil {
			t.Fatalf("failed to write vocab file: %v", err)
		}

		vocabs, err := LoadVocabularies(path)
		if err != nil {
			t.Fatalf("failed to load vocabularies: %v", err)
		}
		if len(vocabs.Macro) == 0 {
			t.Error("expected default macro vocabulary for empty section")
		}
	})
}
