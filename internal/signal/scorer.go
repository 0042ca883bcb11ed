package signal

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Vocabulary is a set of lowercase indicator terms matched as substrings
type Vocabulary []string

// Score counts how many vocabulary terms appear in text.
// Matching is case-insensitive; empty text scores zero.
func (v Vocabulary) Score(text string) int {
	if text == "" || len(v) == 0 {
		return 0
	}

	lower := strings.ToLower(text)
	count := 0
	for _, term := range v {
		if strings.Contains(lower, term) {
			count++
		}
	}
	return count
}

// Vocabularies bundles the cause-indicator term sets used by classification
type Vocabularies struct {
	Earnings Vocabulary `yaml:"earnings"`
	Macro    Vocabulary `yaml:"macro"`
}

// DefaultVocabularies returns the built-in indicator term sets
func DefaultVocabularies() Vocabularies {
	return Vocabularies{
		Earnings: Vocabulary{
			"earnings", "profit", "revenue", "eps", "ebitda", "quarterly results",
			"annual report", "beats estimates", "misses estimates", "guidance",
			"raised forecast", "lowered forecast", "quarterly report", "financial results",
		},
		Macro: Vocabulary{
			"fed", "interest rate", "inflation", "unemployment", "gdp", "economic growth",
			"central bank", "policy", "trade war", "tariff", "economic data", "jobs report",
			"manufacturing index", "retail sales", "housing market", "consumer confidence",
		},
	}
}

// LoadVocabularies reads indicator term sets from a YAML file.
// Terms are lowercased; empty sections fall back to the defaults.
func LoadVocabularies(path string) (Vocabularies, error) {
	defaults := DefaultVocabularies()

	data, err := os.ReadFile(path)
	if err != nil {
		return defaults, fmt.Errorf("failed to read vocabulary file: %w", err)
	}

	var loaded Vocabularies
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return defaults, fmt.Errorf("failed to parse vocabulary file: %w", err)
	}

	if len(loaded.Earnings) == 0 {
		loaded.Earnings = defaults.Earnings
	}
	if len(loaded.Macro) == 0 {
		loaded.Macro = defaults.Macro
	}

	loaded.Earnings = lowercase(loaded.Earnings)
	loaded.Macro = lowercase(loaded.Macro)

	return loaded, nil
}

func lowercase(v Vocabulary) Vocabulary {
	out := make(Vocabulary, 0, len(v))
	for _, term := range v {
		term = strings.TrimSpace(strings.ToLower(term))
		if term != "" {
			out = append(out, term)
		}
	}
	return out
}
