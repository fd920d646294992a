// Package corpus loads quote files.
package corpus

import (
	"fmt"
	"os"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

// Load reads a YAML list of {text, author} entries from path.
func Load(path string) ([]Quote, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes and validates a YAML quote list.
func Parse(data []byte) ([]Quote, error) {
	var quotes []Quote
	if err := yaml.Unmarshal(data, &quotes); err != nil {
		return nil, fmt.Errorf("failed to decode corpus: %w", err)
	}
	if len(quotes) == 0 {
		return nil, fmt.Errorf("corpus is empty")
	}
	for i := range quotes {
		quotes[i].Text = collapseSpace(quotes[i].Text)
		quotes[i].Author = collapseSpace(quotes[i].Author)
		if quotes[i].Text == "" {
			return nil, fmt.Errorf("corpus entry %d has empty text", i)
		}
		if r, ok := firstUnprintable(quotes[i].Text); ok {
			return nil, fmt.Errorf("corpus entry %d contains unprintable character %U", i, r)
		}
	}
	return quotes, nil
}

// collapseSpace joins words with single spaces. Line breaks and tabs from block
// scalars cannot be typed as one character, so they become plain spaces.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func firstUnprintable(s string) (rune, bool) {
	for _, r := range s {
		if !unicode.IsPrint(r) {
			return r, true
		}
	}
	return 0, false
}
