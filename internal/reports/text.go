package reports

import (
	"errors"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/verte-zerg/keyzen/internal/keyboard"
	"github.com/verte-zerg/keyzen/internal/model"
)

const dateLayout = "2006-01-02 15:04:05"

// Clipboard receives copied text.
type Clipboard interface {
	WriteAll(text string) error
}

// SystemClipboard writes to the desktop clipboard.
type SystemClipboard struct{}

// WriteAll copies text, failing when no clipboard utility is available.
func (SystemClipboard) WriteAll(text string) error {
	if clipboard.Unsupported {
		return errors.New("no clipboard utility available")
	}
	return clipboard.WriteAll(text)
}

// FormatText renders snap as plain text.
func FormatText(snap model.ReportSnapshot, os keyboard.OS) string {
	var b strings.Builder
	b.WriteString("Keyzen Test Report\n")
	fmt.Fprintf(&b, "Date: %s\n", snap.CreatedAt.Local().Format(dateLayout))
	fmt.Fprintf(&b, "OS: %s\n", strings.ToUpper(os.String()))
	fmt.Fprintf(&b, "Score: %s (%d%%)\n", snap.Score(), snap.Percentage)
	b.WriteString("\nMissing Keys:\n")
	b.WriteString(missingList(snap.Missing))
	return b.String()
}

func missingList(missing []model.MissingKey) string {
	if len(missing) == 0 {
		return "None"
	}
	names := make([]string, 0, len(missing))
	for _, m := range missing {
		if m.Label != "" {
			names = append(names, m.Label)
			continue
		}
		names = append(names, string(m.Code))
	}
	return strings.Join(names, ", ")
}

// Copy writes the text report to cb. A nil cb uses the system clipboard.
func Copy(snap model.ReportSnapshot, os keyboard.OS, cb Clipboard) error {
	if cb == nil {
		cb = SystemClipboard{}
	}
	if err := cb.WriteAll(FormatText(snap, os)); err != nil {
		return fmt.Errorf("copy report: %w", err)
	}
	return nil
}
