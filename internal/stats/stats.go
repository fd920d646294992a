// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/verte-zerg/keyzen/internal/model"
)

const (
	sparkChars  = " .:-=+*#%@"
	authorWidth = 24
)

// Summary aggregates a set of attempts.
type Summary struct {
	Attempts    int
	AvgWPM      float64
	BestWPM     int
	AvgAccuracy float64
	BestCombo   int
	TotalTime   time.Duration
}

// Summarize aggregates attempts.
func Summarize(attempts []model.Attempt) Summary {
	var s Summary
	if len(attempts) == 0 {
		return s
	}
	var totalWPM, totalAcc float64
	for _, a := range attempts {
		totalWPM += float64(a.WPM)
		totalAcc += float64(a.Accuracy)
		if a.WPM > s.BestWPM {
			s.BestWPM = a.WPM
		}
		if a.MaxCombo > s.BestCombo {
			s.BestCombo = a.MaxCombo
		}
		s.TotalTime += time.Duration(a.DurationMs) * time.Millisecond
	}
	s.Attempts = len(attempts)
	s.AvgWPM = totalWPM / float64(len(attempts))
	s.AvgAccuracy = totalAcc / float64(len(attempts))
	return s
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 || len(values) == 0 {
		copy(out, values)
		return out
	}
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	last := len(sparkChars) - 1
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(last)))
		idx = max(0, min(idx, last))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints a summary block for attempts.
func RenderSummary(w io.Writer, attempts []model.Attempt) error {
	if len(attempts) == 0 {
		_, err := fmt.Fprintln(w, "No attempts found.")
		return err
	}
	s := Summarize(attempts)
	lines := []string{
		"Summary",
		fmt.Sprintf("Attempts: %d", s.Attempts),
		fmt.Sprintf("Avg WPM: %.1f", s.AvgWPM),
		fmt.Sprintf("Best WPM: %d", s.BestWPM),
		fmt.Sprintf("Avg Accuracy: %.1f%%", s.AvgAccuracy),
		fmt.Sprintf("Best Combo: %d", s.BestCombo),
		fmt.Sprintf("Practice Time: %s", s.TotalTime.Round(time.Second)),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderTrend prints WPM and accuracy sparklines smoothed over window.
// A positive width keeps only the most recent width points.
func RenderTrend(w io.Writer, attempts []model.Attempt, window, width int) error {
	if len(attempts) < 2 {
		return nil
	}
	wpms := make([]float64, len(attempts))
	accs := make([]float64, len(attempts))
	for i, a := range attempts {
		wpms[i] = float64(a.WPM)
		accs[i] = float64(a.Accuracy)
	}
	wpms = tail(MovingAverage(wpms, window), width)
	accs = tail(MovingAverage(accs, window), width)

	tbl := newTable(column{}, column{}, column{right: true})
	tbl.add("WPM", Sparkline(wpms), fmt.Sprintf("%.0f", wpms[len(wpms)-1]))
	tbl.add("Accuracy", Sparkline(accs), fmt.Sprintf("%.0f%%", accs[len(accs)-1]))
	return tbl.write(w, "Trend")
}

func tail(values []float64, n int) []float64 {
	if n <= 0 || len(values) <= n {
		return values
	}
	return values[len(values)-n:]
}

// RenderAttempts prints one row per attempt.
func RenderAttempts(w io.Writer, attempts []model.Attempt) error {
	if len(attempts) == 0 {
		return nil
	}
	tbl := newTable(
		column{title: "Finished"},
		column{title: "Author", maxWidth: authorWidth},
		column{title: "WPM", right: true},
		column{title: "Accuracy", right: true},
		column{title: "Errors", right: true},
		column{title: "Combo", right: true},
		column{title: "Time", right: true},
	)
	for _, a := range attempts {
		author := a.Author
		if author == "" {
			author = "-"
		}
		tbl.add(
			a.EndedAt.Local().Format("2006-01-02 15:04"),
			author,
			fmt.Sprintf("%d", a.WPM),
			fmt.Sprintf("%d%%", a.Accuracy),
			fmt.Sprintf("%d", a.Errors),
			fmt.Sprintf("%d", a.MaxCombo),
			fmt.Sprintf("%.1fs", float64(a.DurationMs)/1000),
		)
	}
	return tbl.write(w, "Attempts")
}

// RenderMisses prints the most missed characters.
func RenderMisses(w io.Writer, misses []model.CharMiss) error {
	if len(misses) == 0 {
		_, err := fmt.Fprintln(w, "No missed characters.")
		return err
	}
	tbl := newTable(column{title: "Char"}, column{title: "Misses", right: true})
	for _, m := range misses {
		label := m.Char
		if label == " " {
			label = "<space>"
		}
		tbl.add(label, fmt.Sprintf("%d", m.Misses))
	}
	return tbl.write(w, "Most Missed")
}
