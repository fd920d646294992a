package stats

import (
	"context"
	"io"

	"github.com/verte-zerg/keyzen/internal/model"
	"github.com/verte-zerg/keyzen/internal/store"
)

// Report contains precomputed data for stats rendering.
type Report struct {
	Attempts []model.Attempt
	Misses   []model.CharMiss
}

// BuildReport loads attempts matching filter and their topN most missed characters.
func BuildReport(ctx context.Context, st *store.Store, filter model.AttemptFilter, topN int) (Report, error) {
	attempts, err := st.ListAttempts(ctx, filter)
	if err != nil {
		return Report{}, err
	}
	misses, err := st.TopMisses(ctx, attemptIDs(attempts), topN)
	if err != nil {
		return Report{}, err
	}
	return Report{Attempts: attempts, Misses: misses}, nil
}

// Render writes every section of the report. Width limits the trend lines.
func (r Report) Render(w io.Writer, window, width int) error {
	if err := RenderSummary(w, r.Attempts); err != nil {
		return err
	}
	if len(r.Attempts) == 0 {
		return nil
	}
	if err := RenderTrend(w, r.Attempts, window, width); err != nil {
		return err
	}
	if err := RenderAttempts(w, r.Attempts); err != nil {
		return err
	}
	return RenderMisses(w, r.Misses)
}

func attemptIDs(attempts []model.Attempt) []int64 {
	ids := make([]int64, len(attempts))
	for i, a := range attempts {
		ids[i] = a.ID
	}
	return ids
}
