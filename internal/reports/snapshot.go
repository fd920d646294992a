// Package reports builds "what was tested" snapshots and keeps their history.
package reports

import (
	"math"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/verte-zerg/keyzen/internal/keyboard"
	"github.com/verte-zerg/keyzen/internal/model"
)

// NewSnapshot records which inventory keys satisfy tested. Missing keys keep
// inventory order and carry the label shown for os.
func NewSnapshot(tested func(model.KeyIdentity) bool, inventory []keyboard.Key, os keyboard.OS, now time.Time) model.ReportSnapshot {
	snap := model.ReportSnapshot{
		ID:         ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String(),
		CreatedAt:  now,
		TotalCount: len(inventory),
		Missing:    []model.MissingKey{},
	}
	for _, k := range inventory {
		if tested != nil && tested(k.Code) {
			snap.WorkingCount++
			continue
		}
		snap.Missing = append(snap.Missing, model.MissingKey{Code: k.Code, Label: keyboard.Label(k, os)})
	}
	snap.Percentage = percentage(snap.WorkingCount, snap.TotalCount)
	return snap
}

func percentage(working, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(working) / float64(total)))
}
