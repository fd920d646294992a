package reports

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/verte-zerg/keyzen/internal/logging"
	"github.com/verte-zerg/keyzen/internal/model"
)

// StorageKey is the key-value entry holding the report history.
const StorageKey = "report_history"

// BlobStore is a local key-value storage.
type BlobStore interface {
	GetBlob(ctx context.Context, key string) ([]byte, bool, error)
	PutBlob(ctx context.Context, key string, value []byte) error
}

// History is the persisted list of snapshots, newest first.
type History struct {
	store BlobStore
}

// NewHistory returns a history backed by store.
func NewHistory(store BlobStore) *History {
	return &History{store: store}
}

// List returns all snapshots, newest first. Unreadable data yields an empty list.
func (h *History) List(ctx context.Context) ([]model.ReportSnapshot, error) {
	data, ok, err := h.store.GetBlob(ctx, StorageKey)
	if err != nil {
		return nil, fmt.Errorf("read report history: %w", err)
	}
	if !ok {
		return nil, nil
	}
	reports, err := Decode(data)
	if err != nil {
		logging.GetLogger().Named("reports").Warn("report history unreadable, starting empty", zap.Error(err))
		return nil, nil
	}
	return reports, nil
}

// Get returns the snapshot with id.
func (h *History) Get(ctx context.Context, id string) (model.ReportSnapshot, bool, error) {
	reports, err := h.List(ctx)
	if err != nil {
		return model.ReportSnapshot{}, false, err
	}
	for _, r := range reports {
		if r.ID == id {
			return r, true, nil
		}
	}
	return model.ReportSnapshot{}, false, nil
}

// Add prepends snap and persists the list.
func (h *History) Add(ctx context.Context, snap model.ReportSnapshot) error {
	reports, err := h.List(ctx)
	if err != nil {
		return err
	}
	reports = append([]model.ReportSnapshot{snap}, reports...)
	return h.save(ctx, reports)
}

// Delete removes the snapshot with id and reports whether it existed.
func (h *History) Delete(ctx context.Context, id string) (bool, error) {
	reports, err := h.List(ctx)
	if err != nil {
		return false, err
	}
	kept := reports[:0]
	found := false
	for _, r := range reports {
		if r.ID == id {
			found = true
			continue
		}
		kept = append(kept, r)
	}
	if !found {
		return false, nil
	}
	return true, h.save(ctx, kept)
}

func (h *History) save(ctx context.Context, reports []model.ReportSnapshot) error {
	data, err := Encode(reports)
	if err != nil {
		return fmt.Errorf("encode report history: %w", err)
	}
	if err := h.store.PutBlob(ctx, StorageKey, data); err != nil {
		return fmt.Errorf("write report history: %w", err)
	}
	return nil
}
