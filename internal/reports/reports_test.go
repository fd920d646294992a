package reports

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/keyzen/internal/keyboard"
	"github.com/verte-zerg/keyzen/internal/model"
)

type memStore struct {
	blobs map[string][]byte
	err   error
}

func newMemStore() *memStore {
	return &memStore{blobs: map[string][]byte{}}
}

func (m *memStore) GetBlob(_ context.Context, key string) ([]byte, bool, error) {
	if m.err != nil {
		return nil, false, m.err
	}
	v, ok := m.blobs[key]
	return v, ok, nil
}

func (m *memStore) PutBlob(_ context.Context, key string, value []byte) error {
	if m.err != nil {
		return m.err
	}
	m.blobs[key] = append([]byte(nil), value...)
	return nil
}

func inventory() []keyboard.Key {
	return []keyboard.Key{
		{Code: "KeyA", Label: "A"},
		{Code: "KeyB", Label: "B"},
		{Code: "AltLeft", Label: "Alt"},
		{Code: "KeyC", Label: "C"},
	}
}

func testedSet(codes ...model.KeyIdentity) func(model.KeyIdentity) bool {
	set := map[model.KeyIdentity]bool{}
	for _, c := range codes {
		set[c] = true
	}
	return func(k model.KeyIdentity) bool { return set[k] }
}

func TestNewSnapshot(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	snap := NewSnapshot(testedSet("KeyB", "Unknown"), inventory(), keyboard.OSMac, now)

	assert.NotEmpty(t, snap.ID)
	assert.Equal(t, now, snap.CreatedAt)
	assert.Equal(t, 1, snap.WorkingCount)
	assert.Equal(t, 4, snap.TotalCount)
	assert.Equal(t, 25, snap.Percentage)
	assert.Equal(t, "1/4", snap.Score())
	want := []model.MissingKey{
		{Code: "KeyA", Label: "A"},
		{Code: "AltLeft", Label: "Option"},
		{Code: "KeyC", Label: "C"},
	}
	if diff := cmp.Diff(want, snap.Missing); diff != "" {
		t.Fatalf("missing mismatch (-want +got):\n%s", diff)
	}
}

func TestNewSnapshotRoundsPercentage(t *testing.T) {
	inv := make([]keyboard.Key, 3)
	for i := range inv {
		inv[i] = keyboard.Key{Code: model.KeyIdentity(string(rune('a' + i)))}
	}
	snap := NewSnapshot(testedSet("a", "b"), inv, keyboard.OSWin, time.Now())
	assert.Equal(t, 67, snap.Percentage)

	empty := NewSnapshot(nil, nil, keyboard.OSWin, time.Now())
	assert.Zero(t, empty.Percentage)
	assert.NotNil(t, empty.Missing)
}

func TestSnapshotOverFullInventory(t *testing.T) {
	all := keyboard.All()
	snap := NewSnapshot(testedSet(), all, keyboard.OSWin, time.Now())
	assert.Equal(t, len(all), snap.TotalCount)
	assert.Len(t, snap.Missing, len(all))
	assert.Equal(t, all[0].Code, snap.Missing[0].Code)
}

func TestSnapshotIDsUnique(t *testing.T) {
	now := time.Now()
	a := NewSnapshot(nil, inventory(), keyboard.OSWin, now)
	b := NewSnapshot(nil, inventory(), keyboard.OSWin, now)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestEncodeDecodeKeepsOrder(t *testing.T) {
	first := NewSnapshot(testedSet("KeyA"), inventory(), keyboard.OSWin, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	second := NewSnapshot(testedSet(), inventory(), keyboard.OSWin, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))
	data, err := Encode([]model.ReportSnapshot{second, first})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), `{"version":1,`))

	got, err := Decode(data)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, second.ID, got[0].ID)
	assert.True(t, first.CreatedAt.Equal(got[1].CreatedAt))
	assert.Equal(t, first.Missing, got[1].Missing)
}

func TestEncodeNilMissing(t *testing.T) {
	data, err := Encode([]model.ReportSnapshot{{ID: "x", CreatedAt: time.Unix(0, 0).UTC()}})
	require.NoError(t, err)
	got, err := Decode(data)
	require.NoError(t, err)
	assert.Empty(t, got[0].Missing)
}

func TestDecodeRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"not json":      `{"version":`,
		"wrong version": `{"version":2,"reports":[]}`,
		"no reports":    `{"version":1}`,
		"bad percent":   `{"version":1,"reports":[{"id":"a","createdAt":"2024-01-01T00:00:00Z","workingCount":1,"totalCount":1,"percentage":140,"missing":[]}]}`,
		"missing id":    `{"version":1,"reports":[{"createdAt":"2024-01-01T00:00:00Z","workingCount":1,"totalCount":1,"percentage":100,"missing":[]}]}`,
		"object":        `{"foo":"bar"}`,
		"legacy broken": `[{"id":`,
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode([]byte(data))
			assert.Error(t, err)
		})
	}
}

func TestDecodeEmpty(t *testing.T) {
	got, err := Decode([]byte("  "))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDecodeLegacyArray(t *testing.T) {
	data := `[
		{"id":1714564800000,"date":"5/1/2024, 12:00:00 PM","score":"2/3","percentage":66.7,
		 "missing":[{"code":"KeyC","label":"C","width":1}],"workingCount":2,"totalCount":3},
		{"id":1714478400000,"date":"not a date","percentage":0,"missing":[],"workingCount":0,"totalCount":3}
	]`
	got, err := Decode([]byte(data))
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "1714564800000", got[0].ID)
	assert.Equal(t, 67, got[0].Percentage)
	assert.Equal(t, 2, got[0].WorkingCount)
	assert.Equal(t, []model.MissingKey{{Code: "KeyC", Label: "C"}}, got[0].Missing)
	assert.Equal(t, 2024, got[0].CreatedAt.Year())
	assert.Equal(t, time.May, got[0].CreatedAt.Month())

	assert.True(t, time.UnixMilli(1714478400000).Equal(got[1].CreatedAt))
	assert.NotNil(t, got[1].Missing)

	reencoded, err := Encode(got)
	require.NoError(t, err)
	_, err = Decode(reencoded)
	require.NoError(t, err)
}

func TestLegacyOverflowSurvivesNextSave(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	store.blobs[StorageKey] = []byte(`[{"id":1700000000000,"date":"x","percentage":101,
		"missing":[{"code":""},{"code":"KeyC","label":"C"}],"workingCount":106,"totalCount":104}]`)
	h := NewHistory(store)

	list, err := h.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 100, list[0].Percentage)
	assert.Equal(t, []model.MissingKey{{Code: "KeyC", Label: "C"}}, list[0].Missing)

	snap := NewSnapshot(testedSet("KeyA"), inventory(), keyboard.OSWin, time.Now())
	require.NoError(t, h.Add(ctx, snap))

	list, err = h.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, snap.ID, list[0].ID)
	assert.Equal(t, "1700000000000", list[1].ID)
}

func TestHistoryAddListDelete(t *testing.T) {
	ctx := context.Background()
	h := NewHistory(newMemStore())

	list, err := h.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	older := NewSnapshot(nil, inventory(), keyboard.OSWin, time.Now())
	newer := NewSnapshot(testedSet("KeyA"), inventory(), keyboard.OSWin, time.Now())
	require.NoError(t, h.Add(ctx, older))
	require.NoError(t, h.Add(ctx, newer))

	list, err = h.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID)
	assert.Equal(t, older.ID, list[1].ID)

	got, ok, err := h.Get(ctx, older.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, older.WorkingCount, got.WorkingCount)

	found, err := h.Delete(ctx, newer.ID)
	require.NoError(t, err)
	assert.True(t, found)
	found, err = h.Delete(ctx, newer.ID)
	require.NoError(t, err)
	assert.False(t, found)

	list, err = h.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, older.ID, list[0].ID)
}

func TestHistoryMalformedBlobLoadsEmpty(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	store.blobs[StorageKey] = []byte("{garbage")
	h := NewHistory(store)

	list, err := h.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, h.Add(ctx, NewSnapshot(nil, inventory(), keyboard.OSWin, time.Now())))
	list, err = h.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestHistoryStoreErrors(t *testing.T) {
	store := newMemStore()
	store.err = errors.New("disk gone")
	h := NewHistory(store)
	_, err := h.List(context.Background())
	assert.ErrorContains(t, err, "disk gone")
	assert.Error(t, h.Add(context.Background(), model.ReportSnapshot{ID: "x"}))
}

func TestFormatText(t *testing.T) {
	snap := model.ReportSnapshot{
		CreatedAt:    time.Date(2024, 5, 1, 9, 30, 0, 0, time.Local),
		WorkingCount: 102,
		TotalCount:   104,
		Percentage:   98,
		Missing:      []model.MissingKey{{Code: "MetaRight", Label: "Menu"}, {Code: "Pause"}},
	}
	want := "Keyzen Test Report\n" +
		"Date: 2024-05-01 09:30:00\n" +
		"OS: WIN\n" +
		"Score: 102/104 (98%)\n" +
		"\n" +
		"Missing Keys:\n" +
		"Menu, Pause"
	assert.Equal(t, want, FormatText(snap, keyboard.OSWin))

	snap.Missing = nil
	assert.True(t, strings.HasSuffix(FormatText(snap, keyboard.OSMac), "Missing Keys:\nNone"))
	assert.Contains(t, FormatText(snap, keyboard.OSMac), "OS: MAC\n")
}

type fakeClipboard struct {
	text string
	err  error
}

func (f *fakeClipboard) WriteAll(text string) error {
	if f.err != nil {
		return f.err
	}
	f.text = text
	return nil
}

func TestCopy(t *testing.T) {
	snap := model.ReportSnapshot{TotalCount: 1, Missing: []model.MissingKey{{Code: "KeyA", Label: "A"}}}
	cb := &fakeClipboard{}
	require.NoError(t, Copy(snap, keyboard.OSWin, cb))
	assert.Equal(t, FormatText(snap, keyboard.OSWin), cb.text)

	failing := &fakeClipboard{err: errors.New("no display")}
	err := Copy(snap, keyboard.OSWin, failing)
	assert.ErrorContains(t, err, "copy report")
}
