package reports

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/verte-zerg/keyzen/internal/model"
)

// FormatVersion is the version written by Encode.
const FormatVersion = 1

const schemaURL = "keyzen://report-history.schema.json"

//go:embed history.schema.json
var schemaJSON []byte

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

type envelope struct {
	Version int                    `json:"version"`
	Reports []model.ReportSnapshot `json:"reports"`
}

// legacyReport is the bare-array format written by the browser version.
type legacyReport struct {
	ID           json.RawMessage    `json:"id"`
	Date         string             `json:"date"`
	Percentage   float64            `json:"percentage"`
	Missing      []model.MissingKey `json:"missing"`
	WorkingCount int                `json:"workingCount"`
	TotalCount   int                `json:"totalCount"`
}

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
			schemaErr = fmt.Errorf("add schema resource: %w", err)
			return
		}
		schema, schemaErr = compiler.Compile(schemaURL)
	})
	return schema, schemaErr
}

// Encode serializes reports in the current versioned format.
func Encode(reports []model.ReportSnapshot) ([]byte, error) {
	out := make([]model.ReportSnapshot, len(reports))
	for i, r := range reports {
		if r.Missing == nil {
			r.Missing = []model.MissingKey{}
		}
		out[i] = r
	}
	return json.Marshal(envelope{Version: FormatVersion, Reports: out})
}

// Decode parses a stored history. Empty input is an empty history. Bare arrays
// in the legacy format are migrated.
func Decode(data []byte) ([]model.ReportSnapshot, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}
	if data[0] == '[' {
		return decodeLegacy(data)
	}

	if err := validate(data); err != nil {
		return nil, err
	}
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode report history: %w", err)
	}
	return env.Reports, nil
}

func decodeLegacy(data []byte) ([]model.ReportSnapshot, error) {
	var items []legacyReport
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parse legacy report history: %w", err)
	}
	out := make([]model.ReportSnapshot, 0, len(items))
	for i, item := range items {
		id, millis, err := legacyID(item.ID)
		if err != nil {
			return nil, fmt.Errorf("legacy report %d: %w", i, err)
		}
		out = append(out, model.ReportSnapshot{
			ID:           id,
			CreatedAt:    legacyDate(item.Date, millis),
			WorkingCount: max(0, item.WorkingCount),
			TotalCount:   max(0, item.TotalCount),
			// The browser version also counted keys outside the inventory.
			Percentage:   min(100, max(0, int(item.Percentage+0.5))),
			Missing:      legacyMissing(item.Missing),
		})
	}
	// Migrated reports are written back in the current format, so they must
	// pass the same checks as a stored history.
	encoded, err := Encode(out)
	if err != nil {
		return nil, err
	}
	if err := validate(encoded); err != nil {
		return nil, fmt.Errorf("migrate legacy report history: %w", err)
	}
	return out, nil
}

// legacyMissing drops entries without a key code.
func legacyMissing(items []model.MissingKey) []model.MissingKey {
	out := make([]model.MissingKey, 0, len(items))
	for _, m := range items {
		m.Code = model.KeyIdentity(strings.TrimSpace(string(m.Code)))
		if m.Code == "" {
			continue
		}
		out = append(out, m)
	}
	return out
}

// validate checks an encoded history against the embedded schema.
func validate(data []byte) error {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse report history: %w", err)
	}
	s, err := compiledSchema()
	if err != nil {
		return err
	}
	if err := s.Validate(doc); err != nil {
		return fmt.Errorf("validate report history: %w", err)
	}
	return nil
}

// legacyID accepts the numeric millisecond ids of the browser version as well as strings.
func legacyID(raw json.RawMessage) (string, int64, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", 0, errors.New("missing id")
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		if ms, err := n.Int64(); err == nil {
			return strconv.FormatInt(ms, 10), ms, nil
		}
		return n.String(), 0, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil || strings.TrimSpace(s) == "" {
		return "", 0, fmt.Errorf("invalid id %s", raw)
	}
	ms, _ := strconv.ParseInt(s, 10, 64)
	return s, ms, nil
}

var legacyDateLayouts = []string{
	time.RFC3339,
	"1/2/2006, 3:04:05 PM",
	"02/01/2006, 15:04:05",
	"2006-01-02 15:04:05",
}

func legacyDate(s string, millis int64) time.Time {
	for _, layout := range legacyDateLayouts {
		if t, err := time.ParseInLocation(layout, strings.TrimSpace(s), time.Local); err == nil {
			return t
		}
	}
	if millis > 0 {
		return time.UnixMilli(millis)
	}
	return time.Time{}
}
