// Package codec encodes and decodes boards in the .wdeck document format.
package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/weekdeck/weekdeck/internal/domain"
)

// Version is written to every encoded document.
const Version = "1.0"

// ExportDateLayout is the timestamp layout of the exportDate field.
const ExportDateLayout = "2006-01-02T15:04:05.000Z"

// Document is the JSON shape of a .wdeck file.
// Field order matches the order the fields are marshaled in.
type Document struct {
	Tasks         Week   `json:"tasks"`
	PageTitle     string `json:"pageTitle"`
	CurrentTheme  string `json:"currentTheme"`
	ExportDate    string `json:"exportDate"`
	Version       string `json:"version"`
	WeekendHidden bool   `json:"weekendHidden"`
}

// Week holds the task lists of a document, indexed by day.
// It marshals as an object keyed by day name, in week order.
type Week [domain.DayCount][]domain.Task

// MarshalJSON writes the days Monday through Sunday. Empty days are written as [].
func (w Week) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, day := range domain.AllDays() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(day.String())
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		col := w[day]
		if col == nil {
			col = []domain.Task{}
		}
		val, err := json.Marshal(col)
		if err != nil {
			return nil, fmt.Errorf("marshal %s: %w", day, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Encode converts b into a document stamped with exportedAt.
func Encode(b domain.Board, exportedAt time.Time) Document {
	var week Week
	for d, col := range b.Columns {
		cp := make([]domain.Task, len(col))
		copy(cp, col)
		week[d] = cp
	}
	return Document{
		Tasks:         week,
		WeekendHidden: b.WeekendHidden,
		PageTitle:     b.Title,
		CurrentTheme:  string(b.Theme),
		ExportDate:    FormatExportDate(exportedAt),
		Version:       Version,
	}
}

// Marshal encodes b as indented JSON.
func Marshal(b domain.Board, exportedAt time.Time) ([]byte, error) {
	data, err := json.MarshalIndent(Encode(b, exportedAt), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	return data, nil
}

// FormatExportDate formats t in UTC with millisecond precision.
func FormatExportDate(t time.Time) string {
	return t.UTC().Format(ExportDateLayout)
}

// Decoder parses documents into boards.
type Decoder struct {
	ids domain.IDGenerator
}

// NewDecoder creates a Decoder that assigns missing or duplicated ids from ids.
// A nil ids falls back to random UUIDs.
func NewDecoder(ids domain.IDGenerator) *Decoder {
	if ids == nil {
		ids = domain.UUIDGenerator{}
	}
	return &Decoder{ids: ids}
}

// Decode parses data into a repaired board.
// Unknown fields are ignored, non-object task entries are skipped and task
// fields are coerced to their expected types. The returned error matches
// ErrMalformedDocument, ErrMissingTasks or ErrNoValidDays with errors.Is.
func (d *Decoder) Decode(data []byte) (domain.Board, error) {
	var root map[string]json.RawMessage
	if err := json.Unmarshal(data, &root); err != nil {
		return domain.Board{}, &DecodeError{Kind: KindMalformed, Err: err}
	}
	if root == nil {
		return domain.Board{}, &DecodeError{Kind: KindMalformed, Err: errors.New("document is null")}
	}

	rawTasks, ok := root["tasks"]
	if !ok {
		return domain.Board{}, &DecodeError{Kind: KindMissingTasks}
	}
	var days map[string]json.RawMessage
	if err := json.Unmarshal(rawTasks, &days); err != nil || days == nil {
		return domain.Board{}, &DecodeError{Kind: KindMissingTasks, Err: err}
	}

	b := domain.NewBoard()
	valid := 0
	for _, day := range domain.AllDays() {
		raw, ok := days[day.String()]
		if !ok {
			continue
		}
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil || items == nil {
			continue
		}
		valid++
		col := make([]domain.Task, 0, len(items))
		for _, item := range items {
			task, ok := decodeTask(item)
			if !ok {
				continue
			}
			col = append(col, task)
		}
		if len(col) > 0 {
			b.Columns[day] = col
		}
	}
	if valid == 0 {
		return domain.Board{}, &DecodeError{Kind: KindNoValidDays}
	}

	if raw, ok := root["pageTitle"]; ok {
		b.Title = flexString(raw)
	}
	if raw, ok := root["currentTheme"]; ok {
		if theme, err := domain.ParseTheme(flexString(raw)); err == nil {
			b.Theme = theme
		}
	}
	b.WeekendHidden = flexBool(root["weekendHidden"])

	b.Repair(d.ids)
	return b, nil
}

// ExportDate returns the exportDate of an encoded document, if present and valid.
func ExportDate(data []byte) (time.Time, bool) {
	var doc struct {
		ExportDate string `json:"exportDate"`
	}
	if err := json.Unmarshal(data, &doc); err != nil || doc.ExportDate == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, doc.ExportDate)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func decodeTask(raw json.RawMessage) (domain.Task, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return domain.Task{}, false
	}
	color, err := domain.ParseColor(flexString(fields["color"]))
	if err != nil {
		color = domain.ColorNone
	}
	return domain.Task{
		ID:          flexString(fields["id"]),
		Title:       flexString(fields["title"]),
		Description: flexString(fields["desc"]),
		Color:       color,
		Highlighted: flexBool(fields["bgFill"]),
		Completed:   flexBool(fields["completed"]),
	}, true
}

// flexString reads a string or number. Anything else yields "".
func flexString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

// flexBool reads a boolean, a "true"/"false" string or a number.
// Anything else yields false.
func flexBool(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return false
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		v, err := strconv.ParseBool(strings.TrimSpace(s))
		return err == nil && v
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f != 0
	}
	return false
}
