package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/thesavant42/fluxgallery/internal/models"
)

// imageDTO is the wire shape of one image. The imgbb_* metadata has been
// served both as numbers and as strings, so those fields go through flexInt.
type imageDTO struct {
	ID                  int64   `json:"id"`
	GenerationPrompt    *string `json:"generation_prompt"`
	GenerationTimestamp string  `json:"generation_timestamp"`
	DisplayURL          string  `json:"imgbb_display_url"`
	Title               string  `json:"imgbb_title"`
	Width               flexInt `json:"imgbb_width"`
	Height              flexInt `json:"imgbb_height"`
	Size                flexInt `json:"imgbb_size"`
}

// flexInt accepts 123, "123", "" and null
type flexInt int64

func (f *flexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = 0
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*f = 0
			return nil
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("invalid numeric string %q", s)
		}
		return f.set(n)
	}

	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	return f.set(n)
}

func (f *flexInt) set(n float64) error {
	// 2^63 is the first float64 past MaxInt64
	if math.IsNaN(n) || n < math.MinInt64 || n >= math.MaxInt64 {
		return fmt.Errorf("numeric value %v out of range", n)
	}
	*f = flexInt(n)
	return nil
}

// Timestamp layouts the service is known to emit, most specific first
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses a generation timestamp. Values without a zone are UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}

func (d imageDTO) toRecord() (models.ImageRecord, error) {
	rec := models.ImageRecord{
		ID:         d.ID,
		DisplayURL: d.DisplayURL,
		Title:      d.Title,
		Width:      int(d.Width),
		Height:     int(d.Height),
		Size:       int64(d.Size),
	}
	if d.GenerationPrompt != nil {
		rec.Prompt = *d.GenerationPrompt
	}

	ts, err := ParseTimestamp(d.GenerationTimestamp)
	if err != nil {
		return rec, err
	}
	rec.CreatedAt = ts
	return rec, nil
}

// ParseImagesFromJSON decodes an image collection response body
func ParseImagesFromJSON(data []byte) ([]models.ImageRecord, error) {
	var dtos []imageDTO
	if err := json.Unmarshal(data, &dtos); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	records := make([]models.ImageRecord, 0, len(dtos))
	for _, d := range dtos {
		rec, err := d.toRecord()
		if err != nil {
			// keep the record, it just sorts as the oldest
			rec.CreatedAt = time.Time{}
		}
		records = append(records, rec)
	}
	return records, nil
}
