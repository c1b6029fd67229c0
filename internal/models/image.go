package models

import (
	"fmt"
	"strings"
	"time"
)

// DefaultPageSize is the number of images shown per gallery page
const DefaultPageSize = 20

// ImageRecord represents a generated image as served by the image API
type ImageRecord struct {
	ID         int64
	Prompt     string    // may be empty
	CreatedAt  time.Time // generation time, zero if the service sent garbage
	DisplayURL string
	Title      string
	Width      int
	Height     int
	Size       int64 // bytes
}

// Dimensions returns "W × H" for display
func (r ImageRecord) Dimensions() string {
	return fmt.Sprintf("%d × %d", r.Width, r.Height)
}

// SortKey selects the ordering of the gallery
type SortKey string

const (
	SortNewest     SortKey = "newest"
	SortOldest     SortKey = "oldest"
	SortPromptAsc  SortKey = "prompt-asc"
	SortPromptDesc SortKey = "prompt-desc"
)

// SortKeys lists every sort key in the order they are offered to the user
var SortKeys = []SortKey{SortNewest, SortOldest, SortPromptAsc, SortPromptDesc}

// ParseSortKey validates a user supplied sort key
func ParseSortKey(s string) (SortKey, error) {
	key := SortKey(strings.ToLower(strings.TrimSpace(s)))
	for _, k := range SortKeys {
		if k == key {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown sort key %q (want newest, oldest, prompt-asc or prompt-desc)", s)
}

// Label returns the human readable option label
func (k SortKey) Label() string {
	switch k {
	case SortNewest:
		return "Newest First"
	case SortOldest:
		return "Oldest First"
	case SortPromptAsc:
		return "Prompt (A-Z)"
	case SortPromptDesc:
		return "Prompt (Z-A)"
	default:
		return string(k)
	}
}

// Next cycles to the following sort key, wrapping around
func (k SortKey) Next() SortKey {
	for i, s := range SortKeys {
		if s == k {
			return SortKeys[(i+1)%len(SortKeys)]
		}
	}
	return SortNewest
}

// QueryState holds the user controlled inputs of the gallery pipeline
type QueryState struct {
	SearchTerm string
	SortKey    SortKey
	PageNumber int // 1-based
	PageSize   int
}

// DefaultQueryState returns the state a fresh gallery starts with
func DefaultQueryState() QueryState {
	return QueryState{
		SortKey:    SortNewest,
		PageNumber: 1,
		PageSize:   DefaultPageSize,
	}
}

// Page is one window of the filtered, sorted record set
type Page struct {
	Items         []ImageRecord
	PageNumber    int // clamped
	TotalPages    int // always >= 1
	FilteredCount int
}
