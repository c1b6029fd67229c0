package gallery

import (
	"testing"

	"github.com/thesavant42/fluxgallery/internal/models"
)

func TestSelectionTransitions(t *testing.T) {
	a := models.ImageRecord{ID: 1, Prompt: "a"}
	b := models.ImageRecord{ID: 2, Prompt: "b"}

	tests := []struct {
		name     string
		steps    func(s *Selection)
		wantOpen bool
		wantID   int64
	}{
		{"zero value is closed", func(s *Selection) {}, false, 0},
		{"select opens", func(s *Selection) { s.Select(a) }, true, 1},
		{"select replaces", func(s *Selection) { s.Select(a); s.Select(b) }, true, 2},
		{"dismiss closes", func(s *Selection) { s.Select(a); s.Dismiss() }, false, 0},
		{"dismiss when closed", func(s *Selection) { s.Dismiss() }, false, 0},
		{"delete of selected closes", func(s *Selection) { s.Select(a); s.OnDeleted(1) }, false, 0},
		{"delete of other keeps open", func(s *Selection) { s.Select(a); s.OnDeleted(2) }, true, 1},
		{"delete when closed", func(s *Selection) { s.OnDeleted(1) }, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s Selection
			tt.steps(&s)

			got, open := s.Current()
			if open != tt.wantOpen {
				t.Errorf("open = %v, want %v", open, tt.wantOpen)
			}
			if s.IsOpen() != open {
				t.Errorf("IsOpen() disagrees with Current()")
			}
			if got.ID != tt.wantID {
				t.Errorf("record ID = %d, want %d", got.ID, tt.wantID)
			}
		})
	}
}
