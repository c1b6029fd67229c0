package gallery

import "github.com/thesavant42/fluxgallery/internal/models"

// Selection tracks the image open in the detail overlay.
// It is either closed or open on exactly one record. The zero value is closed.
//
// Selection is not safe for concurrent use; ViewModel guards its copy.
type Selection struct {
	open   bool
	record models.ImageRecord
}

// Select opens the overlay on record, replacing any previous selection
func (s *Selection) Select(record models.ImageRecord) {
	s.open = true
	s.record = record
}

// Dismiss closes the overlay
func (s *Selection) Dismiss() {
	s.open = false
	s.record = models.ImageRecord{}
}

// OnDeleted closes the overlay if it is open on id
func (s *Selection) OnDeleted(id int64) {
	if s.open && s.record.ID == id {
		s.Dismiss()
	}
}

// Current returns the selected record and whether the overlay is open
func (s *Selection) Current() (models.ImageRecord, bool) {
	return s.record, s.open
}

// IsOpen reports whether a record is selected
func (s *Selection) IsOpen() bool {
	return s.open
}
