package ui

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thesavant42/fluxgallery/internal/api"
	"github.com/thesavant42/fluxgallery/internal/gallery"
	"github.com/thesavant42/fluxgallery/internal/models"
)

var testNow = time.Date(2024, 11, 2, 15, 0, 0, 0, time.UTC)

type memRepo struct {
	mu      sync.Mutex
	records []models.ImageRecord
	deletes []int64
}

func (r *memRepo) FetchAll(context.Context) ([]models.ImageRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.records), nil
}

func (r *memRepo) DeleteByID(_ context.Context, _ string, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(r.records)
	r.records = slices.DeleteFunc(r.records, func(rec models.ImageRecord) bool { return rec.ID == id })
	if len(r.records) == n {
		return fmt.Errorf("%w: image %d", api.ErrNotFound, id)
	}
	r.deletes = append(r.deletes, id)
	return nil
}

type testAccount struct {
	name  string
	token string
	admin bool
}

func (a *testAccount) DisplayName() string      { return a.name }
func (a *testAccount) CurrentToken() string     { return a.token }
func (a *testAccount) CurrentUserIsAdmin() bool { return a.admin }
func (a *testAccount) Logout()                  { a.token = "" }

func galleryRecords(n int) []models.ImageRecord {
	records := make([]models.ImageRecord, n)
	for i := range records {
		records[i] = models.ImageRecord{
			ID:         int64(i + 1),
			Prompt:     fmt.Sprintf("prompt %02d", i+1),
			CreatedAt:  testNow.Add(-time.Duration(n-i) * time.Hour),
			DisplayURL: fmt.Sprintf("https://i.example.com/%d.png", i+1),
			Width:      1024,
			Height:     768,
			Size:       2048,
		}
	}
	return records
}

func newTestModel(t *testing.T, repo *memRepo, account *testAccount) GalleryModel {
	t.Helper()
	var authCtx gallery.AuthContext
	var acct Account
	if account != nil {
		authCtx = account
		acct = account
	}
	vm := gallery.New(repo, authCtx, models.DefaultQueryState(), nil)
	t.Cleanup(vm.Close)

	m := NewGalleryModel(context.Background(), vm, acct, "example.com", nil)
	m.now = func() time.Time { return testNow }
	m = update(m, tea.WindowSizeMsg{Width: 120, Height: 40})
	return update(m, m.loadCmd()())
}

func update(m GalleryModel, msg tea.Msg) GalleryModel {
	next, _ := m.Update(msg)
	return next.(GalleryModel)
}

func press(m GalleryModel, keys ...string) GalleryModel {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m = update(m, msg)
	}
	return m
}

func TestGalleryLoads(t *testing.T) {
	m := newTestModel(t, &memRepo{records: galleryRecords(45)}, nil)

	assert.False(t, m.view.Loading)
	assert.Len(t, m.table.Rows(), 20)
	assert.Equal(t, "45", m.table.Rows()[0][0], "newest first")

	out := m.View()
	assert.Contains(t, out, "Flux Gallery · example.com")
	assert.Contains(t, out, "Not signed in")
	assert.Contains(t, out, "Showing 20 of 45 images")
	assert.Contains(t, out, "Next ›")
}

func TestGalleryPaging(t *testing.T) {
	m := newTestModel(t, &memRepo{records: galleryRecords(45)}, nil)

	m = press(m, "n")
	assert.Equal(t, 2, m.view.CurrentPage)

	m = press(m, "3")
	assert.Equal(t, 3, m.view.CurrentPage)
	assert.Len(t, m.table.Rows(), 5)

	m = press(m, "n")
	assert.Equal(t, 3, m.view.CurrentPage, "no page past the last")

	m = press(m, "g")
	assert.Equal(t, 1, m.view.CurrentPage)

	m = press(m, "G")
	assert.Equal(t, 3, m.view.CurrentPage)
}

func TestGallerySortCycles(t *testing.T) {
	m := newTestModel(t, &memRepo{records: galleryRecords(45)}, nil)
	m = press(m, "n")

	m = press(m, "s")
	assert.Equal(t, models.SortOldest, m.view.Query.SortKey)
	assert.Equal(t, 2, m.view.CurrentPage, "sort keeps the page")
	assert.Equal(t, "Sorted by Oldest First", m.status)

	m = press(m, "s", "s", "s")
	assert.Equal(t, models.SortNewest, m.view.Query.SortKey)
}

func TestGallerySearch(t *testing.T) {
	m := newTestModel(t, &memRepo{records: galleryRecords(45)}, nil)
	m = press(m, "n")

	m = press(m, "/")
	require.Equal(t, viewSearch, m.mode)

	for _, r := range "PROMPT 4" {
		m = press(m, string(r))
	}
	assert.Equal(t, "PROMPT 4", m.view.Query.SearchTerm)
	assert.Equal(t, 6, m.view.FilteredCount)
	assert.Equal(t, 1, m.view.CurrentPage)
	assert.Equal(t, viewSearch, m.mode, "typed letters stay in the search box")

	m = press(m, "enter")
	assert.Equal(t, viewGrid, m.mode)

	m = press(m, "esc")
	assert.Equal(t, "", m.view.Query.SearchTerm)
	assert.Equal(t, 45, m.view.FilteredCount)
}

func TestGalleryEmptyStates(t *testing.T) {
	m := newTestModel(t, &memRepo{}, nil)
	out := m.View()
	assert.Contains(t, out, "No images found")
	assert.Contains(t, out, "Start by generating some images.")

	m = newTestModel(t, &memRepo{records: galleryRecords(3)}, nil)
	m = press(m, "/", "z", "z", "enter")
	out = m.View()
	assert.Contains(t, out, "Try adjusting your search query.")
}

func TestGalleryCursorAfterEmptyResults(t *testing.T) {
	repo := &memRepo{}
	m := newTestModel(t, repo, nil)
	assert.Empty(t, m.table.Rows())

	// images arrive after an empty first load
	repo.mu.Lock()
	repo.records = galleryRecords(3)
	repo.mu.Unlock()
	m = update(m, m.refreshCmd()())
	require.Len(t, m.table.Rows(), 3)
	assert.Equal(t, 0, m.table.Cursor())

	m = press(m, "enter")
	require.Equal(t, viewDetail, m.mode)
	selected, _ := m.vm.Selected()
	assert.Equal(t, int64(3), selected.ID)
	m = press(m, "esc")

	// a search with no matches, then clearing it
	m = press(m, "/", "z", "z", "enter")
	require.Empty(t, m.table.Rows())
	m = press(m, "esc")
	require.Len(t, m.table.Rows(), 3)

	m = press(m, "down", "enter")
	require.Equal(t, viewDetail, m.mode)
	selected, _ = m.vm.Selected()
	assert.Equal(t, int64(2), selected.ID)
}

func TestGalleryDetailOverlay(t *testing.T) {
	m := newTestModel(t, &memRepo{records: galleryRecords(3)}, nil)

	m = press(m, "down", "enter")
	require.Equal(t, viewDetail, m.mode)
	selected, open := m.vm.Selected()
	require.True(t, open)
	assert.Equal(t, int64(2), selected.ID)

	out := m.View()
	assert.Contains(t, out, "Image 2")
	assert.Contains(t, out, "1024 × 768")
	assert.Contains(t, out, "https://i.example.com/2.png")

	m = press(m, "esc")
	assert.Equal(t, viewGrid, m.mode)
	_, open = m.vm.Selected()
	assert.False(t, open)
}

func TestGalleryDeleteFromDetail(t *testing.T) {
	repo := &memRepo{records: galleryRecords(3)}
	account := &testAccount{name: "ada", token: "tok", admin: true}
	m := newTestModel(t, repo, account)
	out := m.View()
	assert.Contains(t, out, "Welcome")
	assert.Contains(t, out, "ada")

	m = press(m, "enter", "d")
	require.Equal(t, viewConfirmDelete, m.mode)
	assert.Contains(t, m.View(), "Delete this image?")

	m = press(m, "y")
	assert.True(t, m.deleting)
	m = update(m, m.deleteCmd(3)())

	assert.False(t, m.deleting)
	assert.Equal(t, viewGrid, m.mode, "overlay closes once its image is gone")
	assert.Equal(t, []int64{3}, repo.deletes)
	assert.Len(t, m.table.Rows(), 2)
	assert.Equal(t, "Image 3 deleted", m.status)
}

func TestGalleryDeleteCancelled(t *testing.T) {
	repo := &memRepo{records: galleryRecords(3)}
	m := newTestModel(t, repo, &testAccount{token: "tok", admin: true})

	m = press(m, "d")
	require.Equal(t, viewConfirmDelete, m.mode)
	m = press(m, "n")
	assert.Equal(t, viewGrid, m.mode)
	assert.Empty(t, repo.deletes)
}

func TestGalleryDeleteRequiresAdmin(t *testing.T) {
	tests := []struct {
		name    string
		account *testAccount
	}{
		{"signed out", nil},
		{"not admin", &testAccount{name: "bob", token: "tok"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &memRepo{records: galleryRecords(3)}
			m := newTestModel(t, repo, tt.account)

			m = press(m, "d")
			assert.Equal(t, viewGrid, m.mode)
			assert.True(t, m.statusErr)
			assert.Empty(t, repo.deletes)
			assert.NotContains(t, m.helpView(), "delete")
		})
	}
}

func TestGalleryDeleteNotFound(t *testing.T) {
	repo := &memRepo{records: galleryRecords(3)}
	m := newTestModel(t, repo, &testAccount{token: "tok", admin: true})

	// gone on the server but still on screen
	repo.mu.Lock()
	repo.records = repo.records[:2]
	repo.mu.Unlock()

	m = update(m, m.deleteCmd(3)())
	assert.Equal(t, "That image was already deleted", m.status)
	assert.True(t, m.statusErr)
	assert.Len(t, m.table.Rows(), 2)
}

func TestGalleryLogout(t *testing.T) {
	account := &testAccount{name: "ada", token: "tok", admin: true}
	m := newTestModel(t, &memRepo{records: galleryRecords(1)}, account)

	m = press(m, "L")
	assert.Equal(t, "", account.token)
	assert.False(t, m.vm.CanDelete())
	assert.Contains(t, m.View(), "Not signed in")
}

func TestGalleryStatusExpires(t *testing.T) {
	m := newTestModel(t, &memRepo{records: galleryRecords(2)}, nil)
	m = press(m, "s")
	require.NotEmpty(t, m.status)

	// an older tick must not clear a newer message
	m = update(m, statusClearMsg{seq: m.statusSeq - 1})
	assert.NotEmpty(t, m.status)

	m = update(m, statusClearMsg{seq: m.statusSeq})
	assert.Empty(t, m.status)
}

func TestGalleryQuit(t *testing.T) {
	m := newTestModel(t, &memRepo{records: galleryRecords(2)}, nil)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.True(t, strings.TrimSpace(next.View()) == "")
}
