package gallery

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/thesavant42/fluxgallery/internal/api"
	"github.com/thesavant42/fluxgallery/internal/models"
	"github.com/thesavant42/fluxgallery/internal/query"
)

// ErrClosed is returned by operations on a view-model after Close
var ErrClosed = errors.New("gallery closed")

// ErrRefreshAfterDelete means the delete succeeded but the follow-up
// refetch did not
var ErrRefreshAfterDelete = errors.New("deleted but refresh failed")

// Repository is the remote image collection
type Repository interface {
	FetchAll(ctx context.Context) ([]models.ImageRecord, error)
	DeleteByID(ctx context.Context, token string, id int64) error
}

// AuthContext supplies the current user's credential
type AuthContext interface {
	CurrentToken() string
	CurrentUserIsAdmin() bool
}

// View is a snapshot of everything the renderer needs
type View struct {
	PageItems     []models.ImageRecord
	TotalPages    int
	CurrentPage   int
	FilteredCount int
	TotalCount    int
	Query         models.QueryState
	Loading       bool // first fetch has not settled
	Refreshing    bool // a later fetch is in flight
	Err           error
	Controls      query.Controls
}

// ViewModel owns the fetched image set and derives the visible page from it.
//
// All methods are safe for concurrent use. Repository calls run without the
// lock held; their results are applied under it and the view recomputed.
type ViewModel struct {
	repo   Repository
	auth   AuthContext
	logger *log.Logger

	// cancelled by Close so in-flight calls unwind
	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	raw       []models.ImageRecord
	state     models.QueryState
	selection Selection
	view      View
	loading   bool
	err       error
	closed    bool

	// refresh bookkeeping: at most one fetch runs at a time
	fetching  bool
	requested uint64
	settled   uint64
	lastErr   error
	wake      chan struct{}
}

// New creates a view-model. auth and logger may be nil; a nil auth behaves
// as a signed-out user. Zero fields of state fall back to the defaults.
func New(repo Repository, auth AuthContext, state models.QueryState, logger *log.Logger) *ViewModel {
	defaults := models.DefaultQueryState()
	if state.SortKey == "" {
		state.SortKey = defaults.SortKey
	}
	if state.PageSize <= 0 {
		state.PageSize = defaults.PageSize
	}
	if state.PageNumber < 1 {
		state.PageNumber = 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	vm := &ViewModel{
		repo:   repo,
		auth:   auth,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
		state:  state,
		wake:   make(chan struct{}),
	}
	vm.derive()
	return vm
}

// Load performs the initial fetch. The view reports Loading until it settles.
func (vm *ViewModel) Load(ctx context.Context) error {
	vm.mu.Lock()
	if vm.closed {
		vm.mu.Unlock()
		return ErrClosed
	}
	vm.loading = true
	vm.derive()
	vm.mu.Unlock()

	return vm.Refresh(ctx)
}

// Refresh refetches the whole collection. On failure the previous data is
// kept and the error is exposed through View().Err.
//
// Calls made while a fetch is in flight do not start a second one. The
// running fetch's result is thrown away and one more fetch is issued, which
// then settles every waiting caller. A result therefore never reflects the
// server as it was before the latest call.
func (vm *ViewModel) Refresh(ctx context.Context) error {
	vm.mu.Lock()
	if vm.closed {
		vm.mu.Unlock()
		return ErrClosed
	}
	return vm.refreshLocked(ctx)
}

// refreshLocked issues a refresh request. Caller holds mu; it is released
// on return.
func (vm *ViewModel) refreshLocked(ctx context.Context) error {
	vm.requested++
	ticket := vm.requested

	if vm.fetching {
		if vm.logger != nil {
			vm.logger.Debug("Refresh queued behind in-flight fetch", "ticket", ticket)
		}
		return vm.waitLocked(ctx, ticket)
	}

	vm.fetching = true
	vm.derive()
	vm.mu.Unlock()

	return vm.runFetches(ctx)
}

// runFetches fetches until a result arrives that no newer request has
// superseded, then applies it
func (vm *ViewModel) runFetches(ctx context.Context) error {
	ctx, cancel := vm.bound(ctx)
	defer cancel()

	for {
		vm.mu.Lock()
		gen := vm.requested
		vm.mu.Unlock()

		records, err := vm.repo.FetchAll(ctx)

		vm.mu.Lock()
		if vm.closed {
			vm.fetching = false
			vm.broadcast()
			vm.mu.Unlock()
			return ErrClosed
		}
		if vm.requested != gen {
			if vm.logger != nil {
				vm.logger.Debug("Discarding superseded fetch", "generation", gen, "latest", vm.requested)
			}
			vm.mu.Unlock()
			continue
		}

		vm.apply(records, err)
		vm.fetching = false
		vm.settled = gen
		vm.lastErr = err
		vm.derive()
		vm.broadcast()
		vm.mu.Unlock()
		return err
	}
}

// apply stores a settled fetch result. Caller holds mu.
func (vm *ViewModel) apply(records []models.ImageRecord, err error) {
	vm.loading = false
	if err != nil {
		vm.err = err
		if vm.logger != nil {
			vm.logger.Warn("Refresh failed, keeping previous images", "count", len(vm.raw), "error", err)
		}
		return
	}
	vm.raw = records
	vm.err = nil
	if vm.logger != nil {
		vm.logger.Debug("Images refreshed", "count", len(records))
	}
}

// waitLocked blocks until a fetch covering ticket has settled.
// Caller holds mu; it is released on return.
func (vm *ViewModel) waitLocked(ctx context.Context, ticket uint64) error {
	for {
		if vm.closed {
			vm.mu.Unlock()
			return ErrClosed
		}
		if vm.settled >= ticket {
			err := vm.lastErr
			vm.mu.Unlock()
			return err
		}
		wake := vm.wake
		vm.mu.Unlock()

		select {
		case <-wake:
		case <-ctx.Done():
			return ctx.Err()
		}
		vm.mu.Lock()
	}
}

// broadcast wakes every waiter. Caller holds mu.
func (vm *ViewModel) broadcast() {
	close(vm.wake)
	vm.wake = make(chan struct{})
}

// bound derives a context that is also cancelled by Close
func (vm *ViewModel) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(vm.ctx, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

// SetSearchTerm changes the filter. A changed term returns to page 1.
func (vm *ViewModel) SetSearchTerm(term string) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if vm.closed {
		return
	}
	if term != vm.state.SearchTerm {
		vm.state.SearchTerm = term
		vm.state.PageNumber = 1
	}
	vm.derive()
}

// SetSortKey changes the ordering and keeps the current page number
func (vm *ViewModel) SetSortKey(key models.SortKey) error {
	parsed, err := models.ParseSortKey(string(key))
	if err != nil {
		return err
	}

	vm.mu.Lock()
	defer vm.mu.Unlock()
	if vm.closed {
		return ErrClosed
	}
	vm.state.SortKey = parsed
	vm.derive()
	return nil
}

// SetPage moves to page n, clamped into range
func (vm *ViewModel) SetPage(n int) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if vm.closed {
		return
	}
	vm.state.PageNumber = n
	vm.derive()
}

// NextPage advances one page if there is one
func (vm *ViewModel) NextPage() {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if vm.closed {
		return
	}
	vm.state.PageNumber++
	vm.derive()
}

// PrevPage goes back one page if there is one
func (vm *ViewModel) PrevPage() {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if vm.closed {
		return
	}
	vm.state.PageNumber--
	vm.derive()
}

// Select opens the detail overlay on record
func (vm *ViewModel) Select(record models.ImageRecord) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.selection.Select(record)
}

// Dismiss closes the detail overlay
func (vm *ViewModel) Dismiss() {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.selection.Dismiss()
}

// Selected returns the record in the detail overlay, if any
func (vm *ViewModel) Selected() (models.ImageRecord, bool) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.selection.Current()
}

// CanDelete reports whether the delete action should be offered
func (vm *ViewModel) CanDelete() bool {
	if vm.auth == nil {
		return false
	}
	return vm.auth.CurrentToken() != "" && vm.auth.CurrentUserIsAdmin()
}

func (vm *ViewModel) token() string {
	if vm.auth == nil {
		return ""
	}
	return vm.auth.CurrentToken()
}

// DeleteImage deletes image id on the server and refetches the collection.
// The caller is expected to have confirmed with the user.
//
// Without a token it fails with api.ErrUnauthorized and makes no request.
// If the image is already gone the overlay is closed and the data refreshed
// before api.ErrNotFound is returned. Any other failure leaves all state as
// it was.
func (vm *ViewModel) DeleteImage(ctx context.Context, id int64) error {
	vm.mu.Lock()
	if vm.closed {
		vm.mu.Unlock()
		return ErrClosed
	}
	vm.mu.Unlock()

	token := vm.token()
	if token == "" {
		return fmt.Errorf("%w: sign in to delete images", api.ErrUnauthorized)
	}

	dctx, cancel := vm.bound(ctx)
	err := vm.repo.DeleteByID(dctx, token, id)
	cancel()

	vm.mu.Lock()
	if vm.closed {
		vm.mu.Unlock()
		return ErrClosed
	}

	switch {
	case err == nil:
		vm.selection.OnDeleted(id)
		if vm.logger != nil {
			vm.logger.Info("Image deleted", "id", id)
		}
		// issued before mu is released, so a fetch already in flight
		// with the deleted image is discarded
		if rerr := vm.refreshLocked(ctx); rerr != nil {
			return fmt.Errorf("%w: image %d: %w", ErrRefreshAfterDelete, id, rerr)
		}
		return nil

	case errors.Is(err, api.ErrNotFound):
		vm.selection.OnDeleted(id)
		if vm.logger != nil {
			vm.logger.Warn("Image already gone, refreshing", "id", id)
		}
		if rerr := vm.refreshLocked(ctx); rerr != nil && vm.logger != nil {
			vm.logger.Warn("Refresh after missing image failed", "error", rerr)
		}
		return err

	default:
		vm.mu.Unlock()
		if vm.logger != nil {
			vm.logger.Error("Delete failed", "id", id, "error", err)
		}
		return err
	}
}

// View returns the current derived snapshot
func (vm *ViewModel) View() View {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	v := vm.view
	v.PageItems = slices.Clone(v.PageItems)
	v.Controls.Pages = slices.Clone(v.Controls.Pages)
	return v
}

// Matching returns every record that passes the current filter, in the
// current sort order, across all pages
func (vm *ViewModel) Matching() []models.ImageRecord {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return query.Sort(query.Filter(vm.raw, vm.state.SearchTerm), vm.state.SortKey)
}

// Close tears the view-model down. In-flight fetches and deletes are
// cancelled and their results dropped.
func (vm *ViewModel) Close() {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if vm.closed {
		return
	}
	vm.closed = true
	vm.cancel()
	vm.broadcast()
}

// derive recomputes the view from raw data and query state. Caller holds mu.
func (vm *ViewModel) derive() {
	page := query.Run(vm.raw, vm.state)
	vm.state.PageNumber = page.PageNumber

	vm.view = View{
		PageItems:     page.Items,
		TotalPages:    page.TotalPages,
		CurrentPage:   page.PageNumber,
		FilteredCount: page.FilteredCount,
		TotalCount:    len(vm.raw),
		Query:         vm.state,
		Loading:       vm.loading,
		Refreshing:    vm.fetching && !vm.loading,
		Err:           vm.err,
		Controls:      query.BuildControls(page.PageNumber, page.TotalPages),
	}
}
