package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/thesavant42/fluxgallery/internal/api"
	"github.com/thesavant42/fluxgallery/internal/gallery"
	"github.com/thesavant42/fluxgallery/internal/models"
)

// Account is the signed-in user as the gallery screen sees it
type Account interface {
	DisplayName() string
	CurrentToken() string
	Logout()
}

type viewMode int

const (
	viewGrid viewMode = iota
	viewSearch
	viewDetail
	viewConfirmDelete
)

// Message types for async operations

type imagesLoadedMsg struct {
	err error
}

type deleteDoneMsg struct {
	id  int64
	err error
}

type statusClearMsg struct {
	seq int
}

const statusTTL = 4 * time.Second

// GalleryModel is the interactive gallery screen
type GalleryModel struct {
	ctx     context.Context
	vm      *gallery.ViewModel
	account Account
	logger  *log.Logger
	service string

	layout  Layout
	mode    viewMode
	keys    galleryKeys
	table   table.Model
	search  textinput.Model
	spinner spinner.Model
	detail  viewport.Model
	help    help.Model

	view          gallery.View
	confirmReturn viewMode
	pendingDelete models.ImageRecord
	deleting      bool

	status    string
	statusErr bool
	statusSeq int

	now      func() time.Time
	quitting bool
}

// NewGalleryModel creates the gallery screen. account and logger may be nil.
func NewGalleryModel(ctx context.Context, vm *gallery.ViewModel, account Account, service string, logger *log.Logger) GalleryModel {
	layout := DefaultLayout()

	t := table.New(
		table.WithColumns(GalleryColumns(layout)),
		table.WithFocused(true),
		table.WithHeight(layout.TableHeight),
	)
	ApplyTableStyles(&t)

	search := textinput.New()
	search.Placeholder = "Search prompts..."
	search.Prompt = "/ "
	search.CharLimit = 200
	search.Width = layout.InnerWidth - 12

	h := help.New()
	h.Width = layout.InnerWidth

	m := GalleryModel{
		ctx:     ctx,
		vm:      vm,
		account: account,
		logger:  logger,
		service: service,
		layout:  layout,
		keys:    newGalleryKeys(),
		table:   t,
		search:  search,
		spinner: NewAppSpinner(),
		detail:  viewport.New(layout.InnerWidth-8, layout.ViewportHeight-16),
		help:    h,
		now:     time.Now,
	}
	m.syncView()
	return m
}

func (m GalleryModel) Init() tea.Cmd {
	return tea.Batch(
		tea.WindowSize(),
		m.spinner.Tick,
		m.loadCmd(),
	)
}

func (m GalleryModel) loadCmd() tea.Cmd {
	ctx, vm := m.ctx, m.vm
	return func() tea.Msg {
		return imagesLoadedMsg{err: vm.Load(ctx)}
	}
}

func (m GalleryModel) refreshCmd() tea.Cmd {
	ctx, vm := m.ctx, m.vm
	return func() tea.Msg {
		return imagesLoadedMsg{err: vm.Refresh(ctx)}
	}
}

func (m GalleryModel) deleteCmd(id int64) tea.Cmd {
	ctx, vm := m.ctx, m.vm
	return func() tea.Msg {
		return deleteDoneMsg{id: id, err: vm.DeleteImage(ctx, id)}
	}
}

func (m GalleryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case imagesLoadedMsg:
		m.syncView()
		if msg.err != nil && !errors.Is(msg.err, gallery.ErrClosed) && !errors.Is(msg.err, context.Canceled) {
			return m, m.setStatus(friendlyError(msg.err), true)
		}
		return m, nil

	case deleteDoneMsg:
		return m.handleDeleteDone(msg)

	case statusClearMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
			m.statusErr = false
		}
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case viewSearch:
			return m.updateSearch(msg)
		case viewDetail:
			return m.updateDetail(msg)
		case viewConfirmDelete:
			return m.updateConfirm(msg)
		default:
			return m.updateGrid(msg)
		}
	}

	return m, nil
}

func (m GalleryModel) updateGrid(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Search):
		m.mode = viewSearch
		m.table.Blur()
		return m, m.search.Focus()

	case key.Matches(msg, m.keys.Back):
		if m.search.Value() != "" {
			m.search.SetValue("")
			m.vm.SetSearchTerm("")
			m.syncView()
			m.table.GotoTop()
		}
		return m, nil

	case key.Matches(msg, m.keys.Sort):
		next := m.view.Query.SortKey.Next()
		if err := m.vm.SetSortKey(next); err != nil {
			return m, m.setStatus(err.Error(), true)
		}
		m.syncView()
		return m, m.setStatus("Sorted by "+next.Label(), false)

	case key.Matches(msg, m.keys.NextPage):
		m.vm.NextPage()
		m.syncView()
		m.table.GotoTop()
		return m, nil

	case key.Matches(msg, m.keys.PrevPage):
		m.vm.PrevPage()
		m.syncView()
		m.table.GotoTop()
		return m, nil

	case key.Matches(msg, m.keys.First):
		m.vm.SetPage(1)
		m.syncView()
		m.table.GotoTop()
		return m, nil

	case key.Matches(msg, m.keys.Last):
		m.vm.SetPage(m.view.TotalPages)
		m.syncView()
		m.table.GotoTop()
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		m.syncView()
		return m, m.refreshCmd()

	case key.Matches(msg, m.keys.Open):
		record, ok := m.cursorRecord()
		if !ok {
			return m, nil
		}
		m.vm.Select(record)
		m.openDetail(record)
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		record, ok := m.cursorRecord()
		if !ok {
			return m, nil
		}
		return m.askDelete(record, viewGrid)

	case key.Matches(msg, m.keys.Logout):
		if m.account == nil || m.account.CurrentToken() == "" {
			return m, nil
		}
		m.account.Logout()
		if m.logger != nil {
			m.logger.Info("Signed out")
		}
		return m, m.setStatus("Signed out", false)
	}

	// page buttons
	if s := msg.String(); len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
		m.vm.SetPage(int(s[0] - '0'))
		m.syncView()
		m.table.GotoTop()
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m GalleryModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.mode = viewGrid
		m.search.Blur()
		m.table.Focus()
		return m, nil
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "ctrl+u":
		m.search.SetValue("")
	default:
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		m.applySearch()
		return m, cmd
	}
	m.applySearch()
	return m, nil
}

func (m *GalleryModel) applySearch() {
	term := m.search.Value()
	if term == m.view.Query.SearchTerm {
		return
	}
	m.vm.SetSearchTerm(term)
	m.syncView()
	m.table.GotoTop()
}

func (m GalleryModel) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	record, open := m.vm.Selected()
	if !open {
		m.mode = viewGrid
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Open), msg.String() == "q":
		m.vm.Dismiss()
		m.mode = viewGrid
		m.table.Focus()
		return m, nil

	case msg.String() == "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.OpenURL):
		if err := openURL(record.DisplayURL); err != nil {
			return m, m.setStatus(err.Error(), true)
		}
		return m, m.setStatus("Opened in browser", false)

	case key.Matches(msg, m.keys.CopyURL):
		if err := copyURL(record.DisplayURL); err != nil {
			return m, m.setStatus(err.Error(), true)
		}
		return m, m.setStatus("URL copied", false)

	case key.Matches(msg, m.keys.Delete):
		return m.askDelete(record, viewDetail)
	}

	var cmd tea.Cmd
	m.detail, cmd = m.detail.Update(msg)
	return m, cmd
}

func (m GalleryModel) askDelete(record models.ImageRecord, from viewMode) (tea.Model, tea.Cmd) {
	if !m.vm.CanDelete() {
		return m, m.setStatus("Only signed-in admins can delete images", true)
	}
	if m.deleting {
		return m, nil
	}
	m.pendingDelete = record
	m.confirmReturn = from
	m.mode = viewConfirmDelete
	return m, nil
}

func (m GalleryModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		m.mode = m.confirmReturn
		m.deleting = true
		id := m.pendingDelete.ID
		return m, tea.Batch(m.deleteCmd(id), m.setStatus(fmt.Sprintf("Deleting image %d...", id), false))

	case key.Matches(msg, m.keys.Cancel):
		m.mode = m.confirmReturn
		m.pendingDelete = models.ImageRecord{}
		return m, nil

	case msg.String() == "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m GalleryModel) handleDeleteDone(msg deleteDoneMsg) (tea.Model, tea.Cmd) {
	m.deleting = false
	m.pendingDelete = models.ImageRecord{}
	m.syncView()

	if _, open := m.vm.Selected(); !open && m.mode == viewDetail {
		m.mode = viewGrid
		m.table.Focus()
	}

	switch {
	case msg.err == nil:
		return m, m.setStatus(fmt.Sprintf("Image %d deleted", msg.id), false)
	case errors.Is(msg.err, gallery.ErrClosed):
		return m, nil
	default:
		if m.logger != nil {
			m.logger.Warn("Delete failed", "id", msg.id, "error", msg.err)
		}
		return m, m.setStatus(friendlyError(msg.err), true)
	}
}

// friendlyError maps the error taxonomy to a status line
func friendlyError(err error) string {
	switch {
	case errors.Is(err, api.ErrUnauthorized):
		return "Not authorized: sign in as an admin to delete images"
	case errors.Is(err, api.ErrNotFound):
		return "That image was already deleted"
	case errors.Is(err, api.ErrFetch):
		return "Couldn't load images: " + err.Error()
	case errors.Is(err, api.ErrNetwork):
		return "Delete failed: " + err.Error()
	default:
		return err.Error()
	}
}

func (m *GalleryModel) setStatus(msg string, isErr bool) tea.Cmd {
	m.statusSeq++
	m.status = msg
	m.statusErr = isErr
	seq := m.statusSeq
	return tea.Tick(statusTTL, func(time.Time) tea.Msg {
		return statusClearMsg{seq: seq}
	})
}

// syncView pulls a fresh snapshot from the view-model into the table
func (m *GalleryModel) syncView() {
	m.view = m.vm.View()
	rows := ImageRows(m.view.PageItems, m.now())
	m.table.SetRows(rows)
	// an empty table leaves the cursor at -1
	switch c := m.table.Cursor(); {
	case len(rows) == 0:
	case c < 0:
		m.table.SetCursor(0)
	case c >= len(rows):
		m.table.SetCursor(len(rows) - 1)
	}
}

func (m GalleryModel) cursorRecord() (models.ImageRecord, bool) {
	c := m.table.Cursor()
	if c < 0 || c >= len(m.view.PageItems) {
		return models.ImageRecord{}, false
	}
	return m.view.PageItems[c], true
}

func (m *GalleryModel) resize(width, height int) {
	m.layout = NewLayout(width, height)
	m.table.SetColumns(GalleryColumns(m.layout))
	m.table.SetHeight(m.layout.TableHeight)
	m.table.SetWidth(m.layout.TableWidth)
	m.search.Width = m.layout.InnerWidth - 12
	m.help.Width = m.layout.InnerWidth
	m.detail.Width = m.layout.InnerWidth - 8
	m.detail.Height = max(m.layout.ViewportHeight-16, 4)
	if record, open := m.vm.Selected(); open {
		m.detail.SetContent(m.detailContent(record))
	}
}

func (m *GalleryModel) openDetail(record models.ImageRecord) {
	m.mode = viewDetail
	m.table.Blur()
	m.detail.SetContent(m.detailContent(record))
	m.detail.GotoTop()
}

func (m GalleryModel) detailContent(r models.ImageRecord) string {
	width := m.detail.Width
	var b strings.Builder

	b.WriteString(AccentStyle.Render("Prompt"))
	b.WriteString("\n")
	prompt := r.Prompt
	if prompt == "" {
		prompt = "(no prompt)"
	}
	b.WriteString(lipgloss.NewStyle().Width(width).Render(prompt))
	b.WriteString("\n\n")

	field := func(label, value string) {
		b.WriteString(DimStyle.Render(fmt.Sprintf("%-12s", label)))
		b.WriteString(RenderNormal(value))
		b.WriteString("\n")
	}
	field("Generated", FormatTimestamp(r.CreatedAt))
	field("Dimensions", DimensionsCell(r))
	field("Size", SizeCell(r.Size))
	if r.Title != "" {
		field("Title", r.Title)
	}
	field("ID", fmt.Sprintf("%d", r.ID))
	b.WriteString("\n")
	b.WriteString(DimStyle.Render("URL"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Width(width).Foreground(ColorAccentDim).Render(r.DisplayURL))
	return b.String()
}

func (m GalleryModel) View() string {
	if m.quitting {
		return ""
	}

	var content strings.Builder
	content.WriteString(ViewHeader(m.headerTitle(), m.greeting(), m.layout.InnerWidth))
	content.WriteString(m.controlsLine())
	content.WriteString("\n")
	content.WriteString(FullWidthDivider(m.layout.InnerWidth))
	content.WriteString("\n")

	switch m.mode {
	case viewDetail:
		content.WriteString(m.renderDetail())
	case viewConfirmDelete:
		content.WriteString(m.renderConfirm())
	default:
		content.WriteString(m.renderBody())
	}

	content.WriteString("\n")
	if m.status != "" {
		if m.statusErr {
			content.WriteString(" " + ErrorStyle.Render(m.status))
		} else {
			content.WriteString(" " + StatusMsgStyle.Render(m.status))
		}
	}

	return BuildTwoBoxView(content.String(), m.helpView(), m.layout)
}

func (m GalleryModel) headerTitle() string {
	if m.service == "" {
		return "Flux Gallery"
	}
	return "Flux Gallery · " + m.service
}

func (m GalleryModel) greeting() string {
	if m.account == nil || m.account.CurrentToken() == "" {
		return RenderDim("Not signed in")
	}
	name := m.account.DisplayName()
	if name == "" {
		return RenderNormal("Signed in")
	}
	return RenderNormal("Welcome, ") + RenderAccent(name)
}

func (m GalleryModel) controlsLine() string {
	var b strings.Builder
	b.WriteString(" ")
	b.WriteString(m.search.View())
	b.WriteString("\n ")
	b.WriteString(DimStyle.Render("Sort: "))
	b.WriteString(RenderNormal(m.view.Query.SortKey.Label()))
	b.WriteString(DimStyle.Render("   "))
	b.WriteString(DimStyle.Render(ResultSummary(len(m.view.PageItems), m.view.FilteredCount, m.view.TotalCount, m.view.Query.SearchTerm)))
	if m.view.Refreshing || m.deleting {
		b.WriteString("  ")
		b.WriteString(m.spinner.View())
		if m.deleting {
			b.WriteString(ProgressStyle.Render(" deleting"))
		} else {
			b.WriteString(ProgressStyle.Render(" refreshing"))
		}
	}
	return b.String()
}

func (m GalleryModel) renderBody() string {
	v := m.view
	switch {
	case v.Loading:
		return "\n" + CenterText(m.spinner.View()+" "+RenderNormal("Loading images..."), m.layout.InnerWidth) + "\n"

	case v.Err != nil && v.TotalCount == 0:
		return "\n" + CenterText(RenderError(friendlyError(v.Err)), m.layout.InnerWidth) + "\n\n" +
			CenterText(RenderDim("Press r to try again."), m.layout.InnerWidth) + "\n"

	case v.FilteredCount == 0:
		title, hint := EmptyState(v.Query.SearchTerm)
		return "\n" + CenterText(RenderTitle(title), m.layout.InnerWidth) + "\n\n" +
			CenterText(RenderDim(hint), m.layout.InnerWidth) + "\n"
	}

	var b strings.Builder
	b.WriteString(RenderTableWithSelection(m.table, m.layout, m.mode == viewGrid))
	b.WriteString("\n")
	if bar := RenderPagination(v.Controls); bar != "" {
		b.WriteString("\n")
		b.WriteString(CenterText(bar, m.layout.InnerWidth))
		b.WriteString("\n")
	}
	return b.String()
}

func (m GalleryModel) renderDetail() string {
	record, open := m.vm.Selected()
	if !open {
		return m.renderBody()
	}
	title := AccentStyle.Render(fmt.Sprintf("Image %d", record.ID))
	box := OverlayStyle.
		Width(m.layout.InnerWidth - 4).
		Render(title + "\n\n" + m.detail.View())
	return box
}

func (m GalleryModel) renderConfirm() string {
	r := m.pendingDelete
	prompt := PromptCell(r.Prompt)
	if StringWidth(prompt) > 50 {
		prompt = truncateToWidth(prompt, 50)
	}
	body := ErrorStyle.Render("Delete this image?") + "\n\n" +
		RenderNormal(fmt.Sprintf("#%d  %s", r.ID, prompt)) + "\n\n" +
		RenderDim("This cannot be undone.") + "\n\n" +
		RenderAccent("y") + RenderNormal(" delete   ") + RenderAccent("n") + RenderNormal(" cancel")
	return PlaceOverlay(OverlayStyle.Render(body), m.layout)
}

func (m GalleryModel) helpView() string {
	canDelete := m.vm.CanDelete()
	switch m.mode {
	case viewSearch:
		return m.help.ShortHelpView(m.keys.searchHelp())
	case viewDetail:
		return m.help.ShortHelpView(m.keys.detailHelp(canDelete))
	case viewConfirmDelete:
		return m.help.ShortHelpView(m.keys.confirmHelp())
	}

	signedIn := m.account != nil && m.account.CurrentToken() != ""
	if m.help.ShowAll {
		return m.help.FullHelpView(m.keys.gridFullHelp(canDelete, signedIn))
	}
	return m.help.ShortHelpView(m.keys.gridHelp(canDelete, signedIn))
}

// RunGallery runs the interactive gallery until the user quits
func RunGallery(ctx context.Context, vm *gallery.ViewModel, account Account, service string, logger *log.Logger) error {
	model := NewGalleryModel(ctx, vm, account, service, logger)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("gallery UI error: %w", err)
	}
	return nil
}
