package ui

import "github.com/charmbracelet/bubbles/key"

// galleryKeys are the bindings of the gallery screen
type galleryKeys struct {
	Up       key.Binding
	Down     key.Binding
	Open     key.Binding
	Search   key.Binding
	Sort     key.Binding
	NextPage key.Binding
	PrevPage key.Binding
	First    key.Binding
	Last     key.Binding
	Refresh  key.Binding
	Delete   key.Binding
	OpenURL  key.Binding
	CopyURL  key.Binding
	Logout   key.Binding
	Back     key.Binding
	Confirm  key.Binding
	Cancel   key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func newGalleryKeys() galleryKeys {
	return galleryKeys{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "details"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Sort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sort"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("right", "l", "n"),
			key.WithHelp("→/n", "next page"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("left", "h", "p"),
			key.WithHelp("←/p", "prev page"),
		),
		First: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("g", "first page"),
		),
		Last: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("G", "last page"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r", "ctrl+r"),
			key.WithHelp("r", "refresh"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d", "delete"),
			key.WithHelp("d", "delete"),
		),
		OpenURL: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open in browser"),
		),
		CopyURL: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy url"),
		),
		Logout: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "logout"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y", "Y"),
			key.WithHelp("y", "confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("n", "N", "esc"),
			key.WithHelp("n/esc", "cancel"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// gridHelp lists the bindings shown under the grid. Delete and logout only
// appear when they can do something.
func (k galleryKeys) gridHelp(canDelete, signedIn bool) []key.Binding {
	bindings := []key.Binding{k.Open, k.Search, k.Sort, k.PrevPage, k.NextPage, k.Refresh}
	if canDelete {
		bindings = append(bindings, k.Delete)
	}
	if signedIn {
		bindings = append(bindings, k.Logout)
	}
	return append(bindings, k.Help, k.Quit)
}

func (k galleryKeys) gridFullHelp(canDelete, signedIn bool) [][]key.Binding {
	nav := []key.Binding{k.Up, k.Down, k.Open, k.Back}
	pages := []key.Binding{k.PrevPage, k.NextPage, k.First, k.Last}
	actions := []key.Binding{k.Search, k.Sort, k.Refresh}
	if canDelete {
		actions = append(actions, k.Delete)
	}
	if signedIn {
		actions = append(actions, k.Logout)
	}
	return [][]key.Binding{nav, pages, actions, {k.Help, k.Quit}}
}

func (k galleryKeys) detailHelp(canDelete bool) []key.Binding {
	bindings := []key.Binding{k.Up, k.Down, k.OpenURL, k.CopyURL}
	if canDelete {
		bindings = append(bindings, k.Delete)
	}
	return append(bindings, k.Back)
}

func (k galleryKeys) confirmHelp() []key.Binding {
	return []key.Binding{k.Confirm, k.Cancel}
}

func (k galleryKeys) searchHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "done")),
		key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "done")),
		key.NewBinding(key.WithKeys("ctrl+u"), key.WithHelp("ctrl+u", "clear")),
	}
}
