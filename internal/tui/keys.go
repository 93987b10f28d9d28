package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	NextTab  key.Binding
	PrevTab  key.Binding
	NextPage key.Binding
	PrevPage key.Binding
	Search   key.Binding
	Date     key.Binding
	Clear    key.Binding
	View     key.Binding
	Delete   key.Binding
	New      key.Binding
	Refresh  key.Binding
	Sort     key.Binding
	Dismiss  key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		NextTab:  key.NewBinding(key.WithKeys("tab", "l"), key.WithHelp("tab", "next tab")),
		PrevTab:  key.NewBinding(key.WithKeys("shift+tab", "h"), key.WithHelp("shift+tab", "prev tab")),
		NextPage: key.NewBinding(key.WithKeys("pgdown", "right", "]"), key.WithHelp("→/]", "next page")),
		PrevPage: key.NewBinding(key.WithKeys("pgup", "left", "["), key.WithHelp("←/[", "prev page")),
		Search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Date:     key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "date filter")),
		Clear:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear filters")),
		View:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "view")),
		Delete:   key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
		New:      key.NewBinding(key.WithKeys("n", "a"), key.WithHelp("n", "new survey")),
		Refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Sort:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort")),
		Dismiss:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "dismiss toast")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.New, k.View, k.Delete, k.Search, k.NextTab, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextPage, k.PrevPage},
		{k.NextTab, k.PrevTab, k.Search, k.Date, k.Clear},
		{k.New, k.View, k.Delete, k.Refresh, k.Sort},
		{k.Dismiss, k.Help, k.Quit},
	}
}
