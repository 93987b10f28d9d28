package tui

import (
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/jask/surveyboard/internal/config"
	"github.com/jask/surveyboard/internal/filter"
	"github.com/jask/surveyboard/internal/loading"
	"github.com/jask/surveyboard/internal/modal"
	"github.com/jask/surveyboard/internal/notify"
	"github.com/jask/surveyboard/internal/service"
	"github.com/jask/surveyboard/internal/survey"
)

// Dialog IDs.
const (
	createDialog = "create"
	viewDialog   = "view"
)

// Focus targets on the list screen.
const (
	focusList   modal.FocusID = "list"
	focusSearch modal.FocusID = "search"
	focusDate   modal.FocusID = "date"
)

const tickInterval = 350 * time.Millisecond

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// loadingChangedMsg is sent whenever the loading slot starts or clears, so
// the overlay appears and goes away without waiting for the next tick.
type loadingChangedMsg struct{}

func waitLoading(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-ch
		return loadingChangedMsg{}
	}
}

// Deps are the collaborators the list screen is built from.
type Deps struct {
	Config       config.Config
	Orchestrator *service.Orchestrator
	Loading      *loading.Coordinator
	Toasts       *notify.Toasts
	Log          *zap.Logger
	Now          func() time.Time
}

// App is the survey list screen.
type App struct {
	cfg     config.Config
	log     *zap.Logger
	orch    *service.Orchestrator
	loading *loading.Coordinator
	toasts  *notify.Toasts
	now     func() time.Time
	loc     *time.Location

	screen   *modal.Screen
	keys     keyMap
	help     help.Model
	spinner  spinner.Model
	spinKind loading.Kind
	pager    paginator.Model
	search   textinput.Model
	date     textinput.Model

	filter filter.State
	sort   filter.SortKey
	result filter.Result
	cursor int

	create *modal.Dialog
	form   createForm

	view          *modal.Dialog
	viewing       survey.Record
	confirmOnOpen bool

	loadingCh  chan struct{}
	submitting bool

	frame         int
	width, height int
}

func New(d Deps) *App {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Loading == nil {
		d.Loading = d.Orchestrator.Loading
	}
	if d.Toasts == nil {
		d.Toasts = notify.NewToasts(d.Config.UI.ToastTTL, 0)
	}

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "Search surveys..."
	search.Width = 30

	date := textinput.New()
	date.Prompt = "date "
	date.Placeholder = layoutHint(d.Config.UI.DateFormat)
	date.CharLimit = 10
	date.Width = 12

	pager := paginator.New()
	pager.Type = paginator.Dots
	pager.PerPage = max(d.Config.UI.PageSize, 1)

	sp := spinner.New(spinner.WithSpinner(spinner.MiniDot))

	screen := modal.NewScreen(focusList)
	a := &App{
		cfg:     d.Config,
		log:     d.Log,
		orch:    d.Orchestrator,
		loading: d.Loading,
		toasts:  d.Toasts,
		now:     d.Now,
		loc:     d.Config.UI.Location(),
		screen:  screen,
		keys:    defaultKeys(),
		help:    help.New(),
		spinner: sp,
		pager:   pager,
		search:  search,
		date:    date,
		filter:  filter.NewState(filter.TabAll),
		sort:    filter.SortNone,
	}
	a.create = modal.New(createDialog, screen, modal.Options{
		CloseOnEscape: true,
		OpenDelay:     d.Config.UI.OpenDelay,
		RequestClose:  a.cancelCreate,
	})
	a.loadingCh = make(chan struct{}, 1)
	d.Loading.OnChange(func(loading.State) {
		select {
		case a.loadingCh <- struct{}{}:
		default:
		}
	})
	a.view = modal.New(viewDialog, screen, modal.Options{
		CloseOnEscape:       true,
		CloseOnOverlayClick: true,
		OpenDelay:           d.Config.UI.OpenDelay,
	})
	a.refresh()
	return a
}

// layoutHint turns a Go date layout into a dd/mm/yyyy style hint.
func layoutHint(layout string) string {
	if layout == "" {
		layout = "02/01/2006"
	}
	return strings.NewReplacer("2006", "yyyy", "01", "mm", "02", "dd").Replace(layout)
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.orch.List(), a.spinner.Tick, tick(), waitLoading(a.loadingCh))
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
		a.help.Width = m.Width
	case tea.KeyMsg:
		if m.String() == "ctrl+c" {
			return a, a.quit()
		}
		if a.busy() {
			return a, nil
		}
		if handled, cmd := a.screen.Dispatch(m); handled {
			return a, cmd
		}
		return a, a.handleKey(m)
	case tea.MouseMsg:
		if a.busy() {
			return a, nil
		}
		if handled, cmd := a.screen.Dispatch(m); handled {
			return a, cmd
		}
		return a, a.handleMouse(m)

	case modal.OpenedMsg:
		a.create.Update(m)
		a.view.Update(m)
		if m.ID == viewDialog && a.view.IsOpen() && a.confirmOnOpen {
			a.confirmOnOpen = false
			a.view.Confirm(modal.KindDelete, a.viewing.Title)
		}
	case modal.ClosedMsg:
		a.create.Update(m)
		a.view.Update(m)
	case modal.ConfirmedMsg:
		return a, a.handleConfirmed(m)
	case modal.CancelledMsg:
		a.log.Debug("confirmation cancelled", zap.String("dialog", m.DialogID), zap.String("kind", string(m.Kind)))

	case service.ListedMsg, service.DeletedMsg:
		cmd := a.orch.Apply(m)
		a.refresh()
		return a, cmd
	case service.CreatedMsg:
		a.submitting = false
		cmd := a.orch.Apply(m)
		a.refresh()
		if m.Err == nil {
			cmd = tea.Batch(cmd, a.create.Close())
		}
		return a, cmd
	case service.ViewedMsg:
		a.orch.Apply(m)
		if a.view.Visible() && m.ID == a.viewing.ID && (m.Err == nil || m.Found) {
			a.viewing = m.Record
		}
		a.refresh()

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(m)
		return a, cmd
	case loadingChangedMsg:
		a.syncSpinner()
		return a, waitLoading(a.loadingCh)
	case tickMsg:
		a.frame++
		a.toasts.Prune()
		a.syncSpinner()
		return a, tick()
	}
	return a, nil
}

// busy reports whether the loading overlay is up. Input is swallowed
// meanwhile, as the overlay covers the whole screen.
func (a *App) busy() bool {
	return a.loading.Pending() > 0
}

func (a *App) quit() tea.Cmd {
	a.orch.Close()
	return tea.Quit
}

func (a *App) handleKey(m tea.KeyMsg) tea.Cmd {
	switch {
	case a.create.Visible():
		return a.handleCreateKey(m)
	case a.view.Visible():
		return a.handleViewKey(m)
	}
	switch a.screen.Focused() {
	case focusSearch:
		return a.handleSearchKey(m)
	case focusDate:
		return a.handleDateKey(m)
	}
	return a.handleListKey(m)
}

func (a *App) handleListKey(m tea.KeyMsg) tea.Cmd {
	if s := m.String(); len(s) == 1 && s[0] >= '1' && s[0] <= byte('0'+len(filter.Tabs)) {
		a.setFilter(a.filter.WithTab(filter.Tabs[s[0]-'1']))
		return nil
	}
	switch {
	case key.Matches(m, a.keys.Quit):
		return a.quit()
	case key.Matches(m, a.keys.Help):
		a.help.ShowAll = !a.help.ShowAll
	case key.Matches(m, a.keys.Dismiss):
		if active := a.toasts.Active(); len(active) > 0 {
			a.toasts.Dismiss(active[len(active)-1].ID)
		}
	case key.Matches(m, a.keys.Up):
		if a.cursor > 0 {
			a.cursor--
		}
	case key.Matches(m, a.keys.Down):
		if a.cursor < len(a.result.Page)-1 {
			a.cursor++
		}
	case key.Matches(m, a.keys.NextTab):
		a.setFilter(a.filter.WithTab(shiftTab(a.filter.ActiveTab, 1)))
	case key.Matches(m, a.keys.PrevTab):
		a.setFilter(a.filter.WithTab(shiftTab(a.filter.ActiveTab, -1)))
	case key.Matches(m, a.keys.NextPage):
		a.setPage(a.filter.CurrentPage + 1)
	case key.Matches(m, a.keys.PrevPage):
		a.setPage(a.filter.CurrentPage - 1)
	case key.Matches(m, a.keys.Search):
		a.screen.Focus(focusSearch)
		return a.search.Focus()
	case key.Matches(m, a.keys.Date):
		a.screen.Focus(focusDate)
		return a.date.Focus()
	case key.Matches(m, a.keys.Clear):
		a.search.SetValue("")
		a.date.SetValue("")
		a.setFilter(filter.NewState(a.filter.ActiveTab))
	case key.Matches(m, a.keys.New):
		return a.openCreate()
	case key.Matches(m, a.keys.View):
		if r, ok := a.selected(); ok {
			return a.openView(r, false)
		}
	case key.Matches(m, a.keys.Delete):
		if r, ok := a.selected(); ok {
			return a.openView(r, true)
		}
	case key.Matches(m, a.keys.Refresh):
		return a.orch.List()
	case key.Matches(m, a.keys.Sort):
		a.sort = (a.sort + 1) % (filter.SortResponsesDesc + 1)
		a.refresh()
	}
	return nil
}

func (a *App) handleSearchKey(m tea.KeyMsg) tea.Cmd {
	switch m.Type {
	case tea.KeyEnter, tea.KeyEsc:
		a.search.Blur()
		a.screen.Focus(focusList)
		return nil
	}
	var cmd tea.Cmd
	a.search, cmd = a.search.Update(m)
	if a.search.Value() != a.filter.SearchTerm {
		a.setFilter(a.filter.WithSearch(a.search.Value()))
	}
	return cmd
}

func (a *App) handleDateKey(m tea.KeyMsg) tea.Cmd {
	switch m.Type {
	case tea.KeyEsc:
		a.date.Blur()
		a.screen.Focus(focusList)
		return nil
	case tea.KeyEnter:
		v := strings.TrimSpace(a.date.Value())
		if v == "" {
			a.setFilter(a.filter.WithDate(nil))
		} else {
			day, err := time.ParseInLocation(a.dateLayout(), v, a.loc)
			if err != nil {
				a.toasts.Notify(notify.Warning, "Invalid date", "Use the "+layoutHint(a.cfg.UI.DateFormat)+" format")
				return nil
			}
			a.setFilter(a.filter.WithDate(&day))
		}
		a.date.Blur()
		a.screen.Focus(focusList)
		return nil
	}
	var cmd tea.Cmd
	a.date, cmd = a.date.Update(m)
	return cmd
}

func (a *App) handleMouse(m tea.MouseMsg) tea.Cmd {
	if a.screen.ScrollLocked() || m.Action != tea.MouseActionPress {
		return nil
	}
	switch m.Button {
	case tea.MouseButtonWheelDown:
		a.setPage(a.filter.CurrentPage + 1)
	case tea.MouseButtonWheelUp:
		a.setPage(a.filter.CurrentPage - 1)
	}
	return nil
}

// create dialog

func (a *App) openCreate() tea.Cmd {
	if a.create.Visible() {
		return nil
	}
	a.form = newCreateForm(a.now())
	return a.create.Open()
}

// cancelCreate asks before throwing away a partly filled form.
func (a *App) cancelCreate() tea.Cmd {
	if a.form.dirty() {
		a.create.Confirm(modal.KindDiscard, "")
		return nil
	}
	return a.create.Close()
}

func (a *App) handleCreateKey(m tea.KeyMsg) tea.Cmd {
	if !a.create.IsOpen() {
		return nil
	}
	cmd, submit := a.form.update(m, a.now())
	if !submit {
		return cmd
	}
	return a.submitCreate()
}

// submitCreate sends the form at most once until the result comes back.
func (a *App) submitCreate() tea.Cmd {
	if a.submitting {
		return nil
	}
	cmd, err := a.orch.Create(a.form.input(a.cfg.UI.CurrentUserID))
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		a.form.errs = make(map[string]string)
		for _, f := range verr.Fields() {
			a.form.errs[f.Field] = f.Message
		}
		return nil
	}
	a.form.errs = nil
	a.submitting = cmd != nil
	return cmd
}

// view dialog

func (a *App) openView(r survey.Record, confirmDelete bool) tea.Cmd {
	open := a.view.Open()
	if open == nil {
		return nil
	}
	a.viewing = r
	a.confirmOnOpen = confirmDelete
	return tea.Batch(open, a.orch.View(r.ID))
}

func (a *App) handleViewKey(m tea.KeyMsg) tea.Cmd {
	if !a.view.IsOpen() {
		return nil
	}
	switch m.String() {
	case "d", "delete":
		a.view.Confirm(modal.KindDelete, a.viewing.Title)
		return nil
	case "q":
		return a.view.Close()
	}
	if qa, ok := findQuickAction(m.String()); ok {
		title := survey.Describe(a.viewing, a.dateLayout(), a.loc).Title
		a.toasts.Notify(qa.cat, qa.title, qa.body(title))
	}
	return nil
}

func (a *App) handleConfirmed(m modal.ConfirmedMsg) tea.Cmd {
	switch {
	case m.DialogID == createDialog && m.Kind == modal.KindDiscard:
		return a.create.Close()
	case m.DialogID == viewDialog && m.Kind == modal.KindDelete:
		id := a.viewing.ID
		a.log.Info("delete confirmed", zap.Int64("id", id))
		return tea.Batch(a.orch.Delete(id), a.view.Close())
	}
	return nil
}

// list state

func shiftTab(current string, delta int) string {
	n := len(filter.Tabs)
	for i, t := range filter.Tabs {
		if t == current {
			return filter.Tabs[(i+delta+n)%n]
		}
	}
	return filter.TabAll
}

func (a *App) setFilter(st filter.State) {
	a.filter = st
	a.cursor = 0
	a.refresh()
}

func (a *App) setPage(n int) {
	a.filter = a.filter.WithPage(n)
	a.cursor = 0
	a.refresh()
}

// refresh reruns the filter pipeline over the canonical collection.
func (a *App) refresh() {
	a.result = filter.Apply(a.orch.Surveys(), a.filter, filter.Options{
		PageSize: a.cfg.UI.PageSize,
		Location: a.loc,
		Sort:     a.sort,
	})
	a.filter.CurrentPage = a.result.PageNumber
	a.pager.PerPage = a.result.PageSize
	a.pager.TotalPages = a.result.TotalPages
	a.pager.Page = a.result.PageNumber - 1
	if a.cursor >= len(a.result.Page) {
		a.cursor = max(len(a.result.Page)-1, 0)
	}
}

func (a *App) selected() (survey.Record, bool) {
	if a.cursor < 0 || a.cursor >= len(a.result.Page) {
		return survey.Record{}, false
	}
	return a.result.Page[a.cursor], true
}

func (a *App) dateLayout() string {
	if a.cfg.UI.DateFormat == "" {
		return "02/01/2006"
	}
	return a.cfg.UI.DateFormat
}

func (a *App) syncSpinner() {
	st := a.loading.Snapshot()
	if st.Style.Kind != a.spinKind {
		a.spinKind = st.Style.Kind
		a.spinner.Spinner = spinnerFor(st.Style.Kind)
	}
	a.spinner.Style = lipgloss.NewStyle().Foreground(loadingColor(st.Style.Color))
}

func spinnerFor(k loading.Kind) spinner.Spinner {
	switch k {
	case loading.Spinner:
		return spinner.Line
	case loading.Dots:
		return spinner.Dot
	case loading.Pulse:
		return spinner.Pulse
	case loading.Wave:
		return spinner.Points
	case loading.Orbit:
		return spinner.Globe
	default:
		return spinner.MiniDot
	}
}

func sortLabel(k filter.SortKey) string {
	switch k {
	case filter.SortModifiedDesc:
		return "recently modified"
	case filter.SortTitleAsc:
		return "title"
	case filter.SortResponsesDesc:
		return "most responses"
	default:
		return "default"
	}
}
