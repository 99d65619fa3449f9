package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/campuskit/campusctl/internal/notify"
	"github.com/campuskit/campusctl/internal/screens"
	"github.com/campuskit/campusctl/internal/session"
	"github.com/campuskit/campusctl/internal/shared"
)

// view represents the current view in the TUI.
type view int

const (
	loadingView view = iota
	onboardingView
	loginView
	menuView
	listView
	formView
)

// Model is the root TUI state: the session phase rendered as a view, the
// per-entity screens, and the toast surface.
type Model struct {
	ctx     context.Context
	session *session.Controller
	bus     *notify.Bus
	screens []*screens.Screen
	logger  *log.Logger

	width  int
	height int
	view   view
	keys   keyMap
	help   help.Model

	menu       list.Model
	entityList list.Model
	active     int

	inputs   []textinput.Model
	focus    int
	remember bool
	busy     bool

	toast   *notify.Message
	toastCh chan *notify.Message
	unsub   func()
}

// NewModel creates the root model with the provided dependencies.
func NewModel(ctx context.Context, sess *session.Controller, bus *notify.Bus, scrs []*screens.Screen, logger *log.Logger) *Model {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	items := make([]list.Item, len(scrs))
	for i, s := range scrs {
		items[i] = menuItem{spec: s.Spec()}
	}
	menu := list.New(items, list.NewDefaultDelegate(), 0, 0)
	menu.Title = "CampusKit Admin"

	return &Model{
		ctx:     ctx,
		session: sess,
		bus:     bus,
		screens: scrs,
		logger:  logger,
		view:    loadingView,
		keys:    newKeyMap(),
		help:    help.New(),
		menu:    menu,
		toastCh: make(chan *notify.Message, 8),
	}
}

// Init mounts the toast surface on the bus and kicks off bootstrap.
func (m *Model) Init() tea.Cmd {
	m.unsub = m.bus.Subscribe(func(msg *notify.Message) {
		select {
		case m.toastCh <- msg:
		default:
		}
	})

	return tea.Batch(m.bootstrap(), m.waitForToast())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.menu.SetSize(msg.Width-4, msg.Height-8)
		m.entityList.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case toastMsg:
		m.toast = msg.msg
		return m, m.waitForToast()

	case bootstrapDoneMsg:
		switch msg.phase {
		case session.Onboarding:
			m.view = onboardingView
		case session.Home:
			m.view = menuView
		default:
			m.enterLogin()
		}
		return m, nil

	case loginDoneMsg:
		m.busy = false
		if msg.err == nil {
			m.view = menuView
		}
		return m, nil

	case listLoadedMsg:
		m.busy = false
		m.refreshEntityList()
		m.view = listView
		return m, nil

	case mutationDoneMsg:
		m.busy = false
		if msg.ok {
			m.refreshEntityList()
			m.view = listView
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case loadingView:
			if key.Matches(msg, m.keys.quit) {
				return m, m.quit()
			}
			return m, nil
		case onboardingView:
			return m.handleOnboardingKeys(msg)
		case loginView:
			return m.handleLoginKeys(msg)
		case menuView:
			return m.handleMenuKeys(msg)
		case listView:
			return m.handleListKeys(msg)
		case formView:
			return m.handleFormKeys(msg)
		}
	}

	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	var body string
	switch m.view {
	case loadingView:
		body = "Loading..."
	case onboardingView:
		body = m.renderOnboarding()
	case loginView:
		body = m.renderLogin()
	case menuView:
		body = m.menu.View()
	case listView:
		body = m.renderList()
	case formView:
		body = m.renderForm()
	}

	if line := m.toastLine(); line != "" {
		body = fmt.Sprintf("%s\n\n%s", body, line)
	}

	return body
}

func (m *Model) bootstrap() tea.Cmd {
	return func() tea.Msg {
		return bootstrapDoneMsg{phase: m.session.Bootstrap()}
	}
}

// waitForToast re-enters bus deliveries into the program loop.
func (m *Model) waitForToast() tea.Cmd {
	return func() tea.Msg {
		return toastMsg{msg: <-m.toastCh}
	}
}

// quit unmounts the toast surface before stopping the program.
func (m *Model) quit() tea.Cmd {
	if m.unsub != nil {
		m.unsub()
	}
	m.bus.Dismiss()
	return tea.Quit
}

func (m *Model) activeScreen() *screens.Screen {
	return m.screens[m.active]
}

func (m *Model) handleOnboardingKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, m.quit()
	case key.Matches(msg, m.keys.enter):
		m.session.CompleteOnboarding()
		m.enterLogin()
	}
	return m, nil
}

// enterLogin builds the login form, prefilled with the remembered email.
func (m *Model) enterLogin() {
	email := textinput.New()
	email.Placeholder = "email"
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword

	if remembered := m.session.RememberedEmail(); remembered != "" {
		email.SetValue(remembered)
		m.remember = true
	}

	m.inputs = []textinput.Model{email, password}
	m.focus = 0
	m.view = loginView
}

func (m *Model) handleLoginKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		return m, m.quit()
	case key.Matches(msg, m.keys.next), key.Matches(msg, m.keys.down):
		m.focusInput(m.focus + 1)
		return m, nil
	case key.Matches(msg, m.keys.up):
		m.focusInput(m.focus - 1)
		return m, nil
	case key.Matches(msg, m.keys.toggle):
		m.remember = !m.remember
		return m, nil
	case key.Matches(msg, m.keys.enter):
		if m.busy {
			return m, nil
		}
		m.busy = true
		return m, m.login()
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) login() tea.Cmd {
	email := m.inputs[0].Value()
	password := m.inputs[1].Value()
	remember := m.remember

	return func() tea.Msg {
		_, err := m.session.Login(m.ctx, email, password, remember)
		if err != nil {
			m.bus.Publish(err.Error(), notify.WithKind(notify.Error))
		}
		return loginDoneMsg{err: err}
	}
}

func (m *Model) handleMenuKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, m.quit()
	case key.Matches(msg, m.keys.logout):
		m.session.Logout()
		m.enterLogin()
		return m, nil
	case key.Matches(msg, m.keys.enter):
		if m.busy {
			return m, nil
		}
		if idx := m.menu.Index(); idx >= 0 && idx < len(m.screens) {
			m.active = idx
			m.busy = true
			return m, m.loadList()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.menu, cmd = m.menu.Update(msg)
	return m, cmd
}

func (m *Model) loadList() tea.Cmd {
	return func() tea.Msg {
		m.activeScreen().Load(m.ctx)
		return listLoadedMsg{}
	}
}

// refreshEntityList rebuilds the list from the active screen's records.
func (m *Model) refreshEntityList() {
	screen := m.activeScreen()
	records := screen.Items()

	items := make([]list.Item, len(records))
	for i, it := range records {
		items[i] = entityItem{item: it}
	}

	m.entityList = list.New(items, list.NewDefaultDelegate(), 0, 0)
	m.entityList.Title = screen.Spec().Entity.Title
	m.entityList.SetSize(m.width-4, m.height-8)
}

func (m *Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, m.quit()
	case key.Matches(msg, m.keys.back):
		m.view = menuView
		return m, nil
	case key.Matches(msg, m.keys.refresh):
		if m.busy {
			return m, nil
		}
		m.busy = true
		return m, m.loadList()
	case key.Matches(msg, m.keys.add):
		m.activeScreen().ResetForm()
		m.enterForm()
		return m, nil
	case key.Matches(msg, m.keys.edit):
		if it, ok := m.selectedItem(); ok {
			m.activeScreen().BeginEdit(it.Record)
			m.enterForm()
		}
		return m, nil
	case key.Matches(msg, m.keys.delete):
		if m.busy {
			return m, nil
		}
		if it, ok := m.selectedItem(); ok {
			m.busy = true
			return m, m.deleteRecord(it.ID)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.entityList, cmd = m.entityList.Update(msg)
	return m, cmd
}

func (m *Model) selectedItem() (screens.Item, bool) {
	selected := m.entityList.SelectedItem()
	if selected == nil {
		return screens.Item{}, false
	}
	it, ok := selected.(entityItem)
	return it.item, ok
}

func (m *Model) deleteRecord(id string) tea.Cmd {
	return func() tea.Msg {
		return mutationDoneMsg{ok: m.activeScreen().Delete(m.ctx, id)}
	}
}

// enterForm builds one input per field from the screen's form state.
func (m *Model) enterForm() {
	screen := m.activeScreen()
	fields := screen.Spec().Fields

	m.inputs = make([]textinput.Model, len(fields))
	for i, f := range fields {
		ti := textinput.New()
		ti.Placeholder = f.Label
		ti.SetValue(screen.Field(f.Name))
		if i == 0 {
			ti.Focus()
		}
		m.inputs[i] = ti
	}
	m.focus = 0
	m.view = formView
}

func (m *Model) handleFormKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		return m, m.quit()
	case key.Matches(msg, m.keys.back):
		m.view = listView
		return m, nil
	case key.Matches(msg, m.keys.next), key.Matches(msg, m.keys.down):
		m.focusInput(m.focus + 1)
		return m, nil
	case key.Matches(msg, m.keys.up):
		m.focusInput(m.focus - 1)
		return m, nil
	case key.Matches(msg, m.keys.enter):
		if m.busy || m.activeScreen().Submitting() {
			return m, nil
		}
		m.syncForm()
		m.busy = true
		return m, m.submitForm()
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

// syncForm copies input values into the screen's form state.
func (m *Model) syncForm() {
	screen := m.activeScreen()
	for i, f := range screen.Spec().Fields {
		screen.SetField(f.Name, m.inputs[i].Value())
	}
}

func (m *Model) submitForm() tea.Cmd {
	return func() tea.Msg {
		return mutationDoneMsg{ok: m.activeScreen().Submit(m.ctx)}
	}
}

func (m *Model) focusInput(idx int) {
	if len(m.inputs) == 0 {
		return
	}
	m.focus = (idx + len(m.inputs)) % len(m.inputs)
	for i := range m.inputs {
		if i == m.focus {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
}

func (m *Model) renderOnboarding() string {
	title := styles.title.Render("Welcome to CampusKit")
	info := "Manage branches, grades, sections, schedules, staff and exams\nfrom your terminal."
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.enter, m.keys.quit})
	return fmt.Sprintf("%s\n%s\n\n%s", title, info, helpView)
}

func (m *Model) renderLogin() string {
	title := styles.title.Render("Sign in")

	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n")
	for i := range m.inputs {
		b.WriteString(m.inputs[i].View())
		b.WriteString("\n")
	}

	remember := "[ ] remember me"
	if m.remember {
		remember = "[x] remember me"
	}
	b.WriteString(styles.warn.Render(remember))

	if m.busy {
		b.WriteString("\n\nSigning in...")
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.next, m.keys.toggle, m.keys.enter})
	return fmt.Sprintf("%s\n\n%s", b.String(), helpView)
}

func (m *Model) renderList() string {
	helpKeys := []key.Binding{m.keys.add, m.keys.edit, m.keys.delete, m.keys.refresh, m.keys.back}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.entityList.View(), helpView)
}

func (m *Model) renderForm() string {
	screen := m.activeScreen()

	action := "New"
	if _, editing := screen.Editing(); editing {
		action = "Edit"
	}
	title := styles.title.Render(fmt.Sprintf("%s %s", action, screen.Spec().Entity.Title))

	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n")
	for i, f := range screen.Spec().Fields {
		b.WriteString(f.Label)
		b.WriteString(": ")
		b.WriteString(m.inputs[i].View())
		b.WriteString("\n")
	}

	if m.busy || screen.Submitting() {
		b.WriteString("\nSaving...")
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.next, m.keys.enter, m.keys.back})
	return fmt.Sprintf("%s\n%s", b.String(), helpView)
}

// toastLine renders the currently visible toast, styled by kind.
func (m *Model) toastLine() string {
	if m.toast == nil {
		return ""
	}

	switch m.toast.Kind {
	case notify.Success:
		return styles.ok.Render("✓ " + m.toast.Text)
	case notify.Error:
		return styles.err.Render("✗ " + m.toast.Text)
	default:
		return styles.warn.Render("• " + m.toast.Text)
	}
}
