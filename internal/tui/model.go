// Package tui implements the interactive browse mode on top of Bubble Tea.
package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/gametracker/gametracker/internal/api"
	"github.com/gametracker/gametracker/internal/session"
)

// Route identifies a screen of the application
type Route int

// Route constants
const (
	// RouteDashboard is the landing screen for signed-in users
	RouteDashboard Route = iota
	// RouteLogin is the sign-in form
	RouteLogin
	// RouteRegister is the account creation form
	RouteRegister
	// RouteGames is the game catalog
	RouteGames
	// RouteLibrary is the user's personal game library
	RouteLibrary
	// RouteForum is the forum post list
	RouteForum
	// RoutePost shows a single forum post with its comments
	RoutePost
	// RouteHelp is the key binding overview
	RouteHelp
)

// protectedRoutes require an authenticated session
var protectedRoutes = map[Route]bool{
	RouteDashboard: true,
	RouteLibrary:   true,
}

// Model represents the TUI application state
type Model struct {
	client *api.Client
	store  *session.Store

	// Navigation state
	route    Route
	history  []Route
	quitting bool

	// Session restore state: the spinner is shown until the persisted
	// session has been loaded, so protected screens never flash.
	restoring bool
	spin      spinner.Model

	// Form state. The input structs are heap-allocated because the
	// form fields keep pointers into them across model copies.
	form     *huh.Form
	formBusy bool
	login    *loginInput
	register *registerInput

	// Data state
	games    []api.Game
	library  []api.LibraryEntry
	posts    []api.ForumPost
	post     *api.ForumPost
	comments []api.ForumComment
	loading  bool

	// Games filtering
	filter textinput.Model

	// Selection state
	cursor int

	// Status line
	notice    string
	lastError string

	// UI state
	width  int
	height int
	ready  bool

	styles Styles
}

type loginInput struct {
	Username string
	Password string
}

type registerInput struct {
	DisplayName string
	Username    string
	Email       string
	Password    string
	Confirm     string
}

// Styles contains lipgloss styles for the TUI
type Styles struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Status   lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style
	Muted    lipgloss.Style
	Border   lipgloss.Style
	Selected lipgloss.Style
	Help     lipgloss.Style
	Key      lipgloss.Style
	KeyDesc  lipgloss.Style
}

// NewModel creates the TUI model. The session restore runs as the
// first command, and until it resolves every screen shows the spinner.
func NewModel(client *api.Client, store *session.Store) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	filter := textinput.New()
	filter.Placeholder = "filter games"
	filter.CharLimit = 64

	return Model{
		client:    client,
		store:     store,
		route:     RouteDashboard,
		restoring: true,
		spin:      sp,
		filter:    filter,
		styles:    DefaultStyles(),
	}
}

// DefaultStyles returns the default lipgloss styles
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63")). // Purple
			MarginBottom(1),
		Subtitle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")). // Gray
			MarginBottom(1),
		Status: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86")), // Cyan
		Error: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")), // Red
		Success: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("46")), // Green
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")), // Gray
		Border: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")). // Purple
			Padding(1, 2),
		Selected: lipgloss.NewStyle().
			Background(lipgloss.Color("63")).  // Purple
			Foreground(lipgloss.Color("230")). // Light yellow
			Bold(true).
			Padding(0, 1),
		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")). // Gray
			MarginTop(1),
		Key: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63")), // Purple
		KeyDesc: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")), // Gray
	}
}

// Init starts the session restore and the spinner (required by Bubble Tea)
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.restoreSessionCmd(), m.spin.Tick)
}

// Update handles messages and updates the model state (required by Bubble Tea)
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case spinner.TickMsg:
		if !m.restoring && !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case restoreDoneMsg:
		m.restoring = false
		// The initial route is only now guarded: redirecting before
		// the restore resolved would bounce a returning user through
		// the login screen.
		return m.replaceRoute(m.route)

	case SessionExpiredMsg:
		m.notice = "Your session has expired. Please sign in again."
		return m.replaceRoute(RouteLogin)

	case loginDoneMsg:
		return m.handleLoginDone(msg)

	case registerDoneMsg:
		m.formBusy = false
		if msg.err != nil {
			m.lastError = msg.err.Error()
			return m.reopenForm()
		}
		m.notice = msg.message
		return m.replaceRoute(RouteLogin)

	case gamesLoadedMsg:
		m.loading = false
		m.games = msg.games
		m.cursor = 0
		return m, nil

	case libraryLoadedMsg:
		m.loading = false
		m.library = msg.entries
		m.cursor = 0
		return m, nil

	case postsLoadedMsg:
		m.loading = false
		m.posts = msg.posts
		m.cursor = 0
		return m, nil

	case postLoadedMsg:
		m.loading = false
		m.post = msg.post
		m.comments = msg.comments
		return m, nil

	case errMsg:
		m.loading = false
		m.formBusy = false
		m.lastError = msg.err.Error()
		return m, nil
	}

	if m.route == RouteGames && m.filter.Focused() {
		var cmd tea.Cmd
		m.filter, cmd = m.filter.Update(msg)
		return m, cmd
	}
	return m.updateForm(msg)
}

// View renders the TUI (required by Bubble Tea)
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	// The spinner screen covers the restore window for every route.
	if m.restoring {
		return m.renderRestoring()
	}

	switch m.route {
	case RouteDashboard:
		return m.renderDashboard()
	case RouteLogin, RouteRegister:
		return m.renderForm()
	case RouteGames:
		return m.renderGames()
	case RouteLibrary:
		return m.renderLibrary()
	case RouteForum:
		return m.renderForum()
	case RoutePost:
		return m.renderPost()
	case RouteHelp:
		return m.renderHelp()
	default:
		return "Unknown view"
	}
}

// handleKeyPress handles keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Ctrl+C always quits
	if msg.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	if m.restoring {
		return m, nil
	}

	// Forms own the keyboard while active
	if m.form != nil {
		if msg.String() == "esc" {
			return m.back()
		}
		return m.updateForm(msg)
	}

	// The games filter captures printable keys while focused
	if m.route == RouteGames && m.filter.Focused() {
		switch msg.String() {
		case "esc":
			m.filter.Blur()
			return m, nil
		case "enter":
			m.filter.Blur()
			m.cursor = 0
			return m, nil
		default:
			var cmd tea.Cmd
			m.filter, cmd = m.filter.Update(msg)
			m.cursor = 0
			return m, cmd
		}
	}

	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit

	case "?":
		if m.route == RouteHelp {
			return m.back()
		}
		return m.navigate(RouteHelp)

	case "esc":
		return m.back()

	case "d":
		return m.navigate(RouteDashboard)

	case "g":
		return m.navigate(RouteGames)

	case "m":
		return m.navigate(RouteLibrary)

	case "f":
		return m.navigate(RouteForum)

	case "l":
		return m.navigate(RouteLogin)

	case "r":
		return m.navigate(RouteRegister)

	case "/":
		if m.route == RouteGames {
			m.filter.Focus()
			return m, textinput.Blink
		}

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < m.listLength()-1 {
			m.cursor++
		}

	case "enter":
		if m.route == RouteForum && m.cursor < len(m.posts) {
			return m.openPost(m.posts[m.cursor].ID)
		}
	}

	return m, nil
}

func (m Model) handleLoginDone(msg loginDoneMsg) (tea.Model, tea.Cmd) {
	m.formBusy = false
	if msg.err != nil {
		if email, needs := api.IsNeedsVerification(msg.err); needs {
			m.lastError = "Account not verified yet. Check the inbox of " + email + "."
		} else {
			m.lastError = msg.err.Error()
		}
		return m.reopenForm()
	}
	m.notice = "Welcome back, " + msg.user.Username + "!"
	m.lastError = ""
	return m.replaceRoute(RouteDashboard)
}

// listLength returns the number of entries on the current list screen
func (m Model) listLength() int {
	switch m.route {
	case RouteGames:
		return len(m.visibleGames())
	case RouteLibrary:
		return len(m.library)
	case RouteForum:
		return len(m.posts)
	default:
		return 0
	}
}

// visibleGames applies the in-memory filter to the loaded catalog
func (m Model) visibleGames() []api.Game {
	query := strings.ToLower(strings.TrimSpace(m.filter.Value()))
	if query == "" {
		return m.games
	}
	var matched []api.Game
	for _, game := range m.games {
		if strings.Contains(strings.ToLower(game.Name), query) ||
			strings.Contains(strings.ToLower(game.Genre), query) {
			matched = append(matched, game)
		}
	}
	return matched
}
