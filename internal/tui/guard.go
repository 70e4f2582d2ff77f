package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// requiresAuth reports whether a route needs an authenticated session
func requiresAuth(route Route) bool {
	return protectedRoutes[route]
}

// guard resolves where a navigation actually lands. A signed-out user
// heading for a protected screen lands on the login form; a signed-in
// user heading for login or register lands on the dashboard.
func (m Model) guard(target Route) Route {
	if requiresAuth(target) && !m.store.IsAuthenticated() {
		return RouteLogin
	}
	if (target == RouteLogin || target == RouteRegister) && m.store.IsAuthenticated() {
		return RouteDashboard
	}
	return target
}

// navigate pushes the current route onto the history and enters the
// target. While the session restore is still pending nothing moves.
func (m Model) navigate(target Route) (tea.Model, tea.Cmd) {
	if m.restoring {
		return m, nil
	}
	resolved := m.guard(target)
	if resolved == m.route {
		return m, nil
	}
	// On a guard redirect the replaced route is the guarded target: it
	// is never entered, so it can never be reached via back. The screen
	// the user navigated from is still pushed and stays reachable.
	m.history = append(m.history, m.route)
	return m.enter(resolved)
}

// replaceRoute enters the target without touching the history
func (m Model) replaceRoute(target Route) (tea.Model, tea.Cmd) {
	return m.enter(m.guard(target))
}

// back pops the navigation history
func (m Model) back() (tea.Model, tea.Cmd) {
	if len(m.history) == 0 {
		return m, nil
	}
	target := m.history[len(m.history)-1]
	m.history = m.history[:len(m.history)-1]
	return m.enter(m.guard(target))
}

// enter switches to the route and kicks off whatever the screen needs
func (m Model) enter(route Route) (tea.Model, tea.Cmd) {
	m.route = route
	m.form = nil
	m.formBusy = false
	m.lastError = ""
	m.cursor = 0
	m.filter.Blur()

	switch route {
	case RouteLogin:
		m.login = &loginInput{}
		m.form = m.loginForm()
		return m, m.form.Init()
	case RouteRegister:
		m.register = &registerInput{}
		m.form = m.registerForm()
		return m, m.form.Init()
	case RouteGames:
		m.loading = true
		return m, tea.Batch(m.loadGamesCmd(), m.spin.Tick)
	case RouteLibrary:
		m.loading = true
		return m, tea.Batch(m.loadLibraryCmd(), m.spin.Tick)
	case RouteForum:
		m.loading = true
		return m, tea.Batch(m.loadPostsCmd(), m.spin.Tick)
	default:
		return m, nil
	}
}

// openPost navigates to a single forum post
func (m Model) openPost(id string) (tea.Model, tea.Cmd) {
	m.history = append(m.history, m.route)
	m.route = RoutePost
	m.post = nil
	m.comments = nil
	m.loading = true
	m.lastError = ""
	return m, tea.Batch(m.loadPostCmd(id), m.spin.Tick)
}
