package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gametracker/gametracker/internal/api"
	"github.com/gametracker/gametracker/internal/session"
)

// requestTimeout bounds every API call issued from the TUI
const requestTimeout = 15 * time.Second

// SessionExpiredMsg is sent into the program when a token refresh
// failed and the session was torn down.
type SessionExpiredMsg struct{}

// Internal messages

type restoreDoneMsg struct {
	authenticated bool
}

type loginDoneMsg struct {
	user *session.User
	err  error
}

type registerDoneMsg struct {
	message string
	err     error
}

type gamesLoadedMsg struct {
	games []api.Game
}

type libraryLoadedMsg struct {
	entries []api.LibraryEntry
}

type postsLoadedMsg struct {
	posts []api.ForumPost
}

type postLoadedMsg struct {
	post     *api.ForumPost
	comments []api.ForumComment
}

type errMsg struct {
	err error
}

func (m Model) restoreSessionCmd() tea.Cmd {
	return func() tea.Msg {
		return restoreDoneMsg{authenticated: m.client.RestoreSession()}
	}
}

func (m Model) loginCmd(creds api.Credentials) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		user, err := m.client.Login(ctx, creds)
		return loginDoneMsg{user: user, err: err}
	}
}

func (m Model) registerCmd(input api.RegisterInput) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		message, err := m.client.Register(ctx, input)
		return registerDoneMsg{message: message, err: err}
	}
}

func (m Model) loadGamesCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		games, err := m.client.ListGames(ctx)
		if err != nil {
			return errMsg{err}
		}
		return gamesLoadedMsg{games: games}
	}
}

func (m Model) loadLibraryCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		entries, err := m.client.ListLibrary(ctx)
		if err != nil {
			return errMsg{err}
		}
		return libraryLoadedMsg{entries: entries}
	}
}

func (m Model) loadPostsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		posts, err := m.client.ListPosts(ctx, nil)
		if err != nil {
			return errMsg{err}
		}
		return postsLoadedMsg{posts: posts}
	}
}

func (m Model) loadPostCmd(id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		post, err := m.client.GetPost(ctx, id)
		if err != nil {
			return errMsg{err}
		}
		comments, err := m.client.ListComments(ctx, id)
		if err != nil {
			return errMsg{err}
		}
		return postLoadedMsg{post: post, comments: comments}
	}
}

// Run starts the TUI and blocks until the user quits. The returned
// notify function feeds session expiry into the running program and is
// safe to call from any goroutine.
func Run(client *api.Client, store *session.Store) (notify func(), start func() error) {
	program := tea.NewProgram(NewModel(client, store), tea.WithAltScreen())
	notify = func() {
		program.Send(SessionExpiredMsg{})
	}
	start = func() error {
		_, err := program.Run()
		return err
	}
	return notify, start
}
