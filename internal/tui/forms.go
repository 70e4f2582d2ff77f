package tui

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/gametracker/gametracker/internal/api"
	"github.com/gametracker/gametracker/internal/validate"
)

var errPasswordMismatch = errors.New("passwords do not match")

// loginForm builds the sign-in form
func (m Model) loginForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("username").
				Title("Username").
				Value(&m.login.Username).
				Validate(func(s string) error {
					return validate.Var("username", s, "required")
				}),
			huh.NewInput().
				Key("password").
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.login.Password).
				Validate(func(s string) error {
					return validate.Var("password", s, "required")
				}),
		).Title("Sign in to GameTracker"),
	)
}

// registerForm builds the account creation form
func (m Model) registerForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("displayName").
				Title("Name").
				Value(&m.register.DisplayName).
				Validate(func(s string) error {
					return validate.Var("name", s, "required")
				}),
			huh.NewInput().
				Key("username").
				Title("Username").
				Value(&m.register.Username).
				Validate(func(s string) error {
					return validate.Var("username", s, "required,min=3")
				}),
			huh.NewInput().
				Key("email").
				Title("Email").
				Value(&m.register.Email).
				Validate(func(s string) error {
					return validate.Var("email", s, "required,email")
				}),
			huh.NewInput().
				Key("password").
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.register.Password).
				Validate(func(s string) error {
					return validate.Var("password", s, "required,min=6")
				}),
			huh.NewInput().
				Key("confirm").
				Title("Confirm password").
				EchoMode(huh.EchoModePassword).
				Value(&m.register.Confirm).
				Validate(func(s string) error {
					if s != m.register.Password {
						return errPasswordMismatch
					}
					return nil
				}),
		).Title("Create your GameTracker account"),
	)
}

// updateForm forwards a message to the active form and submits it once
// every field has passed validation.
func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	model, cmd := m.form.Update(msg)
	if form, ok := model.(*huh.Form); ok {
		m.form = form
	}

	if m.form.State != huh.StateCompleted || m.formBusy {
		return m, cmd
	}

	m.formBusy = true
	switch m.route {
	case RouteLogin:
		creds := api.Credentials{
			Username: m.login.Username,
			Password: m.login.Password,
		}
		return m, tea.Batch(cmd, m.loginCmd(creds))
	case RouteRegister:
		input := api.RegisterInput{
			DisplayName: m.register.DisplayName,
			Username:    m.register.Username,
			Email:       m.register.Email,
			Password:    m.register.Password,
		}
		return m, tea.Batch(cmd, m.registerCmd(input))
	default:
		return m, cmd
	}
}

// reopenForm rebuilds the active form after a failed submit, keeping
// everything the user typed except the password.
func (m Model) reopenForm() (tea.Model, tea.Cmd) {
	switch m.route {
	case RouteLogin:
		m.login.Password = ""
		m.form = m.loginForm()
	case RouteRegister:
		m.register.Password = ""
		m.register.Confirm = ""
		m.form = m.registerForm()
	default:
		return m, nil
	}
	return m, m.form.Init()
}
