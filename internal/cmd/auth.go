package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/gametracker/gametracker/internal/api"
	"github.com/gametracker/gametracker/internal/validate"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage your GameTracker account and session",
}

// promptPassword reads a password without echo when stdin is a
// terminal, falling back to the flag value otherwise.
func promptPassword(cmd *cobra.Command, flag string) (string, error) {
	password, _ := cmd.Flags().GetString(flag)
	if password != "" {
		return password, nil
	}
	if !term.IsTerminal(0) {
		return "", fmt.Errorf("--%s is required when stdin is not a terminal", flag)
	}
	fmt.Print("Password: ")
	raw, err := term.ReadPassword(0)
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("could not read password: %w", err)
	}
	return string(raw), nil
}

var authRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new account",
	Long: `Create a new GameTracker account.

The backend sends a verification email; the account cannot sign in
until the address is verified.

Examples:
  gametracker auth register --name "Alice Doe" --username alice --email alice@example.com`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := getRuntime()
		if err != nil {
			return err
		}

		name, _ := cmd.Flags().GetString("name")
		username, _ := cmd.Flags().GetString("username")
		email, _ := cmd.Flags().GetString("email")
		password, err := promptPassword(cmd, "password")
		if err != nil {
			return err
		}

		input := api.RegisterInput{
			DisplayName: name,
			Username:    username,
			Email:       email,
			Password:    password,
		}
		if err := validate.Struct(input); err != nil {
			return err
		}

		message, err := rt.client.Register(cmd.Context(), input)
		if err != nil {
			return fmt.Errorf("registration failed: %w", err)
		}

		if message == "" {
			message = "Account created. Check your inbox to verify your email address."
		}
		fmt.Println(message)
		return nil
	},
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and persist the session",
	Long: `Sign in to GameTracker. The session is stored on disk, so
subsequent commands run authenticated until you log out.

Examples:
  gametracker auth login --username alice`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := getRuntime()
		if err != nil {
			return err
		}

		username, _ := cmd.Flags().GetString("username")
		password, err := promptPassword(cmd, "password")
		if err != nil {
			return err
		}

		creds := api.Credentials{Username: username, Password: password}
		if err := validate.Struct(creds); err != nil {
			return err
		}

		user, err := rt.client.Login(cmd.Context(), creds)
		if err != nil {
			if email, needs := api.IsNeedsVerification(err); needs {
				fmt.Printf("This account is not verified yet. Check the inbox of %s,\n", email)
				fmt.Println("or run 'gametracker auth resend-verification' to get a new email.")
				return err
			}
			return fmt.Errorf("login failed: %w", err)
		}

		fmt.Printf("Signed in as %s.\n", user.Username)
		return nil
	},
}

var authGoogleCmd = &cobra.Command{
	Use:   "google <credential>",
	Short: "Sign in with a Google identity token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := getRuntime()
		if err != nil {
			return err
		}

		user, err := rt.client.LoginWithGoogle(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("login failed: %w", err)
		}

		fmt.Printf("Signed in as %s.\n", user.Username)
		return nil
	},
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and discard the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := getRuntime()
		if err != nil {
			return err
		}

		rt.client.Logout(cmd.Context())
		fmt.Println("Signed out.")
		return nil
	},
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current session",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := getRuntime()
		if err != nil {
			return err
		}

		if !rt.store.IsAuthenticated() {
			fmt.Println("Not signed in.")
			fmt.Println("Use 'gametracker auth login' to authenticate.")
			return nil
		}

		user, ok := rt.store.CurrentUser()
		if !ok {
			fmt.Println("Not signed in.")
			return nil
		}
		fmt.Println("Signed in")
		fmt.Printf("Username: %s\n", user.Username)
		if user.DisplayName != "" {
			fmt.Printf("Name:     %s\n", user.DisplayName)
		}
		fmt.Printf("Email:    %s\n", user.Email)

		sess := rt.store.Snapshot()
		if expiry, ok := sess.AccessTokenExpiry(); ok {
			if time.Now().After(expiry) {
				fmt.Println("Access token: expired (it will be refreshed on the next request)")
			} else {
				fmt.Printf("Access token: valid until %s\n", expiry.Local().Format(time.RFC1123))
			}
		}
		return nil
	},
}

var authVerifyEmailCmd = &cobra.Command{
	Use:   "verify-email <token>",
	Short: "Verify your email address with the token from the email",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := getRuntime()
		if err != nil {
			return err
		}

		message, err := rt.client.VerifyEmail(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("verification failed: %w", err)
		}
		if message == "" {
			message = "Email verified. You can sign in now."
		}
		fmt.Println(message)
		return nil
	},
}

var authResendVerificationCmd = &cobra.Command{
	Use:   "resend-verification <email>",
	Short: "Request a new verification email",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := getRuntime()
		if err != nil {
			return err
		}

		if err := validate.Var("email", args[0], "required,email"); err != nil {
			return err
		}

		message, err := rt.client.ResendVerification(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if message == "" {
			message = "Verification email sent."
		}
		fmt.Println(message)
		return nil
	},
}

var authForgotPasswordCmd = &cobra.Command{
	Use:   "forgot-password <email>",
	Short: "Request a password reset email",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := getRuntime()
		if err != nil {
			return err
		}

		if err := validate.Var("email", args[0], "required,email"); err != nil {
			return err
		}

		message, err := rt.client.RequestPasswordReset(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if message == "" {
			message = "If the address exists, a reset email is on its way."
		}
		fmt.Println(message)
		return nil
	},
}

var authResetPasswordCmd = &cobra.Command{
	Use:   "reset-password <token>",
	Short: "Set a new password with the token from the reset email",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := getRuntime()
		if err != nil {
			return err
		}

		password, err := promptPassword(cmd, "password")
		if err != nil {
			return err
		}
		if err := validate.Var("password", password, "required,min=6"); err != nil {
			return err
		}

		message, err := rt.client.ResetPassword(cmd.Context(), args[0], password, password)
		if err != nil {
			return fmt.Errorf("password reset failed: %w", err)
		}
		if message == "" {
			message = "Password updated. Sign in with the new password."
		}
		fmt.Println(message)
		return nil
	},
}

var authProfileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Fetch your profile from the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := getRuntime()
		if err != nil {
			return err
		}
		if err := requireAuth(rt); err != nil {
			return err
		}

		user, err := rt.client.Profile(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Printf("Username: %s\n", user.Username)
		if user.DisplayName != "" {
			fmt.Printf("Name:     %s\n", user.DisplayName)
		}
		fmt.Printf("Email:    %s\n", user.Email)
		if user.AvatarURL != "" {
			fmt.Printf("Avatar:   %s\n", user.AvatarURL)
		}
		return nil
	},
}

func init() {
	authRegisterCmd.Flags().String("name", "", "display name")
	authRegisterCmd.Flags().String("username", "", "username (at least 3 characters)")
	authRegisterCmd.Flags().String("email", "", "email address")
	authRegisterCmd.Flags().String("password", "", "password (prompted when omitted)")

	authLoginCmd.Flags().String("username", "", "username")
	authLoginCmd.Flags().String("password", "", "password (prompted when omitted)")

	authResetPasswordCmd.Flags().String("password", "", "new password (prompted when omitted)")

	authCmd.AddCommand(
		authRegisterCmd,
		authLoginCmd,
		authGoogleCmd,
		authLogoutCmd,
		authStatusCmd,
		authVerifyEmailCmd,
		authResendVerificationCmd,
		authForgotPasswordCmd,
		authResetPasswordCmd,
		authProfileCmd,
	)
	rootCmd.AddCommand(authCmd)
}
