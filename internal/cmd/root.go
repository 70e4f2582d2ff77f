// Package cmd implements the gametracker command tree.
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gametracker/gametracker/internal/api"
	"github.com/gametracker/gametracker/internal/config"
	"github.com/gametracker/gametracker/internal/errors"
	"github.com/gametracker/gametracker/internal/gateway"
	"github.com/gametracker/gametracker/internal/log"
	"github.com/gametracker/gametracker/internal/session"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "gametracker",
	Short: "Track your games, library, and reviews from the terminal",
	Long: `gametracker is a terminal client for the GameTracker community.
It lets you browse the game catalog, manage your personal library,
write reviews, and take part in the forum, with a persistent login
that survives between runs.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with a context, so commands
// abort cleanly on SIGINT.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/gametracker/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// runtime bundles everything a command needs to talk to the API
type runtime struct {
	cfg    *config.Config
	logger *log.Logger
	store  *session.Store
	client *api.Client

	// onSessionExpired is swapped out by browse mode so the TUI gets
	// the expiry instead of the terminal.
	onSessionExpired func()
}

var app *runtime

// getRuntime builds the shared client stack on first use
func getRuntime() (*runtime, error) {
	if app != nil {
		return app, nil
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	logConfig := log.DefaultConfig()
	logConfig.Level = log.ParseLevel(cfg.Log.Level)
	logConfig.Format = log.ParseFormat(cfg.Log.Format)
	if verbose {
		logConfig = log.VerboseConfig()
	}
	logger := log.New(logConfig)
	log.SetDefaultLogger(logger)

	rt := &runtime{
		cfg:    cfg,
		logger: logger,
		store:  session.NewStore(cfg.SessionPath(), logger),
		onSessionExpired: func() {
			fmt.Println("Your session has expired. Please run 'gametracker auth login'.")
		},
	}

	transport := gateway.New(cfg.APIURL, rt.store,
		gateway.WithLogger(logger),
		gateway.WithOnSessionExpired(func() {
			if rt.onSessionExpired != nil {
				rt.onSessionExpired()
			}
		}),
	)
	rt.client = api.NewClient(cfg.APIURL, transport.Client(cfg.Timeout()), rt.store, logger)
	rt.client.RestoreSession()

	app = rt
	return app, nil
}

// requireAuth fails fast when the command needs a signed-in user
func requireAuth(rt *runtime) error {
	if !rt.store.IsAuthenticated() {
		return errors.NewAuthRequiredError()
	}
	return nil
}
