package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/spf13/cobra"

	"github.com/lvyanru/coractl/internal/cli/client"
	"github.com/lvyanru/coractl/internal/cli/config"
	"github.com/lvyanru/coractl/internal/cli/device"
	"github.com/lvyanru/coractl/internal/cli/navigation"
	"github.com/lvyanru/coractl/internal/cli/storage"
	"github.com/lvyanru/coractl/internal/cli/store"
	"github.com/lvyanru/coractl/internal/cli/ui"
	"github.com/lvyanru/coractl/pkg/logger"
)

// errAccessDenied is returned when the guards send a session elsewhere
var errAccessDenied = errors.New("access denied")

// appContext is everything a command needs, built once per invocation
type appContext struct {
	cfg      *config.Config
	storage  storage.Storage
	client   *client.APIClient
	session  *store.SessionStore
	settings *store.SettingsStore
	docs     *store.DocumentStore
	router   *navigation.Router
	closeLog func() error
}

var app *appContext

func setupApp(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		ui.PrintError("failed to load config: %v", err)
		return fmt.Errorf("config load failed")
	}
	if serverFlag != "" {
		cfg.Server = serverFlag
	}
	if verboseFlag {
		cfg.Log.Level = "debug"
	}

	closeLog, err := logger.Setup(cfg.Log)
	if err != nil {
		ui.PrintError("failed to set up logging: %v", err)
		return fmt.Errorf("logger setup failed")
	}
	hlog.SetLogger(logger.NewHertzSlogAdapter(slog.Default()))

	a, err := newAppContext(cfg)
	if err != nil {
		_ = closeLog()
		ui.PrintError("%v", err)
		return fmt.Errorf("client creation failed")
	}
	a.closeLog = closeLog
	app = a
	return nil
}

func teardownApp(cmd *cobra.Command, _ []string) error {
	if app != nil && app.closeLog != nil {
		return app.closeLog()
	}
	return nil
}

func newAppContext(cfg *config.Config) (*appContext, error) {
	st, err := storage.NewFileStorage(cfg.StorageDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	probe, err := device.NewProbe(cfg.Device)
	if err != nil {
		return nil, fmt.Errorf("failed to set up device context: %w", err)
	}

	apiClient, err := client.NewAPIClient(cfg.Server,
		client.WithStorage(st),
		client.WithDevice(probe),
		client.WithTimeout(cfg.Timeout),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return &appContext{
		cfg:      cfg,
		storage:  st,
		client:   apiClient,
		session:  store.NewSessionStore(apiClient, st),
		settings: store.NewSettingsStore(apiClient),
		docs:     store.NewDocumentStore(apiClient, st),
		router:   navigation.NewRouter(),
	}, nil
}

// navSession is the session as the guards see it
func (a *appContext) navSession() navigation.Session {
	st := a.session.State()
	return navigation.Session{IsAuthenticated: st.IsAuthenticated, Role: st.Role}
}

// requirePage opens the first of pages the session may see. When every page
// redirects, the first redirect is printed and errAccessDenied returned.
func (a *appContext) requirePage(pages ...string) (*navigation.Resolution, error) {
	var denied *navigation.Resolution
	for _, page := range pages {
		path, err := a.router.Path(page)
		if err != nil {
			return nil, err
		}
		res, err := a.router.Navigate(path, a.navSession())
		if err != nil {
			return nil, err
		}
		if !res.Redirected() {
			return res, nil
		}
		if denied == nil {
			denied = res
		}
	}

	st := a.session.State()
	if !st.IsAuthenticated {
		ui.PrintError("not authenticated, please login first")
		ui.Println("\nRun 'coractl login' to authenticate.")
	} else {
		ui.PrintError("role %q cannot open this page", st.Role)
		ui.PrintInfo("Redirected to %s", denied.Path)
	}
	return nil, errAccessDenied
}

// confirmAction asks before a destructive operation unless force is set
func confirmAction(force bool, format string, args ...any) (bool, error) {
	if force {
		return true, nil
	}
	ok := false
	prompt := &survey.Confirm{Message: fmt.Sprintf(format, args...)}
	if err := survey.AskOne(prompt, &ok); err != nil {
		return false, fmt.Errorf("confirmation prompt failed: %w", err)
	}
	if !ok {
		ui.PrintInfo("Cancelled")
	}
	return ok, nil
}

// askValue prompts for a required value when it was not given as a flag
func askValue(value *string, message string, secret bool) error {
	if *value != "" {
		return nil
	}
	var prompt survey.Prompt = &survey.Input{Message: message}
	if secret {
		prompt = &survey.Password{Message: message}
	}
	if err := survey.AskOne(prompt, value, survey.WithValidator(survey.Required)); err != nil {
		ui.PrintError("failed to read input: %v", err)
		return fmt.Errorf("input failed")
	}
	return nil
}

// reportFailure prints err the way the web app surfaced it and returns a
// short error for cobra
func reportFailure(summary string, err error) error {
	msg := client.UserMessage(err)
	if msg == "" {
		msg = err.Error()
	}
	ui.PrintError("%s: %s", summary, msg)
	return errors.New(strings.ToLower(summary))
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
