package cli

import (
	"bufio"
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/vkazlou/askpdf/internal/client/client"
	"github.com/vkazlou/askpdf/internal/client/config"
	"github.com/vkazlou/askpdf/internal/client/services"
	"github.com/vkazlou/askpdf/internal/client/state"
	"github.com/vkazlou/askpdf/internal/common"
	"github.com/vkazlou/askpdf/internal/filex"
	"github.com/vkazlou/askpdf/internal/logging"
)

// App wires the CLI together: configuration, the API client, the local
// mirror store, services, and the shared app state.
type App struct {
	config *config.Config
	log    logging.Logger

	apiClient client.Client
	repos     *client.Repositories
	dbPath    string
	state     *state.AppState

	authService services.AuthService
	convService services.ConversationService
	docService  services.DocumentService

	reader *bufio.Reader
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	dbPath, err := resolveDatabasePath(cfg)
	if err != nil {
		return nil, err
	}

	repos, err := client.InitDatabase(ctx, dbPath)
	if err != nil {
		return nil, err
	}

	apiClient, err := client.NewHTTPClient(cfg.APIBaseURL, log)
	if err != nil {
		_ = repos.Close()
		return nil, err
	}

	app := &App{
		config:    cfg,
		log:       log,
		apiClient: apiClient,
		repos:     repos,
		dbPath:    dbPath,
		state:     state.New(),
		reader:    bufio.NewReader(os.Stdin),
	}
	app.wireServices()
	return app, nil
}

// wireServices (re)builds the service layer over the current repositories.
// Called at startup and again after a store reset.
func (a *App) wireServices() {
	a.authService = services.NewAuthService(a.apiClient, a.state, a.log)
	a.convService = services.NewConversationService(a.apiClient, a.repos.Conversations, a.state, a.log)
	a.docService = services.NewDocumentService(
		a.apiClient,
		a.repos.Documents,
		a.repos.TempDocuments,
		a.repos.Metadata,
		a.state,
		a.log,
		a.config.StatusPollInterval,
	)
}

func resolveDatabasePath(cfg *config.Config) (string, error) {
	if cfg.DatabasePath != "" {
		return cfg.DatabasePath, nil
	}
	dir, err := filex.AppDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, common.AppName+".db"), nil
}

func (a *App) isLoggedIn() bool {
	return a.state.User() != nil
}

// Run restores the cached session and mirror, then hands control to the REPL.
func (a *App) Run(ctx context.Context) {
	defer a.apiClient.Close()
	// closure so a store reset swapping a.repos still closes the live handle
	defer func() { _ = a.repos.Close() }()

	// cookie sessions do not survive restarts, so this only succeeds while
	// the process inherits a valid environment; failures simply mean
	// "not logged in"
	_, _ = a.authService.CurrentUser(ctx)
	if err := a.convService.Load(ctx); err != nil {
		a.log.Warn(ctx, "failed to load cached conversations", "error", err)
	}

	a.Root(ctx)
}
