// Package cli реализует команды shopkeeper поверх менеджера локального
// хранилища, сервиса авторизации и координатора синхронизации.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/iudanet/shopkeeper/internal/client/api"
	"github.com/iudanet/shopkeeper/internal/client/auth"
	"github.com/iudanet/shopkeeper/internal/client/iocli"
	"github.com/iudanet/shopkeeper/internal/client/storage"
	"github.com/iudanet/shopkeeper/internal/client/storage/boltdb"
	"github.com/iudanet/shopkeeper/internal/client/storage/jsonfile"
	"github.com/iudanet/shopkeeper/internal/client/storage/sqlite"
	"github.com/iudanet/shopkeeper/internal/client/store"
	"github.com/iudanet/shopkeeper/internal/client/sync"
	"github.com/iudanet/shopkeeper/internal/config"
	"github.com/iudanet/shopkeeper/internal/logger"
)

// BuildInfo версия сборки, задаётся через ldflags в main
type BuildInfo struct {
	Version   string
	BuildDate string
	GitCommit string
}

// Cli держит зависимости одного запуска команды
type Cli struct {
	io          iocli.IO
	cfg         *config.Config
	logger      *slog.Logger
	signer      auth.Signer
	store       *store.Manager
	apiClient   *api.Client
	authService *auth.Service
	syncer      *sync.Coordinator
	session     *boltdb.Storage
	activity    *sqlite.Storage
	now         func() time.Time
}

// Option configures a Cli.
type Option func(*Cli)

// WithSigner replaces the interactive challenge signer.
func WithSigner(signer auth.Signer) Option {
	return func(c *Cli) {
		c.signer = signer
	}
}

// New создает Cli. Зависимости открываются в Open.
func New(io iocli.IO, opts ...Option) *Cli {
	c := &Cli{
		io:     io,
		logger: logger.Discard(),
		signer: auth.NewPromptSigner(io),
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Open открывает хранилища и собирает сервисы по конфигурации.
// Локальный документ загружается сразу.
func (c *Cli) Open(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	c.cfg = cfg
	c.logger = log

	session, err := boltdb.New(ctx, cfg.SessionPath)
	if errors.Is(err, storage.ErrStorageLocked) {
		return fmt.Errorf("%w. Is 'shopkeeper sync watch' running? Stop it and try again", err)
	}
	if err != nil {
		return fmt.Errorf("failed to open session storage: %w", err)
	}
	c.session = session

	activity, err := sqlite.New(ctx, cfg.ActivityPath)
	if err != nil {
		_ = c.Close()
		return fmt.Errorf("failed to open activity ledger: %w", err)
	}
	c.activity = activity

	c.store = store.New(jsonfile.New(cfg.StorePath, log), log)
	c.store.Load(ctx)

	c.apiClient = api.NewClient(cfg.APIURL,
		api.WithTimeout(cfg.HTTPTimeout),
		api.WithLogger(log),
	)
	c.authService = auth.NewService(c.apiClient, c.session, c.apiClient.BaseURL(), log)
	c.syncer = sync.NewCoordinator(c.store, c.apiClient, c.authService, log,
		sync.WithMetadata(c.session),
		sync.WithActivity(c.activity),
	)

	return nil
}

// Close закрывает открытые хранилища
func (c *Cli) Close() error {
	var errs []error
	if c.activity != nil {
		if err := c.activity.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close activity ledger: %w", err))
		}
		c.activity = nil
	}
	if c.session != nil {
		if err := c.session.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close session storage: %w", err))
		}
		c.session = nil
	}
	return errors.Join(errs...)
}

// currentAgent возвращает agent_id текущей сессии с понятной ошибкой
func (c *Cli) currentAgent(ctx context.Context) (string, error) {
	session, err := c.authService.Current(ctx)
	switch {
	case errors.Is(err, auth.ErrNotLoggedIn):
		return "", fmt.Errorf("not authenticated. Please run 'shopkeeper auth login' first")
	case errors.Is(err, auth.ErrSessionExpired):
		return "", fmt.Errorf("session has expired. Please run 'shopkeeper auth login' again")
	case err != nil:
		return "", err
	}
	return session.AgentID, nil
}
