package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/bnema/jobgate/internal/adapters/jobservice"
	statusadapter "github.com/bnema/jobgate/internal/adapters/render/status"
	tomlrepo "github.com/bnema/jobgate/internal/adapters/repo/toml"
	chainstore "github.com/bnema/jobgate/internal/adapters/secrets/chain"
	filestore "github.com/bnema/jobgate/internal/adapters/secrets/file"
	"github.com/bnema/jobgate/internal/application"
	"github.com/bnema/jobgate/internal/config"
	"github.com/bnema/jobgate/internal/domain"
	"github.com/bnema/jobgate/internal/ports"
)

type app struct {
	cfg            config.Config
	plans          *tomlrepo.PlanRepository
	tokens         *application.TokenService
	registry       *prometheus.Registry
	metrics        *application.Metrics
	httpClient     *http.Client
	clock          ports.Clock
	statusRenderer func(application.Status, statusadapter.RenderOptions) (string, error)
}

func wireApp() (*app, error) {
	cfg, err := config.Load(viper.New())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	plans, err := tomlrepo.NewPlanRepository(cfg.PlansPath)
	if err != nil {
		return nil, fmt.Errorf("wire plan repository: %w", err)
	}

	secretStore, err := newSecretStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("wire secret store: %w", err)
	}

	registry := prometheus.NewRegistry()

	return &app{
		cfg:            cfg,
		plans:          plans,
		tokens:         application.NewTokenService(secretStore),
		registry:       registry,
		metrics:        application.NewMetrics(registry),
		httpClient:     http.DefaultClient,
		clock:          ports.SystemClock{},
		statusRenderer: statusadapter.Render,
	}, nil
}

func newSecretStore(cfg config.Config) (ports.SecretStore, error) {
	if cfg.SecretsBackend == config.SecretsBackendPass {
		return chainstore.NewPassFirstWithFileFallback(cfg.SecretsDir)
	}
	return filestore.NewStore(cfg.SecretsDir), nil
}

func (a *app) accountID() domain.AccountID {
	return domain.AccountID(a.cfg.AccountID)
}

// newSession builds the caches and controllers for the configured account. Nothing is fetched
// until the first command asks for it.
func (a *app) newSession(ctx context.Context) (*application.Session, error) {
	if err := a.cfg.RequireService(); err != nil {
		return nil, err
	}

	token, err := a.serviceToken(ctx)
	if err != nil {
		return nil, err
	}

	catalog, err := a.plans.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load plan catalog: %w", err)
	}

	client := jobservice.Client{
		BaseURL:        a.cfg.BaseURL,
		Token:          token,
		HTTPClient:     a.httpClient,
		RequestTimeout: a.cfg.RequestTimeout,
	}

	return application.NewSession(application.SessionConfig{
		AccountID:       a.accountID(),
		RequestTimeout:  a.cfg.RequestTimeout,
		StaleAfter:      a.cfg.StaleAfter,
		PollInterval:    a.cfg.PollInterval,
		StopConcurrency: a.cfg.StopConcurrency,
	}, client, client, catalog, a.clock, a.metrics), nil
}

func (a *app) serviceToken(ctx context.Context) (string, error) {
	if a.cfg.Token != "" {
		return a.cfg.Token, nil
	}

	token, err := a.tokens.Get(ctx, a.accountID())
	if err != nil {
		if errors.Is(err, application.ErrTokenNotFound) {
			return "", fmt.Errorf("no service token for account %s: run `jg token set` or set JG_TOKEN: %w", a.cfg.AccountID, err)
		}
		return "", err
	}

	return token, nil
}

// userFacingError prints the message meant for the user while keeping the cause for errors.Is.
type userFacingError struct {
	err error
}

func (e userFacingError) Error() string {
	return application.UserMessage(e.err)
}

func (e userFacingError) Unwrap() error {
	return e.err
}

func userError(err error) error {
	if err == nil {
		return nil
	}
	log.WithError(err).Debug("command failed")
	return userFacingError{err: err}
}
