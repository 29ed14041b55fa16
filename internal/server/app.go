// Package server initializes and runs the VaultKeeper server.
// It wires the database-backed repositories, the credential cipher, the
// reset-code store, and the mail collaborator into the service layer,
// runs migrations, and serves HTTP until a termination signal arrives.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/vaultkeeper/internal/cryptox"
	"github.com/dmitrijs2005/vaultkeeper/internal/logging"
	"github.com/dmitrijs2005/vaultkeeper/internal/server/config"
	vhttp "github.com/dmitrijs2005/vaultkeeper/internal/server/http"
	"github.com/dmitrijs2005/vaultkeeper/internal/server/mail"
	"github.com/dmitrijs2005/vaultkeeper/internal/server/otp"
	"github.com/dmitrijs2005/vaultkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/vaultkeeper/internal/server/services"
)

type App struct {
	config *config.Config
	logger logging.Logger
	repos  repomanager.RepositoryManager
	users  *services.UserService
	creds  *services.CredentialService
}

func NewApp(cfg *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	rm, err := repomanager.NewPostgresRepositoryManager(cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	cipher, err := cryptox.NewCipher(cfg.EncryptionSecret)
	if err != nil {
		return nil, fmt.Errorf("cipher init error: %w", err)
	}

	mailer := mail.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPFrom)

	us := services.NewUserService(rm.Users(), otp.NewStore(), mailer, logger, cfg)
	cs := services.NewCredentialService(rm.Credentials(), cipher, logger)

	return &App{config: cfg, logger: logger, repos: rm, users: us, creds: cs}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := vhttp.NewServer(app.config.EndpointAddr, app.logger, app.users, app.creds, app.config.SecretKey)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.repos.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
}
