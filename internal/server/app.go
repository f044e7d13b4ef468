// Package server assembles and runs the Elrond authentication server: it
// opens the database, applies migrations, wires the auth service and serves
// the HTTP API until the process is signalled.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/UdayKhare09/Elrond/internal/logging"
	"github.com/UdayKhare09/Elrond/internal/server/auth"
	"github.com/UdayKhare09/Elrond/internal/server/config"
	httpserver "github.com/UdayKhare09/Elrond/internal/server/http"
	"github.com/UdayKhare09/Elrond/internal/server/mail"
	"github.com/UdayKhare09/Elrond/internal/server/repositories/repomanager"
	"github.com/UdayKhare09/Elrond/internal/server/services"
	"github.com/UdayKhare09/Elrond/internal/server/totp"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	server      *httpserver.Server
}

// openDB is a seam for tests. The pgx driver is registered by repomanager.
var openDB = func(dsn string) (*sql.DB, error) {
	return sql.Open("pgx", dsn)
}

func NewApp(c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	db, err := openDB(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	issuer := auth.NewIssuer([]byte(c.SecretKey), c.TokenValidityDuration, c.MfaTokenValidityDuration)
	notifier := mail.New(mail.Options{
		Host:     c.SMTPHost,
		Port:     c.SMTPPort,
		Username: c.SMTPUsername,
		Password: c.SMTPPassword,
		From:     c.MailFrom,
		LinkTTL:  c.VerificationTokenValidityDuration,
	}, logger.With("module", "mail"))

	svc, err := services.NewAuthService(db, rm, issuer, totp.NewEngine(c.TOTPIssuer), notifier, c, logger.With("module", "auth"))
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("auth service init error: %w", err)
	}

	return &App{
		config:      c,
		logger:      logger,
		db:          db,
		repomanager: rm,
		server:      httpserver.NewServer(c.EndpointAddrHTTP, logger, svc, issuer),
	}, nil
}

// initSignalHandler returns a context cancelled on SIGINT, SIGTERM or SIGQUIT.
func (app *App) initSignalHandler(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
}

// Run checks the database, migrates it and serves HTTP until ctx is done or
// a termination signal arrives. The database is closed on return.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := app.initSignalHandler(ctx)
	defer stop()
	defer func() {
		if err := app.db.Close(); err != nil {
			app.logger.Error(context.Background(), "db close error", "error", err)
		}
	}()

	app.logger.Info(ctx, "Starting app...")

	if err := app.db.PingContext(ctx); err != nil {
		return fmt.Errorf("db ping error: %w", err)
	}
	if err := app.repomanager.RunMigrations(ctx, app.db); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	if err := app.server.Run(ctx); err != nil {
		return fmt.Errorf("http server error: %w", err)
	}

	app.logger.Info(context.Background(), "App stopped")
	return nil
}
