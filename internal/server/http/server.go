// Package http exposes AuthService over a JSON HTTP API routed with
// gorilla/mux.
package http

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/UdayKhare09/Elrond/internal/logging"
	"github.com/UdayKhare09/Elrond/internal/server/auth"
	"github.com/UdayKhare09/Elrond/internal/server/models"
	"github.com/UdayKhare09/Elrond/internal/server/services"
	"github.com/gorilla/mux"
)

const (
	reqBodySizeLimit = 1 << 20
	shutdownTimeout  = 10 * time.Second
)

// AuthService is the business API the handlers call.
type AuthService interface {
	Register(ctx context.Context, req services.RegisterRequest) (*models.User, error)
	VerifyEmail(ctx context.Context, token string) error
	ResendVerification(ctx context.Context, email string) error
	Login(ctx context.Context, identifier, password string) (*services.LoginResult, error)
	VerifyMfa(ctx context.Context, code, challengeToken string) (string, error)
	SetupMfa(ctx context.Context, username string) (*services.MfaSetup, error)
	EnableMfa(ctx context.Context, username, code string) error
	DisableMfa(ctx context.Context, username, code string) error
	Profile(ctx context.Context, username string) (*models.User, error)
}

type Server struct {
	address string
	auth    AuthService
	issuer  *auth.Issuer
	logger  logging.Logger
	router  *mux.Router
}

func NewServer(address string, l logging.Logger, svc AuthService, issuer *auth.Issuer) *Server {
	s := &Server{
		address: address,
		auth:    svc,
		issuer:  issuer,
		logger:  l.With("module", "http_server"),
	}
	s.router = s.routes()
	return s
}

// Handler returns the fully wired router.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(s.handleNotFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(s.handleMethodNotAllowed)

	// middleware runs in registration order
	r.Use(s.recoverMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(bodySizeLimitMiddleware)

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	a := r.PathPrefix("/api/v1/auth").Subrouter()
	a.HandleFunc("/register", s.handleRegister).Methods(http.MethodPost)
	a.HandleFunc("/verify-email", s.handleVerifyEmail).Methods(http.MethodGet)
	a.HandleFunc("/resend-verification", s.handleResendVerification).Methods(http.MethodPost)
	a.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)
	a.HandleFunc("/mfa/verify", s.handleVerifyMfa).Methods(http.MethodPost)

	mfa := a.PathPrefix("/mfa").Subrouter()
	mfa.Use(s.requireSession)
	mfa.HandleFunc("/setup", s.handleSetupMfa).Methods(http.MethodPost)
	mfa.HandleFunc("/enable", s.handleEnableMfa).Methods(http.MethodPost)
	mfa.HandleFunc("/disable", s.handleDisableMfa).Methods(http.MethodPost)

	u := r.PathPrefix("/api/v1/user").Subrouter()
	u.Use(s.requireSession)
	u.HandleFunc("/me", s.handleMe).Methods(http.MethodGet)

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.serve(ctx, listen)
}

func (s *Server) serve(ctx context.Context, listen net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(context.Background(), "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(context.Background(), "shutdown failed", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
