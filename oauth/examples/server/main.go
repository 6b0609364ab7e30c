// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// server is an example Slack app which serves an install link and the OAuth
// callback of the app.
//
// Configuration is read from the environment (and an optional .env file):
//
//	SLACK_CLIENT_ID       required
//	SLACK_CLIENT_SECRET   required
//	SLACK_SIGNING_SECRET  required
//	SLACK_REDIRECT_URL    required, e.g. http://localhost:3000/slack/oauth_redirect
//	SLACK_OAUTH_V2        use oauth.v2.access (default false)
//	SLACK_SCOPES          comma separated bot scopes
//	SLACK_USER_SCOPES     comma separated user scopes (v2 only)
//	SLACK_STATE_TTL       lifetime of an install attempt (default 10m)
//	ADDR                  listen address (default localhost:3000)
//	LOG_LEVEL             trace, debug, info, warn, error (default info)
package main

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hashicorp/cap-slack/oauth"
	"github.com/hashicorp/cap-slack/oauth/callback"
	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

type envConfig struct {
	ClientID      string        `env:"SLACK_CLIENT_ID,required,notEmpty"`
	ClientSecret  string        `env:"SLACK_CLIENT_SECRET,required,notEmpty"`
	SigningSecret string        `env:"SLACK_SIGNING_SECRET,required,notEmpty"`
	RedirectURL   string        `env:"SLACK_REDIRECT_URL,required,notEmpty"`
	UseV2         bool          `env:"SLACK_OAUTH_V2" envDefault:"false"`
	Scopes        []string      `env:"SLACK_SCOPES" envSeparator:","`
	UserScopes    []string      `env:"SLACK_USER_SCOPES" envSeparator:","`
	StateTTL      time.Duration `env:"SLACK_STATE_TTL" envDefault:"10m"`
	Addr          string        `env:"ADDR" envDefault:"localhost:3000"`
	LogLevel      string        `env:"LOG_LEVEL" envDefault:"info"`
}

func loadConfig(envFile string) (*envConfig, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}
	var cfg envConfig
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *envConfig) validate() error {
	var errs *multierror.Error
	if c.StateTTL <= 0 {
		errs = multierror.Append(errs, fmt.Errorf("SLACK_STATE_TTL must be positive, got %s", c.StateTTL))
	}
	if _, _, err := net.SplitHostPort(c.Addr); err != nil {
		errs = multierror.Append(errs, fmt.Errorf("ADDR %q is invalid: %w", c.Addr, err))
	}
	if len(c.UserScopes) > 0 && !c.UseV2 {
		errs = multierror.Append(errs, errors.New("SLACK_USER_SCOPES requires SLACK_OAUTH_V2=true"))
	}
	if hclog.LevelFromString(c.LogLevel) == hclog.NoLevel {
		errs = multierror.Append(errs, fmt.Errorf("LOG_LEVEL %q is unknown", c.LogLevel))
	}
	return errs.ErrorOrNil()
}

func (c *envConfig) oauthConfig(logger hclog.Logger) (*oauth.Config, error) {
	opts := []oauth.Option{
		oauth.WithScopes(c.Scopes...),
		oauth.WithLogger(logger.Named("oauth")),
	}
	if len(c.UserScopes) > 0 {
		opts = append(opts, oauth.WithUserScopes(c.UserScopes...))
	}
	if c.UseV2 {
		opts = append(opts, oauth.WithV2())
	}
	return oauth.NewConfig(c.ClientID, oauth.ClientSecret(c.ClientSecret), oauth.SigningSecret(c.SigningSecret), c.RedirectURL, opts...)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var envFile string
	root := &cobra.Command{
		Use:           "server",
		Short:         "Example Slack app OAuth server",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "path to an optional .env file")

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Serve the install link and the OAuth callback",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(envFile)
			if err != nil {
				return err
			}
			logger := hclog.New(&hclog.LoggerOptions{
				Name:  "slack-oauth",
				Level: hclog.LevelFromString(cfg.LogLevel),
			})
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, logger, nil)
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "install-url",
		Short: "Print a consent URL for a new state",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(envFile)
			if err != nil {
				return err
			}
			c, err := cfg.oauthConfig(hclog.NewNullLogger())
			if err != nil {
				return err
			}
			states := newStateStore(cfg.StateTTL)
			state, err := states.New()
			if err != nil {
				return err
			}
			u, err := c.AuthURL(state)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "state: %s\nurl:   %s\n", state, u)
			return nil
		},
	})
	return root
}

// serve runs the server until ctx is done.  If ready is non-nil, the server's
// base URL is sent on it once the listener is bound.
func serve(ctx context.Context, cfg *envConfig, logger hclog.Logger, ready chan<- string) error {
	c, err := cfg.oauthConfig(logger)
	if err != nil {
		return err
	}
	states := newStateStore(cfg.StateTTL)
	router, err := newRouter(c, states, logger)
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	srv := &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	if ready != nil {
		ready <- "http://" + ln.Addr().String()
	}

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	return nil
}

// newRouter serves GET /slack/install, which starts an install attempt, and
// mounts the callback.Receiver for everything else.
func newRouter(c *oauth.Config, states *stateStore, logger hclog.Logger, opt ...oauth.Option) (http.Handler, error) {
	successFn := func(state string, res *oauth.Result, w http.ResponseWriter, req *http.Request) {
		logger.Info("app installed", "team", res.TeamID(), "exchange", res.Variant().String())
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "<p>Installed to workspace %s. You can close this window.</p>", html.EscapeString(res.TeamID()))
	}
	errorFn := func(state string, e error, w http.ResponseWriter, req *http.Request) {
		if errors.Is(e, oauth.ErrInvalidState) {
			logger.Warn("install attempt with invalid state")
			http.Error(w, "This install link is invalid or has expired. Please start again.", http.StatusBadRequest)
			return
		}
		logger.Error("token exchange failed", "error", e)
		http.Error(w, "Slack did not complete the install. Please start again.", http.StatusBadGateway)
	}

	receiver, err := callback.NewReceiver(c, states.Check, successFn, errorFn, append(opt, callback.WithLogger(logger.Named("receiver")))...)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Get("/slack/install", func(w http.ResponseWriter, req *http.Request) {
		state, err := states.New()
		if err != nil {
			logger.Error("unable to create state", "error", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		u, err := c.AuthURL(state)
		if err != nil {
			logger.Error("unable to create auth url", "error", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		http.Redirect(w, req, u, http.StatusFound)
	})
	r.Mount("/", receiver)
	return r, nil
}
