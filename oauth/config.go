// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package oauth

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	sdkhttp "github.com/hashicorp/cap-slack/sdk/http"
	"github.com/hashicorp/go-hclog"
)

// ClientSecret is an oauth client secret.
type ClientSecret string

// RedactedClientSecret is the redacted string or json for an oauth client secret
const RedactedClientSecret = "[REDACTED: client secret]"

// String will redact the client secret
func (t ClientSecret) String() string {
	return RedactedClientSecret
}

// MarshalJSON will redact the client secret
func (t ClientSecret) MarshalJSON() ([]byte, error) {
	return json.Marshal(RedactedClientSecret)
}

// SigningSecret is the Slack app's signing secret, used to verify inbound
// requests from Slack.
type SigningSecret string

// RedactedSigningSecret is the redacted string or json for a signing secret
const RedactedSigningSecret = "[REDACTED: signing secret]"

// String will redact the signing secret
func (t SigningSecret) String() string {
	return RedactedSigningSecret
}

// MarshalJSON will redact the signing secret
func (t SigningSecret) MarshalJSON() ([]byte, error) {
	return json.Marshal(RedactedSigningSecret)
}

// Config represents the configuration of a Slack app's OAuth authorization
// code flow.  A Config is not modified after it's created and is safe for
// concurrent use.
type Config struct {
	// ClientID is the app's client id
	ClientID string

	// ClientSecret is the app's client secret
	ClientSecret ClientSecret

	// SigningSecret is the app's signing secret.  It's only used to verify
	// signed requests sent by Slack and never to exchange codes.
	SigningSecret SigningSecret

	// RedirectURL is the absolute URL Slack redirects to after the user has
	// granted (or denied) access.  Its path is the path of the callback
	// route, the query and fragment are ignored for routing.  The path is
	// matched strictly: a trailing slash is significant, so a RedirectURL
	// ending in /cb/ is not served at /cb.  The path must not contain {, }
	// or *.  The full URL is sent during the token exchange.
	RedirectURL string

	// UseV2 selects the oauth.v2.access token exchange.  The default is the
	// legacy oauth.access exchange.
	UseV2 bool

	// Scopes is an optional list of (bot) scopes to request in AuthURL.
	Scopes []string

	// UserScopes is an optional list of user scopes to request in AuthURL.
	// It's only supported by the v2 flow.
	UserScopes []string

	// ProviderCA is an optional CA cert to use when sending requests to the
	// Slack Web API.
	ProviderCA string

	// Logger is an optional logger. It defaults to a null logger.
	Logger hclog.Logger
}

// NewConfig composes a new config for a Slack app.
// Supported options:
//
//	WithV2
//	WithScopes
//	WithUserScopes
//	WithProviderCA
//	WithLogger
func NewConfig(clientID string, clientSecret ClientSecret, signingSecret SigningSecret, redirectURL string, opt ...Option) (*Config, error) {
	const op = "oauth.NewConfig"
	opts := getConfigOpts(opt...)
	c := &Config{
		ClientID:      clientID,
		ClientSecret:  clientSecret,
		SigningSecret: signingSecret,
		RedirectURL:   redirectURL,
		UseV2:         opts.withV2,
		Scopes:        opts.withScopes,
		UserScopes:    opts.withUserScopes,
		ProviderCA:    opts.withProviderCA,
		Logger:        opts.withLogger,
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%s: invalid config: %w", op, err)
	}
	return c, nil
}

// Validate the configuration.  Each required field is checked in turn and the
// first violation is returned, naming the field.  It verifies the RedirectURL
// is an absolute http(s) URL, but it doesn't verify it's registered with
// Slack.
func (c *Config) Validate() error {
	const op = "Config.Validate"
	if c == nil {
		return fmt.Errorf("%s: config is nil: %w", op, ErrNilParameter)
	}
	if c.ClientID == "" {
		return fmt.Errorf("%s: client id is empty: %w", op, ErrInvalidParameter)
	}
	if c.ClientSecret == "" {
		return fmt.Errorf("%s: client secret is empty: %w", op, ErrInvalidParameter)
	}
	if c.SigningSecret == "" {
		return fmt.Errorf("%s: signing secret is empty: %w", op, ErrInvalidParameter)
	}
	if c.RedirectURL == "" {
		return fmt.Errorf("%s: redirect URL is empty: %w", op, ErrInvalidParameter)
	}
	if _, err := parseRedirectURL(c.RedirectURL); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if len(c.UserScopes) > 0 && !c.UseV2 {
		return fmt.Errorf("%s: user scopes require the v2 flow: %w", op, ErrInvalidParameter)
	}
	return nil
}

// CallbackPath returns the path component of the RedirectURL, which is the
// path the callback handler must be served from.  The path is returned in the
// form the router matches requests on: the escaped form when the URL carries
// one (for example an encoded /), otherwise the decoded path.
func (c *Config) CallbackPath() (string, error) {
	const op = "Config.CallbackPath"
	u, err := parseRedirectURL(c.RedirectURL)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	switch {
	case u.RawPath != "":
		return u.RawPath, nil
	case u.Path == "":
		return "/", nil
	default:
		return u.Path, nil
	}
}

// HTTPClient is a helper function that creates a new http client for
// requests to the Slack Web API, trusting the optional ProviderCA.
func (c *Config) HTTPClient() (*http.Client, error) {
	const op = "Config.HTTPClient"
	client, err := sdkhttp.NewClient(c.ProviderCA)
	if err != nil {
		if errors.Is(err, sdkhttp.ErrInvalidCertificatePem) {
			return nil, fmt.Errorf("%s: could not parse CA PEM value: %w", op, ErrInvalidCACert)
		}
		return nil, fmt.Errorf("%s: could not get an http client: %w", op, err)
	}
	return client, nil
}

func (c *Config) logger() hclog.Logger {
	if c.Logger == nil {
		return hclog.NewNullLogger()
	}
	return c.Logger
}

// routePatternChars are reserved by the router for url params and wildcards.
const routePatternChars = "{}*"

func parseRedirectURL(s string) (*url.URL, error) {
	u, err := url.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("redirect URL %q is invalid: %w", s, ErrInvalidRedirectURL)
	}
	switch u.Scheme {
	case "http", "https":
	default:
		return nil, fmt.Errorf("redirect URL %q scheme is not http or https: %w", s, ErrInvalidRedirectURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("redirect URL %q has no host: %w", s, ErrInvalidRedirectURL)
	}
	if strings.ContainsAny(u.Path, routePatternChars) || strings.ContainsAny(u.RawPath, routePatternChars) {
		return nil, fmt.Errorf("redirect URL %q path contains one of %q: %w", s, routePatternChars, ErrInvalidRedirectURL)
	}
	return u, nil
}

// configOptions is the set of available options
type configOptions struct {
	withV2         bool
	withScopes     []string
	withUserScopes []string
	withProviderCA string
	withLogger     hclog.Logger
}

// configDefaults is a handy way to get the defaults at runtime and during
// unit tests.
func configDefaults() configOptions {
	return configOptions{
		withLogger: hclog.NewNullLogger(),
	}
}

// getConfigOpts gets the defaults and applies the opt overrides passed in.
func getConfigOpts(opt ...Option) configOptions {
	opts := configDefaults()
	ApplyOpts(&opts, opt...)
	return opts
}

// WithV2 selects the oauth.v2.access token exchange and the v2 consent page.
func WithV2() Option {
	return func(o interface{}) {
		if o, ok := o.(*configOptions); ok {
			o.withV2 = true
		}
	}
}

// WithScopes provides an optional list of scopes for the config
func WithScopes(scopes ...string) Option {
	return func(o interface{}) {
		if o, ok := o.(*configOptions); ok {
			o.withScopes = scopes
		}
	}
}

// WithUserScopes provides an optional list of user scopes for the config
func WithUserScopes(scopes ...string) Option {
	return func(o interface{}) {
		if o, ok := o.(*configOptions); ok {
			o.withUserScopes = scopes
		}
	}
}

// WithProviderCA provides an optional CA cert for the config
func WithProviderCA(cert string) Option {
	return func(o interface{}) {
		if o, ok := o.(*configOptions); ok {
			o.withProviderCA = cert
		}
	}
}

// WithLogger provides an optional logger for the config
func WithLogger(l hclog.Logger) Option {
	return func(o interface{}) {
		if o, ok := o.(*configOptions); ok && l != nil {
			o.withLogger = l
		}
	}
}
