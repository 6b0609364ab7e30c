// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package oauth

import (
	"context"
	"fmt"
	"net/http"

	"github.com/slack-go/slack"
)

// Variant identifies which Slack token exchange a Config uses.
type Variant int

const (
	// Legacy is the oauth.access exchange.
	Legacy Variant = iota

	// V2 is the oauth.v2.access exchange.
	V2
)

// String returns the Slack Web API method of the variant.
func (v Variant) String() string {
	switch v {
	case V2:
		return "oauth.v2.access"
	default:
		return "oauth.access"
	}
}

// Variant returns the token exchange variant selected by the config.
func (c *Config) Variant() Variant {
	if c.UseV2 {
		return V2
	}
	return Legacy
}

// Result is the response of a successful token exchange.  Exactly one of
// Legacy and V2 is set, matching the Variant used for the exchange.  The
// response is passed through as Slack returned it.
type Result struct {
	Legacy *slack.OAuthResponse
	V2     *slack.OAuthV2Response
}

// Variant returns the variant of the exchange which produced the result.
func (r *Result) Variant() Variant {
	if r != nil && r.V2 != nil {
		return V2
	}
	return Legacy
}

// AccessToken returns the primary access token of the result.  For v2 results
// that's the bot token when one was issued, otherwise the authed user's token.
func (r *Result) AccessToken() string {
	switch {
	case r == nil:
		return ""
	case r.V2 != nil:
		if r.V2.AccessToken != "" {
			return r.V2.AccessToken
		}
		return r.V2.AuthedUser.AccessToken
	case r.Legacy != nil:
		return r.Legacy.AccessToken
	default:
		return ""
	}
}

// TeamID returns the id of the workspace the app was installed to.
func (r *Result) TeamID() string {
	switch {
	case r == nil:
		return ""
	case r.V2 != nil:
		return r.V2.Team.ID
	case r.Legacy != nil:
		return r.Legacy.TeamID
	default:
		return ""
	}
}

// ExchangeFunc trades an authorization code for a Result.  Errors returned by
// the Slack Web API (transport failures, non-2xx responses, malformed payloads
// and "ok": false responses) are returned unmodified.
type ExchangeFunc func(ctx context.Context, code string) (*Result, error)

// Exchanger resolves the config's Variant into an ExchangeFunc.  Requests are
// made anonymously (no token) with the client id, client secret, the code and
// the full RedirectURL.  If client is nil, the config's HTTPClient is used.
// There are no retries.
func (c *Config) Exchanger(client *http.Client) (ExchangeFunc, error) {
	const op = "Config.Exchanger"
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if client == nil {
		var err error
		if client, err = c.HTTPClient(); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}
	var (
		clientID     = c.ClientID
		clientSecret = string(c.ClientSecret)
		redirectURL  = c.RedirectURL
		logger       = c.logger()
		variant      = c.Variant()
	)
	logger.Debug("token exchange configured", "method", variant.String())

	switch variant {
	case V2:
		return func(ctx context.Context, code string) (*Result, error) {
			logger.Trace("exchanging authorization code", "method", variant.String())
			resp, err := slack.GetOAuthV2ResponseContext(ctx, client, clientID, clientSecret, code, redirectURL)
			if err != nil {
				return nil, err
			}
			return &Result{V2: resp}, nil
		}, nil
	default:
		return func(ctx context.Context, code string) (*Result, error) {
			logger.Trace("exchanging authorization code", "method", variant.String())
			resp, err := slack.GetOAuthResponseContext(ctx, client, clientID, clientSecret, code, redirectURL)
			if err != nil {
				return nil, err
			}
			return &Result{Legacy: resp}, nil
		}, nil
	}
}
