// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package oauth

import (
	"fmt"
	"strings"

	"golang.org/x/oauth2"
	oauth2slack "golang.org/x/oauth2/slack"
)

// V2Endpoint is Slack's OAuth v2 endpoint.
var V2Endpoint = oauth2.Endpoint{
	AuthURL:  "https://slack.com/oauth/v2/authorize",
	TokenURL: "https://slack.com/api/oauth.v2.access",
}

// Endpoint returns the oauth2 endpoint of the config's Variant.
func (c *Config) Endpoint() oauth2.Endpoint {
	if c.Variant() == V2 {
		return V2Endpoint
	}
	return oauth2slack.Endpoint
}

// AuthURL returns the URL of Slack's consent page for the given state.  The
// caller is responsible for generating the state and for validating it when
// Slack redirects back to the RedirectURL.  Scopes are comma separated, as
// Slack expects.
func (c *Config) AuthURL(state string) (string, error) {
	const op = "Config.AuthURL"
	if err := c.Validate(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if state == "" {
		return "", fmt.Errorf("%s: state is empty: %w", op, ErrInvalidParameter)
	}
	oc := &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: string(c.ClientSecret),
		RedirectURL:  c.RedirectURL,
		Endpoint:     c.Endpoint(),
	}
	var opts []oauth2.AuthCodeOption
	if len(c.Scopes) > 0 {
		opts = append(opts, oauth2.SetAuthURLParam("scope", strings.Join(c.Scopes, ",")))
	}
	if len(c.UserScopes) > 0 {
		opts = append(opts, oauth2.SetAuthURLParam("user_scope", strings.Join(c.UserScopes, ",")))
	}
	return oc.AuthCodeURL(state, opts...), nil
}
