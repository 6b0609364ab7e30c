// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

/*
oauth is a package for the server side of Slack's OAuth 2.0 authorization code
flow.  It supports both the legacy "oauth.access" token exchange and the
"oauth.v2.access" exchange used by granular bot permission apps.

# Config

A Config holds the client credentials, the app's signing secret and the redirect
URL registered with Slack.  The redirect URL's path is the path the callback
handler is served from, see the callback package.

	c, err := oauth.NewConfig(
		"client-id",
		"client-secret",
		"signing-secret",
		"https://your-app.example.com/slack/oauth/callback",
		oauth.WithV2(),
		oauth.WithScopes("channels:read", "chat:write"),
	)

# Exchange

Config.Exchanger resolves the exchange variant once and returns an ExchangeFunc
which trades an authorization code for a Result.  A Result is the token
endpoint's response, passed through without modification.

# AuthURL

Config.AuthURL returns the Slack consent page URL for a state value the caller
generated (and must later validate).

# Testing

StartTestAPI starts a fake Slack Web API which records every token exchange it
receives.  Its HTTPClient() routes all requests to the fake.
*/
package oauth
