// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package callback

import (
	"context"
	"net/http"

	"github.com/hashicorp/cap-slack/oauth"
)

// StateCheckFunc is used by callbacks to validate the state parameter Slack
// echoes back.  The state is "" when the parameter is missing.  It returns
// true when the state belongs to an authorization attempt the app started.
//
// Implementations must be concurrently safe, since the func will be used
// within a concurrent http.Handler.
type StateCheckFunc func(ctx context.Context, state string) bool

// SuccessResponseFunc is used by callbacks to create a http response when the
// callback is successful.
//
// The function state parameter will contain the state that was returned by
// Slack.  The oauth.Result is the unmodified response of the token exchange.
// The function should use the http.ResponseWriter to send back whatever
// content (headers, html, JSON, redirects, etc) it wishes to the browser that
// completed the flow.  It's also the place to persist the tokens, if the app
// needs them.
type SuccessResponseFunc func(state string, r *oauth.Result, w http.ResponseWriter, req *http.Request)

// ErrorResponseFunc is used by callbacks to create a http response when the
// callback fails.
//
// The error is oauth.ErrInvalidState when the state check failed, otherwise
// it's the error returned by the token exchange.  The callbacks never write a
// response themselves, so the function should always write one.
type ErrorResponseFunc func(state string, e error, w http.ResponseWriter, req *http.Request)
