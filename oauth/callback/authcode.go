// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package callback

import (
	"fmt"
	"net/http"

	"github.com/hashicorp/cap-slack/oauth"
)

// AuthCode creates a Slack authorization code callback handler which uses
// the StateCheckFunc to validate the request's "state" parameter and the
// ExchangeFunc to trade the request's "code" parameter for tokens.
//
// For every request exactly one of the SuccessResponseFunc and the
// ErrorResponseFunc is called, once.  The handler never writes a response
// itself.
func AuthCode(exchange oauth.ExchangeFunc, check StateCheckFunc, sFn SuccessResponseFunc, eFn ErrorResponseFunc) (http.HandlerFunc, error) {
	const op = "callback.AuthCode"
	switch {
	case exchange == nil:
		return nil, fmt.Errorf("%s: exchange func is nil: %w", op, oauth.ErrNilParameter)
	case check == nil:
		return nil, fmt.Errorf("%s: state check func is nil: %w", op, oauth.ErrNilParameter)
	case sFn == nil:
		return nil, fmt.Errorf("%s: success response func is nil: %w", op, oauth.ErrNilParameter)
	case eFn == nil:
		return nil, fmt.Errorf("%s: error response func is nil: %w", op, oauth.ErrNilParameter)
	}
	return func(w http.ResponseWriter, req *http.Request) {
		ctx := req.Context()
		q := req.URL.Query()
		reqState := q.Get("state")

		if !check(ctx, reqState) {
			eFn(reqState, oauth.ErrInvalidState, w, req)
			return
		}

		// a missing code is passed through and left to Slack to reject
		result, err := exchange(ctx, q.Get("code"))
		if err != nil {
			eFn(reqState, err, w, req)
			return
		}
		sFn(reqState, result, w, req)
	}, nil
}
