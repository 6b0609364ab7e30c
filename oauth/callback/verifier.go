// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package callback

import (
	"bytes"
	"fmt"
	"io"
	"net/http"

	"github.com/hashicorp/cap-slack/oauth"
	"github.com/hashicorp/go-hclog"
	"github.com/slack-go/slack"
)

// maxRequestBodyBytes caps the body of signed requests read by VerifySignature.
const maxRequestBodyBytes = 1 << 20

// VerifySignature returns middleware which verifies Slack's request signature
// (the X-Slack-Signature and X-Slack-Request-Timestamp headers) using the
// app's signing secret.  Requests with a missing, stale or invalid signature
// are rejected with a 401.  The body of verified requests is restored before
// calling next.
func VerifySignature(secret oauth.SigningSecret, logger hclog.Logger) (func(http.Handler) http.Handler, error) {
	const op = "callback.VerifySignature"
	if secret == "" {
		return nil, fmt.Errorf("%s: signing secret is empty: %w", op, oauth.ErrInvalidParameter)
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			body, err := io.ReadAll(http.MaxBytesReader(w, req.Body, maxRequestBodyBytes))
			if err != nil {
				logger.Debug("unable to read signed request body", "error", err)
				http.Error(w, "unable to read request body", http.StatusBadRequest)
				return
			}
			if err := verify(secret, req.Header, body); err != nil {
				logger.Debug("rejected request", "path", req.URL.Path, "error", err)
				http.Error(w, oauth.ErrInvalidSignature.Error(), http.StatusUnauthorized)
				return
			}
			req.Body = io.NopCloser(bytes.NewReader(body))
			next.ServeHTTP(w, req)
		})
	}, nil
}

func verify(secret oauth.SigningSecret, h http.Header, body []byte) error {
	sv, err := slack.NewSecretsVerifier(h, string(secret))
	if err != nil {
		return fmt.Errorf("%s: %w", err, oauth.ErrInvalidSignature)
	}
	if _, err := sv.Write(body); err != nil {
		return fmt.Errorf("%s: %w", err, oauth.ErrInvalidSignature)
	}
	if err := sv.Ensure(); err != nil {
		return fmt.Errorf("%s: %w", err, oauth.ErrInvalidSignature)
	}
	return nil
}
