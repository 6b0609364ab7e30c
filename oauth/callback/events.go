// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package callback

import (
	"bytes"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"net/url"

	"github.com/hashicorp/go-hclog"
	"github.com/slack-go/slack/slackevents"
)

// DefaultEventsPath is the path of a Receiver's events endpoint.
const DefaultEventsPath = "/slack/events"

// Events returns the handler of the events endpoint.  It expects requests
// which already passed VerifySignature.  Slack's ssl_check requests and
// url_verification challenges are answered directly, everything else is
// passed to next with the body restored.  If next is nil, the remaining
// requests are acknowledged with an empty 200.
func Events(next http.Handler, logger hclog.Logger) http.HandlerFunc {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return func(w http.ResponseWriter, req *http.Request) {
		body, err := io.ReadAll(req.Body)
		if err != nil {
			http.Error(w, "unable to read request body", http.StatusBadRequest)
			return
		}
		mediaType, _, _ := mime.ParseMediaType(req.Header.Get("Content-Type"))

		switch mediaType {
		case "application/x-www-form-urlencoded":
			if v, err := url.ParseQuery(string(body)); err == nil && v.Get("ssl_check") != "" {
				logger.Trace("answered ssl_check")
				w.WriteHeader(http.StatusOK)
				return
			}
		case "application/json":
			var ev struct {
				slackevents.EventsAPIURLVerificationEvent
				SSLCheck json.RawMessage `json:"ssl_check,omitempty"`
			}
			if err := json.Unmarshal(body, &ev); err == nil {
				if len(ev.SSLCheck) > 0 {
					logger.Trace("answered ssl_check")
					w.WriteHeader(http.StatusOK)
					return
				}
				if ev.Type == slackevents.URLVerification {
					logger.Trace("answered url_verification challenge")
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusOK)
					_ = json.NewEncoder(w).Encode(struct {
						Challenge string `json:"challenge"`
					}{ev.Challenge})
					return
				}
			}
		}

		if next == nil {
			w.WriteHeader(http.StatusOK)
			return
		}
		req.Body = io.NopCloser(bytes.NewReader(body))
		next.ServeHTTP(w, req)
	}
}
