// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package callback

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/hashicorp/cap-slack/oauth"
	"github.com/hashicorp/go-hclog"
)

// Receiver is the http.Handler of a Slack app's OAuth flow.  It serves:
//
//	GET  <path of the config's RedirectURL>  the authorization code callback
//	POST <events path>                        the signature verified events endpoint
//
// A Receiver is meant to be mounted into a larger server. It is concurrently
// safe and not modified after it's created.
type Receiver struct {
	router       chi.Router
	callbackPath string
	eventsPath   string
}

// ensure that Receiver implements the http.Handler interface
var _ http.Handler = (*Receiver)(nil)

// NewReceiver validates the config and the funcs, then creates a Receiver
// with the callback route registered at the path of the config's RedirectURL.
// Nothing is registered when an error is returned.
//
// Supported options:
//
//	WithEventsPath
//	WithEventsHandler
//	WithHTTPClient
//	WithLogger
func NewReceiver(c *oauth.Config, check StateCheckFunc, sFn SuccessResponseFunc, eFn ErrorResponseFunc, opt ...oauth.Option) (*Receiver, error) {
	const op = "callback.NewReceiver"
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	switch {
	case check == nil:
		return nil, fmt.Errorf("%s: state check func is nil: %w", op, oauth.ErrNilParameter)
	case sFn == nil:
		return nil, fmt.Errorf("%s: success response func is nil: %w", op, oauth.ErrNilParameter)
	case eFn == nil:
		return nil, fmt.Errorf("%s: error response func is nil: %w", op, oauth.ErrNilParameter)
	}
	opts := getReceiverOpts(opt...)
	if !strings.HasPrefix(opts.withEventsPath, "/") {
		return nil, fmt.Errorf("%s: events path %q must start with a /: %w", op, opts.withEventsPath, oauth.ErrInvalidParameter)
	}
	if strings.ContainsAny(opts.withEventsPath, "{}*") {
		return nil, fmt.Errorf("%s: events path %q must not contain {, } or *: %w", op, opts.withEventsPath, oauth.ErrInvalidParameter)
	}
	logger := opts.withLogger
	if logger == nil {
		logger = c.Logger
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	callbackPath, err := c.CallbackPath()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	exchange, err := c.Exchanger(opts.withHTTPClient)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	authCode, err := AuthCode(exchange, check, sFn, eFn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	verifier, err := VerifySignature(c.SigningSecret, logger)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	r := chi.NewRouter()
	r.Get(callbackPath, authCode)
	r.With(verifier).Post(opts.withEventsPath, Events(opts.withEventsHandler, logger))
	logger.Debug("registered routes", "callback", callbackPath, "events", opts.withEventsPath, "exchange", c.Variant().String())

	return &Receiver{
		router:       r,
		callbackPath: callbackPath,
		eventsPath:   opts.withEventsPath,
	}, nil
}

// ServeHTTP implements the http.Handler interface.
func (r *Receiver) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.router.ServeHTTP(w, req)
}

// CallbackPath returns the path of the authorization code callback route.
func (r *Receiver) CallbackPath() string { return r.callbackPath }

// EventsPath returns the path of the events route.
func (r *Receiver) EventsPath() string { return r.eventsPath }

// receiverOptions is the set of available options for NewReceiver
type receiverOptions struct {
	withEventsPath    string
	withEventsHandler http.Handler
	withHTTPClient    *http.Client
	withLogger        hclog.Logger
}

func receiverDefaults() receiverOptions {
	return receiverOptions{
		withEventsPath: DefaultEventsPath,
	}
}

func getReceiverOpts(opt ...oauth.Option) receiverOptions {
	opts := receiverDefaults()
	oauth.ApplyOpts(&opts, opt...)
	return opts
}

// WithEventsPath provides an optional path for the events endpoint.  The
// default is DefaultEventsPath.
func WithEventsPath(p string) oauth.Option {
	return func(o interface{}) {
		if o, ok := o.(*receiverOptions); ok {
			o.withEventsPath = p
		}
	}
}

// WithEventsHandler provides an optional handler for signature verified
// requests to the events endpoint which aren't answered by the Receiver.
func WithEventsHandler(h http.Handler) oauth.Option {
	return func(o interface{}) {
		if o, ok := o.(*receiverOptions); ok {
			o.withEventsHandler = h
		}
	}
}

// WithHTTPClient provides an optional http client for the token exchange.
// The default is the config's HTTPClient.
func WithHTTPClient(c *http.Client) oauth.Option {
	return func(o interface{}) {
		if o, ok := o.(*receiverOptions); ok {
			o.withHTTPClient = c
		}
	}
}

// WithLogger provides an optional logger.  The default is the config's Logger.
func WithLogger(l hclog.Logger) oauth.Option {
	return func(o interface{}) {
		if o, ok := o.(*receiverOptions); ok {
			o.withLogger = l
		}
	}
}
