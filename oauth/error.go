// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package oauth

import (
	"errors"
)

var (
	ErrInvalidParameter   = errors.New("invalid parameter")
	ErrNilParameter       = errors.New("nil parameter")
	ErrInvalidCACert      = errors.New("invalid CA certificate")
	ErrInvalidRedirectURL = errors.New("invalid redirect URL")
	ErrInvalidSignature   = errors.New("invalid signature")

	// ErrInvalidState is passed to the error response func when the state
	// check rejects the callback's state parameter. The message is part of
	// the package's contract and callers may match on it.
	ErrInvalidState = errors.New("Invalid state.")
)
