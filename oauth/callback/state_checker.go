// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package callback

import (
	"context"
	"crypto/subtle"
)

// SingleStateChecker checks states against a single known state. It is
// concurrently safe.
type SingleStateChecker struct {
	State string
}

// Check will return true if the state equals the checker's State.  An empty
// State never matches.  It satisfies the StateCheckFunc type.
func (s *SingleStateChecker) Check(_ context.Context, state string) bool {
	if s.State == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(s.State), []byte(state)) == 1
}
