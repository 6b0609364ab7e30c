// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-uuid"
	gocache "github.com/patrickmn/go-cache"
)

// stateStore keeps the states of pending install attempts.  A state is valid
// once, until its ttl expires.
type stateStore struct {
	c *gocache.Cache
}

func newStateStore(ttl time.Duration) *stateStore {
	return &stateStore{c: gocache.New(ttl, time.Minute)}
}

// New creates and stores a new state.
func (s *stateStore) New() (string, error) {
	id, err := uuid.GenerateUUID()
	if err != nil {
		return "", fmt.Errorf("unable to generate state: %w", err)
	}
	s.c.SetDefault(id, 1)
	return id, nil
}

// Check consumes the state.  It satisfies the callback.StateCheckFunc type.
func (s *stateStore) Check(_ context.Context, state string) bool {
	if state == "" {
		return false
	}
	// the decrement is atomic, so only the first check of a state sees 0
	n, err := s.c.DecrementInt(state, 1)
	if err != nil {
		return false
	}
	return n == 0
}
