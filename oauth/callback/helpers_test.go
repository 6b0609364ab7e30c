// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package callback

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/hashicorp/cap-slack/oauth"
)

type testSuccess struct {
	state  string
	result *oauth.Result
}

type testFailure struct {
	state string
	err   error
}

// testRecorder records the response funcs' invocations.
type testRecorder struct {
	mu        sync.Mutex
	successes []testSuccess
	failures  []testFailure
}

// successFn is a test SuccessResponseFunc
func (r *testRecorder) successFn(state string, res *oauth.Result, w http.ResponseWriter, _ *http.Request) {
	r.mu.Lock()
	r.successes = append(r.successes, testSuccess{state: state, result: res})
	r.mu.Unlock()
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("login successful"))
}

// failFn is a test ErrorResponseFunc
func (r *testRecorder) failFn(state string, e error, w http.ResponseWriter, _ *http.Request) {
	r.mu.Lock()
	r.failures = append(r.failures, testFailure{state: state, err: e})
	r.mu.Unlock()
	w.WriteHeader(http.StatusUnauthorized)
	j, _ := json.Marshal(map[string]string{"error": e.Error()})
	_, _ = w.Write(j)
}

func (r *testRecorder) counts() (successes, failures int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.successes), len(r.failures)
}

// testStateIs returns a StateCheckFunc accepting only want.
func testStateIs(want string) StateCheckFunc {
	return func(_ context.Context, s string) bool { return s == want }
}
