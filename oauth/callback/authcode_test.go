// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package callback

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/hashicorp/cap-slack/oauth"
	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthCode(t *testing.T) {
	t.Parallel()
	exchange := func(context.Context, string) (*oauth.Result, error) { return &oauth.Result{}, nil }
	rec := &testRecorder{}
	check := testStateIs("ok")

	tests := []struct {
		name      string
		exchange  oauth.ExchangeFunc
		check     StateCheckFunc
		sFn       SuccessResponseFunc
		eFn       ErrorResponseFunc
		wantErr   bool
		wantIsErr error
		wantMsg   string
	}{
		{"valid", exchange, check, rec.successFn, rec.failFn, false, nil, ""},
		{"nil-exchange", nil, check, rec.successFn, rec.failFn, true, oauth.ErrNilParameter, "exchange func is nil"},
		{"nil-check", exchange, nil, rec.successFn, rec.failFn, true, oauth.ErrNilParameter, "state check func is nil"},
		{"nil-sFn", exchange, check, nil, rec.failFn, true, oauth.ErrNilParameter, "success response func is nil"},
		{"nil-eFn", exchange, check, rec.successFn, nil, true, oauth.ErrNilParameter, "error response func is nil"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert, require := assert.New(t), require.New(t)
			got, err := AuthCode(tt.exchange, tt.check, tt.sFn, tt.eFn)
			if tt.wantErr {
				require.Error(err)
				assert.ErrorIs(err, tt.wantIsErr)
				assert.Contains(err.Error(), tt.wantMsg)
				assert.Nil(got)
				return
			}
			require.NoError(err)
			assert.NotNil(got)
		})
	}
}

func Test_AuthCodeResponses(t *testing.T) {
	t.Parallel()
	wantResult := &oauth.Result{Legacy: &slack.OAuthResponse{AccessToken: "T"}}
	exchangeErr := errors.New("invalid_code")

	tests := []struct {
		name           string
		target         string
		exchangeResult *oauth.Result
		exchangeErr    error
		wantExchanges  int32
		wantCode       string
		wantStatusCode int
		wantSuccess    bool
		wantErr        error
		wantState      string
	}{
		{
			name:           "valid",
			target:         "/cb?state=ok&code=123",
			exchangeResult: wantResult,
			wantExchanges:  1,
			wantCode:       "123",
			wantStatusCode: http.StatusOK,
			wantSuccess:    true,
			wantState:      "ok",
		},
		{
			name:           "invalid-state",
			target:         "/cb?state=bad&code=123",
			wantStatusCode: http.StatusUnauthorized,
			wantErr:        oauth.ErrInvalidState,
			wantState:      "bad",
		},
		{
			name:           "missing-state",
			target:         "/cb?code=123",
			wantStatusCode: http.StatusUnauthorized,
			wantErr:        oauth.ErrInvalidState,
			wantState:      "",
		},
		{
			name:           "exchange-error",
			target:         "/cb?state=ok&code=123",
			exchangeErr:    exchangeErr,
			wantExchanges:  1,
			wantCode:       "123",
			wantStatusCode: http.StatusUnauthorized,
			wantErr:        exchangeErr,
			wantState:      "ok",
		},
		{
			name:           "missing-code-passed-through",
			target:         "/cb?state=ok",
			exchangeResult: wantResult,
			wantExchanges:  1,
			wantCode:       "",
			wantStatusCode: http.StatusOK,
			wantSuccess:    true,
			wantState:      "ok",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert, require := assert.New(t), require.New(t)
			rec := &testRecorder{}
			var exchanges int32
			var gotCode string
			exchange := func(_ context.Context, code string) (*oauth.Result, error) {
				atomic.AddInt32(&exchanges, 1)
				gotCode = code
				return tt.exchangeResult, tt.exchangeErr
			}
			h, err := AuthCode(exchange, testStateIs("ok"), rec.successFn, rec.failFn)
			require.NoError(err)

			w := httptest.NewRecorder()
			h(w, httptest.NewRequest(http.MethodGet, tt.target, nil))

			assert.Equal(tt.wantStatusCode, w.Code)
			assert.Equal(tt.wantExchanges, atomic.LoadInt32(&exchanges))
			if tt.wantExchanges > 0 {
				assert.Equal(tt.wantCode, gotCode)
			}

			successes, failures := rec.counts()
			assert.Equal(1, successes+failures, "exactly one response func must be called")
			if tt.wantSuccess {
				require.Len(rec.successes, 1)
				assert.Same(tt.exchangeResult, rec.successes[0].result)
				assert.Equal(tt.wantState, rec.successes[0].state)
				assert.Equal("login successful", w.Body.String())
				return
			}
			require.Len(rec.failures, 1)
			assert.Same(tt.wantErr, rec.failures[0].err)
			assert.Equal(tt.wantState, rec.failures[0].state)
		})
	}
}

func Test_AuthCodeInvalidStateMessage(t *testing.T) {
	t.Parallel()
	assert, require := assert.New(t), require.New(t)
	rec := &testRecorder{}
	h, err := AuthCode(
		func(context.Context, string) (*oauth.Result, error) {
			t.Fatal("exchange must not be called")
			return nil, nil
		},
		testStateIs("ok"), rec.successFn, rec.failFn,
	)
	require.NoError(err)
	h(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/cb?state=bad&code=123", nil))
	require.Len(rec.failures, 1)
	assert.Equal("Invalid state.", rec.failures[0].err.Error())
	assert.Empty(rec.successes)
}

func Test_AuthCodeStateCheckContext(t *testing.T) {
	t.Parallel()
	assert, require := assert.New(t), require.New(t)
	type ctxKey struct{}
	rec := &testRecorder{}
	var gotValue interface{}
	check := func(ctx context.Context, _ string) bool {
		gotValue = ctx.Value(ctxKey{})
		return false
	}
	h, err := AuthCode(func(context.Context, string) (*oauth.Result, error) { return nil, nil }, check, rec.successFn, rec.failFn)
	require.NoError(err)
	req := httptest.NewRequest(http.MethodGet, "/cb?state=x", nil)
	req = req.WithContext(context.WithValue(req.Context(), ctxKey{}, "alice"))
	h(httptest.NewRecorder(), req)
	assert.Equal("alice", gotValue)
}
