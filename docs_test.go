// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package capslack_test

import (
	"context"
	"fmt"
	"net/http"

	"github.com/hashicorp/cap-slack/oauth"
	"github.com/hashicorp/cap-slack/oauth/callback"
)

func Example_oauth() {
	// Create a new Config
	c, err := oauth.NewConfig(
		"your_client_id",
		"your_client_secret",
		"your_signing_secret",
		"https://your-app.example.com/slack/oauth_redirect",
		oauth.WithV2(),
		oauth.WithScopes("chat:write"),
	)
	if err != nil {
		// handle error
	}

	// The app generates and stores a state for every install attempt.
	state := "generated-state"
	authURL, err := c.AuthURL(state)
	if err != nil {
		// handle error
	}
	fmt.Println(authURL)

	// Check the state Slack echoes back.
	check := func(ctx context.Context, s string) bool {
		return s == state
	}

	// A function to handle successful installs.
	successFn := func(state string, r *oauth.Result, w http.ResponseWriter, req *http.Request) {
		// persist r.AccessToken() for the team r.TeamID()
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("installed"))
	}
	// A function to handle errors and failed attempts.
	errorFn := func(state string, e error, w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(e.Error()))
	}

	// Create the receiver and mount it.
	r, err := callback.NewReceiver(c, check, successFn, errorFn)
	if err != nil {
		// handle error
	}
	http.Handle("/slack/", r)

	// Output:
	// https://slack.com/oauth/v2/authorize?client_id=your_client_id&redirect_uri=https%3A%2F%2Fyour-app.example.com%2Fslack%2Foauth_redirect&response_type=code&scope=chat%3Awrite&state=generated-state
}
