// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// capslack provides the server side of a Slack app's OAuth flow: the
// authorization code callback, the token exchange (legacy oauth.access or
// oauth.v2.access) and a signature verified events endpoint.
//
// See the oauth and oauth/callback packages.
package capslack
