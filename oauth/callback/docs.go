// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

/*
callback is a package that provides the http handlers for the Slack side of an
app's OAuth flow: the authorization code callback (in the form of an
http.HandlerFunc) and a Receiver which mounts that callback, plus a signature
verified events endpoint, on a single http.Handler.
*/
package callback
