// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package callback

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/hashicorp/cap-slack/oauth"
)

// TestSignRequest signs the request the way Slack does, using the signing
// secret, the body and the timestamp.  It's helpful when testing handlers
// mounted behind VerifySignature.
func TestSignRequest(t *testing.T, req *http.Request, secret oauth.SigningSecret, body []byte, ts time.Time) {
	t.Helper()
	timestamp := strconv.FormatInt(ts.Unix(), 10)
	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write([]byte("v0:" + timestamp + ":"))
	_, _ = mac.Write(body)
	req.Header.Set("X-Slack-Request-Timestamp", timestamp)
	req.Header.Set("X-Slack-Signature", "v0="+hex.EncodeToString(mac.Sum(nil)))
}
