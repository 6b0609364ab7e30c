// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package http

import (
	"bytes"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	t.Parallel()
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)

	var buf bytes.Buffer
	require.NoError(t, pem.Encode(&buf, &pem.Block{Type: "CERTIFICATE", Bytes: srv.Certificate().Raw}))
	caPEM := buf.String()

	t.Run("with-ca", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		c, err := NewClient(caPEM)
		require.NoError(err)
		resp, err := c.Get(srv.URL)
		require.NoError(err)
		defer resp.Body.Close()
		assert.Equal(http.StatusNoContent, resp.StatusCode)
	})
	t.Run("system-roots", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		c, err := NewClient("")
		require.NoError(err)
		_, err = c.Get(srv.URL)
		assert.Error(err)
	})
	t.Run("bad-pem", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		c, err := NewClient("not a pem")
		require.Error(err)
		assert.ErrorIs(err, ErrInvalidCertificatePem)
		assert.Nil(c)
	})
}
