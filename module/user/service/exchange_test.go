package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"AstralLink/tools/errs"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExchangeForwardsSessionHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "sess-123", r.Header.Get("X-Session-ID"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"ext-1","email":"a@x.io","name":"Alice","picture":"p.png","session_token":"tok-1"}`))
	}))
	defer srv.Close()

	cli := NewIdentityClient(srv.URL)
	ident, err := cli.Exchange(context.Background(), "sess-123")
	require.NoError(t, err)
	assert.Equal(t, "a@x.io", ident.Email)
	assert.Equal(t, "tok-1", ident.SessionToken)
	assert.Equal(t, "Alice", ident.Name)
}

func TestExchangeRejectedUpstream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	cli := NewIdentityClient(srv.URL)
	_, err := cli.Exchange(context.Background(), "bad")
	assert.True(t, errors.Is(err, errs.ErrArgs))
}

func TestExchangeIncompletePayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"email":"a@x.io"}`))
	}))
	defer srv.Close()

	cli := NewIdentityClient(srv.URL)
	_, err := cli.Exchange(context.Background(), "sess")
	assert.True(t, errors.Is(err, errs.ErrArgs))
}
