package spotify

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenSource_none(t *testing.T) {
	_, err := TokenSource(context.Background(), Credentials{ClientID: "id"})
	assert.ErrorIs(t, err, ErrNoCredentials)

	_, err = New(Options{})
	assert.ErrorIs(t, err, ErrNoCredentials)
}

func TestTokenSource_static(t *testing.T) {
	var auth string
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_, _ = io.WriteString(w, `{}`)
	}))
	defer api.Close()

	ts, err := TokenSource(context.Background(), Credentials{Token: "abc", ClientID: "ignored"})
	require.NoError(t, err)

	c, err := New(Options{BaseURL: api.URL, TokenSource: ts})
	require.NoError(t, err)

	_, err = c.Search(context.Background(), "abc", 1)
	require.NoError(t, err)
	assert.Equal(t, "Bearer abc", auth)
}

func TestTokenSource_client_credentials(t *testing.T) {
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.Form.Get("grant_type"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"access_token":"cc-token","token_type":"bearer","expires_in":3600}`)
	}))
	defer tokenSrv.Close()

	var auth string
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_, _ = io.WriteString(w, `{}`)
	}))
	defer api.Close()

	ts, err := TokenSource(context.Background(), Credentials{
		ClientID:     "id",
		ClientSecret: "secret",
		TokenURL:     tokenSrv.URL,
	})
	require.NoError(t, err)

	c, err := New(Options{BaseURL: api.URL, TokenSource: ts})
	require.NoError(t, err)

	_, err = c.Search(context.Background(), "abc", 1)
	require.NoError(t, err)
	assert.Equal(t, "Bearer cc-token", auth)
}
