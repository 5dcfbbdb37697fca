package spotify

import (
	"context"
	"errors"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// ErrNoCredentials is returned when neither a token nor client credentials
// are configured.
var ErrNoCredentials = errors.New("spotify: no credentials configured (set spotify.token or spotify.client_id/client_secret)")

// Credentials selects how requests are authorized. A static Token wins over
// client credentials.
type Credentials struct {
	Token        string
	ClientID     string
	ClientSecret string
	TokenURL     string
}

// TokenSource resolves creds into an oauth2 token source. Client credentials
// tokens are fetched lazily and refreshed on expiry.
func TokenSource(ctx context.Context, creds Credentials) (oauth2.TokenSource, error) {
	switch {
	case creds.Token != "":
		return oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: creds.Token,
			TokenType:   "Bearer",
		}), nil
	case creds.ClientID != "" && creds.ClientSecret != "":
		cc := clientcredentials.Config{
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
			TokenURL:     creds.TokenURL,
		}
		return cc.TokenSource(ctx), nil
	default:
		return nil, ErrNoCredentials
	}
}
