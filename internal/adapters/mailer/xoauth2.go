package mailer

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
)

// googleTokenSource refreshes Gmail access tokens from a long-lived refresh token.
func googleTokenSource(clientID, clientSecret, refreshToken string) oauth2.TokenSource {
	cfg := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     endpoints.Google,
		RedirectURL:  "https://developers.google.com/oauthplayground",
	}
	return cfg.TokenSource(context.Background(), &oauth2.Token{RefreshToken: refreshToken})
}

// xoauth2 is the SASL XOAUTH2 mechanism used by Gmail SMTP.
type xoauth2 struct {
	user string
	ts   oauth2.TokenSource
}

func (a *xoauth2) Start(server *smtp.ServerInfo) (string, []byte, error) {
	if !server.TLS {
		return "", nil, errors.New("xoauth2: refusing to authenticate over an unencrypted connection")
	}
	tok, err := a.ts.Token()
	if err != nil {
		return "", nil, fmt.Errorf("xoauth2: refresh access token: %w", err)
	}
	resp := "user=" + a.user + "\x01auth=Bearer " + tok.AccessToken + "\x01\x01"
	return "XOAUTH2", []byte(resp), nil
}

func (a *xoauth2) Next(fromServer []byte, more bool) ([]byte, error) {
	if more {
		// the server sends a JSON error challenge; an empty reply ends the exchange
		return nil, fmt.Errorf("xoauth2: %s", fromServer)
	}
	return nil, nil
}
