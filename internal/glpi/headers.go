package glpi

import (
	"context"
	"net/http"
)

// buildHeaders composes the header set for one request class. The rules:
//
//	App-Token      always
//	Content-Type   application/json only when includeContentType — never
//	               for multipart uploads, where the HTTP layer sets the
//	               boundary itself
//	Authorization  only when includeAuthorization, i.e. only during
//	               session init; regular domain calls never present the
//	               long-lived credential
//	Session-Token  when includeSession and a session token is cached
//
// The OAuth variant of the Authenticator may refresh its access token here,
// which is the only I/O this function can perform.
func (c *Client) buildHeaders(ctx context.Context, includeSession, includeAuthorization, includeContentType bool) (http.Header, error) {
	h := http.Header{}
	h.Set("App-Token", c.appToken)

	if includeContentType {
		h.Set("Content-Type", "application/json")
	}

	if includeAuthorization {
		authz, err := c.auth.AuthorizationValue(ctx)
		if err != nil {
			return nil, err
		}

		h.Set("Authorization", authz)
	}

	if includeSession {
		if tok, ok := c.creds.session(); ok {
			h.Set("Session-Token", tok)
		}
	}

	return h, nil
}
