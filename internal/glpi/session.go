package glpi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

type sessionInitResponse struct {
	SessionToken string `json:"session_token"`
}

// initSession exchanges the long-lived credential (static user token or
// OAuth bearer) for a GLPI session token and stores it. This is the only
// call that presents an Authorization header. The obtained token is
// returned so a retrying caller can use its own fresh token regardless of
// racing inits.
func (c *Client) initSession(ctx context.Context) (string, error) {
	headers, err := c.buildHeaders(ctx, false, true, true)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/initSession", nil)
	if err != nil {
		return "", fmt.Errorf("glpi: creating session init request: %w", err)
	}

	req.Header = headers

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", wrapTransportError("GET", "/initSession", err)
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		body = []byte("(failed to read response body)")
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: HTTP %d: %s", ErrSessionInit, resp.StatusCode, body)
	}

	var parsed sessionInitResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("%w: malformed response: %v", ErrSessionInit, err)
	}

	if parsed.SessionToken == "" {
		return "", fmt.Errorf("%w: no session token in response", ErrSessionInit)
	}

	c.creds.setSession(parsed.SessionToken)
	c.logger.Debug("session initialized")

	return parsed.SessionToken, nil
}

// KillSession terminates the current GLPI session and clears the cached
// token. Best-effort: a failed kill is logged, not returned, because the
// session expires server-side anyway.
func (c *Client) KillSession(ctx context.Context) {
	tok, ok := c.creds.session()
	if !ok {
		return
	}

	defer c.creds.clearSession()

	headers, err := c.buildHeaders(ctx, true, false, true)
	if err != nil {
		c.logger.Warn("kill session: building headers", slog.String("error", err.Error()))
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/killSession", nil)
	if err != nil {
		return
	}

	req.Header = headers
	req.Header.Set("Session-Token", tok)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("kill session failed", slog.String("error", err.Error()))
		return
	}

	resp.Body.Close()
	c.logger.Debug("session terminated")
}
