package glpi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// maxAuthAttempts bounds the session-expiry recovery: the original
	// attempt plus exactly one retry after re-authentication.
	maxAuthAttempts = 2

	contentTypeJSON = "application/json"

	// defaultTimeout applies when no HTTP client is injected.
	defaultTimeout = 30 * time.Second
)

// Client is the GLPI API request dispatcher. It lazily establishes a
// session on first use, composes headers per request class, and recovers
// from session expiry with a single re-authentication and retry.
//
// Safe for concurrent use: the session token is the only shared mutable
// state and lives in a lock-guarded store.
type Client struct {
	baseURL    string
	appToken   string
	httpClient *http.Client
	auth       Authenticator
	creds      *credentialStore
	logger     *slog.Logger
}

// NewClient creates a GLPI API client. baseURL is the apirest.php root,
// e.g. "https://glpi.example.com/apirest.php". A nil httpClient gets a
// default with a 30 second timeout so no call can hang indefinitely.
func NewClient(baseURL, appToken string, auth Authenticator, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		appToken:   appToken,
		httpClient: httpClient,
		auth:       auth,
		creds:      &credentialStore{},
		logger:     logger,
	}
}

// inputEnvelope is the GLPI write convention: POST and PUT bodies are
// wrapped in an "input" field.
type inputEnvelope struct {
	Input any `json:"input"`
}

// Get performs a GET request against a resource endpoint, e.g. "Ticket/123".
// GLPI expects Content-Type: application/json even on bodyless calls.
func (c *Client) Get(ctx context.Context, endpoint string, params url.Values) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, endpoint, params, nil, contentTypeJSON)
}

// Post creates a resource. The payload is wrapped in GLPI's input envelope.
func (c *Client) Post(ctx context.Context, endpoint string, payload any) (json.RawMessage, error) {
	body, err := json.Marshal(inputEnvelope{Input: payload})
	if err != nil {
		return nil, fmt.Errorf("%w: encoding request body: %v", ErrValidation, err)
	}

	return c.do(ctx, http.MethodPost, endpoint, nil, body, contentTypeJSON)
}

// Put updates a resource. The payload is wrapped in GLPI's input envelope.
func (c *Client) Put(ctx context.Context, endpoint string, payload any) (json.RawMessage, error) {
	body, err := json.Marshal(inputEnvelope{Input: payload})
	if err != nil {
		return nil, fmt.Errorf("%w: encoding request body: %v", ErrValidation, err)
	}

	return c.do(ctx, http.MethodPut, endpoint, nil, body, contentTypeJSON)
}

// Delete removes a resource.
func (c *Client) Delete(ctx context.Context, endpoint string) error {
	_, err := c.do(ctx, http.MethodDelete, endpoint, nil, nil, contentTypeJSON)
	return err
}

// Search queries GLPI's search engine for an item type and returns the
// raw rows of the "data" array. An absent data field means no matches.
func (c *Client) Search(ctx context.Context, itemtype string, criteria url.Values) (json.RawMessage, error) {
	raw, err := c.Get(ctx, "search/"+itemtype, criteria)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Data json.RawMessage `json:"data"`
	}

	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("glpi: decoding search response: %w", err)
	}

	if parsed.Data == nil {
		return json.RawMessage("[]"), nil
	}

	return parsed.Data, nil
}

// do performs one logical domain operation as an explicit two-attempt loop:
// ensure a session exists, issue the call, and on an authentication-failure
// response re-initialize the session once and retry. A second auth failure
// is terminal. Non-auth failures are surfaced immediately, untouched.
//
// Each retry pins the session token obtained by its own init, so a racing
// call replacing the cached token cannot hand this call a stale one.
func (c *Client) do(ctx context.Context, method, endpoint string, params url.Values, body []byte, contentType string) (json.RawMessage, error) {
	path := "/" + strings.TrimLeft(endpoint, "/")

	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	for attempt := 1; ; attempt++ {
		sessionTok, ok := c.creds.session()
		if !ok || attempt > 1 {
			var err error

			sessionTok, err = c.initSession(ctx)
			if err != nil {
				return nil, err
			}
		}

		includeJSON := contentType == contentTypeJSON

		headers, err := c.buildHeaders(ctx, true, false, includeJSON)
		if err != nil {
			return nil, err
		}

		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}

		req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
		if err != nil {
			return nil, fmt.Errorf("glpi: creating request: %w", err)
		}

		req.Header = headers
		req.Header.Set("Session-Token", sessionTok)

		// Multipart uploads carry their boundary-bearing content type,
		// set here by the HTTP layer rather than the header composer.
		if contentType != "" && !includeJSON {
			req.Header.Set("Content-Type", contentType)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, wrapTransportError(method, path, err)
		}

		respBody, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()

		if readErr != nil {
			return nil, fmt.Errorf("glpi: %s %s: reading response: %w", method, path, readErr)
		}

		if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
			c.logger.Debug("request succeeded",
				slog.String("method", method),
				slog.String("path", path),
				slog.Int("status", resp.StatusCode),
			)

			return respBody, nil
		}

		if isAuthFailure(resp.StatusCode) {
			c.creds.clearSession()

			if attempt < maxAuthAttempts {
				c.logger.Warn("session rejected, re-authenticating",
					slog.String("method", method),
					slog.String("path", path),
					slog.Int("status", resp.StatusCode),
				)

				continue
			}

			return nil, &APIError{
				StatusCode: resp.StatusCode,
				Method:     method,
				Path:       path,
				Body:       string(respBody),
				Err:        ErrAuth,
			}
		}

		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Method:     method,
			Path:       path,
			Body:       string(respBody),
			Err:        classifyStatus(resp.StatusCode),
		}
	}
}

// wrapTransportError classifies a transport-level failure. Deadline
// overruns become ErrTimeout, which the dispatcher never treats as an
// authentication failure.
func wrapTransportError(method, path string, err error) error {
	var nerr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &nerr) && nerr.Timeout()) {
		return fmt.Errorf("%w: %s %s: %v", ErrTimeout, method, path, err)
	}

	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("glpi: %s %s canceled: %w", method, path, err)
	}

	return fmt.Errorf("glpi: %s %s: %w", method, path, err)
}

// firstID extracts the created resource id from a GLPI write response,
// which is either an object or a one-element array.
func firstID(raw json.RawMessage) (int, error) {
	var obj struct {
		ID int `json:"id"`
	}

	if err := json.Unmarshal(raw, &obj); err == nil && obj.ID != 0 {
		return obj.ID, nil
	}

	var list []struct {
		ID int `json:"id"`
	}

	if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 && list[0].ID != 0 {
		return list[0].ID, nil
	}

	return 0, fmt.Errorf("glpi: no id in response: %s", raw)
}
