package glpi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingAuth is an Authenticator that always fails, for testing credential
// acquisition errors.
type failingAuth struct{}

func (failingAuth) AuthorizationValue(_ context.Context) (string, error) {
	return "", errors.New("credential store unavailable")
}

// recordedRequest captures the parts of an incoming request the tests
// assert on.
type recordedRequest struct {
	Method        string
	Path          string
	AppToken      string
	SessionToken  string
	Authorization string
	ContentType   string
	Body          []byte
}

// fakeGLPI is a minimal GLPI API double. It hands out session tokens
// S1, S2, ... from /initSession and records every request it sees.
type fakeGLPI struct {
	t *testing.T

	mu       sync.Mutex
	requests []recordedRequest
	sessions atomic.Int32

	// handle serves everything that is not /initSession.
	handle http.HandlerFunc
}

func newFakeGLPI(t *testing.T, handle http.HandlerFunc) *fakeGLPI {
	t.Helper()
	return &fakeGLPI{t: t, handle: handle}
}

func (f *fakeGLPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{
		Method:        r.Method,
		Path:          r.URL.Path,
		AppToken:      r.Header.Get("App-Token"),
		SessionToken:  r.Header.Get("Session-Token"),
		Authorization: r.Header.Get("Authorization"),
		ContentType:   r.Header.Get("Content-Type"),
		Body:          body,
	})
	f.mu.Unlock()

	if r.URL.Path == "/initSession" {
		n := f.sessions.Add(1)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"session_token":"S` + string(rune('0'+n)) + `"}`))

		return
	}

	f.handle(w, r)
}

func (f *fakeGLPI) recorded() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]recordedRequest, len(f.requests))
	copy(out, f.requests)

	return out
}

// byPath returns the recorded requests for one path.
func (f *fakeGLPI) byPath(path string) []recordedRequest {
	var out []recordedRequest

	for _, req := range f.recorded() {
		if req.Path == path {
			out = append(out, req)
		}
	}

	return out
}

// testLogger discards output so test logs stay quiet.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, url string) *Client {
	t.Helper()
	return NewClient(url, "app-token-1", NewUserTokenAuth("user-token-1"), http.DefaultClient, testLogger())
}

func okJSON(w http.ResponseWriter, body string) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}

func TestDo_SessionInitializedLazilyAndReused(t *testing.T) {
	fake := newFakeGLPI(t, func(w http.ResponseWriter, _ *http.Request) {
		okJSON(w, `{"id":1}`)
	})
	srv := httptest.NewServer(fake)
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	_, err := client.Get(context.Background(), "Ticket/1", nil)
	require.NoError(t, err)

	_, err = client.Get(context.Background(), "Ticket/2", nil)
	require.NoError(t, err)

	// One init for two domain calls.
	assert.Len(t, fake.byPath("/initSession"), 1)
	assert.Len(t, fake.byPath("/Ticket/1"), 1)
	assert.Len(t, fake.byPath("/Ticket/2"), 1)
}

func TestDo_AuthorizationOnlyOnSessionInit(t *testing.T) {
	fake := newFakeGLPI(t, func(w http.ResponseWriter, _ *http.Request) {
		okJSON(w, `{"id":1}`)
	})
	srv := httptest.NewServer(fake)
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	_, err := client.Get(context.Background(), "Contract/7", nil)
	require.NoError(t, err)

	inits := fake.byPath("/initSession")
	require.Len(t, inits, 1)
	assert.Equal(t, "user_token user-token-1", inits[0].Authorization)
	assert.Equal(t, "app-token-1", inits[0].AppToken)
	assert.Empty(t, inits[0].SessionToken)

	calls := fake.byPath("/Contract/7")
	require.Len(t, calls, 1)
	assert.Empty(t, calls[0].Authorization, "domain calls must not carry the long-lived credential")
	assert.Equal(t, "app-token-1", calls[0].AppToken)
	assert.Equal(t, "S1", calls[0].SessionToken)
	assert.Equal(t, "application/json", calls[0].ContentType, "GLPI requires the JSON content type even on GET")
}

func TestDo_SessionExpiryRetriesOnceWithFreshToken(t *testing.T) {
	var calls atomic.Int32

	fake := newFakeGLPI(t, func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		okJSON(w, `{"id":42}`)
	})
	srv := httptest.NewServer(fake)
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	raw, err := client.Get(context.Background(), "Ticket/42", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":42}`, string(raw))

	domain := fake.byPath("/Ticket/42")
	require.Len(t, domain, 2)
	assert.Equal(t, "S1", domain[0].SessionToken)
	assert.Equal(t, "S2", domain[1].SessionToken, "retry must carry the fresh session token")

	assert.Len(t, fake.byPath("/initSession"), 2)
}

func TestDo_SecondAuthFailureIsTerminal(t *testing.T) {
	fake := newFakeGLPI(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`["ERROR_SESSION_TOKEN_INVALID"]`))
	})
	srv := httptest.NewServer(fake)
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	_, err := client.Get(context.Background(), "Ticket/1", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAuth)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)

	// Exactly two domain attempts, no more.
	assert.Len(t, fake.byPath("/Ticket/1"), 2)
	assert.Len(t, fake.byPath("/initSession"), 2)
}

func TestDo_ForbiddenAlsoTriggersReauth(t *testing.T) {
	var calls atomic.Int32

	fake := newFakeGLPI(t, func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusForbidden)
			return
		}

		okJSON(w, `{"id":5}`)
	})
	srv := httptest.NewServer(fake)
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	_, err := client.Get(context.Background(), "Contract/5", nil)
	require.NoError(t, err)
	assert.Len(t, fake.byPath("/Contract/5"), 2)
}

func TestDo_NonAuthErrorsSurfaceImmediately(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		sentinel error
	}{
		{"bad request", http.StatusBadRequest, ErrBadRequest},
		{"not found", http.StatusNotFound, ErrNotFound},
		{"server error", http.StatusInternalServerError, ErrServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := newFakeGLPI(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"message":"nope"}`))
			})
			srv := httptest.NewServer(fake)
			defer srv.Close()

			client := newTestClient(t, srv.URL)

			_, err := client.Get(context.Background(), "Ticket/9", nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.sentinel)

			// No retry for non-auth failures.
			assert.Len(t, fake.byPath("/Ticket/9"), 1)
			assert.Len(t, fake.byPath("/initSession"), 1)
		})
	}
}

func TestDo_SessionInitFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/initSession", r.URL.Path)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`["ERROR_WRONG_APP_TOKEN_PARAMETER"]`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	_, err := client.Get(context.Background(), "Ticket/1", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSessionInit)
	assert.ErrorIs(t, err, ErrAuth)
	assert.Contains(t, err.Error(), "ERROR_WRONG_APP_TOKEN_PARAMETER")
}

func TestDo_CredentialAcquisitionFailure(t *testing.T) {
	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "app-token-1", failingAuth{}, http.DefaultClient, testLogger())

	_, err := client.Get(context.Background(), "Ticket/1", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "credential store unavailable")

	// Header composition failed before any request left the client.
	assert.Equal(t, int32(0), calls.Load())
}

func TestDo_TimeoutNeverTriggersReauth(t *testing.T) {
	var domainCalls atomic.Int32

	fake := newFakeGLPI(t, func(w http.ResponseWriter, _ *http.Request) {
		domainCalls.Add(1)
		time.Sleep(200 * time.Millisecond)
		okJSON(w, `{"id":1}`)
	})
	srv := httptest.NewServer(fake)
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Get(ctx, "Ticket/1", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTimeout)
	assert.NotErrorIs(t, err, ErrAuth)

	assert.Equal(t, int32(1), domainCalls.Load(), "timeouts must not be retried as auth failures")
}

func TestPost_WrapsBodyInInputEnvelope(t *testing.T) {
	fake := newFakeGLPI(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":12}`))
	})
	srv := httptest.NewServer(fake)
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	raw, err := client.Post(context.Background(), "Ticket", map[string]any{"name": "Printer broken"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":12}`, string(raw))

	calls := fake.byPath("/Ticket")
	require.Len(t, calls, 1)
	assert.Equal(t, "application/json", calls[0].ContentType)
	assert.JSONEq(t, `{"input":{"name":"Printer broken"}}`, string(calls[0].Body))
}

func TestDo_RetryResendsFullBody(t *testing.T) {
	var calls atomic.Int32

	fake := newFakeGLPI(t, func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":3}`))
	})
	srv := httptest.NewServer(fake)
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	_, err := client.Post(context.Background(), "Contract", map[string]any{"name": "SLA"})
	require.NoError(t, err)

	domain := fake.byPath("/Contract")
	require.Len(t, domain, 2)
	assert.JSONEq(t, `{"input":{"name":"SLA"}}`, string(domain[0].Body))
	assert.JSONEq(t, `{"input":{"name":"SLA"}}`, string(domain[1].Body), "retry must resend the full body")
}

func TestSearch_ReturnsDataRows(t *testing.T) {
	fake := newFakeGLPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/Contract", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("range"))
		okJSON(w, `{"totalcount":2,"data":[{"id":1},{"id":2}]}`)
	})
	srv := httptest.NewServer(fake)
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	raw, err := client.Search(context.Background(), "Contract", url.Values{"range": {"1"}})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":1},{"id":2}]`, string(raw))
}

func TestSearch_AbsentDataMeansNoMatches(t *testing.T) {
	fake := newFakeGLPI(t, func(w http.ResponseWriter, _ *http.Request) {
		okJSON(w, `{"totalcount":0}`)
	})
	srv := httptest.NewServer(fake)
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	raw, err := client.Search(context.Background(), "Ticket", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(raw))
}

func TestKillSession_ClearsCachedToken(t *testing.T) {
	fake := newFakeGLPI(t, func(w http.ResponseWriter, _ *http.Request) {
		okJSON(w, `{}`)
	})
	srv := httptest.NewServer(fake)
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	_, err := client.Get(context.Background(), "Ticket/1", nil)
	require.NoError(t, err)

	client.KillSession(context.Background())

	kills := fake.byPath("/killSession")
	require.Len(t, kills, 1)
	assert.Equal(t, "S1", kills[0].SessionToken)
	assert.Empty(t, kills[0].Authorization)

	// The next call must initialize a new session.
	_, err = client.Get(context.Background(), "Ticket/2", nil)
	require.NoError(t, err)
	assert.Len(t, fake.byPath("/initSession"), 2)
}

func TestKillSession_NoopWithoutSession(t *testing.T) {
	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	client.KillSession(context.Background())

	assert.Equal(t, int32(0), calls.Load())
}

func TestDo_ConcurrentCallsShareOneSession(t *testing.T) {
	fake := newFakeGLPI(t, func(w http.ResponseWriter, _ *http.Request) {
		okJSON(w, `{"id":1}`)
	})
	srv := httptest.NewServer(fake)
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	// Warm the session so concurrent callers find it cached.
	_, err := client.Get(context.Background(), "Ticket/0", nil)
	require.NoError(t, err)

	var wg sync.WaitGroup

	for range 10 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, gerr := client.Get(context.Background(), "Ticket/1", nil)
			assert.NoError(t, gerr)
		}()
	}

	wg.Wait()

	assert.Len(t, fake.byPath("/initSession"), 1)
}

func TestFirstID(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    int
		wantErr bool
	}{
		{"object", `{"id":17,"message":"ok"}`, 17, false},
		{"array", `[{"id":9}]`, 9, false},
		{"empty array", `[]`, 0, true},
		{"no id", `{"message":"ok"}`, 0, true},
		{"garbage", `not json`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := firstID(json.RawMessage(tt.raw))
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, id)
		})
	}
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient("http://localhost/apirest.php/", "app", NewUserTokenAuth("tok"), nil, nil)
	assert.NotNil(t, c.httpClient)
	assert.NotNil(t, c.logger)
	assert.Equal(t, "http://localhost/apirest.php", c.baseURL, "trailing slash is trimmed")
}
