package glpi

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/oauth2"

	"glpimcp/internal/tokenfile"
)

// Authenticator produces the Authorization header value presented during
// session initialization. The variant is chosen once at construction —
// either a static GLPI user token or an OAuth bearer — and the session
// initializer is the only caller. Regular domain calls never present it.
type Authenticator interface {
	AuthorizationValue(ctx context.Context) (string, error)
}

// UserTokenAuth authenticates with a static GLPI user token.
// It never touches the network.
type UserTokenAuth struct {
	token string
}

// NewUserTokenAuth returns an Authenticator for static-token mode.
func NewUserTokenAuth(token string) UserTokenAuth {
	return UserTokenAuth{token: token}
}

func (a UserTokenAuth) AuthorizationValue(_ context.Context) (string, error) {
	return "user_token " + a.token, nil
}

// OAuthAuth authenticates with an OAuth 2.1 bearer token. The wrapped
// token source (typically an oauth2.ReuseTokenSource) refreshes the access
// token before expiry; a failed acquisition is an authentication failure
// for the pending call only.
type OAuthAuth struct {
	src oauth2.TokenSource
}

// NewOAuthAuth returns an Authenticator backed by the given token source.
func NewOAuthAuth(src oauth2.TokenSource) OAuthAuth {
	return OAuthAuth{src: src}
}

func (a OAuthAuth) AuthorizationValue(_ context.Context) (string, error) {
	tok, err := a.src.Token()
	if err != nil {
		return "", fmt.Errorf("%w: obtaining access token: %v", ErrAuth, err)
	}

	return "Bearer " + tok.AccessToken, nil
}

// persistingTokenSource wraps an oauth2.TokenSource and writes the token
// file whenever a silent refresh produces a new access token, so a restart
// picks up the refreshed credential instead of a stale one.
type persistingTokenSource struct {
	mu     sync.Mutex
	src    oauth2.TokenSource
	path   string
	last   string
	logger *slog.Logger
}

// NewPersistingTokenSource returns a token source that persists refreshed
// tokens to path. Persistence failures are logged, not fatal — the
// in-memory token remains valid for the process lifetime.
func NewPersistingTokenSource(src oauth2.TokenSource, path string, logger *slog.Logger) oauth2.TokenSource {
	if logger == nil {
		logger = slog.Default()
	}

	return &persistingTokenSource{src: src, path: path, logger: logger}
}

func (p *persistingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := p.src.Token()
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if tok.AccessToken != p.last {
		p.last = tok.AccessToken

		if saveErr := tokenfile.Save(p.path, tok); saveErr != nil {
			p.logger.Warn("failed to persist refreshed token",
				slog.String("path", p.path),
				slog.String("error", saveErr.Error()),
			)
		} else {
			p.logger.Debug("persisted refreshed token",
				slog.String("path", p.path),
				slog.Time("expiry", tok.Expiry),
			)
		}
	}

	return tok, nil
}

// TokenSourceFromFile loads a saved OAuth token and returns a refreshing,
// persisting token source for it. Returns an ErrAuth-wrapped error when no
// token has been saved yet (login required).
func TokenSourceFromFile(ctx context.Context, cfg *oauth2.Config, path string, logger *slog.Logger) (oauth2.TokenSource, error) {
	tok, err := tokenfile.Load(path)
	if err != nil {
		return nil, err
	}

	if tok == nil {
		return nil, fmt.Errorf("%w: no saved token at %s (run login first)", ErrAuth, path)
	}

	src := cfg.TokenSource(ctx, tok)

	return NewPersistingTokenSource(src, path, logger), nil
}
