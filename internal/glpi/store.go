package glpi

import "sync"

// credentialStore holds the one piece of shared mutable state in the client:
// the current session token. Reads take the read lock so concurrent domain
// calls never observe a half-written value; the token is replaced wholesale,
// never mutated in place. It lives only for process lifetime and is never
// persisted.
//
// Concurrent session inits are tolerated: each racing call stores the token
// it obtained, and the last successful writer wins. A call retrying after an
// expiry always uses the token returned by its own init, not whatever is
// cached, so a racing writer can't hand it a stale credential.
type credentialStore struct {
	mu           sync.RWMutex
	sessionToken string
}

// sessionToken returns the cached session token, if any.
func (s *credentialStore) session() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.sessionToken, s.sessionToken != ""
}

func (s *credentialStore) setSession(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessionToken = token
}

func (s *credentialStore) clearSession() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessionToken = ""
}
