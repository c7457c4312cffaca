package glpi

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCredentialStore_EmptyMeansNoSession(t *testing.T) {
	s := &credentialStore{}

	tok, ok := s.session()
	assert.False(t, ok)
	assert.Empty(t, tok)
}

func TestCredentialStore_SetGetClear(t *testing.T) {
	s := &credentialStore{}

	s.setSession("S1")

	tok, ok := s.session()
	assert.True(t, ok)
	assert.Equal(t, "S1", tok)

	s.clearSession()

	_, ok = s.session()
	assert.False(t, ok)
}

func TestCredentialStore_ConcurrentAccess(t *testing.T) {
	s := &credentialStore{}

	var wg sync.WaitGroup

	// Racing writers and readers; run with -race to verify.
	for i := range 50 {
		wg.Add(2)

		go func() {
			defer wg.Done()
			s.setSession(fmt.Sprintf("S%d", i))
		}()

		go func() {
			defer wg.Done()

			if tok, ok := s.session(); ok {
				assert.NotEmpty(t, tok)
			}
		}()
	}

	wg.Wait()

	// Last writer wins; some token must be present.
	_, ok := s.session()
	assert.True(t, ok)
}
