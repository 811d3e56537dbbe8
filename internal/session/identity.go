package session

import (
	"sync"

	"github.com/fixitnow/chatsync/internal/chat"
)

// Identity is the signed-in user and the token proving it.
type Identity struct {
	UserID chat.UserID
	Token  string
}

// Provider supplies the current identity. It returns chat.ErrNoIdentity, or
// another chat.AuthError, when nobody is signed in.
type Provider interface {
	Identity() (Identity, error)
}

// Static is a Provider whose identity is set by the host, typically from
// the config file. The zero value has no identity.
type Static struct {
	mu sync.RWMutex
	id Identity
}

// NewStatic returns a provider holding id.
func NewStatic(id Identity) *Static {
	return &Static{id: id}
}

// Identity implements Provider.
func (s *Static) Identity() (Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.id.UserID <= 0 || s.id.Token == "" {
		return Identity{}, chat.ErrNoIdentity
	}
	return s.id, nil
}

// Set replaces the identity, e.g. after the user signs in again.
func (s *Static) Set(id Identity) {
	s.mu.Lock()
	s.id = id
	s.mu.Unlock()
}

// Clear signs the user out.
func (s *Static) Clear() {
	s.Set(Identity{})
}
