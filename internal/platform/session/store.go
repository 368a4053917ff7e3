// Package session owns the runtime binding between a client session and an
// account. The store is the single mutable shared resource of the access
// control layer: only Login, Logout and Refresh mutate it, and callers
// observe it exclusively through immutable snapshots.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/medrefer/medrefer/internal/domain/account"
)

// ErrUnauthorized marks a fetch failure that means the token itself is no
// longer good (expired, revoked, account deactivated). Authenticator
// implementations wrap it so Refresh can tell a dead session from a flaky
// network.
var ErrUnauthorized = errors.New("session no longer authorized")

// Authenticator is the slice of the authentication API the store consumes.
type Authenticator interface {
	// Login exchanges credentials for an account and a session token.
	Login(ctx context.Context, email, password string) (*account.Account, string, error)
	// Fetch re-reads the account bound to a session token (silent refresh).
	Fetch(ctx context.Context, token string) (*account.Account, error)
	// Logout invalidates the session token.
	Logout(ctx context.Context, token string) error
}

// Snapshot is an immutable view of the session at one point in time.
type Snapshot struct {
	Account       *account.Account
	Authenticated bool
	// Loading is true while a credential refresh is in flight. The
	// navigation gate must not decide against a loading session.
	Loading bool
}

// Store holds the current session. Inject it behind the Snapshot/Login/
// Logout/Refresh surface; nothing reads its fields directly.
type Store struct {
	auth Authenticator

	mu      sync.RWMutex
	acct    *account.Account
	token   string
	loading bool
}

func NewStore(auth Authenticator) *Store {
	return &Store{auth: auth}
}

// Snapshot returns the current session state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Account:       s.acct,
		Authenticated: s.acct != nil,
		Loading:       s.loading,
	}
}

// Login authenticates and binds the session to the returned account.
func (s *Store) Login(ctx context.Context, email, password string) error {
	acct, tok, err := s.auth.Login(ctx, email, password)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.acct = acct
	s.token = tok
	s.loading = false
	s.mu.Unlock()
	return nil
}

// Logout destroys the session. The token invalidation result is ignored;
// the local session is cleared regardless.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	tok := s.token
	s.acct = nil
	s.token = ""
	s.loading = false
	s.mu.Unlock()

	if tok != "" {
		_ = s.auth.Logout(ctx, tok)
	}
}

// Refresh re-fetches the bound account so out-of-band approval changes are
// observed. The session reports Loading for the duration of the call. A
// fetch failure destroys the session only when it wraps ErrUnauthorized;
// a transient failure keeps the last known account so a network blip does
// not log the user out.
func (s *Store) Refresh(ctx context.Context) error {
	s.mu.Lock()
	tok := s.token
	if tok == "" {
		s.mu.Unlock()
		return nil
	}
	s.loading = true
	s.mu.Unlock()

	acct, err := s.auth.Fetch(ctx, tok)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			s.acct = nil
			s.token = ""
		}
		return err
	}
	s.acct = acct
	return nil
}
