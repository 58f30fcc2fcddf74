/*
Package session holds the process-local session state.

A session pairs an opaque identifier with the currently signed-in member's
profile. Sessions exist only in memory: the store is the single holder of
User values, other components borrow read access and mutate through the
store's entry points. A request is considered authenticated if and only if
its token resolves to a live session here.
*/
package session

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/SADD1990/kkhebrah/internal/app/profile"
	"github.com/SADD1990/kkhebrah/internal/pkg/logx"
)

// Session is one signed-in member. The User is non-nil for the whole lifetime
// of the session; clearing a session removes it from the store entirely.
type Session struct {
	// ID is the opaque identifier carried inside the session token.
	ID string

	// User is the member profile fabricated at login/signup.
	User profile.User
}

// Store is the in-memory session registry. All mutation goes through the
// store so concurrent handlers observe consistent profiles.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	logger   zerolog.Logger
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{
		sessions: make(map[string]*Session),
		logger:   logx.Logger().With().Str("component", "session_store").Logger(),
	}
}

// Create registers a new session holding the given member profile and
// returns it. The session ID is a fresh UUID.
func (s *Store) Create(user profile.User) *Session {
	sess := &Session{
		ID:   uuid.New().String(),
		User: user,
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	s.logger.Info().Str("session_id", sess.ID).Str("member", user.Name).Msg("Session created.")

	return sess
}

// Get returns the session for the given ID, or nil when the ID is unknown
// (logged out, expired across a restart, or fabricated).
func (s *Store) Get(id string) *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.sessions[id]
}

// User returns a copy of the member profile held by the given session. The
// second return value reports whether the session exists.
func (s *Store) User(id string) (profile.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return profile.User{}, false
	}

	// Copy so callers cannot mutate the stored skill list.
	user := sess.User
	user.Skills = append([]profile.Skill(nil), sess.User.Skills...)
	return user, true
}

// Clear discards the session for the given ID. Unknown IDs are a no-op.
func (s *Store) Clear(id string) {
	s.mu.Lock()
	_, existed := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if existed {
		s.logger.Info().Str("session_id", id).Msg("Session cleared.")
	}
}

// AppendSkill appends a skill to the end of the session's skill list without
// touching prior entries. It is a no-op, returning false, when no session
// exists for the ID, so anonymous skill submissions cannot fabricate state.
func (s *Store) AppendSkill(id string, skill profile.Skill) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return false
	}

	sess.User.Skills = append(sess.User.Skills, skill)
	return true
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.sessions)
}
