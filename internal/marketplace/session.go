package marketplace

import "sync"

// Session holds who is signed in. It replaces the ambient "current user"
// global: every Service implementation owns exactly one Session, begun by
// Login and ended by Logout.
type Session struct {
	mu    sync.RWMutex
	user  *User
	token string
}

func NewSession() *Session {
	return &Session{}
}

// NewUserSession returns a session already bound to u.
func NewUserSession(u *User) *Session {
	s := &Session{}
	if u != nil {
		s.Begin(u, "")
	}
	return s
}

func (s *Session) Begin(u *User, token string) {
	cp := u.Public()
	s.mu.Lock()
	s.user = &cp
	s.token = token
	s.mu.Unlock()
}

func (s *Session) End() {
	s.mu.Lock()
	s.user = nil
	s.token = ""
	s.mu.Unlock()
}

// User returns a copy of the signed-in user, or nil.
func (s *Session) User() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	cp := s.user.Public()
	return &cp
}

func (s *Session) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return ""
	}
	return s.user.ID
}

// Token is the bearer token issued by a remote backend; empty for local sessions.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Refresh replaces the cached user record, keeping the token.
func (s *Session) Refresh(u *User) {
	cp := u.Public()
	s.mu.Lock()
	if s.user != nil && s.user.ID == u.ID {
		s.user = &cp
	}
	s.mu.Unlock()
}
