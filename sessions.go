package eisenhower

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const DefaultSessionName = "Default Session"

// CurrentSessionGetter is the part of SessionStore the TaskStore depends on.
type CurrentSessionGetter interface {
	CurrentSession() (Session, bool)
}

// SessionStore owns the session list and the current-session pointer.
// Every successful mutation rewrites the whole list under KeySessions.
type SessionStore struct {
	mu        sync.RWMutex
	p         *Persister
	l         Logger
	now       func() time.Time
	sessions  []Session
	currentID string
}

var _ CurrentSessionGetter = (*SessionStore)(nil)

// NewSessionStore fails if the stored sessions cannot be read; an absent or
// corrupt list bootstraps the default session.
func NewSessionStore(p *Persister, logger Logger) (*SessionStore, error) {
	s := &SessionStore{
		p:   p,
		l:   orNop(logger),
		now: time.Now,
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SessionStore) load() error {
	var sessions []Session
	ok, err := s.p.Load(KeySessions, &sessions)
	if err != nil {
		return err
	}
	if ok && len(sessions) > 0 {
		s.sessions = sessions
		s.currentID = sessions[0].ID
		s.l.Debug("loaded sessions", "count", len(sessions))
		return nil
	}

	now := s.now()
	def := Session{
		ID:        uuid.NewString(),
		Name:      DefaultSessionName,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.sessions = []Session{def}
	s.currentID = def.ID
	s.l.Info("bootstrapped default session", "id", def.ID)
	s.save()
	return nil
}

func (s *SessionStore) save() {
	s.p.Save(KeySessions, s.sessions)
}

func (s *SessionStore) indexOf(id string) int {
	return slices.IndexFunc(s.sessions, func(sess Session) bool {
		return sess.ID == id
	})
}

// ListSessions returns all sessions in insertion order.
func (s *SessionStore) ListSessions() []Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.sessions)
}

func (s *SessionStore) CurrentSession() (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(s.currentID); i >= 0 {
		return s.sessions[i], true
	}
	return Session{}, false
}

func (s *SessionStore) SessionByID(id string) (Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.sessions[i], nil
	}
	return Session{}, fmt.Errorf("%q: %w", id, ErrSessionNotFound)
}

// SessionByName matches case-insensitively and returns the first match.
func (s *SessionStore) SessionByName(name string) (Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	name = strings.TrimSpace(name)
	for _, sess := range s.sessions {
		if strings.EqualFold(sess.Name, name) {
			return sess, nil
		}
	}
	return Session{}, fmt.Errorf("%q: %w", name, ErrSessionNotFound)
}

// CreateSession appends a new session and makes it current. Name uniqueness
// is the caller's responsibility, see ValidateSessionName.
func (s *SessionStore) CreateSession(name string) (Session, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		s.l.Warn("refused session create", "error", ErrEmptyName)
		return Session{}, ErrEmptyName
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	sess := Session{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.sessions = append(s.sessions, sess)
	s.currentID = sess.ID
	s.l.Debug("created session", "id", sess.ID, "name", name)
	s.save()
	return sess, nil
}

// SwitchSession leaves the current session unchanged if id is unknown.
func (s *SessionStore) SwitchSession(id string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		s.l.Warn("refused session switch", "id", id, "error", ErrSessionNotFound)
		return Session{}, fmt.Errorf("switch to %q: %w", id, ErrSessionNotFound)
	}
	s.currentID = id
	s.l.Debug("switched session", "id", id)
	return s.sessions[i], nil
}

// DeleteSession refuses to remove the last session. Tasks that reference the
// deleted session are left in place; they stay stored but are never listed.
func (s *SessionStore) DeleteSession(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.sessions) == 1 {
		s.l.Warn("refused session delete", "id", id, "error", ErrLastSession)
		return ErrLastSession
	}
	i := s.indexOf(id)
	if i < 0 {
		s.l.Warn("refused session delete", "id", id, "error", ErrSessionNotFound)
		return fmt.Errorf("delete %q: %w", id, ErrSessionNotFound)
	}

	s.sessions = slices.Delete(s.sessions, i, i+1)
	if s.currentID == id {
		s.currentID = ""
		if len(s.sessions) > 0 {
			s.currentID = s.sessions[0].ID
		}
	}
	s.l.Debug("deleted session", "id", id, "current", s.currentID)
	s.save()
	return nil
}

func (s *SessionStore) RenameSession(id, name string) (Session, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		s.l.Warn("refused session rename", "id", id, "error", ErrEmptyName)
		return Session{}, ErrEmptyName
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		s.l.Warn("refused session rename", "id", id, "error", ErrSessionNotFound)
		return Session{}, fmt.Errorf("rename %q: %w", id, ErrSessionNotFound)
	}
	s.sessions[i].Name = name
	s.sessions[i].UpdatedAt = s.now()
	s.l.Debug("renamed session", "id", id, "name", name)
	s.save()
	return s.sessions[i], nil
}
