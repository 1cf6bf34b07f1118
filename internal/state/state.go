// Package state holds the session-scoped application state: who is logged
// in and the currently published snapshot. Mutations swap whole slices so a
// captured pre-image stays valid for rollback.
package state

import (
	"sync"

	"go-pipeline/internal/models"
)

type Session struct {
	User string
	Role models.Role
}

type AppState struct {
	mu       sync.RWMutex
	session  *Session
	contacts []models.Contact
	logs     []models.FollowUpLog
	version  uint64
	subs     map[chan uint64]struct{}
}

func NewAppState() *AppState {
	return &AppState{subs: make(map[chan uint64]struct{})}
}

func (s *AppState) SetSession(user string, role models.Role) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = &Session{User: user, Role: role}
}

func (s *AppState) Session() (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return Session{}, false
	}
	return *s.session, true
}

// Clear resets the session and the in-memory data on logout. The persisted
// cache entry is left alone; session identity and data cache are separate.
func (s *AppState) Clear() {
	s.mu.Lock()
	s.session = nil
	s.contacts = nil
	s.logs = nil
	s.version++
	v := s.version
	s.mu.Unlock()
	s.notify(v)
}

// Snapshot returns a copy of the published dataset. Callers may hold the
// returned slices as immutable pre-images.
func (s *AppState) Snapshot() models.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	contacts := make([]models.Contact, len(s.contacts))
	copy(contacts, s.contacts)
	logs := make([]models.FollowUpLog, len(s.logs))
	copy(logs, s.logs)
	return models.Snapshot{Contacts: contacts, FollowUpLogs: logs}
}

func (s *AppState) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// SetSnapshot replaces both collections at once (full snapshot substitution,
// never a field-level merge).
func (s *AppState) SetSnapshot(snapshot models.Snapshot) {
	s.mu.Lock()
	s.contacts = snapshot.Contacts
	s.logs = snapshot.FollowUpLogs
	s.version++
	v := s.version
	s.mu.Unlock()
	s.notify(v)
}

// SetContacts replaces only the contacts collection.
func (s *AppState) SetContacts(contacts []models.Contact) {
	s.mu.Lock()
	s.contacts = contacts
	s.version++
	v := s.version
	s.mu.Unlock()
	s.notify(v)
}

// SetLogs replaces only the follow-up log collection.
func (s *AppState) SetLogs(logs []models.FollowUpLog) {
	s.mu.Lock()
	s.logs = logs
	s.version++
	v := s.version
	s.mu.Unlock()
	s.notify(v)
}

// Subscribe registers a channel that receives the new version after every
// snapshot change. Slow subscribers miss intermediate versions rather than
// blocking publishers.
func (s *AppState) Subscribe() chan uint64 {
	ch := make(chan uint64, 1)
	s.mu.Lock()
	s.subs[ch] = struct{}{}
	s.mu.Unlock()
	return ch
}

func (s *AppState) Unsubscribe(ch chan uint64) {
	s.mu.Lock()
	delete(s.subs, ch)
	s.mu.Unlock()
	close(ch)
}

func (s *AppState) notify(version uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for ch := range s.subs {
		select {
		case ch <- version:
		default:
		}
	}
}
