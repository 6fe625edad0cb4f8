package booking

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/telemed/portal/internal/domain/availability"
)

var ErrSessionNotFound = errors.New("booking session not found or expired")

const DefaultSessionTTL = 30 * time.Minute

// Selection is everything the patient has chosen so far. The wizard session
// is the single source of truth for it.
type Selection struct {
	DoctorID string `json:"doctorId"`
	WindowID string `json:"windowId"`
	Date     string `json:"date"`
	Time     string `json:"time"` // 12-hour display label
	Reason   string `json:"reason"`
}

// Session is one in-flight booking wizard.
type Session struct {
	ID        uuid.UUID `json:"id"`
	State     State     `json:"state"`
	Selection Selection `json:"selection"`

	// Availability holds the slots fetched for the currently selected
	// doctor. FetchSeq increments whenever the doctor changes; a fetch
	// result carries the sequence it was started under and is dropped if
	// the session has moved on since.
	Availability []availability.Slot `json:"availability"`
	FetchSeq     uint64              `json:"-"`

	// VisitID is set once the booking is confirmed.
	VisitID string `json:"visitId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// SessionManager holds the live wizard sessions in memory. Sessions are
// short-lived and per-instance; losing them on restart only means the patient
// starts the wizard over.
type SessionManager struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
	ttl      time.Duration
	now      func() time.Time
}

func NewSessionManager(ttl time.Duration) *SessionManager {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionManager{
		sessions: make(map[uuid.UUID]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create opens a new session in the initial state.
func (m *SessionManager) Create() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.pruneLocked()
	now := m.now()
	s := &Session{
		ID:        uuid.New(),
		State:     StateSelectDoctor,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}
	m.sessions[s.ID] = s
	return snapshot(s)
}

// Get returns a copy of the session. Callers never hold a pointer into the
// manager's map.
func (m *SessionManager) Get(id uuid.UUID) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.getLocked(id)
	if err != nil {
		return nil, err
	}
	return snapshot(s), nil
}

// Update mutates the session under the manager's lock. fn sees the live
// session; returning an error leaves whatever fn already changed in place, so
// fn must apply its changes only after its guards pass.
func (m *SessionManager) Update(id uuid.UUID, fn func(*Session) error) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.getLocked(id)
	if err != nil {
		return nil, err
	}
	if err := fn(s); err != nil {
		return nil, err
	}
	s.ExpiresAt = m.now().Add(m.ttl)
	return snapshot(s), nil
}

// Delete drops the session. Unknown ids are not an error.
func (m *SessionManager) Delete(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

func (m *SessionManager) getLocked(id uuid.UUID) (*Session, error) {
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if m.now().After(s.ExpiresAt) {
		delete(m.sessions, id)
		return nil, ErrSessionNotFound
	}
	return s, nil
}

func (m *SessionManager) pruneLocked() {
	now := m.now()
	for id, s := range m.sessions {
		if now.After(s.ExpiresAt) {
			delete(m.sessions, id)
		}
	}
}

func snapshot(s *Session) *Session {
	cp := *s
	cp.Availability = append([]availability.Slot(nil), s.Availability...)
	return &cp
}
