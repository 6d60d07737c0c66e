package mock

import (
	"encoding/json"
	"sync"

	"blogfront/app/repositories"
	"blogfront/app/services"
)

// SessionRepository keeps sessions in a map. Values are stored as JSON
// so callers never share memory with the stored copy, as with badger.
type SessionRepository struct {
	sessions map[string][]byte
	mutex    sync.Mutex
}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{sessions: make(map[string][]byte)}
}

func (m *SessionRepository) Create(session *services.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.sessions[session.ID] = data
	return nil
}

func (m *SessionRepository) Get(id string) (*services.Session, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.get(id)
}

func (m *SessionRepository) get(id string) (*services.Session, error) {
	data, ok := m.sessions[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	var session services.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (m *SessionRepository) Update(id string, fn func(session *services.Session) error) (*services.Session, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	session, err := m.get(id)
	if err != nil {
		return nil, err
	}
	if err := fn(session); err != nil {
		return nil, err
	}
	data, err := json.Marshal(session)
	if err != nil {
		return nil, err
	}
	m.sessions[id] = data
	return session, nil
}

func (m *SessionRepository) Delete(id string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(m.sessions, id)
	return nil
}

// Len returns the number of stored sessions.
func (m *SessionRepository) Len() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return len(m.sessions)
}
