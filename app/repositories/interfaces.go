package repositories

import "blogfront/app/services"

// SessionRepository defines the interface for UI session storage
type SessionRepository interface {
	Create(session *services.Session) error
	Get(id string) (*services.Session, error)
	Update(id string, fn func(session *services.Session) error) (*services.Session, error)
	Delete(id string) error
}
