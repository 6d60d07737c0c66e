package repositories

import (
	"errors"
	"fmt"
	"time"

	"blogfront/app/services"

	"github.com/dgraph-io/badger/v4"
)

// maxConflictRetries bounds how often an update is replayed after a
// concurrent write to the same session.
const maxConflictRetries = 10

// OpenInMemory opens a badger database that lives only in memory.
func OpenInMemory() (*badger.DB, error) {
	opts := badger.DefaultOptions("").
		WithInMemory(true).
		WithLogger(nil).
		WithNumGoroutines(1)
	return badger.Open(opts)
}

// BadgerSessionRepository implements SessionRepository using BadgerDB.
// Every write refreshes the session's TTL; expired sessions disappear
// on their own.
type BadgerSessionRepository struct {
	db  *badger.DB
	ttl time.Duration
}

// NewBadgerSessionRepository creates a new BadgerSessionRepository
func NewBadgerSessionRepository(db *badger.DB, ttl time.Duration) *BadgerSessionRepository {
	return &BadgerSessionRepository{db: db, ttl: ttl}
}

func (r *BadgerSessionRepository) entry(session *services.Session) (*badger.Entry, error) {
	data, err := marshalEntity(session)
	if err != nil {
		return nil, err
	}
	e := badger.NewEntry(sessionKey(session.ID), data)
	if r.ttl > 0 {
		e = e.WithTTL(r.ttl)
	}
	return e, nil
}

// Create stores a new session
func (r *BadgerSessionRepository) Create(session *services.Session) error {
	if session.ID == "" {
		return errors.New("session id is required")
	}
	return r.db.Update(func(txn *badger.Txn) error {
		e, err := r.entry(session)
		if err != nil {
			return err
		}
		return txn.SetEntry(e)
	})
}

// Get retrieves a session by ID
func (r *BadgerSessionRepository) Get(id string) (*services.Session, error) {
	var session services.Session
	err := r.db.View(func(txn *badger.Txn) error {
		return r.load(txn, id, &session)
	})
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *BadgerSessionRepository) load(txn *badger.Txn, id string, session *services.Session) error {
	item, err := txn.Get(sessionKey(id))
	if err == badger.ErrKeyNotFound {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return unmarshalEntity(val, session)
	})
}

// Update loads the session, applies fn and writes it back in one
// transaction. When another request wrote the same session in the
// meantime the whole step is replayed against the fresh copy.
func (r *BadgerSessionRepository) Update(id string, fn func(session *services.Session) error) (*services.Session, error) {
	for attempt := 0; ; attempt++ {
		var session services.Session
		err := r.db.Update(func(txn *badger.Txn) error {
			if err := r.load(txn, id, &session); err != nil {
				return err
			}
			if err := fn(&session); err != nil {
				return err
			}
			e, err := r.entry(&session)
			if err != nil {
				return err
			}
			return txn.SetEntry(e)
		})
		if err == badger.ErrConflict && attempt < maxConflictRetries {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("update session %s: %w", id, err)
		}
		return &session, nil
	}
}

// Delete deletes a session by ID
func (r *BadgerSessionRepository) Delete(id string) error {
	return r.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(sessionKey(id))
		if err == badger.ErrKeyNotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return txn.Delete(sessionKey(id))
	})
}
