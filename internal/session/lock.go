package session

import (
	"fmt"

	"github.com/google/uuid"

	"wedding-rsvp/internal/storage"
)

// Lock marks that this client already submitted an RSVP. It is a UX guard
// only; duplicate prevention belongs to the backend, which never sees it.
type Lock struct {
	store storage.Store
}

func NewLock(store storage.Store) *Lock {
	return &Lock{store: store}
}

// Locked reports whether a lock id is stored. Read failures count as
// unlocked so the form stays usable.
func (l *Lock) Locked() bool {
	_, ok := l.ID()
	return ok
}

// ID returns the stored lock id
func (l *Lock) ID() (string, bool) {
	id, ok, err := l.store.Get(LockKey)
	if err != nil || !ok || id == "" {
		return "", false
	}
	return id, true
}

// Acquire stores id, or a generated one when id is empty, and returns it
func (l *Lock) Acquire(id string) (string, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if err := l.store.Set(LockKey, id); err != nil {
		return "", fmt.Errorf("failed to store submission lock: %w", err)
	}
	return id, nil
}

// Release removes the lock
func (l *Lock) Release() error {
	if err := l.store.Delete(LockKey); err != nil {
		return fmt.Errorf("failed to release submission lock: %w", err)
	}
	return nil
}
