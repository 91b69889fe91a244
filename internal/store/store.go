package store

import (
	"io"
	"time"

	"github.com/alextreichler/storefront/internal/models"
)

// Document names; FileBackend stores them as <name>.json.
const (
	OrdersDoc   = "orders"
	MessagesDoc = "messages"
	UsersDoc    = "users"
)

// Store owns the shared collections: the order ledger, the dialog inbox and users.
type Store struct {
	backend Backend
	orders  *Collection[models.Order]
	dialogs *Collection[models.Dialog]
	users   *Collection[models.User]
	seq     *Sequencer

	// Now is the clock used for order and message timestamps.
	Now func() time.Time
}

func NewStore(backend Backend) *Store {
	return &Store{
		backend: backend,
		orders:  NewCollection[models.Order](backend, OrdersDoc, ""),
		dialogs: NewCollection[models.Dialog](backend, MessagesDoc, ""),
		users:   NewCollection[models.User](backend, UsersDoc, "users"),
		seq:     NewSequencer(backend),
		Now:     time.Now,
	}
}

func (s *Store) timestamp() string {
	return models.FormatTime(s.Now())
}

// Close releases the backend if it holds resources.
func (s *Store) Close() error {
	if c, ok := s.backend.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
