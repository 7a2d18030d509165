package repo

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// Store is the record store: decks, cards and image blobs.
type Store interface {
	Decks() DeckRepository
	Cards() CardRepository
	Images() ImageRepository
	// WithinTx runs fn against a transaction-bound store. Either every write made through
	// tx is committed or none is.
	WithinTx(ctx context.Context, fn func(tx Store) error) error
}

// GormStore implements Store on top of gorm.
type GormStore struct {
	db  *gorm.DB
	now func() time.Time
}

var _ Store = (*GormStore)(nil)

// NewStore wraps an opened and migrated database.
func NewStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// WithClock replaces the clock used to stamp updates.
func (s *GormStore) WithClock(now func() time.Time) *GormStore {
	return &GormStore{db: s.db, now: now}
}

func (s *GormStore) Decks() DeckRepository   { return &deckRepo{db: s.db, now: s.now} }
func (s *GormStore) Cards() CardRepository   { return &cardRepo{db: s.db, now: s.now} }
func (s *GormStore) Images() ImageRepository { return &imageRepo{db: s.db} }

func (s *GormStore) WithinTx(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx, now: s.now})
	})
}
