// Package store provides database access to all raw objects.
package store

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/agendamail/agendamail/internal/profile"
)

// Store provides database access to all raw objects.
type Store struct {
	profile *profile.Profile
	driver  Driver

	// messageCache caches messages by provider message ID.
	messageCache *expirable.LRU[string, *Message]
}

// New creates a new instance of Store.
func New(driver Driver, profile *profile.Profile) *Store {
	return &Store{
		driver:       driver,
		profile:      profile,
		messageCache: expirable.NewLRU[string, *Message](512, nil, 10*time.Minute),
	}
}

// GetDriver returns the underlying driver.
func (s *Store) GetDriver() Driver {
	return s.driver
}

// Close closes the store and its driver.
func (s *Store) Close() error {
	s.messageCache.Purge()
	return s.driver.Close()
}
