package store

import (
	"context"
)

// Message is the object representing a fetched mail message.
type Message struct {
	ID        int32
	UID       string
	MessageID string
	Subject   string
	Sender    string
	Body      string
	CreatedTs int64
}

// FindMessage is the find condition for message.
type FindMessage struct {
	ID        *int32
	UID       *string
	MessageID *string

	// Pagination
	Limit  *int
	Offset *int
}

// DeleteMessage is the delete request for message.
type DeleteMessage struct {
	ID int32
}

// UpsertMessage creates the message or updates the stored copy with the
// same provider message ID.
func (s *Store) UpsertMessage(ctx context.Context, upsert *Message) (*Message, error) {
	message, err := s.driver.UpsertMessage(ctx, upsert)
	if err != nil {
		return nil, err
	}
	s.messageCache.Add(message.MessageID, message)
	return message, nil
}

// GetMessage gets a message by find condition.
func (s *Store) GetMessage(ctx context.Context, find *FindMessage) (*Message, error) {
	if find.MessageID != nil {
		if message, ok := s.messageCache.Get(*find.MessageID); ok {
			return message, nil
		}
	}

	list, err := s.driver.ListMessages(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	message := list[0]
	s.messageCache.Add(message.MessageID, message)
	return message, nil
}

// ListMessages lists messages with filter.
func (s *Store) ListMessages(ctx context.Context, find *FindMessage) ([]*Message, error) {
	return s.driver.ListMessages(ctx, find)
}

// DeleteMessage deletes a message.
func (s *Store) DeleteMessage(ctx context.Context, delete *DeleteMessage) error {
	if message, err := s.GetMessage(ctx, &FindMessage{ID: &delete.ID}); err == nil && message != nil {
		s.messageCache.Remove(message.MessageID)
	}
	return s.driver.DeleteMessage(ctx, delete)
}

// ListMessageBodies returns the stored message bodies deduplicated by exact
// text equality, preserving first-seen order.
func (s *Store) ListMessageBodies(ctx context.Context) ([]string, error) {
	list, err := s.driver.ListMessages(ctx, &FindMessage{})
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(list))
	bodies := make([]string, 0, len(list))
	for _, message := range list {
		if message.Body == "" || seen[message.Body] {
			continue
		}
		seen[message.Body] = true
		bodies = append(bodies, message.Body)
	}
	return bodies, nil
}
