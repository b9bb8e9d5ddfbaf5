package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/agendamail/agendamail/store"
)

func (d *DB) UpsertMessage(ctx context.Context, upsert *store.Message) (*store.Message, error) {
	stmt := `
		INSERT INTO message (uid, message_id, subject, sender, body)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (message_id) DO UPDATE SET
			subject = EXCLUDED.subject,
			sender = EXCLUDED.sender,
			body = EXCLUDED.body
		RETURNING id, uid, created_ts`

	if err := d.db.QueryRowContext(ctx, stmt,
		upsert.UID, upsert.MessageID, upsert.Subject, upsert.Sender, upsert.Body,
	).Scan(
		&upsert.ID,
		&upsert.UID,
		&upsert.CreatedTs,
	); err != nil {
		return nil, fmt.Errorf("failed to upsert message: %w", err)
	}

	return upsert, nil
}

func (d *DB) ListMessages(ctx context.Context, find *store.FindMessage) ([]*store.Message, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "message.id = ?"), append(args, *v)
	}
	if v := find.UID; v != nil {
		where, args = append(where, "message.uid = ?"), append(args, *v)
	}
	if v := find.MessageID; v != nil {
		where, args = append(where, "message.message_id = ?"), append(args, *v)
	}

	query := `
		SELECT id, uid, message_id, subject, sender, body, created_ts
		FROM message
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY message.created_ts ASC, message.id ASC`

	if find.Limit != nil {
		query = fmt.Sprintf("%s LIMIT %d", query, *find.Limit)
		if find.Offset != nil {
			query = fmt.Sprintf("%s OFFSET %d", query, *find.Offset)
		}
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Message, 0)
	for rows.Next() {
		var message store.Message
		if err := rows.Scan(
			&message.ID,
			&message.UID,
			&message.MessageID,
			&message.Subject,
			&message.Sender,
			&message.Body,
			&message.CreatedTs,
		); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		list = append(list, &message)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate messages: %w", err)
	}

	return list, nil
}

func (d *DB) DeleteMessage(ctx context.Context, delete *store.DeleteMessage) error {
	if _, err := d.db.ExecContext(ctx, "DELETE FROM message WHERE id = ?", delete.ID); err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	return nil
}
