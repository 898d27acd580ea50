package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"
)

// SubscriberRepository stores chat ids in the telegram_subscribers table
type SubscriberRepository struct {
	conn *sql.DB
	log  zerolog.Logger
}

// NewSubscriberRepository creates a new SubscriberRepository on an open connection
func NewSubscriberRepository(conn *sql.DB, log zerolog.Logger) *SubscriberRepository {
	return &SubscriberRepository{conn: conn, log: log}
}

// Ensure SubscriberRepository implements SubscriberRepositoryInterface
var _ SubscriberRepositoryInterface = (*SubscriberRepository)(nil)

// Load returns every stored chat id
func (r *SubscriberRepository) Load(ctx context.Context) (map[int64]struct{}, error) {
	rows, err := r.conn.QueryContext(ctx, `SELECT chat_id FROM telegram_subscribers`)
	if err != nil {
		return nil, fmt.Errorf("failed to query subscribers: %w", err)
	}
	defer rows.Close()

	ids := make(map[int64]struct{})
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan subscriber: %w", err)
		}
		ids[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subscribers: %w", err)
	}

	r.log.Info().Int("count", len(ids)).Msg("📋 Loaded subscribers from database")
	return ids, nil
}

// Save replaces the stored set in a single transaction
func (r *SubscriberRepository) Save(ctx context.Context, chatIDs map[int64]struct{}) error {
	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM telegram_subscribers`); err != nil {
		return fmt.Errorf("failed to clear subscribers: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO telegram_subscribers (chat_id) VALUES ($1)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for id := range chatIDs {
		if _, err := stmt.ExecContext(ctx, id); err != nil {
			return fmt.Errorf("failed to insert subscriber %d: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit subscribers: %w", err)
	}
	return nil
}
