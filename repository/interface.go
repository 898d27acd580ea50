package repository

import "context"

// SubscriberRepositoryInterface defines the contract for persisting Telegram chat ids
// that receive site activity notifications
type SubscriberRepositoryInterface interface {
	// Load returns the stored set, an unreadable store yields an empty set
	Load(ctx context.Context) (map[int64]struct{}, error)
	// Save replaces the stored set
	Save(ctx context.Context, chatIDs map[int64]struct{}) error
}
