package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/rs/zerolog"
)

// SubscriberFileRepository keeps chat ids as a JSON array in a flat file
type SubscriberFileRepository struct {
	path string
	log  zerolog.Logger
	mu   sync.Mutex
}

// NewSubscriberFileRepository creates a new SubscriberFileRepository
func NewSubscriberFileRepository(path string, log zerolog.Logger) *SubscriberFileRepository {
	return &SubscriberFileRepository{path: path, log: log}
}

// Ensure SubscriberFileRepository implements SubscriberRepositoryInterface
var _ SubscriberRepositoryInterface = (*SubscriberFileRepository)(nil)

// Load reads the chat ids. A missing or corrupt file is replaced with an empty list.
func (r *SubscriberFileRepository) Load(ctx context.Context) (map[int64]struct{}, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make(map[int64]struct{})

	data, err := os.ReadFile(r.path)
	if err == nil {
		var list []int64
		if err = json.Unmarshal(data, &list); err == nil {
			for _, id := range list {
				ids[id] = struct{}{}
			}
			r.log.Info().Int("count", len(ids)).Str("path", r.path).Msg("📋 Loaded subscribers")
			return ids, nil
		}
	}

	r.log.Warn().Err(err).Str("path", r.path).Msg("⚠️  Chat ids file unreadable, creating an empty one")
	if werr := r.write(nil); werr != nil {
		return ids, werr
	}
	return ids, nil
}

// Save writes the full set, ids are sorted to keep the file stable
func (r *SubscriberFileRepository) Save(ctx context.Context, chatIDs map[int64]struct{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := make([]int64, 0, len(chatIDs))
	for id := range chatIDs {
		list = append(list, id)
	}
	sort.Slice(list, func(i, j int) bool { return list[i] < list[j] })

	return r.write(list)
}

func (r *SubscriberFileRepository) write(list []int64) error {
	if list == nil {
		list = []int64{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("failed to encode chat ids: %w", err)
	}

	if dir := filepath.Dir(r.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create chat ids directory: %w", err)
		}
	}

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write chat ids: %w", err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		return fmt.Errorf("failed to replace chat ids file: %w", err)
	}
	return nil
}
