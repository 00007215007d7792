package wizard

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/procurehq/lpoflow/internal/domain"
)

const (
	draftKeyPrefix  = "wizard:draft:"
	defaultDraftTTL = 24 * time.Hour
)

// DraftStore persists in-progress drafts between requests.
type DraftStore interface {
	Get(ctx context.Context, id string) (*Draft, error)
	Save(ctx context.Context, draft *Draft) error
	Delete(ctx context.Context, id string) error
}

type redisDraftStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisDraftStore keeps drafts in redis as JSON with a TTL, so an
// abandoned wizard session expires on its own.
func NewRedisDraftStore(client *redis.Client, ttl time.Duration) DraftStore {
	if ttl <= 0 {
		ttl = defaultDraftTTL
	}
	return &redisDraftStore{client: client, ttl: ttl}
}

func (s *redisDraftStore) Get(ctx context.Context, id string) (*Draft, error) {
	payload, err := s.client.Get(ctx, draftKeyPrefix+id).Bytes()
	if err == redis.Nil {
		return nil, fmt.Errorf("draft %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var draft Draft
	if err := json.Unmarshal(payload, &draft); err != nil {
		return nil, fmt.Errorf("decode draft: %w", err)
	}
	return &draft, nil
}

func (s *redisDraftStore) Save(ctx context.Context, draft *Draft) error {
	payload, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	if err := s.client.Set(ctx, draftKeyPrefix+draft.ID, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (s *redisDraftStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, draftKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

type memoryDraftStore struct {
	mu     sync.RWMutex
	drafts map[string]*Draft
}

// NewMemoryDraftStore keeps drafts in process memory. Used when the cache is
// disabled; suitable for a single-instance deployment only.
func NewMemoryDraftStore() DraftStore {
	return &memoryDraftStore{drafts: make(map[string]*Draft)}
}

func (s *memoryDraftStore) Get(ctx context.Context, id string) (*Draft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	draft, ok := s.drafts[id]
	if !ok {
		return nil, fmt.Errorf("draft %s: %w", id, domain.ErrNotFound)
	}
	copied := *draft
	copied.Items = append([]domain.LpoItem(nil), draft.Items...)
	return &copied, nil
}

func (s *memoryDraftStore) Save(ctx context.Context, draft *Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *draft
	copied.Items = append([]domain.LpoItem(nil), draft.Items...)
	s.drafts[draft.ID] = &copied
	return nil
}

func (s *memoryDraftStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, id)
	return nil
}
