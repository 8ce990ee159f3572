package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"livix-api/internal/domain"
)

// ChatSnapshotStore guarda el estado de cada conversación para restaurarlo al arrancar.
type ChatSnapshotStore interface {
	Save(conv domain.Conversation) error
	LoadAll() ([]domain.Conversation, error)
}

type memoryChatSnapshotStore struct {
	mu    sync.Mutex
	items map[string]domain.Conversation
}

func NewMemoryChatSnapshotStore() ChatSnapshotStore {
	return &memoryChatSnapshotStore{
		items: make(map[string]domain.Conversation),
	}
}

func (s *memoryChatSnapshotStore) Save(conv domain.Conversation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[conv.ID] = conv
	return nil
}

func (s *memoryChatSnapshotStore) LoadAll() ([]domain.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Conversation, 0, len(s.items))
	for _, c := range s.items {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// redisKV es el subconjunto de comandos de Redis que usa el snapshot.
type redisKV interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	SAdd(ctx context.Context, key string, members ...interface{}) *redis.IntCmd
	SMembers(ctx context.Context, key string) *redis.StringSliceCmd
}

type redisChatSnapshotStore struct {
	client redisKV
	prefix string
	ttl    time.Duration
}

// NewRedisChatSnapshotStore persiste cada conversación como JSON bajo chat:conv:<id>.
func NewRedisChatSnapshotStore(client redisKV, ttl time.Duration) ChatSnapshotStore {
	if client == nil {
		return nil
	}
	return &redisChatSnapshotStore{
		client: client,
		prefix: "chat:",
		ttl:    ttl,
	}
}

func (s *redisChatSnapshotStore) Save(conv domain.Conversation) error {
	payload, err := json.Marshal(conv)
	if err != nil {
		return fmt.Errorf("marshal conversation: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	if err := s.client.Set(ctx, s.prefix+"conv:"+conv.ID, payload, s.ttl).Err(); err != nil {
		return err
	}
	return s.client.SAdd(ctx, s.prefix+"conversations", conv.ID).Err()
}

func (s *redisChatSnapshotStore) LoadAll() ([]domain.Conversation, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	ids, err := s.client.SMembers(ctx, s.prefix+"conversations").Result()
	if err != nil {
		return nil, err
	}
	sort.Strings(ids)

	out := make([]domain.Conversation, 0, len(ids))
	for _, id := range ids {
		raw, err := s.client.Get(ctx, s.prefix+"conv:"+id).Bytes()
		if errors.Is(err, redis.Nil) {
			// Conversación expirada.
			continue
		}
		if err != nil {
			return nil, err
		}
		var conv domain.Conversation
		if err := json.Unmarshal(raw, &conv); err != nil {
			return nil, fmt.Errorf("unmarshal conversation %s: %w", id, err)
		}
		out = append(out, conv)
	}
	return out, nil
}
