package reservation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// DraftStore persists drafts. Update applies fn atomically with respect to other updates.
type DraftStore interface {
	Create(ctx context.Context, d *Draft) error
	Get(ctx context.Context, id string) (*Draft, error)
	Update(ctx context.Context, id string, fn func(d *Draft) error) (*Draft, error)
	Delete(ctx context.Context, id string) error
}

const (
	draftKeyPrefix = "draft:"
	maxCASRetries  = 8
)

// RedisDraftStore keeps drafts as JSON with a TTL and updates them under WATCH.
type RedisDraftStore struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisDraftStore(client *redis.Client, ttl time.Duration) *RedisDraftStore {
	return &RedisDraftStore{Client: client, TTL: ttl}
}

func draftKey(id string) string { return draftKeyPrefix + id }

func (s *RedisDraftStore) Create(ctx context.Context, d *Draft) error {
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to marshal draft: %w", err)
	}
	ok, err := s.Client.SetNX(ctx, draftKey(d.ID), data, s.TTL).Result()
	if err != nil {
		return fmt.Errorf("failed to store draft: %w", err)
	}
	if !ok {
		return fmt.Errorf("draft %s already exists", d.ID)
	}
	return nil
}

func (s *RedisDraftStore) Get(ctx context.Context, id string) (*Draft, error) {
	raw, err := s.Client.Get(ctx, draftKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrDraftNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load draft: %w", err)
	}
	var d Draft
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("failed to unmarshal draft: %w", err)
	}
	return &d, nil
}

func (s *RedisDraftStore) Update(ctx context.Context, id string, fn func(d *Draft) error) (*Draft, error) {
	key := draftKey(id)
	var updated *Draft

	txf := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return ErrDraftNotFound
		}
		if err != nil {
			return err
		}
		var d Draft
		if err := json.Unmarshal(raw, &d); err != nil {
			return fmt.Errorf("failed to unmarshal draft: %w", err)
		}
		if err := fn(&d); err != nil {
			return err
		}
		d.UpdatedAt = time.Now().UTC()
		data, err := json.Marshal(&d)
		if err != nil {
			return fmt.Errorf("failed to marshal draft: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, s.TTL)
			return nil
		})
		if err == nil {
			updated = &d
		}
		return err
	}

	for i := 0; i < maxCASRetries; i++ {
		err := s.Client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return updated, nil
	}
	return nil, ErrConflict
}

func (s *RedisDraftStore) Delete(ctx context.Context, id string) error {
	return s.Client.Del(ctx, draftKey(id)).Err()
}

// MemoryDraftStore is a process local DraftStore.
type MemoryDraftStore struct {
	mu     sync.Mutex
	drafts map[string][]byte
}

func NewMemoryDraftStore() *MemoryDraftStore {
	return &MemoryDraftStore{drafts: make(map[string][]byte)}
}

func (s *MemoryDraftStore) Create(_ context.Context, d *Draft) error {
	data, err := json.Marshal(d)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.drafts[d.ID]; ok {
		return fmt.Errorf("draft %s already exists", d.ID)
	}
	s.drafts[d.ID] = data
	return nil
}

func (s *MemoryDraftStore) Get(_ context.Context, id string) (*Draft, error) {
	s.mu.Lock()
	raw, ok := s.drafts[id]
	s.mu.Unlock()
	if !ok {
		return nil, ErrDraftNotFound
	}
	var d Draft
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *MemoryDraftStore) Update(_ context.Context, id string, fn func(d *Draft) error) (*Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, ok := s.drafts[id]
	if !ok {
		return nil, ErrDraftNotFound
	}
	var d Draft
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, err
	}
	if err := fn(&d); err != nil {
		return nil, err
	}
	d.UpdatedAt = time.Now().UTC()
	data, err := json.Marshal(&d)
	if err != nil {
		return nil, err
	}
	s.drafts[id] = data
	return &d, nil
}

func (s *MemoryDraftStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, id)
	return nil
}
