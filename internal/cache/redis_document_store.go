package cache

import (
	"context"
	"encoding/json"
	"fmt"

	redisv9 "github.com/redis/go-redis/v9"

	"chatpdf/internal/model"
)

// RedisDocumentStore keeps documents in Redis so several server processes
// can answer questions about the same upload. Entries carry no TTL.
type RedisDocumentStore struct {
	client    *redisv9.Client
	keyPrefix string
}

func NewRedisDocumentStore(client *redisv9.Client, keyPrefix string) *RedisDocumentStore {
	if keyPrefix == "" {
		keyPrefix = "chatpdf:document:"
	}
	return &RedisDocumentStore{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

func (s *RedisDocumentStore) Put(ctx context.Context, doc model.Document) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document failed: %w", err)
	}
	if err := s.client.Set(ctx, s.documentKey(doc.Filename), payload, 0).Err(); err != nil {
		return fmt.Errorf("redis set document failed: %w", err)
	}
	return nil
}

func (s *RedisDocumentStore) Get(ctx context.Context, filename string) (*model.Document, bool, error) {
	raw, err := s.client.Get(ctx, s.documentKey(filename)).Result()
	if err == redisv9.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get document failed: %w", err)
	}

	var doc model.Document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached document failed: %w", err)
	}
	return &doc, true, nil
}

func (s *RedisDocumentStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisDocumentStore) documentKey(filename string) string {
	return s.keyPrefix + filename
}
