// Package policystore persists merchant discount configuration payloads.
// Payloads are stored opaque: validation happens at evaluation time, where a
// bad payload degrades to the empty result instead of failing.
package policystore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// ErrNotFound indicates no payload is stored under the shop/key pair.
var ErrNotFound = errors.New("policy not found")

// Store keeps raw policy payloads in Redis keyed per shop and bundle key.
type Store struct {
	R   *redis.Client
	TTL time.Duration
}

func storageKey(shopID, key string) string {
	return "policy:" + shopID + ":" + key
}

// Put stores the raw payload, replacing any previous value.
func (s *Store) Put(ctx context.Context, shopID, key string, payload []byte) error {
	if s == nil || s.R == nil {
		return errors.New("policy store not configured")
	}
	if err := s.R.Set(ctx, storageKey(shopID, key), payload, s.TTL).Err(); err != nil {
		return fmt.Errorf("store policy %s/%s: %w", shopID, key, err)
	}
	return nil
}

// Get fetches the raw payload for the shop/key pair.
func (s *Store) Get(ctx context.Context, shopID, key string) ([]byte, error) {
	if s == nil || s.R == nil {
		return nil, errors.New("policy store not configured")
	}
	payload, err := s.R.Get(ctx, storageKey(shopID, key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load policy %s/%s: %w", shopID, key, err)
	}
	return payload, nil
}

// Delete removes the stored payload. Deleting an absent key is not an error.
func (s *Store) Delete(ctx context.Context, shopID, key string) error {
	if s == nil || s.R == nil {
		return errors.New("policy store not configured")
	}
	if err := s.R.Del(ctx, storageKey(shopID, key)).Err(); err != nil {
		return fmt.Errorf("delete policy %s/%s: %w", shopID, key, err)
	}
	return nil
}

// Keys lists the bundle keys stored for a shop.
func (s *Store) Keys(ctx context.Context, shopID string) ([]string, error) {
	if s == nil || s.R == nil {
		return nil, errors.New("policy store not configured")
	}
	prefix := storageKey(shopID, "")
	var keys []string
	iter := s.R.Scan(ctx, 0, prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, strings.TrimPrefix(iter.Val(), prefix))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan policies for %s: %w", shopID, err)
	}
	return keys, nil
}
