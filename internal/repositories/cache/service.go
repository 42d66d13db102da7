package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"celora/internal/models"

	"github.com/redis/go-redis/v9"
)

type CacheService struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCacheService(client *redis.Client, defaultTTL time.Duration) *CacheService {
	return &CacheService{
		client: client,
		ttl:    defaultTTL,
	}
}

// Base operations
func (s *CacheService) Set(ctx context.Context, key string, value interface{}) error {
	return s.SetWithTTL(ctx, key, value, s.ttl)
}

func (s *CacheService) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("failed to get cache value: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}
	return true, nil
}

func (s *CacheService) Delete(ctx context.Context, keys ...string) error {
	return s.client.Del(ctx, keys...).Err()
}

// GenerateKey builds a namespaced cache key.
func (s *CacheService) GenerateKey(entityType, keyType string, value interface{}) string {
	return fmt.Sprintf("%s:%s:%v", entityType, keyType, value)
}

// Card caching
func (s *CacheService) CacheCard(ctx context.Context, card *models.VirtualCard) error {
	if card == nil {
		return errors.New("cannot cache nil card")
	}
	return s.SetWithTTL(ctx, s.GenerateKey("card", "id", card.ID), card, 5*time.Minute)
}

func (s *CacheService) GetCard(ctx context.Context, cardID uint) (*models.VirtualCard, error) {
	var card models.VirtualCard
	found, err := s.Get(ctx, s.GenerateKey("card", "id", cardID), &card)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.New("card not found in cache")
	}
	return &card, nil
}

func (s *CacheService) InvalidateCard(ctx context.Context, cardID uint) error {
	return s.Delete(ctx, s.GenerateKey("card", "id", cardID))
}

func (s *CacheService) FlushAll(ctx context.Context) error {
	return s.client.FlushAll(ctx).Err()
}

func (s *CacheService) Close() error {
	return s.client.Close()
}
