package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const cacheKeyPrefix = "riskcheck:catalog:"

// CachedRepository is a read-through Redis cache in front of FindByType.
// Writes go to the wrapped repository and evict the affected type. Redis
// failures fall back to the wrapped repository.
type CachedRepository struct {
	Repository
	rdb *redis.Client
	ttl time.Duration
}

func NewCachedRepository(inner Repository, rdb *redis.Client, ttl time.Duration) *CachedRepository {
	return &CachedRepository{Repository: inner, rdb: rdb, ttl: ttl}
}

func cacheKey(illnessType string) string {
	return cacheKeyPrefix + illnessType
}

func (r *CachedRepository) FindByType(ctx context.Context, illnessType string) ([]*QuestionBankItem, error) {
	log := zerolog.Ctx(ctx)
	key := cacheKey(illnessType)

	raw, err := r.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		items, decodeErr := decodeItems(raw)
		if decodeErr == nil {
			return items, nil
		}
		log.Warn().Err(decodeErr).Str("key", key).Msg("discarding corrupt catalog cache entry")
	case !errors.Is(err, redis.Nil):
		log.Warn().Err(err).Str("key", key).Msg("catalog cache read failed")
	}

	items, err := r.Repository.FindByType(ctx, illnessType)
	if err != nil {
		return nil, err
	}
	// Empty results are not cached so a freshly imported bank shows up at once.
	if len(items) == 0 {
		return items, nil
	}
	if payload, err := json.Marshal(items); err == nil {
		if err := r.rdb.Set(ctx, key, payload, r.ttl).Err(); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("catalog cache write failed")
		}
	}
	return items, nil
}

func (r *CachedRepository) Upsert(ctx context.Context, it *QuestionBankItem) error {
	if err := r.Repository.Upsert(ctx, it); err != nil {
		return err
	}
	r.evict(ctx, it.IllnessType)
	return nil
}

func (r *CachedRepository) Delete(ctx context.Context, illnessType, questionID string) error {
	if err := r.Repository.Delete(ctx, illnessType, questionID); err != nil {
		return err
	}
	r.evict(ctx, illnessType)
	return nil
}

func (r *CachedRepository) evict(ctx context.Context, illnessType string) {
	if err := r.rdb.Del(ctx, cacheKey(illnessType)).Err(); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("illness_type", illnessType).Msg("catalog cache eviction failed")
	}
}

func decodeItems(raw []byte) ([]*QuestionBankItem, error) {
	var items []*QuestionBankItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	return items, nil
}
