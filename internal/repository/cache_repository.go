package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"foil-records-server/config"
	"foil-records-server/internal/model"
	"foil-records-server/internal/util"
)

type CacheRepository struct {
	client *config.RedisClient
	ttl    time.Duration
}

func NewCacheRepository(rdb *config.RedisClient, ttl time.Duration) *CacheRepository {
	return &CacheRepository{rdb, ttl}
}

func (r *CacheRepository) SetRequest(ctx context.Context, request *model.Request) error {
	data, err := json.Marshal(request)
	if err != nil {
		return util.LogError("ошибка сериализации запроса", err)
	}

	cmd := r.client.Client.Set(ctx, r.key(request.ID), data, r.ttl)
	if err = cmd.Err(); err != nil {
		return util.LogError("ошибка сохранения в Redis", err)
	}
	if cmd.Val() != "OK" {
		return fmt.Errorf("неожиданный ответ Redis: %s", cmd.Val())
	}

	return nil
}

func (r *CacheRepository) GetRequest(ctx context.Context, requestID string) (*model.Request, error) {
	val, err := r.client.Client.Get(ctx, r.key(requestID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil // нет в кэше
	} else if err != nil {
		return nil, util.LogError("ошибка получения запроса из Redis", err)
	}

	var request model.Request
	if err := json.Unmarshal([]byte(val), &request); err != nil {
		return nil, util.LogError("ошибка десериализации запроса из кэша", err)
	}
	return &request, nil
}

func (r *CacheRepository) DeleteRequest(ctx context.Context, requestID string) error {
	if err := r.client.Client.Del(ctx, r.key(requestID)).Err(); err != nil {
		return util.LogError("ошибка удаления запроса из Redis", err)
	}
	return nil
}

func (r *CacheRepository) key(requestID string) string {
	return fmt.Sprintf("request:%s", requestID)
}
