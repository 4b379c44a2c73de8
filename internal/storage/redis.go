package storage

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"resume-extractor/internal/config"
	"resume-extractor/internal/logger"
	"resume-extractor/internal/types"
)

// 提取结果缓存键前缀，键为原文的MD5摘要
const extractCachePrefix = "resume:extract:"

// RedisCache 基于Redis的提取结果缓存。
// 同一份原文的规则提取是确定性的，缓存命中可以整体跳过提取
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache 建立Redis连接
func NewRedisCache(cfg config.RedisConfig, ttl time.Duration) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("连接Redis失败: %w", err)
	}

	if ttl <= 0 {
		ttl = 72 * time.Hour
	}
	logger.Info().Str("address", cfg.Address).Dur("ttl", ttl).Msg("Redis缓存已就绪")
	return &RedisCache{client: client, ttl: ttl}, nil
}

// CacheKey 原文内容的缓存键
func CacheKey(text string) string {
	sum := md5.Sum([]byte(text))
	return extractCachePrefix + hex.EncodeToString(sum[:])
}

// Get 查缓存，未命中返回nil且不报错
func (c *RedisCache) Get(ctx context.Context, text string) (*types.BatchExtractionResult, error) {
	data, err := c.client.Get(ctx, CacheKey(text)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("读取缓存失败: %w", err)
	}

	var result types.BatchExtractionResult
	if err := json.Unmarshal(data, &result); err != nil {
		// 缓存内容损坏按未命中处理
		logger.Warn().Err(err).Msg("缓存内容解析失败，忽略该缓存")
		return nil, nil
	}
	return &result, nil
}

// Set 写缓存
func (c *RedisCache) Set(ctx context.Context, text string, result *types.BatchExtractionResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("序列化缓存内容失败: %w", err)
	}
	if err := c.client.Set(ctx, CacheKey(text), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("写入缓存失败: %w", err)
	}
	return nil
}

// Close 关闭连接
func (c *RedisCache) Close() error {
	return c.client.Close()
}
