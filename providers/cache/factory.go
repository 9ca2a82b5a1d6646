package cache

import (
	"fmt"
	"time"

	"forecastapi.app/config"
)

// New builds the cache backend selected by configuration
func New(cfg *config.CacheConfig) (GenericCacheInterface, error) {
	switch cfg.Type {
	case "memory":
		return NewMemoryCache(), nil
	case "redis":
		return NewRedisCache(&RedisCacheConfig{
			Addr:         cfg.RedisAddr,
			Password:     cfg.RedisPassword,
			DB:           cfg.RedisDB,
			DialTimeout:  time.Duration(cfg.RedisDialTimeout) * time.Second,
			ReadTimeout:  time.Duration(cfg.RedisReadTimeout) * time.Second,
			WriteTimeout: time.Duration(cfg.RedisWriteTimeout) * time.Second,
		})
	default:
		return nil, fmt.Errorf("unknown cache type: %s", cfg.Type)
	}
}
