package cache

import (
	"context"
	"fmt"

	"maitri-diet/internal/infrastructure/config"
	"maitri-diet/internal/pkg/common"
)

// Store 以位元組為值的快取介面
type Store interface {
	// Get 取得快取值，未命中時回傳 common.ErrCacheMiss
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// NewStore 依設定建立快取，停用時回傳 nil
func NewStore(cfg *config.CacheConfig) (Store, error) {
	if !cfg.Enabled {
		common.LogInfo("快取已停用")
		return nil, nil
	}

	switch cfg.Backend {
	case "memory":
		return NewManager(cfg), nil
	case "redis":
		rs, err := NewRedisStore(cfg)
		if err != nil {
			return nil, err
		}
		return rs, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}
