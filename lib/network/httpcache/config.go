package httpcache

import (
	"boscoin.io/roster/lib/common"
	"boscoin.io/roster/lib/errors"
)

// NewAdapter returns the adapter named by `cfg.HTTPCacheAdapter`; nil for
// "none".
func NewAdapter(cfg common.Config) (Adapter, error) {
	switch cfg.HTTPCacheAdapter {
	case common.HTTPCacheMemoryAdapterName:
		return NewMemoryAdapter(cfg.HTTPCachePoolSize)
	case common.HTTPCacheRedisAdapterName:
		if len(cfg.HTTPCacheRedisAddrs) < 1 {
			return nil, errors.BadRequestParameter.Clone().SetData("error", "redis adapter needs addresses")
		}
		return NewRedisAdapter(cfg.HTTPCacheRedisAddrs), nil
	case common.HTTPCacheNoneAdapterName, "":
		return nil, nil
	default:
		return nil, errors.BadRequestParameter.Clone().SetData("adapter", cfg.HTTPCacheAdapter)
	}
}

func NewCache(cfg common.Config, opts ...Option) (Cache, error) {
	adapter, err := NewAdapter(cfg)
	if err != nil {
		return nil, err
	}
	if adapter == nil {
		return NewNopCache(), nil
	}

	opts = append([]Option{WithAdapter(adapter), WithExpire(cfg.HTTPCacheExpire)}, opts...)
	return NewPageCache(opts...)
}
