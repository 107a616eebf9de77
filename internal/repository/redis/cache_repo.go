package redis

import (
	"context"
	"encoding/json"
	"errors"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jimlawless/whereami"

	"github.com/DRSN-tech/shop-backend/internal/cfg"
	"github.com/DRSN-tech/shop-backend/internal/repository/redis/converter"
	"github.com/DRSN-tech/shop-backend/internal/usecase"
	"github.com/DRSN-tech/shop-backend/pkg/clients"
	"github.com/DRSN-tech/shop-backend/pkg/e"
	"github.com/DRSN-tech/shop-backend/pkg/logger"
)

// Ключ, под которым лежит сериализованный листинг товаров.
const listingKey = "catalog:listing"

type CacheRepo struct {
	client *clients.RedisClient
	conv   converter.ProductListingConverter
	cfg    *cfg.RedisCfg
	logger logger.Logger
}

func NewCacheRepo(client *clients.RedisClient, conv converter.ProductListingConverter,
	cfg *cfg.RedisCfg, logger logger.Logger) *CacheRepo {
	return &CacheRepo{
		client: client,
		conv:   conv,
		cfg:    cfg,
		logger: logger,
	}
}

// GetProductListing возвращает закэшированный листинг товаров.
// Промах кэша не является ошибкой: возвращается (nil, false, nil).
func (r *CacheRepo) GetProductListing(ctx context.Context) ([]usecase.ProductWithCategories, bool, error) {
	data, err := r.client.Client.Get(ctx, listingKey).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, false, nil
		}

		r.logger.Warnf("Redis GET failed: %v", e.Wrap(whereami.WhereAmI(), err))
		return nil, false, e.Wrap(whereami.WhereAmI(), err)
	}

	var models []converter.ProductListingRedisModel
	if err := json.Unmarshal(data, &models); err != nil {
		r.logger.Warnf("Redis unmarshal failed: %v", e.Wrap(whereami.WhereAmI(), err))
		if err := r.client.Client.Del(context.Background(), listingKey).Err(); err != nil {
			r.logger.Warnf("Redis del failed: %v", e.Wrap(whereami.WhereAmI(), err))
		}
		return nil, false, nil
	}

	return r.conv.ToArrUseCase(models), true, nil
}

// SetProductListing кэширует листинг с заданным TTL.
// Ошибки записи только логируются: кэш не обязан быть надёжным.
func (r *CacheRepo) SetProductListing(ctx context.Context, products []usecase.ProductWithCategories) error {
	models := r.conv.ToArrRedisModel(products)

	data, err := json.Marshal(models)
	if err != nil {
		r.logger.Warnf("Failed to marshal listing for caching: %v", e.Wrap(whereami.WhereAmI(), err))
		return nil
	}

	if err := r.client.Client.Set(ctx, listingKey, data, r.cfg.ListingTTL).Err(); err != nil {
		r.logger.Warnf("Redis SET failed: %v", e.Wrap(whereami.WhereAmI(), err))
	}

	return nil
}

// InvalidateListing сбрасывает кэш листинга после изменения каталога.
func (r *CacheRepo) InvalidateListing(ctx context.Context) error {
	if err := r.client.Client.Del(ctx, listingKey).Err(); err != nil {
		r.logger.Warnf("Redis DEL failed: %v", e.Wrap(whereami.WhereAmI(), err))
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}
